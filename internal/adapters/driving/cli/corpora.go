package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var corporaCmd = &cobra.Command{
	Use:   "corpora",
	Short: "List ingested corpora",
	Args:  cobra.NoArgs,
	RunE:  runCorpora,
}

func init() {
	rootCmd.AddCommand(corporaCmd)
}

func runCorpora(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	names, err := chatService.ListCorpora(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing corpora: %w", err)
	}

	if len(names) == 0 {
		cmd.Println("No corpora ingested yet.")
		return nil
	}

	for _, name := range names {
		cmd.Println(name)
	}
	return nil
}
