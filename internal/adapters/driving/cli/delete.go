package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperchat/internal/core/domain"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete [corpus]",
	Short: "Delete a corpus index",
	Long: `Removes the corpus's vector index from the provider and deregisters
it locally, so it can be re-ingested from scratch. The source documents
on disk are untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	corpus := domain.NewCorpus(args[0])

	if err := ensureServices(); err != nil {
		return err
	}

	if !deleteYes {
		cmd.Printf("Delete index %q? This cannot be undone. [y/N]: ", corpus.IndexName)
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading confirmation: %w", err)
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	ctx := cmd.Context()

	err := vectorIndex.DeleteIndex(ctx, corpus.IndexName)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("deleting index: %w", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		cmd.Printf("Index %q does not exist, deregistering anyway.\n", corpus.IndexName)
	}

	if err := corpusRegistry.Delete(ctx, corpus.IndexName); err != nil {
		return fmt.Errorf("deregistering corpus: %w", err)
	}

	cmd.Printf("Deleted corpus %q.\n", corpus.Name)
	return nil
}
