package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/paperchat/internal/core/ports/driving"
)

var ingestYes bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [corpus]",
	Short: "Load a corpus into the vector index",
	Long: `Reads the corpus manifest, splits every document into chunks, embeds
them and uploads the result to the vector index. A corpus that was
already ingested is skipped. The projected embedding cost is shown
before any provider is called.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestYes, "yes", "y", false, "skip the cost confirmation prompt")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	corpus := args[0]

	if err := ensureServices(); err != nil {
		return err
	}

	ctx := cmd.Context()

	cost, err := ingestService.EstimateCost(ctx, corpus)
	if err != nil {
		return fmt.Errorf("estimating cost: %w", err)
	}
	cmd.Printf("Estimated embedding cost for %q: $%.6f\n", corpus, cost)

	if !ingestYes {
		cmd.Print("Proceed with ingestion? [y/N]: ")
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

	result, err := ingestService.Ingest(ctx, corpus)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	switch result.Outcome {
	case driving.OutcomeSkipped:
		cmd.Printf("Corpus %q is already ingested, nothing to do.\n", result.Corpus.Name)
	case driving.OutcomePerformed:
		cmd.Printf("Ingested %d chunks into index %q.\n", result.ChunkCount, result.Corpus.IndexName)
	}
	return nil
}
