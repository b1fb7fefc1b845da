// Package cli implements the paperchat command line interface.
package cli

import (
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	cfgfile "github.com/custodia-labs/paperchat/internal/adapters/driven/config/file"
	openaiembed "github.com/custodia-labs/paperchat/internal/adapters/driven/embedding/openai"
	openaillm "github.com/custodia-labs/paperchat/internal/adapters/driven/llm/openai"
	manifestfile "github.com/custodia-labs/paperchat/internal/adapters/driven/manifest/file"
	registrysqlite "github.com/custodia-labs/paperchat/internal/adapters/driven/registry/sqlite"
	"github.com/custodia-labs/paperchat/internal/adapters/driven/vector/pinecone"
	"github.com/custodia-labs/paperchat/internal/chunker"
	"github.com/custodia-labs/paperchat/internal/core/ports/driven"
	"github.com/custodia-labs/paperchat/internal/core/ports/driving"
	"github.com/custodia-labs/paperchat/internal/core/services"
	"github.com/custodia-labs/paperchat/internal/logger"
	"github.com/custodia-labs/paperchat/internal/tokenizer"
)

var version = "0.1.0"

var (
	verbose   bool
	configDir string
)

// Services wired by ensureServices; tests inject their own.
var (
	cfg            *cfgfile.Config
	ingestService  driving.IngestionService
	chatService    driving.ChatService
	vectorIndex    driven.VectorIndex
	corpusRegistry driven.CorpusRegistry

	closers []io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "paperchat",
	Short: "Chat with a researcher's published work",
	Long: `Paperchat ingests a researcher's documents into a vector index and
answers questions about them, grounding every answer in retrieved
excerpts from the corpus.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.paperchat)")

	cobra.OnInitialize(func() {
		logger.SetVerbose(verbose)
	})
}

// Execute runs the root command and releases wired services afterwards.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// ensureServices wires the full stack on first use. Commands that need
// no providers (version, help) never trigger it, so they work without
// API keys.
func ensureServices() error {
	if ingestService != nil && chatService != nil {
		return nil
	}

	// API keys may live in a local env file instead of the config.
	_ = godotenv.Load(".env.local", ".env")

	c, err := cfgfile.Load(configDir)
	if err != nil {
		return err
	}
	cfg = c

	counter, err := tokenizer.New(cfg.OpenAI.EmbeddingModel)
	if err != nil {
		return err
	}
	splitter := chunker.New(counter.Count)

	embedder, err := openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.EmbeddingModel,
	})
	if err != nil {
		return err
	}

	llm, err := openaillm.NewLLMService(openaillm.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.ChatModel,
	})
	if err != nil {
		return err
	}

	index, err := pinecone.New(pinecone.Config{
		APIKey:          cfg.Pinecone.APIKey,
		ControlPlaneURL: cfg.Pinecone.ControlPlaneURL,
		Cloud:           cfg.Pinecone.Cloud,
		Region:          cfg.Pinecone.Region,
	})
	if err != nil {
		return err
	}

	registry, err := registrysqlite.NewRegistry(cfg.Data.Dir)
	if err != nil {
		return err
	}

	manifests, err := manifestfile.NewStore(cfg.Corpora.Dir)
	if err != nil {
		registry.Close()
		return err
	}

	vectorIndex = index
	corpusRegistry = registry
	closers = append(closers, embedder, llm, index, registry)

	ingestService = services.NewIngestionService(manifests, embedder, index, registry, splitter, counter)
	chatService = services.NewRAGService(registry, manifests, llm, embedder, index,
		services.WithTopK(cfg.Chat.TopK))
	return nil
}

// closeServices releases everything ensureServices opened.
func closeServices() {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "warning: closing service: %v\n", err)
		}
	}
	closers = nil
}
