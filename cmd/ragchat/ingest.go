package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandevgo/ragchat/internal/config"
	"github.com/sandevgo/ragchat/internal/etl"
	"github.com/sandevgo/ragchat/pkg/log"
)

var ingestCmd = &cobra.Command{
	Use:           "ingest [path]",
	Short:         "Ingest documents into the vector store",
	Long:          `Loads .txt and .md files from the given path (or DOCUMENT_PATH), chunks and embeds them, and writes the result into the configured vector store.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return fmt.Errorf("init env: %w", err)
		}

		cfg := config.NewAppConfig(ctx)
		root := cfg.DocumentPath
		if len(args) > 0 {
			root = args[0]
		}

		embedder, store, err := buildRetrievalStack(ctx, cfg)
		if err != nil {
			return fmt.Errorf("initialize retrieval stack: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close vector store")
			}
		}()

		count, err := etl.NewPipeline(cfg, embedder, store).Run(ctx, root)
		if err != nil {
			return err
		}

		logger.Info().Int("chunk_count", count).Str("path", root).Msg("ingest finished")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
