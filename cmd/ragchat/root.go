package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandevgo/ragchat/internal/config"
	"github.com/sandevgo/ragchat/pkg/log"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "ragchat",
	Short: "ragchat — retrieval-augmented chat over your documents",
	Long:  `ragchat answers questions grounded in a local document collection, keeping a bounded per-conversation history.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
