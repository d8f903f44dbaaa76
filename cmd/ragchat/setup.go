package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/ragchat/internal/config"
	"github.com/sandevgo/ragchat/internal/core"
	"github.com/sandevgo/ragchat/internal/etl"
	"github.com/sandevgo/ragchat/internal/providers/embed"
	"github.com/sandevgo/ragchat/internal/providers/llm"
	"github.com/sandevgo/ragchat/internal/providers/retriever"
	"github.com/sandevgo/ragchat/internal/providers/vectorstore"
	"github.com/sandevgo/ragchat/internal/service/chat"
	"github.com/sandevgo/ragchat/internal/service/memory"
	"github.com/sandevgo/ragchat/internal/transport/httpapi"
	"github.com/sandevgo/ragchat/internal/transport/telegram"
	"github.com/sandevgo/ragchat/pkg/log"
	"github.com/sandevgo/ragchat/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)

	// 2. Retrieval stack: embedder + vector store + retriever
	embedder, store, err := buildRetrievalStack(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize retrieval stack")
	}
	services = append(services, srv.NewCleanup(store.Close))

	// 3. Document ingestion on startup
	if _, err := os.Stat(appCfg.DocumentPath); err == nil {
		pipeline := etl.NewPipeline(appCfg, embedder, store)
		if _, err := pipeline.Run(ctx, appCfg.DocumentPath); err != nil {
			logger.Fatal().Err(err).Msg("failed to ingest documents")
		}
	} else {
		logger.Warn().Str("path", appCfg.DocumentPath).Msg("document path missing, skipping ingestion")
	}

	// 4. AI Provider
	aiProvider, err := llm.NewProvider(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 5. Conversation memory
	window := memory.NewWindow(appCfg.MaxMessages)

	// 6. Chat service
	chatService := chat.NewService(
		appCfg,
		aiProvider,
		retriever.New(embedder, store),
		window,
		chat.NewSysPrompt(appCfg.GetSystemPromptPath()),
	)

	// 7. Transports
	transports, err := initTransports(ctx, appCfg, chatService, window)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	services = append(services, transports...)

	return services
}

func buildRetrievalStack(ctx context.Context, cfg *config.AppConfig) (core.Embedder, core.VectorStore, error) {
	embedder, err := embed.NewEmbedder(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := vectorstore.NewStore(ctx, cfg, embedder.Dimensions())
	if err != nil {
		return nil, nil, err
	}

	return embedder, store, nil
}

func initTransports(
	ctx context.Context,
	cfg *config.AppConfig,
	chatService *chat.Service,
	window *memory.Window,
) ([]srv.Service, error) {
	var services []srv.Service

	if cfg.EnableHTTP {
		services = append(services, httpapi.NewServer(cfg.HTTPAddr, chatService, window))
	}

	if cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, chatService)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
