package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/mindfulai/backend/internal/config"
	"github.com/mindfulai/backend/internal/handler"
	"github.com/mindfulai/backend/internal/handler/system"
	"github.com/mindfulai/backend/internal/model/persona"
	chatservice "github.com/mindfulai/backend/internal/service/chat"
	"github.com/mindfulai/backend/internal/service/completion"
	emotionservice "github.com/mindfulai/backend/internal/service/emotion"
	logx "github.com/mindfulai/backend/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logx.Init()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logx.Warn().Err(err).Msg("failed to load .env file, continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load configuration")
	}
	logx.Init(logx.Options{Production: cfg.Environment.IsProduction(), Level: cfg.LogLevel})

	// Remote completion client; without credentials every endpoint runs on local fallbacks.
	var completer *completion.Client
	if cfg.AI.APIKeyConfigured() {
		completer, err = completion.New(ctx, cfg.AI)
		if err != nil {
			logx.Warn().Err(err).Msg("failed to initialize completion client, continuing with fallback responses")
			completer = nil
		} else {
			logx.Info().
				Str("provider", completer.Provider()).
				Str("model", completer.Model()).
				Str("api_key", cfg.AI.MaskedAPIKey()).
				Dur("timeout", cfg.AI.Timeout).
				Msg("completion client initialized")
		}
	} else {
		logx.Warn().
			Str("provider", cfg.AI.ProviderName()).
			Msg("API key not configured, all replies will use fallback responses")
	}

	var emotionCompleter emotionservice.Completer
	var chatCompleter chatservice.Completer
	if completer != nil {
		emotionCompleter = completer
		chatCompleter = completer
	}

	emotionSvc, err := emotionservice.NewService(emotionCompleter, emotionservice.Config{
		Enabled: cfg.AI.EmotionLLMEnabled,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialize emotion service")
	}
	if emotionSvc.Enabled() {
		logx.Info().Msg("emotion classifier service enabled")
	} else {
		logx.Info().Msg("emotion classifier using keyword matching only")
	}

	companion := persona.Default()
	chatSvc := chatservice.NewService(chatCompleter, emotionSvc, companion)

	router := handler.NewRouter(handler.Dependencies{
		Emotion: emotionSvc,
		Chat:    chatSvc,
		Persona: companion,
		System: system.Info{
			Provider:         cfg.AI.ProviderName(),
			Model:            cfg.AI.Model,
			APIKeyConfigured: cfg.AI.APIKeyConfigured(),
		},
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	if err := startServer(ctx, cfg.Server, router); err != nil {
		logx.Fatal().Err(err).Msg("server error")
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) error {
	addr, err := serverCfg.Addr()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logx.Info().Str("addr", addr).Msg("MindfulAI backend listening")
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logx.Info().Msg("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
