package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pnlanalyzer/service/config"
	c "pnlanalyzer/service/core"
	"pnlanalyzer/service/logger"
)

func main() {
	// initialize context and signal handler, listen for interrupt and term signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env, config.yaml and environment overrides
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(logger.LogConfig{
		Level:          cfg.Log.Level,
		Format:         cfg.Log.Format,
		TracingEnabled: cfg.Log.TracingEnabled,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// statement provider, yahoo or alpha vantage
	source, err := c.NewStatementSource(cfg)
	if err != nil {
		logger.L().Fatal("Failed to create statement source", zap.Error(err))
	}

	sc := c.NewServiceContext(cfg, source)

	// get http server, makes all of the endpoints and routes
	s := c.GetHttpServer(sc)

	// start http server in goroutine
	go func() {
		logger.Info(ctx, "Starting PnL analyzer server", zap.String("addr", s.Addr), zap.String("provider", source.Name()))
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("Server error", zap.Error(err))
		}
	}()

	// will wait here until the context is closed (ie, ctrl+C)
	<-ctx.Done()
	logger.Info(context.Background(), "Received shutdown signal, shutting down gracefully...")

	// this gives the server 10 seconds to shutdown gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "Server shutdown error", err)
	}

	if err := logger.Shutdown(shutdownCtx); err != nil {
		log.Printf("Logger shutdown error: %v", err)
	}

	log.Println("Server stopped successfully")
}
