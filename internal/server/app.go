package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkhouse/backend/internal/platform/logger"
)

type App struct {
	server *http.Server
	config Config
	log    logger.Logger
}

func NewApp(server *http.Server, config Config, log logger.Logger) *App {
	return &App{
		server: server,
		config: config,
		log:    log,
	}
}

// Run starts the application and handles graceful shutdown
func (a *App) Run() error {
	ctx := context.Background()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		a.log.Info(ctx, "starting server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-sigChan:
		a.log.Info(ctx, "shutdown signal received", "signal", sig.String())

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to gracefully shutdown server: %w", err)
		}
	}

	a.log.Info(ctx, "server stopped")
	return nil
}
