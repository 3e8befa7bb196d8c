package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	// Initialize composition root with all dependencies
	root, err := NewCompositionRoot()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	// Ensure cleanup on exit
	defer func() {
		if err := root.Cleanup(); err != nil {
			root.Logger.Error("Failed to cleanup resources", zap.Error(err))
		}
	}()

	// Background consumers run until shutdown
	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go root.Monitor.Run(runCtx, root.Bus)

	// Warm the critical manifest on startup, the same pass a page-ready
	// trigger would run
	go root.Warmer.Warm(runCtx, nil)

	// Start server on Unix socket or TCP
	if socketPath := root.GetSocketPath(); socketPath != "" {
		go func() {
			if err := root.HTTPServer.StartUnixSocket(socketPath); err != nil {
				root.Logger.Error("Server failed to start on Unix socket", zap.Error(err))
			}
		}()
	} else {
		go func() {
			if err := root.HTTPServer.Start(root.Config.Server.ListenAddr); err != nil {
				root.Logger.Error("Server failed to start", zap.Error(err))
			}
		}()
	}

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	root.Logger.Info("Shutting down server...")
	cancel()

	// Create a deadline for shutdown
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := root.HTTPServer.Stop(ctx); err != nil {
		root.Logger.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	root.Logger.Info("Server exited")
}
