package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/verdict-ci/verdict/internal/config"
	"github.com/verdict-ci/verdict/internal/devserver"
	"github.com/verdict-ci/verdict/pkg/log"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		panic(err)
	}

	logger := log.InitLog(log.LevelFromString(cfg.Service.LogLevel))
	defer func() { _ = logger.Sync() }()

	undo := zap.ReplaceGlobals(logger)
	defer undo()

	logger.Info("starting dev server", zap.String("address", cfg.Service.DevServerAddress))
	defer logger.Info("dev server stopped")

	listener, err := net.Listen("tcp", cfg.Service.DevServerAddress)
	if err != nil {
		logger.Fatal("creating listener", zap.Error(err))
	}

	srv := &http.Server{
		Handler:      devserver.New(logger, devserver.DefaultOptions()).Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("serving", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutting down", zap.Error(err))
	}
}
