package serve

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dtnitsch/blank-page-detector/internal/common"
	"github.com/dtnitsch/blank-page-detector/pkg/api"
	"github.com/dtnitsch/blank-page-detector/pkg/fetcher"
	"github.com/dtnitsch/blank-page-detector/pkg/scanner"
	"github.com/urfave/cli/v2"
)

const shutdownGrace = 30 * time.Second

func ServeAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := common.ConfigFromContext(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return cli.Exit(err.Error(), 2)
	}

	s := scanner.New(cfg, logger, fetcher.NewFetcher(cfg))
	srv := &http.Server{
		Addr:              c.String("addr"),
		Handler:           api.NewHandler(s, cfg.MaxBatchSize, logger),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", srv.Addr, "concurrency", cfg.Concurrency, "timeout", cfg.Timeout.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			return cli.Exit(err.Error(), 2)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return cli.Exit(err.Error(), 2)
	}
	return nil
}
