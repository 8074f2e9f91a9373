package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/sms-admin/internal/db"
	httpSrv "github.com/jmehdipour/sms-admin/internal/http"
	"github.com/jmehdipour/sms-admin/internal/logger"
	"github.com/jmehdipour/sms-admin/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		metrics.MustRegister(prometheus.DefaultRegisterer)

		be, err := openBackend(cfg)
		if err != nil {
			return err
		}
		defer be.Close()

		redisClient, err := db.NewRedisClient(cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		if redisClient != nil {
			defer func() { _ = redisClient.Close() }()
		}

		server := httpSrv.NewServer(cfg, httpSrv.Deps{
			Repos:     be.Repos,
			Publisher: be.Publisher,
			Redis:     redisClient,
		})

		errCh := make(chan error, 1)
		go func() {
			logger.Log.Info("starting http",
				zap.String("addr", cfg.HTTP.Addr), zap.String("backend", cfg.Store.Backend))
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			logger.Log.Info("signal received, shutting down", zap.String("signal", sig.String()))
		case err := <-errCh:
			if err != nil {
				logger.Log.Error("http server exited", zap.Error(err))
			}
		}

		timeout := cfg.HTTP.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = server.Shutdown(ctx)

		return nil
	},
}
