package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/sms-admin/internal/config"
	"github.com/jmehdipour/sms-admin/internal/db"
	"github.com/jmehdipour/sms-admin/internal/kafka"
	"github.com/jmehdipour/sms-admin/internal/logger"
	"github.com/jmehdipour/sms-admin/internal/metrics"
	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/repository"
	"github.com/jmehdipour/sms-admin/internal/worker"
)

var auditSinkCmd = &cobra.Command{
	Use:   "audit-sink",
	Short: "Consume activity events and batch their audit entries into ClickHouse",
	RunE:  runAuditSink,
}

func runAuditSink(cmd *cobra.Command, args []string) error {
	// 1) load config
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	if len(cfg.Kafka.Brokers) == 0 {
		return errors.New("kafka.brokers is empty")
	}

	// 2) ClickHouse
	chDB, err := db.OpenClickHouse(cfg.ClickHouse)
	if err != nil {
		return fmt.Errorf("clickhouse connect: %w", err)
	}
	defer chDB.Close()

	// 3) kafka consumer
	kc := kafka.ConfigFrom(cfg.Kafka)
	if kc.GroupID == "" {
		kc.GroupID = "smsadmin-audit-sink"
	}
	consumer := kafka.NewConsumer(kc)
	defer consumer.Close()

	w := worker.NewAuditSink(consumer, func(ctx context.Context, entries []model.AuditEntry) error {
		return repository.InsertAuditEntries(ctx, chDB, entries)
	})

	// tune knobs
	if cfg.AuditSink.BatchSize > 0 {
		w.BatchSize = cfg.AuditSink.BatchSize
	}
	if cfg.AuditSink.BatchWait > 0 {
		w.BatchWait = cfg.AuditSink.BatchWait
	}

	// 4) graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log.Info("audit sink started",
		zap.String("topic", kc.Topic), zap.String("group", kc.GroupID),
		zap.Int("batch_size", w.BatchSize), zap.Duration("batch_wait", w.BatchWait))

	return w.Run(ctx)
}
