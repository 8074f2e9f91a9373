package cmd

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jmehdipour/sms-admin/internal/activity"
	"github.com/jmehdipour/sms-admin/internal/config"
	"github.com/jmehdipour/sms-admin/internal/db"
	"github.com/jmehdipour/sms-admin/internal/demo"
	"github.com/jmehdipour/sms-admin/internal/kafka"
	"github.com/jmehdipour/sms-admin/internal/logger"
	"github.com/jmehdipour/sms-admin/internal/repository"
	"github.com/jmehdipour/sms-admin/internal/repository/memory"
)

// backend is the storage and event wiring shared by the commands.
type backend struct {
	Repos     repository.Repositories
	Publisher activity.Publisher
	closers   []func() error
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i]()
	}
}

// openBackend builds the repositories for cfg.Store.Backend. With Kafka
// brokers configured, mutations are published as activity events and on
// the sql backend the audit sink worker becomes the only audit writer.
func openBackend(cfg config.Config) (*backend, error) {
	b := &backend{Publisher: activity.Nop{}}

	switch cfg.Store.Backend {
	case config.BackendSQL:
		mysqlDB, err := db.OpenMySQL(cfg.MySQL)
		if err != nil {
			return nil, fmt.Errorf("mysql connect: %w", err)
		}
		b.closers = append(b.closers, mysqlDB.Close)

		chDB, err := db.OpenClickHouse(cfg.ClickHouse)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("clickhouse connect: %w", err)
		}
		b.closers = append(b.closers, chDB.Close)
		b.Repos = repository.NewSQLRepositories(mysqlDB, chDB)

	default:
		store := memory.NewStore(demo.Data(time.Now()))
		store.Latency = cfg.Store.Latency
		b.Repos = store.Repositories()
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(kafka.ConfigFrom(cfg.Kafka))
		b.closers = append(b.closers, producer.Close)
		breaker := activity.NewBreaker(cfg.Kafka.Breaker.FailThreshold, time.Duration(cfg.Kafka.Breaker.OpenForMs)*time.Millisecond)
		b.Publisher = activity.NewKafkaPublisher(producer, breaker)

		if cfg.Store.Backend == config.BackendSQL {
			b.Repos.Audit = activity.SinkAudit{AuditRepository: b.Repos.Audit}
		}
		logger.Log.Info("activity publishing enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	return b, nil
}
