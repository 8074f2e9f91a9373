package db

import (
	"fmt"
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jmoiron/sqlx"

	"github.com/jmehdipour/sms-admin/internal/config"
)

// NewClickHouseConnection opens ClickHouse through database/sql, e.g.
// clickhouse://default:@localhost:9000/smsadmin?dial_timeout=5s&compress=true
func NewClickHouseConnection(dsn string, opts PoolOpts) (*sqlx.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty ClickHouse DSN")
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 3 * time.Second
	}
	db, err := sqlx.Open("clickhouse", dsn)
	if err != nil {
		return nil, err
	}
	if err := configure(db, opts); err != nil {
		return nil, fmt.Errorf("clickhouse: %w", err)
	}
	return db, nil
}

func OpenClickHouse(c config.DatabaseConfig) (*sqlx.DB, error) {
	return NewClickHouseConnection(c.DSN, PoolOptsFrom(c))
}
