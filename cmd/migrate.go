package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/sms-admin/internal/db"
	"github.com/jmehdipour/sms-admin/internal/logger"
	"github.com/jmehdipour/sms-admin/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations (dev: DROP & CREATE MySQL tables)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		mysqlDB, err := db.OpenMySQL(cfg.MySQL)
		if err != nil {
			return fmt.Errorf("open mysql: %w", err)
		}
		defer mysqlDB.Close()

		stmts, err := migrations.MySQL()
		if err != nil {
			return err
		}
		if _, err := mysqlDB.Exec("SET FOREIGN_KEY_CHECKS = 0"); err != nil {
			return fmt.Errorf("disable fk checks: %w", err)
		}
		if err := execAll(mysqlDB, stmts); err != nil {
			_, _ = mysqlDB.Exec("SET FOREIGN_KEY_CHECKS = 1")
			return fmt.Errorf("mysql migration: %w", err)
		}
		if _, err := mysqlDB.Exec("SET FOREIGN_KEY_CHECKS = 1"); err != nil {
			return fmt.Errorf("enable fk checks: %w", err)
		}
		logger.Log.Info("mysql migration complete", zap.Int("statements", len(stmts)))

		if cfg.ClickHouse.DSN == "" {
			logger.Log.Warn("clickhouse.dsn empty, skipping clickhouse migration")
			return nil
		}
		chDB, err := db.OpenClickHouse(cfg.ClickHouse)
		if err != nil {
			return fmt.Errorf("open clickhouse: %w", err)
		}
		defer chDB.Close()

		chStmts, err := migrations.ClickHouse()
		if err != nil {
			return err
		}
		if err := execAll(chDB, chStmts); err != nil {
			return fmt.Errorf("clickhouse migration: %w", err)
		}
		logger.Log.Info("clickhouse migration complete", zap.Int("statements", len(chStmts)))
		return nil
	},
}

func execAll(dbx *sqlx.DB, stmts []string) error {
	for i, s := range stmts {
		if _, err := dbx.Exec(s); err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	return nil
}
