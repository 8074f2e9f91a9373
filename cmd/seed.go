package cmd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/sms-admin/internal/db"
	"github.com/jmehdipour/sms-admin/internal/demo"
	"github.com/jmehdipour/sms-admin/internal/logger"
	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/repository"
	"github.com/jmehdipour/sms-admin/internal/repository/memory"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed MySQL (and ClickHouse, if configured) with the demo data set",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1) load config
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// 2) connect MySQL
		mysqlDB, err := db.OpenMySQL(cfg.MySQL)
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer mysqlDB.Close()

		ctx := cmd.Context()
		data := demo.Data(time.Now())

		logger.Log.Info("seeding demo data into mysql")
		if err := seedMySQL(ctx, mysqlDB, data); err != nil {
			return err
		}

		// 3) ClickHouse is optional for seeding
		if cfg.ClickHouse.DSN == "" {
			logger.Log.Warn("clickhouse.dsn empty, skipping message logs and audit")
			return nil
		}
		chDB, err := db.OpenClickHouse(cfg.ClickHouse)
		if err != nil {
			return fmt.Errorf("clickhouse connect: %w", err)
		}
		defer chDB.Close()

		if err := repository.InsertMessageLogs(ctx, chDB, data.Logs); err != nil {
			return fmt.Errorf("seed message logs: %w", err)
		}
		if err := repository.InsertAuditEntries(ctx, chDB, data.Audit); err != nil {
			return fmt.Errorf("seed audit: %w", err)
		}

		logger.Log.Info("seed completed",
			zap.Int("orgs", len(data.Organizations)), zap.Int("logs", len(data.Logs)), zap.Int("audit", len(data.Audit)))
		return nil
	},
}

// seedMySQL is idempotent: entities with natural keys are upserted, the rest
// are skipped when already present.
func seedMySQL(ctx context.Context, dbx *sqlx.DB, data memory.Data) error {
	orgs := repository.NewOrganizationsRepository(dbx)
	for _, o := range data.Organizations {
		if err := orgs.Upsert(ctx, o); err != nil {
			return fmt.Errorf("upsert org %s: %w", o.ID, err)
		}
	}

	templates := repository.NewTemplatesRepository(dbx)
	for _, t := range data.Templates {
		if err := templates.Upsert(ctx, t); err != nil {
			return fmt.Errorf("upsert template %s: %w", t.ID, err)
		}
	}

	versions := repository.NewVersionsRepository(dbx)
	for _, v := range data.Versions {
		existing, err := versions.ListByTemplate(ctx, v.TemplateID)
		if err != nil {
			return fmt.Errorf("list versions %s: %w", v.TemplateID, err)
		}
		if slices.ContainsFunc(existing, func(e model.TemplateVersion) bool { return e.Version == v.Version }) {
			continue
		}
		if err := versions.Append(ctx, v); err != nil {
			return fmt.Errorf("append version %s: %w", v.ID, err)
		}
	}

	overrides := repository.NewOverridesRepository(dbx)
	for _, o := range data.Overrides {
		if _, err := overrides.Create(ctx, o); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("create override %s: %w", o.ID, err)
		}
	}

	quiet := repository.NewQuietHoursRepository(dbx)
	for _, q := range data.QuietHours {
		if _, err := quiet.Upsert(ctx, q); err != nil {
			return fmt.Errorf("upsert quiet hours %s: %w", q.OrgID, err)
		}
	}

	prov := repository.NewProvisioningRepository(dbx)
	for _, j := range data.Provisioning {
		existing, err := prov.List(ctx, j.OrgID)
		if err != nil {
			return fmt.Errorf("list provisioning %s: %w", j.OrgID, err)
		}
		if slices.ContainsFunc(existing, func(e model.ProvisioningJob) bool { return e.ID == j.ID }) {
			continue
		}
		if _, err := prov.Insert(ctx, j); err != nil {
			return fmt.Errorf("insert provisioning %s: %w", j.ID, err)
		}
	}

	sups := repository.NewSuppressionsRepository(dbx)
	for _, s := range data.Suppressions {
		if err := sups.Insert(ctx, s); err != nil {
			return fmt.Errorf("insert suppression %s: %w", s.ID, err)
		}
	}

	jobs := repository.NewJobsRepository(dbx)
	for _, j := range data.Jobs {
		if err := jobs.Insert(ctx, j); err != nil {
			return err
		}
	}
	return nil
}
