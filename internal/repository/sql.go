package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func withTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	t, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = t.Rollback() }()
	if err := fn(t); err != nil {
		return err
	}
	return t.Commit()
}

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// jsonColumn encodes v for a JSON/TEXT column; nil slices become "[]".
func jsonColumn[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func fromJSONColumn[T any](s string) ([]T, error) {
	if s == "" {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NewSQLRepositories wires MySQL for the dashboard entities and ClickHouse
// for message logs and the audit trail.
func NewSQLRepositories(mysqlDB, ch *sqlx.DB) Repositories {
	return Repositories{
		Organizations: NewOrganizationsRepository(mysqlDB),
		Templates:     NewTemplatesRepository(mysqlDB),
		Overrides:     NewOverridesRepository(mysqlDB),
		Logs:          NewCHLogsRepository(ch),
		Suppressions:  NewSuppressionsRepository(mysqlDB),
		Provisioning:  NewProvisioningRepository(mysqlDB),
		Jobs:          NewJobsRepository(mysqlDB),
		Audit:         NewCHAuditRepository(ch),
		QuietHours:    NewQuietHoursRepository(mysqlDB),
		Versions:      NewVersionsRepository(mysqlDB),
	}
}
