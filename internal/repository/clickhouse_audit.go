package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/util"
	"github.com/jmoiron/sqlx"
)

const maxAuditRows = 5000

// CHAuditRepository keeps the audit trail in ClickHouse. Field changes are
// stored as a JSON string column.
type CHAuditRepository struct {
	ch *sqlx.DB
}

func NewCHAuditRepository(ch *sqlx.DB) *CHAuditRepository {
	return &CHAuditRepository{ch: ch}
}

var _ AuditRepository = (*CHAuditRepository)(nil)

type auditRow struct {
	model.AuditEntry
	ChangesJSON string `db:"changes"`
}

func (r *CHAuditRepository) List(ctx context.Context, f model.AuditFilter) ([]model.AuditEntry, error) {
	limit := f.Limit
	if limit <= 0 || limit > maxAuditRows {
		limit = maxAuditRows
	}

	q := `
		SELECT id, timestamp, action, entity_type, entity_id, entity_name,
		       user_id, user_name, details, changes
		FROM smsadmin.audit_log
		WHERE 1 = 1
	`
	var args []any
	if f.EntityType != "" {
		q += " AND entity_type = ?"
		args = append(args, string(f.EntityType))
	}
	if f.Action != "" {
		q += " AND action = ?"
		args = append(args, string(f.Action))
	}
	if f.EntityID != "" {
		q += " AND entity_id = ?"
		args = append(args, f.EntityID)
	}
	q += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	var rows []auditRow
	if err := r.ch.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	out := make([]model.AuditEntry, 0, len(rows))
	for _, row := range rows {
		e := row.AuditEntry
		if row.ChangesJSON != "" {
			if err := json.Unmarshal([]byte(row.ChangesJSON), &e.Changes); err != nil {
				return nil, fmt.Errorf("audit %s changes: %w", row.ID, err)
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *CHAuditRepository) Append(ctx context.Context, e model.AuditEntry) error {
	return InsertAuditEntries(ctx, r.ch, []model.AuditEntry{e})
}

// InsertAuditEntries writes entries in one ClickHouse batch. The audit sink
// worker calls it with whatever it has buffered.
func InsertAuditEntries(ctx context.Context, ch *sqlx.DB, entries []model.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := ch.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO smsadmin.audit_log
		    (id, timestamp, action, entity_type, entity_id, entity_name, user_id, user_name, details, changes)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if e.ID == "" {
			e.ID = util.NewID("audit")
		}
		changes, err := jsonColumn(e.Changes)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			e.ID, e.Timestamp.UTC(), string(e.Action), string(e.EntityType), e.EntityID, e.EntityName,
			e.UserID, e.UserName, e.Details, changes,
		); err != nil {
			return fmt.Errorf("append audit %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}
