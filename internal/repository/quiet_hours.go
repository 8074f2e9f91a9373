package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/util"
	"github.com/jmoiron/sqlx"
)

type QuietHoursRepositoryImpl struct {
	db *sqlx.DB
}

func NewQuietHoursRepository(db *sqlx.DB) *QuietHoursRepositoryImpl {
	return &QuietHoursRepositoryImpl{db: db}
}

var _ QuietHoursRepository = (*QuietHoursRepositoryImpl)(nil)

type quietHoursRow struct {
	model.QuietHours
	Days string `db:"days_of_week"`
}

func (r *QuietHoursRepositoryImpl) GetByOrg(ctx context.Context, orgID string) (*model.QuietHours, error) {
	var row quietHoursRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, org_id, enabled, start_time, end_time, timezone, days_of_week,
		       apply_to_marketing, apply_to_transactional, created_at, updated_at
		  FROM quiet_hours
		 WHERE org_id = ? LIMIT 1
	`, orgID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	days, err := fromJSONColumn[int](row.Days)
	if err != nil {
		return nil, fmt.Errorf("quiet hours %s days: %w", row.ID, err)
	}
	q := row.QuietHours
	q.DaysOfWeek = days
	return &q, nil
}

// Upsert keys on org_id; an existing row keeps its id and created_at.
func (r *QuietHoursRepositoryImpl) Upsert(ctx context.Context, q model.QuietHours) (*model.QuietHours, error) {
	days, err := jsonColumn(q.DaysOfWeek)
	if err != nil {
		return nil, err
	}
	if q.ID == "" {
		q.ID = util.NewID("qh")
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO quiet_hours
		    (id, org_id, enabled, start_time, end_time, timezone, days_of_week,
		     apply_to_marketing, apply_to_transactional, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
		    enabled = VALUES(enabled),
		    start_time = VALUES(start_time),
		    end_time = VALUES(end_time),
		    timezone = VALUES(timezone),
		    days_of_week = VALUES(days_of_week),
		    apply_to_marketing = VALUES(apply_to_marketing),
		    apply_to_transactional = VALUES(apply_to_transactional),
		    updated_at = NOW()
	`, q.ID, q.OrgID, q.Enabled, q.StartTime, q.EndTime, q.Timezone, days,
		q.ApplyToMarketing, q.ApplyToTransactional)
	if err != nil {
		return nil, err
	}
	return r.GetByOrg(ctx, q.OrgID)
}
