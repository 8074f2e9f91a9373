package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmoiron/sqlx"
)

type SuppressionsRepositoryImpl struct {
	db *sqlx.DB
}

func NewSuppressionsRepository(db *sqlx.DB) *SuppressionsRepositoryImpl {
	return &SuppressionsRepositoryImpl{db: db}
}

var _ SuppressionsRepository = (*SuppressionsRepositoryImpl)(nil)

const suppressionSelect = `
	SELECT id, org_id, phone_number, suppression_scope, reason, source, created_at, updated_at
	  FROM suppressions`

func (r *SuppressionsRepositoryImpl) ListByOrg(ctx context.Context, orgID string) ([]model.Suppression, error) {
	var rows []model.Suppression
	if err := r.db.SelectContext(ctx, &rows, suppressionSelect+` WHERE org_id = ? ORDER BY created_at DESC`, orgID); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *SuppressionsRepositoryImpl) ListAll(ctx context.Context) ([]model.Suppression, error) {
	var rows []model.Suppression
	if err := r.db.SelectContext(ctx, &rows, suppressionSelect+` ORDER BY created_at DESC`); err != nil {
		return nil, err
	}
	return rows, nil
}

// Insert stores s verbatim. Used by the seed command.
func (r *SuppressionsRepositoryImpl) Insert(ctx context.Context, s model.Suppression) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT IGNORE INTO suppressions
		    (id, org_id, phone_number, suppression_scope, reason, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.OrgID, s.PhoneNumber, string(s.Scope), string(s.Reason), string(s.Source), s.CreatedAt, s.UpdatedAt)
	return err
}

type JobsRepositoryImpl struct {
	db *sqlx.DB
}

func NewJobsRepository(db *sqlx.DB) *JobsRepositoryImpl {
	return &JobsRepositoryImpl{db: db}
}

var _ JobsRepository = (*JobsRepositoryImpl)(nil)

type jobRow struct {
	model.SmsJob
	MetaJSON string `db:"meta"`
}

const jobSelect = `
	SELECT id, org_id, sms_template_id, status, send_type, scheduled_at, meta, created_at, updated_at
	  FROM sms_jobs`

func (r *JobsRepositoryImpl) ListByOrg(ctx context.Context, orgID string) ([]model.SmsJob, error) {
	return r.selectJobs(ctx, jobSelect+` WHERE org_id = ? ORDER BY created_at DESC`, orgID)
}

func (r *JobsRepositoryImpl) ListAll(ctx context.Context) ([]model.SmsJob, error) {
	return r.selectJobs(ctx, jobSelect+` ORDER BY created_at DESC`)
}

func (r *JobsRepositoryImpl) selectJobs(ctx context.Context, q string, args ...any) ([]model.SmsJob, error) {
	var rows []jobRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	out := make([]model.SmsJob, 0, len(rows))
	for _, row := range rows {
		j := row.SmsJob
		if row.MetaJSON != "" {
			if err := json.Unmarshal([]byte(row.MetaJSON), &j.Meta); err != nil {
				return nil, fmt.Errorf("sms job %s meta: %w", row.ID, err)
			}
		}
		out = append(out, j)
	}
	return out, nil
}

// Insert stores j after validating it. Used by the seed command.
func (r *JobsRepositoryImpl) Insert(ctx context.Context, j model.SmsJob) error {
	if err := j.Validate(); err != nil {
		return fmt.Errorf("sms job %s: %w", j.ID, err)
	}
	meta, err := json.Marshal(j.Meta)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT IGNORE INTO sms_jobs
		    (id, org_id, sms_template_id, status, send_type, scheduled_at, meta, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, j.ID, j.OrgID, j.SmsTemplateID, string(j.Status), string(j.SendType), j.ScheduledAt, string(meta), j.CreatedAt, j.UpdatedAt)
	return err
}
