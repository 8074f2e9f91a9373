package repository

import (
	"context"
	"fmt"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/util"
	"github.com/jmoiron/sqlx"
)

type ProvisioningRepositoryImpl struct {
	db *sqlx.DB
}

func NewProvisioningRepository(db *sqlx.DB) *ProvisioningRepositoryImpl {
	return &ProvisioningRepositoryImpl{db: db}
}

var _ ProvisioningRepository = (*ProvisioningRepositoryImpl)(nil)

type provisioningRow struct {
	model.ProvisioningJob
	StepsJSON string `db:"steps"`
}

const provisioningSelect = `
	SELECT id, org_id, status, steps, error_message, created_at, updated_at
	  FROM provisioning_jobs`

// List returns jobs newest first; an empty orgID lists every organization.
func (r *ProvisioningRepositoryImpl) List(ctx context.Context, orgID string) ([]model.ProvisioningJob, error) {
	return r.list(ctx, orgID, 0)
}

func (r *ProvisioningRepositoryImpl) Latest(ctx context.Context, orgID string) (*model.ProvisioningJob, error) {
	jobs, err := r.list(ctx, orgID, 1)
	if err != nil || len(jobs) == 0 {
		return nil, err
	}
	return &jobs[0], nil
}

func (r *ProvisioningRepositoryImpl) list(ctx context.Context, orgID string, limit int) ([]model.ProvisioningJob, error) {
	q := provisioningSelect
	var args []any
	if orgID != "" {
		q += " WHERE org_id = ?"
		args = append(args, orgID)
	}
	q += " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []provisioningRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	out := make([]model.ProvisioningJob, 0, len(rows))
	for _, row := range rows {
		steps, err := fromJSONColumn[model.ProvisioningStep](row.StepsJSON)
		if err != nil {
			return nil, fmt.Errorf("provisioning job %s steps: %w", row.ID, err)
		}
		j := row.ProvisioningJob
		j.Steps = steps
		out = append(out, j)
	}
	return out, nil
}

func (r *ProvisioningRepositoryImpl) Insert(ctx context.Context, job model.ProvisioningJob) (*model.ProvisioningJob, error) {
	steps, err := jsonColumn(job.Steps)
	if err != nil {
		return nil, err
	}
	if job.ID == "" {
		job.ID = util.NewID("prov")
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO provisioning_jobs (id, org_id, status, steps, error_message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())
	`, job.ID, job.OrgID, string(job.Status), steps, job.ErrorMessage)
	if err != nil {
		return nil, err
	}
	jobs, err := r.list(ctx, job.OrgID, 1)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return &job, nil
	}
	return &jobs[0], nil
}
