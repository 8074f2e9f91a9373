package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/util"
	"github.com/jmoiron/sqlx"
)

type OverridesRepositoryImpl struct {
	db *sqlx.DB
}

func NewOverridesRepository(db *sqlx.DB) *OverridesRepositoryImpl {
	return &OverridesRepositoryImpl{db: db}
}

var _ OverridesRepository = (*OverridesRepositoryImpl)(nil)

const overrideColumns = `id, org_id, sms_template_id, override_body, is_active, created_at, updated_at`

func (r *OverridesRepositoryImpl) ListByOrg(ctx context.Context, orgID string) ([]model.TemplateOverride, error) {
	var rows []model.TemplateOverride
	err := r.db.SelectContext(ctx, &rows, `SELECT `+overrideColumns+` FROM sms_template_overrides WHERE org_id = ?`, orgID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *OverridesRepositoryImpl) GetByID(ctx context.Context, id string) (*model.TemplateOverride, error) {
	return r.getOne(ctx, `SELECT `+overrideColumns+` FROM sms_template_overrides WHERE id = ? LIMIT 1`, id)
}

func (r *OverridesRepositoryImpl) getOne(ctx context.Context, q string, args ...any) (*model.TemplateOverride, error) {
	var o model.TemplateOverride
	err := r.db.GetContext(ctx, &o, q, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts o. The (org_id, sms_template_id) unique key turns a second
// override for the same pair into ErrDuplicate.
func (r *OverridesRepositoryImpl) Create(ctx context.Context, o model.TemplateOverride) (*model.TemplateOverride, error) {
	if o.ID == "" {
		o.ID = util.NewID("override")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sms_template_overrides (id, org_id, sms_template_id, override_body, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())
	`, o.ID, o.OrgID, o.SmsTemplateID, o.OverrideBody, o.IsActive)
	if isDuplicateKey(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, o.ID)
}

func (r *OverridesRepositoryImpl) Update(ctx context.Context, id string, body string, active bool) (*model.TemplateOverride, error) {
	var out model.TemplateOverride
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &out, `SELECT `+overrideColumns+` FROM sms_template_overrides WHERE id = ? FOR UPDATE`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE sms_template_overrides SET override_body = ?, is_active = ?, updated_at = NOW() WHERE id = ?
		`, body, active, id); err != nil {
			return err
		}
		return tx.GetContext(ctx, &out, `SELECT `+overrideColumns+` FROM sms_template_overrides WHERE id = ?`, id)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *OverridesRepositoryImpl) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sms_template_overrides WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
