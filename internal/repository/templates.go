package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmoiron/sqlx"
)

type TemplatesRepositoryImpl struct {
	db *sqlx.DB
}

func NewTemplatesRepository(db *sqlx.DB) *TemplatesRepositoryImpl {
	return &TemplatesRepositoryImpl{db: db}
}

var _ TemplatesRepository = (*TemplatesRepositoryImpl)(nil)

type templateRow struct {
	model.SmsTemplate
	VariablesJSON string `db:"variables"`
}

func (r templateRow) toModel() (model.SmsTemplate, error) {
	vars, err := fromJSONColumn[string](r.VariablesJSON)
	if err != nil {
		return model.SmsTemplate{}, fmt.Errorf("template %s variables: %w", r.ID, err)
	}
	t := r.SmsTemplate
	t.Variables = vars
	return t, nil
}

const templateColumns = `id, template_key, name, type, default_body, description, variables, is_active, created_at, updated_at`

func (r *TemplatesRepositoryImpl) List(ctx context.Context) ([]model.SmsTemplate, error) {
	var rows []templateRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+templateColumns+` FROM sms_templates ORDER BY name`); err != nil {
		return nil, err
	}
	out := make([]model.SmsTemplate, 0, len(rows))
	for _, row := range rows {
		t, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *TemplatesRepositoryImpl) GetByID(ctx context.Context, id string) (*model.SmsTemplate, error) {
	return r.get(ctx, r.db, id)
}

func (r *TemplatesRepositoryImpl) get(ctx context.Context, q sqlx.QueryerContext, id string) (*model.SmsTemplate, error) {
	var row templateRow
	err := sqlx.GetContext(ctx, q, &row, `SELECT `+templateColumns+` FROM sms_templates WHERE id = ? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Update rewrites the editable fields. template_key and created_at never change.
func (r *TemplatesRepositoryImpl) Update(ctx context.Context, t model.SmsTemplate) (*model.SmsTemplate, error) {
	vars, err := jsonColumn(t.Variables)
	if err != nil {
		return nil, err
	}
	var out *model.SmsTemplate
	err = withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		cur, err := r.get(ctx, tx, t.ID)
		if err != nil {
			return err
		}
		if cur == nil {
			return ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE sms_templates
			   SET name = ?, type = ?, default_body = ?, description = ?,
			       variables = ?, is_active = ?, updated_at = NOW()
			 WHERE id = ?
		`, t.Name, t.Type.String(), t.DefaultBody, t.Description, vars, t.IsActive, t.ID); err != nil {
			return err
		}
		out, err = r.get(ctx, tx, t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert writes t by primary key. Used by the seed command.
func (r *TemplatesRepositoryImpl) Upsert(ctx context.Context, t model.SmsTemplate) error {
	vars, err := jsonColumn(t.Variables)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sms_templates (`+templateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		    name = VALUES(name),
		    type = VALUES(type),
		    default_body = VALUES(default_body),
		    description = VALUES(description),
		    variables = VALUES(variables),
		    is_active = VALUES(is_active),
		    updated_at = VALUES(updated_at)
	`, t.ID, t.Key, t.Name, t.Type.String(), t.DefaultBody, t.Description, vars, t.IsActive, t.CreatedAt, t.UpdatedAt)
	return err
}

type VersionsRepositoryImpl struct {
	db *sqlx.DB
}

func NewVersionsRepository(db *sqlx.DB) *VersionsRepositoryImpl {
	return &VersionsRepositoryImpl{db: db}
}

var _ VersionsRepository = (*VersionsRepositoryImpl)(nil)

type versionRow struct {
	model.TemplateVersion
	VariablesJSON string `db:"variables"`
}

func (r *VersionsRepositoryImpl) ListByTemplate(ctx context.Context, templateID string) ([]model.TemplateVersion, error) {
	var rows []versionRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, template_id, version, name, template_key, type, default_body, description,
		       variables, is_active, changed_by, changed_by_name, change_note, created_at
		  FROM sms_template_versions
		 WHERE template_id = ?
		 ORDER BY version DESC
	`, templateID)
	if err != nil {
		return nil, err
	}
	out := make([]model.TemplateVersion, 0, len(rows))
	for _, row := range rows {
		vars, err := fromJSONColumn[string](row.VariablesJSON)
		if err != nil {
			return nil, fmt.Errorf("version %s variables: %w", row.ID, err)
		}
		v := row.TemplateVersion
		v.Variables = vars
		out = append(out, v)
	}
	return out, nil
}

func (r *VersionsRepositoryImpl) Append(ctx context.Context, v model.TemplateVersion) error {
	vars, err := jsonColumn(v.Variables)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sms_template_versions
		    (id, template_id, version, name, template_key, type, default_body, description,
		     variables, is_active, changed_by, changed_by_name, change_note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`, v.ID, v.TemplateID, v.Version, v.Name, v.Key, v.Type.String(), v.DefaultBody, v.Description,
		vars, v.IsActive, v.ChangedBy, v.ChangedByName, v.ChangeNote)
	return err
}
