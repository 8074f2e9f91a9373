package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmoiron/sqlx"
)

type OrganizationsRepositoryImpl struct {
	db *sqlx.DB
}

func NewOrganizationsRepository(db *sqlx.DB) *OrganizationsRepositoryImpl {
	return &OrganizationsRepositoryImpl{db: db}
}

var _ OrganizationsRepository = (*OrganizationsRepositoryImpl)(nil)

type orgRow struct {
	model.Organization
	CampaignIDs string `db:"a2p_campaign_ids"`
}

func (r orgRow) toModel() (model.Organization, error) {
	ids, err := fromJSONColumn[string](r.CampaignIDs)
	if err != nil {
		return model.Organization{}, fmt.Errorf("org %s campaign ids: %w", r.ID, err)
	}
	o := r.Organization
	o.A2PCampaignIDs = ids
	return o, nil
}

const orgColumns = `
	id, name, sms_enabled, sms_ready, twilio_subaccount_sid,
	marketing_messaging_service_sid, transactional_messaging_service_sid,
	a2p_brand_id, a2p_campaign_ids, country, created_at, updated_at`

func (r *OrganizationsRepositoryImpl) List(ctx context.Context) ([]model.Organization, error) {
	var rows []orgRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+orgColumns+` FROM organizations ORDER BY name`); err != nil {
		return nil, err
	}
	out := make([]model.Organization, 0, len(rows))
	for _, row := range rows {
		o, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *OrganizationsRepositoryImpl) GetByID(ctx context.Context, id string) (*model.Organization, error) {
	var row orgRow
	err := r.db.GetContext(ctx, &row, `SELECT `+orgColumns+` FROM organizations WHERE id = ? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrganizationsRepositoryImpl) SetSMSEnabled(ctx context.Context, id string, enabled bool) (*model.Organization, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE organizations SET sms_enabled = ?, updated_at = NOW() WHERE id = ?`, enabled, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports 0 for a no-op update too; confirm the row exists.
		o, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if o == nil {
			return nil, ErrNotFound
		}
		return o, nil
	}
	return r.GetByID(ctx, id)
}

// Upsert writes o by primary key. Used by the seed command.
func (r *OrganizationsRepositoryImpl) Upsert(ctx context.Context, o model.Organization) error {
	ids, err := jsonColumn(o.A2PCampaignIDs)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO organizations
		    (id, name, sms_enabled, sms_ready, twilio_subaccount_sid,
		     marketing_messaging_service_sid, transactional_messaging_service_sid,
		     a2p_brand_id, a2p_campaign_ids, country, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		    name = VALUES(name),
		    sms_enabled = VALUES(sms_enabled),
		    sms_ready = VALUES(sms_ready),
		    twilio_subaccount_sid = VALUES(twilio_subaccount_sid),
		    marketing_messaging_service_sid = VALUES(marketing_messaging_service_sid),
		    transactional_messaging_service_sid = VALUES(transactional_messaging_service_sid),
		    a2p_brand_id = VALUES(a2p_brand_id),
		    a2p_campaign_ids = VALUES(a2p_campaign_ids),
		    country = VALUES(country),
		    updated_at = VALUES(updated_at)
	`, o.ID, o.Name, o.SMSEnabled, o.SMSReady, o.TwilioSubaccountSID,
		o.MarketingMessagingServiceSID, o.TransactionalMessagingServiceSID,
		o.A2PBrandID, ids, o.Country, o.CreatedAt, o.UpdatedAt)
	return err
}
