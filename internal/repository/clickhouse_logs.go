package repository

import (
	"context"
	"fmt"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmoiron/sqlx"
)

// maxLogRows caps a single ClickHouse log listing.
const maxLogRows = 10000

// CHLogsRepository lists message logs from ClickHouse (deduplicated with FINAL).
type CHLogsRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewCHLogsRepository(ch *sqlx.DB) *CHLogsRepository {
	return &CHLogsRepository{ch: ch}
}

var _ LogsRepository = (*CHLogsRepository)(nil)

func (r *CHLogsRepository) List(ctx context.Context, f model.LogFilter) ([]model.MessageLog, error) {
	limit := f.Limit
	if limit <= 0 || limit > maxLogRows {
		limit = maxLogRows
	}

	q := `
		SELECT id, org_id, user_id, direction, phone_number, body, sms_template_id, sms_job_id,
		       twilio_message_sid, status, failure_reason, num_segments, clicked, clicked_at,
		       created_at, updated_at
		FROM smsadmin.message_logs FINAL
		WHERE 1 = 1
	`
	var args []any
	if f.OrgID != "" {
		q += " AND org_id = ?"
		args = append(args, f.OrgID)
	}
	if f.Direction != "" {
		q += " AND direction = ?"
		args = append(args, f.Direction.String())
	}
	if f.Status != "" {
		q += " AND status = ?"
		args = append(args, f.Status.String())
	}
	if f.TemplateID != "" {
		q += " AND sms_template_id = ?"
		args = append(args, f.TemplateID)
	}
	if f.Phone != "" {
		q += " AND phone_number = ?"
		args = append(args, f.Phone)
	}

	q += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	var rows []model.MessageLog
	if err := r.ch.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// InsertMessageLogs writes logs in one ClickHouse batch. Rows with an
// existing id replace the older version on merge.
func InsertMessageLogs(ctx context.Context, ch *sqlx.DB, logs []model.MessageLog) error {
	if len(logs) == 0 {
		return nil
	}
	tx, err := ch.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO smsadmin.message_logs
		    (id, org_id, user_id, direction, phone_number, body, sms_template_id, sms_job_id,
		     twilio_message_sid, status, failure_reason, num_segments, clicked, clicked_at,
		     created_at, updated_at)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, l := range logs {
		if _, err := stmt.ExecContext(ctx,
			l.ID, l.OrgID, l.UserID, l.Direction.String(), l.PhoneNumber, l.Body, l.SmsTemplateID, l.SmsJobID,
			l.TwilioMessageSID, l.Status.String(), l.FailureReason, int32(l.NumSegments), l.Clicked, l.ClickedAt,
			l.CreatedAt.UTC(), l.UpdatedAt.UTC(),
		); err != nil {
			return fmt.Errorf("insert log %s: %w", l.ID, err)
		}
	}
	return tx.Commit()
}
