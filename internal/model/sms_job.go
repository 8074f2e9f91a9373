package model

import (
	"errors"
	"time"
)

type SendType string

const (
	SendImmediate SendType = "IMMEDIATE"
	SendScheduled SendType = "SCHEDULED"
)

// SmsJobMeta is the fixed schema of job metadata.
type SmsJobMeta struct {
	CampaignName   string `json:"campaign_name,omitempty" db:"campaign_name"`
	AudienceName   string `json:"audience_name,omitempty" db:"audience_name"`
	RecipientCount int    `json:"recipient_count" db:"recipient_count"`
	SentCount      int    `json:"sent_count" db:"sent_count"`
	FailedCount    int    `json:"failed_count" db:"failed_count"`
}

// SmsJob is a batch send of one template for one organization.
type SmsJob struct {
	ID            string     `json:"id" db:"id"`
	OrgID         string     `json:"org_id" db:"org_id"`
	SmsTemplateID string     `json:"sms_template_id" db:"sms_template_id"`
	Status        JobStatus  `json:"status" db:"status"`
	SendType      SendType   `json:"send_type" db:"send_type"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty" db:"scheduled_at"`
	Meta          SmsJobMeta `json:"meta" db:"-"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

var (
	ErrJobSchedule = errors.New("scheduled job requires scheduled_at")
	ErrJobCounts   = errors.New("job counts exceed recipient count")
)

// Validate checks the send type against ScheduledAt and the meta counters.
func (j SmsJob) Validate() error {
	switch j.SendType {
	case SendScheduled:
		if j.ScheduledAt == nil {
			return ErrJobSchedule
		}
	case SendImmediate:
	default:
		return errors.New("invalid send type")
	}
	if j.Meta.RecipientCount < 0 || j.Meta.SentCount < 0 || j.Meta.FailedCount < 0 {
		return ErrJobCounts
	}
	if j.Meta.SentCount+j.Meta.FailedCount > j.Meta.RecipientCount {
		return ErrJobCounts
	}
	return nil
}
