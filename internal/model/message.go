package model

import (
	"strings"
	"time"
)

type Direction string

const (
	DirectionOutbound Direction = "OUTBOUND"
	DirectionInbound  Direction = "INBOUND"
)

func (d Direction) String() string { return string(d) }

func (d Direction) Valid() bool {
	return d == DirectionOutbound || d == DirectionInbound
}

type MessageStatus string

const (
	StatusQueued    MessageStatus = "QUEUED"
	StatusSent      MessageStatus = "SENT"
	StatusDelivered MessageStatus = "DELIVERED"
	StatusFailed    MessageStatus = "FAILED"
	StatusReceived  MessageStatus = "RECEIVED"
)

func (s MessageStatus) String() string {
	return string(s)
}

func (s MessageStatus) Valid() bool {
	switch s {
	case StatusQueued, StatusSent, StatusDelivered, StatusFailed, StatusReceived:
		return true
	}
	return false
}

// ParseMessageStatus normalizes case; returns (value, false) for unknown input.
func ParseMessageStatus(s string) (MessageStatus, bool) {
	st := MessageStatus(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}

// ParseDirection normalizes case; returns (value, false) for unknown input.
func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	return d, d.Valid()
}

// MessageLog is one sent or received message.
type MessageLog struct {
	ID               string        `json:"id" db:"id"`
	OrgID            string        `json:"org_id" db:"org_id"`
	UserID           string        `json:"user_id,omitempty" db:"user_id"`
	Direction        Direction     `json:"direction" db:"direction"`
	PhoneNumber      string        `json:"phone_number" db:"phone_number"`
	Body             string        `json:"body" db:"body"`
	SmsTemplateID    string        `json:"sms_template_id,omitempty" db:"sms_template_id"`
	SmsJobID         string        `json:"sms_job_id,omitempty" db:"sms_job_id"`
	TwilioMessageSID string        `json:"twilio_message_sid,omitempty" db:"twilio_message_sid"`
	Status           MessageStatus `json:"status" db:"status"`
	FailureReason    string        `json:"failure_reason,omitempty" db:"failure_reason"`
	NumSegments      int           `json:"num_segments,omitempty" db:"num_segments"`
	Clicked          bool          `json:"clicked" db:"clicked"`
	ClickedAt        *time.Time    `json:"clicked_at,omitempty" db:"clicked_at"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

// LogStatus lets delivery statistics consume message logs directly.
func (m MessageLog) LogStatus() MessageStatus { return m.Status }

// LogFilter narrows a message log listing. Zero values mean "any".
type LogFilter struct {
	OrgID      string
	Direction  Direction
	Status     MessageStatus
	TemplateID string
	Phone      string
	Limit      int
}

// Match reports whether m passes every non-empty criterion of f.
func (f LogFilter) Match(m MessageLog) bool {
	if f.OrgID != "" && m.OrgID != f.OrgID {
		return false
	}
	if f.Direction != "" && m.Direction != f.Direction {
		return false
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	if f.TemplateID != "" && m.SmsTemplateID != f.TemplateID {
		return false
	}
	if f.Phone != "" && m.PhoneNumber != f.Phone {
		return false
	}
	return true
}
