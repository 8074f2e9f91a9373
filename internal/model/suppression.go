package model

import "time"

type SuppressionScope string

const (
	ScopeOrg    SuppressionScope = "ORG"
	ScopeGlobal SuppressionScope = "GLOBAL"
	ScopeNumber SuppressionScope = "NUMBER"
)

type SuppressionReason string

const (
	ReasonStop   SuppressionReason = "STOP"
	ReasonBounce SuppressionReason = "BOUNCE"
	ReasonManual SuppressionReason = "MANUAL"
	ReasonOther  SuppressionReason = "OTHER"
)

type SuppressionSource string

const (
	SourceInboundSMS SuppressionSource = "INBOUND_SMS"
	SourceAdmin      SuppressionSource = "ADMIN"
	SourceImport     SuppressionSource = "IMPORT"
)

// Suppression blocks a phone number from receiving messages.
type Suppression struct {
	ID          string            `json:"id" db:"id"`
	OrgID       string            `json:"org_id" db:"org_id"`
	PhoneNumber string            `json:"phone_number" db:"phone_number"`
	Scope       SuppressionScope  `json:"suppression_scope" db:"suppression_scope"`
	Reason      SuppressionReason `json:"reason" db:"reason"`
	Source      SuppressionSource `json:"source" db:"source"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}
