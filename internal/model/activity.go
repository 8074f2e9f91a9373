package model

// ActivityEvent is the payload published to Kafka for every audited change.
type ActivityEvent struct {
	ID    string     `json:"id"` // audit entry id
	OrgID string     `json:"org_id,omitempty"`
	Entry AuditEntry `json:"entry"`
}
