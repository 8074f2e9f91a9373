package model

import "time"

type AuditAction string

const (
	ActionCreate  AuditAction = "CREATE"
	ActionUpdate  AuditAction = "UPDATE"
	ActionDelete  AuditAction = "DELETE"
	ActionTrigger AuditAction = "TRIGGER"
	ActionToggle  AuditAction = "TOGGLE"
)

func (a AuditAction) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionTrigger, ActionToggle:
		return true
	}
	return false
}

type EntityType string

const (
	EntityTemplate     EntityType = "TEMPLATE"
	EntityOverride     EntityType = "OVERRIDE"
	EntityOrg          EntityType = "ORG"
	EntityProvisioning EntityType = "PROVISIONING"
	EntitySuppression  EntityType = "SUPPRESSION"
	EntityQuietHours   EntityType = "QUIET_HOURS"
)

func (e EntityType) Valid() bool {
	switch e {
	case EntityTemplate, EntityOverride, EntityOrg, EntityProvisioning, EntitySuppression, EntityQuietHours:
		return true
	}
	return false
}

type FieldChange struct {
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// AuditEntry records one operator action.
type AuditEntry struct {
	ID         string        `json:"id" db:"id"`
	Timestamp  time.Time     `json:"timestamp" db:"timestamp"`
	Action     AuditAction   `json:"action" db:"action"`
	EntityType EntityType    `json:"entity_type" db:"entity_type"`
	EntityID   string        `json:"entity_id" db:"entity_id"`
	EntityName string        `json:"entity_name" db:"entity_name"`
	UserID     string        `json:"user_id" db:"user_id"`
	UserName   string        `json:"user_name" db:"user_name"`
	Details    string        `json:"details" db:"details"`
	Changes    []FieldChange `json:"changes,omitempty" db:"-"`
}

// AuditFilter narrows an audit listing. Zero values mean "any".
type AuditFilter struct {
	EntityType EntityType
	Action     AuditAction
	EntityID   string
	Limit      int
}

func (f AuditFilter) Match(e AuditEntry) bool {
	if f.EntityType != "" && e.EntityType != f.EntityType {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.EntityID != "" && e.EntityID != f.EntityID {
		return false
	}
	return true
}
