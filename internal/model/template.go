package model

import (
	"strings"
	"time"
)

type TemplateType string

const (
	TemplateMarketing     TemplateType = "MARKETING"
	TemplateTransactional TemplateType = "TRANSACTIONAL"
)

func (t TemplateType) String() string { return string(t) }

func (t TemplateType) Valid() bool {
	return t == TemplateMarketing || t == TemplateTransactional
}

// ParseTemplateType is case-insensitive; empty is invalid.
func ParseTemplateType(s string) (TemplateType, bool) {
	t := TemplateType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.Valid()
}

// SmsTemplate is an organization-independent master template.
type SmsTemplate struct {
	ID          string       `json:"id" db:"id"`
	Key         string       `json:"key" db:"template_key"`
	Name        string       `json:"name" db:"name"`
	Type        TemplateType `json:"type" db:"type"`
	DefaultBody string       `json:"default_body" db:"default_body"`
	Description string       `json:"description,omitempty" db:"description"`
	Variables   []string     `json:"variables" db:"-"`
	IsActive    bool         `json:"is_active" db:"is_active"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

func (t SmsTemplate) Clone() SmsTemplate {
	if t.Variables != nil {
		t.Variables = append([]string(nil), t.Variables...)
	}
	return t
}

// TemplateOverride replaces a master template body for one organization.
type TemplateOverride struct {
	ID            string    `json:"id" db:"id"`
	OrgID         string    `json:"org_id" db:"org_id"`
	SmsTemplateID string    `json:"sms_template_id" db:"sms_template_id"`
	OverrideBody  string    `json:"override_body" db:"override_body"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// TemplateVersion is a snapshot of a master template taken on every edit.
type TemplateVersion struct {
	ID            string       `json:"id" db:"id"`
	TemplateID    string       `json:"template_id" db:"template_id"`
	Version       int          `json:"version" db:"version"`
	Name          string       `json:"name" db:"name"`
	Key           string       `json:"key" db:"template_key"`
	Type          TemplateType `json:"type" db:"type"`
	DefaultBody   string       `json:"default_body" db:"default_body"`
	Description   string       `json:"description,omitempty" db:"description"`
	Variables     []string     `json:"variables" db:"-"`
	IsActive      bool         `json:"is_active" db:"is_active"`
	ChangedBy     string       `json:"changed_by" db:"changed_by"`
	ChangedByName string       `json:"changed_by_name" db:"changed_by_name"`
	ChangeNote    string       `json:"change_note,omitempty" db:"change_note"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
}
