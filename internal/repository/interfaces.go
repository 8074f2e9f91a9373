package repository

import (
	"context"
	"errors"

	"github.com/jmehdipour/sms-admin/internal/model"
)

var (
	// ErrNotFound is returned by mutations that target a missing record.
	// Reads return (nil, nil) instead.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an (org, template) override already exists.
	ErrDuplicate = errors.New("duplicate record")
)

type OrganizationsRepository interface {
	List(ctx context.Context) ([]model.Organization, error)
	GetByID(ctx context.Context, id string) (*model.Organization, error)
	SetSMSEnabled(ctx context.Context, id string, enabled bool) (*model.Organization, error)
}

type TemplatesRepository interface {
	List(ctx context.Context) ([]model.SmsTemplate, error)
	GetByID(ctx context.Context, id string) (*model.SmsTemplate, error)
	Update(ctx context.Context, t model.SmsTemplate) (*model.SmsTemplate, error)
}

type OverridesRepository interface {
	ListByOrg(ctx context.Context, orgID string) ([]model.TemplateOverride, error)
	GetByID(ctx context.Context, id string) (*model.TemplateOverride, error)
	Create(ctx context.Context, o model.TemplateOverride) (*model.TemplateOverride, error)
	Update(ctx context.Context, id string, body string, active bool) (*model.TemplateOverride, error)
	Delete(ctx context.Context, id string) error
}

type LogsRepository interface {
	List(ctx context.Context, f model.LogFilter) ([]model.MessageLog, error)
}

type SuppressionsRepository interface {
	ListByOrg(ctx context.Context, orgID string) ([]model.Suppression, error)
	ListAll(ctx context.Context) ([]model.Suppression, error)
}

type ProvisioningRepository interface {
	List(ctx context.Context, orgID string) ([]model.ProvisioningJob, error)
	Latest(ctx context.Context, orgID string) (*model.ProvisioningJob, error)
	Insert(ctx context.Context, job model.ProvisioningJob) (*model.ProvisioningJob, error)
}

type JobsRepository interface {
	ListByOrg(ctx context.Context, orgID string) ([]model.SmsJob, error)
	ListAll(ctx context.Context) ([]model.SmsJob, error)
}

type AuditRepository interface {
	List(ctx context.Context, f model.AuditFilter) ([]model.AuditEntry, error)
	Append(ctx context.Context, e model.AuditEntry) error
}

type QuietHoursRepository interface {
	GetByOrg(ctx context.Context, orgID string) (*model.QuietHours, error)
	Upsert(ctx context.Context, q model.QuietHours) (*model.QuietHours, error)
}

type VersionsRepository interface {
	ListByTemplate(ctx context.Context, templateID string) ([]model.TemplateVersion, error)
	Append(ctx context.Context, v model.TemplateVersion) error
}

// Repositories bundles every repository the services need.
type Repositories struct {
	Organizations OrganizationsRepository
	Templates     TemplatesRepository
	Overrides     OverridesRepository
	Logs          LogsRepository
	Suppressions  SuppressionsRepository
	Provisioning  ProvisioningRepository
	Jobs          JobsRepository
	Audit         AuditRepository
	QuietHours    QuietHoursRepository
	Versions      VersionsRepository
}
