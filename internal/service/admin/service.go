// Package admin holds every dashboard mutation. Each successful change is
// recorded as an audit entry and published as an activity event.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jmehdipour/sms-admin/internal/activity"
	"github.com/jmehdipour/sms-admin/internal/logger"
	"github.com/jmehdipour/sms-admin/internal/metrics"
	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/repository"
	"github.com/jmehdipour/sms-admin/internal/template"
	"github.com/jmehdipour/sms-admin/internal/util"
)

var (
	ErrOverrideExists = errors.New("override already exists for this organization and template")
	ErrInvalidInput   = errors.New("invalid input")

	ErrOrgNotFound      = fmt.Errorf("organization %w", repository.ErrNotFound)
	ErrTemplateNotFound = fmt.Errorf("template %w", repository.ErrNotFound)
	ErrOverrideNotFound = fmt.Errorf("override %w", repository.ErrNotFound)
)

// Actor is the operator performing a mutation.
type Actor struct {
	ID   string
	Name string
}

type Service struct {
	repos repository.Repositories
	pub   activity.Publisher
	now   func() time.Time
}

func New(repos repository.Repositories, pub activity.Publisher) *Service {
	if pub == nil {
		pub = activity.Nop{}
	}
	return &Service{repos: repos, pub: pub, now: time.Now}
}

// record appends the audit entry and publishes it. The mutation has already
// happened, so failures here are logged rather than returned.
func (s *Service) record(ctx context.Context, actor Actor, orgID string, e model.AuditEntry) model.AuditEntry {
	e.ID = util.NewID("audit")
	e.Timestamp = s.now().UTC()
	e.UserID = actor.ID
	e.UserName = actor.Name

	metrics.MutationsTotal.WithLabelValues(string(e.EntityType), string(e.Action)).Inc()

	if err := s.repos.Audit.Append(ctx, e); err != nil {
		logger.Log.Error("audit append failed", zap.String("entity_id", e.EntityID), zap.Error(err))
	}
	if err := s.pub.Publish(ctx, model.ActivityEvent{ID: e.ID, OrgID: orgID, Entry: e}); err != nil {
		logger.Log.Warn("activity publish failed", zap.String("audit_id", e.ID), zap.Error(err))
	}
	return e
}

func change(field, oldV, newV string) model.FieldChange {
	return model.FieldChange{Field: field, OldValue: oldV, NewValue: newV}
}

func (s *Service) org(ctx context.Context, id string) (*model.Organization, error) {
	org, err := s.repos.Organizations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrOrgNotFound
	}
	return org, nil
}

func (s *Service) template(ctx context.Context, id string) (*model.SmsTemplate, error) {
	tpl, err := s.repos.Templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, ErrTemplateNotFound
	}
	return tpl, nil
}

// SetSMSEnabled flips the organization's SMS switch.
func (s *Service) SetSMSEnabled(ctx context.Context, actor Actor, orgID string, enabled bool) (*model.Organization, error) {
	before, err := s.org(ctx, orgID)
	if err != nil {
		return nil, err
	}
	after, err := s.repos.Organizations.SetSMSEnabled(ctx, orgID, enabled)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrgNotFound
		}
		return nil, fmt.Errorf("set sms enabled: %w", err)
	}

	details := "Disabled SMS for organization"
	if enabled {
		details = "Enabled SMS for organization"
	}
	s.record(ctx, actor, orgID, model.AuditEntry{
		Action:     model.ActionToggle,
		EntityType: model.EntityOrg,
		EntityID:   orgID,
		EntityName: after.Name,
		Details:    details,
		Changes: []model.FieldChange{
			change("smsEnabled", strconv.FormatBool(before.SMSEnabled), strconv.FormatBool(enabled)),
		},
	})
	return after, nil
}

// OverrideInput is the editable part of a template override.
type OverrideInput struct {
	Body     string `json:"override_body"`
	IsActive bool   `json:"is_active"`
}

func (in OverrideInput) validate() error {
	if strings.TrimSpace(in.Body) == "" {
		return fmt.Errorf("%w: override body is required", ErrInvalidInput)
	}
	return nil
}

func overrideName(org *model.Organization, tpl *model.SmsTemplate) string {
	return org.Name + " - " + tpl.Name
}

// CreateOverride adds the organization's override of a master template.
// A second override for the same pair fails with ErrOverrideExists.
func (s *Service) CreateOverride(ctx context.Context, actor Actor, orgID, templateID string, in OverrideInput) (*model.TemplateOverride, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	org, err := s.org(ctx, orgID)
	if err != nil {
		return nil, err
	}
	tpl, err := s.template(ctx, templateID)
	if err != nil {
		return nil, err
	}

	o, err := s.repos.Overrides.Create(ctx, model.TemplateOverride{
		OrgID:         orgID,
		SmsTemplateID: templateID,
		OverrideBody:  in.Body,
		IsActive:      in.IsActive,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrOverrideExists
	}
	if err != nil {
		return nil, fmt.Errorf("create override: %w", err)
	}

	s.record(ctx, actor, orgID, model.AuditEntry{
		Action:     model.ActionCreate,
		EntityType: model.EntityOverride,
		EntityID:   o.ID,
		EntityName: overrideName(org, tpl),
		Details:    "Created template override for " + org.Name,
	})
	return o, nil
}

// UpdateOverride rewrites an existing override's body and active flag.
func (s *Service) UpdateOverride(ctx context.Context, actor Actor, id string, in OverrideInput) (*model.TemplateOverride, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	before, err := s.repos.Overrides.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, ErrOverrideNotFound
	}

	after, err := s.repos.Overrides.Update(ctx, id, in.Body, in.IsActive)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOverrideNotFound
		}
		return nil, fmt.Errorf("update override: %w", err)
	}

	var changes []model.FieldChange
	if before.OverrideBody != after.OverrideBody {
		changes = append(changes, change("overrideBody", before.OverrideBody, after.OverrideBody))
	}
	if before.IsActive != after.IsActive {
		changes = append(changes, change("isActive", strconv.FormatBool(before.IsActive), strconv.FormatBool(after.IsActive)))
	}

	s.record(ctx, actor, after.OrgID, model.AuditEntry{
		Action:     model.ActionUpdate,
		EntityType: model.EntityOverride,
		EntityID:   id,
		EntityName: s.overrideLabel(ctx, after),
		Details:    "Updated template override",
		Changes:    changes,
	})
	return after, nil
}

// SaveOverride creates the (org, template) override or updates the existing
// one. created reports which happened.
func (s *Service) SaveOverride(ctx context.Context, actor Actor, orgID, templateID string, in OverrideInput) (o *model.TemplateOverride, created bool, err error) {
	cur, err := s.currentOverride(ctx, orgID, templateID)
	if err != nil {
		return nil, false, err
	}
	if cur != nil {
		o, err = s.UpdateOverride(ctx, actor, cur.ID, in)
		return o, false, err
	}
	o, err = s.CreateOverride(ctx, actor, orgID, templateID, in)
	return o, err == nil, err
}

// DeleteOverride removes an override; the organization falls back to the
// master template body.
func (s *Service) DeleteOverride(ctx context.Context, actor Actor, id string) error {
	cur, err := s.repos.Overrides.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cur == nil {
		return ErrOverrideNotFound
	}
	if err := s.repos.Overrides.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOverrideNotFound
		}
		return fmt.Errorf("delete override: %w", err)
	}

	s.record(ctx, actor, cur.OrgID, model.AuditEntry{
		Action:     model.ActionDelete,
		EntityType: model.EntityOverride,
		EntityID:   id,
		EntityName: s.overrideLabel(ctx, cur),
		Details:    "Deleted template override, reverted to default",
		Changes:    []model.FieldChange{change("overrideBody", cur.OverrideBody, "")},
	})
	return nil
}

// DeleteOrgOverride removes the organization's override of templateID.
func (s *Service) DeleteOrgOverride(ctx context.Context, actor Actor, orgID, templateID string) error {
	cur, err := s.currentOverride(ctx, orgID, templateID)
	if err != nil {
		return err
	}
	if cur == nil {
		return ErrOverrideNotFound
	}
	return s.DeleteOverride(ctx, actor, cur.ID)
}

// currentOverride picks the override the editor targets, using the same
// ordering as template resolution.
func (s *Service) currentOverride(ctx context.Context, orgID, templateID string) (*model.TemplateOverride, error) {
	overrides, err := s.repos.Overrides.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	if cur, ok := template.Current(templateID, overrides); ok {
		return &cur, nil
	}
	return nil, nil
}

// overrideLabel names an override "Org - Template" for audit entries,
// falling back to ids when either side is gone.
func (s *Service) overrideLabel(ctx context.Context, o *model.TemplateOverride) string {
	orgName, tplName := o.OrgID, o.SmsTemplateID
	if org, err := s.repos.Organizations.GetByID(ctx, o.OrgID); err == nil && org != nil {
		orgName = org.Name
	}
	if tpl, err := s.repos.Templates.GetByID(ctx, o.SmsTemplateID); err == nil && tpl != nil {
		tplName = tpl.Name
	}
	return orgName + " - " + tplName
}

// TriggerProvisioning queues a new provisioning job with every step pending.
func (s *Service) TriggerProvisioning(ctx context.Context, actor Actor, orgID string) (*model.ProvisioningJob, error) {
	org, err := s.org(ctx, orgID)
	if err != nil {
		return nil, err
	}
	job, err := s.repos.Provisioning.Insert(ctx, model.ProvisioningJob{
		OrgID:  orgID,
		Status: model.JobPending,
		Steps:  model.NewProvisioningSteps(),
	})
	if err != nil {
		return nil, fmt.Errorf("insert provisioning job: %w", err)
	}

	s.record(ctx, actor, orgID, model.AuditEntry{
		Action:     model.ActionTrigger,
		EntityType: model.EntityProvisioning,
		EntityID:   job.ID,
		EntityName: org.Name,
		Details:    "Triggered SMS provisioning",
	})
	return job, nil
}
