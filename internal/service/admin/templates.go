package admin

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/repository"
	"github.com/jmehdipour/sms-admin/internal/template"
	"github.com/jmehdipour/sms-admin/internal/util"
)

// TemplateInput is the editable part of a master template. Key is fixed at
// creation; Variables are derived from the body.
type TemplateInput struct {
	Name        string             `json:"name"`
	Type        model.TemplateType `json:"type"`
	DefaultBody string             `json:"default_body"`
	Description string             `json:"description"`
	IsActive    bool               `json:"is_active"`
	ChangeNote  string             `json:"change_note"`
}

func (in *TemplateInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.DefaultBody) == "" {
		return fmt.Errorf("%w: default body is required", ErrInvalidInput)
	}
	t, ok := model.ParseTemplateType(string(in.Type))
	if !ok {
		return fmt.Errorf("%w: type must be MARKETING or TRANSACTIONAL", ErrInvalidInput)
	}
	in.Type = t
	return nil
}

// UpdateTemplate saves a master template and appends a version snapshot of
// the new state. A template without history first gets its current state
// recorded as version 1.
func (s *Service) UpdateTemplate(ctx context.Context, actor Actor, id string, in TemplateInput) (*model.SmsTemplate, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	before, err := s.template(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *before
	next.Name = in.Name
	next.Type = in.Type
	next.DefaultBody = in.DefaultBody
	next.Description = in.Description
	next.IsActive = in.IsActive
	next.Variables = template.Variables(in.DefaultBody)

	after, err := s.repos.Templates.Update(ctx, next)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("update template: %w", err)
	}

	if err := s.snapshot(ctx, actor, *before, *after, in.ChangeNote); err != nil {
		return nil, fmt.Errorf("template version: %w", err)
	}

	s.record(ctx, actor, "", model.AuditEntry{
		Action:     model.ActionUpdate,
		EntityType: model.EntityTemplate,
		EntityID:   id,
		EntityName: after.Name,
		Details:    templateDetails(*before, *after),
		Changes:    templateChanges(*before, *after),
	})
	return after, nil
}

func (s *Service) snapshot(ctx context.Context, actor Actor, before, after model.SmsTemplate, note string) error {
	versions, err := s.repos.Versions.ListByTemplate(ctx, before.ID)
	if err != nil {
		return err
	}
	last := 0
	for _, v := range versions {
		last = max(last, v.Version)
	}
	if last == 0 {
		last = 1
		initial := version(before, last, Actor{ID: "system", Name: "System"}, "Initial version")
		initial.CreatedAt = before.CreatedAt
		if err := s.repos.Versions.Append(ctx, initial); err != nil {
			return err
		}
	}
	return s.repos.Versions.Append(ctx, version(after, last+1, actor, note))
}

func version(t model.SmsTemplate, n int, actor Actor, note string) model.TemplateVersion {
	return model.TemplateVersion{
		ID:            util.NewID("ver"),
		TemplateID:    t.ID,
		Version:       n,
		Name:          t.Name,
		Key:           t.Key,
		Type:          t.Type,
		DefaultBody:   t.DefaultBody,
		Description:   t.Description,
		Variables:     slices.Clone(t.Variables),
		IsActive:      t.IsActive,
		ChangedBy:     actor.ID,
		ChangedByName: actor.Name,
		ChangeNote:    note,
	}
}

func templateChanges(a, b model.SmsTemplate) []model.FieldChange {
	var out []model.FieldChange
	if a.Name != b.Name {
		out = append(out, change("name", a.Name, b.Name))
	}
	if a.Type != b.Type {
		out = append(out, change("type", string(a.Type), string(b.Type)))
	}
	if a.DefaultBody != b.DefaultBody {
		out = append(out, change("defaultBody", a.DefaultBody, b.DefaultBody))
	}
	if a.Description != b.Description {
		out = append(out, change("description", a.Description, b.Description))
	}
	if a.IsActive != b.IsActive {
		out = append(out, change("isActive", strconv.FormatBool(a.IsActive), strconv.FormatBool(b.IsActive)))
	}
	return out
}

func templateDetails(a, b model.SmsTemplate) string {
	switch {
	case a.IsActive && !b.IsActive:
		return "Deactivated template"
	case !a.IsActive && b.IsActive:
		return "Activated template"
	case a.DefaultBody != b.DefaultBody:
		return "Updated template body"
	default:
		return "Updated template"
	}
}
