package admin

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/quiethours"
)

// UpdateQuietHours validates and stores the organization's quiet hours.
func (s *Service) UpdateQuietHours(ctx context.Context, actor Actor, orgID string, q model.QuietHours) (*model.QuietHours, error) {
	org, err := s.org(ctx, orgID)
	if err != nil {
		return nil, err
	}
	q.OrgID = orgID
	if err := quiethours.Validate(&q); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	before, err := s.repos.QuietHours.GetByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if before == nil {
		d := quiethours.Default(orgID)
		before = &d
	}

	saved, err := s.repos.QuietHours.Upsert(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("save quiet hours: %w", err)
	}

	s.record(ctx, actor, orgID, model.AuditEntry{
		Action:     model.ActionUpdate,
		EntityType: model.EntityQuietHours,
		EntityID:   saved.ID,
		EntityName: org.Name,
		Details:    "Updated quiet hours: " + quiethours.Describe(*saved),
		Changes:    quietHoursChanges(*before, *saved),
	})
	return saved, nil
}

func quietHoursChanges(a, b model.QuietHours) []model.FieldChange {
	var out []model.FieldChange
	add := func(field, x, y string) {
		if x != y {
			out = append(out, change(field, x, y))
		}
	}
	add("enabled", strconv.FormatBool(a.Enabled), strconv.FormatBool(b.Enabled))
	add("startTime", a.StartTime, b.StartTime)
	add("endTime", a.EndTime, b.EndTime)
	add("timezone", a.Timezone, b.Timezone)
	add("daysOfWeek", fmt.Sprint(a.DaysOfWeek), fmt.Sprint(b.DaysOfWeek))
	add("applyToMarketing", strconv.FormatBool(a.ApplyToMarketing), strconv.FormatBool(b.ApplyToMarketing))
	add("applyToTransactional", strconv.FormatBool(a.ApplyToTransactional), strconv.FormatBool(b.ApplyToTransactional))
	return out
}
