package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jmehdipour/sms-admin/internal/activity"
	"github.com/jmehdipour/sms-admin/internal/demo"
	"github.com/jmehdipour/sms-admin/internal/logger"
	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/repository"
	"github.com/jmehdipour/sms-admin/internal/repository/memory"
)

var (
	now   = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	actor = Actor{ID: "admin-9", Name: "Test Admin"}
)

func newService(t *testing.T) (*Service, repository.Repositories, *activity.Recorder) {
	t.Helper()
	rec := &activity.Recorder{}
	svc, repos := newServiceWith(t, demo.Data(now), rec)
	return svc, repos, rec
}

func newServiceWith(t *testing.T, data memory.Data, pub activity.Publisher) (*Service, repository.Repositories) {
	t.Helper()
	store := memory.NewStore(data)
	store.Now = func() time.Time { return now }
	repos := store.Repositories()
	svc := New(repos, pub)
	svc.now = func() time.Time { return now }
	return svc, repos
}

// withDuplicateOverrides seeds two org-5/tpl-3 overrides: an inactive one
// listed first and a newer active one.
func withDuplicateOverrides() memory.Data {
	data := demo.Data(now)
	data.Overrides = append(data.Overrides,
		model.TemplateOverride{ID: "dup-a", OrgID: "org-5", SmsTemplateID: "tpl-3", OverrideBody: "OLD INACTIVE",
			IsActive: false, CreatedAt: now, UpdatedAt: now},
		model.TemplateOverride{ID: "dup-b", OrgID: "org-5", SmsTemplateID: "tpl-3", OverrideBody: "NEW ACTIVE",
			IsActive: true, CreatedAt: now, UpdatedAt: now.Add(time.Hour)},
	)
	return data
}

type failingWriter struct{}

func (failingWriter) Write(context.Context, []byte, []byte) error {
	return errors.New("broker down")
}

func lastAudit(t *testing.T, repos repository.Repositories) model.AuditEntry {
	t.Helper()
	entries, err := repos.Audit.List(context.Background(), model.AuditFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	return entries[0]
}

func TestSetSMSEnabled(t *testing.T) {
	svc, repos, rec := newService(t)
	ctx := context.Background()

	org, err := svc.SetSMSEnabled(ctx, actor, "org-3", true)
	require.NoError(t, err)
	assert.True(t, org.SMSEnabled)

	e := lastAudit(t, repos)
	assert.Equal(t, model.ActionToggle, e.Action)
	assert.Equal(t, model.EntityOrg, e.EntityType)
	assert.Equal(t, "Enabled SMS for organization", e.Details)
	assert.Equal(t, actor.ID, e.UserID)
	assert.Equal(t, []model.FieldChange{{Field: "smsEnabled", OldValue: "false", NewValue: "true"}}, e.Changes)

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, e.ID, events[0].ID)
	assert.Equal(t, "org-3", events[0].OrgID)

	_, err = svc.SetSMSEnabled(ctx, actor, "org-404", true)
	require.ErrorIs(t, err, ErrOrgNotFound)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateOverride(t *testing.T) {
	svc, repos, _ := newService(t)
	ctx := context.Background()

	o, err := svc.CreateOverride(ctx, actor, "org-2", "tpl-1", OverrideInput{Body: "Sunrise: {{first_name}}", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "org-2", o.OrgID)

	e := lastAudit(t, repos)
	assert.Equal(t, model.ActionCreate, e.Action)
	assert.Equal(t, "Sunrise Mortgage - Home Equity Change Alert", e.EntityName)

	_, err = svc.CreateOverride(ctx, actor, "org-2", "tpl-1", OverrideInput{Body: "again"})
	require.ErrorIs(t, err, ErrOverrideExists)

	_, err = svc.CreateOverride(ctx, actor, "org-2", "tpl-404", OverrideInput{Body: "x"})
	require.ErrorIs(t, err, ErrTemplateNotFound)

	_, err = svc.CreateOverride(ctx, actor, "org-2", "tpl-2", OverrideInput{Body: "   "})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSaveOverride_CreateThenUpdate(t *testing.T) {
	svc, repos, _ := newService(t)
	ctx := context.Background()

	o, created, err := svc.SaveOverride(ctx, actor, "org-5", "tpl-3", OverrideInput{Body: "v1", IsActive: true})
	require.NoError(t, err)
	assert.True(t, created)

	o2, created, err := svc.SaveOverride(ctx, actor, "org-5", "tpl-3", OverrideInput{Body: "v2", IsActive: false})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, o.ID, o2.ID)
	assert.Equal(t, "v2", o2.OverrideBody)

	e := lastAudit(t, repos)
	assert.Equal(t, model.ActionUpdate, e.Action)
	assert.ElementsMatch(t, []model.FieldChange{
		{Field: "overrideBody", OldValue: "v1", NewValue: "v2"},
		{Field: "isActive", OldValue: "true", NewValue: "false"},
	}, e.Changes)
}

func TestDeleteOverride(t *testing.T) {
	svc, repos, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.DeleteOverride(ctx, actor, "override-1"))
	got, err := repos.Overrides.GetByID(ctx, "override-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	e := lastAudit(t, repos)
	assert.Equal(t, model.ActionDelete, e.Action)
	assert.Equal(t, "Acme Realty Group - Home Equity Change Alert", e.EntityName)

	require.ErrorIs(t, svc.DeleteOverride(ctx, actor, "override-1"), ErrOverrideNotFound)
}

func TestSaveOverride_TargetsEffectiveDuplicate(t *testing.T) {
	svc, repos := newServiceWith(t, withDuplicateOverrides(), &activity.Recorder{})
	ctx := context.Background()

	o, created, err := svc.SaveOverride(ctx, actor, "org-5", "tpl-3", OverrideInput{Body: "EDITED", IsActive: true})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "dup-b", o.ID)

	untouched, err := repos.Overrides.GetByID(ctx, "dup-a")
	require.NoError(t, err)
	assert.Equal(t, "OLD INACTIVE", untouched.OverrideBody)

	require.NoError(t, svc.DeleteOrgOverride(ctx, actor, "org-5", "tpl-3"))
	gone, err := repos.Overrides.GetByID(ctx, "dup-b")
	require.NoError(t, err)
	assert.Nil(t, gone)

	// only the inactive record is left, so it becomes the edit target
	o, created, err = svc.SaveOverride(ctx, actor, "org-5", "tpl-3", OverrideInput{Body: "REVIVED", IsActive: true})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "dup-a", o.ID)

	require.NoError(t, svc.DeleteOrgOverride(ctx, actor, "org-5", "tpl-3"))
	require.ErrorIs(t, svc.DeleteOrgOverride(ctx, actor, "org-5", "tpl-3"), ErrOverrideNotFound)
}

func TestMutation_PublishFailureLoggedOnce(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })

	pub := activity.NewKafkaPublisher(failingWriter{}, activity.NewBreaker(5, time.Minute))
	svc, repos := newServiceWith(t, demo.Data(now), pub)

	org, err := svc.SetSMSEnabled(context.Background(), actor, "org-3", true)
	require.NoError(t, err)
	assert.True(t, org.SMSEnabled)

	e := lastAudit(t, repos)
	failed := logs.FilterMessage("activity publish failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, e.ID, failed[0].ContextMap()["audit_id"])
	assert.Equal(t, 1, logs.Len())
}

func TestTriggerProvisioning(t *testing.T) {
	svc, repos, _ := newService(t)
	ctx := context.Background()

	job, err := svc.TriggerProvisioning(ctx, actor, "org-4")
	require.NoError(t, err)
	assert.Equal(t, model.JobPending, job.Status)
	require.Len(t, job.Steps, 5)
	for i, s := range job.Steps {
		assert.Equal(t, model.ProvisioningStepNames[i], s.Name)
		assert.Equal(t, model.JobPending, s.Status)
	}

	latest, err := repos.Provisioning.Latest(ctx, "org-4")
	require.NoError(t, err)
	assert.Equal(t, job.ID, latest.ID)

	_, err = svc.TriggerProvisioning(ctx, actor, "org-404")
	require.ErrorIs(t, err, ErrOrgNotFound)
}

func TestUpdateTemplate_Versions(t *testing.T) {
	svc, repos, _ := newService(t)
	ctx := context.Background()

	tpl, err := svc.UpdateTemplate(ctx, actor, "tpl-3", TemplateInput{
		Name:        "Payment Reminder",
		Type:        "transactional",
		DefaultBody: "{{first_name}}, {{amount}} is due {{due_date}}.",
		IsActive:    true,
		ChangeNote:  "Shorter",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first_name", "amount", "due_date"}, tpl.Variables)
	assert.Equal(t, model.TemplateTransactional, tpl.Type)
	assert.Equal(t, "PAYMENT_REMINDER", tpl.Key)

	versions, err := repos.Versions.ListByTemplate(ctx, "tpl-3")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 2, versions[0].Version)
	assert.Equal(t, "Shorter", versions[0].ChangeNote)
	assert.Equal(t, actor.Name, versions[0].ChangedByName)
	assert.Equal(t, "Initial version", versions[1].ChangeNote)

	e := lastAudit(t, repos)
	assert.Equal(t, "Updated template body", e.Details)

	// tpl-1 already has two versions
	_, err = svc.UpdateTemplate(ctx, actor, "tpl-1", TemplateInput{Name: "Equity", Type: model.TemplateTransactional, DefaultBody: "x"})
	require.NoError(t, err)
	versions, err = repos.Versions.ListByTemplate(ctx, "tpl-1")
	require.NoError(t, err)
	assert.Equal(t, 3, versions[0].Version)

	_, err = svc.UpdateTemplate(ctx, actor, "tpl-1", TemplateInput{Name: "x", Type: "SPAM", DefaultBody: "x"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateQuietHours(t *testing.T) {
	svc, repos, _ := newService(t)
	ctx := context.Background()

	q, err := svc.UpdateQuietHours(ctx, actor, "org-2", model.QuietHours{
		Enabled: true, StartTime: "22:00", EndTime: "07:00", Timezone: "America/Chicago",
		DaysOfWeek: []int{6, 0, 0}, ApplyToMarketing: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 6}, q.DaysOfWeek)

	e := lastAudit(t, repos)
	assert.Equal(t, model.EntityQuietHours, e.EntityType)
	assert.Contains(t, e.Changes, model.FieldChange{Field: "enabled", OldValue: "false", NewValue: "true"})

	_, err = svc.UpdateQuietHours(ctx, actor, "org-2", model.QuietHours{StartTime: "25:00", EndTime: "07:00", Timezone: "UTC"})
	require.ErrorIs(t, err, ErrInvalidInput)
}
