package dashboard

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmehdipour/sms-admin/internal/demo"
	"github.com/jmehdipour/sms-admin/internal/health"
	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/repository"
	"github.com/jmehdipour/sms-admin/internal/repository/memory"
	"github.com/jmehdipour/sms-admin/internal/template"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) *Service {
	t.Helper()
	svc := New(memory.NewStore(demo.Data(now)).Repositories(), map[string]string{"first_name": "Pat"})
	svc.now = func() time.Time { return now }
	return svc
}

func TestDashboard(t *testing.T) {
	sum, err := newService(t).Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, sum.TotalOrgs)
	assert.Equal(t, 3, sum.SMSEnabled)
	assert.Equal(t, 3, sum.SMSReady)
	assert.Equal(t, 5, sum.TotalTemplates)
	assert.Equal(t, 4, sum.ActiveTemplates)
	require.Len(t, sum.RecentLogs, RecentLogsLimit)
	for i := 1; i < len(sum.RecentLogs); i++ {
		assert.False(t, sum.RecentLogs[i].CreatedAt.After(sum.RecentLogs[i-1].CreatedAt))
	}
	assert.Equal(t, RecentLogsLimit, sum.RecentStats.Total)
}

func TestOrganizations_FilterAndHealth(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	all, err := svc.Organizations(ctx, OrgFilter{})
	require.NoError(t, err)
	require.Len(t, all.Orgs, 5)

	scores := map[string]health.Result{}
	for _, row := range all.Orgs {
		scores[row.ID] = row.Health
	}
	// 5 delivered of 8 outbound = 63%; 40 + 25 + 15
	assert.Equal(t, health.Result{Score: 80, Label: health.LabelExcellent, Color: health.ColorGreen}, scores["org-1"])
	// disabled orgs are capped
	assert.Equal(t, 30, scores["org-3"].Score)
	// six suppressions: 40 + 25 + 10
	assert.Equal(t, 75, scores["org-5"].Score)

	yes := true
	enabled, err := svc.Organizations(ctx, OrgFilter{Enabled: &yes})
	require.NoError(t, err)
	assert.Equal(t, 5, enabled.Total)
	assert.Len(t, enabled.Orgs, 3)

	no := false
	notReady, err := svc.Organizations(ctx, OrgFilter{Ready: &no})
	require.NoError(t, err)
	assert.Len(t, notReady.Orgs, 2)
}

func TestOrgDetail(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	d, err := svc.OrgDetail(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Realty Group", d.Organization.Name)
	assert.Len(t, d.RecentLogs, 9)
	assert.Equal(t, 63, d.Stats.DeliveryRate)
	assert.Equal(t, 13, d.Stats.FailureRate)
	assert.Equal(t, 80, d.Health.Score)
	assert.Empty(t, d.Issues)
	require.NotNil(t, d.LatestProvisioning)
	assert.Equal(t, "prov-1", d.LatestProvisioning.ID)
	assert.True(t, d.QuietHours.Enabled)

	require.Len(t, d.Templates, 5)
	bySource := map[string]template.Source{}
	for _, e := range d.Templates {
		bySource[e.Template.ID] = e.Resolution.Source
	}
	assert.Equal(t, template.SourceOverride, bySource["tpl-1"])
	assert.Equal(t, template.SourceDefault, bySource["tpl-3"], "inactive override falls back")

	_, err = svc.OrgDetail(ctx, "org-404")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOrgDetail_DefaultQuietHoursAndIssues(t *testing.T) {
	d, err := newService(t).OrgDetail(context.Background(), "org-2")
	require.NoError(t, err)
	assert.False(t, d.QuietHours.Enabled)
	assert.Equal(t, "21:00", d.QuietHours.StartTime)
	assert.Contains(t, d.Issues, "sms_enabled_not_ready")
}

func TestOverrideView(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	v, err := svc.OverrideView(ctx, "org-1", "tpl-1", map[string]string{"equity_change": "+$1"})
	require.NoError(t, err)
	require.NotNil(t, v.Override)
	assert.Equal(t, template.SourceOverride, v.Resolution.Source)
	assert.Contains(t, v.Preview.Body, "Acme Realty: Pat, your home equity moved +$1.")
	assert.False(t, v.QuietNow, "transactional templates are not covered")

	svc.now = func() time.Time { return time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC) } // 23:00 in New York
	v, err = svc.OverrideView(ctx, "org-1", "tpl-2", nil)
	require.NoError(t, err)
	assert.Nil(t, v.Override)
	assert.Equal(t, template.SourceDefault, v.Resolution.Source)
	assert.True(t, v.QuietNow)

	_, err = svc.OverrideView(ctx, "org-1", "tpl-404", nil)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOverrideView_DuplicatesMatchEffectiveTemplates(t *testing.T) {
	data := demo.Data(now)
	data.Overrides = append(data.Overrides,
		model.TemplateOverride{ID: "dup-a", OrgID: "org-5", SmsTemplateID: "tpl-3", OverrideBody: "OLD INACTIVE",
			IsActive: false, CreatedAt: now, UpdatedAt: now},
		model.TemplateOverride{ID: "dup-b", OrgID: "org-5", SmsTemplateID: "tpl-3", OverrideBody: "NEW ACTIVE",
			IsActive: true, CreatedAt: now, UpdatedAt: now.Add(time.Hour)},
	)
	svc := New(memory.NewStore(data).Repositories(), nil)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	effective, err := svc.EffectiveTemplates(ctx, "org-5")
	require.NoError(t, err)
	var listed template.Resolution
	for _, e := range effective {
		if e.Template.ID == "tpl-3" {
			listed = e.Resolution
		}
	}
	assert.Equal(t, "NEW ACTIVE", listed.Body)

	v, err := svc.OverrideView(ctx, "org-5", "tpl-3", nil)
	require.NoError(t, err)
	assert.Equal(t, listed.Body, v.Resolution.Body)
	assert.Equal(t, template.SourceOverride, v.Resolution.Source)
	require.NotNil(t, v.Override)
	assert.Equal(t, "dup-b", v.Override.ID)
}

func TestOrgScopedListsRequireOrg(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.EffectiveTemplates(ctx, "org-404")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = svc.ProvisioningJobs(ctx, "org-404")
	require.ErrorIs(t, err, repository.ErrNotFound)

	jobs, err := svc.ProvisioningJobs(ctx, "org-1")
	require.NoError(t, err)
	require.NotEmpty(t, jobs)
	assert.Equal(t, "prov-1", jobs[0].ID)

	jobs, err = svc.ProvisioningJobs(ctx, "org-2")
	require.NoError(t, err)
	assert.NotNil(t, jobs)
}

func TestSearch(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	res, err := svc.Search(ctx, "ACME")
	require.NoError(t, err)
	require.Len(t, res.Orgs, 1)
	assert.Equal(t, "org-1", res.Orgs[0].ID)

	res, err = svc.Search(ctx, "equity_alert")
	require.NoError(t, err)
	require.Len(t, res.Templates, 1)
	assert.Equal(t, "tpl-1", res.Templates[0].ID)

	res, err = svc.Search(ctx, "555123")
	require.NoError(t, err)
	assert.Len(t, res.Logs, SearchLimit)

	res, err = svc.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, res.Orgs)
	assert.Empty(t, res.Templates)
	assert.Empty(t, res.Logs)
}

func TestHealth(t *testing.T) {
	h, err := newService(t).Health(context.Background(), "org-4")
	require.NoError(t, err)
	// nothing provisioned, no logs, no suppressions, disabled
	assert.Equal(t, 20, h.Result.Score)
	assert.Equal(t, 0, h.Stats.Total)
}

func TestExport(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	var buf strings.Builder
	n, err := svc.Export(ctx, &buf, DatasetOrgs, ExportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Org ID,Name,Country,SMS Enabled,SMS Ready,Twilio Subaccount,A2P Brand,A2P Campaigns", lines[0])

	buf.Reset()
	n, err = svc.Export(ctx, &buf, DatasetSuppressions, ExportFilter{OrgID: "org-5"})
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	_, err = svc.Export(ctx, &buf, Dataset("wallets"), ExportFilter{})
	require.Error(t, err)

	d, ok := ParseDataset(" Audit ")
	assert.True(t, ok)
	assert.Equal(t, DatasetAudit, d)
}
