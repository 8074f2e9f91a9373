// Package dashboard assembles the read models of the admin dashboard.
package dashboard

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/jmehdipour/sms-admin/internal/delivery"
	"github.com/jmehdipour/sms-admin/internal/health"
	"github.com/jmehdipour/sms-admin/internal/metrics"
	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/quiethours"
	"github.com/jmehdipour/sms-admin/internal/repository"
	"github.com/jmehdipour/sms-admin/internal/template"
)

const (
	RecentLogsLimit = 10
	SearchLimit     = 5
)

type Service struct {
	repos       repository.Repositories
	previewVars map[string]string
	now         func() time.Time
}

// New returns the read service. previewVars override sample values in
// every preview it renders.
func New(repos repository.Repositories, previewVars map[string]string) *Service {
	return &Service{repos: repos, previewVars: maps.Clone(previewVars), now: time.Now}
}

// Summary is the landing page.
type Summary struct {
	TotalOrgs       int                  `json:"total_orgs"`
	SMSEnabled      int                  `json:"sms_enabled"`
	SMSReady        int                  `json:"sms_ready"`
	TotalTemplates  int                  `json:"total_templates"`
	ActiveTemplates int                  `json:"active_templates"`
	RecentLogs      []model.MessageLog   `json:"recent_logs"`
	RecentStats     delivery.Stats       `json:"recent_stats"`
	Orgs            []model.Organization `json:"orgs"`
	Templates       []model.SmsTemplate  `json:"templates"`
}

func (s *Service) Dashboard(ctx context.Context) (*Summary, error) {
	orgs, err := s.repos.Organizations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orgs: %w", err)
	}
	templates, err := s.repos.Templates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	logs, err := s.repos.Logs.List(ctx, model.LogFilter{Limit: RecentLogsLimit})
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	sum := &Summary{
		TotalOrgs:      len(orgs),
		TotalTemplates: len(templates),
		RecentLogs:     logs,
		RecentStats:    delivery.FromLogs(logs),
		Orgs:           orgs[:min(5, len(orgs))],
		Templates:      templates[:min(5, len(templates))],
	}
	for _, o := range orgs {
		if o.SMSEnabled {
			sum.SMSEnabled++
		}
		if o.SMSReady {
			sum.SMSReady++
		}
	}
	for _, t := range templates {
		if t.IsActive {
			sum.ActiveTemplates++
		}
	}
	return sum, nil
}

// OrgFilter narrows the organization list; nil means either value.
type OrgFilter struct {
	Enabled *bool
	Ready   *bool
}

func (f OrgFilter) match(o model.Organization) bool {
	if f.Enabled != nil && o.SMSEnabled != *f.Enabled {
		return false
	}
	if f.Ready != nil && o.SMSReady != *f.Ready {
		return false
	}
	return true
}

// OrgRow is one line of the organization list.
type OrgRow struct {
	model.Organization
	Health       health.Result  `json:"health"`
	Stats        delivery.Stats `json:"stats"`
	Suppressions int            `json:"suppressions"`
}

// OrgList is a filtered list together with the unfiltered count.
type OrgList struct {
	Total int      `json:"total"`
	Orgs  []OrgRow `json:"orgs"`
}

func (s *Service) Organizations(ctx context.Context, f OrgFilter) (*OrgList, error) {
	orgs, err := s.repos.Organizations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orgs: %w", err)
	}
	logs, err := s.repos.Logs.List(ctx, model.LogFilter{})
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	sups, err := s.repos.Suppressions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list suppressions: %w", err)
	}

	logsByOrg := make(map[string][]model.MessageLog)
	for _, l := range logs {
		logsByOrg[l.OrgID] = append(logsByOrg[l.OrgID], l)
	}
	supsByOrg := make(map[string]int)
	for _, sp := range sups {
		supsByOrg[sp.OrgID]++
	}

	out := &OrgList{Total: len(orgs), Orgs: []OrgRow{}}
	for _, o := range orgs {
		if !f.match(o) {
			continue
		}
		stats := delivery.FromLogs(logsByOrg[o.ID])
		res := health.Score(health.ReadinessOf(o), stats.DeliveryRate, supsByOrg[o.ID])
		metrics.HealthScore.WithLabelValues(o.ID).Set(float64(res.Score))
		out.Orgs = append(out.Orgs, OrgRow{Organization: o, Health: res, Stats: stats, Suppressions: supsByOrg[o.ID]})
	}
	return out, nil
}

// OrgDetail is everything the organization page shows.
type OrgDetail struct {
	Organization       model.Organization     `json:"organization"`
	Templates          []template.Effective   `json:"templates"`
	RecentLogs         []model.MessageLog     `json:"recent_logs"`
	Suppressions       []model.Suppression    `json:"suppressions"`
	LatestProvisioning *model.ProvisioningJob `json:"latest_provisioning,omitempty"`
	Jobs               []model.SmsJob         `json:"jobs"`
	Stats              delivery.Stats         `json:"stats"`
	Health             health.Result          `json:"health"`
	Issues             []string               `json:"issues"`
	QuietHours         model.QuietHours       `json:"quiet_hours"`
	QuietHoursSummary  string                 `json:"quiet_hours_summary"`
}

// OrgDetail returns repository.ErrNotFound for an unknown organization.
// Stats and health cover every log of the organization, not only the
// recent ones shown.
func (s *Service) OrgDetail(ctx context.Context, orgID string) (*OrgDetail, error) {
	org, err := s.org(ctx, orgID)
	if err != nil {
		return nil, err
	}
	effective, err := s.EffectiveTemplates(ctx, orgID)
	if err != nil {
		return nil, err
	}
	logs, err := s.repos.Logs.List(ctx, model.LogFilter{OrgID: orgID})
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	sups, err := s.repos.Suppressions.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list suppressions: %w", err)
	}
	latest, err := s.repos.Provisioning.Latest(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("latest provisioning: %w", err)
	}
	jobs, err := s.repos.Jobs.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	qh, err := s.QuietHours(ctx, orgID)
	if err != nil {
		return nil, err
	}

	stats := delivery.FromLogs(logs)
	res := health.Score(health.ReadinessOf(*org), stats.DeliveryRate, len(sups))
	metrics.HealthScore.WithLabelValues(orgID).Set(float64(res.Score))

	issues := health.Issues(*org)
	if issues == nil {
		issues = []string{}
	}
	return &OrgDetail{
		Organization:       *org,
		Templates:          effective,
		RecentLogs:         logs[:min(RecentLogsLimit, len(logs))],
		Suppressions:       nonNil(sups),
		LatestProvisioning: latest,
		Jobs:               nonNil(jobs),
		Stats:              stats,
		Health:             res,
		Issues:             issues,
		QuietHours:         *qh,
		QuietHoursSummary:  quiethours.Describe(*qh),
	}, nil
}

// Health is the health card of one organization.
type Health struct {
	OrgID        string           `json:"org_id"`
	Result       health.Result    `json:"result"`
	Stats        delivery.Stats   `json:"stats"`
	Suppressions int              `json:"suppressions"`
	Readiness    health.Readiness `json:"readiness"`
	Issues       []string         `json:"issues"`
}

func (s *Service) Health(ctx context.Context, orgID string) (*Health, error) {
	org, err := s.org(ctx, orgID)
	if err != nil {
		return nil, err
	}
	logs, err := s.repos.Logs.List(ctx, model.LogFilter{OrgID: orgID})
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	sups, err := s.repos.Suppressions.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list suppressions: %w", err)
	}
	stats := delivery.FromLogs(logs)
	r := health.ReadinessOf(*org)
	res := health.Score(r, stats.DeliveryRate, len(sups))
	metrics.HealthScore.WithLabelValues(orgID).Set(float64(res.Score))
	issues := health.Issues(*org)
	if issues == nil {
		issues = []string{}
	}
	return &Health{OrgID: orgID, Result: res, Stats: stats, Suppressions: len(sups), Readiness: r, Issues: issues}, nil
}

// EffectiveTemplates resolves every master template for the organization.
func (s *Service) EffectiveTemplates(ctx context.Context, orgID string) ([]template.Effective, error) {
	if _, err := s.org(ctx, orgID); err != nil {
		return nil, err
	}
	templates, err := s.repos.Templates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	overrides, err := s.repos.Overrides.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	return template.ResolveAll(templates, overrides), nil
}

// ProvisioningJobs lists the organization's provisioning history.
func (s *Service) ProvisioningJobs(ctx context.Context, orgID string) ([]model.ProvisioningJob, error) {
	if _, err := s.org(ctx, orgID); err != nil {
		return nil, err
	}
	jobs, err := s.repos.Provisioning.List(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list provisioning: %w", err)
	}
	return nonNil(jobs), nil
}

// QuietHours returns the saved configuration or the defaults.
func (s *Service) QuietHours(ctx context.Context, orgID string) (*model.QuietHours, error) {
	q, err := s.repos.QuietHours.GetByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("get quiet hours: %w", err)
	}
	if q == nil {
		d := quiethours.Default(orgID)
		return &d, nil
	}
	return q, nil
}

// OverrideView backs the per-organization template editor.
type OverrideView struct {
	Organization model.Organization      `json:"organization"`
	Template     model.SmsTemplate       `json:"template"`
	Override     *model.TemplateOverride `json:"override,omitempty"`
	Resolution   template.Resolution     `json:"resolution"`
	Preview      template.Preview        `json:"preview"`
	QuietNow     bool                    `json:"quiet_now"`
}

func (s *Service) OverrideView(ctx context.Context, orgID, templateID string, custom map[string]string) (*OverrideView, error) {
	org, err := s.org(ctx, orgID)
	if err != nil {
		return nil, err
	}
	tpl, err := s.repos.Templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	if tpl == nil {
		return nil, fmt.Errorf("template %w", repository.ErrNotFound)
	}
	overrides, err := s.repos.Overrides.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	res := template.Resolve(*tpl, overrides)
	var ov *model.TemplateOverride
	if cur, ok := template.Current(templateID, overrides); ok {
		ov = &cur
	}

	qh, err := s.QuietHours(ctx, orgID)
	if err != nil {
		return nil, err
	}
	quiet, err := quiethours.Active(*qh, s.now(), tpl.Type)
	if err != nil {
		return nil, err
	}

	return &OverrideView{
		Organization: *org,
		Template:     *tpl,
		Override:     ov,
		Resolution:   res,
		Preview:      s.Preview(res.Body, custom),
		QuietNow:     quiet,
	}, nil
}

// Preview renders body with configured and custom values over the samples.
func (s *Service) Preview(body string, custom map[string]string) template.Preview {
	vars := maps.Clone(s.previewVars)
	if vars == nil {
		vars = map[string]string{}
	}
	maps.Copy(vars, custom)
	return template.Render(body, vars)
}

// SearchResults groups matches by kind, at most SearchLimit each.
type SearchResults struct {
	Orgs      []model.Organization `json:"orgs"`
	Templates []model.SmsTemplate  `json:"templates"`
	Logs      []model.MessageLog   `json:"logs"`
}

// Search matches case-insensitively: organizations by name or id,
// templates by name, key or body, logs by phone number or body.
func (s *Service) Search(ctx context.Context, query string) (*SearchResults, error) {
	out := &SearchResults{Orgs: []model.Organization{}, Templates: []model.SmsTemplate{}, Logs: []model.MessageLog{}}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return out, nil
	}

	orgs, err := s.repos.Organizations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orgs: %w", err)
	}
	for _, o := range orgs {
		if len(out.Orgs) == SearchLimit {
			break
		}
		if contains(o.Name, q) || contains(o.ID, q) {
			out.Orgs = append(out.Orgs, o)
		}
	}

	templates, err := s.repos.Templates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	for _, t := range templates {
		if len(out.Templates) == SearchLimit {
			break
		}
		if contains(t.Name, q) || contains(t.Key, q) || contains(t.DefaultBody, q) {
			out.Templates = append(out.Templates, t)
		}
	}

	logs, err := s.repos.Logs.List(ctx, model.LogFilter{})
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	for _, l := range logs {
		if len(out.Logs) == SearchLimit {
			break
		}
		if strings.Contains(l.PhoneNumber, q) || contains(l.Body, q) {
			out.Logs = append(out.Logs, l)
		}
	}
	return out, nil
}

func contains(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}

func (s *Service) org(ctx context.Context, id string) (*model.Organization, error) {
	org, err := s.repos.Organizations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get org: %w", err)
	}
	if org == nil {
		return nil, fmt.Errorf("organization %w", repository.ErrNotFound)
	}
	return org, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clip(s)
}
