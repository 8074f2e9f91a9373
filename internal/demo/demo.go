// Package demo builds the sample data set served by the memory backend and
// loaded by the seed command.
package demo

import (
	"fmt"
	"time"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/repository/memory"
	"github.com/jmehdipour/sms-admin/internal/template"
)

// Data returns the demo set with timestamps relative to now.
func Data(now time.Time) memory.Data {
	now = now.UTC().Truncate(time.Second)
	ago := func(d time.Duration) time.Time { return now.Add(-d) }
	day := 24 * time.Hour

	orgs := []model.Organization{
		{
			ID: "org-1", Name: "Acme Realty Group", SMSEnabled: true, SMSReady: true,
			TwilioSubaccountSID: "AC1a2b3c", MarketingMessagingServiceSID: "MG100", TransactionalMessagingServiceSID: "MG101",
			A2PBrandID: "BN001", A2PCampaignIDs: []string{"CM001", "CM002"}, Country: "US",
			CreatedAt: ago(200 * day), UpdatedAt: ago(5 * day),
		},
		{
			ID: "org-2", Name: "Sunrise Mortgage", SMSEnabled: true, SMSReady: false,
			TwilioSubaccountSID: "AC4d5e6f", Country: "US",
			CreatedAt: ago(120 * day), UpdatedAt: ago(2 * day),
		},
		{
			ID: "org-3", Name: "Metro Property Management", SMSEnabled: false, SMSReady: true,
			TwilioSubaccountSID: "AC7g8h9i", MarketingMessagingServiceSID: "MG300", TransactionalMessagingServiceSID: "MG301",
			A2PBrandID: "BN003", A2PCampaignIDs: []string{"CM003"}, Country: "US",
			CreatedAt: ago(300 * day), UpdatedAt: ago(1 * day),
		},
		{
			ID: "org-4", Name: "Pacific Coast Homes", SMSEnabled: false, SMSReady: false,
			Country: "US", CreatedAt: ago(10 * day), UpdatedAt: ago(10 * day),
		},
		{
			ID: "org-5", Name: "Lakeside Lending", SMSEnabled: true, SMSReady: true,
			TwilioSubaccountSID: "ACj1k2l3", A2PBrandID: "BN005", Country: "US",
			CreatedAt: ago(90 * day), UpdatedAt: ago(20 * day),
		},
	}

	tpl := func(id, key, name string, tt model.TemplateType, body, desc string, active bool, age time.Duration) model.SmsTemplate {
		return model.SmsTemplate{
			ID: id, Key: key, Name: name, Type: tt, DefaultBody: body, Description: desc,
			Variables: template.Variables(body), IsActive: active,
			CreatedAt: ago(age), UpdatedAt: ago(age / 4),
		}
	}
	templates := []model.SmsTemplate{
		tpl("tpl-1", "EQUITY_ALERT", "Home Equity Change Alert", model.TemplateTransactional,
			"Hi {{first_name}}, your equity changed by {{equity_change}}. View: {{short_link}} Reply STOP to opt out.",
			"Sent when homeowner equity changes significantly", true, 180*day),
		tpl("tpl-2", "MARKETING_NEW_LISTING", "New Property Listing", model.TemplateMarketing,
			"{{first_name}}, check out this new {{property_type}} in {{location}}: {{short_link}} Reply STOP to unsubscribe.",
			"Announces listings matching saved searches", true, 150*day),
		tpl("tpl-3", "PAYMENT_REMINDER", "Payment Reminder", model.TemplateTransactional,
			"{{first_name}}, payment of {{amount}} due {{due_date}}. Pay: {{short_link}}",
			"Reminder three days before a payment is due", true, 140*day),
		tpl("tpl-4", "APPOINTMENT_CONFIRMATION", "Appointment Confirmation", model.TemplateTransactional,
			"Hi {{first_name}}, your showing with {{agent_name}} is confirmed for {{appointment_date}} at {{appointment_time}}.",
			"", true, 100*day),
		tpl("tpl-5", "OPEN_HOUSE_INVITE", "Open House Invite", model.TemplateMarketing,
			"{{first_name}}, join us at {{address}} this weekend. Details: {{short_link}} STOP to opt out.",
			"Seasonal campaign, paused", false, 60*day),
	}

	overrides := []model.TemplateOverride{
		{ID: "override-1", OrgID: "org-1", SmsTemplateID: "tpl-1", IsActive: true,
			OverrideBody: "Acme Realty: {{first_name}}, your home equity moved {{equity_change}}. See more: {{short_link}} STOP to end.",
			CreatedAt:    ago(40 * day), UpdatedAt: ago(3 * day)},
		{ID: "override-2", OrgID: "org-1", SmsTemplateID: "tpl-3", IsActive: false,
			OverrideBody: "Acme: {{amount}} due {{due_date}}",
			CreatedAt:    ago(30 * day), UpdatedAt: ago(30 * day)},
		{ID: "override-3", OrgID: "org-3", SmsTemplateID: "tpl-2", IsActive: true,
			OverrideBody: "Metro PM: new {{property_type}} near {{location}}! {{short_link}} Reply STOP to opt out.",
			CreatedAt:    ago(20 * day), UpdatedAt: ago(8 * day)},
	}

	phones := []string{"+15551230001", "+15551230002", "+15551230003", "+15551230004", "+15551230005"}
	statuses := []model.MessageStatus{
		model.StatusDelivered, model.StatusDelivered, model.StatusDelivered, model.StatusSent,
		model.StatusFailed, model.StatusDelivered, model.StatusQueued, model.StatusDelivered,
	}
	var logs []model.MessageLog
	n := 0
	for _, org := range []string{"org-1", "org-2", "org-3", "org-5"} {
		for i, st := range statuses {
			n++
			t := templates[i%3]
			created := ago(time.Duration(n) * 3 * time.Hour)
			l := model.MessageLog{
				ID: fmt.Sprintf("log-%d", n), OrgID: org, Direction: model.DirectionOutbound,
				PhoneNumber: phones[i%len(phones)], Body: template.Substitute(t.DefaultBody, nil),
				SmsTemplateID: t.ID, SmsJobID: "job-1", TwilioMessageSID: fmt.Sprintf("SM%04d", n),
				Status: st, NumSegments: 1, CreatedAt: created, UpdatedAt: created,
			}
			if st == model.StatusFailed {
				l.FailureReason = "Carrier rejected message"
			}
			if st == model.StatusDelivered && i%3 == 0 {
				clicked := created.Add(10 * time.Minute)
				l.Clicked, l.ClickedAt = true, &clicked
			}
			logs = append(logs, l)
		}
		n++
		created := ago(time.Duration(n) * 3 * time.Hour)
		logs = append(logs, model.MessageLog{
			ID: fmt.Sprintf("log-%d", n), OrgID: org, Direction: model.DirectionInbound,
			PhoneNumber: phones[4], Body: "STOP", Status: model.StatusReceived,
			CreatedAt: created, UpdatedAt: created,
		})
	}

	sup := func(id, org, phone string, scope model.SuppressionScope, reason model.SuppressionReason, src model.SuppressionSource, age time.Duration) model.Suppression {
		return model.Suppression{ID: id, OrgID: org, PhoneNumber: phone, Scope: scope, Reason: reason, Source: src, CreatedAt: ago(age), UpdatedAt: ago(age)}
	}
	suppressions := []model.Suppression{
		sup("sup-1", "org-1", "+15551230005", model.ScopeOrg, model.ReasonStop, model.SourceInboundSMS, 2*day),
		sup("sup-2", "org-2", "+15551230005", model.ScopeOrg, model.ReasonStop, model.SourceInboundSMS, 3*day),
		sup("sup-3", "org-2", "+15559870001", model.ScopeNumber, model.ReasonBounce, model.SourceImport, 12*day),
		sup("sup-4", "org-3", "+15559870002", model.ScopeGlobal, model.ReasonManual, model.SourceAdmin, 30*day),
	}
	for i := 0; i < 6; i++ {
		suppressions = append(suppressions, sup(fmt.Sprintf("sup-%d", 5+i), "org-5",
			fmt.Sprintf("+1555444%04d", i), model.ScopeOrg, model.ReasonStop, model.SourceInboundSMS, time.Duration(i+1)*day))
	}

	completed := func(msg string) []model.ProvisioningStep {
		steps := model.NewProvisioningSteps()
		for i := range steps {
			steps[i].Status = model.JobComplete
		}
		if msg != "" {
			steps[3].Status = model.JobFailed
			steps[3].Message = msg
			steps[4].Status = model.JobPending
		}
		return steps
	}
	provisioning := []model.ProvisioningJob{
		{ID: "prov-1", OrgID: "org-1", Status: model.JobComplete, Steps: completed(""), CreatedAt: ago(190 * day), UpdatedAt: ago(189 * day)},
		{ID: "prov-2", OrgID: "org-2", Status: model.JobFailed, Steps: completed("Brand registration rejected: EIN mismatch"),
			ErrorMessage: "Register A2P brand failed", CreatedAt: ago(6 * day), UpdatedAt: ago(6 * day)},
		{ID: "prov-3", OrgID: "org-3", Status: model.JobComplete, Steps: completed(""), CreatedAt: ago(290 * day), UpdatedAt: ago(289 * day)},
	}

	scheduled := now.Add(2 * day)
	jobs := []model.SmsJob{
		{ID: "job-1", OrgID: "org-1", SmsTemplateID: "tpl-1", Status: model.JobComplete, SendType: model.SendImmediate,
			Meta:      model.SmsJobMeta{CampaignName: "Monthly equity update", AudienceName: "All homeowners", RecipientCount: 8, SentCount: 7, FailedCount: 1},
			CreatedAt: ago(3 * day), UpdatedAt: ago(3 * day)},
		{ID: "job-2", OrgID: "org-3", SmsTemplateID: "tpl-2", Status: model.JobPending, SendType: model.SendScheduled, ScheduledAt: &scheduled,
			Meta:      model.SmsJobMeta{CampaignName: "Spring listings", AudienceName: "Buyers", RecipientCount: 250},
			CreatedAt: ago(1 * day), UpdatedAt: ago(1 * day)},
	}

	quiet := []model.QuietHours{
		{ID: "qh-1", OrgID: "org-1", Enabled: true, StartTime: "21:00", EndTime: "09:00", Timezone: "America/New_York",
			DaysOfWeek: []int{0, 1, 2, 3, 4, 5, 6}, ApplyToMarketing: true, CreatedAt: ago(30 * day), UpdatedAt: ago(5 * day)},
		{ID: "qh-2", OrgID: "org-4", Enabled: true, StartTime: "20:00", EndTime: "08:00", Timezone: "America/Los_Angeles",
			DaysOfWeek: []int{0, 1, 2, 3, 4, 5, 6}, ApplyToMarketing: true, ApplyToTransactional: true, CreatedAt: ago(60 * day), UpdatedAt: ago(10 * day)},
	}

	audit := []model.AuditEntry{
		{ID: "audit-1", Timestamp: ago(5 * time.Hour), Action: model.ActionToggle, EntityType: model.EntityOrg, EntityID: "org-3",
			EntityName: "Metro Property Management", UserID: "admin-1", UserName: "Sarah Admin", Details: "Disabled SMS for organization",
			Changes: []model.FieldChange{{Field: "smsEnabled", OldValue: "true", NewValue: "false"}}},
		{ID: "audit-2", Timestamp: ago(3 * day), Action: model.ActionUpdate, EntityType: model.EntityOverride, EntityID: "override-1",
			EntityName: "Acme Realty Group - Home Equity Change Alert", UserID: "admin-2", UserName: "Mike Support", Details: "Updated template override"},
		{ID: "audit-3", Timestamp: ago(6 * day), Action: model.ActionTrigger, EntityType: model.EntityProvisioning, EntityID: "prov-2",
			EntityName: "Sunrise Mortgage", UserID: "admin-1", UserName: "Sarah Admin", Details: "Triggered SMS provisioning"},
	}

	versions := []model.TemplateVersion{
		{ID: "ver-tpl-1-1", TemplateID: "tpl-1", Version: 1, Name: "Equity Alert", Key: "EQUITY_ALERT", Type: model.TemplateTransactional,
			DefaultBody: "{{first_name}}, your equity changed: {{equity_change}}. Details: {{short_link}} STOP to opt out.",
			Variables:   []string{"first_name", "equity_change", "short_link"}, IsActive: true,
			ChangedBy: "admin-1", ChangedByName: "Sarah Admin", ChangeNote: "Initial version", CreatedAt: ago(180 * day)},
		{ID: "ver-tpl-1-2", TemplateID: "tpl-1", Version: 2, Name: "Home Equity Change Alert", Key: "EQUITY_ALERT", Type: model.TemplateTransactional,
			DefaultBody: templates[0].DefaultBody, Description: templates[0].Description,
			Variables: templates[0].Variables, IsActive: true,
			ChangedBy: "admin-2", ChangedByName: "Mike Support", ChangeNote: "Updated wording for clarity", CreatedAt: ago(45 * day)},
	}

	return memory.Data{
		Organizations: orgs,
		Templates:     templates,
		Overrides:     overrides,
		Logs:          logs,
		Suppressions:  suppressions,
		Provisioning:  provisioning,
		Jobs:          jobs,
		Audit:         audit,
		QuietHours:    quiet,
		Versions:      versions,
	}
}
