package export

import (
	"strings"

	"github.com/jmehdipour/sms-admin/internal/model"
)

var LogColumns = []Column{
	{Key: "createdAt", Label: "Time"},
	{Key: "orgId", Label: "Org ID"},
	{Key: "direction", Label: "Direction"},
	{Key: "phoneNumber", Label: "Phone"},
	{Key: "status", Label: "Status"},
	{Key: "body", Label: "Message"},
	{Key: "smsTemplateId", Label: "Template ID"},
	{Key: "failureReason", Label: "Failure Reason"},
}

var AuditColumns = []Column{
	{Key: "timestamp", Label: "Timestamp"},
	{Key: "action", Label: "Action"},
	{Key: "entityType", Label: "Entity Type"},
	{Key: "entityName", Label: "Entity Name"},
	{Key: "userName", Label: "User"},
	{Key: "details", Label: "Details"},
}

var OrgColumns = []Column{
	{Key: "id", Label: "Org ID"},
	{Key: "name", Label: "Name"},
	{Key: "country", Label: "Country"},
	{Key: "smsEnabled", Label: "SMS Enabled"},
	{Key: "smsReady", Label: "SMS Ready"},
	{Key: "twilioSubaccountSid", Label: "Twilio Subaccount"},
	{Key: "a2pBrandId", Label: "A2P Brand"},
	{Key: "a2pCampaignIds", Label: "A2P Campaigns"},
}

var SuppressionColumns = []Column{
	{Key: "createdAt", Label: "Created"},
	{Key: "orgId", Label: "Org ID"},
	{Key: "phoneNumber", Label: "Phone"},
	{Key: "scope", Label: "Scope"},
	{Key: "reason", Label: "Reason"},
	{Key: "source", Label: "Source"},
}

// LogRecords projects message logs onto LogColumns keys.
func LogRecords(logs []model.MessageLog) []Record {
	out := make([]Record, 0, len(logs))
	for _, l := range logs {
		out = append(out, Record{
			"createdAt":     l.CreatedAt,
			"orgId":         l.OrgID,
			"direction":     string(l.Direction),
			"phoneNumber":   l.PhoneNumber,
			"status":        string(l.Status),
			"body":          l.Body,
			"smsTemplateId": optional(l.SmsTemplateID),
			"failureReason": optional(l.FailureReason),
		})
	}
	return out
}

// AuditRecords projects audit entries onto AuditColumns keys.
func AuditRecords(entries []model.AuditEntry) []Record {
	out := make([]Record, 0, len(entries))
	for _, e := range entries {
		out = append(out, Record{
			"timestamp":  e.Timestamp,
			"action":     string(e.Action),
			"entityType": string(e.EntityType),
			"entityName": e.EntityName,
			"userName":   e.UserName,
			"details":    e.Details,
		})
	}
	return out
}

// OrgRecords projects organizations onto OrgColumns keys.
func OrgRecords(orgs []model.Organization) []Record {
	out := make([]Record, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, Record{
			"id":                  o.ID,
			"name":                o.Name,
			"country":             o.Country,
			"smsEnabled":          o.SMSEnabled,
			"smsReady":            o.SMSReady,
			"twilioSubaccountSid": optional(o.TwilioSubaccountSID),
			"a2pBrandId":          optional(o.A2PBrandID),
			"a2pCampaignIds":      strings.Join(o.A2PCampaignIDs, ";"),
		})
	}
	return out
}

// SuppressionRecords projects suppressions onto SuppressionColumns keys.
func SuppressionRecords(sups []model.Suppression) []Record {
	out := make([]Record, 0, len(sups))
	for _, s := range sups {
		out = append(out, Record{
			"createdAt":   s.CreatedAt,
			"orgId":       s.OrgID,
			"phoneNumber": s.PhoneNumber,
			"scope":       string(s.Scope),
			"reason":      string(s.Reason),
			"source":      string(s.Source),
		})
	}
	return out
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}
