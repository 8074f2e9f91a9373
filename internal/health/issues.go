package health

import "github.com/jmehdipour/sms-admin/internal/model"

// Issue codes reported by Issues.
const (
	IssueReadyWithoutSubaccount = "sms_ready_without_subaccount"
	IssueEnabledNotReady        = "sms_enabled_not_ready"
	IssueReadyWithoutBrand      = "sms_ready_without_a2p_brand"
	IssueBrandWithoutCampaigns  = "a2p_brand_without_campaigns"
)

// Issues lists readiness inconsistencies the data model does not enforce.
func Issues(org model.Organization) []string {
	var out []string
	if org.SMSReady && org.TwilioSubaccountSID == "" {
		out = append(out, IssueReadyWithoutSubaccount)
	}
	if org.SMSEnabled && !org.SMSReady {
		out = append(out, IssueEnabledNotReady)
	}
	if org.SMSReady && org.A2PBrandID == "" {
		out = append(out, IssueReadyWithoutBrand)
	}
	if org.A2PBrandID != "" && len(org.A2PCampaignIDs) == 0 {
		out = append(out, IssueBrandWithoutCampaigns)
	}
	return out
}
