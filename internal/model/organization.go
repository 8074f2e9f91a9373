package model

import "time"

// Organization is a tenant as seen by the admin dashboard.
type Organization struct {
	ID                               string    `json:"id" db:"id"`
	Name                             string    `json:"name" db:"name"`
	SMSEnabled                       bool      `json:"sms_enabled" db:"sms_enabled"`
	SMSReady                         bool      `json:"sms_ready" db:"sms_ready"`
	TwilioSubaccountSID              string    `json:"twilio_subaccount_sid,omitempty" db:"twilio_subaccount_sid"`
	MarketingMessagingServiceSID     string    `json:"marketing_messaging_service_sid,omitempty" db:"marketing_messaging_service_sid"`
	TransactionalMessagingServiceSID string    `json:"transactional_messaging_service_sid,omitempty" db:"transactional_messaging_service_sid"`
	A2PBrandID                       string    `json:"a2p_brand_id,omitempty" db:"a2p_brand_id"`
	A2PCampaignIDs                   []string  `json:"a2p_campaign_ids,omitempty" db:"-"`
	Country                          string    `json:"country" db:"country"`
	CreatedAt                        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt                        time.Time `json:"updated_at" db:"updated_at"`
}

// Clone returns a copy that shares no slices with o.
func (o Organization) Clone() Organization {
	if o.A2PCampaignIDs != nil {
		o.A2PCampaignIDs = append([]string(nil), o.A2PCampaignIDs...)
	}
	return o
}
