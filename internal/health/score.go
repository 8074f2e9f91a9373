// Package health rates an organization's messaging readiness and performance.
package health

import (
	"math"

	"github.com/jmehdipour/sms-admin/internal/model"
)

const (
	// DisabledCeiling caps the score of organizations with SMS disabled.
	DisabledCeiling = 30

	readyPoints      = 40
	subaccountPoints = 20
	deliveryPoints   = 40
)

type Label string

const (
	LabelExcellent Label = "Excellent"
	LabelGood      Label = "Good"
	LabelFair      Label = "Fair"
	LabelPoor      Label = "Poor"
)

type Color string

const (
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
)

// Readiness is the subset of an organization the score depends on.
type Readiness struct {
	SMSEnabled    bool   `json:"sms_enabled"`
	SMSReady      bool   `json:"sms_ready"`
	SubaccountSID string `json:"subaccount_sid,omitempty"`
	A2PBrandID    string `json:"a2p_brand_id,omitempty"`
}

// ReadinessOf extracts the scoring inputs of org.
func ReadinessOf(org model.Organization) Readiness {
	return Readiness{
		SMSEnabled:    org.SMSEnabled,
		SMSReady:      org.SMSReady,
		SubaccountSID: org.TwilioSubaccountSID,
		A2PBrandID:    org.A2PBrandID,
	}
}

type Result struct {
	Score int   `json:"score"`
	Label Label `json:"label"`
	Color Color `json:"color"`
}

// Score blends provisioning state, delivery rate (0-100) and suppression
// count into a 0-100 rating.
func Score(r Readiness, deliveryRate, suppressionCount int) Result {
	score := 0

	switch {
	case r.SMSReady:
		score += readyPoints
	case r.SubaccountSID != "":
		score += subaccountPoints
	}

	rate := min(max(deliveryRate, 0), 100)
	score += int(math.Floor(float64(rate)/100*deliveryPoints + 0.5))

	score += suppressionPoints(suppressionCount)

	if !r.SMSEnabled {
		score = min(score, DisabledCeiling)
	}

	label, color := Grade(score)
	return Result{Score: score, Label: label, Color: color}
}

func suppressionPoints(n int) int {
	switch {
	case n <= 0:
		return 20
	case n < 5:
		return 15
	case n < 10:
		return 10
	case n < 20:
		return 5
	}
	return 0
}

// Grade maps a score onto its label and colour tier.
func Grade(score int) (Label, Color) {
	switch {
	case score >= 80:
		return LabelExcellent, ColorGreen
	case score >= 60:
		return LabelGood, ColorBlue
	case score >= 40:
		return LabelFair, ColorYellow
	}
	return LabelPoor, ColorRed
}
