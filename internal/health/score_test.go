package health

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmehdipour/sms-admin/internal/model"
)

var ready = Readiness{SMSEnabled: true, SMSReady: true, SubaccountSID: "AC1", A2PBrandID: "BN1"}

func TestScoreComponents(t *testing.T) {
	tests := []struct {
		name  string
		r     Readiness
		rate  int
		supp  int
		score int
		label Label
		color Color
	}{
		{"perfect", ready, 100, 0, 100, LabelExcellent, ColorGreen},
		{"subaccount only", Readiness{SMSEnabled: true, SubaccountSID: "AC1"}, 100, 0, 80, LabelExcellent, ColorGreen},
		{"nothing provisioned", Readiness{SMSEnabled: true}, 100, 0, 60, LabelGood, ColorBlue},
		{"rounded delivery", ready, 95, 3, 40 + 38 + 15, LabelExcellent, ColorGreen},
		{"half delivery", ready, 50, 7, 40 + 20 + 10, LabelGood, ColorBlue},
		{"many suppressions", ready, 25, 12, 40 + 10 + 5, LabelFair, ColorYellow},
		{"suppression cap", ready, 0, 20, 40, LabelFair, ColorYellow},
		{"poor", Readiness{SMSEnabled: true}, 10, 50, 4, LabelPoor, ColorRed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.r, tc.rate, tc.supp)
			assert.Equal(t, tc.score, got.Score)
			assert.Equal(t, tc.label, got.Label)
			assert.Equal(t, tc.color, got.Color)
		})
	}
}

func TestScoreDisabledIsClamped(t *testing.T) {
	r := ready
	r.SMSEnabled = false

	got := Score(r, 100, 0)
	assert.Equal(t, DisabledCeiling, got.Score)
	assert.Equal(t, LabelPoor, got.Label)
	assert.Equal(t, ColorRed, got.Color)

	for rate := 0; rate <= 100; rate += 5 {
		for supp := 0; supp < 30; supp++ {
			assert.LessOrEqual(t, Score(r, rate, supp).Score, DisabledCeiling)
		}
	}
}

func TestScoreMonotonic(t *testing.T) {
	inputs := []Readiness{ready, {SMSEnabled: true, SubaccountSID: "AC"}, {SMSEnabled: false, SMSReady: true}}
	for _, r := range inputs {
		for supp := 0; supp < 25; supp++ {
			prev := -1
			for rate := 0; rate <= 100; rate++ {
				s := Score(r, rate, supp).Score
				assert.GreaterOrEqual(t, s, prev)
				prev = s
			}
		}
		for rate := 0; rate <= 100; rate += 10 {
			prev := 101
			for supp := 0; supp < 40; supp++ {
				s := Score(r, rate, supp).Score
				assert.LessOrEqual(t, s, prev)
				prev = s
			}
		}
	}
}

func TestScoreOutOfRangeRate(t *testing.T) {
	assert.Equal(t, 100, Score(ready, 250, 0).Score)
	assert.Equal(t, 60, Score(ready, -10, 0).Score)
}

func TestGradeThresholds(t *testing.T) {
	for score, want := range map[int]Label{80: LabelExcellent, 79: LabelGood, 60: LabelGood, 59: LabelFair, 40: LabelFair, 39: LabelPoor, 0: LabelPoor} {
		l, _ := Grade(score)
		assert.Equal(t, want, l, score)
	}
}

func TestReadinessOf(t *testing.T) {
	org := model.Organization{SMSEnabled: true, SMSReady: true, TwilioSubaccountSID: "AC9", A2PBrandID: "BN9"}
	assert.Equal(t, Readiness{SMSEnabled: true, SMSReady: true, SubaccountSID: "AC9", A2PBrandID: "BN9"}, ReadinessOf(org))
}

func TestIssues(t *testing.T) {
	assert.Empty(t, Issues(model.Organization{
		SMSEnabled: true, SMSReady: true, TwilioSubaccountSID: "AC", A2PBrandID: "BN", A2PCampaignIDs: []string{"CM"},
	}))

	got := Issues(model.Organization{SMSReady: true})
	assert.Equal(t, []string{IssueReadyWithoutSubaccount, IssueReadyWithoutBrand}, got)

	got = Issues(model.Organization{SMSEnabled: true, A2PBrandID: "BN"})
	assert.Equal(t, []string{IssueEnabledNotReady, IssueBrandWithoutCampaigns}, got)
}
