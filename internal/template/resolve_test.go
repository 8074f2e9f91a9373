package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmehdipour/sms-admin/internal/model"
)

var t0 = time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)

func TestResolveActiveOverride(t *testing.T) {
	tpl := model.SmsTemplate{ID: "t1", DefaultBody: "A"}
	ov := model.TemplateOverride{ID: "o1", SmsTemplateID: "t1", IsActive: true, OverrideBody: "B"}

	res := Resolve(tpl, []model.TemplateOverride{ov})
	assert.Equal(t, "B", res.Body)
	assert.Equal(t, SourceOverride, res.Source)
	require.NotNil(t, res.Override)
	assert.Equal(t, "o1", res.Override.ID)

	ov.IsActive = false
	res = Resolve(tpl, []model.TemplateOverride{ov})
	assert.Equal(t, "A", res.Body)
	assert.Equal(t, SourceDefault, res.Source)
	assert.Nil(t, res.Override)
}

func TestResolveIgnoresOtherTemplates(t *testing.T) {
	tpl := model.SmsTemplate{ID: "t1", DefaultBody: "A"}
	ovs := []model.TemplateOverride{{ID: "o1", SmsTemplateID: "t2", IsActive: true, OverrideBody: "X"}}
	assert.Equal(t, "A", EffectiveBody(tpl, ovs))
	assert.Equal(t, "A", EffectiveBody(tpl, nil))
}

func TestResolveDuplicateActiveOverridesIsOrderIndependent(t *testing.T) {
	tpl := model.SmsTemplate{ID: "t1", DefaultBody: "A"}
	older := model.TemplateOverride{ID: "o1", SmsTemplateID: "t1", IsActive: true, OverrideBody: "old", CreatedAt: t0, UpdatedAt: t0}
	newer := model.TemplateOverride{ID: "o2", SmsTemplateID: "t1", IsActive: true, OverrideBody: "new", CreatedAt: t0, UpdatedAt: t0.Add(time.Hour)}
	inactive := model.TemplateOverride{ID: "o3", SmsTemplateID: "t1", IsActive: false, OverrideBody: "off", CreatedAt: t0, UpdatedAt: t0.Add(2 * time.Hour)}

	assert.Equal(t, "new", EffectiveBody(tpl, []model.TemplateOverride{older, newer, inactive}))
	assert.Equal(t, "new", EffectiveBody(tpl, []model.TemplateOverride{inactive, newer, older}))
}

func TestResolveTieBreaks(t *testing.T) {
	tpl := model.SmsTemplate{ID: "t1"}

	a := model.TemplateOverride{ID: "b", SmsTemplateID: "t1", IsActive: true, OverrideBody: "created later", CreatedAt: t0.Add(time.Minute), UpdatedAt: t0}
	b := model.TemplateOverride{ID: "a", SmsTemplateID: "t1", IsActive: true, OverrideBody: "created earlier", CreatedAt: t0, UpdatedAt: t0}
	assert.Equal(t, "created later", EffectiveBody(tpl, []model.TemplateOverride{b, a}))

	c := model.TemplateOverride{ID: "z", SmsTemplateID: "t1", IsActive: true, OverrideBody: "z", CreatedAt: t0, UpdatedAt: t0}
	d := model.TemplateOverride{ID: "m", SmsTemplateID: "t1", IsActive: true, OverrideBody: "m", CreatedAt: t0, UpdatedAt: t0}
	assert.Equal(t, "m", EffectiveBody(tpl, []model.TemplateOverride{c, d}))
	assert.Equal(t, "m", EffectiveBody(tpl, []model.TemplateOverride{d, c}))
}

func TestResolveAllSortsByKey(t *testing.T) {
	tpls := []model.SmsTemplate{
		{ID: "t2", Key: "PAYMENT_REMINDER", DefaultBody: "pay"},
		{ID: "t1", Key: "EQUITY_ALERT", DefaultBody: "equity"},
	}
	ovs := []model.TemplateOverride{{ID: "o", SmsTemplateID: "t2", IsActive: true, OverrideBody: "custom pay"}}

	got := ResolveAll(tpls, ovs)
	require.Len(t, got, 2)
	assert.Equal(t, "EQUITY_ALERT", got[0].Template.Key)
	assert.Equal(t, "equity", got[0].Resolution.Body)
	assert.Equal(t, "custom pay", got[1].Resolution.Body)
}

func TestCurrentPrefersActiveWinner(t *testing.T) {
	off := model.TemplateOverride{ID: "o1", SmsTemplateID: "t1", IsActive: false, UpdatedAt: t0.Add(2 * time.Hour)}
	on := model.TemplateOverride{ID: "o2", SmsTemplateID: "t1", IsActive: true, UpdatedAt: t0}
	other := model.TemplateOverride{ID: "o3", SmsTemplateID: "t2", IsActive: true, UpdatedAt: t0.Add(3 * time.Hour)}

	for _, ovs := range [][]model.TemplateOverride{{off, on, other}, {other, on, off}} {
		got, ok := Current("t1", ovs)
		require.True(t, ok)
		assert.Equal(t, "o2", got.ID)
	}

	older := model.TemplateOverride{ID: "o4", SmsTemplateID: "t1", IsActive: false, UpdatedAt: t0}
	got, ok := Current("t1", []model.TemplateOverride{older, off})
	require.True(t, ok)
	assert.Equal(t, "o1", got.ID, "most recent inactive match without an active one")

	_, ok = Current("t9", []model.TemplateOverride{on})
	assert.False(t, ok)
}
