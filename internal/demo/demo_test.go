package demo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jmehdipour/sms-admin/internal/model"
)

func TestData_Consistent(t *testing.T) {
	d := Data(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	orgs := map[string]bool{}
	for _, o := range d.Organizations {
		orgs[o.ID] = true
	}
	tpls := map[string]bool{}
	for _, tpl := range d.Templates {
		tpls[tpl.ID] = true
		require.True(t, tpl.Type.Valid(), tpl.ID)
	}

	pairs := map[string]bool{}
	for _, o := range d.Overrides {
		require.True(t, orgs[o.OrgID], o.ID)
		require.True(t, tpls[o.SmsTemplateID], o.ID)
		key := o.OrgID + "/" + o.SmsTemplateID
		require.False(t, pairs[key], "one override per org and template")
		pairs[key] = true
	}
	for _, l := range d.Logs {
		require.True(t, orgs[l.OrgID], l.ID)
		require.True(t, l.Status.Valid(), l.ID)
	}
	for _, j := range d.Jobs {
		require.NoError(t, j.Validate(), j.ID)
	}
	for _, p := range d.Provisioning {
		require.Len(t, p.Steps, len(model.ProvisioningStepNames))
	}
}
