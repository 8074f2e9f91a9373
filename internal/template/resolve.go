// Package template resolves effective message bodies and renders them.
package template

import (
	"cmp"
	"slices"

	"github.com/jmehdipour/sms-admin/internal/model"
)

type Source string

const (
	SourceDefault  Source = "default"
	SourceOverride Source = "override"
)

// Resolution is the effective body of a template for one organization.
type Resolution struct {
	Body     string                  `json:"body"`
	Source   Source                  `json:"source"`
	Override *model.TemplateOverride `json:"override,omitempty"`
}

// Resolve returns the active override body for tpl if there is one, the
// default body otherwise. When several active overrides match, the most
// recently updated wins, then the most recently created, then the smallest
// ID, so the outcome never depends on the order of overrides.
func Resolve(tpl model.SmsTemplate, overrides []model.TemplateOverride) Resolution {
	if o, ok := ActiveOverride(tpl.ID, overrides); ok {
		return Resolution{Body: o.OverrideBody, Source: SourceOverride, Override: &o}
	}
	return Resolution{Body: tpl.DefaultBody, Source: SourceDefault}
}

// EffectiveBody is Resolve(tpl, overrides).Body.
func EffectiveBody(tpl model.SmsTemplate, overrides []model.TemplateOverride) string {
	return Resolve(tpl, overrides).Body
}

// ActiveOverride picks the winning active override for templateID.
func ActiveOverride(templateID string, overrides []model.TemplateOverride) (model.TemplateOverride, bool) {
	var (
		best  model.TemplateOverride
		found bool
	)
	for _, o := range overrides {
		if o.SmsTemplateID != templateID || !o.IsActive {
			continue
		}
		if !found || newer(o, best) {
			best, found = o, true
		}
	}
	return best, found
}

// Current is the override an editor works on for templateID: the active
// winner, else the most recent inactive match.
func Current(templateID string, overrides []model.TemplateOverride) (model.TemplateOverride, bool) {
	if o, ok := ActiveOverride(templateID, overrides); ok {
		return o, true
	}
	var (
		best  model.TemplateOverride
		found bool
	)
	for _, o := range overrides {
		if o.SmsTemplateID != templateID {
			continue
		}
		if !found || newer(o, best) {
			best, found = o, true
		}
	}
	return best, found
}

func newer(a, b model.TemplateOverride) bool {
	if c := a.UpdatedAt.Compare(b.UpdatedAt); c != 0 {
		return c > 0
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c > 0
	}
	return a.ID < b.ID
}

// Effective is a template together with its resolution for one organization.
type Effective struct {
	Template   model.SmsTemplate `json:"template"`
	Resolution Resolution        `json:"resolution"`
}

// ResolveAll resolves every template against one organization's overrides,
// ordered by template key.
func ResolveAll(templates []model.SmsTemplate, overrides []model.TemplateOverride) []Effective {
	out := make([]Effective, 0, len(templates))
	for _, t := range templates {
		out = append(out, Effective{Template: t, Resolution: Resolve(t, overrides)})
	}
	slices.SortStableFunc(out, func(a, b Effective) int {
		return cmp.Compare(a.Template.Key, b.Template.Key)
	})
	return out
}
