package memory

import (
	"context"
	"slices"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/repository"
	"github.com/jmehdipour/sms-admin/internal/util"
)

type Overrides struct{ s *Store }

var _ repository.OverridesRepository = (*Overrides)(nil)

func (r *Overrides) ListByOrg(ctx context.Context, orgID string) ([]model.TemplateOverride, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.TemplateOverride
	for _, o := range r.s.data.Overrides {
		if o.OrgID == orgID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *Overrides) GetByID(ctx context.Context, id string) (*model.TemplateOverride, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, o := range r.s.data.Overrides {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, nil
}

// Create stores a new override. A second override for the same
// (org, template) pair is rejected with repository.ErrDuplicate.
func (r *Overrides) Create(ctx context.Context, o model.TemplateOverride) (*model.TemplateOverride, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.indexOf(o.OrgID, o.SmsTemplateID) >= 0 {
		return nil, repository.ErrDuplicate
	}
	if o.ID == "" {
		o.ID = util.NewID("override")
	}
	now := r.s.now()
	o.CreatedAt, o.UpdatedAt = now, now
	r.s.data.Overrides = append(r.s.data.Overrides, o)
	return &o, nil
}

func (r *Overrides) Update(ctx context.Context, id, body string, active bool) (*model.TemplateOverride, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.data.Overrides {
		o := &r.s.data.Overrides[i]
		if o.ID != id {
			continue
		}
		o.OverrideBody = body
		o.IsActive = active
		o.UpdatedAt = r.s.now()
		c := *o
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

func (r *Overrides) Delete(ctx context.Context, id string) error {
	if err := r.s.wait(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := slices.IndexFunc(r.s.data.Overrides, func(o model.TemplateOverride) bool { return o.ID == id })
	if i < 0 {
		return repository.ErrNotFound
	}
	r.s.data.Overrides = slices.Delete(r.s.data.Overrides, i, i+1)
	return nil
}

// indexOf must be called with the lock held.
func (r *Overrides) indexOf(orgID, templateID string) int {
	return slices.IndexFunc(r.s.data.Overrides, func(o model.TemplateOverride) bool {
		return o.OrgID == orgID && o.SmsTemplateID == templateID
	})
}
