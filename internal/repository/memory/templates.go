package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/repository"
)

type Templates struct{ s *Store }

var _ repository.TemplatesRepository = (*Templates)(nil)

func (r *Templates) List(ctx context.Context) ([]model.SmsTemplate, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.SmsTemplate, 0, len(r.s.data.Templates))
	for _, t := range r.s.data.Templates {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (r *Templates) GetByID(ctx context.Context, id string) (*model.SmsTemplate, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.data.Templates {
		if t.ID == id {
			c := t.Clone()
			return &c, nil
		}
	}
	return nil, nil
}

// Update replaces every editable field of the template with t.ID. Key and
// CreatedAt are immutable.
func (r *Templates) Update(ctx context.Context, t model.SmsTemplate) (*model.SmsTemplate, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.data.Templates {
		cur := &r.s.data.Templates[i]
		if cur.ID != t.ID {
			continue
		}
		cur.Name = t.Name
		cur.Type = t.Type
		cur.DefaultBody = t.DefaultBody
		cur.Description = t.Description
		cur.Variables = slices.Clone(t.Variables)
		cur.IsActive = t.IsActive
		cur.UpdatedAt = r.s.now()
		c := cur.Clone()
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

type Versions struct{ s *Store }

var _ repository.VersionsRepository = (*Versions)(nil)

// ListByTemplate returns versions newest first.
func (r *Versions) ListByTemplate(ctx context.Context, templateID string) ([]model.TemplateVersion, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.TemplateVersion
	for _, v := range r.s.data.Versions {
		if v.TemplateID == templateID {
			v.Variables = slices.Clone(v.Variables)
			out = append(out, v)
		}
	}
	slices.SortFunc(out, func(a, b model.TemplateVersion) int { return cmp.Compare(b.Version, a.Version) })
	return out, nil
}

func (r *Versions) Append(ctx context.Context, v model.TemplateVersion) error {
	if err := r.s.wait(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v.Variables = slices.Clone(v.Variables)
	if v.CreatedAt.IsZero() {
		v.CreatedAt = r.s.now()
	}
	r.s.data.Versions = append(r.s.data.Versions, v)
	return nil
}
