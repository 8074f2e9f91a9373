package memory

import (
	"context"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/repository"
)

type Organizations struct{ s *Store }

var _ repository.OrganizationsRepository = (*Organizations)(nil)

func (r *Organizations) List(ctx context.Context) ([]model.Organization, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Organization, 0, len(r.s.data.Organizations))
	for _, o := range r.s.data.Organizations {
		out = append(out, o.Clone())
	}
	return out, nil
}

func (r *Organizations) GetByID(ctx context.Context, id string) (*model.Organization, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, o := range r.s.data.Organizations {
		if o.ID == id {
			c := o.Clone()
			return &c, nil
		}
	}
	return nil, nil
}

func (r *Organizations) SetSMSEnabled(ctx context.Context, id string, enabled bool) (*model.Organization, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.data.Organizations {
		o := &r.s.data.Organizations[i]
		if o.ID != id {
			continue
		}
		o.SMSEnabled = enabled
		o.UpdatedAt = r.s.now()
		c := o.Clone()
		return &c, nil
	}
	return nil, repository.ErrNotFound
}
