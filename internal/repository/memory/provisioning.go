package memory

import (
	"context"
	"slices"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/repository"
	"github.com/jmehdipour/sms-admin/internal/util"
)

type Provisioning struct{ s *Store }

var _ repository.ProvisioningRepository = (*Provisioning)(nil)

// List returns jobs newest first; an empty orgID lists every organization.
func (r *Provisioning) List(ctx context.Context, orgID string) ([]model.ProvisioningJob, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	return r.list(orgID), nil
}

func (r *Provisioning) Latest(ctx context.Context, orgID string) (*model.ProvisioningJob, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	jobs := r.list(orgID)
	if len(jobs) == 0 {
		return nil, nil
	}
	return &jobs[0], nil
}

func (r *Provisioning) Insert(ctx context.Context, job model.ProvisioningJob) (*model.ProvisioningJob, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if job.ID == "" {
		job.ID = util.NewID("prov")
	}
	now := r.s.now()
	job.CreatedAt, job.UpdatedAt = now, now
	r.s.data.Provisioning = append([]model.ProvisioningJob{job.Clone()}, r.s.data.Provisioning...)
	return &job, nil
}

func (r *Provisioning) list(orgID string) []model.ProvisioningJob {
	r.s.mu.RLock()
	var out []model.ProvisioningJob
	for _, j := range r.s.data.Provisioning {
		if orgID == "" || j.OrgID == orgID {
			out = append(out, j.Clone())
		}
	}
	r.s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b model.ProvisioningJob) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}
