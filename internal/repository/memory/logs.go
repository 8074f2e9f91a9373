package memory

import (
	"context"
	"slices"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/repository"
)

type Logs struct{ s *Store }

var _ repository.LogsRepository = (*Logs)(nil)

// List returns logs matching f, newest first, capped at f.Limit when set.
func (r *Logs) List(ctx context.Context, f model.LogFilter) ([]model.MessageLog, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	var out []model.MessageLog
	for _, l := range r.s.data.Logs {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	r.s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b model.MessageLog) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

type Suppressions struct{ s *Store }

var _ repository.SuppressionsRepository = (*Suppressions)(nil)

func (r *Suppressions) ListByOrg(ctx context.Context, orgID string) ([]model.Suppression, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.Suppression
	for _, s := range r.s.data.Suppressions {
		if s.OrgID == orgID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *Suppressions) ListAll(ctx context.Context) ([]model.Suppression, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return slices.Clone(r.s.data.Suppressions), nil
}

type Jobs struct{ s *Store }

var _ repository.JobsRepository = (*Jobs)(nil)

func (r *Jobs) ListByOrg(ctx context.Context, orgID string) ([]model.SmsJob, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.SmsJob
	for _, j := range r.s.data.Jobs {
		if j.OrgID == orgID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *Jobs) ListAll(ctx context.Context) ([]model.SmsJob, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return slices.Clone(r.s.data.Jobs), nil
}
