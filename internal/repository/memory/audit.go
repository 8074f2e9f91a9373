package memory

import (
	"context"
	"slices"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/repository"
	"github.com/jmehdipour/sms-admin/internal/util"
)

type Audit struct{ s *Store }

var _ repository.AuditRepository = (*Audit)(nil)

// List returns matching entries newest first.
func (r *Audit) List(ctx context.Context, f model.AuditFilter) ([]model.AuditEntry, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	var out []model.AuditEntry
	// walk backwards so entries with equal timestamps list latest-appended first
	for i := len(r.s.data.Audit) - 1; i >= 0; i-- {
		e := r.s.data.Audit[i]
		if f.Match(e) {
			e.Changes = slices.Clone(e.Changes)
			out = append(out, e)
		}
	}
	r.s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b model.AuditEntry) int { return b.Timestamp.Compare(a.Timestamp) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *Audit) Append(ctx context.Context, e model.AuditEntry) error {
	if err := r.s.wait(ctx); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if e.ID == "" {
		e.ID = util.NewID("audit")
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = r.s.now()
	}
	e.Changes = slices.Clone(e.Changes)
	r.s.data.Audit = append(r.s.data.Audit, e)
	return nil
}

type QuietHours struct{ s *Store }

var _ repository.QuietHoursRepository = (*QuietHours)(nil)

func (r *QuietHours) GetByOrg(ctx context.Context, orgID string) (*model.QuietHours, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, q := range r.s.data.QuietHours {
		if q.OrgID == orgID {
			c := q.Clone()
			return &c, nil
		}
	}
	return nil, nil
}

// Upsert replaces the organization's configuration or creates it.
func (r *QuietHours) Upsert(ctx context.Context, q model.QuietHours) (*model.QuietHours, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	for i := range r.s.data.QuietHours {
		cur := &r.s.data.QuietHours[i]
		if cur.OrgID != q.OrgID {
			continue
		}
		q.ID, q.CreatedAt, q.UpdatedAt = cur.ID, cur.CreatedAt, now
		*cur = q.Clone()
		c := cur.Clone()
		return &c, nil
	}

	if q.ID == "" {
		q.ID = util.NewID("qh")
	}
	q.CreatedAt, q.UpdatedAt = now, now
	r.s.data.QuietHours = append(r.s.data.QuietHours, q.Clone())
	c := q.Clone()
	return &c, nil
}
