// Package memory keeps every admin entity in process memory.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/repository"
)

// Data is the initial content of a Store.
type Data struct {
	Organizations []model.Organization
	Templates     []model.SmsTemplate
	Overrides     []model.TemplateOverride
	Logs          []model.MessageLog
	Suppressions  []model.Suppression
	Provisioning  []model.ProvisioningJob
	Jobs          []model.SmsJob
	Audit         []model.AuditEntry
	QuietHours    []model.QuietHours
	Versions      []model.TemplateVersion
}

// Store owns all records. Reads hand out copies; every mutation goes
// through a method so it happens under the lock.
type Store struct {
	mu   sync.RWMutex
	data Data

	// Latency is slept before every call to mimic a remote backend.
	Latency time.Duration
	// Now stamps created/updated times.
	Now func() time.Time
}

func NewStore(d Data) *Store {
	return &Store{data: d, Now: time.Now}
}

func (s *Store) wait(ctx context.Context) error {
	if s.Latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.Latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Repositories returns views over s for every entity.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Organizations: &Organizations{s: s},
		Templates:     &Templates{s: s},
		Overrides:     &Overrides{s: s},
		Logs:          &Logs{s: s},
		Suppressions:  &Suppressions{s: s},
		Provisioning:  &Provisioning{s: s},
		Jobs:          &Jobs{s: s},
		Audit:         &Audit{s: s},
		QuietHours:    &QuietHours{s: s},
		Versions:      &Versions{s: s},
	}
}
