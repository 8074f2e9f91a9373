// Package activity fans audited admin changes out to Kafka.
package activity

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/jmehdipour/sms-admin/internal/metrics"
	"github.com/jmehdipour/sms-admin/internal/model"
	"github.com/jmehdipour/sms-admin/internal/repository"
)

// ErrBreakerOpen is returned while the publisher is shedding events.
var ErrBreakerOpen = errors.New("activity publisher: breaker open")

type Publisher interface {
	Publish(ctx context.Context, ev model.ActivityEvent) error
}

// MessageWriter is the subset of kafka.Producer the publisher needs.
type MessageWriter interface {
	Write(ctx context.Context, key, value []byte) error
}

// KafkaPublisher encodes events as JSON keyed by organization id.
type KafkaPublisher struct {
	w       MessageWriter
	breaker *Breaker
}

func NewKafkaPublisher(w MessageWriter, b *Breaker) *KafkaPublisher {
	return &KafkaPublisher{w: w, breaker: b}
}

var _ Publisher = (*KafkaPublisher)(nil)

func (p *KafkaPublisher) Publish(ctx context.Context, ev model.ActivityEvent) error {
	if p.breaker != nil && !p.breaker.TryAcquire() {
		metrics.ActivityEventsTotal.WithLabelValues("dropped").Inc()
		return ErrBreakerOpen
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	key := ev.OrgID
	if key == "" {
		key = ev.Entry.EntityID
	}

	if err := p.w.Write(ctx, []byte(key), payload); err != nil {
		if p.breaker != nil {
			p.breaker.OnFailure()
		}
		metrics.ActivityEventsTotal.WithLabelValues("failed").Inc()
		return err
	}
	if p.breaker != nil {
		p.breaker.OnSuccess()
	}
	metrics.ActivityEventsTotal.WithLabelValues("published").Inc()
	return nil
}

// Nop discards events. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, model.ActivityEvent) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []model.ActivityEvent
}

func (r *Recorder) Publish(_ context.Context, ev model.ActivityEvent) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Events() []model.ActivityEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.ActivityEvent(nil), r.events...)
}

// SinkAudit serves audit reads from the wrapped repository and drops
// writes; the audit sink worker persists entries from the event stream.
type SinkAudit struct {
	repository.AuditRepository
}

func (SinkAudit) Append(context.Context, model.AuditEntry) error { return nil }
