package worker

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/jmehdipour/sms-admin/internal/kafka"
	"github.com/jmehdipour/sms-admin/internal/logger"
	"github.com/jmehdipour/sms-admin/internal/metrics"
	"github.com/jmehdipour/sms-admin/internal/model"
)

// Fetcher is the subset of kafka.Consumer the sink uses.
type Fetcher interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, msgs ...kafka.Message) error
}

// SinkFunc persists one batch of audit entries.
type SinkFunc func(ctx context.Context, entries []model.AuditEntry) error

// AuditSink:
// - fetches activity events from Kafka,
// - buffers their audit entries,
// - flushes by size or time and commits offsets only after a successful write.
type AuditSink struct {
	Consumer Fetcher
	Sink     SinkFunc

	BatchSize  int           // max buffered entries per flush
	BatchWait  time.Duration // max time to wait before flush
	RetryDelay time.Duration // pause after a fetch or flush error
}

func NewAuditSink(consumer Fetcher, sink SinkFunc) *AuditSink {
	return &AuditSink{
		Consumer:   consumer,
		Sink:       sink,
		BatchSize:  200,
		BatchWait:  500 * time.Millisecond,
		RetryDelay: 200 * time.Millisecond,
	}
}

// Run blocks until ctx is cancelled, then flushes what is buffered.
func (w *AuditSink) Run(ctx context.Context) error {
	if w.BatchSize <= 0 {
		w.BatchSize = 200
	}
	if w.BatchWait <= 0 {
		w.BatchWait = 500 * time.Millisecond
	}

	msgCh := make(chan kafka.Message, w.BatchSize*2)

	go func() {
		defer close(msgCh)
		for {
			m, err := w.Consumer.Fetch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Log.Warn("audit sink fetch failed", zap.Error(err))
				w.pause(ctx)
				continue
			}
			select {
			case msgCh <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	w.runBatchWriter(ctx, msgCh)
	return nil
}

func (w *AuditSink) pause(ctx context.Context) {
	if w.RetryDelay <= 0 {
		return
	}
	t := time.NewTimer(w.RetryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// decode returns the entry carried by m. Poison messages yield ok=false and
// are committed with the next flush so they never block the partition.
func decode(m kafka.Message) (model.AuditEntry, bool) {
	var ev model.ActivityEvent
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		logger.Log.Warn("audit sink bad event json", zap.Int64("offset", m.Offset), zap.Error(err))
		return model.AuditEntry{}, false
	}
	if ev.Entry.ID == "" {
		ev.Entry.ID = ev.ID
	}
	if ev.Entry.ID == "" {
		logger.Log.Warn("audit sink event missing id", zap.Int64("offset", m.Offset))
		return model.AuditEntry{}, false
	}
	return ev.Entry, true
}

func (w *AuditSink) runBatchWriter(ctx context.Context, in <-chan kafka.Message) {
	tick := time.NewTicker(w.BatchWait)
	defer tick.Stop()

	var (
		entries []model.AuditEntry
		pending []kafka.Message
	)

	flush := func(ctx context.Context) {
		if len(pending) == 0 {
			return
		}
		if len(entries) > 0 {
			if err := w.Sink(ctx, entries); err != nil {
				// keep the batch; the next tick retries it
				logger.Log.Error("audit sink write failed", zap.Int("entries", len(entries)), zap.Error(err))
				return
			}
		}
		if err := w.Consumer.Commit(ctx, pending...); err != nil {
			logger.Log.Error("audit sink commit failed", zap.Error(err))
		}
		metrics.ActivityEventsTotal.WithLabelValues("sunk").Add(float64(len(entries)))
		logger.Log.Debug("audit sink flushed", zap.Int("entries", len(entries)), zap.Int("messages", len(pending)))

		entries = entries[:0]
		pending = pending[:0]
	}

	for {
		select {
		case <-ctx.Done():
			// take what the fetcher already handed over
			for drained := false; !drained; {
				select {
				case m, ok := <-in:
					if !ok {
						drained = true
						break
					}
					pending = append(pending, m)
					if e, ok := decode(m); ok {
						entries = append(entries, e)
					}
				default:
					drained = true
				}
			}
			// ctx is gone; give the final flush its own deadline
			fctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			flush(fctx)
			cancel()
			return

		case m, ok := <-in:
			if !ok {
				fctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				flush(fctx)
				cancel()
				return
			}
			pending = append(pending, m)
			if e, ok := decode(m); ok {
				entries = append(entries, e)
			}
			if len(pending) >= w.BatchSize {
				flush(ctx)
			}

		case <-tick.C:
			flush(ctx)
		}
	}
}
