package activity

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jmehdipour/sms-admin/internal/logger"
	"github.com/jmehdipour/sms-admin/internal/model"
)

type fakeWriter struct {
	err  error
	keys []string
	vals [][]byte
}

func (f *fakeWriter) Write(_ context.Context, key, value []byte) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, string(key))
	f.vals = append(f.vals, value)
	return nil
}

func TestBreaker_OpenHalfOpenClose(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(2, time.Minute)
	b.now = func() time.Time { return now }

	require.True(t, b.TryAcquire())
	b.OnFailure()
	require.True(t, b.TryAcquire())
	b.OnFailure()
	require.False(t, b.TryAcquire(), "open after threshold")

	now = now.Add(2 * time.Minute)
	require.True(t, b.TryAcquire(), "probe after cool-down")
	require.False(t, b.TryAcquire(), "one probe at a time")
	b.OnFailure()
	require.False(t, b.TryAcquire(), "failed probe reopens")

	now = now.Add(2 * time.Minute)
	require.True(t, b.TryAcquire())
	b.OnSuccess()
	require.True(t, b.TryAcquire())
	require.True(t, b.TryAcquire())
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w, NewBreaker(3, time.Minute))

	ev := model.ActivityEvent{ID: "audit-1", OrgID: "org-1", Entry: model.AuditEntry{ID: "audit-1", Action: model.ActionToggle}}
	require.NoError(t, p.Publish(context.Background(), ev))
	require.Equal(t, []string{"org-1"}, w.keys)

	var got model.ActivityEvent
	require.NoError(t, json.Unmarshal(w.vals[0], &got))
	require.Equal(t, ev, got)
}

func TestKafkaPublisher_ShedsWhenOpen(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewKafkaPublisher(w, NewBreaker(1, time.Hour))
	ctx := context.Background()

	require.EqualError(t, p.Publish(ctx, model.ActivityEvent{ID: "a"}), "broker down")
	require.ErrorIs(t, p.Publish(ctx, model.ActivityEvent{ID: "b"}), ErrBreakerOpen)
}

func TestKafkaPublisher_FailureLeavesLoggingToCaller(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })

	p := NewKafkaPublisher(&fakeWriter{err: errors.New("broker down")}, nil)
	require.EqualError(t, p.Publish(context.Background(), model.ActivityEvent{ID: "a"}), "broker down")
	require.Zero(t, logs.Len())
}

func TestSinkAudit_DropsWrites(t *testing.T) {
	var s SinkAudit
	require.NoError(t, s.Append(context.Background(), model.AuditEntry{ID: "x"}))
}
