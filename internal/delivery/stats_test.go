package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmehdipour/sms-admin/internal/model"
)

func statuses(ss ...model.MessageStatus) []model.MessageStatus { return ss }

func TestComputeCounts(t *testing.T) {
	s := FromStatuses(statuses(
		model.StatusDelivered, model.StatusDelivered, model.StatusDelivered,
		model.StatusFailed, model.StatusSent, model.StatusQueued,
		model.StatusReceived, model.StatusReceived,
	))

	require.Equal(t, 8, s.Total)
	assert.Equal(t, 3, s.Delivered)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Sent)
	assert.Equal(t, 1, s.Queued)
	assert.Equal(t, 2, s.Received)
	assert.Equal(t, s.Total, s.Delivered+s.Failed+s.Sent+s.Queued+s.Received)

	// 3/6 and 1/6 of outbound messages
	assert.Equal(t, 50, s.DeliveryRate)
	assert.Equal(t, 17, s.FailureRate)
}

func TestComputeEmpty(t *testing.T) {
	s := FromStatuses(nil)
	assert.Equal(t, Stats{}, s)
}

func TestComputeAllInbound(t *testing.T) {
	s := FromStatuses(statuses(model.StatusReceived, model.StatusReceived))
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 0, s.DeliveryRate)
	assert.Equal(t, 0, s.FailureRate)
}

func TestComputeRatesBounded(t *testing.T) {
	all := []model.MessageStatus{
		model.StatusQueued, model.StatusSent, model.StatusDelivered,
		model.StatusFailed, model.StatusReceived,
	}
	// every combination of up to three statuses
	for _, a := range all {
		for _, b := range all {
			for _, c := range all {
				s := FromStatuses(statuses(a, b, c))
				assert.GreaterOrEqual(t, s.DeliveryRate, 0)
				assert.LessOrEqual(t, s.DeliveryRate, 100)
				assert.GreaterOrEqual(t, s.FailureRate, 0)
				assert.LessOrEqual(t, s.FailureRate, 100)
				assert.Equal(t, 3, s.Delivered+s.Failed+s.Sent+s.Queued+s.Received)
			}
		}
	}
}

func TestComputeUnknownStatusCountsTowardTotal(t *testing.T) {
	s := FromStatuses(statuses(model.StatusDelivered, model.MessageStatus("BOGUS")))
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Delivered)
	assert.Equal(t, 50, s.DeliveryRate)
}

func TestFromLogsIsIdempotent(t *testing.T) {
	logs := []model.MessageLog{
		{ID: "1", Status: model.StatusDelivered},
		{ID: "2", Status: model.StatusFailed},
		{ID: "3", Status: model.StatusDelivered},
	}
	first := FromLogs(logs)
	assert.Equal(t, first, FromLogs(logs))
	assert.Equal(t, 67, first.DeliveryRate)
	assert.Equal(t, 33, first.FailureRate)
}

func TestPercentRoundsHalfUp(t *testing.T) {
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 13, Percent(1, 8)) // 12.5
	assert.Equal(t, 0, Percent(5, 0))
	assert.Equal(t, 100, Percent(7, 7))
}
