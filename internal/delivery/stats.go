// Package delivery aggregates message-log statuses into delivery statistics.
package delivery

import (
	"math"

	"github.com/jmehdipour/sms-admin/internal/model"
)

// Stats is the status breakdown of a log collection. Rates are percentages
// of outbound messages; inbound (RECEIVED) messages are excluded from the
// denominator.
type Stats struct {
	Total        int `json:"total"`
	Queued       int `json:"queued"`
	Sent         int `json:"sent"`
	Delivered    int `json:"delivered"`
	Failed       int `json:"failed"`
	Received     int `json:"received"`
	DeliveryRate int `json:"delivery_rate"`
	FailureRate  int `json:"failure_rate"`
}

// Statused is anything carrying a message status.
type Statused interface {
	LogStatus() model.MessageStatus
}

// Compute counts statuses and derives both rates. Unknown statuses only
// count toward Total.
func Compute[T Statused](items []T) Stats {
	var s Stats
	for _, it := range items {
		s.Total++
		switch it.LogStatus() {
		case model.StatusQueued:
			s.Queued++
		case model.StatusSent:
			s.Sent++
		case model.StatusDelivered:
			s.Delivered++
		case model.StatusFailed:
			s.Failed++
		case model.StatusReceived:
			s.Received++
		}
	}

	outbound := s.Total - s.Received
	s.DeliveryRate = Percent(s.Delivered, outbound)
	s.FailureRate = Percent(s.Failed, outbound)
	return s
}

// FromLogs is Compute for message logs.
func FromLogs(logs []model.MessageLog) Stats {
	return Compute(logs)
}

// FromStatuses is Compute for bare status values.
func FromStatuses(statuses []model.MessageStatus) Stats {
	items := make([]statusValue, len(statuses))
	for i, st := range statuses {
		items[i] = statusValue(st)
	}
	return Compute(items)
}

type statusValue model.MessageStatus

func (s statusValue) LogStatus() model.MessageStatus { return model.MessageStatus(s) }

// Percent returns round(part/whole*100), half away from zero, and 0 when
// whole is not positive.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Floor(float64(part)/float64(whole)*100 + 0.5))
}
