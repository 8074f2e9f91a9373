// Package quiethours validates and evaluates per-organization send windows.
package quiethours

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/jmehdipour/sms-admin/internal/model"
)

var (
	ErrInvalidTime     = errors.New("invalid time, want HH:MM")
	ErrInvalidTimezone = errors.New("invalid timezone")
	ErrInvalidDay      = errors.New("invalid day of week")
	ErrNoTarget        = errors.New("quiet hours must apply to at least one template type")
)

// Timezone is a selectable zone with its display label.
type Timezone struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var Timezones = []Timezone{
	{Value: "America/New_York", Label: "Eastern Time (ET)"},
	{Value: "America/Chicago", Label: "Central Time (CT)"},
	{Value: "America/Denver", Label: "Mountain Time (MT)"},
	{Value: "America/Los_Angeles", Label: "Pacific Time (PT)"},
	{Value: "America/Phoenix", Label: "Arizona (AZ)"},
	{Value: "Pacific/Honolulu", Label: "Hawaii (HT)"},
	{Value: "America/Anchorage", Label: "Alaska (AKT)"},
}

// TimezoneLabel returns the display label of tz, or tz itself.
func TimezoneLabel(tz string) string {
	for _, z := range Timezones {
		if z.Value == tz {
			return z.Label
		}
	}
	return tz
}

// Default is the configuration of an organization that never saved one.
func Default(orgID string) model.QuietHours {
	return model.QuietHours{
		OrgID:            orgID,
		Enabled:          false,
		StartTime:        "21:00",
		EndTime:          "09:00",
		Timezone:         "America/New_York",
		DaysOfWeek:       []int{0, 1, 2, 3, 4, 5, 6},
		ApplyToMarketing: true,
	}
}

// Validate checks times, zone and days, and normalizes DaysOfWeek to a
// sorted set.
func Validate(q *model.QuietHours) error {
	if _, err := parseClock(q.StartTime); err != nil {
		return fmt.Errorf("start_time: %w", err)
	}
	if _, err := parseClock(q.EndTime); err != nil {
		return fmt.Errorf("end_time: %w", err)
	}
	if _, err := time.LoadLocation(q.Timezone); err != nil || q.Timezone == "" {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, q.Timezone)
	}
	for _, d := range q.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: %d", ErrInvalidDay, d)
		}
	}
	if q.Enabled && !q.ApplyToMarketing && !q.ApplyToTransactional {
		return ErrNoTarget
	}
	days := slices.Clone(q.DaysOfWeek)
	slices.Sort(days)
	q.DaysOfWeek = slices.Compact(days)
	return nil
}

// Active reports whether a message of type tt sent at "at" falls inside the
// quiet window. A window that wraps midnight belongs to the day it starts on,
// so 21:00-09:00 on Sundays only covers Sunday 21:00 to Monday 09:00.
func Active(q model.QuietHours, at time.Time, tt model.TemplateType) (bool, error) {
	if !q.Enabled || !applies(q, tt) {
		return false, nil
	}
	start, err := parseClock(q.StartTime)
	if err != nil {
		return false, err
	}
	end, err := parseClock(q.EndTime)
	if err != nil {
		return false, err
	}
	loc, err := time.LoadLocation(q.Timezone)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrInvalidTimezone, q.Timezone)
	}
	if start == end {
		return false, nil
	}

	local := at.In(loc)
	now := local.Hour()*60 + local.Minute()
	today := int(local.Weekday())

	if start < end {
		return now >= start && now < end && slices.Contains(q.DaysOfWeek, today), nil
	}
	if now >= start {
		return slices.Contains(q.DaysOfWeek, today), nil
	}
	if now < end {
		yesterday := (today + 6) % 7
		return slices.Contains(q.DaysOfWeek, yesterday), nil
	}
	return false, nil
}

func applies(q model.QuietHours, tt model.TemplateType) bool {
	switch tt {
	case model.TemplateMarketing:
		return q.ApplyToMarketing
	case model.TemplateTransactional:
		return q.ApplyToTransactional
	}
	return false
}

// parseClock returns minutes since midnight of "HH:MM".
func parseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, ErrInvalidTime
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, ErrInvalidTime
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, ErrInvalidTime
	}
	return h*60 + m, nil
}

var dayNames = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Describe renders a one-line summary, e.g.
// "21:00-09:00 Eastern Time (ET); Marketing; Sun, Sat".
func Describe(q model.QuietHours) string {
	if !q.Enabled {
		return "not configured"
	}
	var targets []string
	if q.ApplyToMarketing {
		targets = append(targets, "Marketing")
	}
	if q.ApplyToTransactional {
		targets = append(targets, "Transactional")
	}
	days := make([]string, 0, len(q.DaysOfWeek))
	for _, d := range q.DaysOfWeek {
		if d >= 0 && d < len(dayNames) {
			days = append(days, dayNames[d])
		}
	}
	return fmt.Sprintf("%s-%s %s; %s; %s",
		q.StartTime, q.EndTime, TimezoneLabel(q.Timezone),
		strings.Join(targets, ", "), strings.Join(days, ", "))
}
