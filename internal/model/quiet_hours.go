package model

import "time"

// QuietHours is an organization's do-not-send window.
type QuietHours struct {
	ID                   string    `json:"id" db:"id"`
	OrgID                string    `json:"org_id" db:"org_id"`
	Enabled              bool      `json:"enabled" db:"enabled"`
	StartTime            string    `json:"start_time" db:"start_time"` // "21:00"
	EndTime              string    `json:"end_time" db:"end_time"`     // "09:00"
	Timezone             string    `json:"timezone" db:"timezone"`
	DaysOfWeek           []int     `json:"days_of_week" db:"-"` // 0 = Sunday
	ApplyToMarketing     bool      `json:"apply_to_marketing" db:"apply_to_marketing"`
	ApplyToTransactional bool      `json:"apply_to_transactional" db:"apply_to_transactional"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

func (q QuietHours) Clone() QuietHours {
	q.DaysOfWeek = append([]int(nil), q.DaysOfWeek...)
	return q
}
