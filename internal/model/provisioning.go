package model

import "time"

type JobStatus string

const (
	JobPending  JobStatus = "PENDING"
	JobRunning  JobStatus = "RUNNING"
	JobComplete JobStatus = "COMPLETE"
	JobFailed   JobStatus = "FAILED"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobPending, JobRunning, JobComplete, JobFailed:
		return true
	}
	return false
}

// ProvisioningStep is one named setup step. Steps are snapshots; nothing in
// this service advances them.
type ProvisioningStep struct {
	Name    string    `json:"name" db:"name"`
	Status  JobStatus `json:"status" db:"status"`
	Message string    `json:"message,omitempty" db:"message"`
}

type ProvisioningJob struct {
	ID           string             `json:"id" db:"id"`
	OrgID        string             `json:"org_id" db:"org_id"`
	Status       JobStatus          `json:"status" db:"status"`
	Steps        []ProvisioningStep `json:"steps" db:"-"`
	ErrorMessage string             `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" db:"updated_at"`
}

func (j ProvisioningJob) Clone() ProvisioningJob {
	j.Steps = append([]ProvisioningStep(nil), j.Steps...)
	return j
}

// ProvisioningStepNames is the fixed order of steps of a new job.
var ProvisioningStepNames = []string{
	"Create Twilio subaccount",
	"Buy numbers",
	"Create messaging services",
	"Register A2P brand",
	"Register A2P campaigns",
}

// NewProvisioningSteps returns the step list of a freshly triggered job.
func NewProvisioningSteps() []ProvisioningStep {
	steps := make([]ProvisioningStep, 0, len(ProvisioningStepNames))
	for _, n := range ProvisioningStepNames {
		steps = append(steps, ProvisioningStep{Name: n, Status: JobPending})
	}
	return steps
}
