package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// JobFunc is the work a job runs. The context is cancelled when the
// scheduler stops.
type JobFunc func(ctx context.Context) error

// Job represents a scheduled maintenance task
type Job struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Schedule  string     `json:"schedule"`
	CreatedAt time.Time  `json:"created_at"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	Runs      int        `json:"runs"`

	fn      JobFunc
	entryID cron.EntryID
}

// Clone copies the reportable fields of the job.
func (j *Job) Clone() *Job {
	clone := &Job{
		ID:        j.ID,
		Name:      j.Name,
		Schedule:  j.Schedule,
		CreatedAt: j.CreatedAt,
		LastError: j.LastError,
		Runs:      j.Runs,
	}

	if j.LastRun != nil {
		lastRun := *j.LastRun
		clone.LastRun = &lastRun
	}

	return clone
}
