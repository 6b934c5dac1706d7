// Package cron runs periodic housekeeping such as prompt audit retention.
package cron

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/kayz/syllabus/internal/logger"
)

// Scheduler manages scheduled jobs
type Scheduler struct {
	cron   *cron.Cron
	jobs   map[string]*Job
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a new scheduler
func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()), // Support second-level precision
		jobs:   make(map[string]*Job),
		ctx:    ctx,
		cancel: cancel,
	}
}

var parser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// normalizeCron prepends "0 " to standard 5-field cron expressions
// so they work with the 6-field (with seconds) parser.
func normalizeCron(schedule string) string {
	schedule = strings.TrimSpace(schedule)
	if len(strings.Fields(schedule)) == 5 {
		return "0 " + schedule
	}
	return schedule
}

// AddFunc validates schedule and registers fn under name.
func (s *Scheduler) AddFunc(name, schedule string, fn JobFunc) (*Job, error) {
	if fn == nil {
		return nil, fmt.Errorf("job %s has no function", name)
	}
	schedule = normalizeCron(schedule)
	if _, err := parser.Parse(schedule); err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	job := &Job{
		ID:        uuid.New().String(),
		Name:      name,
		Schedule:  schedule,
		CreatedAt: time.Now(),
		fn:        fn,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, err := s.cron.AddFunc(schedule, func() { s.executeJob(job) })
	if err != nil {
		return nil, fmt.Errorf("failed to schedule job: %w", err)
	}
	job.entryID = entryID
	s.jobs[job.ID] = job

	logger.Info("[CRON] Job created: %s (%s) - schedule: %s", job.ID, job.Name, job.Schedule)
	return job.Clone(), nil
}

// RemoveJob removes a job from the scheduler
func (s *Scheduler) RemoveJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}
	s.cron.Remove(job.entryID)
	delete(s.jobs, id)

	logger.Info("[CRON] Job removed: %s (%s)", job.ID, job.Name)
	return nil
}

// RunNow executes a job synchronously, outside its schedule.
func (s *Scheduler) RunNow(id string) error {
	s.mu.RLock()
	job, exists := s.jobs[id]
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}
	return s.executeJob(job)
}

// ListJobs returns copies of all jobs ordered by name.
func (s *Scheduler) ListJobs() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job.Clone())
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	return jobs
}

func (s *Scheduler) executeJob(job *Job) error {
	now := time.Now()
	logger.Debug("[CRON] Running job: %s (%s)", job.ID, job.Name)

	err := job.fn(s.ctx)

	s.mu.Lock()
	job.LastRun = &now
	job.Runs++
	if err != nil {
		job.LastError = err.Error()
	} else {
		job.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		logger.Error("[CRON] Job %s (%s) failed: %v", job.ID, job.Name, err)
	}
	return err
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("[CRON] Scheduler started with %d jobs", len(s.ListJobs()))
}

// Stop stops the scheduler and waits for running jobs until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		logger.Info("[CRON] Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop scheduler: %w", ctx.Err())
	}
}
