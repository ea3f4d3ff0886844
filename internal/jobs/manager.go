// Package jobs tracks single-term scrape jobs submitted over the API and
// runs them one at a time against the traversal machinery.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunFunc executes one scrape for a search term and returns the number
// of products saved.
type RunFunc func(ctx context.Context, term string, quota int) (int64, error)

type Job struct {
	ID            string     `json:"id"`
	SearchTerm    string     `json:"search_term"`
	Category      string     `json:"category,omitempty"`
	Quota         int        `json:"quota"`
	Status        string     `json:"status"`
	ProductsSaved int64      `json:"products_saved"`
	CreatedAt     time.Time  `json:"created_at"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Error         string     `json:"error,omitempty"`
}

type Stats struct {
	TotalJobs     int   `json:"total_jobs"`
	PendingJobs   int   `json:"pending_jobs"`
	RunningJobs   int   `json:"running_jobs"`
	CompletedJobs int   `json:"completed_jobs"`
	FailedJobs    int   `json:"failed_jobs"`
	TotalProducts int64 `json:"total_products"`
}

// Manager keeps jobs in memory; job state does not survive a restart.
type Manager struct {
	mu     sync.Mutex
	jobs   map[string]*Job
	run    RunFunc
	logger *slog.Logger

	pollInterval time.Duration
}

func NewManager(run RunFunc, pollInterval time.Duration) *Manager {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Manager{
		jobs:         make(map[string]*Job),
		run:          run,
		logger:       slog.Default().With("component", "job_manager"),
		pollInterval: pollInterval,
	}
}

func (m *Manager) CreateJob(searchTerm, category string, quota int) (*Job, error) {
	if searchTerm == "" {
		return nil, fmt.Errorf("search term is required")
	}
	if quota <= 0 {
		quota = 5
	}

	job := &Job{
		ID:         uuid.New().String(),
		SearchTerm: searchTerm,
		Category:   category,
		Quota:      quota,
		Status:     StatusPending,
		CreatedAt:  time.Now(),
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	m.logger.Info("job created", "id", job.ID, "term", searchTerm, "quota", quota)
	return job, nil
}

func (m *Manager) GetJob(jobID string) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	copied := *job
	return &copied, nil
}

func (m *Manager) ListJobs() []*Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	jobs := make([]*Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		copied := *job
		jobs = append(jobs, &copied)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs
}

func (m *Manager) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := Stats{TotalJobs: len(m.jobs)}
	for _, job := range m.jobs {
		switch job.Status {
		case StatusPending:
			stats.PendingJobs++
		case StatusRunning:
			stats.RunningJobs++
		case StatusCompleted:
			stats.CompletedJobs++
		case StatusFailed:
			stats.FailedJobs++
		}
		stats.TotalProducts += job.ProductsSaved
	}
	return stats
}

// Start polls for pending jobs until ctx is cancelled. Jobs run one at a
// time; the shared browser session does not tolerate parallel runs.
func (m *Manager) Start(ctx context.Context) error {
	m.logger.Info("job manager started", "poll_interval", m.pollInterval)

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("job manager stopped")
			return ctx.Err()
		case <-ticker.C:
			if job := m.nextPending(); job != nil {
				m.runJob(ctx, job)
			}
		}
	}
}

// nextPending claims the oldest pending job, marking it running.
func (m *Manager) nextPending() *Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	var oldest *Job
	for _, job := range m.jobs {
		if job.Status != StatusPending {
			continue
		}
		if oldest == nil || job.CreatedAt.Before(oldest.CreatedAt) {
			oldest = job
		}
	}
	if oldest == nil {
		return nil
	}

	now := time.Now()
	oldest.Status = StatusRunning
	oldest.StartedAt = &now
	return oldest
}

func (m *Manager) runJob(ctx context.Context, job *Job) {
	m.logger.Info("job started", "id", job.ID, "term", job.SearchTerm)

	saved, err := m.run(ctx, job.SearchTerm, job.Quota)

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	job.CompletedAt = &now
	job.ProductsSaved = saved
	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()
		m.logger.Error("job failed", "id", job.ID, "error", err)
		return
	}

	job.Status = StatusCompleted
	m.logger.Info("job completed", "id", job.ID, "saved", saved)
}
