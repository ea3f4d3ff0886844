// Package storage provides a JSON-file run journal. The journal records
// the outcome of every product URL handled so far, letting an interrupted
// run resume without re-scraping completed products.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

type Record struct {
	URL       string    `json:"url"`
	ProductID string    `json:"product_id,omitempty"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Journal is safe for concurrent use. Every mutation is flushed to disk
// before it returns, via temp-file-then-rename.
type Journal struct {
	mu      sync.Mutex
	path    string
	records map[string]Record
	logger  *slog.Logger
}

// NewJournal opens the journal at path, loading any previous run's state.
// A missing file starts an empty journal; a corrupt file is an error so a
// half-written journal is never silently discarded.
func NewJournal(path string) (*Journal, error) {
	j := &Journal{
		path:    path,
		records: make(map[string]Record),
		logger:  slog.Default().With("component", "journal"),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return j, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	if err := json.Unmarshal(data, &j.records); err != nil {
		return nil, fmt.Errorf("failed to parse journal: %w", err)
	}

	j.logger.Info("loaded journal", "path", path, "records", len(j.records))
	return j, nil
}

// IsCompleted reports whether url finished successfully in this or a
// previous run.
func (j *Journal) IsCompleted(url string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.records[url].Status == StatusCompleted
}

// Mark records the outcome for url and persists the journal.
func (j *Journal) Mark(url, productID string, status Status) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.records[url] = Record{
		URL:       url,
		ProductID: productID,
		Status:    status,
		UpdatedAt: time.Now(),
	}
	return j.save()
}

// Counts returns the number of records per status.
func (j *Journal) Counts() map[Status]int {
	j.mu.Lock()
	defer j.mu.Unlock()

	counts := make(map[Status]int)
	for _, r := range j.records {
		counts[r.Status]++
	}
	return counts
}

// save must be called with the lock held.
func (j *Journal) save() error {
	data, err := json.MarshalIndent(j.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}

	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write journal: %w", err)
	}
	if err := os.Rename(tmp, j.path); err != nil {
		return fmt.Errorf("failed to replace journal: %w", err)
	}
	return nil
}
