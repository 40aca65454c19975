package model

import (
	"time"

	"github.com/google/uuid"
)

// Run is the state of one collector run. Pipeline steps receive the run and
// fill it in: candidates first, then records, then the output location.
type Run struct {
	// ID identifies the run in logs and in the entity cache.
	ID string `json:"id"`

	// Category is the encyclopedia category the candidates come from.
	Category string `json:"category"`

	// Limit caps the number of candidate pages.
	Limit int `json:"limit"`

	// Deep includes pages of subcategories transitively.
	Deep bool `json:"deep"`

	// Candidates are the page titles to fetch, in search order.
	Candidates []string `json:"candidates"`

	// Truncated is set when the candidate search hit Limit, which means the
	// category may hold more pages than were collected.
	Truncated bool `json:"truncated"`

	// Skipped lists candidates dropped by ignore patterns.
	Skipped []string `json:"skipped,omitempty"`

	// Records holds one record per fetched candidate.
	Records []Record `json:"records"`

	// SnapshotPath is where the records were persisted. Empty until written.
	SnapshotPath string `json:"snapshot_path,omitempty"`

	// StartedAt is when the run was created.
	StartedAt time.Time `json:"started_at"`

	// CompletedSteps lists the names of the pipeline steps that finished.
	CompletedSteps []string `json:"completed_steps"`
}

// NewRun creates a run for the given category.
func NewRun(category string, limit int, deep bool) *Run {
	return &Run{
		ID:             uuid.NewString(),
		Category:       category,
		Limit:          limit,
		Deep:           deep,
		Candidates:     make([]string, 0),
		Records:        make([]Record, 0),
		StartedAt:      time.Now(),
		CompletedSteps: make([]string, 0),
	}
}

// Elapsed returns the wall-clock time since the run started.
func (r *Run) Elapsed() time.Duration {
	return time.Since(r.StartedAt)
}
