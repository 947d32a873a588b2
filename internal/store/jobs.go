package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
)

// ErrNotFound is returned when no job exists for the given ID.
var ErrNotFound = errors.New("job not found")

// ErrUnavailable is returned when the underlying database cannot be reached
// or a read/write fails. Callers must not conflate it with ErrNotFound.
var ErrUnavailable = errors.New("job store unavailable")

// JobStore persists one JobState record per job ID. Every write replaces the
// full record, so a concurrent reader never observes a partially updated job.
type JobStore struct {
	DB *sql.DB
}

func NewJobStore(dbPath string) (*JobStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	query := `CREATE TABLE IF NOT EXISTS jobs (
		job_id TEXT PRIMARY KEY,
		state TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &JobStore{DB: db}, nil
}

// Create persists a fresh job in PENDING and returns it.
func (s *JobStore) Create(jobID string, query string) (JobState, error) {
	state := JobState{
		JobID:         jobID,
		Status:        StatusPending,
		OriginalQuery: query,
	}
	if err := s.Save(state); err != nil {
		return JobState{}, err
	}
	return state, nil
}

// Get fetches the current persisted snapshot of a job.
func (s *JobStore) Get(jobID string) (JobState, error) {
	var raw string
	err := s.DB.QueryRow(`SELECT state FROM jobs WHERE job_id = ?`, jobID).Scan(&raw)
	if err == sql.ErrNoRows {
		return JobState{}, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	if err != nil {
		return JobState{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var state JobState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return JobState{}, fmt.Errorf("%w: corrupt record for %s: %v", ErrUnavailable, jobID, err)
	}
	return state, nil
}

// Save replaces the entire persisted record for the job in one statement.
func (s *JobStore) Save(state JobState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %v", state.JobID, err)
	}

	query := `INSERT INTO jobs (job_id, state, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(job_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`
	if _, err := s.DB.Exec(query, state.JobID, string(raw)); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *JobStore) Close() error {
	return s.DB.Close()
}
