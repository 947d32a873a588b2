package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestStore(t *testing.T) *JobStore {
	t.Helper()
	s, err := NewJobStore(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGet(t *testing.T) {
	s := newTestStore(t)

	created, err := s.Create("job-1", "what is quantum computing?")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Status != StatusPending {
		t.Errorf("new job status = %s, want %s", created.Status, StatusPending)
	}

	got, err := s.Get("job-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !reflect.DeepEqual(got, created) {
		t.Errorf("Get = %+v, want %+v", got, created)
	}
}

func TestGetUnknownJob(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get unknown job error = %v, want ErrNotFound", err)
	}
}

func TestSaveReplacesFullRecord(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Create("job-1", "q"); err != nil {
		t.Fatal(err)
	}

	updated := sampleJob()
	updated.JobID = "job-1"
	if err := s.Save(updated); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Get("job-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !reflect.DeepEqual(got, updated) {
		t.Errorf("persisted record = %+v, want %+v", got, updated)
	}
}

func TestPersistenceRoundTripAllFields(t *testing.T) {
	s := newTestStore(t)

	state := sampleJob()
	state.Status = StatusCompleted
	state.FinalAnswer = "Rust and Go differ in ..."
	state.Error = ""
	if err := s.Save(state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Get(state.JobID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !reflect.DeepEqual(got, state) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, state)
	}
}
