package observability

import (
	"sync"
	"time"
)

type SystemStatus struct {
	mu            sync.RWMutex
	ActiveJobs    int
	LastHeartbeat time.Time
}

var globalStatus = &SystemStatus{
	LastHeartbeat: time.Now(),
}

// JobStarted records a pipeline run starting.
func JobStarted() {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()
	globalStatus.ActiveJobs++
}

// JobFinished records a pipeline run reaching a terminal state.
func JobFinished() {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()
	if globalStatus.ActiveJobs > 0 {
		globalStatus.ActiveJobs--
	}
}

// ActiveJobs returns the number of pipelines currently running.
func ActiveJobs() int {
	globalStatus.mu.RLock()
	defer globalStatus.mu.RUnlock()
	return globalStatus.ActiveJobs
}

// Heartbeat updates the last heartbeat time.
func Heartbeat() {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()
	globalStatus.LastHeartbeat = time.Now()
}
