package observability

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// EventType defines the category of the log event.
type EventType string

const (
	EventTypeStage      EventType = "stage"
	EventTypeToolCall   EventType = "tool_call"
	EventTypeToolResult EventType = "tool_result"
	EventTypeLLM        EventType = "llm"
	EventTypeError      EventType = "error"
	EventTypeHeartbeat  EventType = "heartbeat"
)

// Event represents a structured log entry.
type Event struct {
	Type      EventType `json:"type"`
	JobID     string    `json:"job_id,omitempty"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Logger handles structured logging.
type Logger struct {
	llmLogPath string
	maxSize    int64
}

func NewLogger() *Logger {
	return &Logger{
		llmLogPath: filepath.Join("logs", "llm.jsonl"),
		maxSize:    10 * 1024 * 1024, // 10MB
	}
}

// Log emits a structured JSON event to stdout.
func (l *Logger) Log(evt Event) {
	if l == nil {
		return
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		fmt.Printf("{\"error\": \"failed to marshal event: %v\"}\n", err)
		return
	}
	fmt.Println(string(data))

	if evt.Type == EventTypeLLM {
		l.writeToFile(data)
	}
}

func (l *Logger) writeToFile(data []byte) {
	if err := os.MkdirAll(filepath.Dir(l.llmLogPath), 0755); err != nil {
		log.Printf("failed to create log directory: %v", err)
		return
	}

	// Check size before writing
	info, err := os.Stat(l.llmLogPath)
	if err == nil && info.Size() > l.maxSize {
		l.rotateLogs()
	}

	f, err := os.OpenFile(l.llmLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("failed to open log file: %v", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		log.Printf("failed to write to log file: %v", err)
	}
}

func (l *Logger) rotateLogs() {
	// Simple rotation: keep one .old file
	oldPath := l.llmLogPath + ".old"
	_ = os.Remove(oldPath)
	_ = os.Rename(l.llmLogPath, oldPath)
}

// Helper methods for common events

func (l *Logger) LogStage(jobID string, status string) {
	l.Log(Event{
		Type:  EventTypeStage,
		JobID: jobID,
		Data:  map[string]string{"status": status},
	})
}

func (l *Logger) LogToolCall(jobID, tool, input string) {
	l.Log(Event{
		Type:  EventTypeToolCall,
		JobID: jobID,
		Data: map[string]string{
			"tool":  tool,
			"input": input,
		},
	})
}

func (l *Logger) LogToolResult(jobID, tool string, sources int, failed bool) {
	l.Log(Event{
		Type:  EventTypeToolResult,
		JobID: jobID,
		Data: map[string]any{
			"tool":    tool,
			"sources": sources,
			"failed":  failed,
		},
	})
}

func (l *Logger) LogLLM(jobID, role string, prompt any, response string) {
	l.Log(Event{
		Type:  EventTypeLLM,
		JobID: jobID,
		Data: map[string]any{
			"role":     role,
			"prompt":   prompt,
			"response": response,
		},
	})
}

func (l *Logger) LogError(jobID, message string) {
	l.Log(Event{
		Type:  EventTypeError,
		JobID: jobID,
		Data:  map[string]string{"message": message},
	})
}

func (l *Logger) LogHeartbeat() {
	l.Log(Event{
		Type: EventTypeHeartbeat,
		Data: map[string]any{"status": "alive", "active_jobs": ActiveJobs()},
	})
}
