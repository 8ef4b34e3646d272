package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDirectoryLoaded EventType = "directory_loaded"
	EventAuditCompleted  EventType = "audit_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// DirectoryLoadedPayload describes one persisted load batch.
type DirectoryLoadedPayload struct {
	Source  string `json:"source"`
	Added   int    `json:"added"`
	Pending int    `json:"pending"`
	Skipped int    `json:"skipped"`
	Total   int    `json:"total"`
}

// AuditCompletedPayload summarises an overdue audit.
type AuditCompletedPayload struct {
	Source        string         `json:"source"`
	ReferenceDate string         `json:"reference_date"`
	Overdue       int            `json:"overdue"`
	Unresolved    int            `json:"unresolved"`
	OverdueCounts map[string]int `json:"overdue_counts"`
}
