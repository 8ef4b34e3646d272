package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu             sync.Mutex
	requestCount   map[string]int64
	errorCount     map[string]int64
	requestLatency map[string]time.Duration
	audits         int64
	overdue        int64
	unresolved     int64
	peopleAdded    int64
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Requests           map[string]int64 `json:"requests"`
	Errors             map[string]int64 `json:"errors"`
	AvgLatencyMillis   map[string]int64 `json:"avg_latency_ms"`
	Audits             int64            `json:"audits"`
	OverdueRecords     int64            `json:"overdue_records"`
	UnresolvedNames    int64            `json:"unresolved_names"`
	DirectoryAdditions int64            `json:"directory_additions"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:   make(map[string]int64),
		errorCount:     make(map[string]int64),
		requestLatency: make(map[string]time.Duration),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.requestLatency[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordAudit counts one audit run and its outcome.
func (m *Metrics) RecordAudit(overdue, unresolved int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audits++
	m.overdue += int64(overdue)
	m.unresolved += int64(unresolved)
}

// RecordDirectoryLoad counts people admitted by a load batch.
func (m *Metrics) RecordDirectoryLoad(added int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.peopleAdded += int64(added)
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := MetricsSnapshot{
		Requests:           make(map[string]int64, len(m.requestCount)),
		Errors:             make(map[string]int64, len(m.errorCount)),
		AvgLatencyMillis:   make(map[string]int64, len(m.requestLatency)),
		Audits:             m.audits,
		OverdueRecords:     m.overdue,
		UnresolvedNames:    m.unresolved,
		DirectoryAdditions: m.peopleAdded,
	}
	for k, v := range m.requestCount {
		snap.Requests[k] = v
		if v > 0 {
			snap.AvgLatencyMillis[k] = (m.requestLatency[k] / time.Duration(v)).Milliseconds()
		}
	}
	for k, v := range m.errorCount {
		snap.Errors[k] = v
	}
	return snap
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
