package metrics

import (
	"sync"
	"time"
)

// Domain event names recorded by the services.
const (
	EventMatchCreated   = "match_created"
	EventPlayerEnrolled = "player_enrolled"
	EventScoreRecorded  = "score_recorded"
)

type operationStats struct {
	calls       int
	errors      int
	retries     int
	lastLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about store operations and
// forwards them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu     sync.Mutex
	stats  map[string]*operationStats
	events map[string]int
	otel   *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:  make(map[string]*operationStats),
		events: make(map[string]int),
		otel:   otel,
	}
}

// RecordStoreOperation increments counters for a store call and stores the last observed latency.
func (r *Recorder) RecordStoreOperation(op string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(op)
	stats.calls++
	stats.lastLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordStoreOperation(op, duration, err)
	}
}

// RecordStoreRetry tracks a transient store failure that will be retried.
func (r *Recorder) RecordStoreRetry(op string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.ensureStats(op).retries++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordStoreRetry(op)
	}
}

// RecordDomainEvent counts a successful domain mutation.
func (r *Recorder) RecordDomainEvent(event string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.events[event]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordDomainEvent(event)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot is a copy of the stats recorded for one store operation.
type Snapshot struct {
	Calls       int
	Errors      int
	Retries     int
	LastLatency time.Duration
}

func (r *Recorder) Snapshot(op string) Snapshot {
	if r == nil {
		return Snapshot{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[op]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:       stats.calls,
		Errors:      stats.errors,
		Retries:     stats.retries,
		LastLatency: stats.lastLatency,
	}
}

// StoreCalls returns the total attempts recorded for a store operation.
func (r *Recorder) StoreCalls(op string) int {
	return r.Snapshot(op).Calls
}

// StoreErrors returns the failed attempts recorded for a store operation.
func (r *Recorder) StoreErrors(op string) int {
	return r.Snapshot(op).Errors
}

// DomainEvents returns how many times the event was recorded.
func (r *Recorder) DomainEvents(event string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[event]
}

// ensureStats must be called with r.mu held.
func (r *Recorder) ensureStats(op string) *operationStats {
	stats, ok := r.stats[op]
	if !ok {
		stats = &operationStats{}
		r.stats[op] = stats
	}
	return stats
}
