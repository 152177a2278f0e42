package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRecorderTracksStoreOperationsAndErrors(t *testing.T) {
	rec := NewRecorder()
	rec.RecordStoreOperation("upsert_score", 10*time.Millisecond, nil)
	rec.RecordStoreOperation("upsert_score", 15*time.Millisecond, errors.New("boom"))

	if got := rec.StoreCalls("upsert_score"); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
	if got := rec.StoreErrors("upsert_score"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}

	snap := rec.Snapshot("upsert_score")
	if snap.LastLatency != 15*time.Millisecond {
		t.Fatalf("expected last latency to be 15ms, got %s", snap.LastLatency)
	}
	if snap.Calls != 2 || snap.Errors != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestRecorderTracksRetriesAndEvents(t *testing.T) {
	rec := NewRecorder()
	rec.RecordStoreRetry("enroll_player")
	rec.RecordStoreRetry("enroll_player")
	rec.RecordDomainEvent(EventPlayerEnrolled)

	if got := rec.Snapshot("enroll_player").Retries; got != 2 {
		t.Fatalf("expected 2 retries, got %d", got)
	}
	if got := rec.DomainEvents(EventPlayerEnrolled); got != 1 {
		t.Fatalf("expected 1 enrolled event, got %d", got)
	}
	if got := rec.DomainEvents(EventScoreRecorded); got != 0 {
		t.Fatalf("expected no score events, got %d", got)
	}
}

func TestRecorderUnknownOperationReturnsZeroSnapshot(t *testing.T) {
	rec := NewRecorder()
	if snap := rec.Snapshot("missing"); snap != (Snapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordStoreOperation("op", time.Millisecond, nil)
	rec.RecordStoreRetry("op")
	rec.RecordDomainEvent(EventMatchCreated)
	rec.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)

	if rec.StoreCalls("op") != 0 || rec.DomainEvents(EventMatchCreated) != 0 {
		t.Fatalf("expected nil recorder to report zero")
	}
}

func TestRecorderConcurrentUse(t *testing.T) {
	rec := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.RecordStoreOperation("get_match", time.Millisecond, nil)
			rec.RecordDomainEvent(EventScoreRecorded)
		}()
	}
	wg.Wait()

	if got := rec.StoreCalls("get_match"); got != 50 {
		t.Fatalf("expected 50 calls, got %d", got)
	}
	if got := rec.DomainEvents(EventScoreRecorded); got != 50 {
		t.Fatalf("expected 50 events, got %d", got)
	}
}
