package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"golf-match-service/internal/metrics"
	"golf-match-service/internal/store"
)

// NewTestStore opens a SQLite store in a per-test temporary directory and closes
// it when the test finishes.
func NewTestStore(t testing.TB) *store.SQLStore {
	t.Helper()
	return NewTestStoreWithRecorder(t, nil)
}

// NewTestStoreWithRecorder is NewTestStore with metrics captured by rec.
func NewTestStoreWithRecorder(t testing.TB, rec *metrics.Recorder) *store.SQLStore {
	t.Helper()
	st, err := store.Open(context.Background(), store.Config{
		Path:         filepath.Join(t.TempDir(), "golf.db"),
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 4,
	}, nil, rec)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}
