package testutil

import (
	"context"
	"testing"
	"time"

	"golf-match-service/internal/domain/golf"
	"golf-match-service/internal/store"
)

// FixtureTime is the creation time stamped on seeded rows.
var FixtureTime = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

// SeedMatch inserts a match directly through the store.
func SeedMatch(t testing.TB, st *store.SQLStore, name string, holes int) golf.Match {
	t.Helper()
	m, err := st.InsertMatch(context.Background(), golf.Match{Name: name, NumHoles: holes, CreatedAt: FixtureTime})
	if err != nil {
		t.Fatalf("seed match: %v", err)
	}
	return m
}

// SeedPlayer enrolls a player named name into the match.
func SeedPlayer(t testing.TB, st *store.SQLStore, matchID int64, name string) golf.Player {
	t.Helper()
	p, err := st.EnrollPlayer(context.Background(), matchID, name)
	if err != nil {
		t.Fatalf("seed player: %v", err)
	}
	return p
}

// SeedScore records strokes for a hole.
func SeedScore(t testing.TB, st *store.SQLStore, matchID, playerID int64, hole, strokes int) golf.Score {
	t.Helper()
	sc, err := st.UpsertScore(context.Background(), golf.Score{
		MatchID:    matchID,
		PlayerID:   playerID,
		HoleNumber: hole,
		Strokes:    strokes,
		CreatedAt:  FixtureTime,
	})
	if err != nil {
		t.Fatalf("seed score: %v", err)
	}
	return sc
}
