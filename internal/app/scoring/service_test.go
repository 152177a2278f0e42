package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"golf-match-service/internal/domain/golf"
	"golf-match-service/internal/metrics"
)

type key struct {
	match, player int64
	hole          int
}

type stubStore struct {
	matches  map[int64]golf.Match
	players  map[int64]golf.Player
	enrolled map[[2]int64]bool
	scores   map[key]golf.Score

	upsertErr   error
	upsertCalls int
}

func newStubStore() *stubStore {
	return &stubStore{
		matches:  map[int64]golf.Match{1: {ID: 1, Name: "Saturday", NumHoles: 3}},
		players:  map[int64]golf.Player{10: {ID: 10, Name: "Eve"}, 11: {ID: 11, Name: "Dan"}},
		enrolled: map[[2]int64]bool{{1, 10}: true},
		scores:   map[key]golf.Score{},
	}
}

func (s *stubStore) GetMatch(_ context.Context, id int64) (golf.Match, bool, error) {
	m, ok := s.matches[id]
	return m, ok, nil
}

func (s *stubStore) GetPlayer(_ context.Context, id int64) (golf.Player, bool, error) {
	p, ok := s.players[id]
	return p, ok, nil
}

func (s *stubStore) IsEnrolled(_ context.Context, matchID, playerID int64) (bool, error) {
	return s.enrolled[[2]int64{matchID, playerID}], nil
}

func (s *stubStore) UpsertScore(_ context.Context, sc golf.Score) (golf.Score, error) {
	s.upsertCalls++
	if s.upsertErr != nil {
		return golf.Score{}, s.upsertErr
	}
	k := key{sc.MatchID, sc.PlayerID, sc.HoleNumber}
	if existing, ok := s.scores[k]; ok {
		sc.ID = existing.ID
	} else {
		sc.ID = int64(len(s.scores) + 1)
	}
	s.scores[k] = sc
	return sc, nil
}

func (s *stubStore) ListScores(_ context.Context, matchID, playerID int64) ([]golf.Score, error) {
	var out []golf.Score
	for hole := 1; hole <= 36; hole++ {
		if sc, ok := s.scores[key{matchID, playerID, hole}]; ok {
			out = append(out, sc)
		}
	}
	return out, nil
}

func newTestService(store Store) (*Service, *metrics.Recorder) {
	rec := metrics.NewRecorder()
	svc := NewService(store, rec)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	return svc, rec
}

func TestRecordScoreOverwrites(t *testing.T) {
	store := newStubStore()
	svc, rec := newTestService(store)

	first, err := svc.RecordScore(context.Background(), 1, 10, 1, 4)
	if err != nil {
		t.Fatalf("first record: %v", err)
	}
	second, err := svc.RecordScore(context.Background(), 1, 10, 1, 5)
	if err != nil {
		t.Fatalf("second record: %v", err)
	}
	if first.ID != second.ID || second.Strokes != 5 {
		t.Fatalf("expected overwrite of one row, got %+v then %+v", first, second)
	}
	if len(store.scores) != 1 {
		t.Fatalf("expected one stored score, got %d", len(store.scores))
	}
	if rec.DomainEvents(metrics.EventScoreRecorded) != 2 {
		t.Fatalf("expected score events")
	}
}

func TestRecordScoreCheckOrder(t *testing.T) {
	cases := []struct {
		name    string
		matchID int64
		cmd     golf.NewScore
		kind    error
		message string
	}{
		{"missing match wins over everything", 99, golf.NewScore{PlayerID: 99, HoleNumber: 99, Strokes: 0}, golf.ErrNotFound, "match not found"},
		{"missing player", 1, golf.NewScore{PlayerID: 99, HoleNumber: 99, Strokes: 0}, golf.ErrNotFound, "player not found"},
		{"not enrolled before hole range", 1, golf.NewScore{PlayerID: 11, HoleNumber: 99, Strokes: 4}, golf.ErrPreconditionFailed, "player not in this match"},
		{"hole above range", 1, golf.NewScore{PlayerID: 10, HoleNumber: 4, Strokes: 4}, golf.ErrValidation, "hole_number must be between 1 and 3"},
		{"hole below range", 1, golf.NewScore{PlayerID: 10, HoleNumber: 0, Strokes: 4}, golf.ErrValidation, "hole_number must be between 1 and 3"},
		{"zero strokes", 1, golf.NewScore{PlayerID: 10, HoleNumber: 2, Strokes: 0}, golf.ErrValidation, "strokes must be at least 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newStubStore()
			svc, _ := newTestService(store)
			_, err := svc.RecordScore(context.Background(), tc.matchID, tc.cmd.PlayerID, tc.cmd.HoleNumber, tc.cmd.Strokes)
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
			if err.Error() != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, err.Error())
			}
			if store.upsertCalls != 0 {
				t.Fatalf("rejected scores must not reach the store")
			}
		})
	}
}

func TestRecordScoreWrapsStoreError(t *testing.T) {
	store := newStubStore()
	store.upsertErr = errors.New("database is locked")
	svc, rec := newTestService(store)
	_, err := svc.RecordScore(context.Background(), 1, 10, 1, 4)
	if !errors.Is(err, store.upsertErr) || golf.IsDomainError(err) {
		t.Fatalf("expected wrapped infrastructure error, got %v", err)
	}
	if rec.DomainEvents(metrics.EventScoreRecorded) != 0 {
		t.Fatalf("no event expected on failure")
	}
}

func TestRecordScoreStampsUTC(t *testing.T) {
	svc, _ := newTestService(newStubStore())
	sc, err := svc.RecordScore(context.Background(), 1, 10, 3, 6)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if sc.CreatedAt.Location() != time.UTC || sc.MatchID != 1 {
		t.Fatalf("unexpected score %+v", sc)
	}
}

func TestListPlayerScores(t *testing.T) {
	store := newStubStore()
	svc, _ := newTestService(store)
	for _, hole := range []int{2, 1} {
		if _, err := svc.RecordScore(context.Background(), 1, 10, hole, 3); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	scores, err := svc.ListPlayerScores(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(scores) != 2 || scores[0].HoleNumber != 1 {
		t.Fatalf("unexpected scores %+v", scores)
	}

	empty, err := svc.ListPlayerScores(context.Background(), 1, 11)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil scorecard, got %#v err=%v", empty, err)
	}
}

func TestListPlayerScoresNotFound(t *testing.T) {
	svc, _ := newTestService(newStubStore())
	if _, err := svc.ListPlayerScores(context.Background(), 99, 10); !errors.Is(err, golf.ErrNotFound) {
		t.Fatalf("expected match not found, got %v", err)
	}
	if _, err := svc.ListPlayerScores(context.Background(), 1, 99); !errors.Is(err, golf.ErrNotFound) {
		t.Fatalf("expected player not found, got %v", err)
	}
}
