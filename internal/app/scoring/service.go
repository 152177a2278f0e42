package scoring

import (
	"context"
	"fmt"
	"time"

	"golf-match-service/internal/app"
	"golf-match-service/internal/domain/golf"
	"golf-match-service/internal/metrics"
)

// Store defines the persistence needed for score recording.
type Store interface {
	app.MatchReader
	GetPlayer(ctx context.Context, id int64) (golf.Player, bool, error)
	IsEnrolled(ctx context.Context, matchID, playerID int64) (bool, error)
	UpsertScore(ctx context.Context, sc golf.Score) (golf.Score, error)
	ListScores(ctx context.Context, matchID, playerID int64) ([]golf.Score, error)
}

// Service records per-hole strokes.
type Service struct {
	store    Store
	recorder *metrics.Recorder
	now      func() time.Time
}

func NewService(store Store, recorder *metrics.Recorder) *Service {
	return &Service{store: store, recorder: recorder, now: time.Now}
}

// RecordScore stores strokes for one hole, replacing any earlier value for the
// same match, player and hole. Checks run in a fixed order: match, player,
// enrollment, hole range, strokes.
func (s *Service) RecordScore(ctx context.Context, matchID, playerID int64, holeNumber, strokes int) (golf.Score, error) {
	cmd := golf.NewScore{PlayerID: playerID, HoleNumber: holeNumber, Strokes: strokes}
	m, err := app.RequireMatch(ctx, s.store, matchID)
	if err != nil {
		return golf.Score{}, err
	}
	if err := s.requireEnrolled(ctx, matchID, cmd.PlayerID); err != nil {
		return golf.Score{}, err
	}
	if cmd.HoleNumber < 1 || cmd.HoleNumber > m.NumHoles {
		return golf.Score{}, golf.NewValidationError("hole_number", "hole_number must be between 1 and %d", m.NumHoles)
	}
	if err := golf.Validate(cmd); err != nil {
		return golf.Score{}, err
	}

	sc, err := s.store.UpsertScore(ctx, golf.Score{
		MatchID:    matchID,
		PlayerID:   cmd.PlayerID,
		HoleNumber: cmd.HoleNumber,
		Strokes:    cmd.Strokes,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return golf.Score{}, fmt.Errorf("record score: %w", err)
	}
	s.recorder.RecordDomainEvent(metrics.EventScoreRecorded)
	return sc, nil
}

// ListPlayerScores returns a player's scorecard for a match ordered by hole.
func (s *Service) ListPlayerScores(ctx context.Context, matchID, playerID int64) ([]golf.Score, error) {
	if _, err := app.RequireMatch(ctx, s.store, matchID); err != nil {
		return nil, err
	}
	if err := s.requirePlayer(ctx, playerID); err != nil {
		return nil, err
	}
	scores, err := s.store.ListScores(ctx, matchID, playerID)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	if scores == nil {
		scores = []golf.Score{}
	}
	return scores, nil
}

func (s *Service) requirePlayer(ctx context.Context, playerID int64) error {
	_, ok, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return fmt.Errorf("load player %d: %w", playerID, err)
	}
	if !ok {
		return golf.PlayerNotFound(playerID)
	}
	return nil
}

func (s *Service) requireEnrolled(ctx context.Context, matchID, playerID int64) error {
	if err := s.requirePlayer(ctx, playerID); err != nil {
		return err
	}
	enrolled, err := s.store.IsEnrolled(ctx, matchID, playerID)
	if err != nil {
		return fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return golf.NotEnrolled()
	}
	return nil
}
