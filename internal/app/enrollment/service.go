package enrollment

import (
	"context"
	"fmt"
	"strings"

	"golf-match-service/internal/app"
	"golf-match-service/internal/domain/golf"
	"golf-match-service/internal/metrics"
)

// Store defines the persistence needed for enrollment.
type Store interface {
	app.MatchReader
	EnrollPlayer(ctx context.Context, matchID int64, name string) (golf.Player, error)
	ListMatchPlayers(ctx context.Context, matchID int64) ([]golf.Player, error)
}

// Service enrolls players into matches, creating players on first use.
type Service struct {
	store    Store
	recorder *metrics.Recorder
}

func NewService(store Store, recorder *metrics.Recorder) *Service {
	return &Service{store: store, recorder: recorder}
}

// EnrollPlayer links the player named name to the match. Repeating the call returns
// the same player and leaves a single enrollment.
func (s *Service) EnrollPlayer(ctx context.Context, matchID int64, name string) (golf.Player, error) {
	if _, err := app.RequireMatch(ctx, s.store, matchID); err != nil {
		return golf.Player{}, err
	}
	cmd := golf.NewEnrollment{Name: strings.TrimSpace(name)}
	if err := golf.Validate(cmd); err != nil {
		return golf.Player{}, err
	}

	p, err := s.store.EnrollPlayer(ctx, matchID, cmd.Name)
	if err != nil {
		return golf.Player{}, fmt.Errorf("enroll player: %w", err)
	}
	s.recorder.RecordDomainEvent(metrics.EventPlayerEnrolled)
	return p, nil
}

// ListMatchPlayers returns the players enrolled in a match ordered by name.
func (s *Service) ListMatchPlayers(ctx context.Context, matchID int64) ([]golf.Player, error) {
	if _, err := app.RequireMatch(ctx, s.store, matchID); err != nil {
		return nil, err
	}
	players, err := s.store.ListMatchPlayers(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match players: %w", err)
	}
	if players == nil {
		players = []golf.Player{}
	}
	return players, nil
}
