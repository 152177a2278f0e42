package matches

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golf-match-service/internal/app"
	"golf-match-service/internal/domain/golf"
	"golf-match-service/internal/metrics"
)

// Store defines the persistence needed by the match registry.
type Store interface {
	app.MatchReader
	InsertMatch(ctx context.Context, m golf.Match) (golf.Match, error)
	ListMatches(ctx context.Context) ([]golf.Match, error)
}

// Service creates and looks up matches.
type Service struct {
	store    Store
	maxHoles int
	recorder *metrics.Recorder
	now      func() time.Time
}

// NewService constructs a Service. A positive maxHoles caps num_holes on creation;
// zero leaves it uncapped.
func NewService(store Store, maxHoles int, recorder *metrics.Recorder) *Service {
	return &Service{
		store:    store,
		maxHoles: maxHoles,
		recorder: recorder,
		now:      time.Now,
	}
}

// CreateMatch validates and stores a new match stamped with the current UTC time.
func (s *Service) CreateMatch(ctx context.Context, name string, numHoles int) (golf.Match, error) {
	cmd := golf.NewMatch{Name: strings.TrimSpace(name), NumHoles: numHoles}
	if err := golf.Validate(cmd); err != nil {
		return golf.Match{}, err
	}
	if s.maxHoles > 0 && cmd.NumHoles > s.maxHoles {
		return golf.Match{}, golf.NewValidationError("num_holes", "num_holes must be at most %d", s.maxHoles)
	}

	m, err := s.store.InsertMatch(ctx, golf.Match{
		Name:      cmd.Name,
		NumHoles:  cmd.NumHoles,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return golf.Match{}, fmt.Errorf("create match: %w", err)
	}
	s.recorder.RecordDomainEvent(metrics.EventMatchCreated)
	return m, nil
}

// GetMatch returns the match or a NotFoundError.
func (s *Service) GetMatch(ctx context.Context, id int64) (golf.Match, error) {
	return app.RequireMatch(ctx, s.store, id)
}

// ListMatches returns all matches, most recent first.
func (s *Service) ListMatches(ctx context.Context) ([]golf.Match, error) {
	matches, err := s.store.ListMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	if matches == nil {
		matches = []golf.Match{}
	}
	return matches, nil
}
