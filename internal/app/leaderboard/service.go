package leaderboard

import (
	"context"
	"fmt"

	"golf-match-service/internal/app"
	"golf-match-service/internal/domain/golf"
)

// Store defines the aggregation the leaderboard is built from.
type Store interface {
	app.MatchReader
	LeaderboardRows(ctx context.Context, matchID int64) ([]golf.LeaderboardRow, error)
}

// Service computes standings on demand; nothing is cached.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// ComputeLeaderboard returns per-player stroke totals for a match, lowest total
// first with ties broken by player name.
func (s *Service) ComputeLeaderboard(ctx context.Context, matchID int64) ([]golf.LeaderboardRow, error) {
	if _, err := app.RequireMatch(ctx, s.store, matchID); err != nil {
		return nil, err
	}
	rows, err := s.store.LeaderboardRows(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	if rows == nil {
		return []golf.LeaderboardRow{}, nil
	}
	golf.SortLeaderboard(rows)
	return rows, nil
}
