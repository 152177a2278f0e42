// Package app holds the operations behind the HTTP surface. Each subpackage owns
// one concern and talks to storage through a narrow interface.
package app

import (
	"context"
	"fmt"

	"golf-match-service/internal/domain/golf"
)

// MatchReader is the lookup every service needs before touching match-owned data.
type MatchReader interface {
	GetMatch(ctx context.Context, id int64) (golf.Match, bool, error)
}

// RequireMatch loads a match or returns a NotFoundError.
func RequireMatch(ctx context.Context, r MatchReader, id int64) (golf.Match, error) {
	m, ok, err := r.GetMatch(ctx, id)
	if err != nil {
		return golf.Match{}, fmt.Errorf("load match %d: %w", id, err)
	}
	if !ok {
		return golf.Match{}, golf.MatchNotFound(id)
	}
	return m, nil
}
