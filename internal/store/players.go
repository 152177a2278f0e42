package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golf-match-service/internal/domain/golf"
)

// EnrollPlayer creates the player named name unless one already exists, then links
// it to the match. Both steps are idempotent and run in one transaction.
func (s *SQLStore) EnrollPlayer(ctx context.Context, matchID int64, name string) (golf.Player, error) {
	var p golf.Player
	err := s.observe(ctx, "enroll_player", func(ctx context.Context) error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			var err error
			p, err = ensurePlayer(ctx, tx, name)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO match_players (match_id, player_id) VALUES (?, ?)
				 ON CONFLICT (match_id, player_id) DO NOTHING`,
				matchID, p.ID,
			)
			if err != nil {
				return fmt.Errorf("enroll player %d in match %d: %w", p.ID, matchID, err)
			}
			return nil
		})
	})
	if err != nil {
		return golf.Player{}, err
	}
	return p, nil
}

func ensurePlayer(ctx context.Context, tx *sql.Tx, name string) (golf.Player, error) {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO players (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil && !isUniqueViolation(err) {
		return golf.Player{}, fmt.Errorf("insert player: %w", err)
	}

	var p golf.Player
	err = tx.QueryRowContext(ctx, `SELECT id, name FROM players WHERE name = ?`, name).Scan(&p.ID, &p.Name)
	if err != nil {
		return golf.Player{}, fmt.Errorf("read player by name: %w", err)
	}
	return p, nil
}

// GetPlayer retrieves a player by id.
func (s *SQLStore) GetPlayer(ctx context.Context, id int64) (golf.Player, bool, error) {
	var (
		p     golf.Player
		found bool
	)
	err := s.observe(ctx, "get_player", func(ctx context.Context) error {
		err := s.db.QueryRowContext(ctx, `SELECT id, name FROM players WHERE id = ?`, id).Scan(&p.ID, &p.Name)
		if errors.Is(err, sql.ErrNoRows) {
			found = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("get player %d: %w", id, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return golf.Player{}, false, err
	}
	return p, found, nil
}

// IsEnrolled reports whether the player is linked to the match.
func (s *SQLStore) IsEnrolled(ctx context.Context, matchID, playerID int64) (bool, error) {
	var enrolled bool
	err := s.observe(ctx, "is_enrolled", func(ctx context.Context) error {
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM match_players WHERE match_id = ? AND player_id = ?)`,
			matchID, playerID,
		).Scan(&enrolled)
		if err != nil {
			return fmt.Errorf("check enrollment: %w", err)
		}
		return nil
	})
	return enrolled, err
}

// ListMatchPlayers returns the players enrolled in a match ordered by name using
// binary collation.
func (s *SQLStore) ListMatchPlayers(ctx context.Context, matchID int64) ([]golf.Player, error) {
	var players []golf.Player
	err := s.observe(ctx, "list_match_players", func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT p.id, p.name
			   FROM match_players mp
			   JOIN players p ON p.id = mp.player_id
			  WHERE mp.match_id = ?
			  ORDER BY p.name COLLATE BINARY ASC, p.id ASC`,
			matchID,
		)
		if err != nil {
			return fmt.Errorf("list match players: %w", err)
		}
		defer rows.Close()

		players = make([]golf.Player, 0)
		for rows.Next() {
			var p golf.Player
			if err := rows.Scan(&p.ID, &p.Name); err != nil {
				return fmt.Errorf("list match players: %w", err)
			}
			players = append(players, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return players, nil
}
