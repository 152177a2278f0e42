package store

import (
	"context"
	"database/sql"
	"fmt"

	"golf-match-service/internal/domain/golf"
	"golf-match-service/internal/timeutil"
)

// UpsertScore inserts the score for (match, player, hole) or overwrites the strokes
// and timestamp of the existing row.
func (s *SQLStore) UpsertScore(ctx context.Context, sc golf.Score) (golf.Score, error) {
	var out golf.Score
	err := s.observe(ctx, "upsert_score", func(ctx context.Context) error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			row := tx.QueryRowContext(ctx,
				`INSERT INTO scores (match_id, player_id, hole_number, strokes, created_at)
				 VALUES (?, ?, ?, ?, ?)
				 ON CONFLICT (match_id, player_id, hole_number)
				 DO UPDATE SET strokes = excluded.strokes, created_at = excluded.created_at
				 RETURNING id, match_id, player_id, hole_number, strokes, created_at`,
				sc.MatchID, sc.PlayerID, sc.HoleNumber, sc.Strokes, timeutil.FormatTimestamp(sc.CreatedAt),
			)
			var err error
			out, err = scanScore(row)
			if err != nil {
				return fmt.Errorf("upsert score: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return golf.Score{}, err
	}
	return out, nil
}

// ListScores returns one player's scores in a match ordered by hole.
func (s *SQLStore) ListScores(ctx context.Context, matchID, playerID int64) ([]golf.Score, error) {
	var scores []golf.Score
	err := s.observe(ctx, "list_scores", func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT id, match_id, player_id, hole_number, strokes, created_at
			   FROM scores
			  WHERE match_id = ? AND player_id = ?
			  ORDER BY hole_number ASC`,
			matchID, playerID,
		)
		if err != nil {
			return fmt.Errorf("list scores: %w", err)
		}
		defer rows.Close()

		scores = make([]golf.Score, 0)
		for rows.Next() {
			sc, err := scanScore(rows)
			if err != nil {
				return fmt.Errorf("list scores: %w", err)
			}
			scores = append(scores, sc)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return scores, nil
}

// LeaderboardRows sums strokes per player over the scores recorded in a match.
// Players without scores are absent.
func (s *SQLStore) LeaderboardRows(ctx context.Context, matchID int64) ([]golf.LeaderboardRow, error) {
	var out []golf.LeaderboardRow
	err := s.observe(ctx, "leaderboard_rows", func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT p.id, p.name, SUM(s.strokes) AS total
			   FROM scores s
			   JOIN players p ON p.id = s.player_id
			  WHERE s.match_id = ?
			  GROUP BY p.id, p.name
			  ORDER BY total ASC, p.name COLLATE BINARY ASC`,
			matchID,
		)
		if err != nil {
			return fmt.Errorf("leaderboard: %w", err)
		}
		defer rows.Close()

		out = make([]golf.LeaderboardRow, 0)
		for rows.Next() {
			var r golf.LeaderboardRow
			if err := rows.Scan(&r.PlayerID, &r.PlayerName, &r.TotalStrokes); err != nil {
				return fmt.Errorf("leaderboard: %w", err)
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func scanScore(row rowScanner) (golf.Score, error) {
	var (
		sc      golf.Score
		created string
	)
	if err := row.Scan(&sc.ID, &sc.MatchID, &sc.PlayerID, &sc.HoleNumber, &sc.Strokes, &created); err != nil {
		return golf.Score{}, err
	}
	ts, err := timeutil.ParseTimestamp(created)
	if err != nil {
		return golf.Score{}, fmt.Errorf("score %d created_at: %w", sc.ID, err)
	}
	sc.CreatedAt = ts
	return sc, nil
}
