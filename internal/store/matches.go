package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golf-match-service/internal/domain/golf"
	"golf-match-service/internal/timeutil"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// InsertMatch persists m and returns it with the assigned id.
func (s *SQLStore) InsertMatch(ctx context.Context, m golf.Match) (golf.Match, error) {
	err := s.observe(ctx, "insert_match", func(ctx context.Context) error {
		return s.withTx(ctx, func(tx *sql.Tx) error {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO matches (name, num_holes, created_at) VALUES (?, ?, ?)`,
				m.Name, m.NumHoles, timeutil.FormatTimestamp(m.CreatedAt),
			)
			if err != nil {
				return fmt.Errorf("insert match: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("insert match id: %w", err)
			}
			m.ID = id
			return nil
		})
	})
	if err != nil {
		return golf.Match{}, err
	}
	m.CreatedAt = m.CreatedAt.UTC()
	return m, nil
}

// GetMatch retrieves a match by id.
func (s *SQLStore) GetMatch(ctx context.Context, id int64) (golf.Match, bool, error) {
	var (
		m     golf.Match
		found bool
	)
	err := s.observe(ctx, "get_match", func(ctx context.Context) error {
		row := s.db.QueryRowContext(ctx,
			`SELECT id, name, num_holes, created_at FROM matches WHERE id = ?`, id)
		var err error
		m, err = scanMatch(row)
		if errors.Is(err, sql.ErrNoRows) {
			found = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("get match %d: %w", id, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return golf.Match{}, false, err
	}
	return m, found, nil
}

// ListMatches returns every match, newest first. Equal timestamps fall back to
// the higher id first.
func (s *SQLStore) ListMatches(ctx context.Context) ([]golf.Match, error) {
	var matches []golf.Match
	err := s.observe(ctx, "list_matches", func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT id, name, num_holes, created_at FROM matches ORDER BY created_at DESC, id DESC`)
		if err != nil {
			return fmt.Errorf("list matches: %w", err)
		}
		defer rows.Close()

		matches = make([]golf.Match, 0)
		for rows.Next() {
			m, err := scanMatch(rows)
			if err != nil {
				return fmt.Errorf("list matches: %w", err)
			}
			matches = append(matches, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func scanMatch(row rowScanner) (golf.Match, error) {
	var (
		m       golf.Match
		created string
	)
	if err := row.Scan(&m.ID, &m.Name, &m.NumHoles, &created); err != nil {
		return golf.Match{}, err
	}
	ts, err := timeutil.ParseTimestamp(created)
	if err != nil {
		return golf.Match{}, fmt.Errorf("match %d created_at: %w", m.ID, err)
	}
	m.CreatedAt = ts
	return m, nil
}
