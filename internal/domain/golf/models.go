package golf

import (
	"sort"
	"time"
)

// DefaultHoles is the hole count used when a match is created without one.
const DefaultHoles = 18

const (
	MaxMatchNameLength  = 200
	MaxPlayerNameLength = 120
)

// Match is one round of golf being scored, with a fixed hole count.
type Match struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	NumHoles  int       `json:"num_holes"`
	CreatedAt time.Time `json:"created_at"`
}

// Player is globally unique by name and may be enrolled in many matches.
type Player struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Enrollment links a player to a match.
type Enrollment struct {
	MatchID  int64 `json:"match_id"`
	PlayerID int64 `json:"player_id"`
}

// Score is the stroke count a player took on one hole of one match.
type Score struct {
	ID         int64     `json:"id"`
	MatchID    int64     `json:"-"`
	PlayerID   int64     `json:"player_id"`
	HoleNumber int       `json:"hole_number"`
	Strokes    int       `json:"strokes"`
	CreatedAt  time.Time `json:"created_at"`
}

// LeaderboardRow is one player's aggregated total within a match.
type LeaderboardRow struct {
	PlayerID     int64  `json:"player_id"`
	PlayerName   string `json:"player_name"`
	TotalStrokes int    `json:"total_strokes"`
}

// SortLeaderboard orders rows by total strokes ascending, then player name ascending.
// Names compare byte-wise, so "Zed" sorts before "amy".
func SortLeaderboard(rows []LeaderboardRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalStrokes != rows[j].TotalStrokes {
			return rows[i].TotalStrokes < rows[j].TotalStrokes
		}
		return rows[i].PlayerName < rows[j].PlayerName
	})
}
