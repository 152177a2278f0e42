package store

var schema = []string{
	`CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		num_holes INTEGER NOT NULL DEFAULT 18 CHECK (num_holes > 0),
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_created_at ON matches(created_at)`,
	`CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS match_players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id INTEGER NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
		player_id INTEGER NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		UNIQUE (match_id, player_id)
	)`,
	`CREATE TABLE IF NOT EXISTS scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id INTEGER NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
		player_id INTEGER NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		hole_number INTEGER NOT NULL,
		strokes INTEGER NOT NULL CHECK (strokes > 0),
		created_at TEXT NOT NULL,
		UNIQUE (match_id, player_id, hole_number)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scores_match ON scores(match_id)`,
}
