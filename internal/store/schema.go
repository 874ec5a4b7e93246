package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS habits (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	goal INTEGER NOT NULL DEFAULT 30 CHECK (goal > 0)
);

CREATE TABLE IF NOT EXISTS completions (
	habit_id  INTEGER NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
	year      INTEGER NOT NULL,
	month     INTEGER NOT NULL,
	day       INTEGER NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (habit_id, year, month, day)
);

CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS profile (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	name       TEXT NOT NULL DEFAULT 'User',
	bio        TEXT NOT NULL DEFAULT 'Habit Enthusiast',
	location   TEXT NOT NULL DEFAULT 'World',
	avatar_url TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_completions_period ON completions(year, month);
`
