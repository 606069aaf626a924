// Package migration holds the history database schema.
package migration

const Create = `
CREATE TABLE IF NOT EXISTS User (
	name TEXT PRIMARY KEY,
	last_imported TIMESTAMP
);

CREATE TABLE IF NOT EXISTS Artist (
	name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS Track (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	artist TEXT NOT NULL,
	name TEXT NOT NULL,
	UNIQUE (artist, name)
);

CREATE TABLE IF NOT EXISTS Play (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user TEXT NOT NULL,
	track INTEGER NOT NULL,
	played_at INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS PlayByUserDate ON Play (user, played_at);
`
