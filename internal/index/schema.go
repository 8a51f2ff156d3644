package index

const schemaVersion = 1

var dropSQL = []string{
	"DROP TABLE IF EXISTS notes",
	"DROP TABLE IF EXISTS links",
	"DROP TABLE IF EXISTS tasks",
	"DROP TABLE IF EXISTS fts",
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS notes (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	hash TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS links (
	note_id TEXT NOT NULL,
	url TEXT NOT NULL,
	text TEXT NOT NULL,
	PRIMARY KEY(note_id, url)
);

CREATE INDEX IF NOT EXISTS links_by_url ON links(url);

CREATE TABLE IF NOT EXISTS tasks (
	note_id TEXT NOT NULL,
	line_no INTEGER NOT NULL,
	state TEXT NOT NULL,
	text TEXT NOT NULL,
	PRIMARY KEY(note_id, line_no)
);

CREATE INDEX IF NOT EXISTS tasks_by_state ON tasks(state);

CREATE VIRTUAL TABLE IF NOT EXISTS fts USING fts5(
	id UNINDEXED,
	title,
	body
);
`
