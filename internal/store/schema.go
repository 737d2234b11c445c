package store

// schema creates the corpus tables. Child rows are removed with their
// document through ON DELETE CASCADE.
const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	xmin       REAL NOT NULL,
	xmax       REAL NOT NULL,
	sha256     TEXT NOT NULL UNIQUE,
	blake3     TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tiers (
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	kind        TEXT NOT NULL,
	name        TEXT NOT NULL,
	xmin        REAL NOT NULL,
	xmax        REAL NOT NULL,
	PRIMARY KEY (document_id, position)
);

CREATE TABLE IF NOT EXISTS intervals (
	document_id   TEXT NOT NULL,
	tier_position INTEGER NOT NULL,
	position      INTEGER NOT NULL,
	xmin          REAL NOT NULL,
	xmax          REAL NOT NULL,
	text          TEXT NOT NULL,
	PRIMARY KEY (document_id, tier_position, position),
	FOREIGN KEY (document_id, tier_position) REFERENCES tiers(document_id, position) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS points (
	document_id   TEXT NOT NULL,
	tier_position INTEGER NOT NULL,
	position      INTEGER NOT NULL,
	number        REAL NOT NULL,
	mark          TEXT NOT NULL,
	PRIMARY KEY (document_id, tier_position, position),
	FOREIGN KEY (document_id, tier_position) REFERENCES tiers(document_id, position) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_documents_blake3 ON documents(blake3);
`
