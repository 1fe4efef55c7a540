// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS fills (
	id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	kind TEXT NOT NULL,
	units REAL NOT NULL,
	price REAL NOT NULL,
	cost REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fills_time ON fills(time);
`
