package store

// name is UNIQUE on fresh catalogs. Catalogs created by older tooling may lack
// the constraint, which is why List still dedupes by name.
const schema = `
CREATE TABLE IF NOT EXISTS scripts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  script_content TEXT NOT NULL,
  type TEXT
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  run_id TEXT NOT NULL,
  script_id INTEGER,
  script_name TEXT NOT NULL,
  kind TEXT NOT NULL,
  status TEXT NOT NULL,
  exit_code INTEGER NOT NULL,
  started_at DATETIME NOT NULL,
  duration_ms INTEGER NOT NULL,
  stdout_tail TEXT NOT NULL,
  stderr_tail TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS runs_started
  ON runs(started_at);
`
