package history

import (
	"database/sql"
	"time"
)

// SchemaVersion guards snapshot compatibility; bump on any column change.
const SchemaVersion = 1

// Snapshot is one resolve run's aggregate statistics.
type Snapshot struct {
	RunID            string
	SchemaVersion    int
	Timestamp        time.Time
	RootPath         string
	FileCount        int
	FileErrorCount   int
	GlobalErrorCount int

	DefaultCommands  int
	UserCommands     int
	DocumentCommands int
	InferredCommands int

	BuiltinEnvironments  int
	UserEnvironments     int
	DocumentEnvironments int
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
  run_id                TEXT NOT NULL,
  project_key           TEXT NOT NULL,
  schema_version        INTEGER NOT NULL,
  ts_utc                TEXT NOT NULL,
  root_path             TEXT NOT NULL,
  file_count            INTEGER NOT NULL,
  file_error_count      INTEGER NOT NULL,
  global_error_count    INTEGER NOT NULL,
  default_commands      INTEGER NOT NULL,
  user_commands         INTEGER NOT NULL,
  document_commands     INTEGER NOT NULL,
  inferred_commands     INTEGER NOT NULL,
  builtin_environments  INTEGER NOT NULL,
  user_environments     INTEGER NOT NULL,
  document_environments INTEGER NOT NULL,
  PRIMARY KEY (run_id)
);
CREATE INDEX IF NOT EXISTS idx_snapshots_project_ts ON snapshots (project_key, ts_utc);
`

// EnsureSchema creates the snapshot table when missing.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	return err
}
