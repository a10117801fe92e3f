package record

import (
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/rileyhilliard/speedo/internal/logger"
)

// SchemaVersion is bumped on breaking changes to the tables below.
const SchemaVersion = 1

const createTablesSQL = `
	CREATE TABLE IF NOT EXISTS schema_versions (
		version     INTEGER PRIMARY KEY,
		applied_at  TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT PRIMARY KEY,
		started_at  INTEGER NOT NULL,
		ended_at    INTEGER,
		link        TEXT NOT NULL,
		peer        TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS samples (
		session_id        TEXT NOT NULL REFERENCES sessions(id),
		seq               INTEGER NOT NULL,
		at_ms             INTEGER NOT NULL,
		volts             REAL NOT NULL,
		amps              REAL NOT NULL,
		rpm               REAL NOT NULL,
		motor_temp_f      REAL NOT NULL,
		controller_temp_f REAL NOT NULL,
		PRIMARY KEY (session_id, seq)
	);`

const insertSampleSQL = `
	INSERT OR REPLACE INTO samples (
		session_id, seq, at_ms,
		volts, amps, rpm,
		motor_temp_f, controller_temp_f
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// initSchema creates the tables and records the schema version.
func initSchema(db *sql.DB, log logger.Logger) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil && !stderrors.Is(err, sql.ErrTxDone) {
				log.Debug("Failed to roll back schema transaction: %v", err)
			}
		}
	}()

	if _, err := tx.Exec(createTablesSQL); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO schema_versions (version, applied_at) VALUES (?, datetime('now'))`,
		SchemaVersion); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	log.Info("Recording schema v%d initialized", SchemaVersion)
	return nil
}

// schemaVersion returns the newest applied version, or 0 for an empty database.
func schemaVersion(db *sql.DB) (int, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type='table' AND name='schema_versions')`).
		Scan(&exists)
	if err != nil || !exists {
		return 0, err
	}

	var version int
	err = db.QueryRow(`SELECT version FROM schema_versions ORDER BY version DESC LIMIT 1`).Scan(&version)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return version, err
}

// ensureSchema initializes a fresh database and rejects mismatched ones.
func ensureSchema(db *sql.DB, path string, log logger.Logger) error {
	version, err := schemaVersion(db)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrRecord, "Couldn't read the recording schema", "")
	}

	switch {
	case version == 0:
		if err := initSchema(db, log); err != nil {
			return errors.WrapWithCode(err, errors.ErrRecord, "Couldn't create the recording schema",
				"Check that "+path+" is writable")
		}
		return nil
	case version != SchemaVersion:
		return errors.New(errors.ErrRecord,
			fmt.Sprintf("Recording at %s uses schema v%d, this speedo writes v%d", path, version, SchemaVersion),
			"Point recorder.path at a new file or upgrade speedo")
	}
	return nil
}
