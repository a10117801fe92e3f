package record

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/rileyhilliard/speedo/internal/logger"
	"github.com/rileyhilliard/speedo/internal/telemetry"
)

// SessionInfo summarizes a recorded session.
type SessionInfo struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time // zero while recording or after a crash
	Link      string
	Peer      string
	Samples   int
}

// Duration is the wall time the session covered.
func (s SessionInfo) Duration() time.Duration {
	if s.EndedAt.IsZero() {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// Store reads recorded sessions.
type Store struct {
	db *sql.DB
}

// OpenStore opens an existing recording database for reading.
func OpenStore(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrRecord,
			"No recordings at "+path,
			"Record a ride first: speedo record (or set recorder.enabled)")
	}
	db, err := openDB(path, logger.Noop())
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Sessions lists sessions, newest first.
func (s *Store) Sessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.started_at, s.ended_at, s.link, s.peer, COUNT(x.seq)
		FROM sessions s LEFT JOIN samples x ON x.session_id = s.id
		GROUP BY s.id
		ORDER BY s.started_at DESC, s.id`)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrRecord, "Couldn't list sessions", "")
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var started int64
		var ended sql.NullInt64
		if err := rows.Scan(&info.ID, &started, &ended, &info.Link, &info.Peer, &info.Samples); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrRecord, "Couldn't read sessions", "")
		}
		info.StartedAt = time.UnixMilli(started)
		if ended.Valid {
			info.EndedAt = time.UnixMilli(ended.Int64)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Resolve finds the session whose ID starts with prefix. An empty prefix
// selects the newest session.
func (s *Store) Resolve(ctx context.Context, prefix string) (SessionInfo, error) {
	sessions, err := s.Sessions(ctx)
	if err != nil {
		return SessionInfo{}, err
	}
	if len(sessions) == 0 {
		return SessionInfo{}, errors.New(errors.ErrRecord, "No sessions recorded yet", "Run: speedo record")
	}
	if prefix == "" {
		return sessions[0], nil
	}

	var found []SessionInfo
	for _, info := range sessions {
		if len(info.ID) >= len(prefix) && info.ID[:len(prefix)] == prefix {
			found = append(found, info)
		}
	}
	switch len(found) {
	case 0:
		return SessionInfo{}, errors.New(errors.ErrRecord,
			fmt.Sprintf("No session matches '%s'", prefix), "List sessions with: speedo export --list")
	case 1:
		return found[0], nil
	}
	return SessionInfo{}, errors.New(errors.ErrRecord,
		fmt.Sprintf("'%s' matches %d sessions", prefix, len(found)), "Use a longer prefix")
}

// Samples returns a session's samples in sequence order.
func (s *Store) Samples(ctx context.Context, session string) ([]telemetry.Sample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, at_ms, volts, amps, rpm, motor_temp_f, controller_temp_f
		FROM samples WHERE session_id = ? ORDER BY seq`, session)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrRecord, "Couldn't read samples", "")
	}
	defer rows.Close()

	var out []telemetry.Sample
	for rows.Next() {
		var smp telemetry.Sample
		var seq, at int64
		if err := rows.Scan(&seq, &at, &smp.Volts, &smp.Amps, &smp.RPM, &smp.MotorTempF, &smp.ControllerTempF); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrRecord, "Couldn't read samples", "")
		}
		smp.Seq = uint64(seq)
		smp.At = time.UnixMilli(at)
		out = append(out, smp)
	}
	return out, rows.Err()
}
