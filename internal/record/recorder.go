// Package record persists consumed telemetry samples to SQLite, one session
// per acquisition run, and reads them back for export.
package record

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/rileyhilliard/speedo/internal/logger"
	"github.com/rileyhilliard/speedo/internal/telemetry"
)

const (
	defaultDirPerm      = 0o755
	defaultBatchSize    = 50
	defaultBatchTimeout = 2 * time.Second
	// pendingBatches is how many unwritten batches are kept while the
	// database refuses writes.
	pendingBatches = 20
)

// Options configures a Recorder.
type Options struct {
	Path         string
	BatchSize    int
	BatchTimeout time.Duration
	// MaxBuffered caps samples held while writes fail; the oldest are
	// dropped beyond it. Defaults to 20 batches.
	MaxBuffered int
	// Link and Peer describe the source and are stored with the session.
	Link string
	Peer string
}

// Recorder buffers samples and writes them in batches on its own goroutine.
// Writes happen when the buffer reaches BatchSize, every BatchTimeout, and on
// Close. Record never touches the database.
type Recorder struct {
	db      *sql.DB
	log     logger.Logger
	opts    Options
	session string
	write   func([]telemetry.Sample) error

	mu       sync.Mutex
	buffer   []telemetry.Sample
	total    int
	dropped  int
	dropping bool
	closed   bool

	// writeMu serializes flushes so batches land in order.
	writeMu sync.Mutex

	flushTicker   *time.Ticker
	flushChan     chan struct{}
	shutdownChan  chan struct{}
	flushDoneChan chan struct{}
	closeOnce     sync.Once
	closeErr      error
}

// Open creates or opens the database at opts.Path and starts a new session.
func Open(opts Options, log logger.Logger) (*Recorder, error) {
	if opts.Path == "" {
		return nil, errors.New(errors.ErrRecord, "No recording path configured", "Set recorder.path in your config")
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = defaultBatchTimeout
	}
	if opts.MaxBuffered < opts.BatchSize {
		opts.MaxBuffered = opts.BatchSize * pendingBatches
	}
	if log == nil {
		log = logger.Noop()
	}

	db, err := openDB(opts.Path, log)
	if err != nil {
		return nil, err
	}

	r := &Recorder{
		db:            db,
		log:           log,
		opts:          opts,
		session:       uuid.NewString(),
		buffer:        make([]telemetry.Sample, 0, opts.BatchSize),
		flushChan:     make(chan struct{}, 1),
		shutdownChan:  make(chan struct{}),
		flushDoneChan: make(chan struct{}),
	}
	r.write = r.writeBatch

	if _, err := db.Exec(`INSERT INTO sessions (id, started_at, link, peer) VALUES (?, ?, ?, ?)`,
		r.session, time.Now().UnixMilli(), opts.Link, opts.Peer); err != nil {
		db.Close()
		return nil, errors.WrapWithCode(err, errors.ErrRecord, "Couldn't start a recording session", "")
	}

	log.Info("Recording session %s to %s (batch %d, every %s)", r.session, opts.Path, opts.BatchSize, opts.BatchTimeout)

	r.flushTicker = time.NewTicker(opts.BatchTimeout)
	go r.flusher()

	return r, nil
}

func openDB(path string, log logger.Logger) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), defaultDirPerm); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrRecord,
			"Couldn't create the recording directory", "Check permissions on "+filepath.Dir(path))
	}

	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_auto_vacuum=2&_busy_timeout=5000")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrRecord, "Couldn't open "+path, "")
	}

	if err := ensureSchema(db, path, log); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Session is the UUID of the session being recorded.
func (r *Recorder) Session() string {
	return r.session
}

// Recorded is the number of samples accepted so far.
func (r *Recorder) Recorded() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// Dropped is the number of samples discarded because writes kept failing.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Record buffers a sample. A full batch wakes the flusher goroutine.
func (r *Recorder) Record(s telemetry.Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errors.New(errors.ErrRecord, "Recorder is closed", "")
	}
	r.buffer = append(r.buffer, s)
	r.total++
	r.trimLocked()

	if len(r.buffer) >= r.opts.BatchSize {
		select {
		case r.flushChan <- struct{}{}:
		default:
		}
	}
	return nil
}

// Flush writes any buffered samples now.
func (r *Recorder) Flush() error {
	return r.flush()
}

// Close writes what is buffered, closes the session, and closes the database.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()

		close(r.shutdownChan)
		r.flushTicker.Stop()
		<-r.flushDoneChan

		if _, err := r.db.Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`,
			time.Now().UnixMilli(), r.session); err != nil {
			r.log.Warn("Failed to close session %s: %v", r.session, err)
		}
		if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			r.log.Debug("WAL checkpoint failed: %v", err)
		}
		if err := r.db.Close(); err != nil {
			r.closeErr = errors.WrapWithCode(err, errors.ErrRecord, "Couldn't close the recording database", "")
			return
		}
		r.log.Info("Recording session %s closed", r.session)
	})
	return r.closeErr
}

func (r *Recorder) flusher() {
	defer close(r.flushDoneChan)

	for {
		select {
		case <-r.flushChan:
			if err := r.flush(); err != nil {
				r.log.Error("Batch flush failed: %v", err)
			}
		case <-r.flushTicker.C:
			if err := r.flush(); err != nil {
				r.log.Error("Periodic flush failed: %v", err)
			}
		case <-r.shutdownChan:
			if err := r.flush(); err != nil {
				r.log.Error("Final flush failed: %v", err)
			}
			return
		}
	}
}

// flush takes the buffer and writes it. On failure the batch goes back in
// front of anything recorded meanwhile, within MaxBuffered.
func (r *Recorder) flush() error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.mu.Lock()
	batch := r.buffer
	r.buffer = make([]telemetry.Sample, 0, r.opts.BatchSize)
	r.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	if err := r.write(batch); err != nil {
		r.mu.Lock()
		r.buffer = append(batch, r.buffer...)
		r.trimLocked()
		r.mu.Unlock()
		return err
	}

	r.log.Debug("Flushed %d samples", len(batch))
	r.mu.Lock()
	if r.dropping {
		r.log.Info("Recording resumed, %d samples dropped so far", r.dropped)
		r.dropping = false
	}
	r.mu.Unlock()
	return nil
}

// trimLocked drops the oldest samples beyond MaxBuffered. The caller holds r.mu.
func (r *Recorder) trimLocked() {
	over := len(r.buffer) - r.opts.MaxBuffered
	if over <= 0 {
		return
	}
	r.buffer = append(r.buffer[:0:0], r.buffer[over:]...)
	r.dropped += over
	if !r.dropping {
		r.log.Warn("Recording is falling behind, dropping the oldest samples (keeping %d)", r.opts.MaxBuffered)
		r.dropping = true
	}
}

// writeBatch inserts samples in one transaction.
func (r *Recorder) writeBatch(batch []telemetry.Sample) error {
	tx, err := r.db.Begin()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrRecord, "Couldn't begin a recording transaction", "")
	}

	stmt, err := tx.Prepare(insertSampleSQL)
	if err != nil {
		_ = tx.Rollback()
		return errors.WrapWithCode(err, errors.ErrRecord, "Couldn't prepare the sample insert", "")
	}
	defer stmt.Close()

	for _, s := range batch {
		if _, err := stmt.Exec(r.session, int64(s.Seq), s.At.UnixMilli(),
			s.Volts, s.Amps, s.RPM, s.MotorTempF, s.ControllerTempF); err != nil {
			_ = tx.Rollback()
			return errors.WrapWithCode(err, errors.ErrRecord, "Couldn't write samples", "")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapWithCode(err, errors.ErrRecord, "Couldn't commit samples", "")
	}
	return nil
}
