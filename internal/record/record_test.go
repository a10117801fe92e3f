package record

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/rileyhilliard/speedo/internal/logger"
	"github.com/rileyhilliard/speedo/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(seq uint64, volts float64) telemetry.Sample {
	return telemetry.Sample{
		Reading: telemetry.Reading{Volts: volts, Amps: 10, RPM: 100, MotorTempF: 90, ControllerTempF: 80},
		Seq:     seq,
		At:      time.UnixMilli(1_700_000_000_000 + int64(seq)*1000),
	}
}

func openRecorder(t *testing.T, path string, batch int) *Recorder {
	t.Helper()
	r, err := Open(Options{Path: path, BatchSize: batch, BatchTimeout: time.Hour, Link: "sim", Peer: "CAN Relay"}, logger.Noop())
	require.NoError(t, err)
	return r
}

func countSamples(t *testing.T, path, session string) int {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM samples WHERE session_id = ?`, session).Scan(&n))
	return n
}

func TestRecorder_BatchesAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rides.db")
	log := logger.NewBufferLogger()
	r, err := Open(Options{Path: path, BatchSize: 3, BatchTimeout: time.Hour, Link: "sim", Peer: "CAN Relay"}, log)
	require.NoError(t, err)
	assert.Len(t, r.Session(), 36)

	require.NoError(t, r.Record(sample(1, 90)))
	require.NoError(t, r.Record(sample(2, 91)))
	assert.Equal(t, 0, countSamples(t, path, r.Session()), "below batch size nothing is written")

	require.NoError(t, r.Record(sample(3, 92)))
	assert.Eventually(t, func() bool {
		return countSamples(t, path, r.Session()) == 3
	}, 2*time.Second, 10*time.Millisecond, "a full batch wakes the flusher")

	require.NoError(t, r.Record(sample(4, 93)))
	assert.Equal(t, 4, r.Recorded())
	require.NoError(t, r.Close())
	require.NoError(t, r.Close(), "Close is idempotent")

	assert.Equal(t, 4, countSamples(t, path, r.Session()), "Close flushes the remainder")
	assert.True(t, log.Contains("initialized"))
}

func TestRecorder_PeriodicFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rides.db")
	r, err := Open(Options{Path: path, BatchSize: 1000, BatchTimeout: 10 * time.Millisecond}, logger.Noop())
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Record(sample(1, 90)))

	assert.Eventually(t, func() bool {
		return countSamples(t, path, r.Session()) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRecorder_RecordDoesNotWaitForWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rides.db")
	r := openRecorder(t, path, 2)

	release := make(chan struct{})
	writing := make(chan struct{}, 1)
	realWrite := r.write
	r.write = func(batch []telemetry.Sample) error {
		select {
		case writing <- struct{}{}:
		default:
		}
		<-release
		return realWrite(batch)
	}

	require.NoError(t, r.Record(sample(1, 90)))
	require.NoError(t, r.Record(sample(2, 91)))
	select {
	case <-writing:
	case <-time.After(2 * time.Second):
		t.Fatal("full batch never reached the flusher")
	}

	recorded := make(chan struct{})
	go func() {
		_ = r.Record(sample(3, 92))
		_ = r.Record(sample(4, 93))
		close(recorded)
	}()
	select {
	case <-recorded:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked behind a database write")
	}

	close(release)
	require.NoError(t, r.Close())
	assert.Equal(t, 4, countSamples(t, path, r.Session()))
}

// setWrite swaps the batch writer while no flush is running.
func setWrite(r *Recorder, write func([]telemetry.Sample) error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	r.write = write
}

func TestRecorder_FailedWritesAreBounded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rides.db")
	log := logger.NewBufferLogger()
	r, err := Open(Options{Path: path, BatchSize: 2, BatchTimeout: time.Hour, MaxBuffered: 5}, log)
	require.NoError(t, err)

	realWrite := r.write
	setWrite(r, func([]telemetry.Sample) error {
		return errors.New(errors.ErrRecord, "disk is read-only", "")
	})

	for i := 1; i <= 12; i++ {
		require.NoError(t, r.Record(sample(uint64(i), 90)))
	}
	require.Error(t, r.Flush())

	var seqs []uint64
	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		seqs = seqs[:0]
		for _, s := range r.buffer {
			seqs = append(seqs, s.Seq)
		}
		return len(seqs) == 5
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []uint64{8, 9, 10, 11, 12}, seqs, "the oldest samples go first")
	assert.Equal(t, 7, r.Dropped())
	assert.Equal(t, 12, r.Recorded())
	assert.True(t, log.HasLevel("warn"))

	setWrite(r, realWrite)
	require.NoError(t, r.Flush())
	require.NoError(t, r.Close())
	assert.Equal(t, 5, countSamples(t, path, r.Session()))
	assert.True(t, log.Contains("Recording resumed"))
}

func TestRecorder_RecordAfterClose(t *testing.T) {
	r := openRecorder(t, filepath.Join(t.TempDir(), "rides.db"), 10)
	require.NoError(t, r.Close())

	err := r.Record(sample(1, 90))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRecord))
}

func TestRecorder_RequiresPath(t *testing.T) {
	_, err := Open(Options{}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRecord))
}

func TestRecorder_RejectsOtherSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rides.db")
	r := openRecorder(t, path, 1)
	require.NoError(t, r.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO schema_versions (version, applied_at) VALUES (?, datetime('now'))`, SchemaVersion+1)
	require.NoError(t, err)
	db.Close()

	_, err = Open(Options{Path: path}, logger.Noop())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRecord))
	assert.Contains(t, err.Error(), "schema")
}

func TestStore_SessionsAndSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rides.db")

	first := openRecorder(t, path, 10)
	require.NoError(t, first.Record(sample(1, 80)))
	require.NoError(t, first.Record(sample(2, 81)))
	require.NoError(t, first.Close())

	time.Sleep(5 * time.Millisecond)

	second := openRecorder(t, path, 10)
	require.NoError(t, second.Record(sample(7, 95)))
	require.NoError(t, second.Close())

	store, err := OpenStore(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	sessions, err := store.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.Session(), sessions[0].ID, "newest first")
	assert.Equal(t, 1, sessions[0].Samples)
	assert.Equal(t, 2, sessions[1].Samples)
	assert.Equal(t, "sim", sessions[1].Link)
	assert.Equal(t, "CAN Relay", sessions[1].Peer)
	assert.False(t, sessions[1].EndedAt.IsZero())

	samples, err := store.Samples(ctx, first.Session())
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, sample(1, 80).Reading, samples[0].Reading)
	assert.Equal(t, uint64(2), samples[1].Seq)
	assert.Equal(t, sample(2, 81).At, samples[1].At)

	latest, err := store.Resolve(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, second.Session(), latest.ID)

	byPrefix, err := store.Resolve(ctx, first.Session()[:8])
	require.NoError(t, err)
	assert.Equal(t, first.Session(), byPrefix.ID)

	_, err = store.Resolve(ctx, "zzzz")
	assert.True(t, errors.IsCode(err, errors.ErrRecord))
}

func TestOpenStore_Missing(t *testing.T) {
	_, err := OpenStore(filepath.Join(t.TempDir(), "none.db"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRecord))
}

func TestSessionInfoDuration(t *testing.T) {
	start := time.Unix(100, 0)
	assert.Equal(t, time.Duration(0), SessionInfo{StartedAt: start}.Duration())
	assert.Equal(t, time.Minute, SessionInfo{StartedAt: start, EndedAt: start.Add(time.Minute)}.Duration())
}
