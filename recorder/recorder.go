package recorder

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultBatchSize = 256

var ErrNoRun = errors.New("recorder: no run started")

// Recorder buffers gameplay events and writes them to a SQLite database.
type Recorder struct {
	db        *gorm.DB
	run       *Run
	pending   []Event
	batchSize int
	log       zerolog.Logger
}

// Open opens (or creates) the database at path and migrates the schema. An
// empty path keeps the database in memory.
func Open(path string, log zerolog.Logger) (*Recorder, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        defaultBatchSize,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("recorder: open %s: %w", dsn, err)
	}

	// one connection keeps an in-memory database visible to every query
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("recorder: open %s: %w", dsn, err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := prepare(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &Recorder{
		db:        db,
		batchSize: defaultBatchSize,
		log:       log.With().Str("component", "recorder").Logger(),
	}, nil
}

// prepare tunes the connection and migrates the schema.
func prepare(db *gorm.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA foreign_keys = ON;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return fmt.Errorf("recorder: %s: %w", pragma, err)
		}
	}
	if err := db.AutoMigrate(&Run{}, &Event{}); err != nil {
		return fmt.Errorf("recorder: migrate: %w", err)
	}
	return nil
}

// DB exposes the underlying connection for queries.
func (r *Recorder) DB() *gorm.DB {
	return r.db
}

// BeginRun starts a new run row that following events attach to.
func (r *Recorder) BeginRun(level string) (*Run, error) {
	if err := r.Flush(); err != nil && !errors.Is(err, ErrNoRun) {
		return nil, err
	}
	run := &Run{Level: level, StartedAt: time.Now()}
	if err := r.db.Create(run).Error; err != nil {
		return nil, fmt.Errorf("recorder: create run: %w", err)
	}
	r.run = run
	r.log.Debug().Uint("run", run.ID).Str("level", level).Msg("run started")
	return run, nil
}

// Record queues an event. The queue is written once it reaches the batch
// size.
func (r *Recorder) Record(evt Event) error {
	if r.run == nil {
		return ErrNoRun
	}
	evt.RunID = r.run.ID
	r.pending = append(r.pending, evt)
	if len(r.pending) >= r.batchSize {
		return r.Flush()
	}
	return nil
}

// Flush writes queued events.
func (r *Recorder) Flush() error {
	if r.run == nil {
		return ErrNoRun
	}
	if len(r.pending) == 0 {
		return nil
	}
	if err := r.db.CreateInBatches(r.pending, r.batchSize).Error; err != nil {
		return fmt.Errorf("recorder: write %d events: %w", len(r.pending), err)
	}
	r.log.Debug().Int("events", len(r.pending)).Msg("flushed")
	r.pending = r.pending[:0]
	return nil
}

// EndRun flushes and stamps the current run with its frame count.
func (r *Recorder) EndRun(frames uint64) error {
	if r.run == nil {
		return ErrNoRun
	}
	if err := r.Flush(); err != nil {
		return err
	}
	now := time.Now()
	err := r.db.Model(r.run).Updates(map[string]any{"ended_at": now, "frames": frames}).Error
	if err != nil {
		return fmt.Errorf("recorder: end run: %w", err)
	}
	r.run = nil
	return nil
}

// Close flushes any pending events and closes the database.
func (r *Recorder) Close() error {
	if r.run != nil {
		if err := r.Flush(); err != nil {
			r.log.Error().Err(err).Msg("flush on close")
		}
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CountByType returns how many events of each type a run recorded.
func (r *Recorder) CountByType(runID uint) (map[string]int64, error) {
	var rows []struct {
		Type  string
		Count int64
	}
	err := r.db.Model(&Event{}).
		Select("type, count(*) as count").
		Where("run_id = ?", runID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("recorder: count events: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Type] = row.Count
	}
	return out, nil
}
