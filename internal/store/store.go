package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/JanCBrammer/NeuroKit/internal/report"
	"github.com/JanCBrammer/NeuroKit/pkg/eda"
	"github.com/JanCBrammer/NeuroKit/pkg/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id            TEXT PRIMARY KEY,
	source        TEXT NOT NULL,
	sampling_rate DOUBLE NOT NULL,
	samples       BIGINT NOT NULL,
	event_count   BIGINT NOT NULL,
	with_onset    BIGINT NOT NULL,
	with_recovery BIGINT NOT NULL,
	created_at    TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS scr_events (
	run_id        TEXT NOT NULL,
	event_index   BIGINT NOT NULL,
	onset         DOUBLE,
	peak          BIGINT NOT NULL,
	height        DOUBLE NOT NULL,
	amplitude     DOUBLE,
	rise_time     DOUBLE,
	recovery      DOUBLE,
	recovery_time DOUBLE,
	PRIMARY KEY (run_id, event_index),
	FOREIGN KEY (run_id) REFERENCES analysis_runs(id)
);
`

// Store persists analysis runs in a SQLite database
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// RunSummary is one row of the stored run index
type RunSummary struct {
	ID           string    `json:"id" yaml:"id"`
	Source       string    `json:"source" yaml:"source"`
	SamplingRate float64   `json:"sampling_rate" yaml:"sampling_rate"`
	Samples      int       `json:"samples" yaml:"samples"`
	EventCount   int       `json:"event_count" yaml:"event_count"`
	WithOnset    int       `json:"with_onset" yaml:"with_onset"`
	WithRecovery int       `json:"with_recovery" yaml:"with_recovery"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// Open opens the results database at path and initializes the schema
func Open(path string, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize results schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists a report together with its per-event records
func (s *Store) SaveRun(ctx context.Context, rep *report.AnalysisReport) error {
	withOnset, withRecovery := 0, 0
	for _, ev := range rep.Events {
		if ev.Amplitude.Valid {
			withOnset++
		}
		if ev.Recovery.Valid {
			withRecovery++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analysis_runs
			(id, source, sampling_rate, samples, event_count, with_onset, with_recovery, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.ID, rep.Source, rep.SamplingRate, rep.Samples,
		len(rep.Events), withOnset, withRecovery, rep.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", rep.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scr_events
			(run_id, event_index, onset, peak, height, amplitude, rise_time, recovery, recovery_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare event insert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range rep.Events {
		_, err := stmt.ExecContext(ctx,
			rep.ID, ev.Index, toNull(ev.Onset), ev.Peak, ev.Height,
			toNull(ev.Amplitude), toNull(ev.RiseTime), toNull(ev.Recovery), toNull(ev.RecoveryTime),
		)
		if err != nil {
			return fmt.Errorf("failed to insert event %d of run %s: %w", ev.Index, rep.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", rep.ID, err)
	}

	s.logger.Debug("Analysis run persisted", logging.Fields{
		"run_id": rep.ID,
		"events": len(rep.Events),
	})
	return nil
}

// ListRuns returns all stored runs, newest first
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, sampling_rate, samples, event_count, with_onset, with_recovery, created_at
		FROM analysis_runs
		ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		err := rows.Scan(&run.ID, &run.Source, &run.SamplingRate, &run.Samples,
			&run.EventCount, &run.WithOnset, &run.WithRecovery, &run.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read run rows: %w", err)
	}
	return runs, nil
}

// GetRun loads one stored run with its events. The summary block is
// recomputed from the stored feature values.
func (s *Store) GetRun(ctx context.Context, id string) (*report.AnalysisReport, error) {
	rep := &report.AnalysisReport{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, sampling_rate, samples, created_at
		FROM analysis_runs WHERE id = ?`, id).
		Scan(&rep.ID, &rep.Source, &rep.SamplingRate, &rep.Samples, &rep.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT event_index, onset, peak, height, amplitude, rise_time, recovery, recovery_time
		FROM scr_events WHERE run_id = ?
		ORDER BY event_index`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query events of run %s: %w", id, err)
	}
	defer rows.Close()

	features := &eda.Features{}
	for rows.Next() {
		var ev report.EventRecord
		var onset, amplitude, riseTime, recovery, recoveryTime sql.NullFloat64
		err := rows.Scan(&ev.Index, &onset, &ev.Peak, &ev.Height,
			&amplitude, &riseTime, &recovery, &recoveryTime)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row of run %s: %w", id, err)
		}
		ev.Onset = fromNull(onset)
		ev.Amplitude = fromNull(amplitude)
		ev.RiseTime = fromNull(riseTime)
		ev.Recovery = fromNull(recovery)
		ev.RecoveryTime = fromNull(recoveryTime)
		rep.Events = append(rep.Events, ev)

		features.Amplitude = append(features.Amplitude, ev.Amplitude)
		features.RiseTime = append(features.RiseTime, ev.RiseTime)
		features.Recovery = append(features.Recovery, ev.Recovery)
		features.RecoveryTime = append(features.RecoveryTime, ev.RecoveryTime)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event rows of run %s: %w", id, err)
	}

	rep.Summary = report.Summarize(features)
	return rep, nil
}

func toNull(n eda.NullFloat64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: n.Float64, Valid: n.Valid}
}

func fromNull(n sql.NullFloat64) eda.NullFloat64 {
	if !n.Valid {
		return eda.Null()
	}
	return eda.Float(n.Float64)
}
