// Package history persists per-run analysis summaries so watch mode
// can show drift over time.
package history

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

type Run struct {
	RunID         string
	Timestamp     time.Time
	EntryURLs     []string
	DocumentCount int
	FeatureCount  int
	ErrorCount    int
	WarningCount  int
	InfoCount     int
	Duration      time.Duration
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	for _, pragma := range []string{
		`PRAGMA journal_mode=WAL`,
		`PRAGMA busy_timeout=5000`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure history db: %w", err)
		}
	}
	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one run row. The run id is assigned here and
// returned.
func (s *Store) Record(run Run) (string, error) {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}

	_, err := s.db.Exec(`
INSERT INTO runs (run_id, ts_utc, entry_urls, document_count, feature_count,
                  error_count, warning_count, info_count, duration_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.Timestamp.Format(time.RFC3339),
		strings.Join(run.EntryURLs, "\n"),
		run.DocumentCount,
		run.FeatureCount,
		run.ErrorCount,
		run.WarningCount,
		run.InfoCount,
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return run.RunID, nil
}

// Recent returns the latest runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
SELECT run_id, ts_utc, entry_urls, document_count, feature_count,
       error_count, warning_count, info_count, duration_ms
FROM runs ORDER BY ts_utc DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		var ts, entries string
		var durationMS int64
		if err := rows.Scan(&run.RunID, &ts, &entries, &run.DocumentCount,
			&run.FeatureCount, &run.ErrorCount, &run.WarningCount,
			&run.InfoCount, &durationMS); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Timestamp, _ = time.Parse(time.RFC3339, ts)
		if entries != "" {
			run.EntryURLs = strings.Split(entries, "\n")
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, run)
	}
	return out, rows.Err()
}
