// Package audit persists the outcome of pipeline checks (counts and verdict,
// never the submitted graph) to a local SQLite file.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"pipecheck/internal/core/ports"
	"pipecheck/internal/shared/util"

	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

var _ ports.AuditStore = (*Store)(nil)

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("audit path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("audit path %q is a directory, expected file", cleanPath)
	}

	if err := util.EnsureParentDir(cleanPath); err != nil {
		return nil, fmt.Errorf("create audit directory for %q: %w", cleanPath, err)
	}

	// busy_timeout + WAL keep the writer and ad-hoc readers (audit tail) apart.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite audit %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite audit %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveBatch writes records in one transaction.
func (s *Store) SaveBatch(records []ports.AuditRecord) error {
	if len(records) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	const query = `
INSERT INTO checks (request_id, ts_utc, num_nodes, num_edges, is_dag, fail_safe, duration_us)
VALUES (?, ?, ?, ?, ?, ?, ?)
`
	return s.withRetry("save audit batch", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		stmt, err := tx.Prepare(query)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		defer stmt.Close()

		for _, rec := range records {
			ts := rec.Timestamp
			if ts.IsZero() {
				ts = time.Now()
			}
			if _, err := stmt.Exec(
				rec.RequestID,
				ts.UTC().Format(time.RFC3339Nano),
				rec.NumNodes,
				rec.NumEdges,
				boolToInt(rec.IsDAG),
				boolToInt(rec.FailSafe),
				rec.Duration.Microseconds(),
			); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
		return tx.Commit()
	})
}

// Recent returns up to limit records, newest first. A non-positive limit
// returns everything.
func (s *Store) Recent(limit int) ([]ports.AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT request_id, ts_utc, num_nodes, num_edges, is_dag, fail_safe, duration_us
FROM checks
ORDER BY id DESC
`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows *sql.Rows
	err := s.withRetry("load audit records", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]ports.AuditRecord, 0)
	for rows.Next() {
		var (
			rec        ports.AuditRecord
			tsRaw      string
			isDAG      int
			failSafe   int
			durationUS int64
		)
		if err := rows.Scan(&rec.RequestID, &tsRaw, &rec.NumNodes, &rec.NumEdges, &isDAG, &failSafe, &durationUS); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse audit timestamp %q: %w", tsRaw, err)
		}
		rec.Timestamp = ts.UTC()
		rec.IsDAG = isDAG != 0
		rec.FailSafe = failSafe != 0
		rec.Duration = time.Duration(durationUS) * time.Microsecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit rows: %w", err)
	}
	return records, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
