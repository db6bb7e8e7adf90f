package reports

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists reports in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens the SQLite database at the given path and configures
// WAL mode.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite exec %s: %w", pragma, err)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS reports (
	id            TEXT PRIMARY KEY,
	reporter_name TEXT NOT NULL DEFAULT 'Anonymous',
	location      TEXT NOT NULL,
	threat_type   TEXT NOT NULL,
	message       TEXT NOT NULL,
	image_urls    TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'New',
	created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
`

// Migrate creates the reports schema if missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, migration); err != nil {
		return fmt.Errorf("sqlite migrate: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a report. Image URLs are stored comma-joined.
func (s *Store) Create(ctx context.Context, r Report) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (id, reporter_name, location, threat_type, message, image_urls, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ReporterName, r.Location, r.ThreatType, r.Message,
		strings.Join(r.ImageURLs, ","), r.Status, r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// List returns all reports, newest first.
func (s *Store) List(ctx context.Context) ([]Report, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, reporter_name, location, threat_type, message, image_urls, status, created_at
		 FROM reports ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		var (
			r         Report
			imageURLs string
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.ReporterName, &r.Location, &r.ThreatType,
			&r.Message, &imageURLs, &r.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		if imageURLs != "" {
			r.ImageURLs = strings.Split(imageURLs, ",")
		}
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse report timestamp: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
