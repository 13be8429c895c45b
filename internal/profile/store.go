// Package profile persists listener preferences. It is the preference
// collaborator behind the scoring engine's ProfileSource interface; the
// engine itself never touches the database directly.
package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/aurelhart/lorecast/pkg/scoring"
)

// ErrNotFound is returned when a listener has no stored profile.
var ErrNotFound = errors.New("listener profile not found")

// Record is a stored listener profile row.
type Record struct {
	ListenerID        string    `db:"listener_id" json:"listener_id"`
	SurpriseTolerance int       `db:"surprise_tolerance" json:"surprise_tolerance"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// Store is the persistence interface for listener profiles.
type Store interface {
	scoring.ProfileSource

	Set(ctx context.Context, listenerID string, tolerance int) error
	Get(ctx context.Context, listenerID string) (*Record, error)
	List(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Set upserts a listener's surprise tolerance. Tolerance is clamped to the
// valid [0,5] range before writing.
func (s *SQLiteStore) Set(ctx context.Context, listenerID string, tolerance int) error {
	if listenerID == "" {
		return fmt.Errorf("set profile: empty listener id")
	}
	if tolerance < 0 {
		tolerance = 0
	}
	if tolerance > 5 {
		tolerance = 5
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO listener_profiles (listener_id, surprise_tolerance, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(listener_id) DO UPDATE SET
			surprise_tolerance = excluded.surprise_tolerance,
			updated_at = excluded.updated_at
	`, listenerID, tolerance, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", listenerID, err)
	}
	return nil
}

// Get returns a listener's stored profile, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, listenerID string) (*Record, error) {
	var rec Record
	err := s.db.GetContext(ctx, &rec,
		"SELECT * FROM listener_profiles WHERE listener_id = ?", listenerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", listenerID, err)
	}
	return &rec, nil
}

// List returns stored profiles, most recently updated first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}
	var recs []Record
	err := s.db.SelectContext(ctx, &recs,
		"SELECT * FROM listener_profiles ORDER BY updated_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return recs, nil
}

// Profile implements scoring.ProfileSource.
func (s *SQLiteStore) Profile(ctx context.Context, listenerID string) (scoring.Profile, error) {
	rec, err := s.Get(ctx, listenerID)
	if err != nil {
		return scoring.Profile{}, err
	}
	return scoring.Profile{SurpriseTolerance: rec.SurpriseTolerance}, nil
}
