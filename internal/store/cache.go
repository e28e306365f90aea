// Package store provides SQLite-backed capture and restore of chart view state.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/spendchart/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when no state was captured for a view.
var ErrNotFound = errors.New("no saved state")

// Screens a view can be restored to.
const (
	ScreenPie   = "pie"
	ScreenDaily = "daily"
)

// ViewState is the last-set input model of a chart view plus its navigation state.
// Restoring it means re-running the pipelines over Transactions.
type ViewState struct {
	View         string
	Screen       string
	Category     string
	Transactions []model.Transaction
	SavedAt      time.Time
}

// Store persists view state.
type Store struct {
	db *sql.DB
}

// Open opens or creates the state database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the state database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveState replaces the captured state for vs.View.
func (s *Store) SaveState(vs ViewState) error {
	if vs.View == "" {
		return errors.New("view name is required")
	}
	if vs.Screen == "" {
		vs.Screen = ScreenPie
	}
	if vs.SavedAt.IsZero() {
		vs.SavedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT OR REPLACE INTO view_state
		(view, screen, category, tx_count, saved_at)
		VALUES (?, ?, ?, ?, ?)`,
		vs.View, vs.Screen, vs.Category, len(vs.Transactions), vs.SavedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return err
	}

	// REPLACE does not reliably cascade; clear old rows explicitly.
	if _, err := tx.Exec("DELETE FROM view_transactions WHERE view = ?", vs.View); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO view_transactions (view, seq, payload) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, t := range vs.Transactions {
		payload, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encoding transaction %d: %w", i, err)
		}
		if _, err := stmt.Exec(vs.View, i, string(payload)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadState reads the captured state for view, or ErrNotFound.
func (s *Store) LoadState(view string) (ViewState, error) {
	vs := ViewState{View: view}
	var category sql.NullString
	var savedAt string
	var count int

	err := s.db.QueryRow(`SELECT screen, category, tx_count, saved_at
		FROM view_state WHERE view = ?`, view).Scan(&vs.Screen, &category, &count, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return vs, ErrNotFound
	}
	if err != nil {
		return vs, err
	}
	if category.Valid {
		vs.Category = category.String
	}
	vs.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)

	rows, err := s.db.Query(`SELECT payload FROM view_transactions
		WHERE view = ? ORDER BY seq`, view)
	if err != nil {
		return vs, err
	}
	defer func() { _ = rows.Close() }()

	vs.Transactions = make([]model.Transaction, 0, count)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return vs, err
		}
		var t model.Transaction
		if err := json.Unmarshal([]byte(payload), &t); err != nil {
			return vs, fmt.Errorf("decoding saved transaction: %w", err)
		}
		vs.Transactions = append(vs.Transactions, t)
	}
	return vs, rows.Err()
}

// DeleteState removes the captured state for view.
func (s *Store) DeleteState(view string) error {
	_, err := s.db.Exec("DELETE FROM view_state WHERE view = ?", view)
	return err
}

// Views lists captured view names, most recent first.
func (s *Store) Views() ([]string, error) {
	rows, err := s.db.Query("SELECT view FROM view_state ORDER BY saved_at DESC")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var views []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}
