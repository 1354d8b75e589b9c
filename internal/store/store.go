// Package store handles SQLite persistence of dataset snapshots.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/hitdash/internal/dataset"
	"github.com/verte-zerg/hitdash/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNoSnapshot is returned when no dataset has been written yet.
var ErrNoSnapshot = errors.New("no dataset snapshot")

// Store wraps SQLite access for exported datasets.
type Store struct {
	db *sql.DB
}

// Generation describes the inputs of the stored snapshot.
type Generation struct {
	ParamsKey string
	Seed      int64
	Songs     int
	CreatedAt time.Time
}

// YearCount is the number of stored songs in one year.
type YearCount struct {
	Year  int
	Songs int
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS songs (
			seq INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			year INTEGER NOT NULL,
			bpm INTEGER NOT NULL,
			energy INTEGER NOT NULL,
			danceability INTEGER NOT NULL,
			popularity INTEGER NOT NULL,
			genre TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS generation (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			params_key TEXT NOT NULL,
			seed INTEGER NOT NULL,
			songs INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_songs_year ON songs(year);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// WriteDataset replaces the stored snapshot with ds in a single transaction.
func (s *Store) WriteDataset(ctx context.Context, ds *dataset.Dataset) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM songs`); err != nil {
		return fmt.Errorf("failed to clear songs: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO songs (seq, id, title, artist, year, bpm, energy, danceability, popularity, genre, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, song := range ds.View() {
		if _, err = stmt.ExecContext(ctx, i+1, song.ID, song.Title, song.Artist, song.Year,
			song.BPM, song.Energy, song.Danceability, song.Popularity, song.Genre, song.DurationMs); err != nil {
			return fmt.Errorf("failed to insert song %s: %w", song.ID, err)
		}
	}

	params := ds.Params()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO generation (id, params_key, seed, songs, created_at) VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET params_key = excluded.params_key, seed = excluded.seed,
		 songs = excluded.songs, created_at = excluded.created_at`,
		params.Key(), params.Seed, ds.Len(), time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("failed to record generation: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// ListSongs returns the stored songs in generation order.
func (s *Store) ListSongs(ctx context.Context) ([]model.Song, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, artist, year, bpm, energy, danceability, popularity, genre, duration_ms
		 FROM songs ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var songs []model.Song
	for rows.Next() {
		var song model.Song
		if err := rows.Scan(&song.ID, &song.Title, &song.Artist, &song.Year, &song.BPM, &song.Energy,
			&song.Danceability, &song.Popularity, &song.Genre, &song.DurationMs); err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read songs: %w", err)
	}
	return songs, nil
}

// Generation returns the inputs of the stored snapshot or ErrNoSnapshot.
func (s *Store) Generation(ctx context.Context) (Generation, error) {
	var g Generation
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT params_key, seed, songs, created_at FROM generation WHERE id = 1`,
	).Scan(&g.ParamsKey, &g.Seed, &g.Songs, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Generation{}, ErrNoSnapshot
	}
	if err != nil {
		return Generation{}, fmt.Errorf("failed to query generation: %w", err)
	}
	if g.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Generation{}, fmt.Errorf("failed to parse generation time: %w", err)
	}
	return g, nil
}

// CountByYear returns stored song counts grouped by year, ascending.
func (s *Store) CountByYear(ctx context.Context) ([]YearCount, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT year, COUNT(*) FROM songs GROUP BY year ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("failed to query year counts: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var out []YearCount
	for rows.Next() {
		var yc YearCount
		if err := rows.Scan(&yc.Year, &yc.Songs); err != nil {
			return nil, fmt.Errorf("failed to scan year count: %w", err)
		}
		out = append(out, yc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read year counts: %w", err)
	}
	return out, nil
}
