// Package sqlite provides a SQLite-backed implementation of the snapshot
// store port. Collaborator responses are stored as JSON payloads so the
// schema does not have to chase the wire formats.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fernweh-labs/unseen/internal/core/domain"
	"github.com/fernweh-labs/unseen/internal/core/ports"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously
)

// Store implements the snapshot store port for SQLite
type Store struct {
	db *sql.DB
}

var _ ports.SnapshotStore = (*Store)(nil)

// NewStore creates a connection and runs the schema migration
func NewStore(storagePath string) (*Store, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return store, nil
}

// Close ensures the DB connection is closed gracefully
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists one run's inputs atomically. Saving the same run id twice
// replaces the previous snapshot.
func (s *Store) SaveRun(ctx context.Context, snap ports.RunSnapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safety net: auto-rollback if we error/panic before commit

	cfgPayload, err := json.Marshal(snap.Config)
	if err != nil {
		return fmt.Errorf("failed to encode run config: %w", err)
	}

	queryRun := `
		INSERT INTO runs (run_id, created_at, city, vibe, center_lat, center_lng, config)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			created_at=excluded.created_at,
			city=excluded.city,
			vibe=excluded.vibe,
			center_lat=excluded.center_lat,
			center_lng=excluded.center_lng,
			config=excluded.config;
	`
	if _, err := tx.ExecContext(ctx, queryRun,
		snap.RunID, snap.CreatedAt, snap.City, snap.Vibe, snap.Center.Lat, snap.Center.Lng, cfgPayload,
	); err != nil {
		return fmt.Errorf("failed to save run metadata: %w", err)
	}

	for _, table := range []string{"run_places", "run_reviews", "run_profiles"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE run_id = ?", snap.RunID); err != nil {
			return fmt.Errorf("failed to clear old %s: %w", table, err)
		}
	}

	stmtPlace, err := tx.PrepareContext(ctx,
		"INSERT INTO run_places (run_id, position, payload) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmtPlace.Close()

	// Positions preserve the provider's ordering, which the replayed
	// selection depends on for tie-breaking.
	for i, raw := range snap.Raw {
		payload, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("failed to encode place %s: %w", raw.ID, err)
		}
		if _, err := stmtPlace.ExecContext(ctx, snap.RunID, i, payload); err != nil {
			return fmt.Errorf("failed to save place %s: %w", raw.ID, err)
		}
	}

	stmtReview, err := tx.PrepareContext(ctx,
		"INSERT INTO run_reviews (run_id, place_id, payload) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmtReview.Close()

	for placeID, reviews := range snap.Reviews {
		payload, err := json.Marshal(reviews)
		if err != nil {
			return fmt.Errorf("failed to encode reviews for %s: %w", placeID, err)
		}
		if _, err := stmtReview.ExecContext(ctx, snap.RunID, placeID, payload); err != nil {
			return fmt.Errorf("failed to save reviews for %s: %w", placeID, err)
		}
	}

	stmtProfile, err := tx.PrepareContext(ctx,
		"INSERT INTO run_profiles (run_id, place_id, payload) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmtProfile.Close()

	for placeID, profile := range snap.Profiles {
		payload, err := json.Marshal(profile)
		if err != nil {
			return fmt.Errorf("failed to encode profile for %s: %w", placeID, err)
		}
		if _, err := stmtProfile.ExecContext(ctx, snap.RunID, placeID, payload); err != nil {
			return fmt.Errorf("failed to save profile for %s: %w", placeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}

	return nil
}

// LoadRun restores a saved snapshot, or ports.ErrRunNotFound.
func (s *Store) LoadRun(ctx context.Context, runID string) (ports.RunSnapshot, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT run_id, created_at, city, vibe, center_lat, center_lng, config FROM runs WHERE run_id = ?", runID)

	var snap ports.RunSnapshot
	var cfgPayload []byte
	if err := row.Scan(
		&snap.RunID, &snap.CreatedAt, &snap.City, &snap.Vibe,
		&snap.Center.Lat, &snap.Center.Lng, &cfgPayload,
	); err != nil {
		if err == sql.ErrNoRows {
			return ports.RunSnapshot{}, ports.ErrRunNotFound
		}
		return ports.RunSnapshot{}, fmt.Errorf("failed to load run: %w", err)
	}
	if err := json.Unmarshal(cfgPayload, &snap.Config); err != nil {
		return ports.RunSnapshot{}, fmt.Errorf("failed to decode run config: %w", err)
	}

	placeRows, err := s.db.QueryContext(ctx,
		"SELECT payload FROM run_places WHERE run_id = ? ORDER BY position ASC", runID)
	if err != nil {
		return ports.RunSnapshot{}, fmt.Errorf("failed to load run places: %w", err)
	}
	defer placeRows.Close()

	snap.Raw = []ports.RawPlace{}
	for placeRows.Next() {
		var payload []byte
		if err := placeRows.Scan(&payload); err != nil {
			return ports.RunSnapshot{}, fmt.Errorf("failed to scan run place: %w", err)
		}
		var raw ports.RawPlace
		if err := json.Unmarshal(payload, &raw); err != nil {
			return ports.RunSnapshot{}, fmt.Errorf("failed to decode run place: %w", err)
		}
		snap.Raw = append(snap.Raw, raw)
	}
	if err := placeRows.Err(); err != nil {
		return ports.RunSnapshot{}, fmt.Errorf("failed to iterate run places: %w", err)
	}

	snap.Reviews = map[string]ports.PlaceReviews{}
	if err := s.loadPayloads(ctx, "run_reviews", runID, func(placeID string, payload []byte) error {
		var reviews ports.PlaceReviews
		if err := json.Unmarshal(payload, &reviews); err != nil {
			return err
		}
		snap.Reviews[placeID] = reviews
		return nil
	}); err != nil {
		return ports.RunSnapshot{}, fmt.Errorf("failed to load run reviews: %w", err)
	}

	snap.Profiles = map[string]domain.VibeProfile{}
	if err := s.loadPayloads(ctx, "run_profiles", runID, func(placeID string, payload []byte) error {
		var profile domain.VibeProfile
		if err := json.Unmarshal(payload, &profile); err != nil {
			return err
		}
		snap.Profiles[placeID] = profile
		return nil
	}); err != nil {
		return ports.RunSnapshot{}, fmt.Errorf("failed to load run profiles: %w", err)
	}

	return snap, nil
}

func (s *Store) loadPayloads(ctx context.Context, table, runID string, visit func(placeID string, payload []byte) error) error {
	rows, err := s.db.QueryContext(ctx, "SELECT place_id, payload FROM "+table+" WHERE run_id = ?", runID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var placeID string
		var payload []byte
		if err := rows.Scan(&placeID, &payload); err != nil {
			return err
		}
		if err := visit(placeID, payload); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		city TEXT NOT NULL,
		vibe TEXT NOT NULL,
		center_lat REAL NOT NULL,
		center_lng REAL NOT NULL,
		config TEXT NOT NULL DEFAULT '{}'
	);

	CREATE TABLE IF NOT EXISTS run_places (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		payload TEXT NOT NULL,
		PRIMARY KEY (run_id, position),
		FOREIGN KEY(run_id) REFERENCES runs(run_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS run_reviews (
		run_id TEXT NOT NULL,
		place_id TEXT NOT NULL,
		payload TEXT NOT NULL,
		PRIMARY KEY (run_id, place_id),
		FOREIGN KEY(run_id) REFERENCES runs(run_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS run_profiles (
		run_id TEXT NOT NULL,
		place_id TEXT NOT NULL,
		payload TEXT NOT NULL,
		PRIMARY KEY (run_id, place_id),
		FOREIGN KEY(run_id) REFERENCES runs(run_id) ON DELETE CASCADE
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return err
	}

	// Databases created before the config column carried the tuning implicitly.
	if _, err := s.db.Exec("ALTER TABLE runs ADD COLUMN config TEXT NOT NULL DEFAULT '{}'"); err != nil && !isDuplicateColumnError(err) {
		return err
	}

	return nil
}

func isDuplicateColumnError(err error) bool {
	return strings.Contains(err.Error(), "duplicate column") ||
		strings.Contains(err.Error(), "already exists")
}
