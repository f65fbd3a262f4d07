package inventory

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tradenest/tradenest/pkg/database"
	"go.uber.org/zap"
)

// SnapshotRepository persists the full inventory snapshot as one row,
// replaced wholesale on every store update. This mirrors the session-wide
// local-storage model: one session, one blob, last write wins.
type SnapshotRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewSnapshotRepository creates a new snapshot repository.
func NewSnapshotRepository(db *database.DB, logger *zap.Logger) *SnapshotRepository {
	return &SnapshotRepository{db: db, logger: logger}
}

// Save replaces the stored snapshot. The upsert runs in a transaction so a
// failed write never leaves a partial row behind.
func (r *SnapshotRepository) Save(snapshot Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
		INSERT INTO inventory_snapshots (id, payload, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`
	err = r.db.WithTransaction(func(tx *sql.Tx) error {
		_, execErr := tx.Exec(query, string(payload), time.Now().UTC())
		return execErr
	})
	if err != nil {
		r.logger.Error("Failed to save inventory snapshot", zap.Error(err))
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or ok=false when none exists yet.
func (r *SnapshotRepository) Load() (Snapshot, bool, error) {
	var payload string
	err := r.db.QueryRow("SELECT payload FROM inventory_snapshots WHERE id = 1").Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snapshot, true, nil
}
