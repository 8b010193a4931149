package repository

import (
	"context"
	"fmt"

	"casino/database"
	"casino/models"
	"github.com/jackc/pgx/v5"
)

// DrawRepository implements the service.DrawRepository interface
type DrawRepository struct {
	q queryable
}

// NewDrawRepository creates a new draw repository
func NewDrawRepository(db *database.DB) *DrawRepository {
	return &DrawRepository{q: db.Pool}
}

// newDrawRepositoryWithTx creates a new draw repository with a transaction
func newDrawRepositoryWithTx(tx queryable) *DrawRepository {
	return &DrawRepository{q: tx}
}

// Enter registers a player for the table's next ownership draw.
// Idempotent: a repeat entry in the same cycle is a no-op.
func (r *DrawRepository) Enter(ctx context.Context, entry *models.DrawEntry) error {
	query := `
		INSERT INTO draw_entries (table_id, player_id, entered_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (table_id, player_id) DO NOTHING
		RETURNING id, entered_at
	`

	err := r.q.QueryRow(ctx, query, entry.TableID, entry.PlayerID).
		Scan(&entry.ID, &entry.EnteredAt)
	if err == pgx.ErrNoRows {
		// Already entered this cycle.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to enter draw for table %d: %w", entry.TableID, err)
	}
	return nil
}

// GetEntries returns the current cycle's entries in entry order
func (r *DrawRepository) GetEntries(ctx context.Context, tableID int64) ([]*models.DrawEntry, error) {
	query := `
		SELECT id, table_id, player_id, entered_at
		FROM draw_entries
		WHERE table_id = $1
		ORDER BY entered_at, id
	`

	rows, err := r.q.Query(ctx, query, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw entries for table %d: %w", tableID, err)
	}
	defer rows.Close()

	var entries []*models.DrawEntry
	for rows.Next() {
		var e models.DrawEntry
		if err := rows.Scan(&e.ID, &e.TableID, &e.PlayerID, &e.EnteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan draw entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draw entries: %w", err)
	}
	return entries, nil
}

// ClearEntries removes all entries for a table
func (r *DrawRepository) ClearEntries(ctx context.Context, tableID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM draw_entries WHERE table_id = $1`, tableID)
	if err != nil {
		return fmt.Errorf("failed to clear draw entries for table %d: %w", tableID, err)
	}
	return nil
}

// GetCooldown returns the player's re-entry cooldown, or nil
func (r *DrawRepository) GetCooldown(ctx context.Context, tableID, playerID int64) (*models.DrawCooldown, error) {
	query := `
		SELECT table_id, player_id, until
		FROM draw_cooldowns
		WHERE table_id = $1 AND player_id = $2
	`

	var c models.DrawCooldown
	err := r.q.QueryRow(ctx, query, tableID, playerID).Scan(&c.TableID, &c.PlayerID, &c.Until)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draw cooldown: %w", err)
	}
	return &c, nil
}

// SetCooldown records or extends a re-entry cooldown
func (r *DrawRepository) SetCooldown(ctx context.Context, cooldown *models.DrawCooldown) error {
	query := `
		INSERT INTO draw_cooldowns (table_id, player_id, until)
		VALUES ($1, $2, $3)
		ON CONFLICT (table_id, player_id) DO UPDATE SET until = EXCLUDED.until
	`

	_, err := r.q.Exec(ctx, query, cooldown.TableID, cooldown.PlayerID, cooldown.Until)
	if err != nil {
		return fmt.Errorf("failed to set draw cooldown: %w", err)
	}
	return nil
}
