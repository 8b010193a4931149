package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"casino/database"
	"casino/models"
	"github.com/jackc/pgx/v5"
)

// SettlementRepository implements the service.SettlementRepository interface
type SettlementRepository struct {
	q queryable
}

// NewSettlementRepository creates a new settlement repository
func NewSettlementRepository(db *database.DB) *SettlementRepository {
	return &SettlementRepository{q: db.Pool}
}

// newSettlementRepositoryWithTx creates a new settlement repository with a transaction
func newSettlementRepositoryWithTx(tx queryable) *SettlementRepository {
	return &SettlementRepository{q: tx}
}

// Create persists a settlement in its terminal state
func (r *SettlementRepository) Create(ctx context.Context, settlement *models.Settlement) error {
	selectionJSON, err := json.Marshal(settlement.Selection)
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}

	var outcomeJSON []byte
	if settlement.Outcome != nil {
		outcomeJSON, err = json.Marshal(settlement.Outcome)
		if err != nil {
			return fmt.Errorf("failed to marshal outcome: %w", err)
		}
	}

	metadata := settlement.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO settlements
			(table_id, player_id, game_type, stake, selection, outcome,
			 state, win, payout, shortfall, paid, reject_reason, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		settlement.TableID,
		settlement.PlayerID,
		settlement.GameType,
		settlement.Stake,
		selectionJSON,
		outcomeJSON,
		settlement.State,
		settlement.Win,
		settlement.Payout,
		settlement.Shortfall,
		settlement.Paid,
		settlement.RejectReason,
		metadataJSON,
	).Scan(&settlement.ID, &settlement.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create settlement for table %d: %w", settlement.TableID, err)
	}
	return nil
}

const settlementColumns = `
	id, table_id, player_id, game_type, stake, selection, outcome,
	state, win, payout, shortfall, paid, reject_reason, metadata, created_at`

func scanSettlement(row pgx.Row) (*models.Settlement, error) {
	var s models.Settlement
	var selectionJSON, metadataJSON []byte
	var outcomeJSON []byte

	err := row.Scan(
		&s.ID,
		&s.TableID,
		&s.PlayerID,
		&s.GameType,
		&s.Stake,
		&selectionJSON,
		&outcomeJSON,
		&s.State,
		&s.Win,
		&s.Payout,
		&s.Shortfall,
		&s.Paid,
		&s.RejectReason,
		&metadataJSON,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(selectionJSON, &s.Selection); err != nil {
		return nil, fmt.Errorf("failed to unmarshal selection: %w", err)
	}
	if len(outcomeJSON) > 0 {
		s.Outcome = &models.Outcome{}
		if err := json.Unmarshal(outcomeJSON, s.Outcome); err != nil {
			return nil, fmt.Errorf("failed to unmarshal outcome: %w", err)
		}
	}
	if err := json.Unmarshal(metadataJSON, &s.Metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return &s, nil
}

// GetByTable returns past settlements for a table, most recent first
func (r *SettlementRepository) GetByTable(ctx context.Context, tableID int64, limit int) ([]*models.Settlement, error) {
	query := `SELECT` + settlementColumns + `
		FROM settlements
		WHERE table_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	return r.query(ctx, query, tableID, limit)
}

// GetByPlayer returns past settlements for a player, most recent first
func (r *SettlementRepository) GetByPlayer(ctx context.Context, playerID int64, limit int) ([]*models.Settlement, error) {
	query := `SELECT` + settlementColumns + `
		FROM settlements
		WHERE player_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	return r.query(ctx, query, playerID, limit)
}

func (r *SettlementRepository) query(ctx context.Context, query string, args ...any) ([]*models.Settlement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}
