package repository

import (
	"context"
	"fmt"
	"time"

	"casino/database"
	"casino/models"
	"github.com/jackc/pgx/v5"
)

// TableRepository implements the service.TableRepository interface
type TableRepository struct {
	q queryable
}

// NewTableRepository creates a new table repository
func NewTableRepository(db *database.DB) *TableRepository {
	return &TableRepository{q: db.Pool}
}

// newTableRepositoryWithTx creates a new table repository with a transaction
func newTableRepositoryWithTx(tx queryable) *TableRepository {
	return &TableRepository{q: tx}
}

const tableColumns = `
	id, game_type, location, owner_id, bankroll, max_bet, profit,
	buy_back_reward, ownership_expiry, sale_price, version,
	created_at, updated_at`

func scanTable(row pgx.Row) (*models.Table, error) {
	var t models.Table
	err := row.Scan(
		&t.ID,
		&t.GameType,
		&t.Location,
		&t.OwnerID,
		&t.Bankroll,
		&t.MaxBet,
		&t.Profit,
		&t.BuyBackReward,
		&t.OwnershipExpiry,
		&t.SalePrice,
		&t.Version,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new table
func (r *TableRepository) Create(ctx context.Context, table *models.Table) error {
	query := `
		INSERT INTO casino_tables
			(game_type, location, owner_id, bankroll, max_bet, profit,
			 buy_back_reward, ownership_expiry, sale_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, version, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		table.GameType,
		table.Location,
		table.OwnerID,
		table.Bankroll,
		table.MaxBet,
		table.Profit,
		table.BuyBackReward,
		table.OwnershipExpiry,
		table.SalePrice,
	).Scan(&table.ID, &table.Version, &table.CreatedAt, &table.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create %s table at %q: %w", table.GameType, table.Location, err)
	}
	return nil
}

// GetByID retrieves a table by its ID
func (r *TableRepository) GetByID(ctx context.Context, id int64) (*models.Table, error) {
	query := `SELECT` + tableColumns + ` FROM casino_tables WHERE id = $1`

	table, err := scanTable(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get table %d: %w", id, err)
	}
	return table, nil
}

// GetByGameLocation retrieves the table hosting a game at a location
func (r *TableRepository) GetByGameLocation(ctx context.Context, gameType models.GameType, location string) (*models.Table, error) {
	query := `SELECT` + tableColumns + ` FROM casino_tables WHERE game_type = $1 AND location = $2`

	table, err := scanTable(r.q.QueryRow(ctx, query, gameType, location))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s table at %q: %w", gameType, location, err)
	}
	return table, nil
}

// GetForUpdate retrieves a table holding a row lock for the duration of
// the surrounding transaction
func (r *TableRepository) GetForUpdate(ctx context.Context, id int64) (*models.Table, error) {
	query := `SELECT` + tableColumns + ` FROM casino_tables WHERE id = $1 FOR UPDATE`

	table, err := scanTable(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock table %d: %w", id, err)
	}
	return table, nil
}

// Update persists a table, bumping its version. The version predicate
// turns a lost race into ErrConcurrentModification instead of a silent
// overwrite.
func (r *TableRepository) Update(ctx context.Context, table *models.Table) error {
	query := `
		UPDATE casino_tables
		SET owner_id = $1, bankroll = $2, max_bet = $3, profit = $4,
		    buy_back_reward = $5, ownership_expiry = $6, sale_price = $7,
		    version = version + 1, updated_at = NOW()
		WHERE id = $8 AND version = $9
	`

	result, err := r.q.Exec(ctx, query,
		table.OwnerID,
		table.Bankroll,
		table.MaxBet,
		table.Profit,
		table.BuyBackReward,
		table.OwnershipExpiry,
		table.SalePrice,
		table.ID,
		table.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update table %d: %w", table.ID, err)
	}

	if result.RowsAffected() == 0 {
		existing, err := r.GetByID(ctx, table.ID)
		if err != nil {
			return fmt.Errorf("failed to check table %d: %w", table.ID, err)
		}
		if existing == nil {
			return fmt.Errorf("table %d: %w", table.ID, models.ErrTableNotFound)
		}
		return fmt.Errorf("table %d version %d: %w", table.ID, table.Version, models.ErrConcurrentModification)
	}

	table.Version++
	return nil
}

// GetByOwner returns all tables held by a player
func (r *TableRepository) GetByOwner(ctx context.Context, ownerID int64) ([]*models.Table, error) {
	query := `SELECT` + tableColumns + ` FROM casino_tables WHERE owner_id = $1 ORDER BY id`

	rows, err := r.q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables for owner %d: %w", ownerID, err)
	}
	defer rows.Close()

	var tables []*models.Table
	for rows.Next() {
		table, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, table)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tables: %w", err)
	}
	return tables, nil
}

// GetDueSlotsDraws returns ids of owner-held slots tables whose
// ownership tenure has expired
func (r *TableRepository) GetDueSlotsDraws(ctx context.Context, now time.Time) ([]int64, error) {
	query := `
		SELECT id FROM casino_tables
		WHERE game_type = $1
		  AND owner_id IS NOT NULL
		  AND ownership_expiry IS NOT NULL
		  AND ownership_expiry <= $2
		ORDER BY ownership_expiry
	`

	rows, err := r.q.Query(ctx, query, models.GameTypeSlots, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get due slots draws: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan table id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate table ids: %w", err)
	}
	return ids, nil
}
