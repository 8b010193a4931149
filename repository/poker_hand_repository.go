package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"casino/database"
	"casino/models"
	"github.com/jackc/pgx/v5"
)

// PokerHandRepository implements the service.PokerHandRepository interface
type PokerHandRepository struct {
	q queryable
}

// NewPokerHandRepository creates a new poker hand repository
func NewPokerHandRepository(db *database.DB) *PokerHandRepository {
	return &PokerHandRepository{q: db.Pool}
}

// newPokerHandRepositoryWithTx creates a new poker hand repository with a transaction
func newPokerHandRepositoryWithTx(tx queryable) *PokerHandRepository {
	return &PokerHandRepository{q: tx}
}

// Create persists a freshly dealt hand
func (r *PokerHandRepository) Create(ctx context.Context, hand *models.PokerHand) error {
	cardsJSON, err := json.Marshal(hand.Cards)
	if err != nil {
		return fmt.Errorf("failed to marshal cards: %w", err)
	}

	query := `
		INSERT INTO poker_hands (table_id, player_id, stake, cards, state)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		hand.TableID,
		hand.PlayerID,
		hand.Stake,
		cardsJSON,
		hand.State,
	).Scan(&hand.ID, &hand.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create poker hand for table %d: %w", hand.TableID, err)
	}
	return nil
}

// GetByID retrieves a hand by its ID
func (r *PokerHandRepository) GetByID(ctx context.Context, id int64) (*models.PokerHand, error) {
	query := `
		SELECT id, table_id, player_id, stake, cards, state, created_at
		FROM poker_hands
		WHERE id = $1
	`

	var h models.PokerHand
	var cardsJSON []byte
	err := r.q.QueryRow(ctx, query, id).Scan(
		&h.ID,
		&h.TableID,
		&h.PlayerID,
		&h.Stake,
		&cardsJSON,
		&h.State,
		&h.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poker hand %d: %w", id, err)
	}

	if err := json.Unmarshal(cardsJSON, &h.Cards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cards: %w", err)
	}
	return &h, nil
}

// MarkSettled transitions a dealt hand to settled. The state predicate
// keeps a hand from being drawn twice.
func (r *PokerHandRepository) MarkSettled(ctx context.Context, id int64) error {
	query := `
		UPDATE poker_hands
		SET state = $1
		WHERE id = $2 AND state = $3
	`

	result, err := r.q.Exec(ctx, query,
		models.PokerHandStateSettled, id, models.PokerHandStateDealt)
	if err != nil {
		return fmt.Errorf("failed to settle poker hand %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("poker hand %d: %w", id, models.ErrHandAlreadySettled)
	}
	return nil
}
