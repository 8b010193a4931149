package repository

import (
	"context"
	"fmt"
	"time"

	"casino/database"
	"casino/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BuyBackRepository implements the service.BuyBackRepository interface
type BuyBackRepository struct {
	q queryable
}

// NewBuyBackRepository creates a new buy-back offer repository
func NewBuyBackRepository(db *database.DB) *BuyBackRepository {
	return &BuyBackRepository{q: db.Pool}
}

// newBuyBackRepositoryWithTx creates a new buy-back offer repository with a transaction
func newBuyBackRepositoryWithTx(tx queryable) *BuyBackRepository {
	return &BuyBackRepository{q: tx}
}

const offerColumns = `
	id, table_id, previous_owner_id, new_owner_id, points_offered,
	status, created_at, expires_at, resolved_at`

func scanOffer(row pgx.Row) (*models.BuyBackOffer, error) {
	var o models.BuyBackOffer
	err := row.Scan(
		&o.ID,
		&o.TableID,
		&o.PreviousOwnerID,
		&o.NewOwnerID,
		&o.PointsOffered,
		&o.Status,
		&o.CreatedAt,
		&o.ExpiresAt,
		&o.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts a new pending offer. The partial unique index on
// pending offers makes the single-outstanding-offer invariant
// structural: a second pending insert for the same table fails.
func (r *BuyBackRepository) Create(ctx context.Context, offer *models.BuyBackOffer) error {
	query := `
		INSERT INTO buyback_offers
			(id, table_id, previous_owner_id, new_owner_id,
			 points_offered, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.Exec(ctx, query,
		offer.ID,
		offer.TableID,
		offer.PreviousOwnerID,
		offer.NewOwnerID,
		offer.PointsOffered,
		offer.Status,
		offer.CreatedAt,
		offer.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create buy-back offer for table %d: %w", offer.TableID, err)
	}
	return nil
}

// GetByID retrieves an offer by its ID
func (r *BuyBackRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BuyBackOffer, error) {
	query := `SELECT` + offerColumns + ` FROM buyback_offers WHERE id = $1`

	offer, err := scanOffer(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get buy-back offer %s: %w", id, err)
	}
	return offer, nil
}

// GetPendingByTable returns the table's pending offer, or nil
func (r *BuyBackRepository) GetPendingByTable(ctx context.Context, tableID int64) (*models.BuyBackOffer, error) {
	query := `SELECT` + offerColumns + `
		FROM buyback_offers
		WHERE table_id = $1 AND status = $2`

	offer, err := scanOffer(r.q.QueryRow(ctx, query, tableID, models.BuyBackStatusPending))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending offer for table %d: %w", tableID, err)
	}
	return offer, nil
}

// Update persists an offer's status and resolution time. Only pending
// offers can transition, so resolution is at most once.
func (r *BuyBackRepository) Update(ctx context.Context, offer *models.BuyBackOffer) error {
	query := `
		UPDATE buyback_offers
		SET status = $1, resolved_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := r.q.Exec(ctx, query,
		offer.Status,
		offer.ResolvedAt,
		offer.ID,
		models.BuyBackStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to update buy-back offer %s: %w", offer.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("offer %s: %w", offer.ID, models.ErrOfferAlreadyResolved)
	}
	return nil
}

// GetExpiredPending returns pending offers whose window has passed
func (r *BuyBackRepository) GetExpiredPending(ctx context.Context, now time.Time) ([]*models.BuyBackOffer, error) {
	query := `SELECT` + offerColumns + `
		FROM buyback_offers
		WHERE status = $1 AND expires_at <= $2
		ORDER BY expires_at`

	rows, err := r.q.Query(ctx, query, models.BuyBackStatusPending, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get expired offers: %w", err)
	}
	defer rows.Close()

	var offers []*models.BuyBackOffer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate offers: %w", err)
	}
	return offers, nil
}
