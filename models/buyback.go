package models

import (
	"time"

	"github.com/google/uuid"
)

// BuyBackStatus represents the state of a buy-back offer
type BuyBackStatus string

const (
	BuyBackStatusPending  BuyBackStatus = "pending"
	BuyBackStatusAccepted BuyBackStatus = "accepted"
	BuyBackStatusRejected BuyBackStatus = "rejected"
	BuyBackStatusExpired  BuyBackStatus = "expired"
)

// BuyBackOffer is the time-boxed right of a dispossessed owner to
// reclaim a table by paying points after a shortfall transfer. At most
// one non-terminal offer exists per table at a time.
type BuyBackOffer struct {
	ID              uuid.UUID     `db:"id"`
	TableID         int64         `db:"table_id"`
	PreviousOwnerID int64         `db:"previous_owner_id"`
	NewOwnerID      int64         `db:"new_owner_id"`
	PointsOffered   int64         `db:"points_offered"`
	Status          BuyBackStatus `db:"status"`
	CreatedAt       time.Time     `db:"created_at"`
	ExpiresAt       time.Time     `db:"expires_at"`
	ResolvedAt      *time.Time    `db:"resolved_at"`
}

// IsPending reports whether the offer is still open for resolution
func (o *BuyBackOffer) IsPending() bool {
	return o.Status == BuyBackStatusPending
}

// IsExpiredAt reports whether the offer's window has passed at the
// given time. Only meaningful for pending offers.
func (o *BuyBackOffer) IsExpiredAt(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

// CanBeResolvedBy reports whether the given player may accept or reject
// the offer. Only the dispossessed owner may resolve it.
func (o *BuyBackOffer) CanBeResolvedBy(playerID int64) bool {
	return o.PreviousOwnerID == playerID
}
