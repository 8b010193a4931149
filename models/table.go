package models

import (
	"time"
)

// GameType identifies which casino game a table hosts
type GameType string

const (
	GameTypeDice       GameType = "dice"
	GameTypeRoulette   GameType = "roulette"
	GameTypeSlots      GameType = "slots"
	GameTypeVideoPoker GameType = "video_poker"
)

// Valid reports whether the game type is one of the supported games
func (g GameType) Valid() bool {
	switch g {
	case GameTypeDice, GameTypeRoulette, GameTypeSlots, GameTypeVideoPoker:
		return true
	}
	return false
}

// Table represents one casino game instance at one location.
// A table is either house-owned (OwnerID nil, unlimited funds) or
// player-owned with a bounded bankroll. The bankroll is only meaningful
// while OwnerID is set and never goes negative; a payout the bankroll
// cannot cover is resolved by transferring ownership, not by overdraft.
type Table struct {
	ID       int64    `db:"id"`
	GameType GameType `db:"game_type"`
	Location string   `db:"location"`
	OwnerID  *int64   `db:"owner_id"`
	Bankroll int64    `db:"bankroll"`
	MaxBet   int64    `db:"max_bet"`
	Profit   int64    `db:"profit"`

	// BuyBackReward is the slots owner's preset compensation amount used
	// when a shortfall transfer opens a buy-back offer. Zero means the
	// shortfall conversion applies instead.
	BuyBackReward int64 `db:"buy_back_reward"`

	// OwnershipExpiry is set on slots tables only: when it passes, the
	// next ownership draw reassigns the table among entrants.
	OwnershipExpiry *time.Time `db:"ownership_expiry"`

	// SalePrice is set while the owner has listed the table on trade.
	SalePrice *int64 `db:"sale_price"`

	// Version supports optimistic concurrency on table updates.
	Version   int64     `db:"version"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsHouseOwned reports whether the table is held by the house/state
func (t *Table) IsHouseOwned() bool {
	return t.OwnerID == nil
}

// IsOwnedBy reports whether the given player currently owns the table
func (t *Table) IsOwnedBy(playerID int64) bool {
	return t.OwnerID != nil && *t.OwnerID == playerID
}

// IsForSale reports whether the owner has listed the table on trade
func (t *Table) IsForSale() bool {
	return t.SalePrice != nil
}

// DrawDue reports whether a slots ownership draw is due at the given time
func (t *Table) DrawDue(now time.Time) bool {
	return t.GameType == GameTypeSlots &&
		t.OwnerID != nil &&
		t.OwnershipExpiry != nil &&
		!now.Before(*t.OwnershipExpiry)
}

// TableConfig is the public view of a table's play parameters
type TableConfig struct {
	TableID    int64    `json:"table_id"`
	GameType   GameType `json:"game_type"`
	Location   string   `json:"location"`
	MaxBet     int64    `json:"max_bet"`
	HouseOwned bool     `json:"house_owned"`
}

// OwnershipInfo is the public view of a table's ownership state
type OwnershipInfo struct {
	TableID         int64         `json:"table_id"`
	OwnerID         *int64        `json:"owner_id"`
	Bankroll        int64         `json:"bankroll"`
	Profit          int64         `json:"profit"`
	MaxBet          int64         `json:"max_bet"`
	SalePrice       *int64        `json:"sale_price,omitempty"`
	BuyBackOffer    *BuyBackOffer `json:"buy_back_offer,omitempty"`
	OwnershipExpiry *time.Time    `json:"ownership_expiry,omitempty"`
}
