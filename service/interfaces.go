package service

import (
	"context"
	"time"

	"casino/events"
	"casino/models"

	"github.com/google/uuid"
)

// TableRepository defines the interface for casino table data access
type TableRepository interface {
	// Create inserts a new table
	Create(ctx context.Context, table *models.Table) error

	// GetByID retrieves a table by its ID
	GetByID(ctx context.Context, id int64) (*models.Table, error)

	// GetByGameLocation retrieves the table hosting a game at a location
	GetByGameLocation(ctx context.Context, gameType models.GameType, location string) (*models.Table, error)

	// GetForUpdate retrieves a table with a row lock held for the
	// duration of the surrounding transaction
	GetForUpdate(ctx context.Context, id int64) (*models.Table, error)

	// Update persists a table, bumping its version. Fails with
	// ErrConcurrentModification when the in-memory version is stale.
	Update(ctx context.Context, table *models.Table) error

	// GetByOwner returns all tables held by a player
	GetByOwner(ctx context.Context, ownerID int64) ([]*models.Table, error)

	// GetDueSlotsDraws returns ids of owner-held slots tables whose
	// ownership tenure has expired
	GetDueSlotsDraws(ctx context.Context, now time.Time) ([]int64, error)
}

// SettlementRepository defines the interface for settlement persistence
type SettlementRepository interface {
	// Create persists a settlement in its terminal state
	Create(ctx context.Context, settlement *models.Settlement) error

	// GetByTable returns past settlements for a table, most recent
	// first, bounded by limit
	GetByTable(ctx context.Context, tableID int64, limit int) ([]*models.Settlement, error)

	// GetByPlayer returns past settlements for a player
	GetByPlayer(ctx context.Context, playerID int64, limit int) ([]*models.Settlement, error)
}

// BuyBackRepository defines the interface for buy-back offer data access
type BuyBackRepository interface {
	// Create inserts a new pending offer
	Create(ctx context.Context, offer *models.BuyBackOffer) error

	// GetByID retrieves an offer by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.BuyBackOffer, error)

	// GetPendingByTable returns the table's pending offer, or nil
	GetPendingByTable(ctx context.Context, tableID int64) (*models.BuyBackOffer, error)

	// Update persists an offer's status and resolution time
	Update(ctx context.Context, offer *models.BuyBackOffer) error

	// GetExpiredPending returns pending offers whose window has passed
	GetExpiredPending(ctx context.Context, now time.Time) ([]*models.BuyBackOffer, error)
}

// DrawRepository defines the interface for slots draw entries and
// re-entry cooldowns
type DrawRepository interface {
	// Enter registers a player for the table's next ownership draw.
	// Idempotent: one entry per player per cycle.
	Enter(ctx context.Context, entry *models.DrawEntry) error

	// GetEntries returns the current cycle's entries in entry order
	GetEntries(ctx context.Context, tableID int64) ([]*models.DrawEntry, error)

	// ClearEntries removes all entries for a table
	ClearEntries(ctx context.Context, tableID int64) error

	// GetCooldown returns the player's re-entry cooldown, or nil
	GetCooldown(ctx context.Context, tableID, playerID int64) (*models.DrawCooldown, error)

	// SetCooldown records or extends a re-entry cooldown
	SetCooldown(ctx context.Context, cooldown *models.DrawCooldown) error
}

// PokerHandRepository defines the interface for pending video poker deals
type PokerHandRepository interface {
	// Create persists a freshly dealt hand
	Create(ctx context.Context, hand *models.PokerHand) error

	// GetByID retrieves a hand by its ID
	GetByID(ctx context.Context, id int64) (*models.PokerHand, error)

	// MarkSettled transitions a dealt hand to settled
	MarkSettled(ctx context.Context, id int64) error
}

// LedgerService is the external account service performing the actual
// debit/credit of player points. Calls are transaction-scoped: the same
// txID is safe to retry, the ledger applies it at most once.
type LedgerService interface {
	// Debit removes points from a player's account. Returns
	// ErrInsufficientFunds when the player cannot cover the amount.
	Debit(ctx context.Context, playerID, amount int64, txID uuid.UUID) error

	// Credit adds points to a player's account
	Credit(ctx context.Context, playerID, amount int64, txID uuid.UUID) error
}

// SettlementService defines the interface for wager settlement
type SettlementService interface {
	// PlaceWager settles one wager against the table. Submission is
	// commit-on-send: once the stake is collected the settlement is
	// finalized unconditionally.
	PlaceWager(ctx context.Context, tableID int64, wager *models.Wager) (*models.Settlement, error)

	// DealPoker collects the stake and deals the initial five cards of
	// a video poker hand
	DealPoker(ctx context.Context, tableID, playerID, stake int64) (*models.PokerHand, error)

	// DrawPoker applies the player's hold mask, redraws the discarded
	// cards once, and settles the hand
	DrawPoker(ctx context.Context, handID, playerID int64, holds []int) (*models.Settlement, error)

	// GetHistory returns the table's past settlements, most recent
	// first, bounded by the configured page size
	GetHistory(ctx context.Context, tableID int64) ([]*models.Settlement, error)
}

// OwnershipService defines the interface for table ownership operations
type OwnershipService interface {
	// GetTableConfig returns the public play parameters of a table
	GetTableConfig(ctx context.Context, tableID int64) (*models.TableConfig, error)

	// GetOwnership returns the table's ownership state, expiring any
	// overdue buy-back offer and executing any due slots draw first
	GetOwnership(ctx context.Context, tableID int64) (*models.OwnershipInfo, error)

	// ClaimTable transfers an unclaimed table to the caller for the
	// platform claim fee
	ClaimTable(ctx context.Context, tableID, playerID int64) (*models.Table, error)

	// RelinquishTable returns an owned table to the house. On slots
	// tables the relinquisher enters a re-entry cooldown.
	RelinquishTable(ctx context.Context, tableID, playerID int64) error

	// SetMaxBet adjusts the table limit; owner only, bounded below by
	// the platform floor
	SetMaxBet(ctx context.Context, tableID, playerID, maxBet int64) error

	// SetBuyBackReward presets the slots owner's buy-back compensation
	SetBuyBackReward(ctx context.Context, tableID, playerID, points int64) error

	// SellOnTrade lists the table at a points price
	SellOnTrade(ctx context.Context, tableID, playerID, price int64) error

	// BuyFromTrade purchases a listed table; the price moves from
	// buyer to owner and ownership transfers atomically
	BuyFromTrade(ctx context.Context, tableID, buyerID int64) (*models.Table, error)

	// SendToUser gifts the table to another player
	SendToUser(ctx context.Context, tableID, ownerID, recipientID int64) error
}

// BuyBackService defines the interface for buy-back offer resolution
type BuyBackService interface {
	// ResolveBuyBack accepts or rejects a pending offer. Only the
	// dispossessed owner may resolve it, and at most once.
	ResolveBuyBack(ctx context.Context, offerID uuid.UUID, playerID int64, accept bool) (*models.BuyBackOffer, error)

	// ExpireDueOffers transitions overdue pending offers to expired.
	// Returns the number of offers expired.
	ExpireDueOffers(ctx context.Context) (int, error)
}

// DrawService defines the interface for slots ownership draws
type DrawService interface {
	// EnterDraw registers a player for the table's next ownership draw
	EnterDraw(ctx context.Context, tableID, playerID int64) error

	// RunDueDraws executes all due ownership draws. Returns the number
	// of draws executed.
	RunDueDraws(ctx context.Context) (int, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	TableRepository() TableRepository
	SettlementRepository() SettlementRepository
	BuyBackRepository() BuyBackRepository
	DrawRepository() DrawRepository
	PokerHandRepository() PokerHandRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
