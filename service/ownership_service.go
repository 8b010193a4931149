package service

import (
	"context"
	"fmt"
	"time"

	"casino/config"
	"casino/events"
	"casino/games"
	"casino/models"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type ownershipService struct {
	uowFactory UnitOfWorkFactory
	ledger     LedgerService
	source     games.OutcomeSource
	locks      *TableLocks
	clock      quartz.Clock
}

// NewOwnershipService creates a new ownership service
func NewOwnershipService(uowFactory UnitOfWorkFactory, ledger LedgerService, source games.OutcomeSource, locks *TableLocks, clock quartz.Clock) OwnershipService {
	return &ownershipService{
		uowFactory: uowFactory,
		ledger:     ledger,
		source:     source,
		locks:      locks,
		clock:      clock,
	}
}

// GetTableConfig returns the public play parameters of a table
func (s *ownershipService) GetTableConfig(ctx context.Context, tableID int64) (*models.TableConfig, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	table, err := uow.TableRepository().GetByID(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	if table == nil {
		return nil, fmt.Errorf("table %d: %w", tableID, models.ErrTableNotFound)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TableConfig{
		TableID:    table.ID,
		GameType:   table.GameType,
		Location:   table.Location,
		MaxBet:     table.MaxBet,
		HouseOwned: table.IsHouseOwned(),
	}, nil
}

// GetOwnership returns the table's ownership state. Overdue buy-back
// offers expire and due slots draws execute before the state is
// reported, so two readers can never disagree about a pending offer.
func (s *ownershipService) GetOwnership(ctx context.Context, tableID int64) (*models.OwnershipInfo, error) {
	unlock := s.locks.Lock(tableID)
	defer unlock()

	now := s.clock.Now()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	table, err := uow.TableRepository().GetForUpdate(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	if table == nil {
		return nil, fmt.Errorf("table %d: %w", tableID, models.ErrTableNotFound)
	}

	pendingOffer, err := expireOverdueOffer(ctx, uow, table.ID, now)
	if err != nil {
		return nil, err
	}
	if table.DrawDue(now) {
		if err := executeDueDraw(ctx, uow, table, now, s.source); err != nil {
			return nil, err
		}
		if err := uow.TableRepository().Update(ctx, table); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.OwnershipInfo{
		TableID:         table.ID,
		OwnerID:         table.OwnerID,
		Bankroll:        table.Bankroll,
		Profit:          table.Profit,
		MaxBet:          table.MaxBet,
		SalePrice:       table.SalePrice,
		BuyBackOffer:    pendingOffer,
		OwnershipExpiry: table.OwnershipExpiry,
	}, nil
}

// ClaimTable transfers an unclaimed table to the caller for the
// platform claim fee. The claimed table starts with the configured
// default bankroll and max bet.
func (s *ownershipService) ClaimTable(ctx context.Context, tableID, playerID int64) (*models.Table, error) {
	unlock := s.locks.Lock(tableID)
	defer unlock()

	now := s.clock.Now()
	cfg := config.Get()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	table, err := s.lockedTable(ctx, uow, tableID, now)
	if err != nil {
		return nil, err
	}
	if !table.IsHouseOwned() {
		return nil, fmt.Errorf("table %d already has an owner: %w", tableID, models.ErrUnauthorized)
	}

	if err := s.ledger.Debit(ctx, playerID, cfg.ClaimFee, uuid.New()); err != nil {
		return nil, fmt.Errorf("failed to collect claim fee: %w", err)
	}

	table.OwnerID = &playerID
	table.Bankroll = cfg.DefaultBankroll
	table.Profit = 0
	table.MaxBet = cfg.DefaultMaxBet
	if table.GameType == models.GameTypeSlots {
		expiry := now.Add(cfg.SlotsTenure)
		table.OwnershipExpiry = &expiry
	}

	if err := uow.TableRepository().Update(ctx, table); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.TableClaimedEvent{
		TableID: table.ID,
		OwnerID: playerID,
		Fee:     cfg.ClaimFee,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"tableID": table.ID,
		"ownerID": playerID,
	}).Info("Table claimed")

	return table, nil
}

// RelinquishTable returns an owned table to the house. Bankroll and
// profit reset to their pre-claim state; on slots tables the
// relinquisher enters a re-entry cooldown for the next draw.
func (s *ownershipService) RelinquishTable(ctx context.Context, tableID, playerID int64) error {
	unlock := s.locks.Lock(tableID)
	defer unlock()

	now := s.clock.Now()
	cfg := config.Get()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	table, err := s.lockedTable(ctx, uow, tableID, now)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ctx, uow, table, playerID); err != nil {
		return err
	}

	table.OwnerID = nil
	table.Bankroll = 0
	table.Profit = 0
	table.SalePrice = nil
	table.BuyBackReward = 0
	table.OwnershipExpiry = nil

	if table.GameType == models.GameTypeSlots {
		cooldown := &models.DrawCooldown{
			TableID:  table.ID,
			PlayerID: playerID,
			Until:    now.Add(cfg.DrawCooldown),
		}
		if err := uow.DrawRepository().SetCooldown(ctx, cooldown); err != nil {
			return err
		}
	}

	if err := uow.TableRepository().Update(ctx, table); err != nil {
		return err
	}

	uow.EventBus().Publish(events.TableRelinquishedEvent{
		TableID: table.ID,
		OwnerID: playerID,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetMaxBet adjusts the table limit. Owner only; the limit cannot go
// below the platform floor.
func (s *ownershipService) SetMaxBet(ctx context.Context, tableID, playerID, maxBet int64) error {
	if maxBet < config.Get().MaxBetFloor {
		return fmt.Errorf("%w: max bet %d below platform floor %d", models.ErrInvalidWager, maxBet, config.Get().MaxBetFloor)
	}

	return s.mutateOwned(ctx, tableID, playerID, func(uow UnitOfWork, table *models.Table) error {
		table.MaxBet = maxBet
		uow.EventBus().Publish(events.MaxBetChangedEvent{
			TableID: table.ID,
			OwnerID: playerID,
			MaxBet:  maxBet,
		})
		return nil
	})
}

// SetBuyBackReward presets the slots owner's buy-back compensation
func (s *ownershipService) SetBuyBackReward(ctx context.Context, tableID, playerID, points int64) error {
	if points < 0 {
		return fmt.Errorf("%w: buy-back reward cannot be negative", models.ErrInvalidWager)
	}

	return s.mutateOwned(ctx, tableID, playerID, func(uow UnitOfWork, table *models.Table) error {
		if table.GameType != models.GameTypeSlots {
			return fmt.Errorf("%w: buy-back reward applies to slots tables only", models.ErrInvalidWager)
		}
		table.BuyBackReward = points
		return nil
	})
}

// SellOnTrade lists the table at a points price
func (s *ownershipService) SellOnTrade(ctx context.Context, tableID, playerID, price int64) error {
	if price <= 0 {
		return fmt.Errorf("%w: sale price must be positive", models.ErrInvalidWager)
	}

	return s.mutateOwned(ctx, tableID, playerID, func(uow UnitOfWork, table *models.Table) error {
		table.SalePrice = &price
		return nil
	})
}

// BuyFromTrade purchases a listed table. The price moves from buyer to
// owner and ownership transfers atomically; the bankroll stays with the
// table. This is a sale, distinct from the buy-back flow, which is
// compensation.
func (s *ownershipService) BuyFromTrade(ctx context.Context, tableID, buyerID int64) (*models.Table, error) {
	unlock := s.locks.Lock(tableID)
	defer unlock()

	now := s.clock.Now()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	table, err := s.lockedTable(ctx, uow, tableID, now)
	if err != nil {
		return nil, err
	}
	if !table.IsForSale() {
		return nil, fmt.Errorf("table %d is not for sale: %w", tableID, models.ErrUnauthorized)
	}
	if table.IsOwnedBy(buyerID) {
		return nil, fmt.Errorf("%w: owner cannot buy their own table", models.ErrInvalidWager)
	}

	price := *table.SalePrice
	seller := *table.OwnerID

	if err := s.ledger.Debit(ctx, buyerID, price, uuid.New()); err != nil {
		return nil, fmt.Errorf("failed to collect purchase price: %w", err)
	}
	if err := s.ledger.Credit(ctx, seller, price, uuid.New()); err != nil {
		return nil, fmt.Errorf("failed to pay seller: %w", err)
	}

	closedProfit := table.Profit
	table.OwnerID = &buyerID
	table.Profit = 0
	table.SalePrice = nil
	if table.GameType == models.GameTypeSlots {
		expiry := now.Add(config.Get().SlotsTenure)
		table.OwnershipExpiry = &expiry
	}

	if err := uow.TableRepository().Update(ctx, table); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.TableTransferredEvent{
		TableID:         table.ID,
		PreviousOwnerID: &seller,
		NewOwnerID:      &buyerID,
		Reason:          "trade_sale",
		ClosedProfit:    closedProfit,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return table, nil
}

// SendToUser gifts the table to another player. The bankroll stays with
// the table; the recipient starts a fresh profit tally.
func (s *ownershipService) SendToUser(ctx context.Context, tableID, ownerID, recipientID int64) error {
	if ownerID == recipientID {
		return fmt.Errorf("%w: cannot send a table to yourself", models.ErrInvalidWager)
	}

	return s.mutateOwned(ctx, tableID, ownerID, func(uow UnitOfWork, table *models.Table) error {
		closedProfit := table.Profit
		table.OwnerID = &recipientID
		table.Profit = 0
		table.SalePrice = nil
		if table.GameType == models.GameTypeSlots {
			expiry := s.clock.Now().Add(config.Get().SlotsTenure)
			table.OwnershipExpiry = &expiry
		}

		uow.EventBus().Publish(events.TableTransferredEvent{
			TableID:         table.ID,
			PreviousOwnerID: &ownerID,
			NewOwnerID:      &recipientID,
			Reason:          "gift",
			ClosedProfit:    closedProfit,
		})
		return nil
	})
}

// mutateOwned runs an owner-only mutation under the table lock inside
// one unit of work.
func (s *ownershipService) mutateOwned(ctx context.Context, tableID, playerID int64, fn func(uow UnitOfWork, table *models.Table) error) error {
	unlock := s.locks.Lock(tableID)
	defer unlock()

	now := s.clock.Now()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	table, err := s.lockedTable(ctx, uow, tableID, now)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ctx, uow, table, playerID); err != nil {
		return err
	}

	if err := fn(uow, table); err != nil {
		return err
	}

	if err := uow.TableRepository().Update(ctx, table); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// lockedTable loads the table under a row lock and performs the lazy
// maintenance due on any access.
func (s *ownershipService) lockedTable(ctx context.Context, uow UnitOfWork, tableID int64, now time.Time) (*models.Table, error) {
	table, err := uow.TableRepository().GetForUpdate(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	if table == nil {
		return nil, fmt.Errorf("table %d: %w", tableID, models.ErrTableNotFound)
	}
	if _, err := expireOverdueOffer(ctx, uow, table.ID, now); err != nil {
		return nil, err
	}
	// The caller's final Update persists any draw executed here. A
	// rejected mutation rolls the draw back too; the next access simply
	// runs it again.
	if err := executeDueDraw(ctx, uow, table, now, s.source); err != nil {
		return nil, err
	}
	return table, nil
}

// requireOwner enforces that the caller currently owns the table and
// that no pending buy-back offer would be orphaned by the mutation.
func (s *ownershipService) requireOwner(ctx context.Context, uow UnitOfWork, table *models.Table, playerID int64) error {
	if !table.IsOwnedBy(playerID) {
		return fmt.Errorf("player %d does not own table %d: %w", playerID, table.ID, models.ErrUnauthorized)
	}
	pending, err := uow.BuyBackRepository().GetPendingByTable(ctx, table.ID)
	if err != nil {
		return err
	}
	if pending != nil {
		return fmt.Errorf("table %d: %w", table.ID, models.ErrOfferPending)
	}
	return nil
}
