package service

import (
	"context"
	"errors"
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

type settlementService struct {
	uowFactory UnitOfWorkFactory
	ledger     LedgerService
	source     games.OutcomeSource
	locks      *TableLocks
	clock      quartz.Clock
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uowFactory UnitOfWorkFactory, ledger LedgerService, source games.OutcomeSource, locks *TableLocks, clock quartz.Clock) SettlementService {
	return &settlementService{
		uowFactory: uowFactory,
		ledger:     ledger,
		source:     source,
		locks:      locks,
		clock:      clock,
	}
}

// PlaceWager settles one wager against the table. The whole sequence
// "evaluate outcome, read bankroll, debit or transfer" runs under the
// table lock inside a single unit of work, so no other settlement or
// ownership mutation can interleave with it.
func (s *settlementService) PlaceWager(ctx context.Context, tableID int64, wager *models.Wager) (*models.Settlement, error) {
	unlock := s.locks.Lock(tableID)
	defer unlock()

	now := s.clock.Now()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	table, err := uow.TableRepository().GetForUpdate(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	if table == nil {
		return nil, fmt.Errorf("table %d: %w", tableID, models.ErrTableNotFound)
	}

	if err := s.runMaintenance(ctx, uow, table, now); err != nil {
		return nil, err
	}

	if table.GameType == models.GameTypeVideoPoker {
		return nil, fmt.Errorf("%w: video poker wagers go through deal and draw", models.ErrInvalidWager)
	}

	settlement := &models.Settlement{
		TableID:   table.ID,
		PlayerID:  wager.PlayerID,
		GameType:  table.GameType,
		Stake:     wager.Stake,
		Selection: wager.Selection,
	}

	if rejectErr := s.validateWager(table, wager); rejectErr != nil {
		return s.reject(ctx, uow, table, settlement, rejectErr)
	}

	// Stake is collected before evaluation in all cases. From here on
	// the settlement is finalized unconditionally.
	if err := s.ledger.Debit(ctx, wager.PlayerID, wager.Stake, uuid.New()); err != nil {
		if errors.Is(err, models.ErrInsufficientFunds) {
			return s.reject(ctx, uow, table, settlement, err)
		}
		return nil, fmt.Errorf("failed to collect stake: %w", err)
	}

	settlement.Outcome = s.drawOutcome(table.GameType, wager)

	evaluator, err := games.ForGame(table.GameType)
	if err != nil {
		return nil, err
	}
	settlement.Win, settlement.Payout = evaluator.Evaluate(wager, settlement.Outcome)

	if err := s.applyPayout(ctx, uow, table, settlement, now); err != nil {
		return nil, err
	}

	return s.finalize(ctx, uow, table, settlement)
}

// DealPoker collects the stake and deals the initial five cards of a
// video poker hand. Settlement happens on the draw call.
func (s *settlementService) DealPoker(ctx context.Context, tableID, playerID, stake int64) (*models.PokerHand, error) {
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
	if table.GameType != models.GameTypeVideoPoker {
		return nil, fmt.Errorf("%w: table %d is not a video poker table", models.ErrInvalidWager, tableID)
	}

	if err := s.runMaintenance(ctx, uow, table, now); err != nil {
		return nil, err
	}

	wager := &models.Wager{PlayerID: playerID, Stake: stake}
	settlement := &models.Settlement{
		TableID:  table.ID,
		PlayerID: playerID,
		GameType: table.GameType,
		Stake:    stake,
	}

	if rejectErr := s.validateWager(table, wager); rejectErr != nil {
		_, err := s.reject(ctx, uow, table, settlement, rejectErr)
		return nil, err
	}

	if err := s.ledger.Debit(ctx, playerID, stake, uuid.New()); err != nil {
		if errors.Is(err, models.ErrInsufficientFunds) {
			_, rejErr := s.reject(ctx, uow, table, settlement, err)
			return nil, rejErr
		}
		return nil, fmt.Errorf("failed to collect stake: %w", err)
	}

	hand := &models.PokerHand{
		TableID:  table.ID,
		PlayerID: playerID,
		Stake:    stake,
		Cards:    s.source.DealCards(5, nil),
		State:    models.PokerHandStateDealt,
	}
	if err := uow.PokerHandRepository().Create(ctx, hand); err != nil {
		return nil, err
	}

	if err := uow.TableRepository().Update(ctx, table); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return hand, nil
}

// DrawPoker applies the player's hold mask, redraws the discarded cards
// once, and settles the final hand against the table.
func (s *settlementService) DrawPoker(ctx context.Context, handID, playerID int64, holds []int) (*models.Settlement, error) {
	// The hand is read first to learn which table to lock.
	handTableID, err := s.lookupHandTable(ctx, handID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(handTableID)
	defer unlock()

	now := s.clock.Now()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	hand, err := uow.PokerHandRepository().GetByID(ctx, handID)
	if err != nil {
		return nil, err
	}
	if hand == nil {
		return nil, fmt.Errorf("hand %d: %w", handID, models.ErrHandNotFound)
	}
	if hand.PlayerID != playerID {
		return nil, fmt.Errorf("hand %d belongs to another player: %w", handID, models.ErrUnauthorized)
	}
	if hand.State != models.PokerHandStateDealt {
		return nil, fmt.Errorf("hand %d: %w", handID, models.ErrHandAlreadySettled)
	}

	finalCards, err := s.redraw(hand.Cards, holds)
	if err != nil {
		return nil, err
	}

	table, err := uow.TableRepository().GetForUpdate(ctx, hand.TableID)
	if err != nil {
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	if table == nil {
		return nil, fmt.Errorf("table %d: %w", hand.TableID, models.ErrTableNotFound)
	}

	if err := s.runMaintenance(ctx, uow, table, now); err != nil {
		return nil, err
	}

	wager := &models.Wager{PlayerID: playerID, Stake: hand.Stake}
	settlement := &models.Settlement{
		TableID:  table.ID,
		PlayerID: playerID,
		GameType: table.GameType,
		Stake:    hand.Stake,
		Outcome:  models.PokerOutcome(finalCards),
	}

	evaluator, err := games.ForGame(models.GameTypeVideoPoker)
	if err != nil {
		return nil, err
	}
	settlement.Win, settlement.Payout = evaluator.Evaluate(wager, settlement.Outcome)

	if err := s.applyPayout(ctx, uow, table, settlement, now); err != nil {
		return nil, err
	}
	if err := uow.PokerHandRepository().MarkSettled(ctx, hand.ID); err != nil {
		return nil, err
	}

	return s.finalize(ctx, uow, table, settlement)
}

// GetHistory returns the table's past settlements, most recent first
func (s *settlementService) GetHistory(ctx context.Context, tableID int64) ([]*models.Settlement, error) {
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

	settlements, err := uow.SettlementRepository().GetByTable(ctx, tableID, config.Get().HistoryLimit)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return settlements, nil
}

// runMaintenance performs the lazy checks due on any table access:
// overdue buy-back offers expire and due slots draws execute.
func (s *settlementService) runMaintenance(ctx context.Context, uow UnitOfWork, table *models.Table, now time.Time) error {
	if _, err := expireOverdueOffer(ctx, uow, table.ID, now); err != nil {
		return err
	}
	return executeDueDraw(ctx, uow, table, now, s.source)
}

func (s *settlementService) validateWager(table *models.Table, wager *models.Wager) error {
	if table.IsOwnedBy(wager.PlayerID) {
		return fmt.Errorf("%w: owner cannot wager at their own table", models.ErrInvalidWager)
	}
	evaluator, err := games.ForGame(table.GameType)
	if err != nil {
		return err
	}
	return evaluator.ValidateWager(wager, table.MaxBet)
}

// creditStake applies a losing stake to an owner-held table. The house
// absorbs stakes on unclaimed tables. Winning payouts already include
// the returned stake, so the bankroll is only credited on a loss.
func (s *settlementService) creditStake(table *models.Table, stake int64) {
	if !table.IsHouseOwned() {
		table.Bankroll += stake
		table.Profit += stake
	}
}

func (s *settlementService) drawOutcome(gameType models.GameType, wager *models.Wager) *models.Outcome {
	switch gameType {
	case models.GameTypeDice:
		return models.DiceOutcome(s.source.DiceRoll(wager.Selection.Sides))
	case models.GameTypeRoulette:
		return models.RouletteOutcome(s.source.WheelSpin())
	case models.GameTypeSlots:
		return models.SlotsOutcome(s.source.ReelSpin())
	}
	return nil
}

// applyPayout runs the Applying phase of settlement: pay what the table
// can afford, and resolve any shortfall by transferring ownership.
func (s *settlementService) applyPayout(ctx context.Context, uow UnitOfWork, table *models.Table, settlement *models.Settlement, now time.Time) error {
	if !settlement.Win {
		s.creditStake(table, settlement.Stake)
		settlement.State = models.SettlementStatePaid
		return nil
	}

	payout := settlement.Payout

	// House-owned tables have unlimited funds: the full payout is
	// always payable.
	if table.IsHouseOwned() {
		if err := s.ledger.Credit(ctx, settlement.PlayerID, payout, uuid.New()); err != nil {
			return fmt.Errorf("failed to credit winnings: %w", err)
		}
		settlement.Paid = payout
		settlement.State = models.SettlementStatePaid
		return nil
	}

	if payout <= table.Bankroll {
		table.Bankroll -= payout
		table.Profit -= payout
		if err := s.ledger.Credit(ctx, settlement.PlayerID, payout, uuid.New()); err != nil {
			return fmt.Errorf("failed to credit winnings: %w", err)
		}
		settlement.Paid = payout
		settlement.State = models.SettlementStatePaid
		return nil
	}

	// Shortfall: pay out the whole bankroll and transfer the table to
	// the winner. The bankroll never goes negative.
	available := table.Bankroll
	settlement.Shortfall = payout - available
	settlement.Paid = available

	if available > 0 {
		if err := s.ledger.Credit(ctx, settlement.PlayerID, available, uuid.New()); err != nil {
			return fmt.Errorf("failed to credit winnings: %w", err)
		}
	}

	previousOwner := *table.OwnerID
	closedProfit := table.Profit - available

	winnerID := settlement.PlayerID
	table.OwnerID = &winnerID
	table.Bankroll = 0
	table.Profit = 0
	table.SalePrice = nil
	if table.GameType == models.GameTypeSlots {
		expiry := now.Add(config.Get().SlotsTenure)
		table.OwnershipExpiry = &expiry
	}

	uow.EventBus().Publish(events.TableTransferredEvent{
		TableID:         table.ID,
		PreviousOwnerID: &previousOwner,
		NewOwnerID:      table.OwnerID,
		Reason:          "shortfall",
		ClosedProfit:    closedProfit,
	})

	if err := s.openBuyBack(ctx, uow, table, settlement, previousOwner, now); err != nil {
		return err
	}

	settlement.State = models.SettlementStateTransferred
	return nil
}

// openBuyBack gives the dispossessed owner a time-boxed chance to buy
// the table back. If an offer is already pending for the table the new
// shortfall is recorded but no second offer opens; the stale offer is
// voided, since accepting it would take the table from the newest
// winner and pay someone who no longer holds it.
func (s *settlementService) openBuyBack(ctx context.Context, uow UnitOfWork, table *models.Table, settlement *models.Settlement, previousOwner int64, now time.Time) error {
	existing, err := uow.BuyBackRepository().GetPendingByTable(ctx, table.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.Status = models.BuyBackStatusExpired
		resolvedAt := now
		existing.ResolvedAt = &resolvedAt
		if err := uow.BuyBackRepository().Update(ctx, existing); err != nil {
			return err
		}
		uow.EventBus().Publish(events.BuyBackResolvedEvent{
			OfferID: existing.ID.String(),
			TableID: existing.TableID,
			Status:  models.BuyBackStatusExpired,
		})

		if settlement.Metadata == nil {
			settlement.Metadata = map[string]any{}
		}
		settlement.Metadata["buyback_suppressed"] = true
		log.WithFields(log.Fields{
			"tableID":    table.ID,
			"staleOffer": existing.ID,
		}).Warn("Shortfall with buy-back offer already pending; stale offer voided, no second offer opened")
		return nil
	}

	cfg := config.Get()
	points := settlement.Shortfall / cfg.ShortfallDivisor
	if table.GameType == models.GameTypeSlots && table.BuyBackReward > 0 {
		points = table.BuyBackReward
	}
	if points <= 0 {
		points = 1
	}

	offer := &models.BuyBackOffer{
		ID:              uuid.New(),
		TableID:         table.ID,
		PreviousOwnerID: previousOwner,
		NewOwnerID:      settlement.PlayerID,
		PointsOffered:   points,
		Status:          models.BuyBackStatusPending,
		CreatedAt:       now,
		ExpiresAt:       now.Add(cfg.BuyBackWindow),
	}
	if err := uow.BuyBackRepository().Create(ctx, offer); err != nil {
		return err
	}

	uow.EventBus().Publish(events.BuyBackOpenedEvent{
		OfferID:         offer.ID.String(),
		TableID:         table.ID,
		PreviousOwnerID: previousOwner,
		NewOwnerID:      settlement.PlayerID,
		PointsOffered:   points,
	})
	return nil
}

// reject persists a rejected settlement (no funds moved) and returns
// the rejection to the caller.
func (s *settlementService) reject(ctx context.Context, uow UnitOfWork, table *models.Table, settlement *models.Settlement, cause error) (*models.Settlement, error) {
	settlement.State = models.SettlementStateRejected
	settlement.RejectReason = cause.Error()

	if err := uow.SettlementRepository().Create(ctx, settlement); err != nil {
		return nil, err
	}
	// Maintenance may have mutated the table even though the wager
	// itself was rejected.
	if err := uow.TableRepository().Update(ctx, table); err != nil {
		return nil, err
	}
	uow.EventBus().Publish(events.SettlementCompletedEvent{
		SettlementID: settlement.ID,
		TableID:      table.ID,
		PlayerID:     settlement.PlayerID,
		State:        settlement.State,
	})
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return settlement, cause
}

// finalize persists the settlement, the table mutation, and the events
func (s *settlementService) finalize(ctx context.Context, uow UnitOfWork, table *models.Table, settlement *models.Settlement) (*models.Settlement, error) {
	if err := uow.SettlementRepository().Create(ctx, settlement); err != nil {
		return nil, err
	}
	if err := uow.TableRepository().Update(ctx, table); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.SettlementCompletedEvent{
		SettlementID: settlement.ID,
		TableID:      table.ID,
		PlayerID:     settlement.PlayerID,
		State:        settlement.State,
		Paid:         settlement.Paid,
		Shortfall:    settlement.Shortfall,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"settlementID": settlement.ID,
		"tableID":      table.ID,
		"state":        settlement.State,
		"paid":         settlement.Paid,
		"shortfall":    settlement.Shortfall,
	}).Info("Settlement finalized")

	return settlement, nil
}

// lookupHandTable reads just enough of a poker hand to know which
// table lock to take.
func (s *settlementService) lookupHandTable(ctx context.Context, handID int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	hand, err := uow.PokerHandRepository().GetByID(ctx, handID)
	if err != nil {
		return 0, err
	}
	if hand == nil {
		return 0, fmt.Errorf("hand %d: %w", handID, models.ErrHandNotFound)
	}
	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return hand.TableID, nil
}

// redraw keeps the held positions and deals replacements for the rest
func (s *settlementService) redraw(cards []models.Card, holds []int) ([]models.Card, error) {
	seen := make(map[int]bool, len(holds))
	for _, h := range holds {
		if h < 0 || h >= len(cards) {
			return nil, fmt.Errorf("%w: hold position %d outside hand", models.ErrInvalidSelection, h)
		}
		if seen[h] {
			return nil, fmt.Errorf("%w: duplicate hold position %d", models.ErrInvalidSelection, h)
		}
		seen[h] = true
	}

	if len(holds) == len(cards) {
		return cards, nil
	}

	replacements := s.source.DealCards(len(cards)-len(holds), cards)
	final := make([]models.Card, 0, len(cards))
	ri := 0
	for i, c := range cards {
		if seen[i] {
			final = append(final, c)
		} else {
			final = append(final, replacements[ri])
			ri++
		}
	}
	return final, nil
}
