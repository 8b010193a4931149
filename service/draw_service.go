package service

import (
	"context"
	"fmt"
	"time"

	"casino/games"
	"casino/models"

	"github.com/coder/quartz"
	log "github.com/sirupsen/logrus"
)

type drawService struct {
	uowFactory UnitOfWorkFactory
	source     games.OutcomeSource
	locks      *TableLocks
	clock      quartz.Clock
}

// NewDrawService creates a new slots ownership draw service
func NewDrawService(uowFactory UnitOfWorkFactory, source games.OutcomeSource, locks *TableLocks, clock quartz.Clock) DrawService {
	return &drawService{
		uowFactory: uowFactory,
		source:     source,
		locks:      locks,
		clock:      clock,
	}
}

// EnterDraw registers a player for the table's next ownership draw.
// Entering twice is a no-op. The current owner cannot enter their own
// draw, and players on a re-entry cooldown are turned away.
func (s *drawService) EnterDraw(ctx context.Context, tableID, playerID int64) error {
	unlock := s.locks.Lock(tableID)
	defer unlock()

	now := s.clock.Now()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	table, err := uow.TableRepository().GetForUpdate(ctx, tableID)
	if err != nil {
		return fmt.Errorf("failed to get table: %w", err)
	}
	if table == nil {
		return fmt.Errorf("table %d: %w", tableID, models.ErrTableNotFound)
	}
	if table.GameType != models.GameTypeSlots {
		return fmt.Errorf("%w: ownership draws apply to slots tables only", models.ErrInvalidWager)
	}

	// Run any draw that is already due so the entry counts toward the
	// next cycle, not a stale one.
	if table.DrawDue(now) {
		if err := executeDueDraw(ctx, uow, table, now, s.source); err != nil {
			return err
		}
		if err := uow.TableRepository().Update(ctx, table); err != nil {
			return err
		}
	}

	// Entries are only drawn while the table is owner-held; an
	// unclaimed table is claimed outright, not won in a draw.
	if table.IsHouseOwned() {
		return fmt.Errorf("%w: table %d is unclaimed", models.ErrInvalidWager, tableID)
	}
	if table.IsOwnedBy(playerID) {
		return fmt.Errorf("%w: the current owner cannot enter their own draw", models.ErrUnauthorized)
	}

	cooldown, err := uow.DrawRepository().GetCooldown(ctx, tableID, playerID)
	if err != nil {
		return err
	}
	if cooldown != nil && cooldown.Active(now) {
		return fmt.Errorf("player %d is on re-entry cooldown until %s: %w", playerID, cooldown.Until, models.ErrUnauthorized)
	}

	entry := &models.DrawEntry{
		TableID:   tableID,
		PlayerID:  playerID,
		EnteredAt: now,
	}
	if err := uow.DrawRepository().Enter(ctx, entry); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"tableID":  tableID,
		"playerID": playerID,
	}).Info("Draw entry recorded")
	return nil
}

// RunDueDraws executes every slots draw whose tenure has elapsed.
// Called by the background sweeper; each table runs under its own lock
// and transaction.
func (s *drawService) RunDueDraws(ctx context.Context) (int, error) {
	now := s.clock.Now()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	due, err := uow.TableRepository().GetDueSlotsDraws(ctx, now)
	if rollbackErr := uow.Rollback(); rollbackErr != nil {
		log.WithError(rollbackErr).Warn("Failed to roll back draw scan")
	}
	if err != nil {
		return 0, err
	}

	executed := 0
	for _, tableID := range due {
		ran, err := s.runOne(ctx, tableID, now)
		if err != nil {
			log.WithError(err).WithField("tableID", tableID).Error("Failed to run ownership draw")
			continue
		}
		if ran {
			executed++
		}
	}
	return executed, nil
}

// runOne reports whether it actually executed a draw; a table whose
// draw already ran between the scan and the lock counts as a no-op.
func (s *drawService) runOne(ctx context.Context, tableID int64, now time.Time) (bool, error) {
	unlock := s.locks.Lock(tableID)
	defer unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback()

	// Reload under the row lock; a wager settled between the scan and
	// this lock may already have run the draw.
	table, err := uow.TableRepository().GetForUpdate(ctx, tableID)
	if err != nil {
		return false, err
	}
	if table == nil || !table.DrawDue(now) {
		return false, nil
	}

	if err := executeDueDraw(ctx, uow, table, now, s.source); err != nil {
		return false, err
	}
	if err := uow.TableRepository().Update(ctx, table); err != nil {
		return false, err
	}
	if err := uow.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
