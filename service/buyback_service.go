package service

import (
	"context"
	"fmt"
	"time"

	"casino/config"
	"casino/events"
	"casino/models"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type buyBackService struct {
	uowFactory UnitOfWorkFactory
	ledger     LedgerService
	locks      *TableLocks
	clock      quartz.Clock
}

// NewBuyBackService creates a new buy-back service
func NewBuyBackService(uowFactory UnitOfWorkFactory, ledger LedgerService, locks *TableLocks, clock quartz.Clock) BuyBackService {
	return &buyBackService{
		uowFactory: uowFactory,
		ledger:     ledger,
		locks:      locks,
		clock:      clock,
	}
}

// ResolveBuyBack accepts or rejects a pending offer. Only the previous
// owner may resolve it. Accepting pays the offered points to the new
// owner and returns the table; rejecting leaves the table where it is.
func (s *buyBackService) ResolveBuyBack(ctx context.Context, offerID uuid.UUID, callerID int64, accept bool) (*models.BuyBackOffer, error) {
	now := s.clock.Now()

	// Look up the offer first so we know which table to lock.
	tableID, err := s.offerTable(ctx, offerID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(tableID)
	defer unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	offer, err := uow.BuyBackRepository().GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, fmt.Errorf("offer %s: %w", offerID, models.ErrOfferNotFound)
	}
	if !offer.IsPending() {
		return nil, fmt.Errorf("offer %s is %s: %w", offerID, offer.Status, models.ErrOfferAlreadyResolved)
	}
	if offer.IsExpiredAt(now) {
		// Resolve the expiry here rather than bouncing the caller to a
		// sweep that may not have run yet.
		offer.Status = models.BuyBackStatusExpired
		resolvedAt := now
		offer.ResolvedAt = &resolvedAt
		if err := uow.BuyBackRepository().Update(ctx, offer); err != nil {
			return nil, err
		}
		uow.EventBus().Publish(events.BuyBackResolvedEvent{
			OfferID: offer.ID.String(),
			TableID: offer.TableID,
			Status:  models.BuyBackStatusExpired,
		})
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil, fmt.Errorf("offer %s: %w", offerID, models.ErrOfferExpired)
	}
	if !offer.CanBeResolvedBy(callerID) {
		return nil, fmt.Errorf("player %d cannot resolve offer %s: %w", callerID, offerID, models.ErrUnauthorized)
	}

	resolvedAt := now
	offer.ResolvedAt = &resolvedAt

	if accept {
		offer.Status = models.BuyBackStatusAccepted

		if err := s.ledger.Debit(ctx, offer.PreviousOwnerID, offer.PointsOffered, uuid.New()); err != nil {
			return nil, fmt.Errorf("failed to collect buy-back points: %w", err)
		}
		if err := s.ledger.Credit(ctx, offer.NewOwnerID, offer.PointsOffered, uuid.New()); err != nil {
			return nil, fmt.Errorf("failed to pay buy-back points: %w", err)
		}

		table, err := uow.TableRepository().GetForUpdate(ctx, offer.TableID)
		if err != nil {
			return nil, err
		}
		if table == nil {
			return nil, fmt.Errorf("table %d: %w", offer.TableID, models.ErrTableNotFound)
		}

		cfg := config.Get()
		previousOwner := table.OwnerID
		closedProfit := table.Profit
		table.OwnerID = &offer.PreviousOwnerID
		table.Bankroll = cfg.DefaultBankroll
		table.Profit = 0
		table.SalePrice = nil
		if table.GameType == models.GameTypeSlots {
			expiry := now.Add(cfg.SlotsTenure)
			table.OwnershipExpiry = &expiry
		}

		if err := uow.TableRepository().Update(ctx, table); err != nil {
			return nil, err
		}

		uow.EventBus().Publish(events.TableTransferredEvent{
			TableID:         table.ID,
			PreviousOwnerID: previousOwner,
			NewOwnerID:      &offer.PreviousOwnerID,
			Reason:          "buyback",
			ClosedProfit:    closedProfit,
		})
	} else {
		offer.Status = models.BuyBackStatusRejected
	}

	if err := uow.BuyBackRepository().Update(ctx, offer); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.BuyBackResolvedEvent{
		OfferID: offer.ID.String(),
		TableID: offer.TableID,
		Status:  offer.Status,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"offerID": offer.ID,
		"tableID": offer.TableID,
		"status":  offer.Status,
	}).Info("Buy-back offer resolved")

	return offer, nil
}

// ExpireDueOffers expires every pending offer whose window has passed.
// Called by the background sweeper; each table is handled under its own
// lock and transaction so one failure does not block the rest.
func (s *buyBackService) ExpireDueOffers(ctx context.Context) (int, error) {
	now := s.clock.Now()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	due, err := uow.BuyBackRepository().GetExpiredPending(ctx, now)
	if rollbackErr := uow.Rollback(); rollbackErr != nil {
		log.WithError(rollbackErr).Warn("Failed to roll back offer scan")
	}
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, offer := range due {
		if err := s.expireOne(ctx, offer.TableID, now); err != nil {
			log.WithError(err).WithField("offerID", offer.ID).Error("Failed to expire buy-back offer")
			continue
		}
		expired++
	}
	return expired, nil
}

func (s *buyBackService) expireOne(ctx context.Context, tableID int64, now time.Time) error {
	unlock := s.locks.Lock(tableID)
	defer unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if _, err := expireOverdueOffer(ctx, uow, tableID, now); err != nil {
		return err
	}
	return uow.Commit()
}

// offerTable resolves an offer id to its table without holding locks
func (s *buyBackService) offerTable(ctx context.Context, offerID uuid.UUID) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	offer, err := uow.BuyBackRepository().GetByID(ctx, offerID)
	if err != nil {
		return 0, err
	}
	if offer == nil {
		return 0, fmt.Errorf("offer %s: %w", offerID, models.ErrOfferNotFound)
	}
	if err := uow.Commit(); err != nil {
		return 0, err
	}
	return offer.TableID, nil
}
