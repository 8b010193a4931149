package service

import (
	"context"
	"fmt"
	"time"

	"casino/config"
	"casino/events"
	"casino/games"
	"casino/models"

	log "github.com/sirupsen/logrus"
)

// Lazy maintenance helpers shared by the settlement, ownership and draw
// services. Both run inside the caller's open unit of work, with the
// table row already locked, so lazy checks and the background sweep can
// never disagree about an offer's status or a draw's outcome.

// expireOverdueOffer transitions the table's pending buy-back offer to
// expired when its window has passed. Returns the offer still pending
// for the table, or nil. Expiry is equivalent to rejection: the new
// owner keeps the table, so the table row itself is untouched.
func expireOverdueOffer(ctx context.Context, uow UnitOfWork, tableID int64, now time.Time) (*models.BuyBackOffer, error) {
	offer, err := uow.BuyBackRepository().GetPendingByTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, nil
	}
	if !offer.IsExpiredAt(now) {
		return offer, nil
	}

	offer.Status = models.BuyBackStatusExpired
	resolvedAt := now
	offer.ResolvedAt = &resolvedAt
	if err := uow.BuyBackRepository().Update(ctx, offer); err != nil {
		return nil, fmt.Errorf("failed to expire offer %s: %w", offer.ID, err)
	}

	uow.EventBus().Publish(events.BuyBackResolvedEvent{
		OfferID: offer.ID.String(),
		TableID: offer.TableID,
		Status:  models.BuyBackStatusExpired,
	})

	log.WithFields(log.Fields{
		"offerID": offer.ID,
		"tableID": offer.TableID,
	}).Info("Buy-back offer expired")

	return nil, nil
}

// executeDueDraw runs the slots ownership draw for a table whose tenure
// has elapsed: a uniformly random entrant becomes the new owner, or the
// table reverts to the house when nobody entered. The table is mutated
// in memory; the caller persists it.
func executeDueDraw(ctx context.Context, uow UnitOfWork, table *models.Table, now time.Time, source games.OutcomeSource) error {
	if !table.DrawDue(now) {
		return nil
	}

	entries, err := uow.DrawRepository().GetEntries(ctx, table.ID)
	if err != nil {
		return err
	}

	previousOwner := table.OwnerID
	closedProfit := table.Profit
	cfg := config.Get()

	var winnerID *int64
	if len(entries) == 0 {
		// Nobody entered: the table reverts to unclaimed.
		table.OwnerID = nil
		table.Bankroll = 0
		table.Profit = 0
		table.OwnershipExpiry = nil
		table.SalePrice = nil
	} else {
		winner := entries[source.PickEntrant(len(entries))]
		winnerID = &winner.PlayerID
		expiry := now.Add(cfg.SlotsTenure)
		table.OwnerID = winnerID
		table.Bankroll = cfg.DefaultBankroll
		table.Profit = 0
		table.OwnershipExpiry = &expiry
		table.SalePrice = nil
	}

	if err := uow.DrawRepository().ClearEntries(ctx, table.ID); err != nil {
		return err
	}

	uow.EventBus().Publish(events.TableTransferredEvent{
		TableID:         table.ID,
		PreviousOwnerID: previousOwner,
		NewOwnerID:      winnerID,
		Reason:          "ownership_draw",
		ClosedProfit:    closedProfit,
	})
	uow.EventBus().Publish(events.DrawCompletedEvent{
		TableID:  table.ID,
		WinnerID: winnerID,
		Entrants: len(entries),
	})

	log.WithFields(log.Fields{
		"tableID":  table.ID,
		"entrants": len(entries),
	}).Info("Slots ownership draw executed")

	return nil
}
