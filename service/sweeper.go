package service

import (
	"context"
	"time"

	"github.com/coder/quartz"
	log "github.com/sirupsen/logrus"
)

// Sweeper periodically expires overdue buy-back offers and runs due
// slots ownership draws. Lazy checks on table access already enforce
// both; the sweeper just bounds how long an idle table can sit stale.
type Sweeper struct {
	buyBacks BuyBackService
	draws    DrawService
	interval time.Duration
	clock    quartz.Clock
}

// NewSweeper creates a new maintenance sweeper
func NewSweeper(buyBacks BuyBackService, draws DrawService, interval time.Duration, clock quartz.Clock) *Sweeper {
	return &Sweeper{
		buyBacks: buyBacks,
		draws:    draws,
		interval: interval,
		clock:    clock,
	}
}

// Run sweeps on the configured interval until the context is cancelled
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := s.clock.NewTicker(s.interval, "sweeper")
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	expired, err := s.buyBacks.ExpireDueOffers(ctx)
	if err != nil {
		log.WithError(err).Error("Buy-back sweep failed")
	}
	drawn, err := s.draws.RunDueDraws(ctx)
	if err != nil {
		log.WithError(err).Error("Draw sweep failed")
	}
	if expired > 0 || drawn > 0 {
		log.WithFields(log.Fields{
			"offersExpired": expired,
			"drawsRun":      drawn,
		}).Info("Maintenance sweep completed")
	}
}
