package cmd

import (
	"context"
	"fmt"
	"time"

	"casino/api"
	"casino/config"
	"casino/database"
	"casino/events"
	"casino/games"
	"casino/ledger"
	"casino/repository"
	"casino/service"

	"github.com/coder/quartz"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}
	log.WithField("environment", cfg.Environment).Info("Starting casino service")

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.MigrateUp(); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	eventBus := events.NewBus()
	subscribeAuditLog(eventBus)

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	var ledgerService service.LedgerService
	if cfg.LedgerURL != "" {
		ledgerService = ledger.NewHTTPClient(cfg.LedgerURL)
	} else {
		log.Warn("LEDGER_URL not set, using in-memory ledger")
		ledgerService = ledger.NewInMemory()
	}

	locks := service.NewTableLocks()
	source := games.NewRandSource()
	clock := quartz.NewReal()

	settlementService := service.NewSettlementService(uowFactory, ledgerService, source, locks, clock)
	ownershipService := service.NewOwnershipService(uowFactory, ledgerService, source, locks, clock)
	buyBackService := service.NewBuyBackService(uowFactory, ledgerService, locks, clock)
	drawService := service.NewDrawService(uowFactory, source, locks, clock)
	sweeper := service.NewSweeper(buyBackService, drawService, cfg.SweepInterval, clock)

	server := api.NewServer(settlementService, ownershipService, buyBackService, drawService)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sweeper.Run(gctx)
	})

	g.Go(func() error {
		log.WithField("addr", cfg.ListenAddr).Info("HTTP server listening")
		return server.Listen(cfg.ListenAddr)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down HTTP server...")
		return server.Shutdown()
	})

	err = g.Wait()
	if err != nil && err != context.Canceled {
		return err
	}

	// Give async event handlers a moment to drain.
	time.Sleep(1 * time.Second)
	log.Info("Shutdown completed")
	return nil
}

// subscribeAuditLog logs every domain event for operator audit
func subscribeAuditLog(bus *events.Bus) {
	handler := func(_ context.Context, e events.Event) {
		log.WithFields(log.Fields{
			"eventType": e.Type(),
			"event":     fmt.Sprintf("%+v", e),
		}).Info("Domain event")
	}
	for _, t := range []events.EventType{
		events.EventTypeSettlementCompleted,
		events.EventTypeTableTransferred,
		events.EventTypeBuyBackOpened,
		events.EventTypeBuyBackResolved,
		events.EventTypeDrawCompleted,
		events.EventTypeTableClaimed,
		events.EventTypeTableRelinquished,
		events.EventTypeMaxBetChanged,
	} {
		bus.Subscribe(t, handler)
	}
}
