package repository

import (
	"context"
	"fmt"

	"casino/database"
	"casino/events"
	"casino/service"
	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the service.UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	tableRepo        service.TableRepository
	settlementRepo   service.SettlementRepository
	buyBackRepo      service.BuyBackRepository
	drawRepo         service.DrawRepository
	pokerHandRepo    service.PokerHandRepository
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.tableRepo = newTableRepositoryWithTx(tx)
	u.settlementRepo = newSettlementRepositoryWithTx(tx)
	u.buyBackRepo = newBuyBackRepositoryWithTx(tx)
	u.drawRepo = newDrawRepositoryWithTx(tx)
	u.pokerHandRepo = newPokerHandRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// TableRepository returns the table repository for this unit of work
func (u *unitOfWork) TableRepository() service.TableRepository {
	if u.tableRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.tableRepo
}

// SettlementRepository returns the settlement repository for this unit of work
func (u *unitOfWork) SettlementRepository() service.SettlementRepository {
	if u.settlementRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.settlementRepo
}

// BuyBackRepository returns the buy-back offer repository for this unit of work
func (u *unitOfWork) BuyBackRepository() service.BuyBackRepository {
	if u.buyBackRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.buyBackRepo
}

// DrawRepository returns the draw repository for this unit of work
func (u *unitOfWork) DrawRepository() service.DrawRepository {
	if u.drawRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.drawRepo
}

// PokerHandRepository returns the poker hand repository for this unit of work
func (u *unitOfWork) PokerHandRepository() service.PokerHandRepository {
	if u.pokerHandRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.pokerHandRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
