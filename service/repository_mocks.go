package service

import (
	"context"
	"time"

	"casino/events"
	"casino/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTableRepository is a mock implementation of TableRepository
type MockTableRepository struct {
	mock.Mock
}

func (m *MockTableRepository) Create(ctx context.Context, table *models.Table) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *MockTableRepository) GetByID(ctx context.Context, id int64) (*models.Table, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Table), args.Error(1)
}

func (m *MockTableRepository) GetByGameLocation(ctx context.Context, gameType models.GameType, location string) (*models.Table, error) {
	args := m.Called(ctx, gameType, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Table), args.Error(1)
}

func (m *MockTableRepository) GetForUpdate(ctx context.Context, id int64) (*models.Table, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Table), args.Error(1)
}

func (m *MockTableRepository) Update(ctx context.Context, table *models.Table) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *MockTableRepository) GetByOwner(ctx context.Context, ownerID int64) ([]*models.Table, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Table), args.Error(1)
}

func (m *MockTableRepository) GetDueSlotsDraws(ctx context.Context, now time.Time) ([]int64, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockSettlementRepository is a mock implementation of SettlementRepository
type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) Create(ctx context.Context, settlement *models.Settlement) error {
	args := m.Called(ctx, settlement)
	return args.Error(0)
}

func (m *MockSettlementRepository) GetByTable(ctx context.Context, tableID int64, limit int) ([]*models.Settlement, error) {
	args := m.Called(ctx, tableID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) GetByPlayer(ctx context.Context, playerID int64, limit int) ([]*models.Settlement, error) {
	args := m.Called(ctx, playerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Settlement), args.Error(1)
}

// MockBuyBackRepository is a mock implementation of BuyBackRepository
type MockBuyBackRepository struct {
	mock.Mock
}

func (m *MockBuyBackRepository) Create(ctx context.Context, offer *models.BuyBackOffer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *MockBuyBackRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BuyBackOffer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BuyBackOffer), args.Error(1)
}

func (m *MockBuyBackRepository) GetPendingByTable(ctx context.Context, tableID int64) (*models.BuyBackOffer, error) {
	args := m.Called(ctx, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BuyBackOffer), args.Error(1)
}

func (m *MockBuyBackRepository) Update(ctx context.Context, offer *models.BuyBackOffer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *MockBuyBackRepository) GetExpiredPending(ctx context.Context, now time.Time) ([]*models.BuyBackOffer, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BuyBackOffer), args.Error(1)
}

// MockDrawRepository is a mock implementation of DrawRepository
type MockDrawRepository struct {
	mock.Mock
}

func (m *MockDrawRepository) Enter(ctx context.Context, entry *models.DrawEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockDrawRepository) GetEntries(ctx context.Context, tableID int64) ([]*models.DrawEntry, error) {
	args := m.Called(ctx, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DrawEntry), args.Error(1)
}

func (m *MockDrawRepository) ClearEntries(ctx context.Context, tableID int64) error {
	args := m.Called(ctx, tableID)
	return args.Error(0)
}

func (m *MockDrawRepository) GetCooldown(ctx context.Context, tableID, playerID int64) (*models.DrawCooldown, error) {
	args := m.Called(ctx, tableID, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DrawCooldown), args.Error(1)
}

func (m *MockDrawRepository) SetCooldown(ctx context.Context, cooldown *models.DrawCooldown) error {
	args := m.Called(ctx, cooldown)
	return args.Error(0)
}

// MockPokerHandRepository is a mock implementation of PokerHandRepository
type MockPokerHandRepository struct {
	mock.Mock
}

func (m *MockPokerHandRepository) Create(ctx context.Context, hand *models.PokerHand) error {
	args := m.Called(ctx, hand)
	return args.Error(0)
}

func (m *MockPokerHandRepository) GetByID(ctx context.Context, id int64) (*models.PokerHand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PokerHand), args.Error(1)
}

func (m *MockPokerHandRepository) MarkSettled(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLedgerService is a mock implementation of LedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Debit(ctx context.Context, playerID, amount int64, txID uuid.UUID) error {
	args := m.Called(ctx, playerID, amount, txID)
	return args.Error(0)
}

func (m *MockLedgerService) Credit(ctx context.Context, playerID, amount int64, txID uuid.UUID) error {
	args := m.Called(ctx, playerID, amount, txID)
	return args.Error(0)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository
// accessors return the instances wired via SetRepositories rather than
// recorded expectations, so tests configure them directly.
type MockUnitOfWork struct {
	mock.Mock
	tables      TableRepository
	settlements SettlementRepository
	buyBacks    BuyBackRepository
	draws       DrawRepository
	pokerHands  PokerHandRepository
	eventBus    EventPublisher
}

// SetRepositories wires the repository mocks this unit of work exposes
func (m *MockUnitOfWork) SetRepositories(tables TableRepository, settlements SettlementRepository, buyBacks BuyBackRepository, draws DrawRepository, pokerHands PokerHandRepository) {
	m.tables = tables
	m.settlements = settlements
	m.buyBacks = buyBacks
	m.draws = draws
	m.pokerHands = pokerHands
	m.eventBus = &CapturingEventBus{}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) TableRepository() TableRepository {
	return m.tables
}

func (m *MockUnitOfWork) SettlementRepository() SettlementRepository {
	return m.settlements
}

func (m *MockUnitOfWork) BuyBackRepository() BuyBackRepository {
	return m.buyBacks
}

func (m *MockUnitOfWork) DrawRepository() DrawRepository {
	return m.draws
}

func (m *MockUnitOfWork) PokerHandRepository() PokerHandRepository {
	return m.pokerHands
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// Events returns the events published through this unit of work
func (m *MockUnitOfWork) Events() []events.Event {
	return m.eventBus.(*CapturingEventBus).Events
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// CapturingEventBus records published events for assertions
type CapturingEventBus struct {
	Events []events.Event
}

func (b *CapturingEventBus) Publish(event events.Event) {
	b.Events = append(b.Events, event)
}
