package service

import (
	"context"
	"testing"
	"time"

	"casino/config"
	"casino/models"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type drawFixture struct {
	uow      *MockUnitOfWork
	factory  *MockUnitOfWorkFactory
	tables   *MockTableRepository
	buyBacks *MockBuyBackRepository
	draws    *MockDrawRepository
	source   *fakeOutcomeSource
	clock    *quartz.Mock
	service  DrawService
}

func newDrawFixture(t *testing.T) *drawFixture {
	f := &drawFixture{
		uow:      new(MockUnitOfWork),
		factory:  new(MockUnitOfWorkFactory),
		tables:   new(MockTableRepository),
		buyBacks: new(MockBuyBackRepository),
		draws:    new(MockDrawRepository),
		source:   &fakeOutcomeSource{},
		clock:    quartz.NewMock(t),
	}
	f.uow.SetRepositories(f.tables, new(MockSettlementRepository), f.buyBacks, f.draws, new(MockPokerHandRepository))
	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("Commit").Return(nil).Maybe()
	f.uow.On("Rollback").Return(nil).Maybe()
	f.service = NewDrawService(f.factory, f.source, NewTableLocks(), f.clock)
	return f
}

func slotsTable(f *drawFixture, ownerID int64, expiresIn time.Duration) *models.Table {
	owner := ownerID
	expiry := f.clock.Now().Add(expiresIn)
	return &models.Table{
		ID:              1,
		GameType:        models.GameTypeSlots,
		Location:        "harbor",
		OwnerID:         &owner,
		Bankroll:        5000,
		OwnershipExpiry: &expiry,
	}
}

func TestEnterDraw(t *testing.T) {
	ctx := context.Background()
	f := newDrawFixture(t)

	table := slotsTable(f, 7, time.Hour)

	f.tables.On("GetForUpdate", ctx, int64(1)).Return(table, nil)
	f.draws.On("GetCooldown", ctx, int64(1), int64(20)).Return(nil, nil)
	f.draws.On("Enter", ctx, mock.MatchedBy(func(e *models.DrawEntry) bool {
		return e.TableID == 1 && e.PlayerID == 20
	})).Return(nil)

	require.NoError(t, f.service.EnterDraw(ctx, 1, 20))
	f.draws.AssertExpectations(t)
}

func TestEnterDraw_OwnerCannotEnter(t *testing.T) {
	ctx := context.Background()
	f := newDrawFixture(t)

	table := slotsTable(f, 7, time.Hour)
	f.tables.On("GetForUpdate", ctx, int64(1)).Return(table, nil)

	err := f.service.EnterDraw(ctx, 1, 7)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestEnterDraw_CooldownActive(t *testing.T) {
	ctx := context.Background()
	f := newDrawFixture(t)

	table := slotsTable(f, 7, time.Hour)
	cooldown := &models.DrawCooldown{TableID: 1, PlayerID: 20, Until: f.clock.Now().Add(time.Hour)}

	f.tables.On("GetForUpdate", ctx, int64(1)).Return(table, nil)
	f.draws.On("GetCooldown", ctx, int64(1), int64(20)).Return(cooldown, nil)

	err := f.service.EnterDraw(ctx, 1, 20)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	f.draws.AssertNotCalled(t, "Enter", mock.Anything, mock.Anything)
}

func TestEnterDraw_NonSlotsTable(t *testing.T) {
	ctx := context.Background()
	f := newDrawFixture(t)

	owner := int64(7)
	table := &models.Table{ID: 1, GameType: models.GameTypeDice, OwnerID: &owner}
	f.tables.On("GetForUpdate", ctx, int64(1)).Return(table, nil)

	err := f.service.EnterDraw(ctx, 1, 20)
	assert.ErrorIs(t, err, models.ErrInvalidWager)
}

func TestRunDueDraws_PicksOneEntrantAndClears(t *testing.T) {
	ctx := context.Background()
	f := newDrawFixture(t)
	cfg := config.Get()

	table := slotsTable(f, 7, -time.Minute)
	entries := []*models.DrawEntry{
		{TableID: 1, PlayerID: 20},
		{TableID: 1, PlayerID: 21},
		{TableID: 1, PlayerID: 22},
	}
	f.source.entrant = 2

	f.tables.On("GetDueSlotsDraws", ctx, f.clock.Now()).Return([]int64{1}, nil)
	f.tables.On("GetForUpdate", ctx, int64(1)).Return(table, nil)
	f.draws.On("GetEntries", ctx, int64(1)).Return(entries, nil)
	f.draws.On("ClearEntries", ctx, int64(1)).Return(nil)
	f.tables.On("Update", ctx, table).Return(nil)

	executed, err := f.service.RunDueDraws(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, executed)

	assert.Equal(t, int64(22), *table.OwnerID)
	assert.Equal(t, cfg.DefaultBankroll, table.Bankroll)
	assert.Equal(t, int64(0), table.Profit)
	require.NotNil(t, table.OwnershipExpiry)
	assert.Equal(t, f.clock.Now().Add(cfg.SlotsTenure), *table.OwnershipExpiry)

	f.draws.AssertExpectations(t)
}

func TestRunDueDraws_NoEntrantsRevertsToHouse(t *testing.T) {
	ctx := context.Background()
	f := newDrawFixture(t)

	table := slotsTable(f, 7, -time.Minute)

	f.tables.On("GetDueSlotsDraws", ctx, f.clock.Now()).Return([]int64{1}, nil)
	f.tables.On("GetForUpdate", ctx, int64(1)).Return(table, nil)
	f.draws.On("GetEntries", ctx, int64(1)).Return([]*models.DrawEntry{}, nil)
	f.draws.On("ClearEntries", ctx, int64(1)).Return(nil)
	f.tables.On("Update", ctx, table).Return(nil)

	executed, err := f.service.RunDueDraws(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, executed)

	assert.Nil(t, table.OwnerID)
	assert.Equal(t, int64(0), table.Bankroll)
	assert.Nil(t, table.OwnershipExpiry)
}

func TestRunDueDraws_SkipsAlreadyDrawn(t *testing.T) {
	ctx := context.Background()
	f := newDrawFixture(t)

	// The scan said the draw was due, but a settlement ran it first.
	table := slotsTable(f, 7, time.Hour)

	f.tables.On("GetDueSlotsDraws", ctx, f.clock.Now()).Return([]int64{1}, nil)
	f.tables.On("GetForUpdate", ctx, int64(1)).Return(table, nil)

	executed, err := f.service.RunDueDraws(ctx)
	require.NoError(t, err)

	// A skipped table is not counted as work done.
	assert.Equal(t, 0, executed)
	f.draws.AssertNotCalled(t, "GetEntries", mock.Anything, mock.Anything)
}

func TestEnterDraw_UnclaimedTable(t *testing.T) {
	ctx := context.Background()
	f := newDrawFixture(t)

	table := &models.Table{ID: 1, GameType: models.GameTypeSlots, Location: "harbor"}
	f.tables.On("GetForUpdate", ctx, int64(1)).Return(table, nil)

	// An unclaimed table has no tenure to expire, so an entry could
	// never be drawn; claiming is the only way in.
	err := f.service.EnterDraw(ctx, 1, 20)
	assert.ErrorIs(t, err, models.ErrInvalidWager)
	f.draws.AssertNotCalled(t, "Enter", mock.Anything, mock.Anything)
}
