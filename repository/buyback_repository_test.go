package repository

import (
	"context"
	"testing"
	"time"

	"casino/models"
	"casino/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTableForOffers(t *testing.T, testDB *testutil.TestDatabase) *models.Table {
	t.Helper()
	tableRepo := NewTableRepository(testDB.DB)
	table := testutil.CreateTestOwnedTable(models.GameTypeDice, "downtown", 77, 0)
	require.NoError(t, tableRepo.Create(context.Background(), table))
	return table
}

func TestBuyBackRepository_SinglePendingPerTable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewBuyBackRepository(testDB.DB)

	table := createTableForOffers(t, testDB)

	first := testutil.CreateTestOffer(table.ID, 10, 77)
	require.NoError(t, repo.Create(ctx, first))

	// The partial unique index rejects a second pending offer.
	second := testutil.CreateTestOffer(table.ID, 11, 77)
	assert.Error(t, repo.Create(ctx, second))

	// Resolving the first makes room for a new one.
	now := time.Now()
	first.Status = models.BuyBackStatusRejected
	first.ResolvedAt = &now
	require.NoError(t, repo.Update(ctx, first))
	assert.NoError(t, repo.Create(ctx, testutil.CreateTestOffer(table.ID, 11, 77)))
}

func TestBuyBackRepository_ResolveAtMostOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewBuyBackRepository(testDB.DB)

	table := createTableForOffers(t, testDB)
	offer := testutil.CreateTestOffer(table.ID, 10, 77)
	require.NoError(t, repo.Create(ctx, offer))

	now := time.Now()
	offer.Status = models.BuyBackStatusAccepted
	offer.ResolvedAt = &now
	require.NoError(t, repo.Update(ctx, offer))

	// A second resolution attempt loses the status predicate.
	offer.Status = models.BuyBackStatusRejected
	assert.ErrorIs(t, repo.Update(ctx, offer), models.ErrOfferAlreadyResolved)

	got, err := repo.GetByID(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BuyBackStatusAccepted, got.Status)
}

func TestBuyBackRepository_GetPendingAndExpired(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewBuyBackRepository(testDB.DB)

	table := createTableForOffers(t, testDB)

	none, err := repo.GetPendingByTable(ctx, table.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	offer := testutil.CreateTestOffer(table.ID, 10, 77)
	offer.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, repo.Create(ctx, offer))

	pending, err := repo.GetPendingByTable(ctx, table.ID)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, offer.ID, pending.ID)

	expired, err := repo.GetExpiredPending(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, offer.ID, expired[0].ID)
}
