package repository

import (
	"context"
	"testing"

	"casino/models"
	"casino/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlementRepository_CreateAndHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	testDB := testutil.SetupTestDatabase(t)
	tableRepo := NewTableRepository(testDB.DB)
	repo := NewSettlementRepository(testDB.DB)

	table := testutil.CreateTestOwnedTable(models.GameTypeDice, "downtown", 7, 5000)
	require.NoError(t, tableRepo.Create(ctx, table))

	for i := 0; i < 3; i++ {
		s := testutil.CreateTestSettlement(table.ID, int64(100+i))
		require.NoError(t, repo.Create(ctx, s))
		assert.NotZero(t, s.ID)
	}

	transferred := testutil.CreateTestSettlement(table.ID, 200)
	transferred.State = models.SettlementStateTransferred
	transferred.Win = true
	transferred.Payout = 95_000_000
	transferred.Paid = 900_000
	transferred.Shortfall = 94_100_000
	transferred.Metadata = map[string]any{"buyback_suppressed": true}
	require.NoError(t, repo.Create(ctx, transferred))

	history, err := repo.GetByTable(ctx, table.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 4)

	// Most recent first; jsonb round-trips intact.
	newest := history[0]
	assert.Equal(t, models.SettlementStateTransferred, newest.State)
	assert.Equal(t, int64(94_100_000), newest.Shortfall)
	assert.Equal(t, 4, newest.Selection.Number)
	require.NotNil(t, newest.Outcome)
	assert.Equal(t, true, newest.Metadata["buyback_suppressed"])

	bounded, err := repo.GetByTable(ctx, table.ID, 2)
	require.NoError(t, err)
	assert.Len(t, bounded, 2)

	byPlayer, err := repo.GetByPlayer(ctx, 200, 10)
	require.NoError(t, err)
	assert.Len(t, byPlayer, 1)
}
