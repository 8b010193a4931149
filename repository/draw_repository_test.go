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

func TestDrawRepository_EnterIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	testDB := testutil.SetupTestDatabase(t)
	tableRepo := NewTableRepository(testDB.DB)
	repo := NewDrawRepository(testDB.DB)

	table := testutil.CreateTestOwnedTable(models.GameTypeSlots, "harbor", 7, 5000)
	require.NoError(t, tableRepo.Create(ctx, table))

	require.NoError(t, repo.Enter(ctx, &models.DrawEntry{TableID: table.ID, PlayerID: 20}))
	require.NoError(t, repo.Enter(ctx, &models.DrawEntry{TableID: table.ID, PlayerID: 20}))
	require.NoError(t, repo.Enter(ctx, &models.DrawEntry{TableID: table.ID, PlayerID: 21}))

	entries, err := repo.GetEntries(ctx, table.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(20), entries[0].PlayerID)
	assert.Equal(t, int64(21), entries[1].PlayerID)

	require.NoError(t, repo.ClearEntries(ctx, table.ID))
	entries, err = repo.GetEntries(ctx, table.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDrawRepository_CooldownUpsert(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	testDB := testutil.SetupTestDatabase(t)
	tableRepo := NewTableRepository(testDB.DB)
	repo := NewDrawRepository(testDB.DB)

	table := testutil.CreateTestOwnedTable(models.GameTypeSlots, "harbor", 7, 5000)
	require.NoError(t, tableRepo.Create(ctx, table))

	none, err := repo.GetCooldown(ctx, table.ID, 20)
	require.NoError(t, err)
	assert.Nil(t, none)

	until := time.Now().Add(time.Hour).UTC()
	require.NoError(t, repo.SetCooldown(ctx, &models.DrawCooldown{TableID: table.ID, PlayerID: 20, Until: until}))

	got, err := repo.GetCooldown(ctx, table.ID, 20)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.WithinDuration(t, until, got.Until, time.Second)

	// Re-setting extends the existing row instead of failing.
	later := until.Add(time.Hour)
	require.NoError(t, repo.SetCooldown(ctx, &models.DrawCooldown{TableID: table.ID, PlayerID: 20, Until: later}))

	got, err = repo.GetCooldown(ctx, table.ID, 20)
	require.NoError(t, err)
	assert.WithinDuration(t, later, got.Until, time.Second)
}
