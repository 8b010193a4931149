package repository

import (
	"context"
	"testing"
	"time"

	"casino/models"
	"casino/repository/testutil"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRepository_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewTableRepository(testDB.DB)

	table := testutil.CreateTestTable(models.GameTypeDice, "downtown")
	require.NoError(t, repo.Create(ctx, table))
	assert.NotZero(t, table.ID)
	assert.Equal(t, int64(1), table.Version)

	got, err := repo.GetByID(ctx, table.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.GameTypeDice, got.GameType)
	assert.Equal(t, "downtown", got.Location)
	assert.Nil(t, got.OwnerID)

	byLoc, err := repo.GetByGameLocation(ctx, models.GameTypeDice, "downtown")
	require.NoError(t, err)
	require.NotNil(t, byLoc)
	assert.Equal(t, table.ID, byLoc.ID)

	missing, err := repo.GetByID(ctx, 99999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTableRepository_UniqueGameLocation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewTableRepository(testDB.DB)

	require.NoError(t, repo.Create(ctx, testutil.CreateTestTable(models.GameTypeRoulette, "harbor")))
	assert.Error(t, repo.Create(ctx, testutil.CreateTestTable(models.GameTypeRoulette, "harbor")))

	// Same location, different game is fine.
	assert.NoError(t, repo.Create(ctx, testutil.CreateTestTable(models.GameTypeSlots, "harbor")))
}

func TestTableRepository_VersionConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewTableRepository(testDB.DB)

	table := testutil.CreateTestOwnedTable(models.GameTypeDice, "downtown", 7, 5000)
	require.NoError(t, repo.Create(ctx, table))

	// Two readers load the same version.
	first, err := repo.GetByID(ctx, table.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, table.ID)
	require.NoError(t, err)

	first.Bankroll = 4000
	require.NoError(t, repo.Update(ctx, first))

	second.Bankroll = 3000
	err = repo.Update(ctx, second)
	assert.ErrorIs(t, err, models.ErrConcurrentModification)

	// The first writer's state won.
	got, err := repo.GetByID(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), got.Bankroll)
}

func TestTableRepository_GetForUpdate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewTableRepository(testDB.DB)

	table := testutil.CreateTestOwnedTable(models.GameTypeDice, "downtown", 7, 5000)
	require.NoError(t, repo.Create(ctx, table))

	err := testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
		txRepo := newTableRepositoryWithTx(tx)
		locked, err := txRepo.GetForUpdate(ctx, table.ID)
		if err != nil {
			return err
		}
		locked.Bankroll = 2500
		return txRepo.Update(ctx, locked)
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), got.Bankroll)
	assert.Equal(t, int64(2), got.Version)
}

func TestTableRepository_UpdateMissing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewTableRepository(testDB.DB)

	ghost := testutil.CreateTestTable(models.GameTypeDice, "nowhere")
	ghost.ID = 424242
	ghost.Version = 1
	assert.ErrorIs(t, repo.Update(ctx, ghost), models.ErrTableNotFound)
}

func TestTableRepository_GetDueSlotsDraws(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewTableRepository(testDB.DB)

	now := time.Now().UTC()

	due := testutil.CreateTestOwnedTable(models.GameTypeSlots, "downtown", 7, 5000)
	past := now.Add(-time.Hour)
	due.OwnershipExpiry = &past
	require.NoError(t, repo.Create(ctx, due))

	notYet := testutil.CreateTestOwnedTable(models.GameTypeSlots, "harbor", 8, 5000)
	future := now.Add(time.Hour)
	notYet.OwnershipExpiry = &future
	require.NoError(t, repo.Create(ctx, notYet))

	unowned := testutil.CreateTestTable(models.GameTypeSlots, "uptown")
	require.NoError(t, repo.Create(ctx, unowned))

	ids, err := repo.GetDueSlotsDraws(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{due.ID}, ids)
}
