package testutil

import (
	"time"

	"casino/models"

	"github.com/google/uuid"
)

// CreateTestTable creates a house-owned table with default values
func CreateTestTable(gameType models.GameType, location string) *models.Table {
	now := time.Now()
	return &models.Table{
		GameType:  gameType,
		Location:  location,
		MaxBet:    10000,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestOwnedTable creates a player-owned table with the given bankroll
func CreateTestOwnedTable(gameType models.GameType, location string, ownerID, bankroll int64) *models.Table {
	table := CreateTestTable(gameType, location)
	table.OwnerID = &ownerID
	table.Bankroll = bankroll
	return table
}

// CreateTestOffer creates a pending buy-back offer
func CreateTestOffer(tableID, previousOwnerID, newOwnerID int64) *models.BuyBackOffer {
	now := time.Now()
	return &models.BuyBackOffer{
		ID:              uuid.New(),
		TableID:         tableID,
		PreviousOwnerID: previousOwnerID,
		NewOwnerID:      newOwnerID,
		PointsOffered:   1000,
		Status:          models.BuyBackStatusPending,
		CreatedAt:       now,
		ExpiresAt:       now.Add(24 * time.Hour),
	}
}

// CreateTestSettlement creates a paid losing settlement
func CreateTestSettlement(tableID, playerID int64) *models.Settlement {
	return &models.Settlement{
		TableID:  tableID,
		PlayerID: playerID,
		GameType: models.GameTypeDice,
		Stake:    1000,
		Selection: models.Selection{
			Number: 4,
			Sides:  6,
		},
		Outcome:   models.DiceOutcome(2),
		State:     models.SettlementStatePaid,
		CreatedAt: time.Now(),
	}
}
