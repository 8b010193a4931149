package games

import (
	"testing"

	"casino/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diceWager(stake int64, number, sides int) *models.Wager {
	return &models.Wager{
		PlayerID: 1,
		Stake:    stake,
		Selection: models.Selection{
			Number: number,
			Sides:  sides,
		},
	}
}

func TestDiceEvaluate_Win(t *testing.T) {
	ev, err := ForGame(models.GameTypeDice)
	require.NoError(t, err)

	win, payout := ev.Evaluate(diceWager(1000, 4, 6), models.DiceOutcome(4))
	assert.True(t, win)
	assert.Equal(t, int64(1000*6*95/100), payout)
}

func TestDiceEvaluate_Loss(t *testing.T) {
	ev, _ := ForGame(models.GameTypeDice)

	win, payout := ev.Evaluate(diceWager(1000, 4, 6), models.DiceOutcome(5))
	assert.False(t, win)
	assert.Equal(t, int64(0), payout)
}

func TestDiceEvaluate_HundredSidedPayout(t *testing.T) {
	ev, _ := ForGame(models.GameTypeDice)

	// 1,000,000 on a d100: gross 100,000,000, less 5% edge.
	win, payout := ev.Evaluate(diceWager(1_000_000, 42, 100), models.DiceOutcome(42))
	assert.True(t, win)
	assert.Equal(t, int64(95_000_000), payout)
}

func TestDiceValidateWager(t *testing.T) {
	ev, _ := ForGame(models.GameTypeDice)

	tests := []struct {
		name    string
		wager   *models.Wager
		maxBet  int64
		wantErr error
	}{
		{"valid", diceWager(100, 3, 6), 1000, nil},
		{"zero stake", diceWager(0, 3, 6), 1000, models.ErrInvalidWager},
		{"negative stake", diceWager(-5, 3, 6), 1000, models.ErrInvalidWager},
		{"over max bet", diceWager(2000, 3, 6), 1000, models.ErrInvalidWager},
		{"one-sided die", diceWager(100, 1, 1), 1000, models.ErrInvalidSelection},
		{"oversized die", diceWager(100, 3, 101), 1000, models.ErrInvalidSelection},
		{"number above sides", diceWager(100, 7, 6), 1000, models.ErrInvalidSelection},
		{"number below one", diceWager(100, 0, 6), 1000, models.ErrInvalidSelection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ev.ValidateWager(tt.wager, tt.maxBet)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
