package games

import (
	"testing"

	"casino/models"

	"github.com/stretchr/testify/assert"
)

func TestSlotsEvaluate(t *testing.T) {
	ev, _ := ForGame(models.GameTypeSlots)
	wager := &models.Wager{PlayerID: 1, Stake: 1000}

	tests := []struct {
		name       string
		reels      []string
		wantWin    bool
		wantPayout int64
	}{
		{"triple seven", []string{"seven", "seven", "seven"}, true, 1000 * 50 * 95 / 100},
		{"triple cherry", []string{"cherry", "cherry", "cherry"}, true, 1000 * 5 * 95 / 100},
		{"two of a kind", []string{"bar", "bar", "bell"}, false, 0},
		{"all different", []string{"cherry", "lemon", "seven"}, false, 0},
		{"unknown symbol", []string{"joker", "joker", "joker"}, false, 0},
		{"short spin", []string{"seven", "seven"}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win, payout := ev.Evaluate(wager, models.SlotsOutcome(tt.reels))
			assert.Equal(t, tt.wantWin, win)
			assert.Equal(t, tt.wantPayout, payout)
		})
	}
}

func TestSlotsValidateWager(t *testing.T) {
	ev, _ := ForGame(models.GameTypeSlots)

	assert.NoError(t, ev.ValidateWager(&models.Wager{Stake: 100}, 1000))
	assert.ErrorIs(t, ev.ValidateWager(&models.Wager{Stake: 0}, 1000), models.ErrInvalidWager)
	assert.ErrorIs(t, ev.ValidateWager(&models.Wager{Stake: 1001}, 1000), models.ErrInvalidWager)
}

func TestSlotSymbols(t *testing.T) {
	symbols := SlotSymbols()
	assert.Equal(t, []string{"bar", "bell", "cherry", "lemon", "orange", "seven"}, symbols)
}
