package games

import (
	"sort"

	"casino/models"
)

// Reel symbols and their payout multipliers. A spin wins only when all
// three independently-drawn reels show the same symbol.
var slotSymbols = map[string]int64{
	"cherry": 5,
	"lemon":  8,
	"orange": 10,
	"bell":   15,
	"bar":    25,
	"seven":  50,
}

// SlotSymbols returns the symbol names in sorted order
func SlotSymbols() []string {
	names := make([]string, 0, len(slotSymbols))
	for name := range slotSymbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// slotsEvaluator settles a three-reel spin. There is no selection;
// a triple match pays stake * symbol multiplier less the house edge.
type slotsEvaluator struct{}

func (slotsEvaluator) ValidateWager(w *models.Wager, maxBet int64) error {
	return validateStake(w, maxBet)
}

func (slotsEvaluator) Evaluate(w *models.Wager, o *models.Outcome) (bool, int64) {
	if len(o.Reels) != 3 {
		return false, 0
	}
	if o.Reels[0] != o.Reels[1] || o.Reels[1] != o.Reels[2] {
		return false, 0
	}
	mult, ok := slotSymbols[o.Reels[0]]
	if !ok {
		return false, 0
	}
	payout := w.Stake * mult * houseEdgeNumerator / houseEdgeDenominator
	return true, payout
}
