package games

import (
	"fmt"

	"casino/models"
)

// Die size bounds a bettor may choose from
const (
	DiceMinSides = 2
	DiceMaxSides = 100
)

// diceEvaluator settles a single-number bet on an n-sided die. The
// bettor picks the die size and a target face; a hit pays
// stake * sides less the house edge.
type diceEvaluator struct{}

func (diceEvaluator) ValidateWager(w *models.Wager, maxBet int64) error {
	if err := validateStake(w, maxBet); err != nil {
		return err
	}
	sides := w.Selection.Sides
	if sides < DiceMinSides || sides > DiceMaxSides {
		return fmt.Errorf("%w: sides must be between %d and %d", models.ErrInvalidSelection, DiceMinSides, DiceMaxSides)
	}
	if w.Selection.Number < 1 || w.Selection.Number > sides {
		return fmt.Errorf("%w: number %d outside 1-%d", models.ErrInvalidSelection, w.Selection.Number, sides)
	}
	return nil
}

func (diceEvaluator) Evaluate(w *models.Wager, o *models.Outcome) (bool, int64) {
	if o.Number == nil || *o.Number != w.Selection.Number {
		return false, 0
	}
	payout := w.Stake * int64(w.Selection.Sides) * houseEdgeNumerator / houseEdgeDenominator
	return true, payout
}
