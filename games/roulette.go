package games

import (
	"fmt"

	"casino/models"
)

// Pockets on the single-zero European wheel
const WheelPockets = 37

// redPockets is the fixed red-number set of the European layout
var redPockets = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// Payout multipliers by bet kind. The multiplier is applied to the
// stake and includes the returned stake.
var rouletteMultipliers = map[models.RouletteBet]int64{
	models.RouletteBetStraight: 36,
	models.RouletteBetDozen:    3,
	models.RouletteBetColumn:   3,
	models.RouletteBetRed:      2,
	models.RouletteBetBlack:    2,
	models.RouletteBetOdd:      2,
	models.RouletteBetEven:     2,
	models.RouletteBetLow:      2,
	models.RouletteBetHigh:     2,
}

// rouletteEvaluator settles bets on a European single-zero wheel.
// Zero wins only straight-up bets on zero.
type rouletteEvaluator struct{}

func (rouletteEvaluator) ValidateWager(w *models.Wager, maxBet int64) error {
	if err := validateStake(w, maxBet); err != nil {
		return err
	}
	switch w.Selection.Bet {
	case models.RouletteBetStraight:
		if w.Selection.Number < 0 || w.Selection.Number >= WheelPockets {
			return fmt.Errorf("%w: pocket %d outside 0-36", models.ErrInvalidSelection, w.Selection.Number)
		}
	case models.RouletteBetDozen, models.RouletteBetColumn:
		if w.Selection.Number < 1 || w.Selection.Number > 3 {
			return fmt.Errorf("%w: %s index %d outside 1-3", models.ErrInvalidSelection, w.Selection.Bet, w.Selection.Number)
		}
	case models.RouletteBetRed, models.RouletteBetBlack,
		models.RouletteBetOdd, models.RouletteBetEven,
		models.RouletteBetLow, models.RouletteBetHigh:
		// No value component.
	default:
		return fmt.Errorf("%w: unknown roulette bet %q", models.ErrInvalidSelection, w.Selection.Bet)
	}
	return nil
}

func (rouletteEvaluator) Evaluate(w *models.Wager, o *models.Outcome) (bool, int64) {
	if o.Pocket == nil {
		return false, 0
	}
	pocket := *o.Pocket
	if !pocketWins(w.Selection, pocket) {
		return false, 0
	}
	return true, w.Stake * rouletteMultipliers[w.Selection.Bet]
}

func pocketWins(sel models.Selection, pocket int) bool {
	if sel.Bet == models.RouletteBetStraight {
		return pocket == sel.Number
	}
	// Zero wins only straight-up bets.
	if pocket == 0 {
		return false
	}
	switch sel.Bet {
	case models.RouletteBetRed:
		return redPockets[pocket]
	case models.RouletteBetBlack:
		return !redPockets[pocket]
	case models.RouletteBetOdd:
		return pocket%2 == 1
	case models.RouletteBetEven:
		return pocket%2 == 0
	case models.RouletteBetLow:
		return pocket <= 18
	case models.RouletteBetHigh:
		return pocket >= 19
	case models.RouletteBetDozen:
		return (pocket-1)/12+1 == sel.Number
	case models.RouletteBetColumn:
		return (pocket-1)%3+1 == sel.Number
	}
	return false
}
