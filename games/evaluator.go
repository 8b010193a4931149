// Package games implements the per-game outcome evaluation: pure,
// stateless mappings from (wager, drawn outcome) to win/payout using
// each game's fixed pay table. The settlement layer stays game-agnostic
// by resolving an Evaluator through ForGame.
package games

import (
	"fmt"

	"casino/models"
)

// House edge applied to dice and slots payouts, expressed as a
// percentage numerator over 100.
const (
	houseEdgeNumerator   = 95
	houseEdgeDenominator = 100
)

// Evaluator maps a wager and a drawn outcome to a win flag and payout
// for one game type. Implementations are pure and hold no state.
type Evaluator interface {
	// ValidateWager checks the stake and the game-specific selection
	// domain. Returns ErrInvalidWager or ErrInvalidSelection.
	ValidateWager(w *models.Wager, maxBet int64) error

	// Evaluate computes the win flag and gross payout for a validated
	// wager against a drawn outcome.
	Evaluate(w *models.Wager, o *models.Outcome) (win bool, payout int64)
}

var evaluators = map[models.GameType]Evaluator{
	models.GameTypeDice:       diceEvaluator{},
	models.GameTypeRoulette:   rouletteEvaluator{},
	models.GameTypeSlots:      slotsEvaluator{},
	models.GameTypeVideoPoker: videoPokerEvaluator{},
}

// ForGame returns the evaluator for the given game type
func ForGame(gt models.GameType) (Evaluator, error) {
	ev, ok := evaluators[gt]
	if !ok {
		return nil, fmt.Errorf("no evaluator for game type %q", gt)
	}
	return ev, nil
}

// validateStake enforces the stake bounds shared by every game
func validateStake(w *models.Wager, maxBet int64) error {
	if w.Stake <= 0 {
		return fmt.Errorf("%w: stake must be positive", models.ErrInvalidWager)
	}
	if w.Stake > maxBet {
		return fmt.Errorf("%w: stake %d exceeds table max bet %d", models.ErrInvalidWager, w.Stake, maxBet)
	}
	return nil
}
