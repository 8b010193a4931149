package games

import (
	"sort"

	"casino/models"
)

// HandCategory represents the rank category of a five-card poker hand
type HandCategory string

const (
	HandRoyalFlush    HandCategory = "royal_flush"
	HandStraightFlush HandCategory = "straight_flush"
	HandFourOfAKind   HandCategory = "four_of_a_kind"
	HandFullHouse     HandCategory = "full_house"
	HandFlush         HandCategory = "flush"
	HandStraight      HandCategory = "straight"
	HandThreeOfAKind  HandCategory = "three_of_a_kind"
	HandTwoPair       HandCategory = "two_pair"
	HandJacksOrBetter HandCategory = "jacks_or_better"
	HandNothing       HandCategory = "nothing"
)

// Pay table multipliers, strictly descending from royal flush to
// jacks-or-better. Anything below a pair of jacks pays nothing.
var pokerPayTable = map[HandCategory]int64{
	HandRoyalFlush:    250,
	HandStraightFlush: 50,
	HandFourOfAKind:   25,
	HandFullHouse:     9,
	HandFlush:         6,
	HandStraight:      4,
	HandThreeOfAKind:  3,
	HandTwoPair:       2,
	HandJacksOrBetter: 1,
	HandNothing:       0,
}

// CategorizeHand evaluates a five-card hand by standard rules
func CategorizeHand(cards []models.Card) HandCategory {
	if len(cards) != 5 {
		return HandNothing
	}

	ranks := make([]int, 5)
	suits := make(map[string]int)
	counts := make(map[int]int)
	for i, c := range cards {
		ranks[i] = c.Rank
		suits[c.Suit]++
		counts[c.Rank]++
	}
	sort.Ints(ranks)

	flush := len(suits) == 1
	straight, highIsAce := isStraight(ranks)

	switch {
	case flush && straight && highIsAce:
		return HandRoyalFlush
	case flush && straight:
		return HandStraightFlush
	}

	var pairs, trips, quads int
	var pairRanks []int
	for rank, n := range counts {
		switch n {
		case 2:
			pairs++
			pairRanks = append(pairRanks, rank)
		case 3:
			trips++
		case 4:
			quads++
		}
	}

	switch {
	case quads == 1:
		return HandFourOfAKind
	case trips == 1 && pairs == 1:
		return HandFullHouse
	case flush:
		return HandFlush
	case straight:
		return HandStraight
	case trips == 1:
		return HandThreeOfAKind
	case pairs == 2:
		return HandTwoPair
	case pairs == 1 && pairRanks[0] >= 11:
		return HandJacksOrBetter
	}
	return HandNothing
}

// isStraight reports whether sorted ranks form a straight and whether
// the straight is ace-high (the royal shape). The wheel (A-2-3-4-5)
// counts as a straight with the ace playing low.
func isStraight(ranks []int) (straight bool, aceHigh bool) {
	distinct := true
	for i := 1; i < 5; i++ {
		if ranks[i] == ranks[i-1] {
			distinct = false
		}
	}
	if !distinct {
		return false, false
	}
	if ranks[4]-ranks[0] == 4 {
		return true, ranks[4] == 14 && ranks[0] == 10
	}
	// Wheel: 2,3,4,5,A after sorting.
	if ranks[4] == 14 && ranks[0] == 2 && ranks[3] == 5 {
		return true, false
	}
	return false, false
}

// videoPokerEvaluator settles a jacks-or-better draw game. The outcome
// carries the final hand after the optional one-time redraw; payout is
// stake * pay table multiplier.
type videoPokerEvaluator struct{}

func (videoPokerEvaluator) ValidateWager(w *models.Wager, maxBet int64) error {
	return validateStake(w, maxBet)
}

func (videoPokerEvaluator) Evaluate(w *models.Wager, o *models.Outcome) (bool, int64) {
	category := CategorizeHand(o.Cards)
	mult := pokerPayTable[category]
	if mult == 0 {
		return false, 0
	}
	return true, w.Stake * mult
}
