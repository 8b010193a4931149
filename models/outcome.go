package models

// Outcome is the externally-drawn result a wager is settled against.
// It is immutable once produced; only the field matching the table's
// game type is meaningful. Pocket and Number are pointers because zero
// is a valid roulette pocket and never a valid "unset" marker.
type Outcome struct {
	// Number is the rolled die face (dice).
	Number *int `json:"number,omitempty"`

	// Pocket is the wheel pocket 0-36 (roulette).
	Pocket *int `json:"pocket,omitempty"`

	// Reels are the three drawn reel symbols (slots).
	Reels []string `json:"reels,omitempty"`

	// Cards is the final five-card hand after any redraw (video poker).
	Cards []Card `json:"cards,omitempty"`
}

// DiceOutcome builds an outcome for a dice roll
func DiceOutcome(number int) *Outcome {
	return &Outcome{Number: &number}
}

// RouletteOutcome builds an outcome for a wheel spin
func RouletteOutcome(pocket int) *Outcome {
	return &Outcome{Pocket: &pocket}
}

// SlotsOutcome builds an outcome for a reel spin
func SlotsOutcome(reels []string) *Outcome {
	return &Outcome{Reels: reels}
}

// PokerOutcome builds an outcome for a final poker hand
func PokerOutcome(cards []Card) *Outcome {
	return &Outcome{Cards: cards}
}
