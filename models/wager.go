package models

// RouletteBet identifies a roulette bet kind
type RouletteBet string

const (
	RouletteBetStraight RouletteBet = "straight"
	RouletteBetRed      RouletteBet = "red"
	RouletteBetBlack    RouletteBet = "black"
	RouletteBetOdd      RouletteBet = "odd"
	RouletteBetEven     RouletteBet = "even"
	RouletteBetLow      RouletteBet = "low"  // 1-18
	RouletteBetHigh     RouletteBet = "high" // 19-36
	RouletteBetDozen    RouletteBet = "dozen"
	RouletteBetColumn   RouletteBet = "column"
)

// Selection carries the game-specific part of a wager. Which fields are
// meaningful depends on the table's game type: dice uses Sides and
// Number, roulette uses Bet and Number, slots and video poker take no
// selection at wager time.
type Selection struct {
	// Number is the dice target, the roulette straight pocket, or the
	// 1-based dozen/column index.
	Number int `json:"number,omitempty"`

	// Sides is the die size chosen by the bettor (dice only).
	Sides int `json:"sides,omitempty"`

	// Bet is the roulette bet kind (roulette only).
	Bet RouletteBet `json:"bet,omitempty"`
}

// Wager is one stake submitted against a table. It is consumed by
// exactly one settlement; once submitted the settlement is finalized
// unconditionally, there is no cancellation path.
type Wager struct {
	PlayerID  int64     `json:"player_id"`
	Stake     int64     `json:"stake"`
	Selection Selection `json:"selection"`
}
