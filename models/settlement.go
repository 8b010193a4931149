package models

import "time"

// SettlementState is the terminal state of one settlement request
type SettlementState string

const (
	// SettlementStatePaid: the payout (possibly zero, for a losing
	// wager) was fully covered by the table.
	SettlementStatePaid SettlementState = "paid"

	// SettlementStateTransferred: the payout exceeded the bankroll and
	// table ownership moved to the winner.
	SettlementStateTransferred SettlementState = "transferred"

	// SettlementStateRejected: the wager never reached evaluation.
	SettlementStateRejected SettlementState = "rejected"
)

// Settlement records the resolution of one wager against one outcome.
// Created once, never mutated, persisted for history and audit in every
// terminal state including rejection.
type Settlement struct {
	ID        int64           `db:"id"`
	TableID   int64           `db:"table_id"`
	PlayerID  int64           `db:"player_id"`
	GameType  GameType        `db:"game_type"`
	Stake     int64           `db:"stake"`
	Selection Selection       `db:"selection"`
	Outcome   *Outcome        `db:"outcome"`
	State     SettlementState `db:"state"`
	Win       bool            `db:"win"`

	// Payout is the amount the outcome entitled the winner to.
	Payout int64 `db:"payout"`

	// Shortfall is the portion of the payout the bankroll could not
	// cover; zero unless State is transferred.
	Shortfall int64 `db:"shortfall"`

	// Paid is the amount actually credited to the winner
	// (Payout - Shortfall).
	Paid int64 `db:"paid"`

	// RejectReason is set only when State is rejected.
	RejectReason string `db:"reject_reason"`

	// Metadata carries auxiliary flags, e.g. that a second shortfall
	// was recorded while a buy-back offer was already pending.
	Metadata map[string]any `db:"metadata"`

	CreatedAt time.Time `db:"created_at"`
}
