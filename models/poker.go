package models

import "time"

// PokerHandState represents the lifecycle of a video poker deal
type PokerHandState string

const (
	PokerHandStateDealt   PokerHandState = "dealt"
	PokerHandStateSettled PokerHandState = "settled"
)

// PokerHand is a pending video poker deal awaiting the player's draw
// decision. The stake is collected at deal time; the settlement is
// created when the player draws (or stands pat).
type PokerHand struct {
	ID        int64          `db:"id"`
	TableID   int64          `db:"table_id"`
	PlayerID  int64          `db:"player_id"`
	Stake     int64          `db:"stake"`
	Cards     []Card         `db:"cards"`
	State     PokerHandState `db:"state"`
	CreatedAt time.Time      `db:"created_at"`
}
