package models

import "time"

// DrawEntry is one player's registration for the next slots ownership
// draw. One entry per player per ownership cycle; entries are cleared
// when the cycle's draw executes.
type DrawEntry struct {
	ID        int64     `db:"id"`
	TableID   int64     `db:"table_id"`
	PlayerID  int64     `db:"player_id"`
	EnteredAt time.Time `db:"entered_at"`
}

// DrawCooldown blocks a player who relinquished a slots table from
// re-entering its draw until the cooldown passes.
type DrawCooldown struct {
	TableID  int64     `db:"table_id"`
	PlayerID int64     `db:"player_id"`
	Until    time.Time `db:"until"`
}

// Active reports whether the cooldown is still in effect
func (c *DrawCooldown) Active(now time.Time) bool {
	return now.Before(c.Until)
}
