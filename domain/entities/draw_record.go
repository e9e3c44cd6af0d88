package entities

import "time"

// DrawRecord is the permanent record of one completed draw
type DrawRecord struct {
	ID              int64     `db:"id"`
	DrawNumber      uint64    `db:"draw_number"`
	WinningTicketID int64     `db:"winning_ticket_id"`
	WinnerAccount   AccountID `db:"winner_account"`
	EligibleCount   int64     `db:"eligible_count"`
	PrizeAtDraw     uint64    `db:"prize_at_draw"` // Prize available when the draw ran
	DrawnBy         AccountID `db:"drawn_by"`
	DrawnAt         time.Time `db:"drawn_at"`
}
