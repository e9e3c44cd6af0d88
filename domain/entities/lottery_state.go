package entities

import "time"

// LotteryState is the controller's process-wide state.
//
// Epoch is a logical clock counting completed draws; tickets record the
// epoch they were minted in. Boundary is the latest epoch whose tickets take
// part in the next draw. Both start at zero so that every ticket bought
// before the first draw is eligible for it. After a draw Boundary catches up
// with the pre-draw Epoch and Epoch moves one step ahead, so a ticket bought
// after draw k waits for draw k+2.
type LotteryState struct {
	Owner        AccountID `db:"owner"`
	TicketPrice  uint64    `db:"ticket_price"`
	Epoch        uint64    `db:"epoch"`
	Boundary     uint64    `db:"boundary"`
	LastWinner   *int64    `db:"last_winner"` // NULL before the first draw
	PrizeClaimed bool      `db:"prize_claimed"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Authorization returns the controller's admin right
func (s *LotteryState) Authorization() Authorization {
	return Authorization{Owner: s.Owner}
}

// DrawNumber returns the number the next draw will carry (1-based)
func (s *LotteryState) DrawNumber() uint64 {
	return s.Epoch + 1
}

// HasWinner returns true once a draw has completed
func (s *LotteryState) HasWinner() bool {
	return s.LastWinner != nil
}

// IsWinningTicket checks if ticketID won the most recent draw
func (s *LotteryState) IsWinningTicket(ticketID int64) bool {
	return s.LastWinner != nil && *s.LastWinner == ticketID
}

// CompleteDraw records the winner and advances the eligibility boundary
func (s *LotteryState) CompleteDraw(winningTicketID int64) {
	s.LastWinner = &winningTicketID
	s.PrizeClaimed = false
	s.Boundary = s.Epoch
	s.Epoch++
}
