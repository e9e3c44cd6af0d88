package entities

import "time"

// Account holds the spendable value of a participant
type Account struct {
	ID        AccountID `db:"id"`
	Balance   uint64    `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CanAfford returns true if the account can pay amount
func (a *Account) CanAfford(amount uint64) bool {
	return a.Balance >= amount
}
