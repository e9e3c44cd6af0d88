package entities

import "time"

// Ticket is a uniquely owned claim on one deposit of principal
type Ticket struct {
	ID            int64      `db:"id"`
	Owner         AccountID  `db:"owner"`           // Empty once burned
	MintedAtEpoch uint64     `db:"minted_at_epoch"` // Lottery epoch active at purchase
	Principal     uint64     `db:"principal"`
	PurchasedAt   time.Time  `db:"purchased_at"`
	BurnedAt      *time.Time `db:"burned_at"` // NULL while live
}

// IsLive returns true if the ticket has not been burned
func (t *Ticket) IsLive() bool {
	return t.BurnedAt == nil
}

// IsOwnedBy returns true if the ticket is live and held by account
func (t *Ticket) IsOwnedBy(account AccountID) bool {
	return t.IsLive() && t.Owner == account
}

// IsEligible returns true if the ticket takes part in a draw against boundary
func (t *Ticket) IsEligible(boundary uint64) bool {
	return t.IsLive() && t.MintedAtEpoch <= boundary
}

// Burn clears ownership. The ticket can never be revived.
func (t *Ticket) Burn(at time.Time) {
	t.Owner = ""
	t.BurnedAt = &at
}
