package entities

import "fmt"

// AccountID identifies a participant, the treasury, or an administrator
type AccountID string

// Authorization is the single-owner admin right held by a component
type Authorization struct {
	Owner AccountID
}

// Check returns ErrNotOwner unless caller is the owner
func (a Authorization) Check(caller AccountID) error {
	if a.Owner == "" || caller != a.Owner {
		return fmt.Errorf("%w: %q", ErrNotOwner, caller)
	}
	return nil
}
