package entities

import (
	"errors"
	"fmt"
)

// Classified domain errors. Services wrap these with context; callers match
// them with errors.Is.
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNotOwner          = errors.New("caller is not the owner")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyBurned     = fmt.Errorf("ticket already burned: %w", ErrNotFound)
	ErrNoEligibleTickets = errors.New("no eligible tickets")
	ErrNotWinningTicket  = errors.New("not the winning ticket")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoFunds           = errors.New("no funds")

	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrReentrantCall   = errors.New("reentrant call rejected")
	ErrNotInitialized  = errors.New("lottery not initialized")
)
