package services

import (
	"context"
	"fmt"
	"time"

	"prizepool/domain/entities"
	"prizepool/domain/interfaces"
)

// ticketRegistry is the ownership ledger. It holds no funds and knows
// nothing about draws.
type ticketRegistry struct {
	ticketRepo interfaces.TicketRepository
}

// NewTicketRegistry creates a new ticket registry
func NewTicketRegistry(ticketRepo interfaces.TicketRepository) interfaces.TicketRegistry {
	return &ticketRegistry{ticketRepo: ticketRepo}
}

// Mint allocates the next ticket ID to owner
func (r *ticketRegistry) Mint(ctx context.Context, owner entities.AccountID, epoch, principal uint64) (*entities.Ticket, error) {
	if owner == "" {
		return nil, fmt.Errorf("cannot mint to an empty owner")
	}

	ticket := &entities.Ticket{
		Owner:         owner,
		MintedAtEpoch: epoch,
		Principal:     principal,
	}
	if err := r.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	return ticket, nil
}

// Burn clears ownership of a live ticket
func (r *ticketRegistry) Burn(ctx context.Context, ticketID int64) (*entities.Ticket, error) {
	ticket, err := r.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.IsLive() {
		return nil, fmt.Errorf("ticket %d: %w", ticketID, entities.ErrAlreadyBurned)
	}

	now := time.Now().UTC()
	if err := r.ticketRepo.Burn(ctx, ticketID, now); err != nil {
		return nil, fmt.Errorf("failed to burn ticket: %w", err)
	}
	ticket.Burn(now)
	return ticket, nil
}

// Get returns a ticket, live or burned
func (r *ticketRegistry) Get(ctx context.Context, ticketID int64) (*entities.Ticket, error) {
	ticket, err := r.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return nil, fmt.Errorf("ticket %d: %w", ticketID, entities.ErrNotFound)
	}
	return ticket, nil
}

// OwnerOf returns the holder of a live ticket
func (r *ticketRegistry) OwnerOf(ctx context.Context, ticketID int64) (entities.AccountID, error) {
	ticket, err := r.Get(ctx, ticketID)
	if err != nil {
		return "", err
	}
	if !ticket.IsLive() {
		return "", fmt.Errorf("ticket %d: %w", ticketID, entities.ErrAlreadyBurned)
	}
	return ticket.Owner, nil
}

// BalanceOf returns the number of live tickets held by owner
func (r *ticketRegistry) BalanceOf(ctx context.Context, owner entities.AccountID) (int64, error) {
	count, err := r.ticketRepo.CountLiveByOwner(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}

// TicketsOf returns the live tickets held by owner
func (r *ticketRegistry) TicketsOf(ctx context.Context, owner entities.AccountID) ([]*entities.Ticket, error) {
	tickets, err := r.ticketRepo.GetLiveByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}
	return tickets, nil
}

// Eligible returns live tickets minted at or before boundary
func (r *ticketRegistry) Eligible(ctx context.Context, boundary uint64) ([]*entities.Ticket, error) {
	tickets, err := r.ticketRepo.GetEligible(ctx, boundary)
	if err != nil {
		return nil, fmt.Errorf("failed to get eligible tickets: %w", err)
	}
	return tickets, nil
}
