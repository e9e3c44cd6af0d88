package services

import (
	"context"
	"fmt"
	"time"

	"prizepool/domain/entities"
	"prizepool/domain/events"
	"prizepool/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// lotteryService is the lottery controller. It sells and refunds tickets,
// runs draws and keeps the eligibility boundary.
type lotteryService struct {
	stateRepo      interfaces.LotteryStateRepository
	drawRepo       interfaces.DrawRepository
	tickets        interfaces.TicketRegistry
	treasury       interfaces.TreasuryService
	accounts       interfaces.AccountService
	randomness     interfaces.RandomnessSource
	eventPublisher interfaces.EventPublisher
}

// NewLotteryService creates a new lottery service
func NewLotteryService(
	stateRepo interfaces.LotteryStateRepository,
	drawRepo interfaces.DrawRepository,
	tickets interfaces.TicketRegistry,
	treasury interfaces.TreasuryService,
	accounts interfaces.AccountService,
	randomness interfaces.RandomnessSource,
	eventPublisher interfaces.EventPublisher,
) interfaces.LotteryService {
	return &lotteryService{
		stateRepo:      stateRepo,
		drawRepo:       drawRepo,
		tickets:        tickets,
		treasury:       treasury,
		accounts:       accounts,
		randomness:     randomness,
		eventPublisher: eventPublisher,
	}
}

// Initialize creates the controller state if it does not exist yet
func (s *lotteryService) Initialize(ctx context.Context, owner entities.AccountID, ticketPrice uint64) (*entities.LotteryState, error) {
	state, err := s.stateRepo.GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery state: %w", err)
	}
	if state != nil {
		if state.TicketPrice != ticketPrice {
			log.WithFields(log.Fields{
				"stored":     state.TicketPrice,
				"configured": ticketPrice,
			}).Warn("Configured ticket price differs from the stored one, keeping stored price")
		}
		return state, nil
	}

	if owner == "" {
		return nil, fmt.Errorf("lottery owner is required")
	}
	if ticketPrice == 0 {
		return nil, fmt.Errorf("%w: ticket price must be positive", entities.ErrInvalidAmount)
	}

	state = &entities.LotteryState{
		Owner:       owner,
		TicketPrice: ticketPrice,
	}
	if err := s.stateRepo.Create(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to create lottery state: %w", err)
	}

	log.WithFields(log.Fields{
		"owner":       owner,
		"ticketPrice": ticketPrice,
	}).Info("Initialized lottery")
	return state, nil
}

// State returns the controller state
func (s *lotteryService) State(ctx context.Context) (*entities.LotteryState, error) {
	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery state: %w", err)
	}
	if state == nil {
		return nil, entities.ErrNotInitialized
	}
	return state, nil
}

// Purchase mints a ticket against exactly the ticket price
func (s *lotteryService) Purchase(ctx context.Context, caller entities.AccountID, payment uint64) (*entities.Ticket, error) {
	state, err := s.lockState(ctx)
	if err != nil {
		return nil, err
	}

	if payment != state.TicketPrice {
		return nil, fmt.Errorf("%w: ticket costs %d, got %d", entities.ErrInvalidAmount, state.TicketPrice, payment)
	}

	if _, err := s.accounts.Debit(ctx, caller, payment, entities.TransactionTypeTicketPurchase, map[string]any{
		"epoch": state.Epoch,
	}); err != nil {
		return nil, fmt.Errorf("failed to collect payment: %w", err)
	}

	ticket, err := s.tickets.Mint(ctx, caller, state.Epoch, payment)
	if err != nil {
		return nil, err
	}

	if err := s.treasury.DepositPrincipal(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to deposit principal: %w", err)
	}

	log.WithFields(log.Fields{
		"ticketID": ticket.ID,
		"owner":    caller,
		"epoch":    ticket.MintedAtEpoch,
	}).Info("Ticket purchased")

	if err := s.eventPublisher.Publish(events.TicketPurchasedEvent{
		TicketID:      ticket.ID,
		Owner:         caller,
		Principal:     ticket.Principal,
		MintedAtEpoch: ticket.MintedAtEpoch,
	}); err != nil {
		log.WithError(err).Error("Failed to publish ticket purchased event")
	}
	return ticket, nil
}

// Refund burns a ticket and returns exactly its principal to the caller
func (s *lotteryService) Refund(ctx context.Context, caller entities.AccountID, ticketID int64) (*entities.Ticket, error) {
	if _, err := s.lockState(ctx); err != nil {
		return nil, err
	}

	ticket, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.IsLive() {
		return nil, fmt.Errorf("ticket %d: %w", ticketID, entities.ErrAlreadyBurned)
	}
	if !ticket.IsOwnedBy(caller) {
		return nil, fmt.Errorf("ticket %d: %w", ticketID, entities.ErrNotOwner)
	}

	owner := ticket.Owner
	if ticket, err = s.tickets.Burn(ctx, ticketID); err != nil {
		return nil, err
	}

	if err := s.treasury.ReleasePrincipal(ctx, owner, ticket.Principal); err != nil {
		return nil, fmt.Errorf("failed to release principal: %w", err)
	}

	log.WithFields(log.Fields{
		"ticketID":  ticketID,
		"owner":     owner,
		"principal": ticket.Principal,
	}).Info("Ticket refunded")

	if err := s.eventPublisher.Publish(events.TicketRefundedEvent{
		TicketID:  ticketID,
		Owner:     owner,
		Principal: ticket.Principal,
	}); err != nil {
		log.WithError(err).Error("Failed to publish ticket refunded event")
	}
	return ticket, nil
}

// Draw selects one eligible ticket uniformly at random and advances the boundary
func (s *lotteryService) Draw(ctx context.Context, caller entities.AccountID) (*interfaces.LotteryDrawResult, error) {
	state, err := s.lockState(ctx)
	if err != nil {
		return nil, err
	}

	eligible, err := s.tickets.Eligible(ctx, state.Boundary)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("draw %d: %w", state.DrawNumber(), entities.ErrNoEligibleTickets)
	}

	index, err := s.randomness.Sample(ctx, len(eligible))
	if err != nil {
		return nil, fmt.Errorf("failed to sample winner: %w", err)
	}
	if index < 0 || index >= len(eligible) {
		return nil, fmt.Errorf("randomness source returned index %d outside [0, %d)", index, len(eligible))
	}
	winner := eligible[index]

	prize, err := s.treasury.CurrentPrize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read current prize: %w", err)
	}

	record := &entities.DrawRecord{
		DrawNumber:      state.DrawNumber(),
		WinningTicketID: winner.ID,
		WinnerAccount:   winner.Owner,
		EligibleCount:   int64(len(eligible)),
		PrizeAtDraw:     prize,
		DrawnBy:         caller,
		DrawnAt:         time.Now().UTC(),
	}

	state.CompleteDraw(winner.ID)
	if err := s.stateRepo.Update(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to update lottery state: %w", err)
	}
	if err := s.drawRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record draw: %w", err)
	}

	log.WithFields(log.Fields{
		"drawNumber":    record.DrawNumber,
		"winningTicket": winner.ID,
		"winner":        winner.Owner,
		"eligible":      len(eligible),
		"prize":         prize,
	}).Info("Draw completed")

	if err := s.eventPublisher.Publish(events.DrawCompletedEvent{
		DrawNumber:      record.DrawNumber,
		WinningTicketID: record.WinningTicketID,
		WinnerAccount:   record.WinnerAccount,
		EligibleCount:   record.EligibleCount,
		PrizeAtDraw:     record.PrizeAtDraw,
	}); err != nil {
		log.WithError(err).Error("Failed to publish draw completed event")
	}

	return &interfaces.LotteryDrawResult{
		Record:         record,
		NextDrawNumber: state.DrawNumber(),
	}, nil
}

// IsEligible reports whether a ticket takes part in the next draw. Burned
// tickets are never eligible.
func (s *lotteryService) IsEligible(ctx context.Context, ticketID int64) (bool, error) {
	state, err := s.State(ctx)
	if err != nil {
		return false, err
	}
	ticket, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		return false, err
	}
	return ticket.IsEligible(state.Boundary), nil
}

// LastWinner returns the most recently drawn ticket
func (s *lotteryService) LastWinner(ctx context.Context) (*int64, error) {
	state, err := s.State(ctx)
	if err != nil {
		return nil, err
	}
	return state.LastWinner, nil
}

// RecentDraws returns the latest draw records, newest first
func (s *lotteryService) RecentDraws(ctx context.Context, limit int) ([]*entities.DrawRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	records, err := s.drawRepo.GetRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw history: %w", err)
	}
	return records, nil
}

func (s *lotteryService) lockState(ctx context.Context) (*entities.LotteryState, error) {
	state, err := s.stateRepo.GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock lottery state: %w", err)
	}
	if state == nil {
		return nil, entities.ErrNotInitialized
	}
	return state, nil
}
