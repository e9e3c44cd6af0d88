package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"prizepool/domain/entities"
)

type accountRepository struct{ s *snapshot }

func (r *accountRepository) GetByID(ctx context.Context, id entities.AccountID) (*entities.Account, error) {
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, nil
	}
	return copyAccount(a), nil
}

func (r *accountRepository) Create(ctx context.Context, id entities.AccountID, initialBalance uint64) (*entities.Account, error) {
	if _, ok := r.s.accounts[id]; ok {
		return nil, fmt.Errorf("account %s already exists", id)
	}
	now := time.Now().UTC()
	a := &entities.Account{
		ID:        id,
		Balance:   initialBalance,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.s.accounts[id] = a
	return copyAccount(a), nil
}

func (r *accountRepository) UpdateBalance(ctx context.Context, id entities.AccountID, newBalance uint64) error {
	a, ok := r.s.accounts[id]
	if !ok {
		return fmt.Errorf("account %s: %w", id, entities.ErrNotFound)
	}
	a.Balance = newBalance
	a.UpdatedAt = time.Now().UTC()
	return nil
}

type balanceHistoryRepository struct{ s *snapshot }

func (r *balanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	history.ID = r.s.nextHistoryID
	history.CreatedAt = time.Now().UTC()
	r.s.nextHistoryID++
	r.s.history = append(r.s.history, copyHistory(history))
	return nil
}

func (r *balanceHistoryRepository) GetByAccount(ctx context.Context, id entities.AccountID, limit int) ([]*entities.BalanceHistory, error) {
	var out []*entities.BalanceHistory
	for i := len(r.s.history) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if h := r.s.history[i]; h.AccountID == id {
			out = append(out, copyHistory(h))
		}
	}
	return out, nil
}

type ticketRepository struct{ s *snapshot }

func (r *ticketRepository) Create(ctx context.Context, ticket *entities.Ticket) error {
	ticket.ID = r.s.nextTicketID
	ticket.PurchasedAt = time.Now().UTC()
	r.s.nextTicketID++
	r.s.tickets[ticket.ID] = copyTicket(ticket)
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*entities.Ticket, error) {
	t, ok := r.s.tickets[id]
	if !ok {
		return nil, nil
	}
	return copyTicket(t), nil
}

func (r *ticketRepository) Burn(ctx context.Context, id int64, at time.Time) error {
	t, ok := r.s.tickets[id]
	if !ok {
		return fmt.Errorf("ticket %d: %w", id, entities.ErrNotFound)
	}
	if !t.IsLive() {
		return fmt.Errorf("ticket %d: %w", id, entities.ErrAlreadyBurned)
	}
	t.Burn(at)
	return nil
}

func (r *ticketRepository) CountLiveByOwner(ctx context.Context, owner entities.AccountID) (int64, error) {
	var count int64
	for _, t := range r.s.tickets {
		if t.IsOwnedBy(owner) {
			count++
		}
	}
	return count, nil
}

func (r *ticketRepository) GetLiveByOwner(ctx context.Context, owner entities.AccountID) ([]*entities.Ticket, error) {
	return r.filter(func(t *entities.Ticket) bool { return t.IsOwnedBy(owner) }), nil
}

func (r *ticketRepository) GetEligible(ctx context.Context, boundary uint64) ([]*entities.Ticket, error) {
	return r.filter(func(t *entities.Ticket) bool { return t.IsEligible(boundary) }), nil
}

func (r *ticketRepository) CountLive(ctx context.Context) (int64, error) {
	var count int64
	for _, t := range r.s.tickets {
		if t.IsLive() {
			count++
		}
	}
	return count, nil
}

func (r *ticketRepository) filter(keep func(*entities.Ticket) bool) []*entities.Ticket {
	var out []*entities.Ticket
	for _, t := range r.s.tickets {
		if keep(t) {
			out = append(out, copyTicket(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Locking is provided by the unit of work, so GetForUpdate is a plain read
type lotteryStateRepository struct{ s *snapshot }

func (r *lotteryStateRepository) Get(ctx context.Context) (*entities.LotteryState, error) {
	if r.s.state == nil {
		return nil, nil
	}
	return copyState(r.s.state), nil
}

func (r *lotteryStateRepository) GetForUpdate(ctx context.Context) (*entities.LotteryState, error) {
	return r.Get(ctx)
}

func (r *lotteryStateRepository) Create(ctx context.Context, state *entities.LotteryState) error {
	if r.s.state != nil {
		return fmt.Errorf("lottery state already exists")
	}
	state.UpdatedAt = time.Now().UTC()
	r.s.state = copyState(state)
	return nil
}

func (r *lotteryStateRepository) Update(ctx context.Context, state *entities.LotteryState) error {
	if r.s.state == nil {
		return entities.ErrNotInitialized
	}
	state.UpdatedAt = time.Now().UTC()
	r.s.state = copyState(state)
	return nil
}

type treasuryRepository struct{ s *snapshot }

func (r *treasuryRepository) Get(ctx context.Context) (*entities.TreasuryLedger, error) {
	if r.s.ledger == nil {
		return nil, nil
	}
	l := *r.s.ledger
	return &l, nil
}

func (r *treasuryRepository) GetForUpdate(ctx context.Context) (*entities.TreasuryLedger, error) {
	return r.Get(ctx)
}

func (r *treasuryRepository) Create(ctx context.Context, ledger *entities.TreasuryLedger) error {
	if r.s.ledger != nil {
		return fmt.Errorf("treasury ledger already exists")
	}
	ledger.UpdatedAt = time.Now().UTC()
	l := *ledger
	r.s.ledger = &l
	return nil
}

func (r *treasuryRepository) Update(ctx context.Context, ledger *entities.TreasuryLedger) error {
	if r.s.ledger == nil {
		return entities.ErrNotInitialized
	}
	ledger.UpdatedAt = time.Now().UTC()
	l := *ledger
	r.s.ledger = &l
	return nil
}

type drawRepository struct{ s *snapshot }

func (r *drawRepository) Create(ctx context.Context, record *entities.DrawRecord) error {
	record.ID = r.s.nextDrawID
	r.s.nextDrawID++
	r.s.draws = append(r.s.draws, copyDraw(record))
	return nil
}

func (r *drawRepository) GetRecent(ctx context.Context, limit int) ([]*entities.DrawRecord, error) {
	var out []*entities.DrawRecord
	for i := len(r.s.draws) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, copyDraw(r.s.draws[i]))
	}
	return out, nil
}
