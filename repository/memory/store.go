// Package memory is a process-local storage backend. A unit of work holds the
// store lock from Begin until Commit or Rollback, so operations are fully
// serialised and a failed operation leaves no trace.
package memory

import (
	"maps"
	"sync"

	"prizepool/domain/entities"
)

// Store holds the committed state
type Store struct {
	mu   sync.Mutex
	data *snapshot
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{data: newSnapshot()}
}

type snapshot struct {
	accounts      map[entities.AccountID]*entities.Account
	history       []*entities.BalanceHistory
	nextHistoryID int64
	tickets       map[int64]*entities.Ticket
	nextTicketID  int64
	state         *entities.LotteryState
	ledger        *entities.TreasuryLedger
	draws         []*entities.DrawRecord
	nextDrawID    int64
}

func newSnapshot() *snapshot {
	return &snapshot{
		accounts:      make(map[entities.AccountID]*entities.Account),
		tickets:       make(map[int64]*entities.Ticket),
		nextHistoryID: 1,
		nextTicketID:  1,
		nextDrawID:    1,
	}
}

// clone deep-copies everything a repository may mutate in place
func (s *snapshot) clone() *snapshot {
	c := &snapshot{
		accounts:      make(map[entities.AccountID]*entities.Account, len(s.accounts)),
		history:       make([]*entities.BalanceHistory, len(s.history)),
		nextHistoryID: s.nextHistoryID,
		tickets:       make(map[int64]*entities.Ticket, len(s.tickets)),
		nextTicketID:  s.nextTicketID,
		draws:         make([]*entities.DrawRecord, len(s.draws)),
		nextDrawID:    s.nextDrawID,
	}
	for id, a := range s.accounts {
		c.accounts[id] = copyAccount(a)
	}
	copy(c.history, s.history)
	for id, t := range s.tickets {
		c.tickets[id] = copyTicket(t)
	}
	copy(c.draws, s.draws)
	if s.state != nil {
		c.state = copyState(s.state)
	}
	if s.ledger != nil {
		l := *s.ledger
		c.ledger = &l
	}
	return c
}

func copyAccount(a *entities.Account) *entities.Account {
	c := *a
	return &c
}

func copyTicket(t *entities.Ticket) *entities.Ticket {
	c := *t
	if t.BurnedAt != nil {
		at := *t.BurnedAt
		c.BurnedAt = &at
	}
	return &c
}

func copyState(s *entities.LotteryState) *entities.LotteryState {
	c := *s
	if s.LastWinner != nil {
		w := *s.LastWinner
		c.LastWinner = &w
	}
	return &c
}

func copyHistory(h *entities.BalanceHistory) *entities.BalanceHistory {
	c := *h
	c.TransactionMetadata = maps.Clone(h.TransactionMetadata)
	return &c
}

func copyDraw(d *entities.DrawRecord) *entities.DrawRecord {
	c := *d
	return &c
}
