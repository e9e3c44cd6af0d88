package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prizepool/domain/entities"
	"prizepool/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

const ticketColumns = `id, owner, minted_at_epoch, principal, purchased_at, burned_at`

type ticketRepository struct {
	q Queryable
}

func newTicketRepositoryWithTx(tx Queryable) interfaces.TicketRepository {
	return &ticketRepository{q: tx}
}

// Create stores a new ticket, assigning its ID and purchase time
func (r *ticketRepository) Create(ctx context.Context, ticket *entities.Ticket) error {
	query := `
		INSERT INTO tickets (owner, minted_at_epoch, principal)
		VALUES ($1, $2, $3)
		RETURNING id, purchased_at
	`

	err := r.q.QueryRow(ctx, query,
		string(ticket.Owner),
		int64(ticket.MintedAtEpoch),
		int64(ticket.Principal),
	).Scan(&ticket.ID, &ticket.PurchasedAt)
	if err != nil {
		return fmt.Errorf("failed to create ticket for %s: %w", ticket.Owner, err)
	}

	return nil
}

// GetByID retrieves a ticket, live or burned, returning nil if it was never minted
func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*entities.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	ticket, err := scanTicket(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket %d: %w", id, err)
	}

	return ticket, nil
}

// Burn clears the owner of a live ticket
func (r *ticketRepository) Burn(ctx context.Context, id int64, at time.Time) error {
	query := `
		UPDATE tickets
		SET owner = NULL, burned_at = $2
		WHERE id = $1 AND burned_at IS NULL
	`

	tag, err := r.q.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to burn ticket %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ticket %d: %w", id, entities.ErrAlreadyBurned)
	}

	return nil
}

// CountLiveByOwner returns the number of live tickets held by owner
func (r *ticketRepository) CountLiveByOwner(ctx context.Context, owner entities.AccountID) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM tickets WHERE owner = $1 AND burned_at IS NULL`,
		string(owner),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets for %s: %w", owner, err)
	}
	return count, nil
}

// GetLiveByOwner returns the live tickets held by owner ordered by ID
func (r *ticketRepository) GetLiveByOwner(ctx context.Context, owner entities.AccountID) ([]*entities.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE owner = $1 AND burned_at IS NULL
		ORDER BY id ASC
	`
	return r.queryTickets(ctx, query, string(owner))
}

// GetEligible returns live tickets minted at or before boundary ordered by ID
func (r *ticketRepository) GetEligible(ctx context.Context, boundary uint64) ([]*entities.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE burned_at IS NULL AND minted_at_epoch <= $1
		ORDER BY id ASC
	`
	return r.queryTickets(ctx, query, int64(boundary))
}

// CountLive returns the number of live tickets
func (r *ticketRepository) CountLive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE burned_at IS NULL`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count live tickets: %w", err)
	}
	return count, nil
}

func (r *ticketRepository) queryTickets(ctx context.Context, query string, args ...any) ([]*entities.Ticket, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*entities.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}

	return tickets, nil
}

func scanTicket(row pgx.Row) (*entities.Ticket, error) {
	var (
		ticket entities.Ticket
		owner  *string
	)
	err := row.Scan(
		&ticket.ID,
		&owner,
		&ticket.MintedAtEpoch,
		&ticket.Principal,
		&ticket.PurchasedAt,
		&ticket.BurnedAt,
	)
	if err != nil {
		return nil, err
	}
	if owner != nil {
		ticket.Owner = entities.AccountID(*owner)
	}
	return &ticket, nil
}
