package repository

import (
	"context"
	"errors"
	"fmt"

	"prizepool/domain/entities"
	"prizepool/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

const lotteryStateColumns = `owner, ticket_price, epoch, boundary, last_winner, prize_claimed, updated_at`

type lotteryStateRepository struct {
	q Queryable
}

func newLotteryStateRepositoryWithTx(tx Queryable) interfaces.LotteryStateRepository {
	return &lotteryStateRepository{q: tx}
}

// Get returns the state, or nil before initialization
func (r *lotteryStateRepository) Get(ctx context.Context) (*entities.LotteryState, error) {
	return r.get(ctx, `SELECT `+lotteryStateColumns+` FROM lottery_state`)
}

// GetForUpdate locks the single state row; every state-changing operation
// takes this lock first, which serialises the controller and treasury
func (r *lotteryStateRepository) GetForUpdate(ctx context.Context) (*entities.LotteryState, error) {
	return r.get(ctx, `SELECT `+lotteryStateColumns+` FROM lottery_state FOR UPDATE`)
}

func (r *lotteryStateRepository) get(ctx context.Context, query string) (*entities.LotteryState, error) {
	var state entities.LotteryState
	err := r.q.QueryRow(ctx, query).Scan(
		&state.Owner,
		&state.TicketPrice,
		&state.Epoch,
		&state.Boundary,
		&state.LastWinner,
		&state.PrizeClaimed,
		&state.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery state: %w", err)
	}
	return &state, nil
}

// Create stores the initial state
func (r *lotteryStateRepository) Create(ctx context.Context, state *entities.LotteryState) error {
	query := `
		INSERT INTO lottery_state (owner, ticket_price, epoch, boundary, last_winner, prize_claimed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		string(state.Owner),
		int64(state.TicketPrice),
		int64(state.Epoch),
		int64(state.Boundary),
		state.LastWinner,
		state.PrizeClaimed,
	).Scan(&state.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create lottery state: %w", err)
	}
	return nil
}

// Update persists the state
func (r *lotteryStateRepository) Update(ctx context.Context, state *entities.LotteryState) error {
	query := `
		UPDATE lottery_state
		SET owner = $1, ticket_price = $2, epoch = $3, boundary = $4,
		    last_winner = $5, prize_claimed = $6, updated_at = NOW()
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		string(state.Owner),
		int64(state.TicketPrice),
		int64(state.Epoch),
		int64(state.Boundary),
		state.LastWinner,
		state.PrizeClaimed,
	).Scan(&state.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entities.ErrNotInitialized
	}
	if err != nil {
		return fmt.Errorf("failed to update lottery state: %w", err)
	}
	return nil
}
