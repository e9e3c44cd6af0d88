package repository

import (
	"context"
	"errors"
	"fmt"

	"prizepool/domain/entities"
	"prizepool/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

const treasuryColumns = `owner, account, strategy_name, total_principal, idle, invested, updated_at`

type treasuryRepository struct {
	q Queryable
}

func newTreasuryRepositoryWithTx(tx Queryable) interfaces.TreasuryRepository {
	return &treasuryRepository{q: tx}
}

// Get returns the ledger, or nil before initialization
func (r *treasuryRepository) Get(ctx context.Context) (*entities.TreasuryLedger, error) {
	return r.get(ctx, `SELECT `+treasuryColumns+` FROM treasury_ledger`)
}

// GetForUpdate returns the ledger and locks it until the transaction ends
func (r *treasuryRepository) GetForUpdate(ctx context.Context) (*entities.TreasuryLedger, error) {
	return r.get(ctx, `SELECT `+treasuryColumns+` FROM treasury_ledger FOR UPDATE`)
}

func (r *treasuryRepository) get(ctx context.Context, query string) (*entities.TreasuryLedger, error) {
	var ledger entities.TreasuryLedger
	err := r.q.QueryRow(ctx, query).Scan(
		&ledger.Owner,
		&ledger.Account,
		&ledger.StrategyName,
		&ledger.TotalPrincipal,
		&ledger.Idle,
		&ledger.Invested,
		&ledger.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get treasury ledger: %w", err)
	}
	return &ledger, nil
}

// Create stores the initial ledger
func (r *treasuryRepository) Create(ctx context.Context, ledger *entities.TreasuryLedger) error {
	query := `
		INSERT INTO treasury_ledger (owner, account, strategy_name, total_principal, idle, invested)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		string(ledger.Owner),
		string(ledger.Account),
		ledger.StrategyName,
		int64(ledger.TotalPrincipal),
		int64(ledger.Idle),
		int64(ledger.Invested),
	).Scan(&ledger.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create treasury ledger: %w", err)
	}
	return nil
}

// Update persists the ledger
func (r *treasuryRepository) Update(ctx context.Context, ledger *entities.TreasuryLedger) error {
	query := `
		UPDATE treasury_ledger
		SET owner = $1, account = $2, strategy_name = $3, total_principal = $4,
		    idle = $5, invested = $6, updated_at = NOW()
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		string(ledger.Owner),
		string(ledger.Account),
		ledger.StrategyName,
		int64(ledger.TotalPrincipal),
		int64(ledger.Idle),
		int64(ledger.Invested),
	).Scan(&ledger.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return entities.ErrNotInitialized
	}
	if err != nil {
		return fmt.Errorf("failed to update treasury ledger: %w", err)
	}
	return nil
}
