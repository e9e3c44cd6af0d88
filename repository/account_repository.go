package repository

import (
	"context"
	"errors"
	"fmt"

	"prizepool/database"
	"prizepool/domain/entities"
	"prizepool/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type accountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) interfaces.AccountRepository {
	return &accountRepository{q: db.Pool}
}

func newAccountRepositoryWithTx(tx Queryable) interfaces.AccountRepository {
	return &accountRepository{q: tx}
}

// GetByID retrieves an account, returning nil if it does not exist
func (r *accountRepository) GetByID(ctx context.Context, id entities.AccountID) (*entities.Account, error) {
	query := `
		SELECT id, balance, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var account entities.Account
	err := r.q.QueryRow(ctx, query, string(id)).Scan(
		&account.ID,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", id, err)
	}

	return &account, nil
}

// Create creates a new account with the initial balance
func (r *accountRepository) Create(ctx context.Context, id entities.AccountID, initialBalance uint64) (*entities.Account, error) {
	query := `
		INSERT INTO accounts (id, balance)
		VALUES ($1, $2)
		RETURNING id, balance, created_at, updated_at
	`

	var account entities.Account
	err := r.q.QueryRow(ctx, query, string(id), int64(initialBalance)).Scan(
		&account.ID,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", id, err)
	}

	return &account, nil
}

// UpdateBalance sets an account's balance
func (r *accountRepository) UpdateBalance(ctx context.Context, id entities.AccountID, newBalance uint64) error {
	query := `
		UPDATE accounts
		SET balance = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, string(id), int64(newBalance))
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id, entities.ErrNotFound)
	}

	return nil
}
