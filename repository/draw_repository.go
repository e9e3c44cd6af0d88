package repository

import (
	"context"
	"fmt"

	"prizepool/domain/entities"
	"prizepool/domain/interfaces"
)

type drawRepository struct {
	q Queryable
}

func newDrawRepositoryWithTx(tx Queryable) interfaces.DrawRepository {
	return &drawRepository{q: tx}
}

// Create records a completed draw
func (r *drawRepository) Create(ctx context.Context, record *entities.DrawRecord) error {
	query := `
		INSERT INTO draws (draw_number, winning_ticket_id, winner_account, eligible_count, prize_at_draw, drawn_by, drawn_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query,
		int64(record.DrawNumber),
		record.WinningTicketID,
		string(record.WinnerAccount),
		record.EligibleCount,
		int64(record.PrizeAtDraw),
		string(record.DrawnBy),
		record.DrawnAt,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("failed to record draw %d: %w", record.DrawNumber, err)
	}
	return nil
}

// GetRecent returns the latest draws, newest first
func (r *drawRepository) GetRecent(ctx context.Context, limit int) ([]*entities.DrawRecord, error) {
	query := `
		SELECT id, draw_number, winning_ticket_id, winner_account, eligible_count,
		       prize_at_draw, drawn_by, drawn_at
		FROM draws
		ORDER BY draw_number DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent draws: %w", err)
	}
	defer rows.Close()

	var records []*entities.DrawRecord
	for rows.Next() {
		var record entities.DrawRecord
		err := rows.Scan(
			&record.ID,
			&record.DrawNumber,
			&record.WinningTicketID,
			&record.WinnerAccount,
			&record.EligibleCount,
			&record.PrizeAtDraw,
			&record.DrawnBy,
			&record.DrawnAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draw: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draws: %w", err)
	}

	return records, nil
}
