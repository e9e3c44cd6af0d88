package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"prizepool/domain/entities"
	"prizepool/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// DrawPoster defines the interface for announcing draw results
type DrawPoster interface {
	// PostDrawResult announces a completed draw
	PostDrawResult(ctx context.Context, result *interfaces.LotteryDrawResult) error
}

// DrawSchedule decides when the next draw runs. A positive Interval draws at
// a fixed cadence; otherwise draws run weekly on Weekday at Hour UTC.
type DrawSchedule struct {
	Interval time.Duration
	Weekday  time.Weekday
	Hour     int
}

// DefaultDrawSchedule draws every Friday at 14:00 UTC
func DefaultDrawSchedule() DrawSchedule {
	return DrawSchedule{Weekday: time.Friday, Hour: 14}
}

// Next returns the first draw time strictly after now
func (s DrawSchedule) Next(now time.Time) time.Time {
	if s.Interval > 0 {
		return now.Add(s.Interval)
	}

	now = now.UTC()
	daysUntil := (int(s.Weekday) - int(now.Weekday()) + 7) % 7
	next := time.Date(now.Year(), now.Month(), now.Day(), s.Hour, 0, 0, 0, time.UTC).AddDate(0, 0, daysUntil)
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// LotteryDrawWorker runs draws on a schedule
type LotteryDrawWorker struct {
	handler  *LotteryHandler
	poster   DrawPoster
	schedule DrawSchedule
	drawer   entities.AccountID
}

// NewLotteryDrawWorker creates a new lottery draw worker. Draws are recorded as
// made by drawer.
func NewLotteryDrawWorker(handler *LotteryHandler, poster DrawPoster, schedule DrawSchedule, drawer entities.AccountID) *LotteryDrawWorker {
	return &LotteryDrawWorker{
		handler:  handler,
		poster:   poster,
		schedule: schedule,
		drawer:   drawer,
	}
}

// Start begins the lottery draw worker
func (w *LotteryDrawWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Info("Lottery draw worker started")

		for {
			nextDrawTime := w.schedule.Next(time.Now())
			waitDuration := time.Until(nextDrawTime)
			log.Infof("Next lottery draw at %v (in %v)", nextDrawTime.UTC(), waitDuration)

			select {
			case <-ctx.Done():
				log.Info("Lottery draw worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Lottery draw worker shutting down (stop requested)...")
				return
			case <-time.After(waitDuration):
				if _, err := w.RunOnce(ctx); err != nil {
					log.Errorf("Error processing lottery draw: %v", err)
				}
			}
		}
	}()

	// Return cleanup function
	return func() {
		close(stopChan)
	}
}

// RunOnce performs a single draw. An empty eligible set is not an error; it
// returns a nil result.
func (w *LotteryDrawWorker) RunOnce(ctx context.Context) (*interfaces.LotteryDrawResult, error) {
	result, err := w.handler.Draw(ctx, w.drawer)
	if errors.Is(err, entities.ErrNoEligibleTickets) {
		log.Info("No eligible lottery tickets, skipping draw")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to conduct draw: %w", err)
	}

	log.WithFields(log.Fields{
		"draw_number":    result.Record.DrawNumber,
		"winning_ticket": result.Record.WinningTicketID,
		"winner":         result.Record.WinnerAccount,
		"eligible_count": result.Record.EligibleCount,
		"prize":          result.Record.PrizeAtDraw,
	}).Info("Lottery draw completed")

	if w.poster != nil {
		if err := w.poster.PostDrawResult(ctx, result); err != nil {
			// The draw is committed; announcing it is best effort
			log.Errorf("Failed to post lottery result: %v", err)
		}
	}
	return result, nil
}
