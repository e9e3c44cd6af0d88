package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"prizepool/application"

	log "github.com/sirupsen/logrus"
)

const debugPort = 8899

// DebugResponse represents the response from a debug endpoint
type DebugResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// LotterySnapshot is the lottery state reported by /debug/lottery
type LotterySnapshot struct {
	DrawNumber     uint64 `json:"draw_number"`
	Epoch          uint64 `json:"epoch"`
	Boundary       uint64 `json:"boundary"`
	TicketPrice    uint64 `json:"ticket_price"`
	LastWinner     *int64 `json:"last_winner,omitempty"`
	PrizeClaimed   bool   `json:"prize_claimed"`
	Strategy       string `json:"strategy"`
	TotalPrincipal uint64 `json:"total_principal"`
	Holdings       uint64 `json:"holdings"`
	CurrentPrize   uint64 `json:"current_prize"`
}

// newDebugMux builds the internal debug API
func newDebugMux(handler *application.LotteryHandler) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/debug/lottery", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		snapshot, err := lotterySnapshot(r.Context(), handler)
		if err != nil {
			respondWithError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(DebugResponse{
			Success: true,
			Data:    snapshot,
		})
	})

	return mux
}

func lotterySnapshot(ctx context.Context, handler *application.LotteryHandler) (*LotterySnapshot, error) {
	state, err := handler.State(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load lottery state: %w", err)
	}
	ledger, err := handler.Ledger(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load treasury ledger: %w", err)
	}
	holdings, err := handler.Holdings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read holdings: %w", err)
	}
	prize, err := handler.CurrentPrize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute prize: %w", err)
	}

	return &LotterySnapshot{
		DrawNumber:     state.DrawNumber(),
		Epoch:          state.Epoch,
		Boundary:       state.Boundary,
		TicketPrice:    state.TicketPrice,
		LastWinner:     state.LastWinner,
		PrizeClaimed:   state.PrizeClaimed,
		Strategy:       ledger.StrategyName,
		TotalPrincipal: ledger.TotalPrincipal,
		Holdings:       holdings,
		CurrentPrize:   prize,
	}, nil
}

// StartDebugAPI starts an internal HTTP API on localhost
func (b *Bot) StartDebugAPI(port int) error {
	server := &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", port),
		Handler:      newDebugMux(b.handler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	b.debugServer = server

	go func() {
		log.Infof("Debug API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("Debug API server error: %v", err)
		}
	}()

	return nil
}

func respondWithError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(DebugResponse{
		Success: false,
		Error:   message,
	})
}
