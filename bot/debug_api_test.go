package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"prizepool/application"
	"prizepool/domain/entities"
	"prizepool/domain/strategy"
	"prizepool/domain/testhelpers"
	"prizepool/infrastructure"
	"prizepool/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*application.LotteryHandler, *strategy.HoldStrategy) {
	t.Helper()

	hold := strategy.NewHoldStrategy(strategy.HoldName, "treasury")
	factory := infrastructure.NewUnitOfWorkFactory(memory.NewUnitOfWorkFactory(memory.NewStore()), &testhelpers.RecordingPublisher{})
	handler := application.NewLotteryHandler(factory, strategy.NewRegistry(hold), testhelpers.FixedRandomness(0), 10)

	_, _, err := handler.Initialize(context.Background(), application.LotterySettings{
		Owner:       "owner",
		Treasury:    "treasury",
		TicketPrice: 2,
		Strategy:    strategy.HoldName,
	})
	require.NoError(t, err)
	return handler, hold
}

func TestDebugAPI_Lottery(t *testing.T) {
	t.Parallel()

	handler, hold := newTestHandler(t)
	_, err := handler.Purchase(context.Background(), entities.AccountID("alice"), 2)
	require.NoError(t, err)
	hold.Accrue(3)

	rec := httptest.NewRecorder()
	newDebugMux(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/lottery", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool            `json:"success"`
		Data    LotterySnapshot `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, uint64(1), body.Data.DrawNumber)
	assert.Equal(t, uint64(2), body.Data.TicketPrice)
	assert.Equal(t, strategy.HoldName, body.Data.Strategy)
	assert.Equal(t, uint64(2), body.Data.TotalPrincipal)
	assert.Equal(t, uint64(5), body.Data.Holdings)
	assert.Equal(t, uint64(3), body.Data.CurrentPrize)
	assert.Nil(t, body.Data.LastWinner)
}

func TestDebugAPI_Routes(t *testing.T) {
	t.Parallel()

	handler, _ := newTestHandler(t)
	mux := newDebugMux(handler)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{name: "health", method: http.MethodGet, path: "/health", status: http.StatusOK},
		{name: "lottery wrong method", method: http.MethodPost, path: "/debug/lottery", status: http.StatusMethodNotAllowed},
		{name: "unknown", method: http.MethodGet, path: "/debug/nope", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
