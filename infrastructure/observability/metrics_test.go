package observability

import (
	"context"
	"testing"

	"prizepool/config"
	"prizepool/domain/entities"
	"prizepool/domain/events"
	"prizepool/infrastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestProvider(t *testing.T) (*MetricsProvider, *sdkmetric.ManualReader) {
	t.Helper()

	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	mp := NewMetricsProvider(cfg)
	reader := sdkmetric.NewManualReader()
	require.NoError(t, mp.initializeWithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp, reader
}

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := make(map[string]int64)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	return sums
}

func TestMetricsProvider_DisabledIsNoop(t *testing.T) {
	t.Parallel()

	cfg := config.NewTestConfig()
	cfg.OTelEnabled = false
	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))

	assert.False(t, mp.isEnabled())
	assert.NotPanics(t, func() {
		mp.RecordTicketPurchased()
		mp.RecordWinningsPaid(10)
	})
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestMetricsProvider_NoneExporter(t *testing.T) {
	t.Parallel()

	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = ExporterNone
	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	assert.False(t, mp.isEnabled())
}

func TestMetricsProvider_UnknownExporter(t *testing.T) {
	t.Parallel()

	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "carrier-pigeon"
	mp := NewMetricsProvider(cfg)
	assert.Error(t, mp.Initialize(context.Background()))
}

func TestMetricsProvider_RegisterEventMetrics(t *testing.T) {
	t.Parallel()

	mp, reader := newTestProvider(t)
	publisher := infrastructure.NewLocalEventPublisher()
	mp.RegisterEventMetrics(publisher)

	published := []events.Event{
		events.TicketPurchasedEvent{TicketID: 1, Owner: "alice", Principal: 10},
		events.TicketPurchasedEvent{TicketID: 2, Owner: "bob", Principal: 10},
		events.TicketRefundedEvent{TicketID: 2, Owner: "bob", Principal: 10},
		events.DrawCompletedEvent{DrawNumber: 1, WinningTicketID: 1},
		events.WinningsClaimedEvent{TicketID: 1, Winner: "alice", Amount: 42},
		events.TreasuryWithdrawalEvent{Caller: "owner", Recipient: "owner", Amount: 5, Shortfall: 5},
		events.StrategyChangedEvent{OldStrategy: "hold", NewStrategy: "vault"},
		events.BalanceChangeEvent{AccountID: "alice", TransactionType: entities.TransactionTypeTicketPurchase},
	}
	for _, event := range published {
		require.NoError(t, publisher.Publish(event))
	}

	sums := collectSums(t, reader)
	assert.Equal(t, int64(2), sums[TicketsPurchasedTotal])
	assert.Equal(t, int64(1), sums[TicketsRefundedTotal])
	assert.Equal(t, int64(1), sums[TicketsLive])
	assert.Equal(t, int64(1), sums[DrawsCompletedTotal])
	assert.Equal(t, int64(42), sums[WinningsPaidTotal])
	assert.Equal(t, int64(1), sums[TreasuryWithdrawalsTotal])
	assert.Equal(t, int64(1), sums[StrategyChangesTotal])
	assert.Equal(t, int64(1), sums[BalanceTransactionsTotal])
}

func TestMetricsProvider_NATSPublished(t *testing.T) {
	t.Parallel()

	mp, reader := newTestProvider(t)
	mp.RecordNATSMessagePublished(string(events.EventTypeDrawCompleted))
	mp.RecordNATSMessagePublished(string(events.EventTypeTicketPurchased))

	assert.Equal(t, int64(2), collectSums(t, reader)[NATSMessagesPublishedTotal])
}

func TestClampInt64(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(7), clampInt64(7))
	assert.Equal(t, int64(1<<63-1), clampInt64(1<<63))
}
