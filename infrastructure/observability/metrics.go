package observability

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"prizepool/config"
	"prizepool/domain/events"
	"prizepool/infrastructure"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics for the lottery service
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	// Metric instruments
	ticketsPurchasedCounter      metric.Int64Counter
	ticketsRefundedCounter       metric.Int64Counter
	ticketsLiveGauge             metric.Int64UpDownCounter
	drawsCompletedCounter        metric.Int64Counter
	winningsPaidCounter          metric.Int64Counter
	treasuryWithdrawalsCounter   metric.Int64Counter
	strategyChangesCounter       metric.Int64Counter
	natsMessagesPublishedCounter metric.Int64Counter
	balanceTransactionsCounter   metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	var (
		exporter sdkmetric.Exporter
		err      error
	)
	switch mp.config.OTelExporterType {
	case ExporterConsole:
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case ExporterOTLP:
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case ExporterNone:
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
	)
	if err := mp.initializeWithReader(reader); err != nil {
		return err
	}

	// Set as global meter provider
	otel.SetMeterProvider(mp.meterProvider)

	log.Info("Metrics provider initialized successfully")
	return nil
}

// initializeWithReader builds the meter provider around reader. Callers hold mp.mu.
func (mp *MetricsProvider) initializeWithReader(reader sdkmetric.Reader) error {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	mp.meter = mp.meterProvider.Meter("prizepool")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.enabled = true
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
		unit        string
	}{
		{&mp.ticketsPurchasedCounter, TicketsPurchasedTotal, "Total number of tickets purchased", "1"},
		{&mp.ticketsRefundedCounter, TicketsRefundedTotal, "Total number of tickets refunded", "1"},
		{&mp.drawsCompletedCounter, DrawsCompletedTotal, "Total number of completed draws", "1"},
		{&mp.winningsPaidCounter, WinningsPaidTotal, "Total prize value paid to winners", "{base_unit}"},
		{&mp.treasuryWithdrawalsCounter, TreasuryWithdrawalsTotal, "Total number of owner withdrawals from the treasury", "1"},
		{&mp.strategyChangesCounter, StrategyChangesTotal, "Total number of strategy swaps", "1"},
		{&mp.natsMessagesPublishedCounter, NATSMessagesPublishedTotal, "Total number of NATS messages published", "1"},
		{&mp.balanceTransactionsCounter, BalanceTransactionsTotal, "Total number of balance transactions", "1"},
	}

	for _, c := range counters {
		counter, err := mp.meter.Int64Counter(c.name,
			metric.WithDescription(c.description),
			metric.WithUnit(c.unit),
		)
		if err != nil {
			return fmt.Errorf("failed to create counter %s: %w", c.name, err)
		}
		*c.target = counter
	}

	var err error
	mp.ticketsLiveGauge, err = mp.meter.Int64UpDownCounter(
		TicketsLive,
		metric.WithDescription("Current number of live tickets"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create live tickets gauge: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider == nil {
		return nil
	}

	if err := mp.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	mp.enabled = false
	log.Info("Metrics provider shut down successfully")
	return nil
}

// RecordTicketPurchased records a minted ticket
func (mp *MetricsProvider) RecordTicketPurchased() {
	if !mp.isEnabled() {
		return
	}
	ctx := context.Background()
	mp.ticketsPurchasedCounter.Add(ctx, 1)
	mp.ticketsLiveGauge.Add(ctx, 1)
}

// RecordTicketRefunded records a burned ticket
func (mp *MetricsProvider) RecordTicketRefunded() {
	if !mp.isEnabled() {
		return
	}
	ctx := context.Background()
	mp.ticketsRefundedCounter.Add(ctx, 1)
	mp.ticketsLiveGauge.Add(ctx, -1)
}

// RecordDrawCompleted records a completed draw
func (mp *MetricsProvider) RecordDrawCompleted() {
	if !mp.isEnabled() {
		return
	}
	mp.drawsCompletedCounter.Add(context.Background(), 1)
}

// RecordWinningsPaid records a prize payout of amount base units
func (mp *MetricsProvider) RecordWinningsPaid(amount uint64) {
	if !mp.isEnabled() {
		return
	}
	mp.winningsPaidCounter.Add(context.Background(), clampInt64(amount))
}

// RecordTreasuryWithdrawal records an owner withdrawal
func (mp *MetricsProvider) RecordTreasuryWithdrawal(belowPrincipal bool) {
	if !mp.isEnabled() {
		return
	}
	mp.treasuryWithdrawalsCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.Bool(LabelShortfall, belowPrincipal)),
	)
}

// RecordStrategyChange records a strategy swap
func (mp *MetricsProvider) RecordStrategyChange(newStrategy string) {
	if !mp.isEnabled() {
		return
	}
	mp.strategyChangesCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelStrategy, newStrategy)),
	)
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}
	mp.natsMessagesPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelEventType, eventType)),
	)
}

// RecordBalanceTransaction records a balance transaction
func (mp *MetricsProvider) RecordBalanceTransaction(transactionType string) {
	if !mp.isEnabled() {
		return
	}
	mp.balanceTransactionsCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelType, transactionType)),
	)
}

// HandlerRegistry accepts in-process event handlers
type HandlerRegistry interface {
	RegisterLocalHandler(eventType events.EventType, handler infrastructure.EventHandler)
}

// RegisterEventMetrics records domain events as they are published
func (mp *MetricsProvider) RegisterEventMetrics(registry HandlerRegistry) {
	registry.RegisterLocalHandler(events.EventTypeTicketPurchased, func(context.Context, events.Event) error {
		mp.RecordTicketPurchased()
		return nil
	})
	registry.RegisterLocalHandler(events.EventTypeTicketRefunded, func(context.Context, events.Event) error {
		mp.RecordTicketRefunded()
		return nil
	})
	registry.RegisterLocalHandler(events.EventTypeDrawCompleted, func(context.Context, events.Event) error {
		mp.RecordDrawCompleted()
		return nil
	})
	registry.RegisterLocalHandler(events.EventTypeWinningsClaimed, func(_ context.Context, event events.Event) error {
		if e, ok := event.(events.WinningsClaimedEvent); ok {
			mp.RecordWinningsPaid(e.Amount)
		}
		return nil
	})
	registry.RegisterLocalHandler(events.EventTypeTreasuryWithdrawal, func(_ context.Context, event events.Event) error {
		if e, ok := event.(events.TreasuryWithdrawalEvent); ok {
			mp.RecordTreasuryWithdrawal(e.Shortfall > 0)
		}
		return nil
	})
	registry.RegisterLocalHandler(events.EventTypeStrategyChanged, func(_ context.Context, event events.Event) error {
		if e, ok := event.(events.StrategyChangedEvent); ok {
			mp.RecordStrategyChange(e.NewStrategy)
		}
		return nil
	})
	registry.RegisterLocalHandler(events.EventTypeBalanceChange, func(_ context.Context, event events.Event) error {
		if e, ok := event.(events.BalanceChangeEvent); ok {
			mp.RecordBalanceTransaction(string(e.TransactionType))
		}
		return nil
	})
}

// isEnabled checks if metrics are enabled and initialized
func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.enabled
}

func clampInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
