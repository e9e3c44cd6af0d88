package observability

// Metric name prefixes
const (
	MetricPrefix = "prizepool"
)

// Metric names
const (
	// Ticket metrics
	TicketsPurchasedTotal = MetricPrefix + ".tickets.purchased_total"
	TicketsRefundedTotal  = MetricPrefix + ".tickets.refunded_total"
	TicketsLive           = MetricPrefix + ".tickets.live"

	// Draw metrics
	DrawsCompletedTotal = MetricPrefix + ".draws.completed_total"
	WinningsPaidTotal   = MetricPrefix + ".winnings.paid_total"

	// Treasury metrics
	TreasuryWithdrawalsTotal = MetricPrefix + ".treasury.withdrawals_total"
	StrategyChangesTotal     = MetricPrefix + ".treasury.strategy_changes_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Balance metrics
	BalanceTransactionsTotal = MetricPrefix + ".balance.transactions_total"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelStrategy  = "strategy"
	LabelShortfall = "below_principal"
)

// Exporter types
const (
	ExporterConsole = "console"
	ExporterOTLP    = "otlp"
	ExporterNone    = "none"
)
