package cmd

import (
	"context"
	"fmt"
	"time"

	"prizepool/application"
	"prizepool/bot"
	"prizepool/config"
	"prizepool/database"
	"prizepool/domain/entities"
	"prizepool/domain/events"
	"prizepool/domain/interfaces"
	"prizepool/domain/services"
	"prizepool/domain/strategy"
	"prizepool/infrastructure"
	"prizepool/infrastructure/observability"
	"prizepool/repository"
	"prizepool/repository/memory"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging applies the configured log level and format
func ConfigureLogging(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Warnf("Invalid LOG_LEVEL %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)
	log.Info("Starting prizepool...")

	// Storage
	repoFactory, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	// Event publishing
	eventPublisher, closeEvents, err := openEventPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeEvents()

	// Metrics
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	observability.GetMetrics().RegisterEventMetrics(eventPublisher)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
			log.WithError(err).Error("Error shutting down metrics")
		}
	}()

	// Lottery
	treasuryAccount := entities.AccountID(cfg.TreasuryAccount)
	strategies := strategy.NewRegistry(
		strategy.NewHoldStrategy(strategy.HoldName, treasuryAccount),
	)
	uowFactory := infrastructure.NewUnitOfWorkFactory(repoFactory, eventPublisher)
	handler := application.NewLotteryHandler(uowFactory, strategies, services.NewCryptoRandomness(), cfg.StartingBalance)

	state, ledger, err := handler.Initialize(ctx, application.LotterySettings{
		Owner:       entities.AccountID(cfg.OwnerAccount),
		Treasury:    treasuryAccount,
		TicketPrice: cfg.TicketPrice,
		Strategy:    cfg.Strategy,
	})
	if err != nil {
		return err
	}
	if state.TicketPrice != cfg.TicketPrice {
		log.WithFields(log.Fields{
			"stored_price":     state.TicketPrice,
			"configured_price": cfg.TicketPrice,
		}).Warn("TICKET_PRICE differs from the stored ticket price, keeping the stored one")
	}
	log.WithFields(log.Fields{
		"draw_number": state.DrawNumber(),
		"strategy":    ledger.StrategyName,
		"principal":   ledger.TotalPrincipal,
	}).Info("Lottery initialized")

	// Discord bot
	discordBot, err := bot.New(bot.Config{
		Token:            cfg.DiscordToken,
		GuildID:          cfg.GuildID,
		LotteryChannelID: cfg.LotteryChannelID,
		AdminIDs:         cfg.AdminDiscordIDs,
		Owner:            entities.AccountID(cfg.OwnerAccount),
		Decimals:         cfg.AmountDecimals,
		StrategyNames:    strategies.Names(),
	}, handler)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	defer func() {
		if err := discordBot.Close(); err != nil {
			log.WithError(err).Error("Error closing Discord bot")
		}
	}()

	// Scheduled draws
	if cfg.DrawEnabled {
		schedule := application.DrawSchedule{
			Interval: cfg.DrawInterval,
			Weekday:  cfg.DrawWeekday,
			Hour:     cfg.DrawHour,
		}
		worker := application.NewLotteryDrawWorker(handler, discordBot.GetDrawPoster(), schedule, entities.AccountID(cfg.OwnerAccount))
		stopWorker := worker.Start(ctx)
		defer stopWorker()
	}

	log.Infof("Prizepool is running in %s mode", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down prizepool...")
	return nil
}

// openStorage selects the configured storage backend
func openStorage(ctx context.Context, cfg *config.Config) (infrastructure.RepositoryFactory, func(), error) {
	if cfg.StorageBackend == config.StorageBackendMemory {
		log.Warn("Using in-memory storage, state is lost on restart")
		return memory.NewUnitOfWorkFactory(memory.NewStore()), func() {}, nil
	}

	databaseURL := cfg.GetDatabaseURL()
	if err := database.MigrateUp(databaseURL); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")

	return repository.NewUnitOfWorkFactory(db), func() {
		log.Info("Closing database connection...")
		db.Close()
	}, nil
}

// eventPublisher publishes domain events and accepts in-process handlers
type eventPublisher interface {
	interfaces.EventPublisher
	RegisterLocalHandler(eventType events.EventType, handler infrastructure.EventHandler)
}

// openEventPublisher connects to NATS when enabled, otherwise events stay in process
func openEventPublisher(ctx context.Context, cfg *config.Config) (eventPublisher, func(), error) {
	if !cfg.NATSEnabled {
		log.Info("NATS disabled, dispatching events locally")
		return infrastructure.NewLocalEventPublisher(), func() {}, nil
	}

	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	subjectMapper := infrastructure.NewEventSubjectMapper()
	if err := natsClient.EnsureStream(infrastructure.DomainEventStream, subjectMapper.GetAllSubjects()); err != nil {
		natsClient.Close()
		return nil, nil, fmt.Errorf("failed to ensure event stream: %w", err)
	}

	publisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)
	publisher.OnPublished(func(eventType events.EventType) {
		observability.GetMetrics().RecordNATSMessagePublished(string(eventType))
	})

	return publisher, func() {
		if err := natsClient.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS connection")
		}
	}, nil
}
