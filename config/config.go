package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"prizepool/database"
	"prizepool/domain/utils"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken     string
	GuildID          string // Guild the slash commands are registered in, empty for global
	LotteryChannelID string // Channel draw results are announced in
	AdminDiscordIDs  []string

	// Storage configuration
	StorageBackend string
	DatabaseURL    string
	DatabaseName   string

	// Lottery configuration
	OwnerAccount    string
	TreasuryAccount string
	TicketPrice     uint64 // Base units
	AmountDecimals  int32  // Base units per display unit, as a power of ten
	StartingBalance uint64 // Base units credited to new accounts
	Strategy        string // Strategy the treasury starts with, empty to hold funds idle

	// Draw schedule
	DrawInterval time.Duration // Fixed cadence; zero selects the weekly schedule
	DrawWeekday  time.Weekday
	DrawHour     int
	DrawEnabled  bool

	// NATS configuration
	NATSEnabled bool
	NATSServers string // NATS server addresses (comma-separated)

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelServiceName          string
	OTelExporterType         string // console, otlp or none
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int

	// Logging
	LogLevel  string
	LogFormat string // json or text

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = Load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsAdmin reports whether a Discord user may run administrative commands
func (c *Config) IsAdmin(discordID string) bool {
	for _, id := range c.AdminDiscordIDs {
		if id == discordID {
			return true
		}
	}
	return false
}

// Load reads an optional .env file and then the environment
func Load() (*Config, error) {
	envFile := getEnvWithDefault("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	return load()
}

// LoadDatabaseURL reads only the database settings, for tools that do not run the bot
func LoadDatabaseURL() (string, error) {
	envFile := getEnvWithDefault("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	baseURL := os.Getenv("DATABASE_URL")
	if baseURL == "" {
		return "", fmt.Errorf("DATABASE_URL is required")
	}
	return database.ConstructDatabaseURL(baseURL, os.Getenv("DATABASE_NAME")), nil
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		GuildID:          os.Getenv("GUILD_ID"),
		LotteryChannelID: os.Getenv("LOTTERY_CHANNEL_ID"),
		AdminDiscordIDs:  splitList(os.Getenv("ADMIN_DISCORD_IDS")),

		// Storage
		StorageBackend: getEnvWithDefault("STORAGE_BACKEND", StorageBackendPostgres),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DatabaseName:   os.Getenv("DATABASE_NAME"),

		// Lottery
		OwnerAccount:    os.Getenv("OWNER_ACCOUNT"),
		TreasuryAccount: getEnvWithDefault("TREASURY_ACCOUNT", "treasury"),
		AmountDecimals:  18,
		Strategy:        getEnvWithDefault("STRATEGY", "hold"),

		// Draws, Friday 2pm UTC
		DrawWeekday: time.Friday,
		DrawHour:    14,
		DrawEnabled: true,

		// NATS
		NATSEnabled: true,
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		// OpenTelemetry
		OTelEnabled:              false,
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "prizepool"),
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "otel-collector:4317"),
		OTelExportIntervalMillis: 60000,

		// Logging
		LogLevel:  getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvWithDefault("LOG_FORMAT", "text"),

		// Environment
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if decimals := os.Getenv("AMOUNT_DECIMALS"); decimals != "" {
		parsed, err := strconv.ParseInt(decimals, 10, 32)
		if err != nil || parsed < 0 || parsed > 18 {
			return nil, fmt.Errorf("AMOUNT_DECIMALS must be between 0 and 18")
		}
		config.AmountDecimals = int32(parsed)
	}

	// Amounts are given in display units and stored in base units
	var err error
	if config.TicketPrice, err = parseAmount("TICKET_PRICE", "0.1", config.AmountDecimals); err != nil {
		return nil, err
	}
	if config.StartingBalance, err = parseAmount("STARTING_BALANCE", "5", config.AmountDecimals); err != nil {
		return nil, err
	}

	if interval := os.Getenv("DRAW_INTERVAL"); interval != "" {
		if config.DrawInterval, err = time.ParseDuration(interval); err != nil {
			return nil, fmt.Errorf("invalid DRAW_INTERVAL: %w", err)
		}
	}
	if weekday := os.Getenv("DRAW_WEEKDAY"); weekday != "" {
		if config.DrawWeekday, err = parseWeekday(weekday); err != nil {
			return nil, err
		}
	}
	if hour := os.Getenv("DRAW_HOUR"); hour != "" {
		parsed, err := strconv.Atoi(hour)
		if err != nil || parsed < 0 || parsed > 23 {
			return nil, fmt.Errorf("DRAW_HOUR must be between 0 and 23")
		}
		config.DrawHour = parsed
	}
	if enabled := os.Getenv("DRAW_ENABLED"); enabled != "" {
		config.DrawEnabled = enabled == "true"
	}
	if enabled := os.Getenv("NATS_ENABLED"); enabled != "" {
		config.NATSEnabled = enabled == "true"
	}
	if enabled := os.Getenv("OTEL_ENABLED"); enabled != "" {
		config.OTelEnabled = enabled == "true"
	}
	if interval := os.Getenv("OTEL_EXPORT_INTERVAL_MILLIS"); interval != "" {
		if parsed, err := strconv.Atoi(interval); err == nil && parsed > 0 {
			config.OTelExportIntervalMillis = parsed
		}
	}

	if config.Environment != "test" {
		if err := config.validate(); err != nil {
			return nil, err
		}
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.OwnerAccount == "" {
		return fmt.Errorf("OWNER_ACCOUNT is required")
	}
	if c.OwnerAccount == c.TreasuryAccount {
		return fmt.Errorf("OWNER_ACCOUNT and TREASURY_ACCOUNT must differ")
	}
	if c.TicketPrice == 0 {
		return fmt.Errorf("TICKET_PRICE must be positive")
	}
	switch c.StorageBackend {
	case StorageBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	case StorageBackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	return nil
}

func parseAmount(key, defaultValue string, decimals int32) (uint64, error) {
	amount, err := utils.ParseAmount(getEnvWithDefault(key, defaultValue), decimals)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return amount, nil
}

func parseWeekday(value string) (time.Weekday, error) {
	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.EqualFold(day.String(), value) {
			return day, nil
		}
	}
	return 0, fmt.Errorf("invalid DRAW_WEEKDAY %q", value)
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:              "test",
		StorageBackend:           StorageBackendMemory,
		OwnerAccount:             "owner",
		TreasuryAccount:          "treasury",
		TicketPrice:              100_000_000_000_000_000,
		AmountDecimals:           18,
		StartingBalance:          5_000_000_000_000_000_000,
		Strategy:                 "hold",
		DrawWeekday:              time.Friday,
		DrawHour:                 14,
		AdminDiscordIDs:          []string{"999999"},
		OTelExporterType:         "none",
		OTelServiceName:          "prizepool",
		OTelExportIntervalMillis: 60000,
		LogLevel:                 "info",
		LogFormat:                "text",
	}
}
