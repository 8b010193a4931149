package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// HTTP configuration
	ListenAddr string

	// Account/ledger service. Empty means the in-memory development
	// ledger is used.
	LedgerURL string

	// Casino configuration
	MaxBetFloor      int64         // lower bound for owner-set max bets
	DefaultMaxBet    int64         // max bet on freshly created/claimed tables
	ClaimFee         int64         // points charged to claim an unclaimed table
	DefaultBankroll  int64         // bankroll on a newly (re)claimed table
	BuyBackWindow    time.Duration // time a dispossessed owner has to decide
	ShortfallDivisor int64         // shortfall points per buy-back point offered
	SlotsTenure      time.Duration // slots ownership duration between draws
	DrawCooldown     time.Duration // re-entry block after relinquishing slots
	SweepInterval    time.Duration // background expiry/draw sweep cadence
	HistoryLimit     int           // settlements returned per history call

	// Environment
	Environment string // "development", "test" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ListenAddr:  os.Getenv("LISTEN_ADDR"),
		LedgerURL:   os.Getenv("LEDGER_URL"),

		// Casino settings with defaults
		MaxBetFloor:      100,
		DefaultMaxBet:    10000,
		ClaimFee:         50000,
		DefaultBankroll:  100000,
		BuyBackWindow:    24 * time.Hour,
		ShortfallDivisor: 100,
		SlotsTenure:      72 * time.Hour,
		DrawCooldown:     24 * time.Hour,
		SweepInterval:    time.Minute,
		HistoryLimit:     50,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
	}

	// Override defaults if environment variables are set
	overrideInt64(&config.MaxBetFloor, "MAX_BET_FLOOR")
	overrideInt64(&config.DefaultMaxBet, "DEFAULT_MAX_BET")
	overrideInt64(&config.ClaimFee, "CLAIM_FEE")
	overrideInt64(&config.DefaultBankroll, "DEFAULT_BANKROLL")
	overrideInt64(&config.ShortfallDivisor, "SHORTFALL_DIVISOR")
	overrideDuration(&config.BuyBackWindow, "BUY_BACK_WINDOW")
	overrideDuration(&config.SlotsTenure, "SLOTS_TENURE")
	overrideDuration(&config.DrawCooldown, "DRAW_COOLDOWN")
	overrideDuration(&config.SweepInterval, "SWEEP_INTERVAL")

	if limit := os.Getenv("HISTORY_LIMIT"); limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil {
			config.HistoryLimit = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment == "production" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.LedgerURL == "" {
			return nil, fmt.Errorf("LEDGER_URL is required")
		}
	}

	return config, nil
}

func overrideInt64(target *int64, key string) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			*target = parsed
		}
	}
}

func overrideDuration(target *time.Duration, key string) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			*target = parsed
		}
	}
}
