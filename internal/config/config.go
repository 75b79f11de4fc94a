package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file kept at the root of the data directory.
const FileName = "wealthtracker.yaml"

// Config represents the top-level wealthtracker.yaml configuration.
// Environment variables override file values after load.
type Config struct {
	Currency      string              `yaml:"currency"`
	LogLevel      string              `yaml:"log_level"`
	LogPretty     bool                `yaml:"log_pretty"`
	Server        ServerConfig        `yaml:"server"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Schedules     SchedulesConfig     `yaml:"schedules"`
	Cache         CacheConfig         `yaml:"cache"`
	Backup        BackupConfig        `yaml:"backup"`
	Git           GitConfig           `yaml:"git"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	CORSOrigins    []string `yaml:"cors_origins,omitempty"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	// PlanRatePerMin bounds how many payoff plan/compare requests a
	// client may make per minute.
	PlanRatePerMin int `yaml:"plan_rate_per_min"`
}

// NotificationsConfig holds rule thresholds.
type NotificationsConfig struct {
	BudgetWarningPercent   float64 `yaml:"budget_warning_percent"`
	LowBalanceThreshold    float64 `yaml:"low_balance_threshold"`
	LargeTransactionAmount float64 `yaml:"large_transaction_amount"`
	DueSoonDays            int     `yaml:"due_soon_days"`
}

// SchedulesConfig holds cron specs for background jobs.
type SchedulesConfig struct {
	Recurring     string `yaml:"recurring"`
	Notifications string `yaml:"notifications"`
	Backup        string `yaml:"backup"`
}

// CacheConfig controls the payoff result cache. An empty RedisAddr
// keeps the cache in-process.
type CacheConfig struct {
	RedisAddr  string `yaml:"redis_addr,omitempty"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// BackupConfig controls snapshots and optional offsite upload.
type BackupConfig struct {
	Keep     int    `yaml:"keep"`
	S3Bucket string `yaml:"s3_bucket,omitempty"`
	S3Region string `yaml:"s3_region,omitempty"`
	S3Prefix string `yaml:"s3_prefix,omitempty"`
}

// GitConfig controls git integration for the data directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a wealthtracker.yaml file from disk and applies
// environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to defaults (plus
// environment overrides) when no config file exists yet.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		cfg.applyEnv()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data dir.
func Default() *Config {
	return &Config{
		Currency:  "USD",
		LogLevel:  "info",
		LogPretty: true,
		Server: ServerConfig{
			Port:           8090,
			CORSOrigins:    []string{"*"},
			TimeoutSeconds: 60,
			PlanRatePerMin: 30,
		},
		Notifications: NotificationsConfig{
			BudgetWarningPercent:   80,
			LowBalanceThreshold:    100,
			LargeTransactionAmount: 500,
			DueSoonDays:            3,
		},
		Schedules: SchedulesConfig{
			Recurring:     "0 6 * * *",
			Notifications: "0 * * * *",
			Backup:        "0 3 * * *",
		},
		Cache: CacheConfig{
			TTLSeconds: 300,
		},
		Backup: BackupConfig{
			Keep: 5,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "WealthTracker",
			AuthorEmail: "tracker@wealthtracker.dev",
		},
	}
}

// Validate checks ranges that would break services downstream.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.Notifications.BudgetWarningPercent < 0 || c.Notifications.BudgetWarningPercent > 100 {
		return fmt.Errorf("budget warning percent %v out of range", c.Notifications.BudgetWarningPercent)
	}
	if c.Backup.Keep < 1 {
		return fmt.Errorf("backup keep %d must be at least 1", c.Backup.Keep)
	}
	return nil
}

// applyEnv layers environment variables over file values. A .env file
// in the working directory is honored when present.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Server.Port = getEnvAsInt("PORT", c.Server.Port)
	c.Cache.RedisAddr = getEnv("REDIS_ADDR", c.Cache.RedisAddr)
	c.Backup.S3Bucket = getEnv("S3_BUCKET", c.Backup.S3Bucket)
	c.Backup.S3Region = getEnv("S3_REGION", c.Backup.S3Region)
	c.Backup.S3Prefix = getEnv("S3_PREFIX", c.Backup.S3Prefix)
	c.Git.AutoCommit = getEnvAsBool("GIT_AUTO_COMMIT", c.Git.AutoCommit)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
