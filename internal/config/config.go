package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	ierr "github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/errors"
	"github.com/basharjehadi/smart-rental-platform-clean-sub005/internal/types"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration is the root configuration of the lease lifecycle core
type Configuration struct {
	Deployment   DeploymentConfig   `mapstructure:"deployment" validate:"required"`
	Logging      LoggingConfig      `mapstructure:"logging" validate:"required"`
	Postgres     PostgresConfig     `mapstructure:"postgres" validate:"required"`
	Renewal      RenewalConfig      `mapstructure:"renewal" validate:"required"`
	Termination  TerminationConfig  `mapstructure:"termination" validate:"required"`
	Sweeper      SweeperConfig      `mapstructure:"sweeper" validate:"required"`
	Notification NotificationConfig `mapstructure:"notification" validate:"required"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	Contract     ContractConfig     `mapstructure:"contract"`
	SideEffects  SideEffectsConfig  `mapstructure:"side_effects"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Sentry       SentryConfig       `mapstructure:"sentry"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

type PostgresConfig struct {
	Host                   string `mapstructure:"host" validate:"required"`
	Port                   int    `mapstructure:"port" validate:"required"`
	User                   string `mapstructure:"user" validate:"required"`
	Password               string `mapstructure:"password"`
	DBName                 string `mapstructure:"dbname" validate:"required"`
	SSLMode                string `mapstructure:"sslmode" validate:"required"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" default:"10"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" default:"5"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" default:"60"`
	AutoMigrate            bool   `mapstructure:"auto_migrate" default:"false"`
}

// RenewalConfig controls the renewal negotiation engine
type RenewalConfig struct {
	ExpiryDays        int `mapstructure:"expiry_days" validate:"min=1"`
	DefaultTermMonths int `mapstructure:"default_term_months" validate:"min=1"`
	MaxTermMonths     int `mapstructure:"max_term_months" validate:"min=1"`
}

// TerminationConfig holds the fallback termination policy
type TerminationConfig struct {
	DefaultCutoffDay     int           `mapstructure:"default_cutoff_day" validate:"min=1,max=31"`
	DefaultMinNoticeDays int           `mapstructure:"default_min_notice_days" validate:"min=0"`
	DefaultTimezone      string        `mapstructure:"default_timezone" validate:"required"`
	PolicyCacheTTL       time.Duration `mapstructure:"policy_cache_ttl"`
}

type SweeperConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

type NotificationConfig struct {
	Backend        types.NotificationBackend `mapstructure:"backend" validate:"required"`
	Topic          string                    `mapstructure:"topic" validate:"required"`
	PublishRetries uint64                    `mapstructure:"publish_retries"`
	RetryInterval  time.Duration             `mapstructure:"retry_interval"`
}

type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	ClientID      string   `mapstructure:"client_id"`
	TLS           bool     `mapstructure:"tls"`
	UseSASL       bool     `mapstructure:"use_sasl"`
	SASLMechanism string   `mapstructure:"sasl_mechanism"`
	SASLUser      string   `mapstructure:"sasl_user"`
	SASLPassword  string   `mapstructure:"sasl_password"`
}

// ContractConfig points at the external contract generation service
type ContractConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
	RetryMax int           `mapstructure:"retry_max"`
}

type SideEffectsConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// NewConfig loads config.yaml, the optional .env file and RENTAL_* env overrides
func NewConfig() (*Configuration, error) {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath("./config")
	v.AddConfigPath(packageDir())

	v.SetEnvPrefix("RENTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// GetDefaultConfig returns the built-in defaults without touching files or env
func GetDefaultConfig() *Configuration {
	v := viper.New()
	setDefaults(v)

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("invalid built-in configuration defaults: %v", err))
	}
	return &cfg
}

// Validate rejects combinations the core cannot run with
func (c *Configuration) Validate() error {
	if c.Termination.DefaultCutoffDay < 1 || c.Termination.DefaultCutoffDay > 31 {
		return ierr.NewErrorf("termination.default_cutoff_day must be between 1 and 31, got %d", c.Termination.DefaultCutoffDay).
			WithHint("Set a cutoff day between 1 and 31").
			Mark(ierr.ErrValidation)
	}
	if c.Termination.DefaultMinNoticeDays < 0 {
		return ierr.NewError("termination.default_min_notice_days cannot be negative").
			WithHint("Set a notice window of zero or more days").
			Mark(ierr.ErrValidation)
	}
	if err := types.ValidateTimezone(c.Termination.DefaultTimezone); err != nil {
		return ierr.WithError(err).
			WithHintf("Unknown default termination timezone %q", c.Termination.DefaultTimezone).
			Mark(ierr.ErrValidation)
	}
	if c.Renewal.ExpiryDays < 1 || c.Renewal.DefaultTermMonths < 1 {
		return ierr.NewError("renewal.expiry_days and renewal.default_term_months must be positive").
			WithHint("Renewal expiry and default term must be at least 1").
			Mark(ierr.ErrValidation)
	}
	if c.Renewal.MaxTermMonths < c.Renewal.DefaultTermMonths {
		return ierr.NewError("renewal.max_term_months is lower than renewal.default_term_months").
			WithHint("Maximum renewal term must not be lower than the default term").
			Mark(ierr.ErrValidation)
	}
	if err := c.Notification.Backend.Validate(); err != nil {
		return err
	}
	if c.Notification.Backend == types.NotificationBackendKafka && len(c.Kafka.Brokers) == 0 {
		return ierr.NewError("kafka notification backend requires kafka.brokers").
			WithHint("Configure at least one Kafka broker").
			Mark(ierr.ErrValidation)
	}
	if c.Sweeper.Enabled && c.Sweeper.Interval <= 0 {
		return ierr.NewError("sweeper.interval must be positive when the sweeper is enabled").
			WithHint("Set sweeper.interval, e.g. 5m").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// GetDSN renders the postgres connection string
func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.RunModeWorker)
	v.SetDefault("logging.level", types.LogLevelInfo)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "rental")
	v.SetDefault("postgres.dbname", "rental")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minutes", 60)

	v.SetDefault("renewal.expiry_days", 7)
	v.SetDefault("renewal.default_term_months", 12)
	v.SetDefault("renewal.max_term_months", 120)

	v.SetDefault("termination.default_cutoff_day", 10)
	v.SetDefault("termination.default_min_notice_days", 30)
	v.SetDefault("termination.default_timezone", "Europe/Warsaw")
	v.SetDefault("termination.policy_cache_ttl", 15*time.Minute)

	v.SetDefault("sweeper.enabled", true)
	v.SetDefault("sweeper.interval", 5*time.Minute)

	v.SetDefault("notification.backend", types.NotificationBackendGoChannel)
	v.SetDefault("notification.topic", "lease_notifications")
	v.SetDefault("notification.publish_retries", 3)
	v.SetDefault("notification.retry_interval", 200*time.Millisecond)

	v.SetDefault("kafka.client_id", "lease-core")

	v.SetDefault("contract.timeout", 10*time.Second)
	v.SetDefault("contract.retry_max", 3)

	v.SetDefault("side_effects.timeout", 30*time.Second)

	v.SetDefault("cache.enabled", true)

	v.SetDefault("sentry.sample_rate", 1.0)
}

// packageDir locates config.yaml when binaries run outside the repository root
func packageDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		dir, _ := os.Getwd()
		return dir
	}
	return filepath.Dir(file)
}
