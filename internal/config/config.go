// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBookingHold         = 10 * time.Minute
	DefaultMatchPaymentHold    = 5 * time.Minute
	DefaultSweepInterval       = 60 * time.Second
	DefaultEscalationCron      = "0 * * * *"
	DefaultCorrectionSLA       = 72 * time.Hour
	DefaultSweepTimeout        = 30 * time.Second
	DefaultMatchMaxPlayers     = 4
	DefaultRankingPageLimit    = 20
	DefaultRankingMaxPageLimit = 100
	DefaultHoldMaxPerActor     = 10
	DefaultHoldMaxPerIP        = 30
)

// DatabaseConfig selects the store. Only the embedded sqlite driver is linked in.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

// Duration accepts Go duration strings ("90s", "72h") in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type BookingConfig struct {
	HoldDuration     Duration `yaml:"hold_duration"`
	MatchPaymentHold Duration `yaml:"match_payment_hold"`
	MatchMaxPlayers  int64    `yaml:"match_max_players"`
	DefaultTimezone  string   `yaml:"default_timezone"`
}

type SweeperConfig struct {
	Enabled        *bool    `yaml:"enabled"`
	Interval       Duration `yaml:"interval"`
	EscalationCron string   `yaml:"escalation_cron"`
	CorrectionSLA  Duration `yaml:"correction_sla"`
	Timeout        Duration `yaml:"timeout"`
}

// IsEnabled reports whether the sweeper jobs should be registered; absent means enabled.
func (s SweeperConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

type RankingConfig struct {
	PageLimit    int `yaml:"page_limit"`
	MaxPageLimit int `yaml:"max_page_limit"`
}

// RateLimitConfig caps payment holds opened per actor and per client IP each hour.
type RateLimitConfig struct {
	Enabled                *bool `yaml:"enabled"`
	HoldMaxPerActorPerHour int   `yaml:"hold_max_per_actor_per_hour"`
	HoldMaxIPPerHour       int   `yaml:"hold_max_ip_per_hour"`
	TrustProxy             bool  `yaml:"trust_proxy"`
}

func (r RateLimitConfig) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

type TracingConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
		SecretKey   string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Booking   BookingConfig   `yaml:"booking"`
	Sweeper   SweeperConfig   `yaml:"sweeper"`
	Ranking   RankingConfig   `yaml:"ranking"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Tracing   TracingConfig   `yaml:"tracing"`

	Features struct {
		EnableMetrics bool `yaml:"enable_metrics"`
		EnableTracing bool `yaml:"enable_tracing"`
		EnableDebug   bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

// envOverrides holds values that are read from the process environment after
// the YAML file. Empty values leave the YAML value untouched.
type envOverrides struct {
	SecretKey        string `envconfig:"APP_SECRET_KEY"`
	Port             int    `envconfig:"RANKEATE_PORT"`
	DatabaseFilename string `envconfig:"RANKEATE_DATABASE_FILENAME"`
	Environment      string `envconfig:"RANKEATE_ENVIRONMENT"`
	TracingEndpoint  string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Read and parse YAML config
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Load sensitive values and deployment overrides from environment
	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML and fills defaults. It does not read the environment or validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return err
	}
	c.App.SecretKey = env.SecretKey
	if env.Port != 0 {
		c.App.Port = env.Port
	}
	if env.DatabaseFilename != "" {
		c.Database.Filename = env.DatabaseFilename
	}
	if env.Environment != "" {
		c.App.Environment = env.Environment
	}
	if env.TracingEndpoint != "" {
		c.Tracing.Endpoint = env.TracingEndpoint
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.Booking.HoldDuration == 0 {
		c.Booking.HoldDuration = Duration(DefaultBookingHold)
	}
	if c.Booking.MatchPaymentHold == 0 {
		c.Booking.MatchPaymentHold = Duration(DefaultMatchPaymentHold)
	}
	if c.Booking.MatchMaxPlayers == 0 {
		c.Booking.MatchMaxPlayers = DefaultMatchMaxPlayers
	}
	if c.Sweeper.Interval == 0 {
		c.Sweeper.Interval = Duration(DefaultSweepInterval)
	}
	if c.Sweeper.EscalationCron == "" {
		c.Sweeper.EscalationCron = DefaultEscalationCron
	}
	if c.Sweeper.CorrectionSLA == 0 {
		c.Sweeper.CorrectionSLA = Duration(DefaultCorrectionSLA)
	}
	if c.Sweeper.Timeout == 0 {
		c.Sweeper.Timeout = Duration(DefaultSweepTimeout)
	}
	if c.Ranking.PageLimit == 0 {
		c.Ranking.PageLimit = DefaultRankingPageLimit
	}
	if c.Ranking.MaxPageLimit == 0 {
		c.Ranking.MaxPageLimit = DefaultRankingMaxPageLimit
	}
	if c.RateLimit.HoldMaxPerActorPerHour == 0 {
		c.RateLimit.HoldMaxPerActorPerHour = DefaultHoldMaxPerActor
	}
	if c.RateLimit.HoldMaxIPPerHour == 0 {
		c.RateLimit.HoldMaxIPPerHour = DefaultHoldMaxPerIP
	}
	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = "localhost:4317"
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	// Validate based on database driver
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Booking.HoldDuration.Std() <= 0 {
		return fmt.Errorf("booking hold_duration must be positive")
	}
	if c.Booking.MatchPaymentHold.Std() <= 0 {
		return fmt.Errorf("booking match_payment_hold must be positive")
	}
	if c.Booking.MatchMaxPlayers < 2 {
		return fmt.Errorf("booking match_max_players must be at least 2")
	}
	if c.Booking.DefaultTimezone != "" {
		if _, err := time.LoadLocation(c.Booking.DefaultTimezone); err != nil {
			return fmt.Errorf("booking default_timezone: %w", err)
		}
	}
	if c.Sweeper.Interval.Std() < time.Second {
		return fmt.Errorf("sweeper interval must be at least 1s")
	}
	if _, err := cron.ParseStandard(c.Sweeper.EscalationCron); err != nil {
		return fmt.Errorf("sweeper escalation_cron: %w", err)
	}
	if c.Sweeper.CorrectionSLA.Std() <= 0 {
		return fmt.Errorf("sweeper correction_sla must be positive")
	}
	if c.Ranking.PageLimit <= 0 || c.Ranking.PageLimit > c.Ranking.MaxPageLimit {
		return fmt.Errorf("ranking page_limit must be between 1 and %d", c.Ranking.MaxPageLimit)
	}
	if c.RateLimit.HoldMaxPerActorPerHour < 0 || c.RateLimit.HoldMaxIPPerHour < 0 {
		return fmt.Errorf("rate_limit values must not be negative")
	}

	return nil
}

// DefaultLocation returns the configured fallback timezone for clubs without one.
func (c *Config) DefaultLocation() *time.Location {
	if c.Booking.DefaultTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Booking.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
