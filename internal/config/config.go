package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "townhall.config"

const DefaultConfigPath = "/etc/townhall/townhall.yaml"

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

// Config is built once at startup and handed to every component that needs it.
type Config struct {
	AppEnv string `yaml:"appEnv" envconfig:"APP_ENV"`
	Port   uint   `yaml:"port"   envconfig:"PORT"`

	DBDriver   string `yaml:"dbDriver"   envconfig:"DB_DRIVER"`
	PGHost     string `yaml:"pgHost"     envconfig:"PG_HOST"`
	PGPort     string `yaml:"pgPort"     envconfig:"PG_PORT"`
	PGUser     string `yaml:"pgUser"     envconfig:"PG_USER"`
	PGPassword string `yaml:"pgPassword" envconfig:"PG_PASSWORD"`
	PGDatabase string `yaml:"pgDb"       envconfig:"PG_DB"`
	SQLitePath string `yaml:"sqlitePath" envconfig:"SQLITE_PATH"`

	RedisEnabled  bool   `yaml:"redisEnabled"  envconfig:"REDIS_ENABLED"`
	RedisHost     string `yaml:"redisHost"     envconfig:"REDIS_HOST"`
	RedisPort     string `yaml:"redisPort"     envconfig:"REDIS_PORT"`
	RedisPassword string `yaml:"redisPassword" envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redisDb"       envconfig:"REDIS_DB"`

	JWTSecret  string        `yaml:"jwtSecret"  envconfig:"JWT_SECRET"`
	JWTTTL     time.Duration `yaml:"jwtTtl"     envconfig:"JWT_TTL"`
	CronSecret string        `yaml:"cronSecret" envconfig:"CRON_SECRET"`

	DuplicateRadiusMeters     float64       `yaml:"duplicateRadiusMeters"     envconfig:"DUPLICATE_RADIUS_METERS"`
	VerificationRadiusMeters  float64       `yaml:"verificationRadiusMeters"  envconfig:"VERIFICATION_RADIUS_METERS"`
	MaxIssuesPerWindow        int           `yaml:"maxIssuesPerWindow"        envconfig:"MAX_ISSUES_PER_WINDOW"`
	MaxVerificationsPerWindow int           `yaml:"maxVerificationsPerWindow" envconfig:"MAX_VERIFICATIONS_PER_WINDOW"`
	RateLimitWindow           time.Duration `yaml:"rateLimitWindow"           envconfig:"RATE_LIMIT_WINDOW"`

	WeeklyResetCheckInterval time.Duration `yaml:"weeklyResetCheckInterval" envconfig:"WEEKLY_RESET_CHECK_INTERVAL"`
	PushWorkers              int           `yaml:"pushWorkers"              envconfig:"PUSH_WORKERS"`
	PushDedupeTTL            time.Duration `yaml:"pushDedupeTtl"            envconfig:"PUSH_DEDUPE_TTL"`
}

// Default returns the configuration used when neither a file nor the environment say otherwise.
func Default() *Config {
	return &Config{
		AppEnv:                    "development",
		Port:                      8080,
		DBDriver:                  DriverPostgres,
		PGHost:                    "localhost",
		PGPort:                    "5432",
		SQLitePath:                "townhall.db",
		RedisEnabled:              true,
		RedisHost:                 "localhost",
		RedisPort:                 "6379",
		JWTTTL:                    7 * 24 * time.Hour,
		DuplicateRadiusMeters:     50,
		VerificationRadiusMeters:  500,
		MaxIssuesPerWindow:        5,
		MaxVerificationsPerWindow: 20,
		RateLimitWindow:           24 * time.Hour,
		WeeklyResetCheckInterval:  time.Hour,
		PushWorkers:               2,
		PushDedupeTTL:             10 * time.Minute,
	}
}

// LoadConfig applies defaults, then the YAML file (if any), then environment variables.
func LoadConfig(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		if _, err := os.Stat(DefaultConfigPath); err == nil {
			configFile = DefaultConfigPath
		}
	}

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DBDriver != DriverPostgres && c.DBDriver != DriverSQLite {
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver))
	}
	if c.DuplicateRadiusMeters <= 0 {
		errs = append(errs, errors.New("DUPLICATE_RADIUS_METERS must be positive"))
	}
	if c.VerificationRadiusMeters <= 0 {
		errs = append(errs, errors.New("VERIFICATION_RADIUS_METERS must be positive"))
	}
	if c.MaxIssuesPerWindow <= 0 || c.MaxVerificationsPerWindow <= 0 {
		errs = append(errs, errors.New("rate limit thresholds must be positive"))
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	return errors.Join(errs...)
}

// PostgresDSN builds the connection string shared by the gorm and sqlx handles.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
