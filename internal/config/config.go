package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"account-service/internal/password"
)

type Config struct {
	Port               string   `mapstructure:"PORT" default:"8080"`
	DatabaseURL        string   `mapstructure:"DATABASE_URL"`
	JWTSecret          string   `mapstructure:"JWT_SECRET"`
	PasswordStorage    string   `mapstructure:"PASSWORD_STORAGE" default:"bcrypt"`
	AppEnv             string   `mapstructure:"APP_ENV" default:"development"`
	LogLevel           string   `mapstructure:"LOG_LEVEL" default:"info"`
	SentryDSN          string   `mapstructure:"SENTRY_DSN"`
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS" default:"[\"*\"]"`
	RunMigrations      bool     `mapstructure:"RUN_MIGRATIONS" default:"false"`

	DB DBConfig `mapstructure:",squash"`
}

type DBConfig struct {
	MaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME" default:"30m"`
	ConnMaxIdleTime time.Duration `mapstructure:"DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

var keys = []string{
	"PORT",
	"DATABASE_URL",
	"JWT_SECRET",
	"PASSWORD_STORAGE",
	"APP_ENV",
	"LOG_LEVEL",
	"SENTRY_DSN",
	"CORS_ALLOWED_ORIGINS",
	"RUN_MIGRATIONS",
	"DB_MAX_OPEN_CONNS",
	"DB_MAX_IDLE_CONNS",
	"DB_CONN_MAX_LIFETIME",
	"DB_CONN_MAX_IDLE_TIME",
}

func Default() Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return cfg
}

// LoadDotEnv reads .env from the working directory if present. Variables
// already set in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load reads configuration from v, which callers may have bound to CLI
// flags, on top of the struct defaults. Pass nil to read the environment only.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Port = strings.TrimSpace(cfg.Port)
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.PasswordStorage = strings.ToLower(strings.TrimSpace(cfg.PasswordStorage))
	cfg.CORSAllowedOrigins = trimAll(cfg.CORSAllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("missing required env: DATABASE_URL"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("missing required env: JWT_SECRET"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if _, err := password.New(c.PasswordStorage); err != nil {
		errs = append(errs, fmt.Errorf("PASSWORD_STORAGE: %w", err))
	}
	return errors.Join(errs...)
}

func (c *Config) Production() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}
