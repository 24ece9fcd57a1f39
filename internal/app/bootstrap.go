package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"account-service/internal/account"
	"account-service/internal/config"
	"account-service/internal/db"
	"account-service/internal/observability"
	"account-service/internal/password"
	"account-service/internal/store"
	"account-service/internal/token"
)

type Options struct {
	Config *config.Config
	// Logger defaults to one built from Config.
	Logger *zap.Logger
}

type Runtime struct {
	Handler http.Handler
	Logger  *zap.Logger
	Close   func() error
}

func Build(ctx context.Context, options Options) (*Runtime, error) {
	cfg := options.Config
	if cfg == nil {
		return nil, fmt.Errorf("build runtime: nil config")
	}

	logger := options.Logger
	if logger == nil {
		var err error
		logger, err = observability.NewLogger(cfg.LogLevel, cfg.Production())
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}

	if err := observability.InitSentry(cfg.SentryDSN, cfg.AppEnv); err != nil {
		logger.Error("init_sentry_failed", zap.Error(err))
	}

	hasher, err := password.New(cfg.PasswordStorage)
	if err != nil {
		return nil, fmt.Errorf("init password hasher: %w", err)
	}
	if !issuesTokenOnCreate(cfg.PasswordStorage) {
		logger.Warn("plaintext_password_storage", zap.String("mode", cfg.PasswordStorage))
	}

	issuer, err := token.NewIssuer(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("init token issuer: %w", err)
	}

	database, err := OpenDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		applied, err := db.RunMigrations(ctx, database)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("migrations_applied", zap.Strings("versions", applied))
	}

	users := store.NewUserStore(database)
	service, err := account.NewService(users, hasher, issuer)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("init account service: %w", err)
	}
	service.WithTokenOnCreate(issuesTokenOnCreate(cfg.PasswordStorage))

	handler := NewRouter(RouterDeps{
		Accounts:       account.NewHandler(service, logger),
		Verifier:       issuer,
		Health:         users,
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	return &Runtime{
		Handler: handler,
		Logger:  logger,
		Close: func() error {
			if !observability.FlushSentry() {
				logger.Warn("sentry_flush_timeout")
			}
			_ = logger.Sync()
			return database.Close()
		},
	}, nil
}

// issuesTokenOnCreate is false for the deprecated plaintext mode, which only
// ever answered account creation with a message.
func issuesTokenOnCreate(mode string) bool {
	return mode != password.ModePlaintext
}

// OpenDatabase opens the pgx pool with the configured limits and pings it.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	database, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	database.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	database.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	database.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	database.SetConnMaxIdleTime(cfg.DB.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := database.PingContext(pingCtx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return database, nil
}
