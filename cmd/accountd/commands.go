package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"account-service/internal/app"
	"account-service/internal/config"
	"account-service/internal/db"
	"account-service/internal/observability"
)

const shutdownTimeout = 10 * time.Second

func NewRootCommand() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "accountd",
		Short:         "User account service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			config.LoadDotEnv()
		},
	}

	serve := NewServeCommand(v)
	root.AddCommand(serve, NewMigrateCommand(v))

	// serve is the default when no subcommand is given.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func NewServeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}

	registerServeFlags(cmd.Flags(), v)
	return cmd
}

func registerServeFlags(flags *pflag.FlagSet, v *viper.Viper) {
	defaults := config.Default()
	flags.String("port", defaults.Port, "listen port")
	flags.String("log-level", defaults.LogLevel, "log level (debug, info, warn, error)")
	flags.Bool("run-migrations", defaults.RunMigrations, "apply the embedded schema before serving")

	_ = v.BindPFlag("PORT", flags.Lookup("port"))
	_ = v.BindPFlag("LOG_LEVEL", flags.Lookup("log-level"))
	_ = v.BindPFlag("RUN_MIGRATIONS", flags.Lookup("run-migrations"))
}

func NewMigrateCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			logger, err := observability.NewLogger(cfg.LogLevel, cfg.Production())
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			database, err := app.OpenDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			applied, err := db.RunMigrations(cmd.Context(), database)
			if err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}

			logger.Info("migrations_applied", zap.Strings("versions", applied))
			return nil
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	runtime, err := app.Build(ctx, app.Options{Config: cfg})
	if err != nil {
		return err
	}
	defer func() {
		if err := runtime.Close(); err != nil {
			runtime.Logger.Error("close_runtime_failed", zap.Error(err))
		}
	}()

	server := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           runtime.Handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		runtime.Logger.Info("server_start", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	runtime.Logger.Info("server_shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return nil
}
