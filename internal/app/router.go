package app

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"account-service/internal/account"
	"account-service/internal/observability"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterDeps struct {
	Accounts       *account.Handler
	Verifier       account.TokenVerifier
	Health         Pinger
	Logger         *zap.Logger
	AllowedOrigins []string
}

func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", deps.Accounts.Root)
	mux.HandleFunc("GET /health", healthHandler(deps.Health))
	mux.HandleFunc("GET /users", deps.Accounts.ListUsers)
	mux.HandleFunc("POST /api/createAccount", deps.Accounts.CreateAccount)
	mux.HandleFunc("POST /api/login", deps.Accounts.Login)
	mux.Handle("GET /api/user", account.Middleware(deps.Verifier, http.HandlerFunc(deps.Accounts.CurrentUser)))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(mux)

	return observability.RecoverMiddleware(deps.Logger, observability.RequestLoggingMiddleware(deps.Logger, corsHandler))
}

func healthHandler(database Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]any{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)}
		if err := database.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body = map[string]any{"status": "degraded", "time": time.Now().UTC().Format(time.RFC3339)}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
