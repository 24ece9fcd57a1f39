package account

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"account-service/internal/observability"
)

const maxJSONBodyBytes = 1 << 20

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hello World!"))
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.serverError(w, r, "list_users_failed", err, "An error occurred while fetching users.")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var body CreateAccountInput
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.service.CreateAccount(r.Context(), body)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "firstName, lastName, username, password, email and timestamp are required")
			return
		}
		h.serverError(w, r, "create_account_failed", err, "An error occurred while inserting data.")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body LoginInput
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.service.Login(r.Context(), body)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "username and password are required")
		case errors.Is(err, ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			h.serverError(w, r, "login_failed", err, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// CurrentUser must run behind Middleware.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	username, ok := UsernameFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	user, err := h.service.GetUser(r.Context(), username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.serverError(w, r, "get_user_failed", err, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, event string, err error, message string) {
	h.logger.Error(event,
		zap.Error(err),
		zap.String("request_id", observability.RequestID(r.Context())),
	)
	observability.CaptureRequestError(r, err)
	writeError(w, http.StatusInternalServerError, message)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
