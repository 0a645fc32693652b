package ecesim

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"userctl/internal/ece"
	"userctl/internal/middleware"
)

// Config carries the simulator's optional credentials. When all fields are
// empty every request is accepted.
type Config struct {
	Username string
	Password string
	// APIKey accepts requests bearing "Authorization: ApiKey <key>".
	APIKey string
}

type handler struct {
	store  *Store
	cfg    Config
	logger *slog.Logger
}

type usersResponse struct {
	Users []ece.User `json:"users"`
}

type serviceAccountsResponse struct {
	ServiceAccounts []ece.ServiceAccount `json:"service_accounts"`
}

type deletedResponse struct {
	UserName string `json:"user_name"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Errors []apiError `json:"errors"`
}

// NewHandler builds the simulator's HTTP surface: the user-management
// endpoints under /api/v1 plus an unauthenticated /health.
func NewHandler(store *Store, cfg Config, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{store: store, cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLog(logger))
	r.Use(chimw.Recoverer)
	r.Get("/health", h.health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Get("/users", h.listUsers)
		r.Delete("/users/{userName}", h.deleteUser)
		r.Get("/platform/configuration/security/service-accounts", h.listServiceAccounts)
	})
	return r
}

func (h *handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.authorized(r) {
			writeError(w, http.StatusUnauthorized, "root.unauthorized", "invalid credentials")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) authorized(r *http.Request) bool {
	if h.cfg.APIKey == "" && h.cfg.Username == "" {
		return true
	}
	if h.cfg.APIKey != "" && r.Header.Get("Authorization") == "ApiKey "+h.cfg.APIKey {
		return true
	}
	if h.cfg.Username != "" {
		if user, pass, ok := r.BasicAuth(); ok && user == h.cfg.Username && pass == h.cfg.Password {
			return true
		}
	}
	return false
}

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	includeDisabled := r.URL.Query().Get("include_disabled") == "true"
	users := h.store.Users(includeDisabled)
	h.logger.Info("listing users", "include_disabled", includeDisabled, "count", len(users))
	writeJSON(w, http.StatusOK, usersResponse{Users: users})
}

func (h *handler) listServiceAccounts(w http.ResponseWriter, r *http.Request) {
	ids := h.store.ServiceAccounts()
	accounts := make([]ece.ServiceAccount, 0, len(ids))
	for _, id := range ids {
		accounts = append(accounts, ece.ServiceAccount{UserID: id})
	}
	writeJSON(w, http.StatusOK, serviceAccountsResponse{ServiceAccounts: accounts})
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "userName")

	err := h.store.Delete(name)
	switch {
	case errors.Is(err, ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user.not_found", fmt.Sprintf("user [%s] not found", name))
	case errors.Is(err, ErrBuiltinUser):
		writeError(w, http.StatusBadRequest, "user.restricted_deletion", fmt.Sprintf("user [%s] is protected and cannot be deleted", name))
	case err != nil:
		writeError(w, http.StatusInternalServerError, "platform.error", err.Error())
	default:
		h.logger.Info("user deleted", "user", name)
		writeJSON(w, http.StatusOK, deletedResponse{UserName: name})
	}
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"users":  h.store.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Errors: []apiError{{Code: code, Message: message}}})
}
