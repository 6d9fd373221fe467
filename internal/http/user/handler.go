package user

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"payledger/internal/auth"
	transactionHandler "payledger/internal/http/transaction"
	"payledger/internal/metrics"
	"payledger/internal/transaction"
	"payledger/internal/user"
)

const (
	minPasswordLength = 8

	defaultPage  = 1
	defaultLimit = 10
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

type Handler struct {
	svc          *user.Service
	transactions *transaction.Service
	metrics      *metrics.Metrics
}

func NewHandler(svc *user.Service, transactions *transaction.Service, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, transactions: transactions, metrics: m}
}

// Routes registers the user endpoints. Registration and login are public;
// everything else requires a bearer token.
func (h *Handler) Routes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/{id}", h.get)
		r.Get("/{id}/transactions", h.listTransactions)
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if msg, ok := validateRegister(req); !ok {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	u, err := h.svc.Register(r.Context(), user.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			http.Error(w, "email already in use", http.StatusConflict)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(u)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func validateRegister(req registerRequest) (string, bool) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return "name, email and password are required", false
	}

	if len(req.Password) < minPasswordLength {
		return "password must be at least 8 characters", false
	}

	if !emailPattern.MatchString(req.Email) {
		return "invalid email format", false
	}

	return "", true
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	session, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			h.metrics.LoginFailures.Inc()
			http.Error(w, "invalid credentials", http.StatusUnauthorized)

			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	resp := loginResponse{Token: session.Token, User: toResponse(session.User)}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(u)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type transactionListResponse struct {
	Page         int                           `json:"page"`
	Limit        int                           `json:"limit"`
	Transactions []transactionHandler.Response `json:"transactions"`
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	// A principal may only list its own transactions.
	if id != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	params := transaction.ListParams{Page: defaultPage, Limit: defaultLimit}

	if s := r.URL.Query().Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			params.Page = v
		}
	}

	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			params.Limit = v
		}
	}

	txs, err := h.transactions.ListForUser(r.Context(), id, params)
	if err != nil {
		if errors.Is(err, transaction.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	resp := transactionListResponse{
		Page:         params.Page,
		Limit:        params.Limit,
		Transactions: transactionHandler.ToResponseList(txs),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
