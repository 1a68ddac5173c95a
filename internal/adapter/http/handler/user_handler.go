package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/auth"
	"github.com/iho/splitledger/internal/usecase"
)

// UserService defines the behavior needed by UserHandler.
type UserService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CloseAccount(ctx context.Context, id string) error
	UsersUpdatedAfter(ctx context.Context, since time.Time) ([]*domain.User, error)
}

// BalanceService defines the behavior needed by UserHandler for balances.
type BalanceService interface {
	BalancesFor(ctx context.Context, userID string) ([]*domain.CounterpartyBalance, error)
}

// UserHandler handles user and balance HTTP requests.
type UserHandler struct {
	userUC     UserService
	balanceUC  BalanceService
	jwtManager *auth.JWTManager
}

// NewUserHandler creates a new UserHandler. jwtManager may be nil when
// authentication is disabled; Login then returns user info without a token.
func NewUserHandler(userUC UserService, balanceUC BalanceService, jwtManager *auth.JWTManager) *UserHandler {
	return &UserHandler{
		userUC:     userUC,
		balanceUC:  balanceUC,
		jwtManager: jwtManager,
	}
}

// Register creates a new user account.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.Register(r.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to register user", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user))
}

// Login authenticates a user and issues a JWT token.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "invalid credentials", "")

		return
	}

	var token string
	if h.jwtManager != nil {
		token, err = h.jwtManager.Generate(user)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to generate token", err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  dto.UserFromDomain(user),
	})
}

// Get retrieves a user by ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userId")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	user, err := h.userUC.GetUser(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get user", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// Close soft deletes a user account. The user's ledger history stays
// intact; the user can no longer participate in new expenses.
func (h *UserHandler) Close(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userId")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	if err := h.userUC.CloseAccount(r.Context(), id); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to close account", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "account closed"})
}

// Balances returns the user's net position per counterparty and currency.
func (h *UserHandler) Balances(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	balances, err := h.balanceUC.BalancesFor(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(balances))
}

// ListUpdated lists users updated after the "after" timestamp. Used by
// clients to sync contact lists incrementally.
func (h *UserHandler) ListUpdated(w http.ResponseWriter, r *http.Request) {
	after, err := parseTimeQuery(r, "after")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid after parameter", err.Error())
		return
	}
	if after == nil {
		writeError(w, http.StatusBadRequest, "missing after parameter", "")
		return
	}

	users, err := h.userUC.UsersUpdatedAfter(r.Context(), *after)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UsersFromDomain(users))
}
