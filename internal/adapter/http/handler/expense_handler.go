package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
	"github.com/iho/splitledger/internal/usecase"
)

// ExpenseService defines the behavior needed by ExpenseHandler.
type ExpenseService interface {
	CreateExpense(ctx context.Context, input usecase.CreateExpenseInput) (*usecase.CreateExpenseResult, error)
	GetAllExpenses(ctx context.Context) ([]*usecase.ExpenseWithTransfers, error)
	GetExpense(ctx context.Context, id string) (*usecase.ExpenseWithTransfers, error)
}

// SettlementService defines the behavior needed by ExpenseHandler for
// settle-up and unsettled listing.
type SettlementService interface {
	SettleBetween(ctx context.Context, userA, userB string) (*usecase.SettleUpResult, error)
	UnsettledExpensesFor(ctx context.Context, userID string, since *time.Time) ([]*domain.Expense, error)
}

// ExpenseHandler handles expense-related HTTP requests.
type ExpenseHandler struct {
	expenseUC    ExpenseService
	settlementUC SettlementService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseUC ExpenseService, settlementUC SettlementService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseUC:    expenseUC,
		settlementUC: settlementUC,
	}
}

// Create creates a new expense and its transfer rows.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.expenseUC.CreateExpense(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		if status == http.StatusBadRequest {
			metrics.ValidationFailures.WithLabelValues("create_expense").Inc()
		}
		writeError(w, status, "failed to create expense", err.Error())

		return
	}

	metrics.ExpensesCreated.WithLabelValues(string(result.Expense.SplitMethod)).Inc()
	metrics.TransfersCreated.Add(float64(len(result.Transfers)))

	writeJSON(w, http.StatusCreated, dto.ExpenseWithTransfersResponse{
		Expense:   dto.ExpenseFromDomain(result.Expense),
		Transfers: dto.TransfersFromDomain(result.Transfers),
	})
}

// List returns every expense with its transfer rows.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenseUC.GetAllExpenses(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list expenses", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpensesWithTransfersFromUseCase(expenses))
}

// Get retrieves a single expense by ID.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing expense ID", "")
		return
	}

	expense, err := h.expenseUC.GetExpense(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get expense", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseWithTransfersFromUseCase(expense))
}

// SettleUp settles every open transfer between two users and closes
// expenses whose last open transfer was settled by the call.
func (h *ExpenseHandler) SettleUp(w http.ResponseWriter, r *http.Request) {
	var req dto.SettleUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.settlementUC.SettleBetween(r.Context(), req.UserID, req.OtherUserID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to settle up", err.Error())

		return
	}

	metrics.SettleUps.Inc()
	metrics.ExpensesClosed.Add(float64(result.SettledExpenses))

	writeJSON(w, http.StatusOK, dto.SettleUpResponse{
		Message:          result.Message,
		SettledExpenses:  result.SettledExpenses,
		SettledTransfers: result.SettledTransfers,
	})
}

// ListUnsettled lists expenses with open transfers involving a user,
// optionally restricted to expenses created after the "after" timestamp.
func (h *ExpenseHandler) ListUnsettled(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	after, err := parseTimeQuery(r, "after")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid after parameter", err.Error())
		return
	}

	expenses, err := h.settlementUC.UnsettledExpensesFor(r.Context(), userID, after)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list unsettled expenses", err.Error())
		return
	}

	result := make([]*dto.ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = dto.ExpenseFromDomain(e)
	}

	writeJSON(w, http.StatusOK, result)
}
