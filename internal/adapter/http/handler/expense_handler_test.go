package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

type expenseServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateExpenseInput) (*usecase.CreateExpenseResult, error)
	listFn   func(ctx context.Context) ([]*usecase.ExpenseWithTransfers, error)
	getFn    func(ctx context.Context, id string) (*usecase.ExpenseWithTransfers, error)
}

func (s *expenseServiceStub) CreateExpense(ctx context.Context, input usecase.CreateExpenseInput) (*usecase.CreateExpenseResult, error) {
	return s.createFn(ctx, input)
}

func (s *expenseServiceStub) GetAllExpenses(ctx context.Context) ([]*usecase.ExpenseWithTransfers, error) {
	return s.listFn(ctx)
}

func (s *expenseServiceStub) GetExpense(ctx context.Context, id string) (*usecase.ExpenseWithTransfers, error) {
	return s.getFn(ctx, id)
}

type settlementServiceStub struct {
	settleFn    func(ctx context.Context, userA, userB string) (*usecase.SettleUpResult, error)
	unsettledFn func(ctx context.Context, userID string, since *time.Time) ([]*domain.Expense, error)
}

func (s *settlementServiceStub) SettleBetween(ctx context.Context, userA, userB string) (*usecase.SettleUpResult, error) {
	return s.settleFn(ctx, userA, userB)
}

func (s *settlementServiceStub) UnsettledExpensesFor(ctx context.Context, userID string, since *time.Time) ([]*domain.Expense, error) {
	return s.unsettledFn(ctx, userID, since)
}

func TestExpenseHandler_Create_Success(t *testing.T) {
	amount := decimal.RequireFromString("100")
	expense := &domain.Expense{
		ID:          "exp-1",
		Description: "dinner",
		Currency:    "USD",
		Amount:      amount,
		SplitMethod: domain.SplitEqual,
		CreatedBy:   "alice",
	}
	transfers := []*domain.Transfer{
		{ID: "t-1", ExpenseID: "exp-1", FromUserID: "alice", ToUserID: "alice", Amount: decimal.RequireFromString("50"), Settled: true},
		{ID: "t-2", ExpenseID: "exp-1", FromUserID: "bob", ToUserID: "alice", Amount: decimal.RequireFromString("50")},
	}

	var captured usecase.CreateExpenseInput
	h := NewExpenseHandler(&expenseServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateExpenseInput) (*usecase.CreateExpenseResult, error) {
			captured = input
			return &usecase.CreateExpenseResult{Expense: expense, Transfers: transfers}, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.CreateExpenseRequest{
		Description: "dinner",
		Currency:    "USD",
		Amount:      amount,
		SplitMethod: "equal",
		CreatedBy:   "alice",
		Contributors: []dto.ContributorItem{
			{UserID: "alice", AmountPaid: amount},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/expenses", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Description != "dinner" || captured.SplitMethod != domain.SplitEqual {
		t.Fatalf("expected input to match request, got %+v", captured)
	}
	if len(captured.Contributors) != 1 || captured.Contributors[0].UserID != "alice" {
		t.Fatalf("expected contributor to carry over, got %+v", captured.Contributors)
	}

	var resp dto.ExpenseWithTransfersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Expense.ID != "exp-1" || len(resp.Transfers) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestExpenseHandler_Create_InvalidJSON(t *testing.T) {
	h := NewExpenseHandler(&expenseServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateExpenseInput) (*usecase.CreateExpenseResult, error) {
			t.Fatal("CreateExpense should not be called for invalid payload")
			return nil, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/expenses", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestExpenseHandler_Create_ValidationError(t *testing.T) {
	h := NewExpenseHandler(&expenseServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateExpenseInput) (*usecase.CreateExpenseResult, error) {
			return nil, domain.NewValidationError("amount", "must be positive")
		},
	}, nil)

	body, _ := json.Marshal(dto.CreateExpenseRequest{Description: "dinner"})
	req := httptest.NewRequest(http.MethodPost, "/expenses", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error != "failed to create expense" {
		t.Fatalf("unexpected error payload: %+v", resp)
	}
}

func TestExpenseHandler_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		h := NewExpenseHandler(&expenseServiceStub{
			getFn: func(ctx context.Context, id string) (*usecase.ExpenseWithTransfers, error) {
				if id != "exp-1" {
					t.Fatalf("expected lookup for exp-1, got %s", id)
				}
				return &usecase.ExpenseWithTransfers{
					Expense: &domain.Expense{ID: "exp-1", Amount: decimal.RequireFromString("10")},
				}, nil
			},
		}, nil)

		req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/expenses/exp-1", nil), "id", "exp-1")
		rec := httptest.NewRecorder()

		h.Get(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("not found", func(t *testing.T) {
		h := NewExpenseHandler(&expenseServiceStub{
			getFn: func(ctx context.Context, id string) (*usecase.ExpenseWithTransfers, error) {
				return nil, domain.ErrExpenseNotFound
			},
		}, nil)

		req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/expenses/missing", nil), "id", "missing")
		rec := httptest.NewRecorder()

		h.Get(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_SettleUp(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := NewExpenseHandler(nil, &settlementServiceStub{
			settleFn: func(ctx context.Context, userA, userB string) (*usecase.SettleUpResult, error) {
				if userA != "alice" || userB != "bob" {
					t.Fatalf("unexpected pair: %s, %s", userA, userB)
				}
				return &usecase.SettleUpResult{
					Message:          "expenses between the two users have been settled",
					SettledExpenses:  2,
					SettledTransfers: 3,
				}, nil
			},
		})

		body, _ := json.Marshal(dto.SettleUpRequest{UserID: "alice", OtherUserID: "bob"})
		req := httptest.NewRequest(http.MethodPost, "/expenses/settle-up", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		h.SettleUp(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp dto.SettleUpResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.SettledExpenses != 2 || resp.SettledTransfers != 3 {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("identical users rejected", func(t *testing.T) {
		h := NewExpenseHandler(nil, &settlementServiceStub{
			settleFn: func(ctx context.Context, userA, userB string) (*usecase.SettleUpResult, error) {
				return nil, domain.NewValidationError("user_id", "users must be distinct")
			},
		})

		body, _ := json.Marshal(dto.SettleUpRequest{UserID: "alice", OtherUserID: "alice"})
		req := httptest.NewRequest(http.MethodPost, "/expenses/settle-up", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		h.SettleUp(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_ListUnsettled(t *testing.T) {
	t.Run("forwards the after filter", func(t *testing.T) {
		var capturedSince *time.Time
		h := NewExpenseHandler(nil, &settlementServiceStub{
			unsettledFn: func(ctx context.Context, userID string, since *time.Time) ([]*domain.Expense, error) {
				capturedSince = since
				return []*domain.Expense{{ID: "exp-1", Amount: decimal.RequireFromString("10")}}, nil
			},
		})

		req := setChiURLParam(
			httptest.NewRequest(http.MethodGet, "/expenses/unsettled/alice?after=2024-06-01T00:00:00Z", nil),
			"userId", "alice",
		)
		rec := httptest.NewRecorder()

		h.ListUnsettled(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if capturedSince == nil || !capturedSince.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("after filter not forwarded, got %v", capturedSince)
		}

		var resp []*dto.ExpenseResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp) != 1 || resp[0].ID != "exp-1" {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("malformed after rejected", func(t *testing.T) {
		h := NewExpenseHandler(nil, &settlementServiceStub{
			unsettledFn: func(ctx context.Context, userID string, since *time.Time) ([]*domain.Expense, error) {
				t.Fatal("UnsettledExpensesFor should not be called for a malformed timestamp")
				return nil, nil
			},
		})

		req := setChiURLParam(
			httptest.NewRequest(http.MethodGet, "/expenses/unsettled/alice?after=yesterday", nil),
			"userId", "alice",
		)
		rec := httptest.NewRecorder()

		h.ListUnsettled(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_List(t *testing.T) {
	h := NewExpenseHandler(&expenseServiceStub{
		listFn: func(ctx context.Context) ([]*usecase.ExpenseWithTransfers, error) {
			return []*usecase.ExpenseWithTransfers{
				{Expense: &domain.Expense{ID: "exp-1", Amount: decimal.RequireFromString("10")}},
				{Expense: &domain.Expense{ID: "exp-2", Amount: decimal.RequireFromString("20")}},
			}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/expenses", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.ExpenseWithTransfersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(resp))
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}
