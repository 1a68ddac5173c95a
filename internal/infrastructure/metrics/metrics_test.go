package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(ExpensesCreated.WithLabelValues("equal"))
	ExpensesCreated.WithLabelValues("equal").Inc()
	if got := testutil.ToFloat64(ExpensesCreated.WithLabelValues("equal")); got != before+1 {
		t.Fatalf("expected counter to increment, got %v", got)
	}

	before = testutil.ToFloat64(TransfersCreated)
	TransfersCreated.Add(3)
	if got := testutil.ToFloat64(TransfersCreated); got != before+3 {
		t.Fatalf("expected counter to increase by 3, got %v", got)
	}

	before = testutil.ToFloat64(ValidationFailures.WithLabelValues("create_expense"))
	ValidationFailures.WithLabelValues("create_expense").Inc()
	if got := testutil.ToFloat64(ValidationFailures.WithLabelValues("create_expense")); got != before+1 {
		t.Fatalf("expected counter to increment, got %v", got)
	}
}

func TestSettleUpCounters(t *testing.T) {
	before := testutil.ToFloat64(SettleUps)
	SettleUps.Inc()
	if got := testutil.ToFloat64(SettleUps); got != before+1 {
		t.Fatalf("expected settle-up counter to increment, got %v", got)
	}

	before = testutil.ToFloat64(ExpensesClosed)
	ExpensesClosed.Add(2)
	if got := testutil.ToFloat64(ExpensesClosed); got != before+2 {
		t.Fatalf("expected closed counter to increase by 2, got %v", got)
	}
}
