package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ledger metrics, registered on the default registry and exposed via
// /metrics.
var (
	ExpensesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitledger_expenses_created_total",
			Help: "Total number of expenses committed to the ledger",
		},
		[]string{"split_method"},
	)

	TransfersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "splitledger_transfers_created_total",
			Help: "Total number of transfer rows written",
		},
	)

	SettleUps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "splitledger_settle_ups_total",
			Help: "Total number of settle-up operations",
		},
	)

	ExpensesClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "splitledger_expenses_closed_total",
			Help: "Total number of expenses fully settled by cascade",
		},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitledger_validation_failures_total",
			Help: "Total number of rejected expense requests",
		},
		[]string{"operation"},
	)
)
