package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

func init() {
	register(
		purchasesTotal,
		walletDebitedTotal,
		slotsCreatedTotal,
	)
}

var (
	purchasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_purchases_total",
			Help: "Plan purchases by outcome (success, insufficient_funds, not_found, invalid, error).",
		},
		[]string{"outcome"},
	)

	walletDebitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_debited_amount_total",
			Help: "Sum of amounts debited from wallets by committed purchases.",
		},
	)

	slotsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pending_slots_created_total",
			Help: "Pending policy slots allocated by committed purchases.",
		},
	)
)

func IncPurchase(outcome string) {
	purchasesTotal.WithLabelValues(norm(outcome)).Inc()
}

// ObservePurchase records a committed purchase.
func ObservePurchase(amount decimal.Decimal, slots int) {
	f, _ := amount.Float64()
	walletDebitedTotal.Add(f)
	slotsCreatedTotal.Add(float64(slots))
}
