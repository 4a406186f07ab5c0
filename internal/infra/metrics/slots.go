package metrics

import (
	"insuretech-wallet/internal/domain/model"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(pendingSlotsTotal) }

var pendingSlotsTotal = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "pending_slots",
		Help: "Current number of pending policy slots by status.",
	},
	[]string{"status"}, // 'unused', 'used'
)

func SetPendingSlots(counts map[model.SlotStatus]int) {
	for _, status := range []model.SlotStatus{model.SlotStatusUnused, model.SlotStatusUsed} {
		pendingSlotsTotal.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
}
