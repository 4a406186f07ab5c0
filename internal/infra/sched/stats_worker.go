package sched

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"insuretech-wallet/internal/domain/model"
	"insuretech-wallet/internal/infra/metrics"
	red "insuretech-wallet/internal/infra/redis"
)

const statsLockKey = "lock:stats_worker"

// SlotCounter is the part of the slot use case the worker reads.
type SlotCounter interface {
	CountByStatus(ctx context.Context) (map[model.SlotStatus]int, error)
}

// StatsWorker periodically publishes the slot gauge and the pool gauges.
// With a locker the slot count runs on whichever replica takes the lease first in
// each interval; the lease is left to expire. Pool stats are per process and always
// published.
type StatsWorker struct {
	interval  time.Duration
	slots     SlotCounter
	poolStats func()
	locker    red.Locker
	log       *zerolog.Logger

	token string // lease held from the last collect, released on stop
}

func NewStatsWorker(interval time.Duration, slots SlotCounter, poolStats func(), locker red.Locker, logger *zerolog.Logger) *StatsWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	statsLog := logger.With().Str("component", "StatsWorker").Logger()
	return &StatsWorker{
		interval:  interval,
		slots:     slots,
		poolStats: poolStats,
		locker:    locker,
		log:       &statsLog,
	}
}

func (w *StatsWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting stats worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.collect(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping stats worker")
			w.releaseLease()
			return ctx.Err()
		case <-ticker.C:
			w.collect(ctx)
		}
	}
}

func (w *StatsWorker) collect(ctx context.Context) {
	if w.poolStats != nil {
		w.poolStats()
	}

	runCtx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	if w.locker != nil {
		token, err := w.locker.TryLock(runCtx, statsLockKey, w.leaseTTL())
		if errors.Is(err, red.ErrLockHeld) {
			return
		}
		w.token = token
		if err != nil {
			// Redis trouble should not blind the gauge; count anyway.
			w.log.Warn().Err(err).Msg("stats lock unavailable")
		}
	}

	counts, err := w.slots.CountByStatus(runCtx)
	if err != nil {
		w.log.Error().Err(err).Msg("count pending slots failed")
		return
	}
	metrics.SetPendingSlots(counts)
	w.log.Debug().
		Int("unused", counts[model.SlotStatusUnused]).
		Int("used", counts[model.SlotStatusUsed]).
		Msg("slot stats published")
}

// leaseTTL expires just before the next tick so the lease is free again when every
// replica next tries it.
func (w *StatsWorker) leaseTTL() time.Duration {
	return w.interval * 9 / 10
}

func (w *StatsWorker) releaseLease() {
	if w.locker == nil || w.token == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := w.locker.Unlock(ctx, statsLockKey, w.token); err != nil {
		w.log.Warn().Err(err).Msg("stats unlock failed")
	}
	w.token = ""
}
