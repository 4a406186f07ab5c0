package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"insuretech-wallet/internal/domain/model"
	"insuretech-wallet/internal/domain/ports/repository"
	"insuretech-wallet/internal/infra/metrics"
	red "insuretech-wallet/internal/infra/redis"
)

var _ repository.PlanRepository = (*planRepoCacheDecorator)(nil)

// planRepoCacheDecorator caches single plan rows. A plan never changes after its
// purchase commits, so a cached row stays valid until it expires. Per-user lists
// grow with every purchase and are always read through.
type planRepoCacheDecorator struct {
	inner repository.PlanRepository
	cache red.RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewPlanRepoCacheDecorator(inner repository.PlanRepository, cache red.RedisClient, ttl time.Duration, logger *zerolog.Logger) repository.PlanRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "PlanCache").Logger()
	return &planRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl, log: &l}
}

func planKey(id int64) string { return fmt.Sprintf("plan:%d", id) }

func (d *planRepoCacheDecorator) Create(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	return d.inner.Create(ctx, tx, plan)
}

func (d *planRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Plan, error) {
	// Inside a transaction the row may not be committed yet.
	if tx != nil {
		return d.inner.FindByID(ctx, tx, id)
	}
	key := planKey(id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var plan model.Plan
		if json.Unmarshal([]byte(val), &plan) == nil {
			metrics.IncCacheRequest("plan", "hit")
			return &plan, nil
		}
	} else if !red.IsMiss(err) {
		d.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	metrics.IncCacheRequest("plan", "miss")
	plan, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	row := *plan
	row.PendingSlots = nil
	if b, err := json.Marshal(&row); err == nil {
		if err := d.cache.Set(ctx, key, b, d.ttl); err != nil {
			d.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return plan, nil
}

func (d *planRepoCacheDecorator) ListByUser(ctx context.Context, tx repository.Tx, userID int64) ([]*model.Plan, error) {
	return d.inner.ListByUser(ctx, tx, userID)
}
