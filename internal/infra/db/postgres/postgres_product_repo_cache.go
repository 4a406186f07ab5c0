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

var _ repository.ProductRepository = (*productRepoCacheDecorator)(nil)

const productListKey = "products:all"

// productRepoCacheDecorator serves catalog lookups from Redis. Products are read-only
// to this service, so entries only expire by TTL. Reads inside a transaction always go to
// the inner repository so purchases price against the database row.
type productRepoCacheDecorator struct {
	inner repository.ProductRepository
	cache red.RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewProductRepoCacheDecorator(inner repository.ProductRepository, cache red.RedisClient, ttl time.Duration, logger *zerolog.Logger) repository.ProductRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "ProductCache").Logger()
	return &productRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl, log: &l}
}

func productKey(id int64) string { return fmt.Sprintf("product:%d", id) }

func (d *productRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Product, error) {
	if tx != nil {
		return d.inner.FindByID(ctx, tx, id)
	}
	key := productKey(id)
	val, err := d.cache.Get(ctx, key)
	if err == nil {
		var p model.Product
		if json.Unmarshal([]byte(val), &p) == nil {
			metrics.IncCacheRequest("product", "hit")
			return &p, nil
		}
	} else if !red.IsMiss(err) {
		d.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	metrics.IncCacheRequest("product", "miss")
	p, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(p); err == nil {
		if err := d.cache.Set(ctx, key, b, d.ttl); err != nil {
			d.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return p, nil
}

func (d *productRepoCacheDecorator) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Product, error) {
	if tx != nil {
		return d.inner.ListAll(ctx, tx)
	}
	val, err := d.cache.Get(ctx, productListKey)
	if err == nil {
		var products []*model.Product
		if json.Unmarshal([]byte(val), &products) == nil {
			metrics.IncCacheRequest("product_list", "hit")
			return products, nil
		}
	} else if !red.IsMiss(err) {
		d.log.Warn().Err(err).Str("key", productListKey).Msg("cache read failed")
	}

	metrics.IncCacheRequest("product_list", "miss")
	products, err := d.inner.ListAll(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(products) > 0 {
		if b, err := json.Marshal(products); err == nil {
			_ = d.cache.Set(ctx, productListKey, b, d.ttl)
		}
	}
	return products, nil
}
