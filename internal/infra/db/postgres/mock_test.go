//go:build !integration

package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"insuretech-wallet/internal/domain/model"
	"insuretech-wallet/internal/domain/ports/repository"
	red "insuretech-wallet/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerProductRepo mocks the catalog repository the product decorator wraps.
type mockInnerProductRepo struct {
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id int64) (*model.Product, error)
	ListAllFunc  func(ctx context.Context, tx repository.Tx) ([]*model.Product, error)
	calls        int
}

func (m *mockInnerProductRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Product, error) {
	m.calls++
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerProductRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Product, error) {
	m.calls++
	return m.ListAllFunc(ctx, tx)
}

// mockInnerPlanRepo mocks the plan repository the plan decorator wraps.
type mockInnerPlanRepo struct {
	CreateFunc     func(ctx context.Context, tx repository.Tx, plan *model.Plan) error
	FindByIDFunc   func(ctx context.Context, tx repository.Tx, id int64) (*model.Plan, error)
	ListByUserFunc func(ctx context.Context, tx repository.Tx, userID int64) ([]*model.Plan, error)
	calls          int
}

func (m *mockInnerPlanRepo) Create(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	m.calls++
	return m.CreateFunc(ctx, tx, plan)
}
func (m *mockInnerPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Plan, error) {
	m.calls++
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerPlanRepo) ListByUser(ctx context.Context, tx repository.Tx, userID int64) ([]*model.Plan, error) {
	m.calls++
	return m.ListByUserFunc(ctx, tx, userID)
}

// mockRedisClient is a map-backed stand-in for the Redis wrapper. Func fields override.
type mockRedisClient struct {
	mu   sync.Mutex
	data map[string]string

	GetFunc func(ctx context.Context, key string) (string, error)
	SetFunc func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

var _ red.RedisClient = &mockRedisClient{}

func newMockRedis() *mockRedisClient {
	return &mockRedisClient{data: map[string]string{}}
}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	return nil
}

func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *mockRedisClient) Ping(ctx context.Context) error { return nil }
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return 0, nil
}
func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return nil
}
func (m *mockRedisClient) Close() error { return nil }

func (m *mockRedisClient) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}
