//go:build !integration

package usecase_test

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"insuretech-wallet/internal/domain"
	"insuretech-wallet/internal/domain/model"
	"insuretech-wallet/internal/domain/ports/repository"
)

// -----------------------------
// In-memory store
// -----------------------------

// memStore is a tiny relational store. Transactions run concurrently: FOR UPDATE
// reads take a row lock held until the transaction ends, and every write inside a
// transaction records an undo step that runs on rollback.
type memStore struct {
	mu sync.Mutex // guards everything below

	locks map[string]chan struct{}

	seq      int64
	users    map[int64]model.User
	products map[int64]model.Product
	plans    map[int64]model.Plan
	slots    map[int64]model.PendingSlot
	policies map[int64]model.Policy

	// CreateBatchErr fails the next slot batch write.
	CreateBatchErr error
	// HidePolicies makes FindByUserAndProduct always miss, so only the
	// (user, product) constraint in Create can reject a duplicate.
	HidePolicies bool
	// AfterPolicyLookup runs after FindByUserAndProduct, outside the store lock.
	AfterPolicyLookup func()
	// TxCount counts WithTx invocations.
	TxCount int
	// PolicyInserts counts policy Create calls that reached the unique checks.
	PolicyInserts int
}

type memTx struct {
	id   int
	held []string
	undo []func()
}

// onRollback registers fn to run if tx rolls back. Callers hold s.mu.
func onRollback(tx repository.Tx, fn func()) {
	if t, ok := tx.(*memTx); ok {
		t.undo = append(t.undo, fn)
	}
}

// lockRow blocks until tx owns key or ctx ends.
func (s *memStore) lockRow(ctx context.Context, tx repository.Tx, key string) error {
	t, ok := tx.(*memTx)
	if !ok {
		return domain.ErrInvalidExecContext
	}
	for _, h := range t.held {
		if h == key {
			return nil
		}
	}
	s.mu.Lock()
	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}
	s.mu.Unlock()

	select {
	case ch <- struct{}{}:
		t.held = append(t.held, key)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *memStore) release(t *memTx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range t.held {
		<-s.locks[key]
	}
	t.held = nil
}

func newMemStore() *memStore {
	return &memStore{
		seq:      100,
		locks:    map[string]chan struct{}{},
		users:    map[int64]model.User{},
		products: map[int64]model.Product{},
		plans:    map[int64]model.Plan{},
		slots:    map[int64]model.PendingSlot{},
		policies: map[int64]model.Policy{},
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// newSeededStore mirrors the demo catalog: two health products, one auto product and
// two wallets.
func newSeededStore() *memStore {
	s := newMemStore()
	now := time.Now()
	s.users[1] = model.User{ID: 1, Name: "John Doe", Email: "john.doe@example.com", WalletBalance: dec("100000.00"), CreatedAt: now}
	s.users[2] = model.User{ID: 2, Name: "Jane Smith", Email: "jane.smith@example.com", WalletBalance: dec("150000.00"), CreatedAt: now}
	s.products[1] = model.Product{ID: 1, Name: "Optimal care mini", Price: dec("10000.00"), CategoryID: 1, CreatedAt: now}
	s.products[2] = model.Product{ID: 2, Name: "Optimal care standard", Price: dec("20000.00"), CategoryID: 1, CreatedAt: now}
	s.products[3] = model.Product{ID: 3, Name: "Third-party", Price: dec("5000.00"), CategoryID: 2, CreatedAt: now}
	return s
}

func (s *memStore) nextID() int64 {
	s.seq++
	return s.seq
}

// Test accessors.

func (s *memStore) balance(userID int64) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[userID].WalletBalance
}

func (s *memStore) planCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.plans)
}

func (s *memStore) slotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

func (s *memStore) policyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.policies)
}

func (s *memStore) slot(id int64) model.PendingSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[id]
}

func (s *memStore) putPlan(p model.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[p.ID] = p
}

func (s *memStore) putSlot(sl model.PendingSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[sl.ID] = sl
}

func (s *memStore) putPolicy(p model.Policy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies[p.ID] = p
}

func (s *memStore) setBalance(userID int64, b decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userID]
	u.WalletBalance = b
	s.users[userID] = u
}

// -----------------------------
// Transaction manager
// -----------------------------

type MockTxManager struct {
	store *memStore
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func (m *MockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.store.mu.Lock()
	m.store.TxCount++
	tx := &memTx{id: m.store.TxCount}
	m.store.mu.Unlock()
	defer m.store.release(tx)

	if err := fn(ctx, tx); err != nil {
		m.store.mu.Lock()
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		m.store.mu.Unlock()
		return err
	}
	return nil
}

// -----------------------------
// Repositories
// -----------------------------

type mockUserRepo struct{ s *memStore }

var _ repository.UserRepository = (*mockUserRepo)(nil)

func (r *mockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u.ID == 0 {
		u.ID = r.s.nextID()
	}
	id := u.ID
	prev, existed := r.s.users[id]
	onRollback(tx, func() {
		if existed {
			r.s.users[id] = prev
		} else {
			delete(r.s.users, id)
		}
	})
	r.s.users[id] = *u
	return nil
}

func (r *mockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.NotFound(domain.EntityUser)
	}
	return &u, nil
}

func (r *mockUserRepo) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	if err := r.s.lockRow(ctx, tx, fmt.Sprintf("user:%d", id)); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, tx, id)
}

func (r *mockUserRepo) Debit(ctx context.Context, tx repository.Tx, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return decimal.Zero, domain.NotFound(domain.EntityUser)
	}
	if u.WalletBalance.LessThan(amount) {
		return decimal.Zero, domain.ErrInsufficientFunds
	}
	prev := u
	onRollback(tx, func() { r.s.users[id] = prev })
	u.WalletBalance = u.WalletBalance.Sub(amount)
	r.s.users[id] = u
	return u.WalletBalance, nil
}

type mockProductRepo struct{ s *memStore }

var _ repository.ProductRepository = (*mockProductRepo)(nil)

func (r *mockProductRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, domain.NotFound(domain.EntityProduct)
	}
	return &p, nil
}

func (r *mockProductRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type mockPlanRepo struct{ s *memStore }

var _ repository.PlanRepository = (*mockPlanRepo)(nil)

func (r *mockPlanRepo) Create(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[plan.UserID]; !ok {
		return domain.ErrNotFound
	}
	plan.ID = r.s.nextID()
	plan.TotalAmount = plan.TotalAmount.Round(2)
	stored := *plan
	stored.PendingSlots = nil
	r.s.plans[plan.ID] = stored
	id := plan.ID
	onRollback(tx, func() { delete(r.s.plans, id) })
	return nil
}

func (r *mockPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Plan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.plans[id]
	if !ok {
		return nil, domain.NotFound(domain.EntityPlan)
	}
	return &p, nil
}

func (r *mockPlanRepo) ListByUser(ctx context.Context, tx repository.Tx, userID int64) ([]*model.Plan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.Plan
	for _, p := range r.s.plans {
		if p.UserID == userID {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type mockSlotRepo struct{ s *memStore }

var _ repository.PendingSlotRepository = (*mockSlotRepo)(nil)

func (r *mockSlotRepo) CreateBatch(ctx context.Context, tx repository.Tx, slots []*model.PendingSlot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.CreateBatchErr; err != nil {
		r.s.CreateBatchErr = nil
		return err
	}
	for _, sl := range slots {
		if _, ok := r.s.plans[sl.PlanID]; !ok {
			return domain.ErrNotFound
		}
		sl.ID = r.s.nextID()
		r.s.slots[sl.ID] = *sl
		id := sl.ID
		onRollback(tx, func() { delete(r.s.slots, id) })
	}
	return nil
}

func (r *mockSlotRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.PendingSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sl, ok := r.s.slots[id]
	if !ok {
		return nil, domain.NotFound(domain.EntitySlot)
	}
	return &sl, nil
}

func (r *mockSlotRepo) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id int64) (*model.PendingSlot, error) {
	if err := r.s.lockRow(ctx, tx, fmt.Sprintf("slot:%d", id)); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, tx, id)
}

func (r *mockSlotRepo) list(planID int64, keep func(model.PendingSlot) bool) []*model.PendingSlot {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.PendingSlot
	for _, sl := range r.s.slots {
		if sl.PlanID == planID && keep(sl) {
			sl := sl
			out = append(out, &sl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *mockSlotRepo) ListAvailableByPlan(ctx context.Context, tx repository.Tx, planID int64) ([]*model.PendingSlot, error) {
	return r.list(planID, func(sl model.PendingSlot) bool { return sl.IsAvailable() }), nil
}

func (r *mockSlotRepo) ListByPlan(ctx context.Context, tx repository.Tx, planID int64) ([]*model.PendingSlot, error) {
	return r.list(planID, func(model.PendingSlot) bool { return true }), nil
}

func (r *mockSlotRepo) MarkUsed(ctx context.Context, tx repository.Tx, id int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sl, ok := r.s.slots[id]
	if !ok {
		return domain.NotFound(domain.EntitySlot)
	}
	if sl.Status != model.SlotStatusUnused {
		return domain.ErrAlreadyUsed
	}
	prev := sl
	onRollback(tx, func() { r.s.slots[id] = prev })
	sl.Status = model.SlotStatusUsed
	sl.UsedAt = &at
	r.s.slots[id] = sl
	return nil
}

func (r *mockSlotRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.SlotStatus]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[model.SlotStatus]int{}
	for _, sl := range r.s.slots {
		out[sl.Status]++
	}
	return out, nil
}

type mockPolicyRepo struct{ s *memStore }

var _ repository.PolicyRepository = (*mockPolicyRepo)(nil)

// Create enforces the same unique keys as the policies table. Rows written by
// transactions that have not committed yet count, as they block and then win in Postgres.
func (r *mockPolicyRepo) Create(ctx context.Context, tx repository.Tx, p *model.Policy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.PolicyInserts++
	for _, existing := range r.s.policies {
		switch {
		case existing.PolicyNumber == p.PolicyNumber:
			return domain.ErrPolicyNumberTaken
		case existing.UserID == p.UserID && existing.ProductID == p.ProductID:
			return domain.ErrConflict
		case existing.PendingSlotID == p.PendingSlotID:
			return domain.ErrAlreadyUsed
		}
	}
	p.ID = r.s.nextID()
	r.s.policies[p.ID] = *p
	id := p.ID
	onRollback(tx, func() { delete(r.s.policies, id) })
	return nil
}

func (r *mockPolicyRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Policy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.policies[id]
	if !ok {
		return nil, domain.NotFound(domain.EntityPolicy)
	}
	return &p, nil
}

func (r *mockPolicyRepo) FindByUserAndProduct(ctx context.Context, tx repository.Tx, userID, productID int64) (*model.Policy, error) {
	p, hook := r.lookup(userID, productID)
	if hook != nil {
		hook()
	}
	if p == nil {
		return nil, domain.NotFound(domain.EntityPolicy)
	}
	return p, nil
}

func (r *mockPolicyRepo) lookup(userID, productID int64) (*model.Policy, func()) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.HidePolicies {
		for _, p := range r.s.policies {
			if p.UserID == userID && p.ProductID == productID {
				p := p
				return &p, r.s.AfterPolicyLookup
			}
		}
	}
	return nil, r.s.AfterPolicyLookup
}

func (r *mockPolicyRepo) filter(keep func(model.Policy) bool) []*model.Policy {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.Policy
	for _, p := range r.s.policies {
		if keep(p) {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *mockPolicyRepo) ListByUser(ctx context.Context, tx repository.Tx, userID int64) ([]*model.Policy, error) {
	return r.filter(func(p model.Policy) bool { return p.UserID == userID }), nil
}

func (r *mockPolicyRepo) ListByPlan(ctx context.Context, tx repository.Tx, planID int64) ([]*model.Policy, error) {
	return r.filter(func(p model.Policy) bool { return p.PlanID == planID }), nil
}

func (r *mockPolicyRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Policy, error) {
	return r.filter(func(model.Policy) bool { return true }), nil
}

// -----------------------------
// Fixture
// -----------------------------

type fixture struct {
	store    *memStore
	tm       *MockTxManager
	users    *mockUserRepo
	products *mockProductRepo
	plans    *mockPlanRepo
	slots    *mockSlotRepo
	policies *mockPolicyRepo
}

func newFixture() *fixture {
	s := newSeededStore()
	return &fixture{
		store:    s,
		tm:       &MockTxManager{store: s},
		users:    &mockUserRepo{s: s},
		products: &mockProductRepo{s: s},
		plans:    &mockPlanRepo{s: s},
		slots:    &mockSlotRepo{s: s},
		policies: &mockPolicyRepo{s: s},
	}
}

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
