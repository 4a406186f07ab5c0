package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"insuretech-wallet/internal/domain"
	"insuretech-wallet/internal/domain/model"
	"insuretech-wallet/internal/domain/ports/repository"
	"insuretech-wallet/internal/infra/logging"
	"insuretech-wallet/internal/infra/metrics"
)

// Compile-time check
var _ PurchaseUseCase = (*purchaseUC)(nil)

const defaultMaxQuantity = 1000

type PurchaseInput struct {
	UserID      int64
	ProductID   int64
	Quantity    int
	Description string
}

// PurchaseUseCase buys Quantity units of a product from the user's wallet.
type PurchaseUseCase interface {
	// Purchase debits the wallet, records the plan and allocates its pending slots in one
	// transaction. It returns the plan with its slots.
	Purchase(ctx context.Context, in PurchaseInput) (*model.Plan, error)
}

type PurchaseOption func(*purchaseUC)

// WithMaxQuantity bounds the units one purchase may buy. Values outside
// (0, model.MaxQuantity] are ignored.
func WithMaxQuantity(n int) PurchaseOption {
	return func(u *purchaseUC) {
		if n > 0 && n <= model.MaxQuantity {
			u.maxQuantity = n
		}
	}
}

type purchaseUC struct {
	users    repository.UserRepository
	products repository.ProductRepository
	plans    repository.PlanRepository
	slots    repository.PendingSlotRepository
	tm       repository.TransactionManager
	txOpts   pgx.TxOptions
	log      *zerolog.Logger

	maxQuantity int
}

func NewPurchaseUseCase(
	users repository.UserRepository,
	products repository.ProductRepository,
	plans repository.PlanRepository,
	slots repository.PendingSlotRepository,
	tm repository.TransactionManager,
	txOpts pgx.TxOptions,
	logger *zerolog.Logger,
	opts ...PurchaseOption,
) *purchaseUC {
	u := &purchaseUC{
		users:       users,
		products:    products,
		plans:       plans,
		slots:       slots,
		tm:          tm,
		txOpts:      txOpts,
		log:         logger,
		maxQuantity: defaultMaxQuantity,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *purchaseUC) Purchase(ctx context.Context, in PurchaseInput) (*model.Plan, error) {
	defer logging.TraceDuration(u.log, "PurchaseUC.Purchase")()
	start := time.Now()

	plan, err := u.purchase(ctx, in)

	outcome := outcomeOf(err)
	metrics.IncPurchase(outcome)
	metrics.ObserveOperation("purchase", outcome, time.Since(start))
	log := logging.With(logging.WithUserID(ctx, in.UserID), u.log)
	if err != nil {
		logOutcome(log, "purchase", err)
		return nil, err
	}

	metrics.ObservePurchase(plan.TotalAmount, len(plan.PendingSlots))
	log.Info().
		Int64("plan_id", plan.ID).
		Int64("product_id", plan.ProductID).
		Int("quantity", plan.Quantity).
		Str("total", plan.TotalAmount.StringFixed(2)).
		Msg("plan purchased")
	return plan, nil
}

func (u *purchaseUC) purchase(ctx context.Context, in PurchaseInput) (*model.Plan, error) {
	if in.Quantity <= 0 || in.UserID <= 0 || in.ProductID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if in.Quantity > u.maxQuantity {
		return nil, fmt.Errorf("%w: quantity exceeds %d", domain.ErrInvalidArgument, u.maxQuantity)
	}

	var plan *model.Plan
	err := u.tm.WithTx(ctx, u.txOpts, func(ctx context.Context, tx repository.Tx) error {
		// Locking the user row serialises concurrent purchases on the same wallet.
		user, err := u.users.FindByIDForUpdate(ctx, tx, in.UserID)
		if err != nil {
			return err
		}
		product, err := u.products.FindByID(ctx, tx, in.ProductID)
		if err != nil {
			return err
		}

		p, err := model.NewPlan(user.ID, product, in.Quantity, in.Description)
		if err != nil {
			return err
		}
		// The in-memory debit rejects early; the guarded UPDATE is authoritative.
		if err := user.Debit(p.TotalAmount); err != nil {
			return err
		}
		balance, err := u.users.Debit(ctx, tx, user.ID, p.TotalAmount)
		if err != nil {
			return err
		}
		user.WalletBalance = balance

		if err := u.plans.Create(ctx, tx, p); err != nil {
			return err
		}
		slots := p.NewSlots()
		if err := u.slots.CreateBatch(ctx, tx, slots); err != nil {
			return err
		}
		p.PendingSlots = slots
		plan = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}
