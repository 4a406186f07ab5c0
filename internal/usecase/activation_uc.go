package usecase

import (
	"context"
	"errors"
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
var _ ActivationUseCase = (*activationUC)(nil)

const defaultNumberAttempts = 3

type ActivateInput struct {
	PendingSlotID int64
	UserID        int64
	Description   string
}

// ActivationUseCase converts one pending slot into a policy.
type ActivationUseCase interface {
	Activate(ctx context.Context, in ActivateInput) (*model.Policy, error)
}

type ActivationOption func(*activationUC)

// WithPolicyNumbers replaces the policy number generator.
func WithPolicyNumbers(fn PolicyNumberFunc) ActivationOption {
	return func(u *activationUC) { u.numbers = fn }
}

// WithNumberAttempts bounds how many numbers are tried when the generated one is taken.
func WithNumberAttempts(n int) ActivationOption {
	return func(u *activationUC) {
		if n > 0 {
			u.attempts = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ActivationOption {
	return func(u *activationUC) { u.now = now }
}

type activationUC struct {
	slots    repository.PendingSlotRepository
	plans    repository.PlanRepository
	users    repository.UserRepository
	policies repository.PolicyRepository
	tm       repository.TransactionManager
	txOpts   pgx.TxOptions
	log      *zerolog.Logger

	numbers  PolicyNumberFunc
	attempts int
	now      func() time.Time
}

func NewActivationUseCase(
	slots repository.PendingSlotRepository,
	plans repository.PlanRepository,
	users repository.UserRepository,
	policies repository.PolicyRepository,
	tm repository.TransactionManager,
	txOpts pgx.TxOptions,
	logger *zerolog.Logger,
	opts ...ActivationOption,
) *activationUC {
	u := &activationUC{
		slots:    slots,
		plans:    plans,
		users:    users,
		policies: policies,
		tm:       tm,
		txOpts:   txOpts,
		log:      logger,
		numbers:  generatePolicyNumber,
		attempts: defaultNumberAttempts,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *activationUC) Activate(ctx context.Context, in ActivateInput) (*model.Policy, error) {
	defer logging.TraceDuration(u.log, "ActivationUC.Activate")()
	start := time.Now()

	policy, err := u.activate(ctx, in)

	outcome := outcomeOf(err)
	metrics.IncActivation(outcome)
	metrics.ObserveOperation("activate", outcome, time.Since(start))
	log := logging.With(logging.WithUserID(ctx, in.UserID), u.log)
	if err != nil {
		l := log.With().Int64("slot_id", in.PendingSlotID).Logger()
		logOutcome(&l, "activate", err)
		return nil, err
	}

	log.Info().
		Int64("policy_id", policy.ID).
		Str("policy_number", policy.PolicyNumber).
		Int64("slot_id", policy.PendingSlotID).
		Int64("product_id", policy.ProductID).
		Msg("policy activated")
	return policy, nil
}

func (u *activationUC) activate(ctx context.Context, in ActivateInput) (*model.Policy, error) {
	if in.PendingSlotID <= 0 || in.UserID <= 0 {
		return nil, domain.ErrInvalidArgument
	}

	var policy *model.Policy
	err := u.tm.WithTx(ctx, u.txOpts, func(ctx context.Context, tx repository.Tx) error {
		// A second activation of the same slot blocks here and then sees it used.
		slot, err := u.slots.FindByIDForUpdate(ctx, tx, in.PendingSlotID)
		if err != nil {
			return err
		}
		// Transition the locked copy first; the guarded UPDATE below persists it.
		if err := slot.MarkUsed(u.now()); err != nil {
			return err
		}

		plan, err := u.plans.FindByID(ctx, tx, slot.PlanID)
		if err != nil {
			return err
		}
		if _, err := u.users.FindByID(ctx, tx, in.UserID); err != nil {
			return err
		}
		if !plan.OwnedBy(in.UserID) {
			return domain.ErrForbidden
		}
		if plan.ProductID == 0 {
			return domain.ErrInvalidState
		}

		// Early exit only; the unique constraint on (user_id, product_id) decides races.
		existing, err := u.policies.FindByUserAndProduct(ctx, tx, in.UserID, plan.ProductID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if existing != nil {
			return domain.ErrConflict
		}

		p, err := u.issue(ctx, tx, plan, slot, in.Description)
		if err != nil {
			return err
		}

		if err := u.slots.MarkUsed(ctx, tx, slot.ID, *slot.UsedAt); err != nil {
			return err
		}
		policy = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return policy, nil
}

// issue inserts the policy, drawing a fresh number each time the previous one is taken.
func (u *activationUC) issue(ctx context.Context, tx repository.Tx, plan *model.Plan, slot *model.PendingSlot, description string) (*model.Policy, error) {
	for attempt := 1; ; attempt++ {
		number, err := u.numbers(u.now())
		if err != nil {
			return nil, fmt.Errorf("generate policy number: %w", err)
		}
		p := model.NewPolicy(number, plan, slot, description)
		err = u.policies.Create(ctx, tx, p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, domain.ErrPolicyNumberTaken) {
			return nil, err
		}
		metrics.IncPolicyNumberCollision()
		u.log.Warn().Str("policy_number", number).Int("attempt", attempt).Msg("policy number taken")
		if attempt >= u.attempts {
			return nil, fmt.Errorf("%w: no free policy number after %d attempts", domain.ErrConflict, attempt)
		}
	}
}
