package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"insuretech-wallet/internal/domain"
	"insuretech-wallet/internal/domain/model"
	"insuretech-wallet/internal/domain/ports/repository"
	"insuretech-wallet/internal/infra/logging"
)

// Compile-time check
var _ PlanUseCase = (*planUC)(nil)

// PlanUseCase exposes read access to purchased plans.
type PlanUseCase interface {
	// GetByID returns the plan with all of its pending slots, used or not.
	GetByID(ctx context.Context, id int64) (*model.Plan, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Plan, error)
}

type planUC struct {
	plans repository.PlanRepository
	slots repository.PendingSlotRepository
	log   *zerolog.Logger
}

func NewPlanUseCase(plans repository.PlanRepository, slots repository.PendingSlotRepository, logger *zerolog.Logger) *planUC {
	return &planUC{plans: plans, slots: slots, log: logger}
}

func (u *planUC) GetByID(ctx context.Context, id int64) (*model.Plan, error) {
	defer logging.TraceDuration(u.log, "PlanUC.GetByID")()
	if id <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	plan, err := u.plans.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	slots, err := u.slots.ListByPlan(ctx, repository.NoTX, plan.ID)
	if err != nil {
		return nil, err
	}
	plan.PendingSlots = slots
	return plan, nil
}

func (u *planUC) ListByUser(ctx context.Context, userID int64) ([]*model.Plan, error) {
	defer logging.TraceDuration(u.log, "PlanUC.ListByUser")()
	if userID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return u.plans.ListByUser(ctx, repository.NoTX, userID)
}
