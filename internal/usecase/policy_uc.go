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
var _ PolicyUseCase = (*policyUC)(nil)

// PolicyUseCase is the read surface of the policy registry.
type PolicyUseCase interface {
	GetByID(ctx context.Context, id int64) (*model.Policy, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Policy, error)
	ListByPlan(ctx context.Context, planID int64) ([]*model.Policy, error)
	List(ctx context.Context) ([]*model.Policy, error)
}

type policyUC struct {
	policies repository.PolicyRepository
	log      *zerolog.Logger
}

func NewPolicyUseCase(policies repository.PolicyRepository, logger *zerolog.Logger) *policyUC {
	return &policyUC{policies: policies, log: logger}
}

func (u *policyUC) GetByID(ctx context.Context, id int64) (*model.Policy, error) {
	defer logging.TraceDuration(u.log, "PolicyUC.GetByID")()
	if id <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return u.policies.FindByID(ctx, repository.NoTX, id)
}

func (u *policyUC) ListByUser(ctx context.Context, userID int64) ([]*model.Policy, error) {
	defer logging.TraceDuration(u.log, "PolicyUC.ListByUser")()
	if userID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return u.policies.ListByUser(ctx, repository.NoTX, userID)
}

func (u *policyUC) ListByPlan(ctx context.Context, planID int64) ([]*model.Policy, error) {
	defer logging.TraceDuration(u.log, "PolicyUC.ListByPlan")()
	if planID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return u.policies.ListByPlan(ctx, repository.NoTX, planID)
}

func (u *policyUC) List(ctx context.Context) ([]*model.Policy, error) {
	defer logging.TraceDuration(u.log, "PolicyUC.List")()
	return u.policies.List(ctx, repository.NoTX)
}
