package repository

import (
	"context"

	"insuretech-wallet/internal/domain/model"
)

// PolicyRepository is the policy registry port.
type PolicyRepository interface {
	// Create inserts p. It returns domain.ErrConflict when (user, product) already holds a
	// policy and domain.ErrPolicyNumberTaken when the number collides. A failed Create
	// leaves the surrounding transaction usable.
	Create(ctx context.Context, tx Tx, p *model.Policy) error
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Policy, error)
	FindByUserAndProduct(ctx context.Context, tx Tx, userID, productID int64) (*model.Policy, error)
	ListByUser(ctx context.Context, tx Tx, userID int64) ([]*model.Policy, error)
	ListByPlan(ctx context.Context, tx Tx, planID int64) ([]*model.Policy, error)
	List(ctx context.Context, tx Tx) ([]*model.Policy, error)
}
