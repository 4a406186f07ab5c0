package repository

import (
	"context"

	"insuretech-wallet/internal/domain/model"
)

// PlanRepository is the port for purchased plans.
type PlanRepository interface {
	// Create inserts plan and sets its ID and CreatedAt.
	Create(ctx context.Context, tx Tx, plan *model.Plan) error
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Plan, error)
	ListByUser(ctx context.Context, tx Tx, userID int64) ([]*model.Plan, error)
}
