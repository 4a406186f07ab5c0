package repository

import (
	"context"
	"time"

	"insuretech-wallet/internal/domain/model"
)

// PendingSlotRepository is the port for the slot pool of plans.
type PendingSlotRepository interface {
	// CreateBatch inserts all slots in one round trip and sets their IDs.
	CreateBatch(ctx context.Context, tx Tx, slots []*model.PendingSlot) error
	FindByID(ctx context.Context, tx Tx, id int64) (*model.PendingSlot, error)
	// FindByIDForUpdate locks the slot row so a concurrent activation of the same slot
	// waits and then observes it as used.
	FindByIDForUpdate(ctx context.Context, tx Tx, id int64) (*model.PendingSlot, error)
	// ListAvailableByPlan returns unused slots in creation order.
	ListAvailableByPlan(ctx context.Context, tx Tx, planID int64) ([]*model.PendingSlot, error)
	ListByPlan(ctx context.Context, tx Tx, planID int64) ([]*model.PendingSlot, error)
	// MarkUsed moves an unused slot to used; domain.ErrAlreadyUsed if it was not unused.
	MarkUsed(ctx context.Context, tx Tx, id int64, at time.Time) error
	CountByStatus(ctx context.Context, tx Tx) (map[model.SlotStatus]int, error)
}
