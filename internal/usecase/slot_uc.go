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
var _ SlotUseCase = (*slotUC)(nil)

// SlotUseCase is the read surface of the pending slot pool.
type SlotUseCase interface {
	// ListAvailable returns the unused slots of a plan in creation order. Used slots stay
	// addressable through Get but never show up here.
	ListAvailable(ctx context.Context, planID int64) ([]*model.PendingSlot, error)
	Get(ctx context.Context, id int64) (*model.PendingSlot, error)
	// CountByStatus feeds the slot gauge.
	CountByStatus(ctx context.Context) (map[model.SlotStatus]int, error)
}

type slotUC struct {
	slots repository.PendingSlotRepository
	log   *zerolog.Logger
}

func NewSlotUseCase(slots repository.PendingSlotRepository, logger *zerolog.Logger) *slotUC {
	return &slotUC{slots: slots, log: logger}
}

func (u *slotUC) ListAvailable(ctx context.Context, planID int64) ([]*model.PendingSlot, error) {
	defer logging.TraceDuration(u.log, "SlotUC.ListAvailable")()
	if planID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return u.slots.ListAvailableByPlan(ctx, repository.NoTX, planID)
}

func (u *slotUC) Get(ctx context.Context, id int64) (*model.PendingSlot, error) {
	defer logging.TraceDuration(u.log, "SlotUC.Get")()
	if id <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return u.slots.FindByID(ctx, repository.NoTX, id)
}

func (u *slotUC) CountByStatus(ctx context.Context) (map[model.SlotStatus]int, error) {
	return u.slots.CountByStatus(ctx, repository.NoTX)
}
