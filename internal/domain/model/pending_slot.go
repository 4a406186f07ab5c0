package model

import (
	"time"

	"insuretech-wallet/internal/domain"
)

type SlotStatus string

const (
	SlotStatusUnused SlotStatus = "unused" // redeemable; listed as available
	SlotStatusUsed   SlotStatus = "used"   // redeemed into a policy; terminal, kept for audit
)

func (s SlotStatus) Valid() bool {
	return s == SlotStatusUnused || s == SlotStatusUsed
}

// PendingSlot is one single-use redemption right of a Plan.
type PendingSlot struct {
	ID          int64      `json:"id"`
	PlanID      int64      `json:"planId"`
	Status      SlotStatus `json:"status"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UsedAt      *time.Time `json:"usedAt,omitempty"`
}

// IsAvailable is the only predicate availability queries use.
func (s *PendingSlot) IsAvailable() bool {
	return s != nil && s.Status == SlotStatusUnused
}

// MarkUsed performs the unused -> used transition. A used slot never goes back.
func (s *PendingSlot) MarkUsed(at time.Time) error {
	switch {
	case s.IsAvailable():
	case s.Status == SlotStatusUsed:
		return domain.ErrAlreadyUsed
	default:
		return domain.ErrInvalidState
	}
	s.Status = SlotStatusUsed
	s.UsedAt = &at
	return nil
}
