package model

import (
	"regexp"
	"time"
)

// PolicyNumberPattern is the persisted policy number format:
// POL-<13-digit epoch millis>-<4-digit zero-padded number>.
var PolicyNumberPattern = regexp.MustCompile(`^POL-\d{13}-\d{4}$`)

// Policy is the coverage issued for a (user, product) pair from exactly one pending slot.
type Policy struct {
	ID            int64     `json:"id"`
	PolicyNumber  string    `json:"policyNumber"`
	UserID        int64     `json:"userId"`
	ProductID     int64     `json:"productId"`
	PendingSlotID int64     `json:"pendingPolicyId"`
	PlanID        int64     `json:"planId"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (p *Policy) IsZero() bool { return p == nil || p.ID == 0 }

// NewPolicy issues a policy for slot of plan. The caller supplies the number.
func NewPolicy(number string, plan *Plan, slot *PendingSlot, description string) *Policy {
	return &Policy{
		PolicyNumber:  number,
		UserID:        plan.UserID,
		ProductID:     plan.ProductID,
		PendingSlotID: slot.ID,
		PlanID:        plan.ID,
		Description:   description,
		CreatedAt:     time.Now(),
	}
}
