package model

import (
	"encoding/json"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"insuretech-wallet/internal/domain"
)

// Plan records the purchase of Quantity units of one product. It is written once, together
// with its pending slots, and never changes afterwards.
type Plan struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"userId"`
	ProductID    int64           `json:"productId"`
	Quantity     int             `json:"quantity"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"createdAt"`
	PendingSlots []*PendingSlot  `json:"pendingPolicies,omitempty"`
}

// MaxQuantity is the largest quantity plans.quantity can hold.
const MaxQuantity = math.MaxInt32

// NewPlan validates and constructs a plan for product bought by userID.
func NewPlan(userID int64, product *Product, quantity int, description string) (*Plan, error) {
	if userID <= 0 || product.IsZero() || quantity <= 0 || quantity > MaxQuantity {
		return nil, domain.ErrInvalidArgument
	}
	return &Plan{
		UserID:      userID,
		ProductID:   product.ID,
		Quantity:    quantity,
		TotalAmount: product.TotalFor(quantity),
		Description: description,
		CreatedAt:   time.Now(),
	}, nil
}

func (p *Plan) IsZero() bool { return p == nil || p.ID == 0 }

// OwnedBy reports whether userID bought the plan.
func (p *Plan) OwnedBy(userID int64) bool { return p != nil && p.UserID == userID }

// NewSlots builds the Quantity unused slots belonging to the plan.
func (p *Plan) NewSlots() []*PendingSlot {
	slots := make([]*PendingSlot, 0, p.Quantity)
	now := time.Now()
	for i := 0; i < p.Quantity; i++ {
		slots = append(slots, &PendingSlot{
			PlanID:    p.ID,
			Status:    SlotStatusUnused,
			CreatedAt: now,
		})
	}
	return slots
}

// MarshalJSON writes TotalAmount with two fraction digits.
func (p Plan) MarshalJSON() ([]byte, error) {
	type plan Plan
	return json.Marshal(struct {
		plan
		TotalAmount string `json:"totalAmount"`
	}{plan(p), p.TotalAmount.StringFixed(2)})
}
