//go:build !integration

package model

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"insuretech-wallet/internal/domain"
)

// --- User Model Tests ---

func TestUser_Debit(t *testing.T) {
	t.Run("should debit exactly without rounding drift", func(t *testing.T) {
		u := &User{ID: 1, WalletBalance: decimal.RequireFromString("0.30")}
		for i := 0; i < 3; i++ {
			if err := u.Debit(decimal.RequireFromString("0.10")); err != nil {
				t.Fatalf("debit %d failed: %v", i, err)
			}
		}
		if !u.WalletBalance.IsZero() {
			t.Errorf("expected zero balance, got %s", u.WalletBalance)
		}
	})

	t.Run("should refuse to overdraw", func(t *testing.T) {
		u := &User{ID: 1, WalletBalance: decimal.RequireFromString("9.99")}
		if err := u.Debit(decimal.RequireFromString("10.00")); !errors.Is(err, domain.ErrInsufficientFunds) {
			t.Fatalf("expected ErrInsufficientFunds, got %v", err)
		}
		if !u.WalletBalance.Equal(decimal.RequireFromString("9.99")) {
			t.Errorf("balance changed on failed debit: %s", u.WalletBalance)
		}
	})
}

// --- Plan Model Tests ---

func TestNewPlan(t *testing.T) {
	product := &Product{ID: 7, Name: "Optimal care mini", Price: decimal.RequireFromString("10000.00")}

	t.Run("should compute the total amount exactly", func(t *testing.T) {
		plan, err := NewPlan(1, product, 3, "family")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if plan.TotalAmount.StringFixed(2) != "30000.00" {
			t.Errorf("expected total 30000.00, got %s", plan.TotalAmount.StringFixed(2))
		}
		if plan.ProductID != 7 || plan.UserID != 1 {
			t.Errorf("unexpected plan references: %+v", plan)
		}
	})

	t.Run("should fail with a quantity outside the column range", func(t *testing.T) {
		for _, q := range []int{0, -2, MaxQuantity + 1, math.MaxInt} {
			if _, err := NewPlan(1, product, q, ""); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("quantity %d: expected ErrInvalidArgument, got %v", q, err)
			}
		}
	})

	t.Run("should build one unused slot per unit", func(t *testing.T) {
		plan, _ := NewPlan(1, product, 4, "")
		plan.ID = 99
		slots := plan.NewSlots()
		if len(slots) != 4 {
			t.Fatalf("expected 4 slots, got %d", len(slots))
		}
		for _, s := range slots {
			if s.PlanID != 99 || !s.IsAvailable() {
				t.Errorf("unexpected slot %+v", s)
			}
		}
	})
}

// --- PendingSlot Model Tests ---

func TestPendingSlot_MarkUsed(t *testing.T) {
	t.Run("should move unused to used once", func(t *testing.T) {
		s := &PendingSlot{ID: 1, Status: SlotStatusUnused}
		if err := s.MarkUsed(time.Now()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if s.IsAvailable() || s.UsedAt == nil {
			t.Error("expected slot to be used and stamped")
		}
		if err := s.MarkUsed(time.Now()); !errors.Is(err, domain.ErrAlreadyUsed) {
			t.Errorf("expected ErrAlreadyUsed on second transition, got %v", err)
		}
	})
}

func TestPendingSlot_MarkUsedUnknownStatus(t *testing.T) {
	s := &PendingSlot{ID: 1, Status: SlotStatus("expired")}
	if s.Status.Valid() {
		t.Fatal("expected unknown status to be invalid")
	}
	if err := s.MarkUsed(time.Now()); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if s.UsedAt != nil {
		t.Error("expected slot to stay unstamped")
	}
}

func TestPolicyNumberPattern(t *testing.T) {
	good := []string{"POL-1735747200000-1234", "POL-1735747200000-0007"}
	bad := []string{"POL-1735747200000-123", "POL-173574720000-1234", "pol-1735747200000-1234"}
	for _, n := range good {
		if !PolicyNumberPattern.MatchString(n) {
			t.Errorf("expected %q to match", n)
		}
	}
	for _, n := range bad {
		if PolicyNumberPattern.MatchString(n) {
			t.Errorf("expected %q not to match", n)
		}
	}
}

func TestNotFoundError(t *testing.T) {
	err := domain.NotFound(domain.EntitySlot)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatal("expected NotFound to satisfy errors.Is(ErrNotFound)")
	}
	if domain.NotFoundEntity(err) != domain.EntitySlot {
		t.Errorf("unexpected entity %q", domain.NotFoundEntity(err))
	}
}

func TestMoneyJSON(t *testing.T) {
	cases := []struct {
		name string
		v    any
		want string
	}{
		{"plan total", &Plan{ID: 1, TotalAmount: decimal.RequireFromString("30000")}, `"totalAmount":"30000.00"`},
		{"wallet balance", User{ID: 1, WalletBalance: decimal.RequireFromString("70000.5")}, `"walletBalance":"70000.50"`},
		{"product price", &Product{ID: 1, Price: decimal.RequireFromString("10000")}, `"price":"10000.00"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := json.Marshal(tc.v)
			if err != nil {
				t.Fatalf("json.Marshal() failed: %v", err)
			}
			if !strings.Contains(string(b), tc.want) {
				t.Errorf("expected %s in %s", tc.want, b)
			}
			if strings.Count(string(b), strings.SplitN(tc.want, ":", 2)[0]) != 1 {
				t.Errorf("money field encoded more than once: %s", b)
			}
		})
	}

	t.Run("should decode back to the same amount", func(t *testing.T) {
		b, _ := json.Marshal(&Plan{ID: 1, TotalAmount: decimal.RequireFromString("0.10")})
		var p Plan
		if err := json.Unmarshal(b, &p); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if !p.TotalAmount.Equal(decimal.RequireFromString("0.10")) {
			t.Errorf("unexpected total %s", p.TotalAmount)
		}
	})
}
