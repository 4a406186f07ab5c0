package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"insuretech-wallet/internal/domain"
)

// User is the wallet holder. WalletBalance is the single spendable balance of the account;
// it is only ever lowered through the guarded debit of a purchase.
type User struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (u *User) IsZero() bool { return u == nil || u.ID == 0 }

// CanAfford reports whether the wallet covers amount.
func (u *User) CanAfford(amount decimal.Decimal) bool {
	return u.WalletBalance.GreaterThanOrEqual(amount)
}

// Debit lowers the loaded balance, refusing an overdraft. Purchases persist the same
// amount through UserRepository.Debit.
func (u *User) Debit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domain.ErrInvalidArgument
	}
	if !u.CanAfford(amount) {
		return domain.ErrInsufficientFunds
	}
	u.WalletBalance = u.WalletBalance.Sub(amount)
	u.UpdatedAt = time.Now()
	return nil
}

// MarshalJSON writes WalletBalance with two fraction digits.
func (u User) MarshalJSON() ([]byte, error) {
	type user User
	return json.Marshal(struct {
		user
		WalletBalance string `json:"walletBalance"`
	}{user(u), u.WalletBalance.StringFixed(2)})
}
