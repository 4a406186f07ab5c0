package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"insuretech-wallet/internal/domain/model"
)

// -----------------------------
// Users (wallet accounts)
// -----------------------------

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id int64) (*model.User, error)
	// FindByIDForUpdate locks the user row until tx ends. Concurrent purchases by the
	// same user serialise on this lock.
	FindByIDForUpdate(ctx context.Context, tx Tx, id int64) (*model.User, error)
	// Debit subtracts amount only if the balance still covers it and returns the new
	// balance; otherwise domain.ErrInsufficientFunds.
	Debit(ctx context.Context, tx Tx, id int64, amount decimal.Decimal) (decimal.Decimal, error)
}
