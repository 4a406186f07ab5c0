package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"insuretech-wallet/internal/domain"
	"insuretech-wallet/internal/domain/model"
	"insuretech-wallet/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

const userColumns = `id, name, email, wallet_balance, created_at, updated_at`

// Save inserts a new user (ID == 0) or updates name/email of an existing one.
// The wallet balance is only set on insert; afterwards it moves through Debit.
func (r *PostgresUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.UpdatedAt = time.Now().UTC()

	if u.ID == 0 {
		const q = `
INSERT INTO users (name, email, wallet_balance, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id;`
		row, err := pickRow(ctx, r.pool, tx, q, u.Name, u.Email, u.WalletBalance, u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return err
		}
		return translate(row.Scan(&u.ID), domain.EntityUser)
	}

	const q = `UPDATE users SET name=$2, email=$3, updated_at=$4 WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, u.ID, u.Name, u.Email, u.UpdatedAt)
	if err != nil {
		return translate(err, domain.EntityUser)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(domain.EntityUser)
	}
	return nil
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	return r.queryOne(ctx, tx, `SELECT `+userColumns+` FROM users WHERE id=$1;`, id)
}

func (r *PostgresUserRepo) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	if _, ok := tx.(pgx.Tx); !ok {
		// FOR UPDATE outside a transaction releases the lock immediately.
		return nil, domain.ErrInvalidExecContext
	}
	return r.queryOne(ctx, tx, `SELECT `+userColumns+` FROM users WHERE id=$1 FOR UPDATE;`, id)
}

// Debit is the only statement that lowers a wallet. The balance guard in the WHERE clause
// keeps it correct even if a caller skipped the row lock.
func (r *PostgresUserRepo) Debit(ctx context.Context, tx repository.Tx, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, domain.ErrInvalidArgument
	}
	const q = `
UPDATE users
   SET wallet_balance = wallet_balance - $2, updated_at = NOW()
 WHERE id = $1 AND wallet_balance >= $2
RETURNING wallet_balance;`
	row, err := pickRow(ctx, r.pool, tx, q, id, amount)
	if err != nil {
		return decimal.Zero, err
	}
	var balance decimal.Decimal
	if err := row.Scan(&balance); err != nil {
		if err == pgx.ErrNoRows {
			// either the user vanished or the balance no longer covers amount
			if _, ferr := r.FindByID(ctx, tx, id); ferr != nil {
				return decimal.Zero, ferr
			}
			return decimal.Zero, domain.ErrInsufficientFunds
		}
		return decimal.Zero, translate(err, domain.EntityUser)
	}
	return balance, nil
}

func (r *PostgresUserRepo) queryOne(ctx context.Context, tx repository.Tx, sql string, args ...any) (*model.User, error) {
	row, err := pickRow(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, err
	}
	var u model.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.WalletBalance, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, translate(err, domain.EntityUser)
	}
	return &u, nil
}
