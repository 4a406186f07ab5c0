package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"insuretech-wallet/internal/domain"
	"insuretech-wallet/internal/domain/model"
	"insuretech-wallet/internal/domain/ports/repository"
)

var _ repository.PolicyRepository = (*PostgresPolicyRepo)(nil)

type PostgresPolicyRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPolicyRepo(pool *pgxpool.Pool) *PostgresPolicyRepo {
	return &PostgresPolicyRepo{pool: pool}
}

const policyColumns = `id, policy_number, user_id, product_id, pending_slot_id, plan_id, description, created_at`

// Create inserts the policy. Inside a transaction the INSERT runs under a savepoint:
// a unique violation would otherwise abort the whole transaction and the caller could
// not retry with a fresh policy number.
func (r *PostgresPolicyRepo) Create(ctx context.Context, tx repository.Tx, p *model.Policy) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	const q = `
INSERT INTO policies (policy_number, user_id, product_id, pending_slot_id, plan_id, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id;`
	args := []any{p.PolicyNumber, p.UserID, p.ProductID, p.PendingSlotID, p.PlanID, p.Description, p.CreatedAt}

	outer, ok := tx.(pgx.Tx)
	if !ok {
		row, err := pickRow(ctx, r.pool, tx, q, args...)
		if err != nil {
			return err
		}
		return translate(row.Scan(&p.ID), domain.EntityPolicy)
	}

	sp, err := outer.Begin(ctx) // SAVEPOINT
	if err != nil {
		return translate(err, "")
	}
	if err := sp.QueryRow(ctx, q, args...).Scan(&p.ID); err != nil {
		_ = sp.Rollback(ctx) // ROLLBACK TO SAVEPOINT
		p.ID = 0
		return translate(err, domain.EntityPolicy)
	}
	return translate(sp.Commit(ctx), "") // RELEASE SAVEPOINT
}

func (r *PostgresPolicyRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Policy, error) {
	return r.queryOne(ctx, tx, `SELECT `+policyColumns+` FROM policies WHERE id=$1;`, id)
}

func (r *PostgresPolicyRepo) FindByUserAndProduct(ctx context.Context, tx repository.Tx, userID, productID int64) (*model.Policy, error) {
	const q = `SELECT ` + policyColumns + ` FROM policies WHERE user_id=$1 AND product_id=$2 LIMIT 1;`
	return r.queryOne(ctx, tx, q, userID, productID)
}

func (r *PostgresPolicyRepo) ListByUser(ctx context.Context, tx repository.Tx, userID int64) ([]*model.Policy, error) {
	return r.queryMany(ctx, tx, `SELECT `+policyColumns+` FROM policies WHERE user_id=$1 ORDER BY id;`, userID)
}

func (r *PostgresPolicyRepo) ListByPlan(ctx context.Context, tx repository.Tx, planID int64) ([]*model.Policy, error) {
	return r.queryMany(ctx, tx, `SELECT `+policyColumns+` FROM policies WHERE plan_id=$1 ORDER BY id;`, planID)
}

func (r *PostgresPolicyRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Policy, error) {
	return r.queryMany(ctx, tx, `SELECT `+policyColumns+` FROM policies ORDER BY id;`)
}

func (r *PostgresPolicyRepo) queryOne(ctx context.Context, tx repository.Tx, sql string, args ...any) (*model.Policy, error) {
	row, err := pickRow(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, err
	}
	p, err := scanPolicy(row)
	if err != nil {
		return nil, translate(err, domain.EntityPolicy)
	}
	return p, nil
}

func (r *PostgresPolicyRepo) queryMany(ctx context.Context, tx repository.Tx, sql string, args ...any) ([]*model.Policy, error) {
	rows, err := queryRows(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, translate(err, "")
	}
	defer rows.Close()

	out := make([]*model.Policy, 0)
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func scanPolicy(row scanner) (*model.Policy, error) {
	var p model.Policy
	if err := row.Scan(&p.ID, &p.PolicyNumber, &p.UserID, &p.ProductID, &p.PendingSlotID, &p.PlanID, &p.Description, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
