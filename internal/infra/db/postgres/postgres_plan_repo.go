package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"insuretech-wallet/internal/domain"
	"insuretech-wallet/internal/domain/model"
	"insuretech-wallet/internal/domain/ports/repository"
)

var _ repository.PlanRepository = (*PostgresPlanRepo)(nil)

type PostgresPlanRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPlanRepo(pool *pgxpool.Pool) *PostgresPlanRepo {
	return &PostgresPlanRepo{pool: pool}
}

const planColumns = `id, user_id, product_id, quantity, total_amount, description, created_at`

func (r *PostgresPlanRepo) Create(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}
	const q = `
INSERT INTO plans (user_id, product_id, quantity, total_amount, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id;`
	row, err := pickRow(ctx, r.pool, tx, q,
		plan.UserID, plan.ProductID, plan.Quantity, plan.TotalAmount.Round(2), plan.Description, plan.CreatedAt)
	if err != nil {
		return err
	}
	return translate(row.Scan(&plan.ID), domain.EntityPlan)
}

func (r *PostgresPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Plan, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+planColumns+` FROM plans WHERE id=$1;`, id)
	if err != nil {
		return nil, err
	}
	p, err := scanPlan(row)
	if err != nil {
		return nil, translate(err, domain.EntityPlan)
	}
	return p, nil
}

func (r *PostgresPlanRepo) ListByUser(ctx context.Context, tx repository.Tx, userID int64) ([]*model.Plan, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT `+planColumns+` FROM plans WHERE user_id=$1 ORDER BY id;`, userID)
	if err != nil {
		return nil, translate(err, "")
	}
	defer rows.Close()

	var out []*model.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
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

func scanPlan(row scanner) (*model.Plan, error) {
	var p model.Plan
	if err := row.Scan(&p.ID, &p.UserID, &p.ProductID, &p.Quantity, &p.TotalAmount, &p.Description, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
