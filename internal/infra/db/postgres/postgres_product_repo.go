package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"insuretech-wallet/internal/domain"
	"insuretech-wallet/internal/domain/model"
	"insuretech-wallet/internal/domain/ports/repository"
)

var _ repository.ProductRepository = (*PostgresProductRepo)(nil)

type PostgresProductRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresProductRepo(pool *pgxpool.Pool) *PostgresProductRepo {
	return &PostgresProductRepo{pool: pool}
}

const productSelect = `
SELECT p.id, p.name, p.description, p.price, p.category_id, p.created_at,
       c.id, c.name, c.description, c.created_at
  FROM products p
  JOIN product_categories c ON c.id = p.category_id`

func (r *PostgresProductRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Product, error) {
	row, err := pickRow(ctx, r.pool, tx, productSelect+` WHERE p.id=$1;`, id)
	if err != nil {
		return nil, err
	}
	p, err := scanProduct(row)
	if err != nil {
		return nil, translate(err, domain.EntityProduct)
	}
	return p, nil
}

func (r *PostgresProductRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Product, error) {
	rows, err := queryRows(ctx, r.pool, tx, productSelect+` ORDER BY p.id;`)
	if err != nil {
		return nil, translate(err, "")
	}
	defer rows.Close()

	var out []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
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

func scanProduct(row scanner) (*model.Product, error) {
	var p model.Product
	var c model.ProductCategory
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID, &p.CreatedAt,
		&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
		return nil, err
	}
	p.Category = &c
	return &p, nil
}
