package repository

import (
	"context"

	"insuretech-wallet/internal/domain/model"
)

// ProductRepository is the catalog lookup port. Products are read-only to this service.
type ProductRepository interface {
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Product, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Product, error)
}
