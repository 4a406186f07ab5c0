package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"insuretech-wallet/internal/domain"
	"insuretech-wallet/internal/domain/model"
	"insuretech-wallet/internal/domain/ports/repository"
)

// Compile-time check
var _ ProductUseCase = (*productUC)(nil)

// ProductUseCase is the catalog read surface.
type ProductUseCase interface {
	List(ctx context.Context) ([]*model.Product, error)
	Get(ctx context.Context, id int64) (*model.Product, error)
}

type productUC struct {
	products repository.ProductRepository
	log      *zerolog.Logger
}

func NewProductUseCase(products repository.ProductRepository, logger *zerolog.Logger) *productUC {
	return &productUC{products: products, log: logger}
}

func (u *productUC) List(ctx context.Context) ([]*model.Product, error) {
	return u.products.ListAll(ctx, repository.NoTX)
}

func (u *productUC) Get(ctx context.Context, id int64) (*model.Product, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return u.products.FindByID(ctx, repository.NoTX, id)
}
