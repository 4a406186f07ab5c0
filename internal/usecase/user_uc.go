package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"insuretech-wallet/internal/domain"
	"insuretech-wallet/internal/domain/model"
	"insuretech-wallet/internal/domain/ports/repository"
	"insuretech-wallet/internal/infra/logging"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// UserUseCase exposes the wallet holder read surface.
type UserUseCase interface {
	// Get returns the user with the current wallet balance.
	Get(ctx context.Context, id int64) (*model.User, error)
}

type userUC struct {
	users repository.UserRepository
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, logger *zerolog.Logger) *userUC {
	return &userUC{
		users: users,
		log:   logger,
	}
}

func (u *userUC) Get(ctx context.Context, id int64) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Get")()
	if id <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return u.users.FindByID(ctx, repository.NoTX, id)
}
