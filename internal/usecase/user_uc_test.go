//go:build !integration

package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insuretech-wallet/internal/domain"
	"insuretech-wallet/internal/usecase"
)

func TestUserUseCase_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("should reflect the debit of a committed purchase", func(t *testing.T) {
		f := newFixture()
		uc := usecase.NewUserUseCase(f.users, newTestLogger())
		buy(t, f, 1, 2, 2)

		u, err := uc.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "60000.00", u.WalletBalance.StringFixed(2))
	})

	t.Run("should report an unknown user", func(t *testing.T) {
		f := newFixture()
		uc := usecase.NewUserUseCase(f.users, newTestLogger())

		_, err := uc.Get(ctx, 404)
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, domain.EntityUser, domain.NotFoundEntity(err))

		_, err = uc.Get(ctx, -1)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}
