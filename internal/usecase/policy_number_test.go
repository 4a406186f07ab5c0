//go:build !integration

package usecase

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insuretech-wallet/internal/domain"
	"insuretech-wallet/internal/domain/model"
)

func TestGeneratePolicyNumber(t *testing.T) {
	t.Run("should match the persisted format", func(t *testing.T) {
		now := time.Date(2025, 6, 7, 14, 54, 7, 123e6, time.UTC)
		for i := 0; i < 200; i++ {
			n, err := generatePolicyNumber(now)
			require.NoError(t, err)
			assert.Regexp(t, model.PolicyNumberPattern, n)
			assert.Equal(t, "POL-1749308047123-", n[:18])
		}
	})

	t.Run("should zero-pad millis before 2001", func(t *testing.T) {
		n, err := generatePolicyNumber(time.UnixMilli(42))
		require.NoError(t, err)
		assert.Equal(t, "POL-0000000000042-", n[:18])
	})
}

func TestOutcomeOf(t *testing.T) {
	cases := map[string]error{
		"success":            nil,
		"insufficient_funds": domain.ErrInsufficientFunds,
		"already_used":       fmt.Errorf("wrap: %w", domain.ErrAlreadyUsed),
		"conflict":           domain.ErrConflict,
		"forbidden":          domain.ErrForbidden,
		"not_found":          domain.NotFound(domain.EntityPlan),
		"invalid_state":      domain.ErrInvalidState,
		"invalid":            domain.ErrInvalidArgument,
		"error":              errors.New("connection reset"),
	}
	for want, err := range cases {
		assert.Equal(t, want, outcomeOf(err), "err=%v", err)
	}
}
