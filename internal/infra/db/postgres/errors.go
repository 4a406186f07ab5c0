package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"insuretech-wallet/internal/domain"
)

// SQLSTATE codes the service reacts to.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// Constraint names from deploy/postgres/init.sql.
const (
	constraintPolicyUserProduct = "policies_user_product_key"
	constraintPolicyNumber      = "policies_policy_number_key"
	constraintPolicySlot        = "policies_pending_slot_key"
	constraintWalletNonNegative = "users_wallet_balance_check"
)

// translate maps driver errors to domain errors so no pg error escapes this package.
// entity names the row kind for ErrNoRows.
func translate(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if entity == "" {
			return domain.ErrNotFound
		}
		return domain.NotFound(entity)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidState) ||
		errors.Is(err, domain.ErrInvalidExecContext) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			switch pgErr.ConstraintName {
			case constraintPolicyNumber:
				return domain.ErrPolicyNumberTaken
			case constraintPolicySlot:
				return domain.ErrAlreadyUsed
			default:
				return domain.ErrConflict
			}
		case codeSerializationFailure, codeDeadlockDetected:
			return domain.ErrConflict
		case codeCheckViolation:
			if pgErr.ConstraintName == constraintWalletNonNegative {
				return domain.ErrInsufficientFunds
			}
			return domain.ErrInvalidArgument
		case codeForeignKeyViolation:
			return domain.ErrNotFound
		}
		return fmt.Errorf("%w: sqlstate %s", domain.ErrOperationFailed, pgErr.Code)
	}
	return fmt.Errorf("%w: %v", domain.ErrOperationFailed, err)
}
