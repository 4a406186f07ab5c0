package usecase

import (
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"insuretech-wallet/internal/domain"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// outcomeOf maps an operation result to a low-cardinality metrics label.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrAlreadyUsed):
		return "already_used"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid"
	default:
		return outcomeError
	}
}

// logOutcome logs business rejections at warn and infrastructure faults at error.
func logOutcome(log *zerolog.Logger, op string, err error) {
	if err == nil {
		return
	}
	if outcomeOf(err) == outcomeError {
		log.Error().Err(err).Str("op", op).Msg("operation failed")
		return
	}
	log.Warn().Err(err).Str("op", op).Msg("operation rejected")
}

// TxOptions is the transaction mode used by purchase and activation.
func TxOptions(level pgx.TxIsoLevel) pgx.TxOptions {
	return pgx.TxOptions{IsoLevel: level, AccessMode: pgx.ReadWrite}
}
