package apiv1

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"insuretech-wallet/internal/domain"
)

// statusFor maps a use case error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrAlreadyUsed),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// messageFor never leaks storage details; unknown errors become a generic message.
func messageFor(err error) string {
	if entity := domain.NotFoundEntity(err); entity != "" {
		return capitalize(entity) + " not found"
	}
	for _, known := range []error{
		domain.ErrNotFound,
		domain.ErrInsufficientFunds,
		domain.ErrAlreadyUsed,
		domain.ErrForbidden,
		domain.ErrInvalidState,
		domain.ErrConflict,
		domain.ErrInvalidArgument,
	} {
		if errors.Is(err, known) {
			return capitalize(known.Error())
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timed out"
	}
	return "Internal server error"
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.TrimSpace(s[size:])
}
