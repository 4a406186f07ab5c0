package domain

import (
	"errors"
	"fmt"
)

var (
	// Business errors surfaced to callers.
	ErrNotFound          = errors.New("entity not found")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrAlreadyUsed       = errors.New("pending policy has already been used")
	ErrForbidden         = errors.New("user does not have access to this plan")
	ErrInvalidState      = errors.New("invalid plan - missing product information")
	ErrConflict          = errors.New("user already has a policy for this product")
	ErrInvalidArgument   = errors.New("invalid argument")

	// Storage-side errors. They never carry raw driver messages.
	ErrPolicyNumberTaken  = errors.New("policy number already issued")
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrOperationFailed    = errors.New("database operation failed")
)

// Entity names used with NotFound.
const (
	EntityUser    = "user"
	EntityProduct = "product"
	EntityPlan    = "plan"
	EntitySlot    = "pending policy"
	EntityPolicy  = "policy"
)

// NotFoundError names the entity that could not be resolved.
// errors.Is(err, ErrNotFound) holds for every NotFoundError.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound builds a NotFoundError for entity.
func NotFound(entity string) error { return &NotFoundError{Entity: entity} }

// NotFoundEntity reports which entity a not-found error refers to, or "" when err is not one.
func NotFoundEntity(err error) string {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Entity
	}
	return ""
}
