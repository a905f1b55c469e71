package apierror

// Package-level domain errors raised by the service layer.
// Handlers map these to HTTP status codes via errors.As; services never
// import net/http.

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NotFoundError signals that a referenced entity id does not resolve.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func NewNotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError signals a missing or malformed required field, a
// non-positive quantity, a missing transfer target, etc.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewDomainValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidTransitionError signals a status change outside the allowed set.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s status transition %s -> %s is not allowed", e.Entity, e.From, e.To)
}

// InsufficientStockError signals that a reservation request exceeds the
// available quantity. Carries both figures for caller display.
type InsufficientStockError struct {
	Available decimal.Decimal `json:"available"`
	Requested decimal.Decimal `json:"requested"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %s, requested %s",
		e.Available.String(), e.Requested.String())
}
