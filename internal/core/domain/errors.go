package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Common domain errors
var (
	ErrInvalidDomain  = errors.New("unknown request domain")
	ErrInvalidStatus  = errors.New("invalid application status")
	ErrMemberNotFound = errors.New("member not found")
)

// ValidationError reports bad or missing input. Never retried automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports an absent member, application, or loan
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// InsufficientFundsError is a business-rule rejection carrying the exact
// shortfall so callers can show it verbatim.
type InsufficientFundsError struct {
	Requested decimal.Decimal
	Balance   decimal.Decimal
	// PoolShort is set when the cooperative funds pool, not the member
	// balance, is the limiting side.
	PoolShort bool
	Pool      decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	if e.PoolShort {
		return fmt.Sprintf("insufficient cooperative funds: requested %s, pool holds %s",
			e.Requested.StringFixed(2), e.Pool.StringFixed(2))
	}
	return fmt.Sprintf("insufficient balance: requested %s, available %s",
		e.Requested.StringFixed(2), e.Balance.StringFixed(2))
}

// UnderpaymentError reports an overdue loan payment below the required
// total, with the full breakdown.
type UnderpaymentError struct {
	AmountPaid     decimal.Decimal
	MonthlyPayment decimal.Decimal
	Penalty        decimal.Decimal
	TotalDue       decimal.Decimal
	OverdueDays    int
}

func (e *UnderpaymentError) Error() string {
	return fmt.Sprintf("payment %s is below total due %s (monthly %s + penalty %s, %d days overdue)",
		e.AmountPaid.StringFixed(2), e.TotalDue.StringFixed(2),
		e.MonthlyPayment.StringFixed(2), e.Penalty.StringFixed(2), e.OverdueDays)
}

// AlreadyResolvedError is the idempotency guard: the application already has
// an outcome and must not be resolved again.
type AlreadyResolvedError struct {
	Domain        Domain
	MemberID      string
	TransactionID string
	Status        Status
}

func (e *AlreadyResolvedError) Error() string {
	return fmt.Sprintf("%s application %s/%s already resolved as %s",
		e.Domain, e.MemberID, e.TransactionID, e.Status)
}

// StoreError wraps a backing-store failure. The whole operation is safe to
// retry because resolution is guarded by the idempotency check.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// DeliveryError reports a notification failure. Logged only, never surfaced
// to the financial-operation caller.
type DeliveryError struct {
	TransactionID string
	Err           error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("notification delivery failed for %s: %v", e.TransactionID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
