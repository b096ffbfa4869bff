package services

import (
	"smpc-coopfund/internal/core/domain"
	"smpc-coopfund/internal/core/penalty"
)

// Note: LifecycleService implementation is in lifecycle_service.go
// Note: ListingService implementation is in listing_service.go

// DeliveryResult reports the best-effort outcome of one notification attempt
type DeliveryResult struct {
	OK         bool   `json:"ok"`
	DeliveryID string `json:"delivery_id,omitempty"`
}

// Notifier is the outbound notification side channel. Implementations must
// never block the financial operation: failures are logged and swallowed,
// and repeat calls for the same transaction id are safe because the
// receiving side deduplicates on it.
type Notifier interface {
	NotifyOutcome(outcome *domain.Outcome) DeliveryResult
	NotifyOverdueReminder(member *domain.Member, loan *domain.Loan, breakdown penalty.Result) DeliveryResult
}
