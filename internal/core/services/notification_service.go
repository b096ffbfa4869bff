package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"smpc-coopfund/internal/config"
	"smpc-coopfund/internal/core/domain"
	"smpc-coopfund/internal/core/penalty"
	"smpc-coopfund/internal/pkg/money"

	"github.com/google/uuid"
)

// Template kinds the receiving side renders
const (
	templateApproved = "application_approved"
	templateRejected = "application_rejected"
	templateReminder = "loan_overdue_reminder"
)

// NotificationService delivers webhook notifications after the lifecycle
// engine has durably committed. Best-effort: delivery failures are logged
// and swallowed, never surfaced to the financial-operation caller. The
// payload is keyed by transaction id so the receiving side can deduplicate
// repeat deliveries.
type NotificationService struct {
	webhookURL string
	client     *http.Client
	enabled    bool
}

// NewNotificationService creates a new notification service
func NewNotificationService(cfg config.NotifyConfig) *NotificationService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NotificationService{
		webhookURL: cfg.WebhookURL,
		client:     &http.Client{Timeout: timeout},
		enabled:    cfg.WebhookURL != "",
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// sendWebhook posts one notification payload. The http client timeout bounds
// the call; there is no retry obligation here.
func (s *NotificationService) sendWebhook(kind string, transactionID string, payload map[string]interface{}) DeliveryResult {
	if !s.enabled {
		return DeliveryResult{OK: false}
	}

	deliveryID := uuid.NewString()
	payload["template"] = kind
	payload["delivery_id"] = deliveryID
	payload["transaction_id"] = transactionID

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("⚠️ %v", &domain.DeliveryError{TransactionID: transactionID, Err: err})
		return DeliveryResult{OK: false, DeliveryID: deliveryID}
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("⚠️ %v", &domain.DeliveryError{TransactionID: transactionID, Err: err})
		return DeliveryResult{OK: false, DeliveryID: deliveryID}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("⚠️ %v", &domain.DeliveryError{
			TransactionID: transactionID,
			Err:           fmt.Errorf("webhook returned %s", resp.Status),
		})
		return DeliveryResult{OK: false, DeliveryID: deliveryID}
	}

	return DeliveryResult{OK: true, DeliveryID: deliveryID}
}

// NotifyOutcome sends the resolution notification for an outcome
func (s *NotificationService) NotifyOutcome(outcome *domain.Outcome) DeliveryResult {
	kind := templateApproved
	if outcome.Status == domain.StatusRejected {
		kind = templateRejected
	}

	payload := map[string]interface{}{
		"domain":      outcome.Domain,
		"member_id":   outcome.MemberID,
		"member_name": outcome.MemberName,
		"amount":      money.FormatCurrency(outcome.Amount),
		"status":      outcome.Status,
		"date":        outcome.Resolution.Date,
		"time":        outcome.Resolution.Time,
	}
	if outcome.Resolution.RejectionReason != "" {
		payload["reason"] = outcome.Resolution.RejectionReason
	}

	return s.sendWebhook(kind, outcome.TransactionID, payload)
}

// NotifyOverdueReminder sends the daily overdue reminder for one loan
func (s *NotificationService) NotifyOverdueReminder(member *domain.Member, loan *domain.Loan, breakdown penalty.Result) DeliveryResult {
	payload := map[string]interface{}{
		"member_id":    member.ID,
		"member_name":  member.FullName,
		"email":        member.Email,
		"loan_id":      loan.LoanID,
		"due_date":     loan.DueDate,
		"overdue_days": breakdown.OverdueDays,
		"penalty":      money.FormatCurrency(breakdown.Penalty),
		"total_due":    money.FormatCurrency(breakdown.TotalDue),
	}
	// Reminders reuse the loan id as the dedup key; one loan, one active
	// reminder thread on the receiving side.
	return s.sendWebhook(templateReminder, loan.LoanID, payload)
}
