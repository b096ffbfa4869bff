package services

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smpc-coopfund/internal/config"
	"smpc-coopfund/internal/core/domain"
	"smpc-coopfund/internal/core/penalty"

	"github.com/shopspring/decimal"
)

func approvedOutcome() *domain.Outcome {
	o := &domain.Outcome{
		Application: domain.Application{
			MemberID:      "MB-0001",
			TransactionID: "482915",
			Domain:        domain.DomainDeposit,
			Amount:        decimal.NewFromInt(500),
			MemberName:    "Maria Santos",
			Status:        domain.StatusApproved,
		},
		Resolution: domain.Resolution{
			ResolvedBy: "Officer Reyes",
			ResolvedAt: time.Now(),
			Date:       "August 22, 2025",
			Time:       "10:00 AM",
		},
	}
	return o
}

func TestNotifyOutcomePayload(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("Webhook body is not JSON: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewNotificationService(config.NotifyConfig{WebhookURL: srv.URL, TimeoutSeconds: 2})

	result := svc.NotifyOutcome(approvedOutcome())
	if !result.OK {
		t.Fatal("Expected a successful delivery")
	}
	if result.DeliveryID == "" {
		t.Error("Delivery id missing from the result")
	}

	if received["template"] != "application_approved" {
		t.Errorf("Expected template application_approved, got %v", received["template"])
	}
	if received["transaction_id"] != "482915" {
		t.Errorf("Dedup key missing or wrong: %v", received["transaction_id"])
	}
	if received["delivery_id"] != result.DeliveryID {
		t.Errorf("Payload delivery id %v does not match result %s", received["delivery_id"], result.DeliveryID)
	}
	if received["amount"] != "₱500.00" {
		t.Errorf("Expected formatted amount ₱500.00, got %v", received["amount"])
	}
}

func TestNotifyOutcomeRejectedCarriesReason(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewNotificationService(config.NotifyConfig{WebhookURL: srv.URL, TimeoutSeconds: 2})

	outcome := approvedOutcome()
	outcome.Status = domain.StatusRejected
	outcome.Resolution.RejectionReason = "Duplicate request"

	if result := svc.NotifyOutcome(outcome); !result.OK {
		t.Fatal("Expected a successful delivery")
	}
	if received["template"] != "application_rejected" {
		t.Errorf("Expected template application_rejected, got %v", received["template"])
	}
	if received["reason"] != "Duplicate request" {
		t.Errorf("Rejection reason missing: %v", received["reason"])
	}
}

func TestNotifyOutcomeSwallowsServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewNotificationService(config.NotifyConfig{WebhookURL: srv.URL, TimeoutSeconds: 2})

	// A failed delivery reports OK false but never panics or errors out
	if result := svc.NotifyOutcome(approvedOutcome()); result.OK {
		t.Error("Expected OK false when the webhook returns 500")
	}
}

func TestNotifyDisabledWithoutWebhookURL(t *testing.T) {
	svc := NewNotificationService(config.NotifyConfig{})

	if svc.IsEnabled() {
		t.Error("Expected the dispatcher to be disabled without a webhook URL")
	}
	if result := svc.NotifyOutcome(approvedOutcome()); result.OK {
		t.Error("Expected OK false when disabled")
	}
}

func TestNotifyOverdueReminder(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewNotificationService(config.NotifyConfig{WebhookURL: srv.URL, TimeoutSeconds: 2})

	member := &domain.Member{ID: "MB-0001", FullName: "Maria Santos", Email: "maria@example.com"}
	loan := &domain.Loan{MemberID: "MB-0001", LoanID: "482915", DueDate: "August 20, 2025"}
	breakdown := penalty.Result{
		OverdueDays: 2,
		Penalty:     decimal.NewFromFloat(40.00),
		TotalDue:    decimal.NewFromFloat(2040.00),
	}

	if result := svc.NotifyOverdueReminder(member, loan, breakdown); !result.OK {
		t.Fatal("Expected a successful delivery")
	}
	if received["template"] != "loan_overdue_reminder" {
		t.Errorf("Expected template loan_overdue_reminder, got %v", received["template"])
	}
	// Reminders dedup on the loan id
	if received["transaction_id"] != "482915" {
		t.Errorf("Expected loan id as dedup key, got %v", received["transaction_id"])
	}
	if received["total_due"] != "₱2,040.00" {
		t.Errorf("Expected formatted total due ₱2,040.00, got %v", received["total_due"])
	}
}
