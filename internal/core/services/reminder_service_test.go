package services

import (
	"context"
	"testing"
	"time"

	"smpc-coopfund/internal/adapters/persistence/docstore"
	"smpc-coopfund/internal/adapters/persistence/repositories"
	"smpc-coopfund/internal/core/domain"
	"smpc-coopfund/internal/core/penalty"
	"smpc-coopfund/internal/pkg/dates"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// captureNotifier records reminder dispatches without any transport
type captureNotifier struct {
	reminders []string
}

func (n *captureNotifier) NotifyOutcome(*domain.Outcome) DeliveryResult {
	return DeliveryResult{OK: true}
}

func (n *captureNotifier) NotifyOverdueReminder(member *domain.Member, loan *domain.Loan, breakdown penalty.Result) DeliveryResult {
	n.reminders = append(n.reminders, loan.LoanID)
	return DeliveryResult{OK: true}
}

func TestReminderScheduleIsValid(t *testing.T) {
	if _, err := cron.ParseStandard(reminderSchedule); err != nil {
		t.Fatalf("Schedule %q does not parse: %v", reminderSchedule, err)
	}
}

func TestRunOverdueScanSendsOnlyOverdueReminders(t *testing.T) {
	store := docstore.NewMemoryStore()
	loans := repositories.NewLoanRepository(store)
	members := repositories.NewMemberRepository(store)
	notifier := &captureNotifier{}
	svc := NewReminderService(loans, members, notifier)
	ctx := context.Background()

	member := &domain.Member{ID: "MB-0001", FullName: "Maria Santos"}
	if err := store.Set(ctx, "Members/"+member.ID, member); err != nil {
		t.Fatalf("Failed to seed member: %v", err)
	}

	overdue := &domain.Loan{
		MemberID:            "MB-0001",
		LoanID:              "482915",
		Interest:            decimal.NewFromInt(600),
		TotalMonthlyPayment: decimal.NewFromInt(2000),
		DueDate:             time.Now().AddDate(0, 0, -3).Format(dates.DisplayLayout),
		Status:              domain.LoanStatusActive,
	}
	current := &domain.Loan{
		MemberID:            "MB-0001",
		LoanID:              "573026",
		Interest:            decimal.NewFromInt(600),
		TotalMonthlyPayment: decimal.NewFromInt(2000),
		DueDate:             time.Now().AddDate(0, 0, 7).Format(dates.DisplayLayout),
		Status:              domain.LoanStatusActive,
	}
	for _, l := range []*domain.Loan{overdue, current} {
		if err := loans.Create(ctx, l); err != nil {
			t.Fatalf("Failed to seed loan: %v", err)
		}
	}

	if err := svc.RunOverdueScan(ctx); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(notifier.reminders) != 1 {
		t.Fatalf("Expected 1 reminder, got %d", len(notifier.reminders))
	}
	if notifier.reminders[0] != "482915" {
		t.Errorf("Reminder went to the wrong loan: %s", notifier.reminders[0])
	}
}
