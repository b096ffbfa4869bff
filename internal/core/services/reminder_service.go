package services

import (
	"context"
	"errors"
	"log"
	"time"

	"smpc-coopfund/internal/adapters/persistence/docstore"
	"smpc-coopfund/internal/adapters/persistence/repositories"
	"smpc-coopfund/internal/core/penalty"

	"github.com/robfig/cron/v3"
)

// reminderSchedule fires daily at 08:30
const reminderSchedule = "30 8 * * *"

// ReminderService runs the daily overdue-loan scan and dispatches reminder
// notifications. Entirely best-effort: a failed scan or delivery affects no
// ledger state.
type ReminderService struct {
	loans   repositories.LoanRepository
	members repositories.MemberRepository
	notify  Notifier
	cron    *cron.Cron
}

// NewReminderService creates a new reminder service
func NewReminderService(loans repositories.LoanRepository, members repositories.MemberRepository, notify Notifier) *ReminderService {
	return &ReminderService{
		loans:   loans,
		members: members,
		notify:  notify,
		cron:    cron.New(),
	}
}

// Start schedules the daily scan
func (s *ReminderService) Start() {
	_, err := s.cron.AddFunc(reminderSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.RunOverdueScan(ctx); err != nil {
			log.Printf("⚠️ Overdue scan failed: %v", err)
		}
	})
	if err != nil {
		log.Printf("❌ Failed to schedule overdue scan: %v", err)
		return
	}
	s.cron.Start()
	log.Println("✅ Overdue reminder cron started (08:30 daily)")
}

// Stop stops the cron scheduler
func (s *ReminderService) Stop() {
	s.cron.Stop()
}

// RunOverdueScan evaluates every active loan and sends a reminder for each
// overdue one. Exported so operators can trigger it manually.
func (s *ReminderService) RunOverdueScan(ctx context.Context) error {
	loans, err := s.loans.ListActive(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	sent := 0
	for _, loan := range loans {
		member, err := s.members.GetByID(ctx, loan.MemberID)
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				log.Printf("⚠️ Loan %s/%s references unknown member", loan.MemberID, loan.LoanID)
				continue
			}
			return err
		}

		breakdown := penalty.Compute(loan, member.CachedLoanInterest, now)
		if breakdown.OverdueDays == 0 {
			continue
		}

		if result := s.notify.NotifyOverdueReminder(member, loan, breakdown); result.OK {
			sent++
		}
	}

	log.Printf("✅ Overdue scan completed: %d loans checked, %d reminders sent", len(loans), sent)
	return nil
}
