package penalty

import (
	"testing"
	"time"

	"smpc-coopfund/internal/core/domain"

	"github.com/shopspring/decimal"
)

func testLoan() *domain.Loan {
	return &domain.Loan{
		MemberID:            "MB-0001",
		LoanID:              "482915",
		LoanAmount:          decimal.NewFromInt(10000),
		Interest:            decimal.NewFromInt(600),
		TotalMonthlyPayment: decimal.NewFromInt(2000),
		TermMonths:          6,
		DueDate:             "August 20, 2025",
		Status:              domain.LoanStatusActive,
	}
}

func TestComputeNotYetDue(t *testing.T) {
	loan := testLoan()
	now := time.Date(2025, time.August, 18, 10, 0, 0, 0, time.Local)

	got := Compute(loan, decimal.Zero, now)

	if got.OverdueDays != 0 {
		t.Errorf("Expected 0 overdue days, got %d", got.OverdueDays)
	}
	if !got.Penalty.Equal(decimal.Zero) {
		t.Errorf("Expected zero penalty, got %s", got.Penalty)
	}
	if !got.TotalDue.Equal(decimal.NewFromFloat(2000.00)) {
		t.Errorf("Expected total due 2000.00, got %s", got.TotalDue)
	}
}

func TestComputeDueTodayIsNotOverdue(t *testing.T) {
	loan := testLoan()
	now := time.Date(2025, time.August, 20, 23, 59, 0, 0, time.Local)

	got := Compute(loan, decimal.Zero, now)

	if got.OverdueDays != 0 {
		t.Errorf("A loan due today accrued %d overdue days", got.OverdueDays)
	}
}

func TestComputeTwoDaysOverdue(t *testing.T) {
	loan := testLoan()
	now := time.Date(2025, time.August, 22, 9, 0, 0, 0, time.Local)

	got := Compute(loan, decimal.Zero, now)

	if got.OverdueDays != 2 {
		t.Errorf("Expected 2 overdue days, got %d", got.OverdueDays)
	}
	if !got.Penalty.Equal(decimal.NewFromFloat(40.00)) {
		t.Errorf("Expected penalty 40.00, got %s", got.Penalty)
	}
	if !got.TotalDue.Equal(decimal.NewFromFloat(2040.00)) {
		t.Errorf("Expected total due 2040.00, got %s", got.TotalDue)
	}
}

func TestComputeFallsBackToNextDueDate(t *testing.T) {
	loan := testLoan()
	loan.DueDate = ""
	loan.NextDueDate = "August 20, 2025"
	now := time.Date(2025, time.August, 22, 9, 0, 0, 0, time.Local)

	got := Compute(loan, decimal.Zero, now)

	if got.OverdueDays != 2 {
		t.Errorf("Expected 2 overdue days via NextDueDate, got %d", got.OverdueDays)
	}
}

func TestComputeUsesFallbackInterest(t *testing.T) {
	loan := testLoan()
	loan.Interest = decimal.Zero
	now := time.Date(2025, time.August, 22, 9, 0, 0, 0, time.Local)

	got := Compute(loan, decimal.NewFromInt(600), now)

	if !got.Penalty.Equal(decimal.NewFromFloat(40.00)) {
		t.Errorf("Expected penalty 40.00 from fallback interest, got %s", got.Penalty)
	}
}

func TestComputeUnparseableDueDate(t *testing.T) {
	loan := testLoan()
	loan.DueDate = "whenever"
	now := time.Date(2025, time.December, 1, 9, 0, 0, 0, time.Local)

	got := Compute(loan, decimal.Zero, now)

	if got.OverdueDays != 0 || !got.Penalty.Equal(decimal.Zero) {
		t.Errorf("Unparseable due date produced a penalty: %+v", got)
	}
	if !got.TotalDue.Equal(decimal.NewFromFloat(2000.00)) {
		t.Errorf("Expected total due 2000.00, got %s", got.TotalDue)
	}
}
