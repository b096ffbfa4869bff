// Package penalty computes overdue-loan penalties. Pure: no store access,
// explicit clock input.
package penalty

import (
	"time"

	"smpc-coopfund/internal/core/domain"
	"smpc-coopfund/internal/pkg/dates"
	"smpc-coopfund/internal/pkg/money"

	"github.com/shopspring/decimal"
)

// A penalty accrues at interest/30 per overdue day
var penaltyPeriodDays = decimal.NewFromInt(30)

// Result is the breakdown for one loan evaluated at a point in time
type Result struct {
	OverdueDays int             `json:"overdue_days"`
	Penalty     decimal.Decimal `json:"penalty"`
	TotalDue    decimal.Decimal `json:"total_due"`
}

// Compute evaluates a loan against now. The effective due date is the loan's
// DueDate, falling back to NextDueDate. A loan due today is not yet overdue.
// When the loan record lacks an interest amount, fallbackInterest (the
// member-level cached figure) is used; zero when neither is present. An
// unparseable or absent due date yields a not-overdue result rather than a
// penalty computed off a guessed date.
func Compute(loan *domain.Loan, fallbackInterest decimal.Decimal, now time.Time) Result {
	monthly := money.RoundToCents(loan.TotalMonthlyPayment)
	notOverdue := Result{
		OverdueDays: 0,
		Penalty:     decimal.Zero.Round(2),
		TotalDue:    monthly,
	}

	dueRaw := loan.DueDate
	if dueRaw == "" {
		dueRaw = loan.NextDueDate
	}
	due, err := dates.Parse(dueRaw)
	if err != nil {
		return notOverdue
	}

	days := dates.DaysBetween(due, now)
	if days <= 0 {
		return notOverdue
	}

	interest := loan.Interest
	if interest.IsZero() {
		interest = fallbackInterest
	}

	pen := money.RoundToCents(
		interest.Mul(decimal.NewFromInt(int64(days))).Div(penaltyPeriodDays))

	return Result{
		OverdueDays: days,
		Penalty:     pen,
		TotalDue:    money.RoundToCents(monthly.Add(pen)),
	}
}
