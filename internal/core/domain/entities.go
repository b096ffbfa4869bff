package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Domain identifies which financial request family a record belongs to
type Domain string

const (
	DomainDeposit         Domain = "DEPOSIT"
	DomainWithdrawal      Domain = "WITHDRAWAL"
	DomainLoanPayment     Domain = "LOAN_PAYMENT"
	DomainLoanApplication Domain = "LOAN_APPLICATION"
)

// AllDomains lists every request domain, in feed display order
var AllDomains = []Domain{
	DomainDeposit,
	DomainWithdrawal,
	DomainLoanPayment,
	DomainLoanApplication,
}

// Valid reports whether d is a known request domain
func (d Domain) Valid() bool {
	switch d {
	case DomainDeposit, DomainWithdrawal, DomainLoanPayment, DomainLoanApplication:
		return true
	}
	return false
}

// Status represents application lifecycle status
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Terminal reports whether the status is a terminal state
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Member represents a cooperative member (identity is externally assigned)
type Member struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	// CachedLoanInterest is a member-level fallback for loans that predate
	// per-loan interest bookkeeping.
	CachedLoanInterest decimal.Decimal `json:"cached_loan_interest"`
	JoinedAt           time.Time       `json:"joined_at"`
}

// Balance represents a member's ledger balance document
type Balance struct {
	MemberID  string          `json:"member_id"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// FundsPool is the cooperative's aggregate liquid balance
type FundsPool struct {
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// FundsSnapshot is one append-only FundsHistory entry, keyed by timestamp
type FundsSnapshot struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// Loan represents an active loan booked at LoanApplication approval.
// Interest is an absolute currency amount fixed at approval time, not a rate.
// DueDate/NextDueDate are stored in the heterogeneous textual encodings the
// dates package accepts.
type Loan struct {
	MemberID            string          `json:"member_id"`
	LoanID              string          `json:"loan_id"`
	LoanAmount          decimal.Decimal `json:"loan_amount"`
	Interest            decimal.Decimal `json:"interest"`
	TotalMonthlyPayment decimal.Decimal `json:"total_monthly_payment"`
	TermMonths          int             `json:"term_months"`
	DueDate             string          `json:"due_date,omitempty"`
	NextDueDate         string          `json:"next_due_date,omitempty"`
	Status              string          `json:"status"`
	ApprovedAt          time.Time       `json:"approved_at"`
}

// LoanStatus values
const (
	LoanStatusActive = "ACTIVE"
	LoanStatusPaid   = "PAID"
)

// LoanPaymentDetails carries the LoanPayment-specific application fields.
// Penalty and OverdueDays are computed at submission and re-checked at
// approval against the approval-time clock.
type LoanPaymentDetails struct {
	SelectedLoanID string          `json:"selected_loan_id"`
	ProofOfPayment string          `json:"proof_of_payment"`
	Penalty        decimal.Decimal `json:"penalty"`
	OverdueDays    int             `json:"overdue_days"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
}

// LoanApplicationDetails carries the LoanApplication-specific fields
type LoanApplicationDetails struct {
	TermMonths int    `json:"term_months"`
	Purpose    string `json:"purpose,omitempty"`
}

// Application is a member-submitted financial request. The header fields are
// shared by every domain; at most one of the detail pointers is set,
// matching the Domain tag.
type Application struct {
	MemberID      string          `json:"member_id"`
	TransactionID string          `json:"transaction_id"`
	Domain        Domain          `json:"domain"`
	Amount        decimal.Decimal `json:"amount"`
	Channel       string          `json:"channel,omitempty"`
	AccountName   string          `json:"account_name,omitempty"`
	AccountNumber string          `json:"account_number,omitempty"`
	MemberName    string          `json:"member_name,omitempty"`
	Status        Status          `json:"status"`
	SubmittedAt   time.Time       `json:"submitted_at"`

	LoanPayment     *LoanPaymentDetails     `json:"loan_payment,omitempty"`
	LoanApplication *LoanApplicationDetails `json:"loan_application,omitempty"`
}

// Resolution records who resolved an application, when, and (for rejections)
// why. Date/Time are the display encodings the transaction feed renders.
type Resolution struct {
	ResolvedBy      string    `json:"resolved_by"`
	ResolvedAt      time.Time `json:"resolved_at"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
}

// Outcome is the immutable terminal record of an Application's resolution:
// a copy of the application plus resolution metadata. Approved and rejected
// outcomes live in disjoint collections.
type Outcome struct {
	Application
	Resolution Resolution `json:"resolution"`
}

// FeedEntry is the denormalized per-member transaction-feed copy of an
// Outcome, spanning all domains. Display-only, never authoritative.
type FeedEntry struct {
	MemberID      string          `json:"member_id"`
	TransactionID string          `json:"transaction_id"`
	Domain        Domain          `json:"domain"`
	Amount        decimal.Decimal `json:"amount"`
	Channel       string          `json:"channel,omitempty"`
	Status        Status          `json:"status"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	ResolvedAt    time.Time       `json:"resolved_at"`
}
