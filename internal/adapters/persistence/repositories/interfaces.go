package repositories

import (
	"context"

	"smpc-coopfund/internal/core/domain"

	"github.com/shopspring/decimal"
)

// MemberRepository defines member lookup. Member identity is externally
// assigned; this layer never creates or deletes members.
type MemberRepository interface {
	GetByID(ctx context.Context, memberID string) (*domain.Member, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.Member, error)
	List(ctx context.Context) ([]*domain.Member, error)
}

// LedgerRepository defines typed access to Balances, the Funds pool, and the
// FundsHistory time series. Mutation happens only through the lifecycle
// engine.
type LedgerRepository interface {
	GetBalance(ctx context.Context, memberID string) (decimal.Decimal, error)
	SetBalance(ctx context.Context, memberID string, amount decimal.Decimal) error
	GetFundsPool(ctx context.Context) (decimal.Decimal, error)
	SetFundsPool(ctx context.Context, amount decimal.Decimal) error
	AppendFundsSnapshot(ctx context.Context, amount decimal.Decimal) error
	ListFundsHistory(ctx context.Context) ([]*domain.FundsSnapshot, error)
}

// ApplicationRepository defines per-domain CRUD over the three logical
// collections: pending applications, outcomes (split by result), and the
// unified per-member transaction feed.
type ApplicationRepository interface {
	CreatePending(ctx context.Context, app *domain.Application) error
	GetPending(ctx context.Context, d domain.Domain, memberID, txnID string) (*domain.Application, error)
	// MarkResolved updates the retained pending record in place with its
	// terminal status and resolution metadata
	MarkResolved(ctx context.Context, d domain.Domain, memberID, txnID string, status domain.Status, res domain.Resolution) error
	// CreateOutcome writes the outcome record conditionally; it fails with
	// docstore.ErrPathExists when an outcome already occupies the path
	CreateOutcome(ctx context.Context, outcome *domain.Outcome) error
	// GetOutcome checks both the approved and rejected collections
	GetOutcome(ctx context.Context, d domain.Domain, memberID, txnID string) (*domain.Outcome, error)
	AppendFeed(ctx context.Context, entry *domain.FeedEntry) error
	ListPending(ctx context.Context, d domain.Domain) ([]*domain.Application, error)
	ListOutcomes(ctx context.Context, d domain.Domain, status domain.Status) ([]*domain.Outcome, error)
	ListFeed(ctx context.Context, memberID string) ([]*domain.FeedEntry, error)
}

// LoanRepository defines access to booked loans
type LoanRepository interface {
	Get(ctx context.Context, memberID, loanID string) (*domain.Loan, error)
	Create(ctx context.Context, loan *domain.Loan) error
	Update(ctx context.Context, loan *domain.Loan) error
	ListByMember(ctx context.Context, memberID string) ([]*domain.Loan, error)
	// ListActive returns every active loan across members, for the
	// overdue-reminder job
	ListActive(ctx context.Context) ([]*domain.Loan, error)
}
