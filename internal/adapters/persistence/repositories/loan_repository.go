package repositories

import (
	"context"
	"encoding/json"
	"sort"

	"smpc-coopfund/internal/adapters/persistence/docstore"
	"smpc-coopfund/internal/core/domain"
)

// loanRepository implements LoanRepository over the document store
type loanRepository struct {
	store docstore.Store
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(store docstore.Store) LoanRepository {
	return &loanRepository{store: store}
}

// Get loads one loan
func (r *loanRepository) Get(ctx context.Context, memberID, loanID string) (*domain.Loan, error) {
	var loan domain.Loan
	if err := r.store.Get(ctx, loanPath(memberID, loanID), &loan); err != nil {
		return nil, err
	}
	return &loan, nil
}

// Create books a new loan; the conditional write rejects duplicate loan ids
func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	return r.store.Create(ctx, loanPath(loan.MemberID, loan.LoanID), loan)
}

// Update replaces a loan record
func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	return r.store.Set(ctx, loanPath(loan.MemberID, loan.LoanID), loan)
}

// ListByMember returns a member's loans ordered by loan id. A member may
// hold multiple concurrent loans.
func (r *loanRepository) ListByMember(ctx context.Context, memberID string) ([]*domain.Loan, error) {
	children, err := r.store.List(ctx, loanRoot(memberID))
	if err != nil {
		return nil, err
	}

	loans := make([]*domain.Loan, 0, len(children))
	for _, raw := range children {
		var l domain.Loan
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, err
		}
		loans = append(loans, &l)
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].LoanID < loans[j].LoanID })
	return loans, nil
}

// ListActive returns every active loan across all members
func (r *loanRepository) ListActive(ctx context.Context) ([]*domain.Loan, error) {
	docs, err := r.store.ListAll(ctx, loansRoot)
	if err != nil {
		return nil, err
	}

	loans := make([]*domain.Loan, 0, len(docs))
	for _, raw := range docs {
		var l domain.Loan
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, err
		}
		if l.Status != domain.LoanStatusActive {
			continue
		}
		loans = append(loans, &l)
	}
	sort.Slice(loans, func(i, j int) bool {
		if loans[i].MemberID != loans[j].MemberID {
			return loans[i].MemberID < loans[j].MemberID
		}
		return loans[i].LoanID < loans[j].LoanID
	})
	return loans, nil
}
