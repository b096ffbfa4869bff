package services

import (
	"context"

	"smpc-coopfund/internal/adapters/persistence/repositories"
	"smpc-coopfund/internal/core/domain"

	"github.com/shopspring/decimal"
)

// DashboardService aggregates read-only operational statistics for the
// staff dashboard
type DashboardService struct {
	apps    repositories.ApplicationRepository
	ledger  repositories.LedgerRepository
	members repositories.MemberRepository
	loans   repositories.LoanRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	apps repositories.ApplicationRepository,
	ledger repositories.LedgerRepository,
	members repositories.MemberRepository,
	loans repositories.LoanRepository,
) *DashboardService {
	return &DashboardService{apps: apps, ledger: ledger, members: members, loans: loans}
}

// DomainStats represents per-domain request counts
type DomainStats struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// DashboardData represents the staff dashboard payload
type DashboardData struct {
	FundsPool    decimal.Decimal        `json:"funds_pool"`
	TotalMembers int                    `json:"total_members"`
	ActiveLoans  int                    `json:"active_loans"`
	ByDomain     map[string]DomainStats `json:"by_domain"`
	// ApprovedDepositTotal is the sum of approved deposit amounts
	ApprovedDepositTotal decimal.Decimal `json:"approved_deposit_total"`
}

// GetDashboard returns the staff dashboard data
func (s *DashboardService) GetDashboard(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{ByDomain: make(map[string]DomainStats)}

	pool, err := s.ledger.GetFundsPool(ctx)
	if err != nil {
		return nil, err
	}
	data.FundsPool = pool

	members, err := s.members.List(ctx)
	if err != nil {
		return nil, err
	}
	data.TotalMembers = len(members)

	loans, err := s.loans.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	data.ActiveLoans = len(loans)

	data.ApprovedDepositTotal = decimal.Zero
	for _, d := range domain.AllDomains {
		pending, err := s.apps.ListPending(ctx, d)
		if err != nil {
			return nil, err
		}
		approved, err := s.apps.ListOutcomes(ctx, d, domain.StatusApproved)
		if err != nil {
			return nil, err
		}
		rejected, err := s.apps.ListOutcomes(ctx, d, domain.StatusRejected)
		if err != nil {
			return nil, err
		}

		data.ByDomain[string(d)] = DomainStats{
			Pending:  len(pending),
			Approved: len(approved),
			Rejected: len(rejected),
		}

		if d == domain.DomainDeposit {
			for _, o := range approved {
				data.ApprovedDepositTotal = data.ApprovedDepositTotal.Add(o.Amount)
			}
		}
	}

	return data, nil
}
