package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"smpc-coopfund/internal/adapters/persistence/docstore"
	"smpc-coopfund/internal/adapters/persistence/repositories"
	"smpc-coopfund/internal/core/domain"

	"github.com/shopspring/decimal"
)

func newListingEnv(t *testing.T) (*ListingService, repositories.ApplicationRepository) {
	t.Helper()
	repo := repositories.NewApplicationRepository(docstore.NewMemoryStore())
	return NewListingService(repo), repo
}

func seedPending(t *testing.T, repo repositories.ApplicationRepository, memberID, memberName, txnID string, submittedAt time.Time) {
	t.Helper()
	err := repo.CreatePending(context.Background(), &domain.Application{
		MemberID:      memberID,
		TransactionID: txnID,
		Domain:        domain.DomainDeposit,
		Amount:        decimal.NewFromInt(500),
		Channel:       "GCash",
		MemberName:    memberName,
		Status:        domain.StatusPending,
		SubmittedAt:   submittedAt,
	})
	if err != nil {
		t.Fatalf("Failed to seed pending application: %v", err)
	}
}

func TestListEmptyCollection(t *testing.T) {
	svc, _ := newListingEnv(t)

	out, err := svc.List(context.Background(), &ListInput{
		Domain: domain.DomainDeposit,
		Status: domain.StatusPending,
	})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if !out.Empty {
		t.Error("Expected Empty for a collection with no records")
	}
	if out.NoMatch {
		t.Error("NoMatch should not be set when the source itself is empty")
	}
	if out.Total != 0 {
		t.Errorf("Expected total 0, got %d", out.Total)
	}
}

func TestListFilterNoMatch(t *testing.T) {
	svc, repo := newListingEnv(t)
	seedPending(t, repo, "MB-0001", "Maria Santos", "111111", time.Now())

	out, err := svc.List(context.Background(), &ListInput{
		Domain: domain.DomainDeposit,
		Status: domain.StatusPending,
		Filter: "nonexistent",
	})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if out.Empty {
		t.Error("Empty should not be set when the source holds records")
	}
	if !out.NoMatch {
		t.Error("Expected NoMatch when the filter excludes everything")
	}
	if len(out.Applications) != 0 {
		t.Errorf("Expected no applications, got %d", len(out.Applications))
	}
}

func TestListFilterIsCaseInsensitive(t *testing.T) {
	svc, repo := newListingEnv(t)
	now := time.Now()
	seedPending(t, repo, "MB-0001", "Maria Santos", "111111", now)
	seedPending(t, repo, "MB-0002", "Jose Ramirez", "222222", now.Add(time.Minute))

	for _, filter := range []string{"maria", "MARIA", "mb-0001", "111111"} {
		out, err := svc.List(context.Background(), &ListInput{
			Domain: domain.DomainDeposit,
			Status: domain.StatusPending,
			Filter: filter,
		})
		if err != nil {
			t.Fatalf("Failed to list with filter %q: %v", filter, err)
		}
		if out.Total != 1 {
			t.Errorf("Filter %q matched %d records, want 1", filter, out.Total)
			continue
		}
		if out.Applications[0].MemberID != "MB-0001" {
			t.Errorf("Filter %q matched the wrong member: %s", filter, out.Applications[0].MemberID)
		}
	}
}

func TestListPagination(t *testing.T) {
	svc, repo := newListingEnv(t)
	base := time.Now()
	for i := 0; i < 25; i++ {
		seedPending(t, repo, "MB-0001", "Maria Santos",
			fmt.Sprintf("%06d", 100000+i), base.Add(time.Duration(i)*time.Second))
	}

	first, err := svc.List(context.Background(), &ListInput{
		Domain: domain.DomainDeposit,
		Status: domain.StatusPending,
		Page:   1,
	})
	if err != nil {
		t.Fatalf("Failed to list page 1: %v", err)
	}
	if len(first.Applications) != 20 {
		t.Errorf("Expected 20 applications on page 1, got %d", len(first.Applications))
	}
	if first.Total != 25 || first.TotalPages != 2 {
		t.Errorf("Expected total 25 over 2 pages, got %d over %d", first.Total, first.TotalPages)
	}

	second, err := svc.List(context.Background(), &ListInput{
		Domain: domain.DomainDeposit,
		Status: domain.StatusPending,
		Page:   2,
	})
	if err != nil {
		t.Fatalf("Failed to list page 2: %v", err)
	}
	if len(second.Applications) != 5 {
		t.Errorf("Expected 5 applications on page 2, got %d", len(second.Applications))
	}
	// Oldest first, so page 2 continues where page 1 ended
	if second.Applications[0].TransactionID != "100020" {
		t.Errorf("Page 2 starts at %s, want 100020", second.Applications[0].TransactionID)
	}

	// A page past the end is valid and empty
	far, err := svc.List(context.Background(), &ListInput{
		Domain: domain.DomainDeposit,
		Status: domain.StatusPending,
		Page:   9,
	})
	if err != nil {
		t.Fatalf("Failed to list a far page: %v", err)
	}
	if len(far.Applications) != 0 {
		t.Errorf("Expected an empty far page, got %d applications", len(far.Applications))
	}
}

func TestListOutcomesByStatus(t *testing.T) {
	svc, repo := newListingEnv(t)
	ctx := context.Background()
	now := time.Now()

	outcome := &domain.Outcome{
		Application: domain.Application{
			MemberID:      "MB-0001",
			TransactionID: "111111",
			Domain:        domain.DomainDeposit,
			Amount:        decimal.NewFromInt(500),
			MemberName:    "Maria Santos",
			Status:        domain.StatusApproved,
		},
		Resolution: domain.Resolution{ResolvedBy: "Officer Reyes", ResolvedAt: now},
	}
	if err := repo.CreateOutcome(ctx, outcome); err != nil {
		t.Fatalf("Failed to create outcome: %v", err)
	}

	approved, err := svc.List(ctx, &ListInput{Domain: domain.DomainDeposit, Status: domain.StatusApproved})
	if err != nil {
		t.Fatalf("Failed to list approved: %v", err)
	}
	if approved.Total != 1 || len(approved.Outcomes) != 1 {
		t.Errorf("Expected 1 approved outcome, got %d", approved.Total)
	}

	rejected, err := svc.List(ctx, &ListInput{Domain: domain.DomainDeposit, Status: domain.StatusRejected})
	if err != nil {
		t.Fatalf("Failed to list rejected: %v", err)
	}
	if !rejected.Empty {
		t.Error("Expected the rejected collection to be empty")
	}
}

func TestListRejectsBadInput(t *testing.T) {
	svc, _ := newListingEnv(t)
	ctx := context.Background()

	var vErr *domain.ValidationError
	if _, err := svc.List(ctx, &ListInput{Domain: "TRANSFER", Status: domain.StatusPending}); !errors.As(err, &vErr) {
		t.Errorf("Expected ValidationError for unknown domain, got %v", err)
	}
	if _, err := svc.List(ctx, &ListInput{Domain: domain.DomainDeposit, Status: "ARCHIVED"}); !errors.As(err, &vErr) {
		t.Errorf("Expected ValidationError for unknown status, got %v", err)
	}
}
