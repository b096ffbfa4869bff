package services

import (
	"context"
	"strings"

	"smpc-coopfund/internal/adapters/persistence/repositories"
	"smpc-coopfund/internal/core/domain"
	"smpc-coopfund/internal/pkg/pagination"
)

// ListingService flattens the nested per-member collections into filterable,
// paginated lists for external consumption. Read-only.
type ListingService struct {
	apps repositories.ApplicationRepository
}

// NewListingService creates a new listing service
func NewListingService(apps repositories.ApplicationRepository) *ListingService {
	return &ListingService{apps: apps}
}

// ListInput represents list input
type ListInput struct {
	Domain domain.Domain
	Status domain.Status
	// Filter is a case-insensitive substring match over member name,
	// member id, and transaction id
	Filter string
	Page   int
}

// ListOutput represents one page of applications or outcomes. Exactly one
// of Applications/Outcomes is populated, matching the requested status.
// NoMatch means the filter produced zero results from a non-empty source;
// Empty means the source itself held nothing.
type ListOutput struct {
	Applications []*domain.Application `json:"applications,omitempty"`
	Outcomes     []*domain.Outcome     `json:"outcomes,omitempty"`
	Total        int                   `json:"total"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
	TotalPages   int                   `json:"total_pages"`
	Empty        bool                  `json:"empty"`
	NoMatch      bool                  `json:"no_match"`
}

// List returns one page for a domain and status
func (s *ListingService) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if !input.Domain.Valid() {
		return nil, domain.NewValidationError("domain", "unknown request domain")
	}
	if input.Page < 1 {
		input.Page = 1
	}

	out := &ListOutput{
		Page:     input.Page,
		PageSize: pagination.DefaultLimit,
	}

	switch input.Status {
	case domain.StatusPending:
		apps, err := s.apps.ListPending(ctx, input.Domain)
		if err != nil {
			return nil, err
		}
		out.Empty = len(apps) == 0
		filtered := filterApplications(apps, input.Filter)
		out.NoMatch = !out.Empty && len(filtered) == 0 && input.Filter != ""
		out.Total = len(filtered)
		start, end := pageBounds(len(filtered), input.Page, out.PageSize)
		out.Applications = filtered[start:end]
		out.TotalPages = totalPages(out.Total, out.PageSize)
	case domain.StatusApproved, domain.StatusRejected:
		outcomes, err := s.apps.ListOutcomes(ctx, input.Domain, input.Status)
		if err != nil {
			return nil, err
		}
		out.Empty = len(outcomes) == 0
		filtered := filterOutcomes(outcomes, input.Filter)
		out.NoMatch = !out.Empty && len(filtered) == 0 && input.Filter != ""
		out.Total = len(filtered)
		start, end := pageBounds(len(filtered), input.Page, out.PageSize)
		out.Outcomes = filtered[start:end]
		out.TotalPages = totalPages(out.Total, out.PageSize)
	default:
		return nil, domain.NewValidationError("status", "must be PENDING, APPROVED, or REJECTED")
	}

	return out, nil
}

// Feed returns a member's unified transaction feed, newest first
func (s *ListingService) Feed(ctx context.Context, memberID string) ([]*domain.FeedEntry, error) {
	return s.apps.ListFeed(ctx, memberID)
}

func matches(filter string, fields ...string) bool {
	if filter == "" {
		return true
	}
	q := strings.ToLower(filter)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func filterApplications(apps []*domain.Application, filter string) []*domain.Application {
	if filter == "" {
		return apps
	}
	kept := make([]*domain.Application, 0, len(apps))
	for _, a := range apps {
		if matches(filter, a.MemberName, a.MemberID, a.TransactionID) {
			kept = append(kept, a)
		}
	}
	return kept
}

func filterOutcomes(outcomes []*domain.Outcome, filter string) []*domain.Outcome {
	if filter == "" {
		return outcomes
	}
	kept := make([]*domain.Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if matches(filter, o.MemberName, o.MemberID, o.TransactionID) {
			kept = append(kept, o)
		}
	}
	return kept
}

func pageBounds(total, page, size int) (int, int) {
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end
}

func totalPages(total, size int) int {
	pages := total / size
	if total%size > 0 {
		pages++
	}
	return pages
}
