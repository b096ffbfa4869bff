package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"smpc-coopfund/internal/adapters/persistence/docstore"
	"smpc-coopfund/internal/core/domain"
)

// applicationRepository implements ApplicationRepository over the three
// logical collections each domain keeps in the document store
type applicationRepository struct {
	store docstore.Store
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(store docstore.Store) ApplicationRepository {
	return &applicationRepository{store: store}
}

// CreatePending stores a fresh pending application. The conditional write
// makes a transaction id collision within a member's domain collection
// surface as docstore.ErrPathExists instead of overwriting.
func (r *applicationRepository) CreatePending(ctx context.Context, app *domain.Application) error {
	return r.store.Create(ctx, pendingPath(app.Domain, app.MemberID, app.TransactionID), app)
}

// GetPending loads a pending application
func (r *applicationRepository) GetPending(ctx context.Context, d domain.Domain, memberID, txnID string) (*domain.Application, error) {
	var app domain.Application
	if err := r.store.Get(ctx, pendingPath(d, memberID, txnID), &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// MarkResolved updates the retained pending record with its terminal status
// and resolution metadata. The record is kept for audit, not deleted.
func (r *applicationRepository) MarkResolved(ctx context.Context, d domain.Domain, memberID, txnID string, status domain.Status, res domain.Resolution) error {
	return r.store.Update(ctx, pendingPath(d, memberID, txnID), map[string]interface{}{
		"status":     status,
		"resolution": res,
	})
}

// CreateOutcome writes the outcome record conditionally. docstore.ErrPathExists
// means another resolution won the race.
func (r *applicationRepository) CreateOutcome(ctx context.Context, outcome *domain.Outcome) error {
	path := outcomePath(outcome.Domain, outcome.Status, outcome.MemberID, outcome.TransactionID)
	return r.store.Create(ctx, path, outcome)
}

// GetOutcome checks both terminal collections; exactly one outcome may exist
// per resolved application
func (r *applicationRepository) GetOutcome(ctx context.Context, d domain.Domain, memberID, txnID string) (*domain.Outcome, error) {
	for _, status := range []domain.Status{domain.StatusApproved, domain.StatusRejected} {
		var outcome domain.Outcome
		err := r.store.Get(ctx, outcomePath(d, status, memberID, txnID), &outcome)
		if err == nil {
			return &outcome, nil
		}
		if !errors.Is(err, docstore.ErrNotFound) {
			return nil, err
		}
	}
	return nil, docstore.ErrNotFound
}

// AppendFeed writes the denormalized per-member feed copy
func (r *applicationRepository) AppendFeed(ctx context.Context, entry *domain.FeedEntry) error {
	return r.store.Set(ctx, feedPath(entry.Domain, entry.MemberID, entry.TransactionID), entry)
}

// ListPending flattens every member's pending applications for a domain,
// oldest first
func (r *applicationRepository) ListPending(ctx context.Context, d domain.Domain) ([]*domain.Application, error) {
	docs, err := r.store.ListAll(ctx, pendingRoot(d))
	if err != nil {
		return nil, err
	}

	apps := make([]*domain.Application, 0, len(docs))
	for _, raw := range docs {
		var app domain.Application
		if err := json.Unmarshal(raw, &app); err != nil {
			return nil, err
		}
		if app.Status != domain.StatusPending {
			continue // resolved record retained for audit
		}
		apps = append(apps, &app)
	}
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].SubmittedAt.Before(apps[j].SubmittedAt)
	})
	return apps, nil
}

// ListOutcomes flattens a domain's approved or rejected collection,
// newest first
func (r *applicationRepository) ListOutcomes(ctx context.Context, d domain.Domain, status domain.Status) ([]*domain.Outcome, error) {
	docs, err := r.store.ListAll(ctx, outcomeRoot(d, status))
	if err != nil {
		return nil, err
	}

	outcomes := make([]*domain.Outcome, 0, len(docs))
	for _, raw := range docs {
		var o domain.Outcome
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, &o)
	}
	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Resolution.ResolvedAt.After(outcomes[j].Resolution.ResolvedAt)
	})
	return outcomes, nil
}

// ListFeed returns a member's unified transaction feed, newest first
func (r *applicationRepository) ListFeed(ctx context.Context, memberID string) ([]*domain.FeedEntry, error) {
	children, err := r.store.List(ctx, feedRoot(memberID))
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.FeedEntry, 0, len(children))
	for _, raw := range children {
		var e domain.FeedEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ResolvedAt.After(entries[j].ResolvedAt)
	})
	return entries, nil
}
