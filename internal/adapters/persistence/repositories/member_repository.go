package repositories

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"smpc-coopfund/internal/adapters/persistence/docstore"
	"smpc-coopfund/internal/core/domain"
)

// memberRepository implements MemberRepository over the document store.
// Member records are written by the external membership system; this is
// read-only access.
type memberRepository struct {
	store docstore.Store
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(store docstore.Store) MemberRepository {
	return &memberRepository{store: store}
}

// GetByID gets a member by their externally assigned identifier
func (r *memberRepository) GetByID(ctx context.Context, memberID string) (*domain.Member, error) {
	var member domain.Member
	if err := r.store.Get(ctx, memberPath(memberID), &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// Search finds members whose name, id, or email contains the query,
// case-insensitive
func (r *memberRepository) Search(ctx context.Context, query string, limit int) ([]*domain.Member, error) {
	members, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	matches := make([]*domain.Member, 0)
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.FullName), q) ||
			strings.Contains(strings.ToLower(m.ID), q) ||
			strings.Contains(strings.ToLower(m.Email), q) {
			matches = append(matches, m)
			if limit > 0 && len(matches) >= limit {
				break
			}
		}
	}
	return matches, nil
}

// List returns all members ordered by identifier
func (r *memberRepository) List(ctx context.Context) ([]*domain.Member, error) {
	children, err := r.store.List(ctx, membersRoot)
	if err != nil {
		return nil, err
	}

	members := make([]*domain.Member, 0, len(children))
	for _, raw := range children {
		var m domain.Member
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		members = append(members, &m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}
