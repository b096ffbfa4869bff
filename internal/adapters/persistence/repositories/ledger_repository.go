package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"smpc-coopfund/internal/adapters/persistence/docstore"
	"smpc-coopfund/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerRepository implements LedgerRepository over the document store
type ledgerRepository struct {
	store docstore.Store
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(store docstore.Store) LedgerRepository {
	return &ledgerRepository{store: store}
}

// GetBalance returns a member's balance, zero when no balance document
// exists yet
func (r *ledgerRepository) GetBalance(ctx context.Context, memberID string) (decimal.Decimal, error) {
	var bal domain.Balance
	err := r.store.Get(ctx, balancePath(memberID), &bal)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return bal.Amount, nil
}

// SetBalance writes a member's balance document
func (r *ledgerRepository) SetBalance(ctx context.Context, memberID string, amount decimal.Decimal) error {
	bal := domain.Balance{
		MemberID:  memberID,
		Amount:    amount,
		UpdatedAt: time.Now(),
	}
	return r.store.Set(ctx, balancePath(memberID), &bal)
}

// GetFundsPool returns the cooperative's pooled funds balance
func (r *ledgerRepository) GetFundsPool(ctx context.Context) (decimal.Decimal, error) {
	var pool domain.FundsPool
	err := r.store.Get(ctx, fundsPoolPath, &pool)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return pool.Amount, nil
}

// SetFundsPool writes the pooled funds balance
func (r *ledgerRepository) SetFundsPool(ctx context.Context, amount decimal.Decimal) error {
	pool := domain.FundsPool{Amount: amount, UpdatedAt: time.Now()}
	return r.store.Set(ctx, fundsPoolPath, &pool)
}

// AppendFundsSnapshot appends a FundsHistory entry keyed by timestamp.
// The uuid suffix keeps same-second snapshots from colliding.
func (r *ledgerRepository) AppendFundsSnapshot(ctx context.Context, amount decimal.Decimal) error {
	now := time.Now()
	id := fmt.Sprintf("%d-%s", now.Unix(), uuid.NewString()[:8])
	snap := domain.FundsSnapshot{
		ID:         id,
		Amount:     amount,
		RecordedAt: now,
	}
	return r.store.Create(ctx, fundsHistoryRoot+"/"+id, &snap)
}

// ListFundsHistory returns the snapshot series ordered by time
func (r *ledgerRepository) ListFundsHistory(ctx context.Context) ([]*domain.FundsSnapshot, error) {
	children, err := r.store.List(ctx, fundsHistoryRoot)
	if err != nil {
		return nil, err
	}

	snaps := make([]*domain.FundsSnapshot, 0, len(children))
	for _, raw := range children {
		var s domain.FundsSnapshot
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		snaps = append(snaps, &s)
	}
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].RecordedAt.Before(snaps[j].RecordedAt)
	})
	return snaps, nil
}
