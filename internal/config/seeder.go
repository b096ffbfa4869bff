package config

import (
	"context"
	"errors"
	"log"
	"time"

	"smpc-coopfund/internal/adapters/persistence/docstore"
	"smpc-coopfund/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Seeder seeds development data into the document store
type Seeder struct {
	store docstore.Store
}

// NewSeeder creates a new seeder instance
func NewSeeder(store docstore.Store) *Seeder {
	return &Seeder{store: store}
}

// Run executes all seeders. Development/testing only; member records come
// from the external membership system in production.
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running document store seeders...")

	if err := s.seedFundsPool(ctx); err != nil {
		log.Printf("⚠️ Funds pool seeder skipped: %v", err)
	}
	if err := s.seedDemoMembers(ctx); err != nil {
		log.Printf("⚠️ Member seeder skipped: %v", err)
	}

	log.Println("✅ Document store seeding completed")
	return nil
}

// seedFundsPool initializes the pooled funds document when absent
func (s *Seeder) seedFundsPool(ctx context.Context) error {
	pool := domain.FundsPool{
		Amount:    decimal.NewFromInt(100000),
		UpdatedAt: time.Now(),
	}
	err := s.store.Create(ctx, "Funds/Pool", &pool)
	if errors.Is(err, docstore.ErrPathExists) {
		return nil // already initialized
	}
	return err
}

// seedDemoMembers creates a couple of demo members with starting balances
func (s *Seeder) seedDemoMembers(ctx context.Context) error {
	members := []domain.Member{
		{ID: "MB-0001", FullName: "Maria Santos", Email: "maria.santos@example.com", JoinedAt: time.Now()},
		{ID: "MB-0002", FullName: "Jose Ramirez", Email: "jose.ramirez@example.com", JoinedAt: time.Now()},
	}

	for _, m := range members {
		err := s.store.Create(ctx, "Members/"+m.ID, &m)
		if errors.Is(err, docstore.ErrPathExists) {
			continue
		}
		if err != nil {
			return err
		}

		bal := domain.Balance{
			MemberID:  m.ID,
			Amount:    decimal.NewFromInt(1000),
			UpdatedAt: time.Now(),
		}
		if err := s.store.Set(ctx, "Balances/"+m.ID, &bal); err != nil {
			return err
		}
		log.Printf("✅ Demo member created: %s", m.ID)
	}
	return nil
}
