package memory

import (
	"context"
	"sort"
	"time"

	"github.com/hkim/restock/pkg/domain/entities"
	"github.com/hkim/restock/pkg/domain/gateways"
)

// InventoryStore provides in-memory batch storage
type InventoryStore struct {
	batches []entities.Batch
	now     func() time.Time
}

// NewInventoryStore creates a new in-memory inventory store
func NewInventoryStore() *InventoryStore {
	return &InventoryStore{now: time.Now}
}

// Verify interface compliance
var _ gateways.InventoryStore = (*InventoryStore)(nil)

// SetClock overrides the wall clock, for tests
func (s *InventoryStore) SetClock(now func() time.Time) {
	s.now = now
}

// AddBatch adds a batch to the store
func (s *InventoryStore) AddBatch(batch entities.Batch) {
	s.batches = append(s.batches, batch)
}

// LoadBatches loads batches into the store
func (s *InventoryStore) LoadBatches(batches []*entities.Batch) error {
	for _, batch := range batches {
		s.AddBatch(*batch)
	}
	return nil
}

// ListBatches returns all batches
func (s *InventoryStore) ListBatches(ctx context.Context) ([]*entities.Batch, error) {
	return s.filter(func(entities.Batch) bool { return true }), nil
}

// ListBatchesByProduct returns the batches of one product
func (s *InventoryStore) ListBatchesByProduct(
	ctx context.Context,
	productID entities.ProductID,
) ([]*entities.Batch, error) {
	return s.filter(func(b entities.Batch) bool {
		return b.ProductID == productID
	}), nil
}

// ListBatchesNearExpiration returns batches expiring within horizonDays,
// including batches that expire today or have already expired, sorted by
// expiration date ascending.
func (s *InventoryStore) ListBatchesNearExpiration(
	ctx context.Context,
	horizonDays int,
) ([]*entities.Batch, error) {
	now := s.now()
	expiring := s.filter(func(b entities.Batch) bool {
		return b.DaysUntilExpiration(now) <= horizonDays
	})
	sort.Slice(expiring, func(i, j int) bool {
		return expiring[i].ExpirationDate.Before(expiring[j].ExpirationDate)
	})
	return expiring, nil
}

func (s *InventoryStore) filter(keep func(entities.Batch) bool) []*entities.Batch {
	var out []*entities.Batch
	for i := range s.batches {
		if keep(s.batches[i]) {
			batch := s.batches[i]
			out = append(out, &batch)
		}
	}
	return out
}
