package memory

import (
	"context"
	"sort"

	"github.com/hkim/restock/pkg/domain/entities"
	"github.com/hkim/restock/pkg/domain/gateways"
)

// weeklyWindow is the maximum number of trailing daily samples returned.
const weeklyWindow = 7

// SalesHistory provides in-memory daily sales samples
type SalesHistory struct {
	samples map[entities.ProductID][]entities.SalesSample
}

// NewSalesHistory creates a new in-memory sales history
func NewSalesHistory() *SalesHistory {
	return &SalesHistory{
		samples: make(map[entities.ProductID][]entities.SalesSample),
	}
}

// Verify interface compliance
var _ gateways.SalesHistory = (*SalesHistory)(nil)

// AddSample records the units sold for a product on a day
func (h *SalesHistory) AddSample(sample entities.SalesSample) {
	h.samples[sample.ProductID] = append(h.samples[sample.ProductID], sample)
}

// LoadSamples loads sales samples into the history
func (h *SalesHistory) LoadSamples(samples []*entities.SalesSample) error {
	for _, sample := range samples {
		h.AddSample(*sample)
	}
	return nil
}

// WeeklySamples returns up to the seven most recent daily samples for the
// product, newest first. Products with no recorded sales return an empty
// slice.
func (h *SalesHistory) WeeklySamples(
	ctx context.Context,
	productID entities.ProductID,
) ([]*entities.SalesSample, error) {
	recorded := h.samples[productID]

	sorted := make([]entities.SalesSample, len(recorded))
	copy(sorted, recorded)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Day.After(sorted[j].Day)
	})

	if len(sorted) > weeklyWindow {
		sorted = sorted[:weeklyWindow]
	}

	out := make([]*entities.SalesSample, 0, len(sorted))
	for i := range sorted {
		sample := sorted[i]
		out = append(out, &sample)
	}
	return out, nil
}
