package services

import (
	"github.com/hkim/restock/pkg/domain/entities"

	"github.com/shopspring/decimal"
)

// Replenisher computes sales velocity and reorder recommendations. Both are
// pure functions of the sales window and current stock; nothing is cached
// between refreshes.
type Replenisher struct {
	windowDays  int
	horizonDays int
}

// NewReplenisher creates a Replenisher averaging sales over windowDays and
// recommending enough stock to cover horizonDays of demand. Non-positive
// arguments fall back to the defaults of 7 and 1.
func NewReplenisher(windowDays, horizonDays int) *Replenisher {
	if windowDays <= 0 {
		windowDays = 7
	}
	if horizonDays <= 0 {
		horizonDays = 1
	}
	return &Replenisher{windowDays: windowDays, horizonDays: horizonDays}
}

// AvgDailyUnits returns the average daily units sold over the configured
// window. The divisor is always the window length, never the sample count:
// days with no recorded sales pull the average down rather than being
// renormalized away.
func (r *Replenisher) AvgDailyUnits(samples []*entities.SalesSample) decimal.Decimal {
	var total int64
	for _, sample := range samples {
		total += int64(sample.UnitsSold)
	}
	return decimal.NewFromInt(total).Div(decimal.NewFromInt(int64(r.windowDays)))
}

// DaysRemaining returns how many whole days the stock lasts at the given
// velocity, or entities.UnboundedDays when the velocity is zero.
func (r *Replenisher) DaysRemaining(stock entities.Quantity, avg decimal.Decimal) int {
	if !avg.IsPositive() {
		return entities.UnboundedDays
	}
	return int(decimal.NewFromInt(int64(stock)).Div(avg).Floor().IntPart())
}

// RecommendedQty returns the suggested reorder quantity: enough to cover the
// reorder horizon at the measured velocity, less what is already on hand.
// Never negative.
func (r *Replenisher) RecommendedQty(avg decimal.Decimal, stock entities.Quantity) entities.Quantity {
	need := avg.Mul(decimal.NewFromInt(int64(r.horizonDays))).
		Sub(decimal.NewFromInt(int64(stock)))
	if need.IsNegative() {
		return 0
	}
	return entities.Quantity(need.Ceil().IntPart())
}

// Recommend computes the full recommendation record for one product.
func (r *Replenisher) Recommend(
	productID entities.ProductID,
	samples []*entities.SalesSample,
	stock entities.Quantity,
) entities.Recommendation {
	avg := r.AvgDailyUnits(samples)
	return entities.Recommendation{
		ProductID:      productID,
		AvgDailyUnits:  avg,
		DaysRemaining:  r.DaysRemaining(stock, avg),
		RecommendedQty: r.RecommendedQty(avg, stock),
	}
}
