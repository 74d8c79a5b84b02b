package entities

import "github.com/shopspring/decimal"

// UnboundedDays is the DaysRemaining sentinel for products with no measured
// sales velocity. Renderers show it as not-applicable instead of a number.
const UnboundedDays = -1

// Recommendation represents the derived reorder suggestion for one product.
// It is a pure function of the current stock and sales window and is
// recomputed on demand, never cached across refreshes.
type Recommendation struct {
	ProductID      ProductID
	AvgDailyUnits  decimal.Decimal
	DaysRemaining  int
	RecommendedQty Quantity
}

// Unbounded reports whether the stock lasts indefinitely at the measured
// velocity (that is, the velocity is zero)
func (r Recommendation) Unbounded() bool {
	return r.DaysRemaining == UnboundedDays
}
