package entities

import "time"

// SalesSample represents the units sold for one product on one day
type SalesSample struct {
	ProductID ProductID
	Day       time.Time
	UnitsSold Quantity
}
