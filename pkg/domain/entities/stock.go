package entities

// StockStatus represents the derived stock level status of a product
type StockStatus int

const (
	StockNormal StockStatus = iota
	StockLow
)

// String method for StockStatus enum
func (s StockStatus) String() string {
	switch s {
	case StockNormal:
		return "Normal"
	case StockLow:
		return "Low"
	default:
		return "Unknown"
	}
}

// AggregateStock represents the merged stock position of one product across
// all of its batches. It is recomputed on every fetch and never persisted.
type AggregateStock struct {
	ProductID     ProductID
	TotalQuantity Quantity
	Status        StockStatus
}

// MergedProductView joins a catalog product with its aggregate stock. The two
// sources keep their own fields; nothing is flattened or shadowed.
type MergedProductView struct {
	Product Product
	Stock   AggregateStock
}
