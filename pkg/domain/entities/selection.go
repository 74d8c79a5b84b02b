package entities

// SelectionEntry represents one product in the operator's in-progress
// replenishment selection. Quantity is always at least 1 while the entry
// exists; removal deletes the entry rather than zeroing it.
type SelectionEntry struct {
	ProductID ProductID
	Quantity  Quantity
}
