// Package sqlite persists the replenishment order history in a SQLite
// database using the pure Go modernc.org/sqlite driver, so the history
// survives restarts without requiring CGO.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hkim/restock/pkg/domain/entities"
	"github.com/hkim/restock/pkg/domain/gateways"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrOrderNotFound is returned when a referenced order does not exist
var ErrOrderNotFound = errors.New("order not found")

const schema = `
CREATE TABLE IF NOT EXISTS orders (
    order_id      TEXT PRIMARY KEY,
    product_id    TEXT NOT NULL,
    requested_qty INTEGER NOT NULL CHECK (requested_qty > 0),
    scheduled_at  INTEGER NOT NULL,
    state         INTEGER NOT NULL DEFAULT 0,
    seq           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_product ON orders(product_id, scheduled_at DESC, order_id DESC);
`

// OrderGateway implements the order gateway on a SQLite database. The
// scheduled_at column holds unix nanoseconds so that ordering in SQL matches
// ordering on the time values.
type OrderGateway struct {
	db    *sql.DB
	now   func() time.Time
	newID func() entities.OrderID
}

// Verify interface compliance
var _ gateways.OrderGateway = (*OrderGateway)(nil)

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewOrderGateway opens (or creates) the order database at dbPath
func NewOrderGateway(dbPath string) (*OrderGateway, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &OrderGateway{
		db:  db,
		now: time.Now,
		newID: func() entities.OrderID {
			return entities.OrderID(uuid.NewString())
		},
	}, nil
}

// Close closes the database connection
func (g *OrderGateway) Close() error {
	return g.db.Close()
}

// SetClock overrides the wall clock, for tests
func (g *OrderGateway) SetClock(now func() time.Time) {
	g.now = now
}

// SetIDFactory overrides order id minting, for tests
func (g *OrderGateway) SetIDFactory(newID func() entities.OrderID) {
	g.newID = newID
}

// CreateOrder inserts a new order in the requested state
func (g *OrderGateway) CreateOrder(
	ctx context.Context,
	productID entities.ProductID,
	qty entities.Quantity,
) (*entities.Order, error) {
	order, err := entities.NewOrder(g.newID(), productID, qty, g.now())
	if err != nil {
		return nil, fmt.Errorf("create order for %s: %w", productID, err)
	}

	const query = `
		INSERT INTO orders (order_id, product_id, requested_qty, scheduled_at, state, seq)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM orders))
	`
	_, err = g.db.ExecContext(ctx, query,
		string(order.ID), string(order.ProductID), int64(order.RequestedQty),
		order.ScheduledAt.UnixNano(), int(order.State))
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}
	return order, nil
}

// ListOrders returns the full order history in creation order
func (g *OrderGateway) ListOrders(ctx context.Context) ([]*entities.Order, error) {
	const query = `
		SELECT order_id, product_id, requested_qty, scheduled_at, state
		FROM orders
		ORDER BY seq ASC
	`
	rows, err := g.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*entities.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	return out, rows.Err()
}

// LatestOrder returns the most recent order for a product, or nil when the
// product has never been ordered
func (g *OrderGateway) LatestOrder(
	ctx context.Context,
	productID entities.ProductID,
) (*entities.Order, error) {
	const query = `
		SELECT order_id, product_id, requested_qty, scheduled_at, state
		FROM orders
		WHERE product_id = ?
		ORDER BY scheduled_at DESC, order_id DESC
		LIMIT 1
	`
	order, err := scanOrder(g.db.QueryRowContext(ctx, query, string(productID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ConfirmReceipt advances a fulfilled order to received. The transition is
// applied through the entity state machine inside one transaction.
func (g *OrderGateway) ConfirmReceipt(
	ctx context.Context,
	orderID entities.OrderID,
) (*entities.Order, error) {
	return g.transition(ctx, orderID, (*entities.Order).ConfirmReceipt)
}

// MarkFulfilled records the supplier-side fulfillment of a requested order
func (g *OrderGateway) MarkFulfilled(ctx context.Context, orderID entities.OrderID) error {
	_, err := g.transition(ctx, orderID, (*entities.Order).MarkFulfilled)
	return err
}

func (g *OrderGateway) transition(
	ctx context.Context,
	orderID entities.OrderID,
	advance func(*entities.Order) error,
) (*entities.Order, error) {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	const query = `
		SELECT order_id, product_id, requested_qty, scheduled_at, state
		FROM orders
		WHERE order_id = ?
	`
	order, err := scanOrder(tx.QueryRowContext(ctx, query, string(orderID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}

	if err := advance(order); err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE orders SET state = ? WHERE order_id = ?",
		int(order.State), string(orderID))
	if err != nil {
		return nil, fmt.Errorf("failed to update order state: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*entities.Order, error) {
	var (
		id          string
		productID   string
		qty         int64
		scheduledNs int64
		state       int
	)
	if err := row.Scan(&id, &productID, &qty, &scheduledNs, &state); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return &entities.Order{
		ID:           entities.OrderID(id),
		ProductID:    entities.ProductID(productID),
		RequestedQty: entities.Quantity(qty),
		ScheduledAt:  time.Unix(0, scheduledNs).UTC(),
		State:        entities.OrderState(state),
	}, nil
}
