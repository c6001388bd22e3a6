package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/calyxhq/calyx/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (
		id, currency_code, items, shipping_methods,
		subtotal, shipping_total, return_total, write_off_total, total
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	getOrderSQL = `SELECT id, currency_code, items, shipping_methods,
		subtotal, shipping_total, return_total, write_off_total, total, created_at
	FROM orders WHERE id = $1`

	updateOrderSummarySQL = `UPDATE orders SET
		subtotal = $2, shipping_total = $3, return_total = $4,
		write_off_total = $5, total = $6
	WHERE id = $1`

	updateOrderStateSQL = `UPDATE orders SET items = $2, shipping_methods = $3 WHERE id = $1`

	createChangeSQL = `INSERT INTO order_changes (id, order_id, actions) VALUES ($1, $2, $3)`

	getChangeSQL = `SELECT id, order_id, actions, created_at FROM order_changes WHERE id = $1`

	listChangesSQL = `SELECT id, order_id, actions, created_at
	FROM order_changes WHERE order_id = $1 ORDER BY created_at, id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Item
// and shipping method collections live in JSONB columns; totals in NUMERIC
// columns mapped to decimals.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order aggregate.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.CurrencyCode,
		encodeLineItems(o.Items), encodeShippingMethods(o.ShippingMethods),
		o.Summary.Subtotal, o.Summary.ShippingTotal,
		o.Summary.ReturnTotal, o.Summary.WriteOffTotal, o.Summary.Total,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, mapConstraintErr(err))
	}
	return nil
}

// Get loads an order aggregate by id.
func (r *OrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	var (
		o            order.Order
		itemsJSON    []byte
		shippingJSON []byte
	)
	err := r.pool.QueryRow(ctx, getOrderSQL, id).Scan(
		&o.ID, &o.CurrencyCode, &itemsJSON, &shippingJSON,
		&o.Summary.Subtotal, &o.Summary.ShippingTotal,
		&o.Summary.ReturnTotal, &o.Summary.WriteOffTotal, &o.Summary.Total,
		&o.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("order %q: %w", id, pgx.ErrNoRows)
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	if o.Items, err = decodeLineItems(itemsJSON); err != nil {
		return nil, fmt.Errorf("order %q items: %w", id, err)
	}
	if o.ShippingMethods, err = decodeShippingMethods(shippingJSON); err != nil {
		return nil, fmt.Errorf("order %q shipping methods: %w", id, err)
	}
	return &o, nil
}

// UpdateSummary stores recomputed totals for an order.
func (r *OrderRepository) UpdateSummary(ctx context.Context, id string, s order.Summary) error {
	_, err := r.pool.Exec(ctx, updateOrderSummarySQL, id,
		s.Subtotal, s.ShippingTotal, s.ReturnTotal, s.WriteOffTotal, s.Total,
	)
	if err != nil {
		return fmt.Errorf("updating summary of order %q: %w", id, err)
	}
	return nil
}

// UpdateState materializes a processed projection's item and shipping
// method collections back onto the order row.
func (r *OrderRepository) UpdateState(ctx context.Context, o *order.VirtualOrder) error {
	_, err := r.pool.Exec(ctx, updateOrderStateSQL, o.ID,
		encodeLineItems(o.Items), encodeShippingMethods(o.ShippingMethods),
	)
	if err != nil {
		return fmt.Errorf("updating state of order %q: %w", o.ID, err)
	}
	return nil
}

// CreateChange appends a change with its immutable action list.
func (r *OrderRepository) CreateChange(ctx context.Context, c *order.Change) error {
	_, err := r.pool.Exec(ctx, createChangeSQL, c.ID, c.OrderID, encodeActions(c.Actions))
	if err != nil {
		return fmt.Errorf("creating order change %q: %w", c.ID, mapConstraintErr(err))
	}
	return nil
}

// GetChange loads a change by id.
func (r *OrderRepository) GetChange(ctx context.Context, id string) (*order.Change, error) {
	var (
		c           order.Change
		actionsJSON []byte
	)
	err := r.pool.QueryRow(ctx, getChangeSQL, id).Scan(&c.ID, &c.OrderID, &actionsJSON, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting order change %q: %w", id, err)
	}
	if c.Actions, err = decodeActions(actionsJSON); err != nil {
		return nil, fmt.Errorf("order change %q actions: %w", id, err)
	}
	return &c, nil
}

// ListChanges returns all changes queued against an order, oldest first.
func (r *OrderRepository) ListChanges(ctx context.Context, orderID string) ([]order.Change, error) {
	rows, err := r.pool.Query(ctx, listChangesSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing changes of order %q: %w", orderID, err)
	}
	defer rows.Close()

	var changes []order.Change
	for rows.Next() {
		var (
			c           order.Change
			actionsJSON []byte
		)
		if err := rows.Scan(&c.ID, &c.OrderID, &actionsJSON, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning change of order %q: %w", orderID, err)
		}
		if c.Actions, err = decodeActions(actionsJSON); err != nil {
			return nil, fmt.Errorf("change %q actions: %w", c.ID, err)
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}
