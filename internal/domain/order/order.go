package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LineItemDetail tracks per-stage quantities over the fulfillment lifecycle
// of a single line item. All counters are explicit and start at zero; there
// is no initialize-on-first-touch.
type LineItemDetail struct {
	Quantity                int
	FulfilledQuantity       int
	ShippedQuantity         int
	ReturnRequestedQuantity int
	ReturnReceivedQuantity  int
	ReturnDismissedQuantity int
	WrittenOffQuantity      int
}

// LineItem is a single order line. ID is stable: either a pre-existing
// order line id or one freshly generated for the action that created it.
type LineItem struct {
	ID        string
	Title     string
	UnitPrice decimal.Decimal
	Quantity  int
	Detail    LineItemDetail
}

// ShippingMethod is a shipping method attached to an order.
type ShippingMethod struct {
	ID               string
	Name             string
	ShippingOptionID string
	Amount           decimal.Decimal
}

// Summary holds order-level totals derived from the item and shipping
// method collections. It is recomputed after a batch of change actions has
// been applied, never mutated by an action handler directly.
type Summary struct {
	Subtotal      decimal.Decimal
	ShippingTotal decimal.Decimal
	ReturnTotal   decimal.Decimal
	WriteOffTotal decimal.Decimal
	Total         decimal.Decimal
}

// VirtualOrder is an in-memory projection of an order used for speculative
// recomputation. It is built fresh for each processing pass, mutated in
// place by action handlers, and discarded once its derived fields have been
// extracted. It is not safe for concurrent mutation; callers serialize
// processing per order.
type VirtualOrder struct {
	ID              string
	CurrencyCode    string
	Items           []*LineItem
	ShippingMethods []*ShippingMethod
	Summary         Summary
}

// FindItem returns the line item with the given id and its position, or
// (nil, -1) when absent. Items keep insertion order, so position is stable
// across lookups within a batch.
func (o *VirtualOrder) FindItem(id string) (*LineItem, int) {
	for i, item := range o.Items {
		if item.ID == id {
			return item, i
		}
	}
	return nil, -1
}

// FindShippingMethod returns the shipping method with the given id and its
// position, or (nil, -1) when absent.
func (o *VirtualOrder) FindShippingMethod(id string) (*ShippingMethod, int) {
	for i, sm := range o.ShippingMethods {
		if sm.ID == id {
			return sm, i
		}
	}
	return nil, -1
}

// removeItemAt deletes the item at position i preserving order.
func (o *VirtualOrder) removeItemAt(i int) {
	o.Items = append(o.Items[:i], o.Items[i+1:]...)
}

// removeShippingMethodAt deletes the shipping method at position i
// preserving order.
func (o *VirtualOrder) removeShippingMethodAt(i int) {
	o.ShippingMethods = append(o.ShippingMethods[:i], o.ShippingMethods[i+1:]...)
}

// Order is the persisted order aggregate.
type Order struct {
	ID              string
	CurrencyCode    string
	Items           []*LineItem
	ShippingMethods []*ShippingMethod
	Summary         Summary
	CreatedAt       time.Time
}

// Project builds a VirtualOrder from the persisted order. Items and
// shipping methods are deep-copied so handler mutations never leak back
// into the source aggregate.
func (o *Order) Project() *VirtualOrder {
	items := make([]*LineItem, len(o.Items))
	for i, item := range o.Items {
		cp := *item
		items[i] = &cp
	}
	methods := make([]*ShippingMethod, len(o.ShippingMethods))
	for i, sm := range o.ShippingMethods {
		cp := *sm
		methods[i] = &cp
	}
	return &VirtualOrder{
		ID:              o.ID,
		CurrencyCode:    o.CurrencyCode,
		Items:           items,
		ShippingMethods: methods,
		Summary:         o.Summary,
	}
}

// Change is a persisted order change: an ordered list of actions queued
// against one order. Actions are immutable once appended and are processed
// in list order.
type Change struct {
	ID        string
	OrderID   string
	Actions   []ChangeAction
	CreatedAt time.Time
}

// Repository defines persistence operations for orders and order changes.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	UpdateSummary(ctx context.Context, id string, s Summary) error
	UpdateState(ctx context.Context, o *VirtualOrder) error
	CreateChange(ctx context.Context, c *Change) error
	GetChange(ctx context.Context, id string) (*Change, error)
	ListChanges(ctx context.Context, orderID string) ([]Change, error)
}
