package order

import "github.com/shopspring/decimal"

// ActionType tags one atomic, typed business operation queued against an
// order.
type ActionType string

const (
	ActionItemAdd                  ActionType = "ITEM_ADD"
	ActionItemRemove               ActionType = "ITEM_REMOVE"
	ActionItemUpdate               ActionType = "ITEM_UPDATE"
	ActionFulfillItem              ActionType = "FULFILL_ITEM"
	ActionCancelItemFulfillment    ActionType = "CANCEL_ITEM_FULFILLMENT"
	ActionShipItem                 ActionType = "SHIP_ITEM"
	ActionReturnItem               ActionType = "RETURN_ITEM"
	ActionReceiveReturnItem        ActionType = "RECEIVE_RETURN_ITEM"
	ActionReceiveDamagedReturnItem ActionType = "RECEIVE_DAMAGED_RETURN_ITEM"
	ActionCancelReturn             ActionType = "CANCEL_RETURN"
	ActionWriteOffItem             ActionType = "WRITE_OFF_ITEM"
	ActionShippingAdd              ActionType = "SHIPPING_ADD"
	ActionShippingRemove           ActionType = "SHIPPING_REMOVE"
)

// ActionDetails is the action-specific payload. Which fields are required
// depends on the action type; validation enforces presence per type.
type ActionDetails struct {
	// ReferenceID targets a nested record, e.g. the line item a shipment
	// applies to.
	ReferenceID string
	Quantity    int
	// QuantityDiff is a signed adjustment used by ITEM_UPDATE so that revert
	// stays pure inverse arithmetic without stashing prior state.
	QuantityDiff int
	UnitPrice    decimal.Decimal
	HasUnitPrice bool
	Amount       decimal.Decimal
	HasAmount    bool
	Title        string
}

// ChangeAction is one immutable entry in an order change's action list.
// ReferenceID is the id of the line item or shipping method the action
// targets. Amount, when set, is a precomputed monetary delta.
type ChangeAction struct {
	ID          string
	ReferenceID string
	Action      ActionType
	Amount      decimal.Decimal
	HasAmount   bool
	Details     ActionDetails
}

// Handlers is the {validate, operate, revert} triple registered per action
// type. All three are synchronous pure-compute functions over the
// projection with no I/O:
//
//   - Validate runs immediately before Operate, checks preconditions
//     against the current projection, and never mutates it.
//   - Operate mutates the projection in place and returns the signed
//     monetary delta the action contributes to order totals.
//   - Revert undoes Operate's mutation. It is never re-validated; callers
//     must invoke it at most once per applied action.
type Handlers struct {
	Validate func(a ChangeAction, o *VirtualOrder) error
	Operate  func(a ChangeAction, o *VirtualOrder) decimal.Decimal
	Revert   func(a ChangeAction, o *VirtualOrder)
}
