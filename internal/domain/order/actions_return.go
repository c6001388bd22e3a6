package order

import "github.com/shopspring/decimal"

// Return-stage actions. A return is requested first (RETURN_ITEM), then
// resolved by receiving the goods, dismissing them as damaged, or
// cancelling the request. Money moves only when sellable goods are
// received back; WRITE_OFF_ITEM refunds without expecting goods (claims).

// returnItemHandlers implements RETURN_ITEM.
func returnItemHandlers() Handlers {
	return Handlers{
		Validate: func(a ChangeAction, o *VirtualOrder) error {
			existing, err := requireItem(a.Details.ReferenceID, o)
			if err != nil {
				return err
			}
			if err := requireQuantity(a.Details.Quantity, a.Details.ReferenceID); err != nil {
				return err
			}
			returnable := existing.Detail.ShippedQuantity -
				existing.Detail.ReturnRequestedQuantity -
				existing.Detail.ReturnReceivedQuantity -
				existing.Detail.ReturnDismissedQuantity
			if a.Details.Quantity > returnable {
				return invalidData("cannot request a return for more items than what was shipped for item %s", a.Details.ReferenceID)
			}
			return nil
		},
		Operate: func(a ChangeAction, o *VirtualOrder) decimal.Decimal {
			existing, _ := o.FindItem(a.Details.ReferenceID)
			existing.Detail.ReturnRequestedQuantity += a.Details.Quantity
			return decimal.Zero
		},
		Revert: func(a ChangeAction, o *VirtualOrder) {
			existing, _ := o.FindItem(a.Details.ReferenceID)
			existing.Detail.ReturnRequestedQuantity -= a.Details.Quantity
		},
	}
}

// receiveReturnItemHandlers implements RECEIVE_RETURN_ITEM. Receiving
// refunds the item price for the received quantity.
func receiveReturnItemHandlers() Handlers {
	return Handlers{
		Validate: func(a ChangeAction, o *VirtualOrder) error {
			return validateReturnResolution(a, o)
		},
		Operate: func(a ChangeAction, o *VirtualOrder) decimal.Decimal {
			existing, _ := o.FindItem(a.Details.ReferenceID)
			existing.Detail.ReturnRequestedQuantity -= a.Details.Quantity
			existing.Detail.ReturnReceivedQuantity += a.Details.Quantity
			return existing.UnitPrice.Mul(decimal.NewFromInt(int64(a.Details.Quantity))).Neg()
		},
		Revert: func(a ChangeAction, o *VirtualOrder) {
			existing, _ := o.FindItem(a.Details.ReferenceID)
			existing.Detail.ReturnRequestedQuantity += a.Details.Quantity
			existing.Detail.ReturnReceivedQuantity -= a.Details.Quantity
		},
	}
}

// receiveDamagedReturnItemHandlers implements RECEIVE_DAMAGED_RETURN_ITEM.
// Damaged goods are dismissed without a refund.
func receiveDamagedReturnItemHandlers() Handlers {
	return Handlers{
		Validate: func(a ChangeAction, o *VirtualOrder) error {
			return validateReturnResolution(a, o)
		},
		Operate: func(a ChangeAction, o *VirtualOrder) decimal.Decimal {
			existing, _ := o.FindItem(a.Details.ReferenceID)
			existing.Detail.ReturnRequestedQuantity -= a.Details.Quantity
			existing.Detail.ReturnDismissedQuantity += a.Details.Quantity
			return decimal.Zero
		},
		Revert: func(a ChangeAction, o *VirtualOrder) {
			existing, _ := o.FindItem(a.Details.ReferenceID)
			existing.Detail.ReturnRequestedQuantity += a.Details.Quantity
			existing.Detail.ReturnDismissedQuantity -= a.Details.Quantity
		},
	}
}

// cancelReturnHandlers implements CANCEL_RETURN.
func cancelReturnHandlers() Handlers {
	return Handlers{
		Validate: func(a ChangeAction, o *VirtualOrder) error {
			return validateReturnResolution(a, o)
		},
		Operate: func(a ChangeAction, o *VirtualOrder) decimal.Decimal {
			existing, _ := o.FindItem(a.Details.ReferenceID)
			existing.Detail.ReturnRequestedQuantity -= a.Details.Quantity
			return decimal.Zero
		},
		Revert: func(a ChangeAction, o *VirtualOrder) {
			existing, _ := o.FindItem(a.Details.ReferenceID)
			existing.Detail.ReturnRequestedQuantity += a.Details.Quantity
		},
	}
}

// writeOffItemHandlers implements WRITE_OFF_ITEM, used by claim flows to
// refund goods the customer keeps.
func writeOffItemHandlers() Handlers {
	return Handlers{
		Validate: func(a ChangeAction, o *VirtualOrder) error {
			existing, err := requireItem(a.Details.ReferenceID, o)
			if err != nil {
				return err
			}
			if err := requireQuantity(a.Details.Quantity, a.Details.ReferenceID); err != nil {
				return err
			}
			writable := existing.Detail.Quantity - existing.Detail.WrittenOffQuantity
			if a.Details.Quantity > writable {
				return invalidData("cannot write off more items than what was ordered for item %s", a.Details.ReferenceID)
			}
			return nil
		},
		Operate: func(a ChangeAction, o *VirtualOrder) decimal.Decimal {
			existing, _ := o.FindItem(a.Details.ReferenceID)
			existing.Detail.WrittenOffQuantity += a.Details.Quantity
			return existing.UnitPrice.Mul(decimal.NewFromInt(int64(a.Details.Quantity))).Neg()
		},
		Revert: func(a ChangeAction, o *VirtualOrder) {
			existing, _ := o.FindItem(a.Details.ReferenceID)
			existing.Detail.WrittenOffQuantity -= a.Details.Quantity
		},
	}
}

// validateReturnResolution is the shared precondition for actions that
// consume a pending return request.
func validateReturnResolution(a ChangeAction, o *VirtualOrder) error {
	existing, err := requireItem(a.Details.ReferenceID, o)
	if err != nil {
		return err
	}
	if err := requireQuantity(a.Details.Quantity, a.Details.ReferenceID); err != nil {
		return err
	}
	if a.Details.Quantity > existing.Detail.ReturnRequestedQuantity {
		return invalidData("cannot resolve more items than what was requested to be returned for item %s", a.Details.ReferenceID)
	}
	return nil
}
