package order

import "github.com/shopspring/decimal"

// Fulfillment-stage actions target the line item through the nested
// details reference and move quantity between lifecycle counters. None of
// them carry a monetary delta.

// fulfillItemHandlers implements FULFILL_ITEM.
func fulfillItemHandlers() Handlers {
	return Handlers{
		Validate: func(a ChangeAction, o *VirtualOrder) error {
			existing, err := requireItem(a.Details.ReferenceID, o)
			if err != nil {
				return err
			}
			if err := requireQuantity(a.Details.Quantity, a.Details.ReferenceID); err != nil {
				return err
			}
			unfulfilled := existing.Detail.Quantity - existing.Detail.FulfilledQuantity
			if a.Details.Quantity > unfulfilled {
				return invalidData("cannot fulfill more items than what was ordered for item %s", a.Details.ReferenceID)
			}
			return nil
		},
		Operate: func(a ChangeAction, o *VirtualOrder) decimal.Decimal {
			existing, _ := o.FindItem(a.Details.ReferenceID)
			existing.Detail.FulfilledQuantity += a.Details.Quantity
			return decimal.Zero
		},
		Revert: func(a ChangeAction, o *VirtualOrder) {
			existing, _ := o.FindItem(a.Details.ReferenceID)
			existing.Detail.FulfilledQuantity -= a.Details.Quantity
		},
	}
}

// cancelItemFulfillmentHandlers implements CANCEL_ITEM_FULFILLMENT.
// Shipped quantity stays fulfilled; only the unshipped remainder may be
// cancelled.
func cancelItemFulfillmentHandlers() Handlers {
	return Handlers{
		Validate: func(a ChangeAction, o *VirtualOrder) error {
			existing, err := requireItem(a.Details.ReferenceID, o)
			if err != nil {
				return err
			}
			if err := requireQuantity(a.Details.Quantity, a.Details.ReferenceID); err != nil {
				return err
			}
			unshipped := existing.Detail.FulfilledQuantity - existing.Detail.ShippedQuantity
			if a.Details.Quantity > unshipped {
				return invalidData("cannot cancel more fulfillment than what was not shipped for item %s", a.Details.ReferenceID)
			}
			return nil
		},
		Operate: func(a ChangeAction, o *VirtualOrder) decimal.Decimal {
			existing, _ := o.FindItem(a.Details.ReferenceID)
			existing.Detail.FulfilledQuantity -= a.Details.Quantity
			return decimal.Zero
		},
		Revert: func(a ChangeAction, o *VirtualOrder) {
			existing, _ := o.FindItem(a.Details.ReferenceID)
			existing.Detail.FulfilledQuantity += a.Details.Quantity
		},
	}
}

// shipItemHandlers implements SHIP_ITEM. Revert trusts that the action was
// applied as validated and does not floor the counter at zero.
func shipItemHandlers() Handlers {
	return Handlers{
		Validate: func(a ChangeAction, o *VirtualOrder) error {
			existing, err := requireItem(a.Details.ReferenceID, o)
			if err != nil {
				return err
			}
			if err := requireQuantity(a.Details.Quantity, a.Details.ReferenceID); err != nil {
				return err
			}
			notShipped := existing.Detail.FulfilledQuantity - existing.Detail.ShippedQuantity
			if a.Details.Quantity > notShipped {
				return invalidData("cannot ship more items than what was fulfilled for item %s", a.Details.ReferenceID)
			}
			return nil
		},
		Operate: func(a ChangeAction, o *VirtualOrder) decimal.Decimal {
			existing, _ := o.FindItem(a.Details.ReferenceID)
			existing.Detail.ShippedQuantity += a.Details.Quantity
			return decimal.Zero
		},
		Revert: func(a ChangeAction, o *VirtualOrder) {
			existing, _ := o.FindItem(a.Details.ReferenceID)
			existing.Detail.ShippedQuantity -= a.Details.Quantity
		},
	}
}
