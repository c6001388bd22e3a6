package order

import "github.com/shopspring/decimal"

// itemAddHandlers implements ITEM_ADD. Adding an item with the id of an
// existing line increments that line instead of appending a duplicate.
func itemAddHandlers() Handlers {
	return Handlers{
		Validate: func(a ChangeAction, _ *VirtualOrder) error {
			if a.ReferenceID == "" {
				return invalidData("reference id is required")
			}
			if !a.HasAmount && !a.Details.HasUnitPrice {
				return invalidData("unit price of item %s is required if no action amount is provided", a.ReferenceID)
			}
			if a.Details.Quantity == 0 {
				return invalidData("quantity of item %s is required", a.ReferenceID)
			}
			if a.Details.Quantity < 1 {
				return invalidData("quantity of item %s must be greater than 0", a.ReferenceID)
			}
			return nil
		},
		Operate: func(a ChangeAction, o *VirtualOrder) decimal.Decimal {
			if existing, _ := o.FindItem(a.ReferenceID); existing != nil {
				existing.Quantity += a.Details.Quantity
				existing.Detail.Quantity += a.Details.Quantity
			} else {
				o.Items = append(o.Items, &LineItem{
					ID:        a.ReferenceID,
					Title:     a.Details.Title,
					UnitPrice: a.Details.UnitPrice,
					Quantity:  a.Details.Quantity,
					Detail:    LineItemDetail{Quantity: a.Details.Quantity},
				})
			}
			return a.Details.UnitPrice.Mul(decimal.NewFromInt(int64(a.Details.Quantity)))
		},
		Revert: func(a ChangeAction, o *VirtualOrder) {
			existing, i := o.FindItem(a.ReferenceID)
			if existing == nil {
				return
			}
			existing.Quantity -= a.Details.Quantity
			existing.Detail.Quantity -= a.Details.Quantity
			if existing.Quantity <= 0 {
				o.removeItemAt(i)
			}
		},
	}
}

// itemRemoveHandlers implements ITEM_REMOVE. Only unfulfilled quantity may
// be removed; a line whose quantity reaches zero leaves the sequence.
func itemRemoveHandlers() Handlers {
	return Handlers{
		Validate: func(a ChangeAction, o *VirtualOrder) error {
			existing, err := requireItem(a.ReferenceID, o)
			if err != nil {
				return err
			}
			if err := requireQuantity(a.Details.Quantity, a.ReferenceID); err != nil {
				return err
			}
			removable := existing.Detail.Quantity - existing.Detail.FulfilledQuantity
			if a.Details.Quantity > removable {
				return invalidData("cannot remove fulfilled quantity of item %s", a.ReferenceID)
			}
			return nil
		},
		Operate: func(a ChangeAction, o *VirtualOrder) decimal.Decimal {
			existing, i := o.FindItem(a.ReferenceID)
			existing.Quantity -= a.Details.Quantity
			existing.Detail.Quantity -= a.Details.Quantity
			delta := existing.UnitPrice.Mul(decimal.NewFromInt(int64(a.Details.Quantity))).Neg()
			if existing.Quantity <= 0 {
				o.removeItemAt(i)
			}
			return delta
		},
		Revert: func(a ChangeAction, o *VirtualOrder) {
			existing, _ := o.FindItem(a.ReferenceID)
			if existing == nil {
				existing = &LineItem{
					ID:        a.ReferenceID,
					Title:     a.Details.Title,
					UnitPrice: a.Details.UnitPrice,
				}
				o.Items = append(o.Items, existing)
			}
			existing.Quantity += a.Details.Quantity
			existing.Detail.Quantity += a.Details.Quantity
		},
	}
}

// itemUpdateHandlers implements ITEM_UPDATE as a signed quantity
// adjustment. The diff keeps revert a pure inverse without re-reading prior
// state from the immutable action.
func itemUpdateHandlers() Handlers {
	return Handlers{
		Validate: func(a ChangeAction, o *VirtualOrder) error {
			existing, err := requireItem(a.ReferenceID, o)
			if err != nil {
				return err
			}
			if a.Details.QuantityDiff == 0 {
				return invalidData("quantity adjustment of item %s is required", a.ReferenceID)
			}
			if existing.Quantity+a.Details.QuantityDiff < existing.Detail.FulfilledQuantity {
				return invalidData("cannot reduce item %s below its fulfilled quantity", a.ReferenceID)
			}
			return nil
		},
		Operate: func(a ChangeAction, o *VirtualOrder) decimal.Decimal {
			existing, i := o.FindItem(a.ReferenceID)
			existing.Quantity += a.Details.QuantityDiff
			existing.Detail.Quantity += a.Details.QuantityDiff
			delta := existing.UnitPrice.Mul(decimal.NewFromInt(int64(a.Details.QuantityDiff)))
			if existing.Quantity <= 0 {
				o.removeItemAt(i)
			}
			return delta
		},
		Revert: func(a ChangeAction, o *VirtualOrder) {
			existing, _ := o.FindItem(a.ReferenceID)
			if existing == nil {
				existing = &LineItem{
					ID:        a.ReferenceID,
					Title:     a.Details.Title,
					UnitPrice: a.Details.UnitPrice,
				}
				o.Items = append(o.Items, existing)
			}
			existing.Quantity -= a.Details.QuantityDiff
			existing.Detail.Quantity -= a.Details.QuantityDiff
		},
	}
}

// requireItem resolves a line item by id or reports the missing reference.
func requireItem(id string, o *VirtualOrder) (*LineItem, error) {
	if id == "" {
		return nil, invalidData("reference id is required")
	}
	existing, _ := o.FindItem(id)
	if existing == nil {
		return nil, invalidData("reference id %q not found", id)
	}
	return existing, nil
}

// requireQuantity enforces the shared quantity >= 1 precondition.
func requireQuantity(q int, refID string) error {
	if q == 0 {
		return invalidData("quantity of item %s is required", refID)
	}
	if q < 1 {
		return invalidData("quantity of item %s must be greater than 0", refID)
	}
	return nil
}
