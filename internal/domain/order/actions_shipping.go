package order

import "github.com/shopspring/decimal"

// shippingAddHandlers implements SHIPPING_ADD. The method amount comes from
// the action amount when precomputed, otherwise from the details payload.
func shippingAddHandlers() Handlers {
	return Handlers{
		Validate: func(a ChangeAction, o *VirtualOrder) error {
			if a.ReferenceID == "" {
				return invalidData("reference id is required")
			}
			if !a.HasAmount && !a.Details.HasAmount {
				return invalidData("amount of shipping method %s is required", a.ReferenceID)
			}
			if existing, _ := o.FindShippingMethod(a.ReferenceID); existing != nil {
				return invalidData("shipping method %s already exists", a.ReferenceID)
			}
			return nil
		},
		Operate: func(a ChangeAction, o *VirtualOrder) decimal.Decimal {
			amount := shippingAmount(a)
			o.ShippingMethods = append(o.ShippingMethods, &ShippingMethod{
				ID:               a.ReferenceID,
				Name:             a.Details.Title,
				ShippingOptionID: a.Details.ReferenceID,
				Amount:           amount,
			})
			return amount
		},
		Revert: func(a ChangeAction, o *VirtualOrder) {
			if _, i := o.FindShippingMethod(a.ReferenceID); i > -1 {
				o.removeShippingMethodAt(i)
			}
		},
	}
}

// shippingRemoveHandlers implements SHIPPING_REMOVE, the mirror of
// SHIPPING_ADD. The action must carry the method amount so revert can
// restore the method without re-reading prior state.
func shippingRemoveHandlers() Handlers {
	return Handlers{
		Validate: func(a ChangeAction, o *VirtualOrder) error {
			if a.ReferenceID == "" {
				return invalidData("reference id is required")
			}
			if !a.HasAmount && !a.Details.HasAmount {
				return invalidData("amount of shipping method %s is required", a.ReferenceID)
			}
			if existing, _ := o.FindShippingMethod(a.ReferenceID); existing == nil {
				return invalidData("reference id %q not found", a.ReferenceID)
			}
			return nil
		},
		Operate: func(a ChangeAction, o *VirtualOrder) decimal.Decimal {
			_, i := o.FindShippingMethod(a.ReferenceID)
			o.removeShippingMethodAt(i)
			return shippingAmount(a).Neg()
		},
		Revert: func(a ChangeAction, o *VirtualOrder) {
			o.ShippingMethods = append(o.ShippingMethods, &ShippingMethod{
				ID:               a.ReferenceID,
				Name:             a.Details.Title,
				ShippingOptionID: a.Details.ReferenceID,
				Amount:           shippingAmount(a),
			})
		},
	}
}

// shippingAmount resolves the monetary amount of a shipping action,
// preferring the precomputed action amount.
func shippingAmount(a ChangeAction) decimal.Decimal {
	if a.HasAmount {
		return a.Amount
	}
	return a.Details.Amount
}
