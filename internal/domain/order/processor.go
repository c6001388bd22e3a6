package order

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Processor applies ordered lists of change actions to a virtual order
// projection. It is single-threaded per invocation: one projection is
// mutated sequentially and callers must serialize processing per order.
type Processor struct {
	registry *Registry
}

// NewProcessor returns a processor dispatching through the given registry.
func NewProcessor(registry *Registry) *Processor {
	return &Processor{registry: registry}
}

// ApplyActions processes actions in list order against the projection and
// returns the accumulated signed monetary delta. Each action is validated
// immediately before it operates, not as a pre-pass over the whole list:
// later actions may depend on state produced by earlier ones. A validation
// failure aborts the batch with no partial rollback of prior actions in
// the same batch; compensating those is the caller's job via RevertAction.
func (p *Processor) ApplyActions(o *VirtualOrder, actions []ChangeAction) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range actions {
		h, err := p.registry.Get(a.Action)
		if err != nil {
			return decimal.Zero, err
		}
		if err := h.Validate(a, o); err != nil {
			return decimal.Zero, errors.Wrapf(err, "validate %s", a.Action)
		}
		total = total.Add(h.Operate(a, o))
	}
	return total, nil
}

// RevertAction undoes a previously applied action's projection mutation.
// Reverting an action that was never applied is undefined; callers track
// the applied-action set and invoke this at most once per applied action.
func (p *Processor) RevertAction(o *VirtualOrder, a ChangeAction) error {
	h, err := p.registry.Get(a.Action)
	if err != nil {
		return err
	}
	h.Revert(a, o)
	return nil
}

// RecomputeSummary derives order-level totals from the mutated item and
// shipping method collections. It belongs to the caller side of the
// processing contract: the processor owns per-action deltas and projection
// mutation only.
func RecomputeSummary(o *VirtualOrder) Summary {
	s := Summary{
		Subtotal:      decimal.Zero,
		ShippingTotal: decimal.Zero,
		ReturnTotal:   decimal.Zero,
		WriteOffTotal: decimal.Zero,
	}
	for _, item := range o.Items {
		s.Subtotal = s.Subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		s.ReturnTotal = s.ReturnTotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Detail.ReturnReceivedQuantity))))
		s.WriteOffTotal = s.WriteOffTotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Detail.WrittenOffQuantity))))
	}
	for _, sm := range o.ShippingMethods {
		s.ShippingTotal = s.ShippingTotal.Add(sm.Amount)
	}
	s.Total = s.Subtotal.Add(s.ShippingTotal).Sub(s.ReturnTotal).Sub(s.WriteOffTotal)
	o.Summary = s
	return s
}
