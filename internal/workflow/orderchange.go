package workflow

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/calyxhq/calyx/internal/domain/order"
)

// OrderChangeStep wraps the order change processor as a compensable step.
// It records which actions were actually applied so compensation reverts
// exactly those, in reverse application order, and never an action that
// failed before operating.
type OrderChangeStep struct {
	processor *order.Processor
	current   *order.VirtualOrder
	actions   []order.ChangeAction

	applied []order.ChangeAction
	delta   decimal.Decimal
}

// NewOrderChangeStep prepares a step applying actions to the projection.
func NewOrderChangeStep(p *order.Processor, o *order.VirtualOrder, actions []order.ChangeAction) *OrderChangeStep {
	return &OrderChangeStep{processor: p, current: o, actions: actions}
}

// Delta returns the accumulated monetary delta of the applied actions.
func (s *OrderChangeStep) Delta() decimal.Decimal {
	return s.delta
}

// Applied returns the actions that were applied, in application order.
func (s *OrderChangeStep) Applied() []order.ChangeAction {
	return s.applied
}

// Step materializes the workflow step. Actions are applied one at a time
// so the applied set is exact even when a later action's validation aborts
// the batch.
func (s *OrderChangeStep) Step() Step {
	return Step{
		Name: "apply-order-change",
		Invoke: func(_ context.Context) error {
			s.delta = decimal.Zero
			for _, a := range s.actions {
				d, err := s.processor.ApplyActions(s.current, []order.ChangeAction{a})
				if err != nil {
					return err
				}
				s.applied = append(s.applied, a)
				s.delta = s.delta.Add(d)
			}
			order.RecomputeSummary(s.current)
			return nil
		},
		Compensate: func(_ context.Context) error {
			for i := len(s.applied) - 1; i >= 0; i-- {
				if err := s.processor.RevertAction(s.current, s.applied[i]); err != nil {
					return err
				}
			}
			s.applied = nil
			s.delta = decimal.Zero
			order.RecomputeSummary(s.current)
			return nil
		},
	}
}
