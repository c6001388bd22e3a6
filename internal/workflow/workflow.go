// Package workflow provides a small sequential step runner with
// compensation. Each step is a unit of work that may register an inverse;
// when a later step fails, already-invoked steps are compensated in
// reverse order.
package workflow

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Step is one unit of work. Compensate may be nil for steps with no
// side effects worth undoing.
type Step struct {
	Name       string
	Invoke     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Runner executes steps in order with compensation on failure.
type Runner struct {
	lg *zap.Logger
}

// NewRunner returns a Runner logging through lg.
func NewRunner(lg *zap.Logger) *Runner {
	return &Runner{lg: lg}
}

// Run invokes steps in order. On the first failure it compensates every
// previously invoked step in reverse order and returns the original
// failure. Compensation errors are logged, not returned: the invoke
// failure is the actionable one.
func (r *Runner) Run(ctx context.Context, steps ...Step) error {
	invoked := make([]Step, 0, len(steps))
	for _, s := range steps {
		if err := s.Invoke(ctx); err != nil {
			r.compensate(ctx, invoked)
			return errors.Wrapf(err, "step %s", s.Name)
		}
		invoked = append(invoked, s)
	}
	return nil
}

func (r *Runner) compensate(ctx context.Context, invoked []Step) {
	for i := len(invoked) - 1; i >= 0; i-- {
		s := invoked[i]
		if s.Compensate == nil {
			continue
		}
		r.lg.Info("compensating step", zap.String("step", s.Name))
		if err := s.Compensate(ctx); err != nil {
			r.lg.Error("compensation failed",
				zap.String("step", s.Name),
				zap.Error(err),
			)
		}
	}
}
