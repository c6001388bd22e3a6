package order

import "github.com/go-faster/errors"

// Registry maps action type tags to their handler triples. Entries are set
// once at startup; re-registering a tag is an error so a deployment cannot
// silently shadow an existing handler.
type Registry struct {
	handlers map[ActionType]Handlers
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[ActionType]Handlers)}
}

// Register associates an action type with exactly one handler triple.
// Registering the same tag twice fails.
func (r *Registry) Register(t ActionType, h Handlers) error {
	if _, ok := r.handlers[t]; ok {
		return errors.Errorf("action type %q already registered", t)
	}
	if h.Validate == nil || h.Operate == nil || h.Revert == nil {
		return errors.Errorf("action type %q requires validate, operate and revert handlers", t)
	}
	r.handlers[t] = h
	return nil
}

// Get returns the handler triple for the given tag.
func (r *Registry) Get(t ActionType) (Handlers, error) {
	h, ok := r.handlers[t]
	if !ok {
		return Handlers{}, &UnknownActionTypeError{ActionType: t}
	}
	return h, nil
}

var defaultRegistry = mustBuildDefaultRegistry()

// DefaultRegistry returns the process-wide registry holding every built-in
// action type. It is built once at package initialization and never mutated
// afterwards.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

func mustBuildDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, e := range []struct {
		t ActionType
		h Handlers
	}{
		{ActionItemAdd, itemAddHandlers()},
		{ActionItemRemove, itemRemoveHandlers()},
		{ActionItemUpdate, itemUpdateHandlers()},
		{ActionFulfillItem, fulfillItemHandlers()},
		{ActionCancelItemFulfillment, cancelItemFulfillmentHandlers()},
		{ActionShipItem, shipItemHandlers()},
		{ActionReturnItem, returnItemHandlers()},
		{ActionReceiveReturnItem, receiveReturnItemHandlers()},
		{ActionReceiveDamagedReturnItem, receiveDamagedReturnItemHandlers()},
		{ActionCancelReturn, cancelReturnHandlers()},
		{ActionWriteOffItem, writeOffItemHandlers()},
		{ActionShippingAdd, shippingAddHandlers()},
		{ActionShippingRemove, shippingRemoveHandlers()},
	} {
		if err := r.Register(e.t, e.h); err != nil {
			panic(err)
		}
	}
	return r
}
