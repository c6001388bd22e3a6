// Package link declares named bidirectional associations between two
// module record types. The registry is pure metadata consumed by the
// remote-query executor to resolve joins across module boundaries; it has
// no runtime state machine.
package link

import (
	"strings"

	"github.com/go-faster/errors"
)

// Module tags a domain module participating in a link.
type Module string

const (
	ModuleProduct       Module = "product"
	ModulePricing       Module = "pricing"
	ModuleInventory     Module = "inventory"
	ModuleCart          Module = "cart"
	ModulePayment       Module = "payment"
	ModuleRegion        Module = "region"
	ModulePromotion     Module = "promotion"
	ModuleSalesChannel  Module = "sales_channel"
	ModuleStockLocation Module = "stock_location"
	ModuleAPIKey        Module = "api_key"
	ModuleOrder         Module = "order"
	ModuleFulfillment   Module = "fulfillment"
	ModuleTax           Module = "tax"
)

// Endpoint is one side of a link: a module and the foreign-key field that
// carries the other side's id.
type Endpoint struct {
	Module Module
	Field  string
}

// Definition is a declared association between two module record types.
// Argument order is part of the identity: A-to-B and B-to-A are distinct
// links unless both are declared.
type Definition struct {
	Name  string
	Left  Endpoint
	Right Endpoint
}

// ComposeLinkName deterministically derives the canonical link identifier
// from the two endpoints.
func ComposeLinkName(moduleA Module, fieldA string, moduleB Module, fieldB string) string {
	return strings.ToLower(strings.Join([]string{
		string(moduleA), fieldA, string(moduleB), fieldB,
	}, "_"))
}

// Registry is a fixed mapping from link name to its endpoint pair, built
// once at process start.
type Registry struct {
	byName map[string]Definition
	names  []string
}

// NewRegistry builds a registry from the given definitions. Declaring the
// same endpoint pair twice is an error.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{byName: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		name := ComposeLinkName(d.Left.Module, d.Left.Field, d.Right.Module, d.Right.Field)
		if _, ok := r.byName[name]; ok {
			return nil, errors.Errorf("link %q already registered", name)
		}
		d.Name = name
		r.byName[name] = d
		r.names = append(r.names, name)
	}
	return r, nil
}

// Get returns the definition registered under the given link name.
func (r *Registry) Get(name string) (Definition, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Names lists registered link names in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
