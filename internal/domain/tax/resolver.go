package tax

import (
	"context"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/calyxhq/calyx/internal/domain/cart"
)

// TaxLines bundles the two resulting tax-line collections.
type TaxLines struct {
	LineItems       []ItemTaxLine
	ShippingMethods []ShippingTaxLine
}

// Resolver normalizes cart state into taxable shapes and delegates to a
// Provider. It holds no state beyond the provider reference.
type Resolver struct {
	provider Provider
}

// NewResolver returns a Resolver backed by the given provider.
func NewResolver(provider Provider) *Resolver {
	return &Resolver{provider: provider}
}

// GetItemTaxLines requests tax lines for the given items and shipping
// methods. Carts without a resolvable shipping address country are untaxed
// by default: both collections come back empty without a provider call.
// The item and shipping requests have no ordering dependency and run
// concurrently; both are awaited before returning.
func (r *Resolver) GetItemTaxLines(
	ctx context.Context,
	c cart.Cart,
	items []cart.LineItem,
	shippingMethods []cart.ShippingMethod,
) (TaxLines, error) {
	tc, ok := normalizeContext(c)
	if !ok {
		return TaxLines{
			LineItems:       []ItemTaxLine{},
			ShippingMethods: []ShippingTaxLine{},
		}, nil
	}

	var lines TaxLines
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := r.provider.GetItemTaxLines(gctx, normalizeItems(c, items), tc)
		if err != nil {
			return errors.Wrap(err, "item tax lines")
		}
		lines.LineItems = res
		return nil
	})
	g.Go(func() error {
		res, err := r.provider.GetShippingTaxLines(gctx, normalizeShipping(c, shippingMethods), tc)
		if err != nil {
			return errors.Wrap(err, "shipping tax lines")
		}
		lines.ShippingMethods = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return TaxLines{}, err
	}
	return lines, nil
}

// normalizeContext builds the calculation context from the cart shipping
// address. It reports false when the address is absent or lacks a country
// code, which short-circuits tax resolution.
func normalizeContext(c cart.Cart) (CalculationContext, bool) {
	address := c.ShippingAddress
	if address == nil || address.CountryCode == "" {
		return CalculationContext{}, false
	}

	var customer *Customer
	if c.Customer != nil {
		groups := make([]string, 0, len(c.Customer.Groups))
		for _, g := range c.Customer.Groups {
			groups = append(groups, g.ID)
		}
		customer = &Customer{
			ID:             c.Customer.ID,
			Email:          c.Customer.Email,
			CustomerGroups: groups,
		}
	}

	return CalculationContext{
		Address: Address{
			CountryCode:  address.CountryCode,
			ProvinceCode: address.Province,
			Address1:     address.Address1,
			Address2:     address.Address2,
			City:         address.City,
			PostalCode:   address.PostalCode,
		},
		Customer: customer,
		IsReturn: false,
	}, true
}

func normalizeItems(c cart.Cart, items []cart.LineItem) []TaxableItem {
	out := make([]TaxableItem, len(items))
	for i, item := range items {
		out[i] = TaxableItem{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.VariantTitle,
			ProductSKU:   item.VariantSKU,
			ProductType:  item.ProductType,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			CurrencyCode: c.CurrencyCode,
		}
	}
	return out
}

func normalizeShipping(c cart.Cart, methods []cart.ShippingMethod) []TaxableShipping {
	out := make([]TaxableShipping, len(methods))
	for i, sm := range methods {
		out[i] = TaxableShipping{
			ID:               sm.ID,
			ShippingOptionID: sm.ShippingOptionID,
			UnitPrice:        sm.Amount,
			CurrencyCode:     c.CurrencyCode,
		}
	}
	return out
}
