// Package tax resolves tax lines for cart items and shipping methods
// through an external tax-calculation collaborator.
package tax

import (
	"context"

	"github.com/shopspring/decimal"
)

// Address narrows a cart address to the fields tax calculation needs.
type Address struct {
	CountryCode  string
	ProvinceCode string
	Address1     string
	Address2     string
	City         string
	PostalCode   string
}

// Customer identifies the buyer for customer-group based tax rules.
type Customer struct {
	ID             string
	Email          string
	CustomerGroups []string
}

// CalculationContext is the read-only value object built once per cart per
// tax request. It is never persisted.
type CalculationContext struct {
	Address  Address
	Customer *Customer
	IsReturn bool
}

// TaxableItem is the flat item shape sent to the collaborator.
type TaxableItem struct {
	ID           string
	ProductID    string
	ProductName  string
	ProductSKU   string
	ProductType  string
	Quantity     int
	UnitPrice    decimal.Decimal
	CurrencyCode string
}

// TaxableShipping is the flat shipping shape sent to the collaborator.
type TaxableShipping struct {
	ID               string
	ShippingOptionID string
	UnitPrice        decimal.Decimal
	CurrencyCode     string
}

// ItemTaxLine is one tax line attached to a line item.
type ItemTaxLine struct {
	LineItemID string
	Code       string
	Name       string
	Rate       decimal.Decimal
	ProviderID string
}

// ShippingTaxLine is one tax line attached to a shipping method.
type ShippingTaxLine struct {
	ShippingMethodID string
	Code             string
	Name             string
	Rate             decimal.Decimal
	ProviderID       string
}

// Provider is the external tax-calculation collaborator. Failures are
// propagated to the caller unchanged; the resolver defines no error
// contract beyond that.
type Provider interface {
	GetItemTaxLines(ctx context.Context, items []TaxableItem, tc CalculationContext) ([]ItemTaxLine, error)
	GetShippingTaxLines(ctx context.Context, shipping []TaxableShipping, tc CalculationContext) ([]ShippingTaxLine, error)
}
