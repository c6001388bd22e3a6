// Package cart holds the cart aggregate consumed by tax resolution. Carts
// are not persisted here; the order module owns persisted state.
package cart

import "github.com/shopspring/decimal"

// Address is a shipping or billing address.
type Address struct {
	Address1    string
	Address2    string
	City        string
	CountryCode string
	Province    string
	PostalCode  string
}

// CustomerGroup is a named group a customer belongs to.
type CustomerGroup struct {
	ID   string
	Name string
}

// Customer identifies the cart owner.
type Customer struct {
	ID     string
	Email  string
	Groups []CustomerGroup
}

// LineItem is a purchasable line in a cart.
type LineItem struct {
	ID           string
	ProductID    string
	VariantTitle string
	VariantSKU   string
	ProductType  string
	Quantity     int
	UnitPrice    decimal.Decimal
}

// ShippingMethod is a shipping method selected on a cart.
type ShippingMethod struct {
	ID               string
	ShippingOptionID string
	Amount           decimal.Decimal
}

// Cart is the cart aggregate.
type Cart struct {
	ID              string
	CurrencyCode    string
	ShippingAddress *Address
	Customer        *Customer
	Items           []LineItem
	ShippingMethods []ShippingMethod
}
