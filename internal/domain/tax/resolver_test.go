package tax

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyxhq/calyx/internal/domain/cart"
)

// stubProvider records the shapes it was called with and returns canned
// lines or errors.
type stubProvider struct {
	itemCalls     atomic.Int32
	shippingCalls atomic.Int32

	gotItems    []TaxableItem
	gotShipping []TaxableShipping
	gotContext  CalculationContext

	itemLines     []ItemTaxLine
	shippingLines []ShippingTaxLine
	itemErr       error
	shippingErr   error
}

func (s *stubProvider) GetItemTaxLines(_ context.Context, items []TaxableItem, tc CalculationContext) ([]ItemTaxLine, error) {
	s.itemCalls.Add(1)
	s.gotItems = items
	s.gotContext = tc
	return s.itemLines, s.itemErr
}

func (s *stubProvider) GetShippingTaxLines(_ context.Context, shipping []TaxableShipping, _ CalculationContext) ([]ShippingTaxLine, error) {
	s.shippingCalls.Add(1)
	s.gotShipping = shipping
	return s.shippingLines, s.shippingErr
}

func taxableCart() cart.Cart {
	return cart.Cart{
		ID:           "cart_1",
		CurrencyCode: "eur",
		ShippingAddress: &cart.Address{
			Address1:    "Keizersgracht 123",
			City:        "Amsterdam",
			CountryCode: "nl",
			Province:    "nh",
			PostalCode:  "1015 CJ",
		},
		Customer: &cart.Customer{
			ID:    "cus_1",
			Email: "jo@example.com",
			Groups: []cart.CustomerGroup{
				{ID: "cg_vip", Name: "VIP"},
			},
		},
	}
}

func TestGetItemTaxLines(t *testing.T) {
	rate := decimal.NewFromInt(21)
	p := &stubProvider{
		itemLines:     []ItemTaxLine{{LineItemID: "li_1", Code: "vat", Rate: rate}},
		shippingLines: []ShippingTaxLine{{ShippingMethodID: "sm_1", Code: "vat", Rate: rate}},
	}
	r := NewResolver(p)

	items := []cart.LineItem{{
		ID:           "li_1",
		ProductID:    "prod_1",
		VariantTitle: "Blue Tee / M",
		VariantSKU:   "TEE-M-BLUE",
		ProductType:  "apparel",
		Quantity:     2,
		UnitPrice:    decimal.NewFromInt(20),
	}}
	methods := []cart.ShippingMethod{{
		ID:               "sm_1",
		ShippingOptionID: "so_express",
		Amount:           decimal.NewFromInt(7),
	}}

	lines, err := r.GetItemTaxLines(context.Background(), taxableCart(), items, methods)
	require.NoError(t, err)

	assert.Equal(t, p.itemLines, lines.LineItems)
	assert.Equal(t, p.shippingLines, lines.ShippingMethods)
	assert.Equal(t, int32(1), p.itemCalls.Load())
	assert.Equal(t, int32(1), p.shippingCalls.Load())
}

func TestGetItemTaxLinesNoCountryShortCircuits(t *testing.T) {
	p := &stubProvider{}
	r := NewResolver(p)

	tests := []struct {
		name string
		c    cart.Cart
	}{
		{name: "no shipping address", c: cart.Cart{ID: "cart_1"}},
		{
			name: "address without country code",
			c:    cart.Cart{ID: "cart_1", ShippingAddress: &cart.Address{City: "Amsterdam"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := r.GetItemTaxLines(context.Background(), tt.c,
				[]cart.LineItem{{ID: "li_1"}}, []cart.ShippingMethod{{ID: "sm_1"}})
			require.NoError(t, err)

			// Empty but non-nil: callers iterate without nil checks.
			assert.NotNil(t, lines.LineItems)
			assert.Empty(t, lines.LineItems)
			assert.NotNil(t, lines.ShippingMethods)
			assert.Empty(t, lines.ShippingMethods)
			assert.Equal(t, int32(0), p.itemCalls.Load(), "provider must not be called")
			assert.Equal(t, int32(0), p.shippingCalls.Load())
		})
	}
}

func TestGetItemTaxLinesNormalization(t *testing.T) {
	p := &stubProvider{}
	r := NewResolver(p)

	c := taxableCart()
	items := []cart.LineItem{{
		ID:           "li_1",
		ProductID:    "prod_1",
		VariantTitle: "Blue Tee / M",
		VariantSKU:   "TEE-M-BLUE",
		ProductType:  "apparel",
		Quantity:     2,
		UnitPrice:    decimal.NewFromInt(20),
	}}
	methods := []cart.ShippingMethod{{
		ID:               "sm_1",
		ShippingOptionID: "so_express",
		Amount:           decimal.NewFromInt(7),
	}}

	_, err := r.GetItemTaxLines(context.Background(), c, items, methods)
	require.NoError(t, err)

	require.Len(t, p.gotItems, 1)
	assert.Equal(t, TaxableItem{
		ID:           "li_1",
		ProductID:    "prod_1",
		ProductName:  "Blue Tee / M",
		ProductSKU:   "TEE-M-BLUE",
		ProductType:  "apparel",
		Quantity:     2,
		UnitPrice:    decimal.NewFromInt(20),
		CurrencyCode: "eur",
	}, p.gotItems[0])

	require.Len(t, p.gotShipping, 1)
	assert.Equal(t, TaxableShipping{
		ID:               "sm_1",
		ShippingOptionID: "so_express",
		UnitPrice:        decimal.NewFromInt(7),
		CurrencyCode:     "eur",
	}, p.gotShipping[0])

	tc := p.gotContext
	assert.Equal(t, "nl", tc.Address.CountryCode)
	assert.Equal(t, "nh", tc.Address.ProvinceCode)
	assert.Equal(t, "Amsterdam", tc.Address.City)
	assert.False(t, tc.IsReturn)
	require.NotNil(t, tc.Customer)
	assert.Equal(t, "cus_1", tc.Customer.ID)
	assert.Equal(t, []string{"cg_vip"}, tc.Customer.CustomerGroups)
}

func TestGetItemTaxLinesAnonymousCustomer(t *testing.T) {
	p := &stubProvider{}
	r := NewResolver(p)

	c := taxableCart()
	c.Customer = nil

	_, err := r.GetItemTaxLines(context.Background(), c, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, p.gotContext.Customer)
}

func TestGetItemTaxLinesProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		p    *stubProvider
		msg  string
	}{
		{
			name: "item call fails",
			p:    &stubProvider{itemErr: errors.New("upstream 503")},
			msg:  "item tax lines",
		},
		{
			name: "shipping call fails",
			p:    &stubProvider{shippingErr: errors.New("upstream 503")},
			msg:  "shipping tax lines",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.p)

			lines, err := r.GetItemTaxLines(context.Background(), taxableCart(), nil, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Contains(t, err.Error(), "upstream 503")
			assert.Empty(t, lines.LineItems)
			assert.Empty(t, lines.ShippingMethods)
		})
	}
}
