package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyxhq/calyx/internal/domain/order"
)

func TestLineItemCodecKeepsLifecycleCounters(t *testing.T) {
	src := []*order.LineItem{
		{
			ID:        "item_1",
			Title:     "Keyboard",
			UnitPrice: decimal.RequireFromString("49.9900"),
			Quantity:  5,
			Detail: order.LineItemDetail{
				Quantity:                5,
				FulfilledQuantity:       4,
				ShippedQuantity:         3,
				ReturnRequestedQuantity: 1,
				ReturnReceivedQuantity:  1,
				ReturnDismissedQuantity: 1,
				WrittenOffQuantity:      2,
			},
		},
	}

	got, err := decodeLineItems(encodeLineItems(src))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, src[0].Detail, got[0].Detail)
	assert.True(t, got[0].UnitPrice.Equal(src[0].UnitPrice),
		"decimal precision survives the string round trip")
	assert.Equal(t, "49.99", got[0].UnitPrice.String())
}

func TestActionCodecOptionalAmounts(t *testing.T) {
	src := []order.ChangeAction{
		{
			ID:          "ordchact_1",
			ReferenceID: "item_1",
			Action:      order.ActionItemAdd,
			Details: order.ActionDetails{
				Quantity:     2,
				UnitPrice:    decimal.RequireFromString("12.50"),
				HasUnitPrice: true,
				Title:        "Keyboard",
			},
		},
		{
			ID:          "ordchact_2",
			ReferenceID: "sm_1",
			Action:      order.ActionShippingAdd,
			Amount:      decimal.RequireFromString("7.50"),
			HasAmount:   true,
			Details:     order.ActionDetails{Title: "Express"},
		},
		{
			ID:      "ordchact_3",
			Action:  order.ActionItemUpdate,
			Details: order.ActionDetails{ReferenceID: "item_1", QuantityDiff: -1},
		},
	}

	got, err := decodeActions(encodeActions(src))
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Absent optional fields must not set their presence flags on decode.
	assert.True(t, got[0].Details.HasUnitPrice)
	assert.False(t, got[0].HasAmount)
	assert.False(t, got[0].Details.HasAmount)

	assert.True(t, got[1].HasAmount)
	assert.True(t, got[1].Amount.Equal(decimal.RequireFromString("7.50")))
	assert.False(t, got[1].Details.HasUnitPrice)

	assert.Equal(t, -1, got[2].Details.QuantityDiff)
	assert.Equal(t, order.ActionItemUpdate, got[2].Action)
}

func TestActionCodecSkipsUnknownFields(t *testing.T) {
	data := []byte(`[{"id":"a1","action":"ITEM_ADD","legacy_field":{"x":1},"details":{"quantity":3,"unknown":true}}]`)

	got, err := decodeActions(data)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Details.Quantity)
}

func TestShippingMethodCodec(t *testing.T) {
	src := []*order.ShippingMethod{
		{
			ID:               "sm_1",
			Name:             "Express",
			ShippingOptionID: "so_express",
			Amount:           decimal.RequireFromString("7.5000"),
		},
	}

	got, err := decodeShippingMethods(encodeShippingMethods(src))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "so_express", got[0].ShippingOptionID)
	assert.True(t, got[0].Amount.Equal(src[0].Amount))
}
