package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShippingAdd(t *testing.T) {
	h := mustHandlers(t, ActionShippingAdd)
	o := testOrder()

	a := ChangeAction{
		ReferenceID: "sm_1",
		Action:      ActionShippingAdd,
		Details: ActionDetails{
			Title:       "Express",
			ReferenceID: "so_express",
			Amount:      dec("7.50"),
			HasAmount:   true,
		},
	}

	require.NoError(t, h.Validate(a, o))
	delta := h.Operate(a, o)

	assert.True(t, delta.Equal(dec("7.50")))
	require.Len(t, o.ShippingMethods, 1)
	assert.Equal(t, "sm_1", o.ShippingMethods[0].ID)
	assert.Equal(t, "Express", o.ShippingMethods[0].Name)
	assert.Equal(t, "so_express", o.ShippingMethods[0].ShippingOptionID)
	assert.True(t, o.ShippingMethods[0].Amount.Equal(dec("7.50")))
}

func TestShippingAddPrefersActionAmount(t *testing.T) {
	h := mustHandlers(t, ActionShippingAdd)
	o := testOrder()

	a := ChangeAction{
		ReferenceID: "sm_1",
		Action:      ActionShippingAdd,
		Amount:      dec("5.00"),
		HasAmount:   true,
		Details:     ActionDetails{Amount: dec("9.00"), HasAmount: true},
	}

	delta := h.Operate(a, o)
	assert.True(t, delta.Equal(dec("5.00")), "precomputed action amount wins over details")
}

func TestShippingAddValidation(t *testing.T) {
	h := mustHandlers(t, ActionShippingAdd)
	o := testOrder()
	o.ShippingMethods = append(o.ShippingMethods, &ShippingMethod{ID: "sm_dup", Amount: dec("3.00")})

	err := h.Validate(ChangeAction{Details: ActionDetails{Amount: dec("1"), HasAmount: true}}, o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference id is required")

	err = h.Validate(ChangeAction{ReferenceID: "sm_1"}, o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount of shipping method sm_1 is required")

	err = h.Validate(ChangeAction{ReferenceID: "sm_dup", Details: ActionDetails{Amount: dec("1"), HasAmount: true}}, o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestShippingAddRevert(t *testing.T) {
	h := mustHandlers(t, ActionShippingAdd)
	o := testOrder()

	a := ChangeAction{
		ReferenceID: "sm_1",
		Action:      ActionShippingAdd,
		Details:     ActionDetails{Amount: dec("7.50"), HasAmount: true},
	}

	h.Operate(a, o)
	require.Len(t, o.ShippingMethods, 1)

	h.Revert(a, o)
	assert.Empty(t, o.ShippingMethods)
}

func TestShippingRemove(t *testing.T) {
	h := mustHandlers(t, ActionShippingRemove)
	o := testOrder()
	o.ShippingMethods = append(o.ShippingMethods, &ShippingMethod{
		ID:     "sm_1",
		Name:   "Express",
		Amount: dec("7.50"),
	})

	a := ChangeAction{
		ReferenceID: "sm_1",
		Action:      ActionShippingRemove,
		Details:     ActionDetails{Title: "Express", Amount: dec("7.50"), HasAmount: true},
	}

	require.NoError(t, h.Validate(a, o))
	delta := h.Operate(a, o)

	assert.True(t, delta.Equal(dec("-7.50")))
	assert.Empty(t, o.ShippingMethods)

	h.Revert(a, o)
	require.Len(t, o.ShippingMethods, 1)
	assert.Equal(t, "sm_1", o.ShippingMethods[0].ID)
	assert.True(t, o.ShippingMethods[0].Amount.Equal(dec("7.50")))
}

func TestShippingRemoveValidation(t *testing.T) {
	h := mustHandlers(t, ActionShippingRemove)
	o := testOrder()
	o.ShippingMethods = append(o.ShippingMethods, &ShippingMethod{ID: "sm_1", Amount: dec("7.50")})

	// The amount must travel on the action so revert can restore the method.
	err := h.Validate(ChangeAction{ReferenceID: "sm_1"}, o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount of shipping method sm_1 is required")

	err = h.Validate(ChangeAction{ReferenceID: "sm_missing", Amount: dec("1"), HasAmount: true}, o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
