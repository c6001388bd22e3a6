package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shippedItem is a line with qty shipped, ready to enter the return flow.
func shippedItem(id, price string, qty int) *LineItem {
	item := testItem(id, price, qty)
	item.Detail.FulfilledQuantity = qty
	item.Detail.ShippedQuantity = qty
	return item
}

func TestReturnItemRequest(t *testing.T) {
	h := mustHandlers(t, ActionReturnItem)
	o := testOrder(shippedItem("item_1", "10.00", 5))

	a := lifecycleAction(ActionReturnItem, "item_1", 3)
	require.NoError(t, h.Validate(a, o))

	delta := h.Operate(a, o)
	assert.True(t, delta.IsZero(), "requesting a return moves no money")
	assert.Equal(t, 3, o.Items[0].Detail.ReturnRequestedQuantity)

	h.Revert(a, o)
	assert.Equal(t, 0, o.Items[0].Detail.ReturnRequestedQuantity)
}

func TestReturnItemBoundCountsPriorReturns(t *testing.T) {
	h := mustHandlers(t, ActionReturnItem)
	item := shippedItem("item_1", "10.00", 5)
	item.Detail.ReturnRequestedQuantity = 1
	item.Detail.ReturnReceivedQuantity = 1
	item.Detail.ReturnDismissedQuantity = 1
	o := testOrder(item)

	// 5 shipped minus 3 already in the return flow leaves 2 returnable.
	err := h.Validate(lifecycleAction(ActionReturnItem, "item_1", 3), o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot request a return for more items than what was shipped")

	assert.NoError(t, h.Validate(lifecycleAction(ActionReturnItem, "item_1", 2), o))
}

func TestReceiveReturnItemRefunds(t *testing.T) {
	h := mustHandlers(t, ActionReceiveReturnItem)
	item := shippedItem("item_1", "10.00", 5)
	item.Detail.ReturnRequestedQuantity = 3
	o := testOrder(item)

	a := lifecycleAction(ActionReceiveReturnItem, "item_1", 2)
	require.NoError(t, h.Validate(a, o))

	delta := h.Operate(a, o)
	assert.True(t, delta.Equal(dec("-20.00")), "receiving refunds price * received quantity")
	assert.Equal(t, 1, o.Items[0].Detail.ReturnRequestedQuantity)
	assert.Equal(t, 2, o.Items[0].Detail.ReturnReceivedQuantity)

	h.Revert(a, o)
	assert.Equal(t, 3, o.Items[0].Detail.ReturnRequestedQuantity)
	assert.Equal(t, 0, o.Items[0].Detail.ReturnReceivedQuantity)
}

func TestReceiveDamagedReturnItemNoRefund(t *testing.T) {
	h := mustHandlers(t, ActionReceiveDamagedReturnItem)
	item := shippedItem("item_1", "10.00", 5)
	item.Detail.ReturnRequestedQuantity = 3
	o := testOrder(item)

	a := lifecycleAction(ActionReceiveDamagedReturnItem, "item_1", 2)
	require.NoError(t, h.Validate(a, o))

	delta := h.Operate(a, o)
	assert.True(t, delta.IsZero(), "damaged goods are dismissed without refund")
	assert.Equal(t, 1, o.Items[0].Detail.ReturnRequestedQuantity)
	assert.Equal(t, 2, o.Items[0].Detail.ReturnDismissedQuantity)

	h.Revert(a, o)
	assert.Equal(t, 3, o.Items[0].Detail.ReturnRequestedQuantity)
	assert.Equal(t, 0, o.Items[0].Detail.ReturnDismissedQuantity)
}

func TestCancelReturn(t *testing.T) {
	h := mustHandlers(t, ActionCancelReturn)
	item := shippedItem("item_1", "10.00", 5)
	item.Detail.ReturnRequestedQuantity = 3
	o := testOrder(item)

	a := lifecycleAction(ActionCancelReturn, "item_1", 3)
	require.NoError(t, h.Validate(a, o))

	delta := h.Operate(a, o)
	assert.True(t, delta.IsZero())
	assert.Equal(t, 0, o.Items[0].Detail.ReturnRequestedQuantity)

	h.Revert(a, o)
	assert.Equal(t, 3, o.Items[0].Detail.ReturnRequestedQuantity)
}

func TestReturnResolutionBound(t *testing.T) {
	item := shippedItem("item_1", "10.00", 5)
	item.Detail.ReturnRequestedQuantity = 2
	o := testOrder(item)

	for _, typ := range []ActionType{
		ActionReceiveReturnItem,
		ActionReceiveDamagedReturnItem,
		ActionCancelReturn,
	} {
		h := mustHandlers(t, typ)
		err := h.Validate(lifecycleAction(typ, "item_1", 3), o)
		require.Error(t, err, "%s must not resolve more than requested", typ)
		assert.Contains(t, err.Error(), "cannot resolve more items than what was requested")
	}
}

func TestWriteOffItem(t *testing.T) {
	h := mustHandlers(t, ActionWriteOffItem)
	o := testOrder(shippedItem("item_1", "10.00", 5))

	a := lifecycleAction(ActionWriteOffItem, "item_1", 2)
	require.NoError(t, h.Validate(a, o))

	delta := h.Operate(a, o)
	assert.True(t, delta.Equal(dec("-20.00")), "write-off refunds without expecting goods back")
	assert.Equal(t, 2, o.Items[0].Detail.WrittenOffQuantity)

	h.Revert(a, o)
	assert.Equal(t, 0, o.Items[0].Detail.WrittenOffQuantity)
}

func TestWriteOffItemBound(t *testing.T) {
	h := mustHandlers(t, ActionWriteOffItem)
	item := testItem("item_1", "10.00", 5)
	item.Detail.WrittenOffQuantity = 4
	o := testOrder(item)

	err := h.Validate(lifecycleAction(ActionWriteOffItem, "item_1", 2), o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot write off more items than what was ordered")

	assert.NoError(t, h.Validate(lifecycleAction(ActionWriteOffItem, "item_1", 1), o))
}
