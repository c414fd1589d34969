package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectivePrice(t *testing.T) {
	p := &Product{Price: 100}
	assert.Equal(t, 100.0, p.EffectivePrice())

	sale := 80.0
	p.SalePrice = &sale
	assert.Equal(t, 80.0, p.EffectivePrice())
}

func TestProductSalePriceValidation(t *testing.T) {
	sale := 120.0
	p := &Product{SKU: "SKU-1", Price: 100, SalePrice: &sale}
	err := p.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSalePriceAboveList)

	sale = 80.0
	assert.NoError(t, p.Validate())

	p.SalePrice = nil
	assert.NoError(t, p.Validate())
}

func TestReviewRatingBounds(t *testing.T) {
	for _, rating := range []int{1, 3, 5} {
		r := &ProductReview{Rating: rating}
		assert.NoError(t, r.Validate())
	}
	for _, rating := range []int{0, -1, 6} {
		r := &ProductReview{Rating: rating}
		assert.ErrorIs(t, r.Validate(), ErrRatingOutOfRange)
	}
}

func TestInventoryReservedBounds(t *testing.T) {
	inv := &ProductInventory{WarehouseCode: "WH-001", Quantity: 10, ReservedQuantity: 4, AvailableQuantity: 6}
	assert.NoError(t, inv.Validate())

	inv.ReservedQuantity = 11
	assert.ErrorIs(t, inv.Validate(), ErrReservedOverStock)

	inv.ReservedQuantity = 4
	inv.AvailableQuantity = 8
	assert.ErrorIs(t, inv.Validate(), ErrReservedOverStock)
}

func TestOrderRecalculate(t *testing.T) {
	o := &Order{OrderNumber: "ORD-1", SubTotal: 100, TaxAmount: 8, ShippingCost: 5}
	require.Error(t, o.Validate())

	o.Recalculate()
	assert.Equal(t, 113.0, o.Total)
	assert.NoError(t, o.Validate())
}

func TestOrderItemValidation(t *testing.T) {
	it := &OrderItem{ProductName: "widget", Quantity: 3, UnitPrice: 9.5}
	it.Recalculate()
	assert.Equal(t, 28.5, it.TotalPrice)
	assert.NoError(t, it.Validate())

	it.Quantity = 0
	assert.ErrorIs(t, it.Validate(), ErrZeroQuantity)

	it.Quantity = 2
	it.TotalPrice = 1
	assert.ErrorIs(t, it.Validate(), ErrItemTotalMismatch)
}

func TestOrderStatusFlowOrdering(t *testing.T) {
	require.Equal(t, []OrderStatus{
		OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered,
	}, OrderStatusFlow)
}
