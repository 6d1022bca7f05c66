package magento

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProduct(t *testing.T) {
	body := []byte(`{
		"sku": "WJ12-M-Blue",
		"product_id": "144",
		"qty": 2,
		"price_excl_tax": 29.0,
		"selected_options": [
			{"code": "color", "label": "Color", "value": "Blue"},
			{"label": "Größe", "value": "M"}
		]
	}`)

	item, err := ParseProduct(body)
	require.NoError(t, err)

	assert.Equal(t, "WJ12-M-Blue", item.SKU)
	assert.Equal(t, "144", item.ProductID)
	assert.InDelta(t, 58.0, item.RowTotal, 0.0001)
	require.Len(t, item.Attributes, 2)
	assert.Equal(t, "color", item.Attributes[0].Key)
	// Falls back to the label when no attribute code is present.
	assert.Equal(t, "Größe", item.Attributes[1].Key)
}

func TestParseProductRequiresIdentity(t *testing.T) {
	_, err := ParseProduct([]byte(`{"qty": 1}`))
	assert.Error(t, err)
}

func TestParseOrder(t *testing.T) {
	body := []byte(`{
		"increment_id": "000000101",
		"order_currency_code": "USD",
		"items": [
			{
				"sku": "WJ12-M-Blue",
				"product_id": "144",
				"qty_ordered": 1,
				"row_total": 29.0,
				"attributes_info": [
					{"label": "Color", "value": "Blue"},
					{"label": "Size", "value": "M"}
				]
			},
			{"sku": "WS07", "qty_ordered": 2, "row_total": 40.0}
		]
	}`)

	order, err := ParseOrder(body)
	require.NoError(t, err)

	assert.Equal(t, "000000101", order.OrderID())
	assert.Equal(t, "USD", order.Currency())

	items := order.Items()
	require.Len(t, items, 2)
	require.Len(t, items[0].Attributes, 2)
	assert.Equal(t, "Color", items[0].Attributes[0].Key)
	assert.Equal(t, 2.0, items[1].Quantity)
}

func TestParseOrderRequiresIncrementID(t *testing.T) {
	_, err := ParseOrder([]byte(`{"items": []}`))
	assert.Error(t, err)
}

func TestParseCart(t *testing.T) {
	body := []byte(`{
		"items": [
			{"sku": "WJ12-M-Blue", "qty_ordered": 2, "row_total": 58.0},
			{"product_id": "99", "qty_ordered": 1, "row_total": 15.0}
		]
	}`)

	cart, err := ParseCart(body)
	require.NoError(t, err)

	// A quote has no increment id yet.
	assert.Equal(t, "", cart.OrderID())

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "WJ12-M-Blue", items[0].SKU)
	assert.InDelta(t, 58.0, items[0].RowTotal, 0.0001)
	assert.Equal(t, "99", items[1].ProductID)
}

func TestParseCartRequiresItems(t *testing.T) {
	_, err := ParseCart([]byte(`{"items": []}`))
	assert.Error(t, err)
}
