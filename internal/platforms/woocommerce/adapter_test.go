package woocommerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProduct(t *testing.T) {
	body := []byte(`{
		"id": 42,
		"sku": "SHIRT-1",
		"price": "19.99",
		"quantity": 2,
		"attributes": [
			{"name": "pa_color", "option": "Blue"},
			{"name": "pa_talla", "option": "M"}
		]
	}`)

	item, err := ParseProduct(body)
	require.NoError(t, err)

	assert.Equal(t, "SHIRT-1", item.SKU)
	assert.Equal(t, "42", item.ProductID)
	assert.Equal(t, 2.0, item.Quantity)
	assert.InDelta(t, 39.98, item.RowTotal, 0.0001)
	require.Len(t, item.Attributes, 2)
	assert.Equal(t, "pa_color", item.Attributes[0].Key)
	assert.Equal(t, "Blue", item.Attributes[0].Value)
}

func TestParseProductDefaultsQuantity(t *testing.T) {
	item, err := ParseProduct([]byte(`{"id": 7, "price": "5.00"}`))
	require.NoError(t, err)
	assert.Equal(t, 1.0, item.Quantity)
	assert.InDelta(t, 5.0, item.RowTotal, 0.0001)
}

func TestParseProductRejectsBadPayloads(t *testing.T) {
	_, err := ParseProduct([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseProduct([]byte(`{"price": "5.00"}`))
	assert.Error(t, err, "payload without id or sku")

	_, err = ParseProduct([]byte(`{"id": 7, "price": "free"}`))
	assert.Error(t, err)
}

func TestParseOrder(t *testing.T) {
	body := []byte(`{
		"id": 1001,
		"currency": "USD",
		"line_items": [
			{
				"product_id": 42,
				"sku": "A",
				"quantity": 2,
				"subtotal": "20.00",
				"meta_data": [
					{"key": "pa_color", "value": "Blue"},
					{"key": "_internal", "value": "skipme"}
				]
			},
			{"product_id": 43, "quantity": 1, "subtotal": "5.50"}
		]
	}`)

	order, err := ParseOrder(body)
	require.NoError(t, err)

	assert.Equal(t, "1001", order.OrderID())
	assert.Equal(t, "USD", order.Currency())

	items := order.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].SKU)
	require.Len(t, items[0].Attributes, 1, "non-attribute meta must be skipped")
	assert.Equal(t, "pa_color", items[0].Attributes[0].Key)

	// Missing SKU keeps the product id for the PROD- fallback.
	assert.Empty(t, items[1].SKU)
	assert.Equal(t, "43", items[1].ProductID)
	assert.InDelta(t, 5.5, items[1].RowTotal, 0.0001)
}

func TestParseCart(t *testing.T) {
	cart, err := ParseCart([]byte(`{"line_items": [{"sku": "A", "quantity": 1, "subtotal": "9.99"}]}`))
	require.NoError(t, err)
	assert.Empty(t, cart.OrderID())
	assert.Len(t, cart.Items(), 1)

	_, err = ParseCart([]byte(`{"line_items": []}`))
	assert.Error(t, err)
}
