// Package magento adapts Magento 2 observer payloads to the tracking
// item source.
package magento

import (
	"encoding/json"
	"fmt"

	"sealtrack/internal/tracking"
)

const Platform = "magento"

// ProductPayload carries the add-to-cart observer data. Price excludes
// tax; the observer extracts tax before posting when the store price
// includes it.
type ProductPayload struct {
	SKU             string            `json:"sku"`
	ProductID       string            `json:"product_id"`
	Qty             float64           `json:"qty"`
	PriceExclTax    float64           `json:"price_excl_tax"`
	SelectedOptions []AttributeOption `json:"selected_options"`
}

type AttributeOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// OrderPayload carries the sales_order_place_after observer data. Items
// are the order's visible items in placement order.
type OrderPayload struct {
	IncrementID  string      `json:"increment_id"`
	CurrencyCode string      `json:"order_currency_code"`
	Items        []OrderItem `json:"items"`
}

type OrderItem struct {
	SKU            string          `json:"sku"`
	ProductID      string          `json:"product_id"`
	QtyOrdered     float64         `json:"qty_ordered"`
	RowTotal       float64         `json:"row_total"`
	AttributesInfo []AttributeInfo `json:"attributes_info"`
}

type AttributeInfo struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func ParseProduct(body []byte) (tracking.Item, error) {
	var payload ProductPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return tracking.Item{}, fmt.Errorf("magento: invalid product payload: %w", err)
	}
	if payload.SKU == "" && payload.ProductID == "" {
		return tracking.Item{}, fmt.Errorf("magento: product payload without sku or product_id")
	}

	qty := payload.Qty
	if qty <= 0 {
		qty = 1
	}
	item := tracking.Item{
		SKU:       payload.SKU,
		ProductID: payload.ProductID,
		Quantity:  qty,
		RowTotal:  payload.PriceExclTax * qty,
	}
	for _, opt := range payload.SelectedOptions {
		key := opt.Code
		if key == "" {
			key = opt.Label
		}
		item.Attributes = append(item.Attributes, tracking.AttributePair{
			Key:   key,
			Value: opt.Value,
		})
	}
	return item, nil
}

// Order implements tracking.ItemSource over a placed order.
type Order struct {
	payload OrderPayload
}

func ParseOrder(body []byte) (*Order, error) {
	var payload OrderPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("magento: invalid order payload: %w", err)
	}
	if payload.IncrementID == "" {
		return nil, fmt.Errorf("magento: order payload without increment_id")
	}
	return &Order{payload: payload}, nil
}

// ParseCart decodes a checkout-time quote body. It shares the order
// shape but has no increment id yet.
func ParseCart(body []byte) (*Order, error) {
	var payload OrderPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("magento: invalid cart payload: %w", err)
	}
	if len(payload.Items) == 0 {
		return nil, fmt.Errorf("magento: cart payload without items")
	}
	return &Order{payload: payload}, nil
}

func (o *Order) OrderID() string {
	return o.payload.IncrementID
}

func (o *Order) Currency() string {
	return o.payload.CurrencyCode
}

func (o *Order) Items() []tracking.Item {
	items := make([]tracking.Item, 0, len(o.payload.Items))
	for _, line := range o.payload.Items {
		item := tracking.Item{
			SKU:       line.SKU,
			ProductID: line.ProductID,
			Quantity:  line.QtyOrdered,
			RowTotal:  line.RowTotal,
		}
		for _, attr := range line.AttributesInfo {
			item.Attributes = append(item.Attributes, tracking.AttributePair{
				Key:   attr.Label,
				Value: attr.Value,
			})
		}
		items = append(items, item)
	}
	return items
}
