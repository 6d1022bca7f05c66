// Package woocommerce adapts WooCommerce REST webhook payloads to the
// tracking item source.
package woocommerce

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"sealtrack/internal/tracking"
)

const Platform = "woocommerce"

// ProductPayload is the body of product-view and add-to-cart hooks.
// Prices are strings, as WooCommerce serializes them.
type ProductPayload struct {
	ID         int64       `json:"id"`
	SKU        string      `json:"sku"`
	Price      string      `json:"price"`
	Quantity   float64     `json:"quantity"`
	Attributes []Attribute `json:"attributes"`
}

type Attribute struct {
	Name   string `json:"name"`
	Option string `json:"option"`
}

// OrderPayload is the order webhook body. Line subtotals exclude tax.
type OrderPayload struct {
	ID        int64      `json:"id"`
	Currency  string     `json:"currency"`
	LineItems []LineItem `json:"line_items"`
}

type LineItem struct {
	ProductID int64      `json:"product_id"`
	SKU       string     `json:"sku"`
	Quantity  float64    `json:"quantity"`
	Subtotal  string     `json:"subtotal"`
	MetaData  []MetaData `json:"meta_data"`
}

type MetaData struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ParseProduct decodes a product hook body into a line item. The amount
// already reflects quantity.
func ParseProduct(body []byte) (tracking.Item, error) {
	var payload ProductPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return tracking.Item{}, fmt.Errorf("woocommerce: invalid product payload: %w", err)
	}
	if payload.ID == 0 && payload.SKU == "" {
		return tracking.Item{}, fmt.Errorf("woocommerce: product payload without id or sku")
	}

	price, err := parsePrice(payload.Price)
	if err != nil {
		return tracking.Item{}, err
	}
	qty := payload.Quantity
	if qty <= 0 {
		qty = 1
	}

	item := tracking.Item{
		SKU:       payload.SKU,
		ProductID: strconv.FormatInt(payload.ID, 10),
		Quantity:  qty,
		RowTotal:  price * qty,
	}
	for _, attr := range payload.Attributes {
		item.Attributes = append(item.Attributes, tracking.AttributePair{
			Key:   attr.Name,
			Value: attr.Option,
		})
	}
	return item, nil
}

// Order implements tracking.ItemSource over an order webhook.
type Order struct {
	payload OrderPayload
}

// ParseOrder decodes an order webhook body.
func ParseOrder(body []byte) (*Order, error) {
	var payload OrderPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("woocommerce: invalid order payload: %w", err)
	}
	if payload.ID == 0 {
		return nil, fmt.Errorf("woocommerce: order payload without id")
	}
	return &Order{payload: payload}, nil
}

// ParseCart decodes a checkout-time cart body. It shares the order
// shape but has no order ID yet.
func ParseCart(body []byte) (*Order, error) {
	var payload OrderPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("woocommerce: invalid cart payload: %w", err)
	}
	if len(payload.LineItems) == 0 {
		return nil, fmt.Errorf("woocommerce: cart payload without line items")
	}
	return &Order{payload: payload}, nil
}

func (o *Order) OrderID() string {
	if o.payload.ID == 0 {
		return ""
	}
	return strconv.FormatInt(o.payload.ID, 10)
}

func (o *Order) Currency() string {
	return o.payload.Currency
}

// Items returns line items in the order WooCommerce listed them. Only
// pa_/attribute_ meta entries are treated as attribute selections.
func (o *Order) Items() []tracking.Item {
	items := make([]tracking.Item, 0, len(o.payload.LineItems))
	for _, line := range o.payload.LineItems {
		subtotal, err := parsePrice(line.Subtotal)
		if err != nil {
			subtotal = 0
		}
		item := tracking.Item{
			SKU:       line.SKU,
			ProductID: strconv.FormatInt(line.ProductID, 10),
			Quantity:  line.Quantity,
			RowTotal:  subtotal,
		}
		for _, meta := range line.MetaData {
			if strings.HasPrefix(meta.Key, "pa_") || strings.HasPrefix(meta.Key, "attribute_") {
				item.Attributes = append(item.Attributes, tracking.AttributePair{
					Key:   meta.Key,
					Value: meta.Value,
				})
			}
		}
		items = append(items, item)
	}
	return items
}

func parsePrice(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("woocommerce: invalid price format: %w", err)
	}
	return price, nil
}
