// Package prestashop adapts PrestaShop hook payloads to the tracking
// item source.
package prestashop

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"sealtrack/internal/tracking"
)

const Platform = "prestashop"

// ProductPayload carries a product page or add-to-cart hook. Reference
// is PrestaShop's SKU; a combination reference overrides it when a
// variant is selected. Prices exclude tax.
type ProductPayload struct {
	ID                   int64             `json:"id_product"`
	Reference            string            `json:"reference"`
	CombinationReference string            `json:"reference_attribute"`
	PriceTaxExcl         float64           `json:"price_tax_excl"`
	Quantity             float64           `json:"quantity"`
	Attributes           map[string]string `json:"attributes"`
	AttributeOrder       []string          `json:"attribute_order"`
}

// CartPayload is the checkout hook body.
type CartPayload struct {
	Products []CartProduct `json:"products"`
}

type CartProduct struct {
	ID                   int64             `json:"id_product"`
	Reference            string            `json:"reference"`
	CombinationReference string            `json:"reference_attribute"`
	Quantity             float64           `json:"cart_quantity"`
	TotalTaxExcl         float64           `json:"total_wt_excl"`
	Attributes           map[string]string `json:"attributes"`
	AttributeOrder       []string          `json:"attribute_order"`
}

// OrderPayload is the order confirmation hook body.
type OrderPayload struct {
	ID           int64         `json:"id_order"`
	CurrencyISO  string        `json:"currency_iso"`
	Products     []CartProduct `json:"products"`
	TotalTaxExcl float64       `json:"total_paid_tax_excl"`
}

func ParseProduct(body []byte) (tracking.Item, error) {
	var payload ProductPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return tracking.Item{}, fmt.Errorf("prestashop: invalid product payload: %w", err)
	}
	if payload.ID == 0 {
		return tracking.Item{}, fmt.Errorf("prestashop: product payload without id_product")
	}

	qty := payload.Quantity
	if qty <= 0 {
		qty = 1
	}
	item := tracking.Item{
		SKU:        sku(payload.Reference, payload.CombinationReference),
		ProductID:  strconv.FormatInt(payload.ID, 10),
		Quantity:   qty,
		RowTotal:   payload.PriceTaxExcl * qty,
		Attributes: orderedAttributes(payload.Attributes, payload.AttributeOrder),
	}
	return item, nil
}

// Cart implements tracking.ItemSource for both checkout carts and
// confirmed orders; only the latter has an order ID and currency.
type Cart struct {
	orderID  string
	currency string
	products []CartProduct
}

func ParseCart(body []byte) (*Cart, error) {
	var payload CartPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("prestashop: invalid cart payload: %w", err)
	}
	if len(payload.Products) == 0 {
		return nil, fmt.Errorf("prestashop: cart payload without products")
	}
	return &Cart{products: payload.Products}, nil
}

func ParseOrder(body []byte) (*Cart, error) {
	var payload OrderPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("prestashop: invalid order payload: %w", err)
	}
	if payload.ID == 0 {
		return nil, fmt.Errorf("prestashop: order payload without id_order")
	}
	return &Cart{
		orderID:  strconv.FormatInt(payload.ID, 10),
		currency: payload.CurrencyISO,
		products: payload.Products,
	}, nil
}

func (c *Cart) OrderID() string {
	return c.orderID
}

func (c *Cart) Currency() string {
	return c.currency
}

func (c *Cart) Items() []tracking.Item {
	items := make([]tracking.Item, 0, len(c.products))
	for _, p := range c.products {
		items = append(items, tracking.Item{
			SKU:        sku(p.Reference, p.CombinationReference),
			ProductID:  strconv.FormatInt(p.ID, 10),
			Quantity:   p.Quantity,
			RowTotal:   p.TotalTaxExcl,
			Attributes: orderedAttributes(p.Attributes, p.AttributeOrder),
		})
	}
	return items
}

func sku(reference, combinationReference string) string {
	if combinationReference != "" {
		return combinationReference
	}
	return reference
}

// orderedAttributes turns the attribute map into pairs, following the
// explicit ordering when the payload provides one so the emitted
// property order is stable.
func orderedAttributes(attrs map[string]string, order []string) []tracking.AttributePair {
	if len(attrs) == 0 {
		return nil
	}
	pairs := make([]tracking.AttributePair, 0, len(attrs))
	seen := make(map[string]bool, len(attrs))
	for _, key := range order {
		if value, ok := attrs[key]; ok && !seen[key] {
			pairs = append(pairs, tracking.AttributePair{Key: key, Value: value})
			seen[key] = true
		}
	}
	// Anything not covered by the explicit order, sorted for determinism.
	rest := make([]string, 0, len(attrs))
	for key := range attrs {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		pairs = append(pairs, tracking.AttributePair{Key: key, Value: attrs[key]})
	}
	return pairs
}
