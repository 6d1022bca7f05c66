package tracking

import (
	"fmt"
	"math"
	"strconv"
)

// AttributePair is a raw attribute as the platform reported it, before
// normalization.
type AttributePair struct {
	Key   string
	Value string
}

// Item is one line item as seen by the builder. RowTotal is the line
// subtotal excluding tax; adapters that only have a unit price multiply
// it out before handing the item over.
type Item struct {
	SKU        string
	ProductID  string
	Quantity   float64
	RowTotal   float64
	Attributes []AttributePair
}

// ItemSource is the narrow view of a platform cart or order that the
// builder needs. Items are returned in the order the platform listed
// them (line-item addition order); that order is preserved in the
// emitted SKU list.
type ItemSource interface {
	Items() []Item
	OrderID() string
	Currency() string
}

// Builder assembles canonical events from platform data. It never
// returns an error: callers short-circuit before invoking it when the
// upstream object is missing.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Pageview builds the once-per-page pageview event.
func (b *Builder) Pageview() Event {
	return Event{Kind: KindPageview}
}

// ProductView builds the product page microconversion. Attribute values
// stay scalar for single-item events.
func (b *Builder) ProductView(item Item) Event {
	return b.singleItem(LabelProductView, item, item.RowTotal)
}

// AddToCart builds the add-to-cart microconversion. RowTotal already
// reflects the quantity added (unit price times quantity, pre-tax).
func (b *Builder) AddToCart(item Item) Event {
	return b.singleItem(LabelAddToCart, item, item.RowTotal)
}

// CheckoutStep builds a checkout funnel microconversion (checkout1..3).
func (b *Builder) CheckoutStep(step int, src ItemSource) Event {
	items := src.Items()
	props := NewProperties()
	props.Set("sku", joinSKUs(items))
	props.Set("item_count", strconv.Itoa(itemCount(items)))
	props.Compact()

	amount := round2(sumRowTotals(items))
	return Event{
		Kind:       KindMicroconversion,
		Label:      fmt.Sprintf("checkout%d", step),
		Amount:     &amount,
		Properties: props,
	}
}

// Purchase builds the order conversion. Attribute values observed across
// line items are collected per normalized name as an ordered set, then
// flattened to a comma-joined string.
func (b *Builder) Purchase(src ItemSource) Event {
	items := src.Items()
	props := NewProperties()
	props.Set("sku", joinSKUs(items))
	props.Set("currency", src.Currency())
	props.Set("item_count", strconv.Itoa(itemCount(items)))
	collectAttributes(props, items)
	props.Compact()

	amount := round2(sumRowTotals(items))
	return Event{
		Kind:       KindConversion,
		Label:      LabelPurchase,
		Amount:     &amount,
		Properties: props,
	}
}

// Lead builds a form-submission conversion.
func (b *Builder) Lead(label, formName, pageType, pageSlug string) Event {
	props := NewProperties()
	props.Set("form_name", formName)
	props.Set("page_type", pageType)
	props.Set("page_slug", pageSlug)
	props.Compact()

	return Event{
		Kind:       KindConversion,
		Label:      label,
		Properties: props,
	}
}

func (b *Builder) singleItem(label string, item Item, amount float64) Event {
	props := NewProperties()
	props.Set("sku", skuOrFallback(item))
	for _, attr := range item.Attributes {
		props.Set(NormalizeAttribute(attr.Key), attr.Value)
	}
	props.Compact()

	rounded := round2(amount)
	return Event{
		Kind:       KindMicroconversion,
		Label:      label,
		Amount:     &rounded,
		Properties: props,
	}
}

// collectAttributes gathers normalized attribute values across items,
// de-duplicated per key in first-seen order, comma-joined.
func collectAttributes(props *Properties, items []Item) {
	seen := make(map[string]map[string]bool)
	for _, item := range items {
		for _, attr := range item.Attributes {
			key := NormalizeAttribute(attr.Key)
			if attr.Value == "" {
				continue
			}
			if seen[key] == nil {
				seen[key] = make(map[string]bool)
			}
			if seen[key][attr.Value] {
				continue
			}
			seen[key][attr.Value] = true
			if existing, ok := props.Get(key); ok && existing != "" {
				props.Set(key, existing+","+attr.Value)
			} else {
				props.Set(key, attr.Value)
			}
		}
	}
}

func joinSKUs(items []Item) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ","
		}
		out += skuOrFallback(item)
	}
	return out
}

func skuOrFallback(item Item) string {
	if item.SKU != "" {
		return item.SKU
	}
	if item.ProductID != "" {
		return "PROD-" + item.ProductID
	}
	return ""
}

func itemCount(items []Item) int {
	count := 0
	for _, item := range items {
		count += int(item.Quantity)
	}
	return count
}

func sumRowTotals(items []Item) float64 {
	total := 0.0
	for _, item := range items {
		total += item.RowTotal
	}
	return total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
