package tracking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type Kind string

const (
	KindPageview        Kind = "pageview"
	KindMicroconversion Kind = "microconversion"
	KindConversion      Kind = "conversion"
)

// Labels used by the platform integrations.
const (
	LabelProductView = "product_view"
	LabelAddToCart   = "add-to-cart"
	LabelPurchase    = "purchase"
)

// Event is the canonical tracking event sent to the collector.
type Event struct {
	Kind       Kind
	Label      string
	Amount     *float64
	Properties *Properties
}

// PendingConversion is a lead captured server-side (form submission)
// waiting for the next page render to pick it up.
type PendingConversion struct {
	FormName  string    `json:"form_name"`
	Timestamp time.Time `json:"timestamp"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"event":`)
	kind, err := json.Marshal(string(e.Kind))
	if err != nil {
		return nil, err
	}
	buf.Write(kind)
	if e.Label != "" {
		buf.WriteString(`,"label":`)
		label, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(label)
	}
	if e.Amount != nil {
		buf.WriteString(`,"amount":`)
		amount, err := json.Marshal(*e.Amount)
		if err != nil {
			return nil, err
		}
		buf.Write(amount)
	}
	if e.Properties != nil && e.Properties.Len() > 0 {
		buf.WriteString(`,"properties":`)
		props, err := e.Properties.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(props)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var raw struct {
		Event  string          `json:"event"`
		Label  string          `json:"label"`
		Amount *float64        `json:"amount"`
		Props  json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Kind = Kind(raw.Event)
	e.Label = raw.Label
	e.Amount = raw.Amount
	e.Properties = nil
	if len(raw.Props) > 0 && !bytes.Equal(raw.Props, []byte("null")) {
		props := NewProperties()
		if err := props.UnmarshalJSON(raw.Props); err != nil {
			return err
		}
		e.Properties = props
	}
	return nil
}

// Properties is a string-to-string map that preserves insertion order,
// which JSON objects and Go maps do not.
type Properties struct {
	keys   []string
	values map[string]string
}

func NewProperties() *Properties {
	return &Properties{values: make(map[string]string)}
}

// Set inserts or overwrites a key. The key keeps its original position
// when overwritten.
func (p *Properties) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

func (p *Properties) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

func (p *Properties) Len() int {
	return len(p.keys)
}

// Keys returns the keys in insertion order.
func (p *Properties) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Compact removes every key whose value is the empty string. This is the
// single filtering rule applied at the end of payload building.
func (p *Properties) Compact() {
	kept := p.keys[:0]
	for _, k := range p.keys {
		if p.values[k] == "" {
			delete(p.values, k)
			continue
		}
		kept = append(kept, k)
	}
	p.keys = kept
}

func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Properties) UnmarshalJSON(data []byte) error {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("properties: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("properties: non-string key %v", keyTok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("properties: value for %q: %w", key, err)
		}
		p.Set(key, value)
	}
	return nil
}
