package tracking

import (
	"encoding/json"
	"fmt"

	"sealtrack/internal/session"
)

// Session keys used by the relay. The purchase event gets its own slot
// so the success page can pick it up even when other pending events were
// already drained.
const (
	relayKeyEvents      = "pending_events"
	relayKeyPurchase    = "pending_purchase"
	relayKeyConversions = "pending_conversions"
)

// Relay stores events produced during a non-rendering request (form
// post, add-to-cart redirect) for pickup by the next page's queue.
type Relay struct {
	store session.Store
}

func NewRelay(store session.Store) *Relay {
	return &Relay{store: store}
}

// Store appends an event to the session's pending list.
func (r *Relay) Store(sessionID string, ev Event) error {
	var events []Event
	if err := r.load(sessionID, relayKeyEvents, &events); err != nil {
		return err
	}
	events = append(events, ev)
	return r.save(sessionID, relayKeyEvents, events)
}

// StorePurchase sets the single pending purchase slot, replacing any
// previous value.
func (r *Relay) StorePurchase(sessionID string, ev Event) error {
	return r.save(sessionID, relayKeyPurchase, ev)
}

// StoreConversion appends a pending lead conversion.
func (r *Relay) StoreConversion(sessionID string, pc PendingConversion) error {
	var pending []PendingConversion
	if err := r.load(sessionID, relayKeyConversions, &pending); err != nil {
		return err
	}
	pending = append(pending, pc)
	return r.save(sessionID, relayKeyConversions, pending)
}

// DrainAll returns every pending event for the session, purchase slot
// last, and clears them. A second call before any new Store returns an
// empty slice.
func (r *Relay) DrainAll(sessionID string) ([]Event, error) {
	var events []Event
	if err := r.load(sessionID, relayKeyEvents, &events); err != nil {
		return nil, err
	}
	if err := r.store.Delete(sessionID, relayKeyEvents); err != nil {
		return nil, err
	}

	raw, ok, err := r.store.Get(sessionID, relayKeyPurchase)
	if err != nil {
		return nil, err
	}
	if ok {
		var purchase Event
		if err := json.Unmarshal([]byte(raw), &purchase); err != nil {
			return nil, fmt.Errorf("relay: corrupt purchase slot: %w", err)
		}
		events = append(events, purchase)
		if err := r.store.Delete(sessionID, relayKeyPurchase); err != nil {
			return nil, err
		}
	}
	return events, nil
}

// DrainConversions returns and clears the pending lead conversions.
func (r *Relay) DrainConversions(sessionID string) ([]PendingConversion, error) {
	var pending []PendingConversion
	if err := r.load(sessionID, relayKeyConversions, &pending); err != nil {
		return nil, err
	}
	if err := r.store.Delete(sessionID, relayKeyConversions); err != nil {
		return nil, err
	}
	return pending, nil
}

func (r *Relay) load(sessionID, key string, dst interface{}) error {
	raw, ok, err := r.store.Get(sessionID, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("relay: corrupt %s: %w", key, err)
	}
	return nil
}

func (r *Relay) save(sessionID, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.store.Set(sessionID, key, string(raw))
}
