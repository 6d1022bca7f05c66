package tracking

import (
	"testing"
	"time"

	"sealtrack/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayStoreAndDrain(t *testing.T) {
	relay := NewRelay(session.NewMemoryStore())

	require.NoError(t, relay.Store("sess-1", Event{Kind: KindMicroconversion, Label: "add-to-cart"}))
	require.NoError(t, relay.Store("sess-1", Event{Kind: KindMicroconversion, Label: "checkout1"}))

	drained, err := relay.DrainAll("sess-1")
	require.NoError(t, err)
	require.Len(t, drained, 2)
	assert.Equal(t, "add-to-cart", drained[0].Label)
	assert.Equal(t, "checkout1", drained[1].Label)
}

func TestRelayDrainIsReadOnce(t *testing.T) {
	relay := NewRelay(session.NewMemoryStore())

	require.NoError(t, relay.Store("sess-1", Event{Label: "add-to-cart"}))

	first, err := relay.DrainAll("sess-1")
	require.NoError(t, err)
	assert.Len(t, first, 1)

	second, err := relay.DrainAll("sess-1")
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestRelayPurchaseSlot(t *testing.T) {
	relay := NewRelay(session.NewMemoryStore())

	amount := 50.01
	require.NoError(t, relay.Store("sess-1", Event{Label: "checkout3"}))
	require.NoError(t, relay.StorePurchase("sess-1", Event{
		Kind:   KindConversion,
		Label:  "purchase",
		Amount: &amount,
	}))

	drained, err := relay.DrainAll("sess-1")
	require.NoError(t, err)
	require.Len(t, drained, 2)
	assert.Equal(t, "checkout3", drained[0].Label)
	assert.Equal(t, "purchase", drained[1].Label)
	require.NotNil(t, drained[1].Amount)
	assert.Equal(t, 50.01, *drained[1].Amount)

	second, err := relay.DrainAll("sess-1")
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestRelaySessionsAreIsolated(t *testing.T) {
	relay := NewRelay(session.NewMemoryStore())

	require.NoError(t, relay.Store("sess-1", Event{Label: "add-to-cart"}))

	other, err := relay.DrainAll("sess-2")
	require.NoError(t, err)
	assert.Empty(t, other)

	mine, err := relay.DrainAll("sess-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestRelayPendingConversions(t *testing.T) {
	relay := NewRelay(session.NewMemoryStore())

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, relay.StoreConversion("sess-1", PendingConversion{FormName: "cf7_12", Timestamp: now}))
	require.NoError(t, relay.StoreConversion("sess-1", PendingConversion{FormName: "gf_3", Timestamp: now}))

	pending, err := relay.DrainConversions("sess-1")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "cf7_12", pending[0].FormName)
	assert.Equal(t, "gf_3", pending[1].FormName)
	assert.True(t, pending[0].Timestamp.Equal(now))

	second, err := relay.DrainConversions("sess-1")
	require.NoError(t, err)
	assert.Empty(t, second)
}
