package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collectDispatch() (*[]string, func(Event)) {
	var got []string
	return &got, func(ev Event) {
		label := ev.Label
		if label == "" {
			label = string(ev.Kind)
		}
		got = append(got, label)
	}
}

func TestQueueBuffersUntilLoaded(t *testing.T) {
	got, dispatch := collectDispatch()
	q := NewQueue(dispatch)

	q.Enqueue(Event{Label: "one"})
	q.Enqueue(Event{Label: "two"})
	q.Enqueue(Event{Label: "three"})
	assert.Empty(t, *got)
	assert.Equal(t, 3, q.Pending())

	q.ScriptLoaded()
	assert.Equal(t, []string{"one", "two", "three"}, *got)
	assert.Zero(t, q.Pending())

	q.Enqueue(Event{Label: "four"})
	assert.Equal(t, []string{"one", "two", "three", "four"}, *got)
}

func TestQueueScriptLoadedIdempotent(t *testing.T) {
	got, dispatch := collectDispatch()
	q := NewQueue(dispatch)

	q.Enqueue(Event{Label: "one"})
	q.ScriptLoaded()
	q.ScriptLoaded()
	assert.Equal(t, []string{"one"}, *got)
	assert.True(t, q.Loaded())
}

func TestQueuePageviewOnce(t *testing.T) {
	got, dispatch := collectDispatch()
	q := NewQueue(dispatch)

	assert.True(t, q.EnqueuePageview(Event{Kind: KindPageview}))
	assert.False(t, q.EnqueuePageview(Event{Kind: KindPageview}))

	q.ScriptLoaded()
	assert.Equal(t, []string{"pageview"}, *got)

	// Still suppressed after the load transition.
	assert.False(t, q.EnqueuePageview(Event{Kind: KindPageview}))
	assert.Equal(t, []string{"pageview"}, *got)
}

func TestQueueNeverLoadedStrandsEvents(t *testing.T) {
	got, dispatch := collectDispatch()
	q := NewQueue(dispatch)

	q.Enqueue(Event{Label: "one"})
	q.Enqueue(Event{Label: "two"})

	assert.Empty(t, *got)
	assert.False(t, q.Loaded())
	assert.Equal(t, 2, q.Pending())
}
