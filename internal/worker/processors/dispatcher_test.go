package processors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"sealtrack/internal/config"
	"sealtrack/internal/events"
	"sealtrack/internal/logger"
	"sealtrack/internal/tracking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectorRecorder stands in for the analytics endpoint. It counts
// POSTed events and can refuse HEAD probes.
type collectorRecorder struct {
	mu        sync.Mutex
	posts     int
	unhealthy bool
}

func (r *collectorRecorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.Method == http.MethodHead && r.unhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	if req.Method == http.MethodPost {
		r.posts++
	}
	w.WriteHeader(http.StatusOK)
}

func (r *collectorRecorder) sent() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.posts
}

func setupDispatcher(t *testing.T, rec *collectorRecorder) *Dispatcher {
	t.Helper()
	ts := httptest.NewServer(rec)
	t.Cleanup(ts.Close)
	cfg := &config.Config{AccountID: "acct-test", CollectorURL: ts.URL, LogLevel: "error"}
	return New(cfg, logger.New(cfg.LogLevel))
}

func pageview(sessionID string) events.Message {
	return events.Message{SessionID: sessionID, Event: tracking.Event{Kind: tracking.KindPageview}}
}

func TestDispatcherPageviewOncePerSession(t *testing.T) {
	rec := &collectorRecorder{}
	d := setupDispatcher(t, rec)
	d.Probe()

	require.NoError(t, d.Process(pageview("sess-1")))
	require.NoError(t, d.Process(pageview("sess-1")))
	assert.Equal(t, 1, rec.sent())

	// A different session gets its own pageview.
	require.NoError(t, d.Process(pageview("sess-2")))
	assert.Equal(t, 2, rec.sent())
}

func TestDispatcherBuffersUntilProbeSucceeds(t *testing.T) {
	rec := &collectorRecorder{unhealthy: true}
	d := setupDispatcher(t, rec)

	d.Probe()
	require.NoError(t, d.Process(pageview("sess-1")))
	require.NoError(t, d.Process(events.Message{
		SessionID: "sess-1",
		Event:     tracking.Event{Kind: tracking.KindMicroconversion, Label: "add-to-cart"},
	}))
	assert.Equal(t, 0, rec.sent())

	rec.mu.Lock()
	rec.unhealthy = false
	rec.mu.Unlock()

	d.Probe()
	assert.Equal(t, 2, rec.sent())
}

func TestDispatcherEvictsOldestDrainedSession(t *testing.T) {
	rec := &collectorRecorder{}
	d := setupDispatcher(t, rec)
	d.Probe()

	for i := 0; i < maxSessionQueues; i++ {
		require.NoError(t, d.Process(pageview(fmt.Sprintf("sess-%d", i))))
	}
	require.Len(t, d.queues, maxSessionQueues)

	// One more session evicts the oldest instead of growing the map.
	require.NoError(t, d.Process(pageview("sess-overflow")))
	assert.Len(t, d.queues, maxSessionQueues)
	assert.NotContains(t, d.queues, "sess-0")

	// The evicted session lost its pageview-once flag; a repeat beacon
	// goes through again.
	before := rec.sent()
	require.NoError(t, d.Process(pageview("sess-0")))
	assert.Equal(t, before+1, rec.sent())
}
