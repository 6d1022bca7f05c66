// Package processors holds the worker-side event handling.
package processors

import (
	"sealtrack/internal/collector"
	"sealtrack/internal/config"
	"sealtrack/internal/events"
	"sealtrack/internal/logger"
	"sealtrack/internal/tracking"
)

// maxSessionQueues bounds the per-session queue map in a long-lived
// worker. Evicting a session resets its pageview-once flag; a repeated
// pageview for an evicted session is accepted loss.
const maxSessionQueues = 1024

// Dispatcher forwards consumed events to the collector. Each visitor
// session owns a tracking queue: events buffer until the collector
// probe succeeds, then drain in order; queues created after a
// successful probe dispatch immediately. A failed probe leaves events
// buffered, which is the accepted lossy behavior when the tracker
// never comes up.
type Dispatcher struct {
	config *config.Config
	logger *logger.Logger
	client *collector.Client
	ready  bool
	queues map[string]*tracking.Queue
	order  []string
}

func New(cfg *config.Config, logger *logger.Logger) *Dispatcher {
	return &Dispatcher{
		config: cfg,
		logger: logger,
		client: collector.New(cfg.CollectorURL, cfg.AccountID),
		queues: make(map[string]*tracking.Queue),
	}
}

// Probe checks collector reachability and, on success, transitions
// every session queue to loaded. The transition is one-way so repeated
// calls are harmless.
func (d *Dispatcher) Probe() {
	if d.ready {
		return
	}
	if err := d.client.Ping(); err != nil {
		d.logger.Warn("Collector not reachable, buffering events: %v", err)
		return
	}
	d.logger.Info("Collector reachable, dispatching buffered events")
	d.ready = true
	for _, q := range d.queues {
		q.ScriptLoaded()
	}
}

// Process routes one consumed message into its session's queue.
func (d *Dispatcher) Process(msg events.Message) error {
	q := d.queueFor(msg.SessionID)
	if msg.Event.Kind == tracking.KindPageview {
		if !q.EnqueuePageview(msg.Event) {
			d.logger.Debug("Duplicate pageview dropped for session %s", msg.SessionID)
		}
		return nil
	}
	q.Enqueue(msg.Event)
	return nil
}

func (d *Dispatcher) queueFor(sessionID string) *tracking.Queue {
	q, ok := d.queues[sessionID]
	if !ok {
		if len(d.queues) >= maxSessionQueues {
			d.evict()
		}
		q = tracking.NewQueue(d.send)
		if d.ready {
			q.ScriptLoaded()
		}
		d.queues[sessionID] = q
		d.order = append(d.order, sessionID)
	}
	return q
}

// evict drops the oldest session with no buffered events, falling back
// to the oldest session overall when everything is still waiting on the
// collector.
func (d *Dispatcher) evict() {
	idx := 0
	for i, id := range d.order {
		if d.queues[id].Pending() == 0 {
			idx = i
			break
		}
	}
	id := d.order[idx]
	d.order = append(d.order[:idx], d.order[idx+1:]...)
	delete(d.queues, id)
	d.logger.Debug("Evicted session queue %s", id)
}

func (d *Dispatcher) send(ev tracking.Event) {
	if err := d.client.Send(ev); err != nil {
		// Best-effort: a failed send is logged and dropped, never retried.
		d.logger.Error("Failed to send event to collector: %v", err)
	}
}
