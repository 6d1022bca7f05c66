// Package events defines the kafka envelope carrying tracking events
// from the API to the dispatch worker.
package events

import (
	"time"

	"sealtrack/internal/tracking"
)

type Message struct {
	Platform  string         `json:"platform"`
	SessionID string         `json:"session_id,omitempty"`
	Event     tracking.Event `json:"event"`
	Timestamp time.Time      `json:"timestamp"`
}
