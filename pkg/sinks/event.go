package sinks

import (
	"time"

	"github.com/Adda-Baaj/bookstore-client/pkg/bookstore"
)

// Event represents one call outcome published downstream.
type Event struct {
	Op         string    `json:"op"`
	Kind       string    `json:"kind"`
	Method     string    `json:"method"`
	Target     string    `json:"target"`
	StatusCode int       `json:"status_code,omitempty"`
	Error      string    `json:"error,omitempty"`
	Snippet    string    `json:"snippet,omitempty"`
	ObservedAt time.Time `json:"observed_at"`
}

// NewEvent constructs an Event for the given outcome.
func NewEvent(o bookstore.Outcome) Event {
	evt := Event{
		Op:         string(o.Op),
		Kind:       o.Kind.String(),
		Method:     o.Method,
		Target:     o.Target,
		StatusCode: o.StatusCode,
		ObservedAt: time.Now().UTC(),
	}
	switch {
	case o.Err != nil:
		evt.Error = o.Err.Error()
	case o.DecodeErr != nil:
		evt.Error = o.DecodeErr.Error()
	}
	if o.Kind != bookstore.TransportError {
		evt.Snippet = o.Snippet()
	}
	return evt
}

// attributes are the routing keys attached to queue/topic messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"op":   e.Op,
		"kind": e.Kind,
	}
}
