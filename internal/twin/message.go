// Package twin implements the twin runner: the task that owns one actor,
// its wiring to the bus, and its private inbox.
package twin

import "encoding/json"

// AssetID and DeviceID are re-exported aliases so callers outside this
// package don't need to import the aas package just to name a twin or a
// sensor.
type AssetID = string
type DeviceID = string

// defaultInboxCapacity is the bounded inbox size (§5): small on purpose,
// so a slow twin pushes backpressure onto the network receiver — and
// through it, onto the broker's own flow control — instead of
// accumulating unbounded backlog.
const defaultInboxCapacity = 5

// Inbox is a twin runner's single multi-producer, single-consumer input
// channel.
type Inbox chan Message

// NewInbox allocates a bounded inbox of the default capacity.
func NewInbox() Inbox {
	return make(Inbox, defaultInboxCapacity)
}

// Message is the closed set of things a twin runner's inbox carries.
type Message interface {
	isTwinMessage()
}

// InputChange reports a numeric sensor reading addressed by device ID.
type InputChange struct {
	Device DeviceID
	Value  float32
}

func (InputChange) isTwinMessage() {}

// Command is a directed, named operation with a JSON payload.
type Command struct {
	Name string
	Args json.RawMessage
}

func (Command) isTwinMessage() {}
