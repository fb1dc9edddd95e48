// Package network implements the network receiver: it subscribes to the
// broker, decodes wire frames, and fans them out to twin runners via the
// routing tables it builds from twins' own Register/Subscribe messages.
package network

import (
	"encoding/json"

	jsoniter "github.com/json-iterator/go"

	"github.com/iotwins/digitaltwin-runtime/internal/twin"
)

var wireJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// WireMessage is the decoded shape of one broker payload. Either or both
// of Update and Command may be present on the same frame; no ordering
// is defined between them.
type WireMessage struct {
	Update  *WireUpdate  `json:"update,omitempty"`
	Command *WireCommand `json:"command,omitempty"`
}

// WireUpdate is a sensor reading, addressed by device ID.
type WireUpdate struct {
	Object twin.DeviceID `json:"object"`
	Value  float64       `json:"value"`
}

// WireCommand is a directed, named operation addressed at an AssetID.
type WireCommand struct {
	Target  twin.AssetID    `json:"target"`
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args"`
}

// DecodeWireMessage parses one broker payload. Malformed JSON is
// reported as an error; the caller is expected to log and drop it.
func DecodeWireMessage(payload []byte) (WireMessage, error) {
	var msg WireMessage
	if err := wireJSON.Unmarshal(payload, &msg); err != nil {
		return WireMessage{}, err
	}
	return msg, nil
}

// ControlMessage is the closed set of things twin runners send the
// receiver to maintain its routing tables.
type ControlMessage interface {
	isControlMessage()
}

// Register inserts or overwrites the receiver's AssetID→inbox entry,
// used to route directed commands.
type Register struct {
	AssetID twin.AssetID
	Inbox   twin.Inbox
}

func (Register) isControlMessage() {}

// Subscribe appends AssetID as a subscriber of every listed DeviceID, so
// updates for those devices are fanned out to it.
type Subscribe struct {
	AssetID twin.AssetID
	Devices []twin.DeviceID
}

func (Subscribe) isControlMessage() {}
