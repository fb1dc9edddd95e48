package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotwins/digitaltwin-runtime/internal/logging"
	"github.com/iotwins/digitaltwin-runtime/internal/twin"
)

func TestDecodeWireMessageUpdate(t *testing.T) {
	msg, err := DecodeWireMessage([]byte(`{"update":{"object":"sensor-A","value":0.8}}`))
	require.NoError(t, err)
	require.NotNil(t, msg.Update)
	assert.Nil(t, msg.Command)
	assert.Equal(t, twin.DeviceID("sensor-A"), msg.Update.Object)
	assert.Equal(t, 0.8, msg.Update.Value)
}

func TestDecodeWireMessageCommand(t *testing.T) {
	msg, err := DecodeWireMessage([]byte(`{"command":{"target":"urn:aas:x:light:1","command":"SwitchOn","args":{}}}`))
	require.NoError(t, err)
	require.NotNil(t, msg.Command)
	assert.Equal(t, "SwitchOn", msg.Command.Command)
}

func TestDecodeWireMessageMalformed(t *testing.T) {
	_, err := DecodeWireMessage([]byte(`not json`))
	assert.Error(t, err)
}

// newTestReceiver builds a Receiver without dialing a broker, for
// exercising the routing tables directly.
func newTestReceiver() *Receiver {
	return &Receiver{
		log:           logging.New("test"),
		assetInboxes:  make(map[twin.AssetID]twin.Inbox),
		subscriptions: make(map[twin.DeviceID][]twin.AssetID),
		controlCh:     make(chan ControlMessage, controlChannelCapacity),
		wireCh:        make(chan []byte, controlChannelCapacity),
	}
}

func TestRouteUpdateFansOutToSubscribers(t *testing.T) {
	r := newTestReceiver()
	inboxA := twin.NewInbox()
	inboxB := twin.NewInbox()
	r.handleControl(Register{AssetID: "asset-a", Inbox: inboxA})
	r.handleControl(Register{AssetID: "asset-b", Inbox: inboxB})
	r.handleControl(Subscribe{AssetID: "asset-a", Devices: []twin.DeviceID{"sensor-A"}})
	r.handleControl(Subscribe{AssetID: "asset-b", Devices: []twin.DeviceID{"sensor-A"}})

	r.routeUpdate(WireUpdate{Object: "sensor-A", Value: 1.5})

	msgA := (<-inboxA).(twin.InputChange)
	msgB := (<-inboxB).(twin.InputChange)
	assert.Equal(t, float32(1.5), msgA.Value)
	assert.Equal(t, float32(1.5), msgB.Value)
}

func TestRouteUpdateWithNoSubscribersDropsSilently(t *testing.T) {
	r := newTestReceiver()
	r.routeUpdate(WireUpdate{Object: "unknown-sensor", Value: 1.0})
	// No panic, no send; nothing more to assert — absence of subscribers
	// is not an error.
}

func TestRouteCommandToRegisteredAsset(t *testing.T) {
	r := newTestReceiver()
	inbox := twin.NewInbox()
	r.handleControl(Register{AssetID: "asset-a", Inbox: inbox})

	r.routeCommand(WireCommand{Target: "asset-a", Command: "SwitchOn"})

	msg := (<-inbox).(twin.Command)
	assert.Equal(t, "SwitchOn", msg.Name)
}

func TestRouteCommandToUnregisteredAssetDropsSilently(t *testing.T) {
	r := newTestReceiver()
	r.routeCommand(WireCommand{Target: "unknown-asset", Command: "SwitchOn"})
}
