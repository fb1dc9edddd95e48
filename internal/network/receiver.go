package network

import (
	"context"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/iotwins/digitaltwin-runtime/internal/logging"
	"github.com/iotwins/digitaltwin-runtime/internal/twin"
)

// controlChannelCapacity bounds the receiver's own control inbox the same
// way a twin's inbox is bounded — a flood of Register/Subscribe calls
// backs up into their callers rather than growing unbounded.
const controlChannelCapacity = 5

// Receiver is the single task that owns the broker subscription and the
// two routing tables built from twin registrations. Only Run's goroutine
// ever reads or writes assetInboxes and subscriptions — the MQTT
// client's own callback goroutine never touches them directly, it only
// pushes onto wireCh.
type Receiver struct {
	client mqtt.Client
	topic  string
	log    *logging.Logger

	assetInboxes  map[twin.AssetID]twin.Inbox
	subscriptions map[twin.DeviceID][]twin.AssetID

	controlCh chan ControlMessage
	wireCh    chan []byte
}

// NewReceiver builds a Receiver around an MQTT client configured to
// connect to the given broker URL and, once connected, subscribe to
// topic. It does not connect yet.
func NewReceiver(brokerURL, clientID, topic string, log *logging.Logger) *Receiver {
	r := &Receiver{
		topic:         topic,
		log:           log,
		assetInboxes:  make(map[twin.AssetID]twin.Inbox),
		subscriptions: make(map[twin.DeviceID][]twin.AssetID),
		controlCh:     make(chan ControlMessage, controlChannelCapacity),
		wireCh:        make(chan []byte, controlChannelCapacity),
	}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetOnConnectHandler(r.onConnect).
		SetConnectionLostHandler(r.onConnectionLost)

	r.client = mqtt.NewClient(opts)
	return r
}

// Register and Subscribe have the signatures of twin.RegisterFunc and
// twin.SubscribeFunc, so they are handed to twin runners (through the
// manager) as plain functions.

// Register is the receiver's half of a twin's registration: it enqueues
// a Register control message for the Run goroutine to apply. The send
// blocks the caller while the control channel is full.
func (r *Receiver) Register(assetID twin.AssetID, inbox twin.Inbox) {
	r.controlCh <- Register{AssetID: assetID, Inbox: inbox}
}

// Subscribe schedules a Subscribe control message.
func (r *Receiver) Subscribe(assetID twin.AssetID, devices []twin.DeviceID) {
	r.controlCh <- Subscribe{AssetID: assetID, Devices: devices}
}

// Run connects to the broker and then owns the receiver's event loop
// until ctx is canceled. It is the only goroutine that mutates
// assetInboxes and subscriptions.
func (r *Receiver) Run(ctx context.Context) error {
	token := r.client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}
	defer r.client.Disconnect(250)

	for {
		select {
		case <-ctx.Done():
			return nil
		case payload := <-r.wireCh:
			r.handleWire(payload)
		case ctrl := <-r.controlCh:
			r.handleControl(ctrl)
		}
	}
}

func (r *Receiver) onConnect(c mqtt.Client) {
	token := c.Subscribe(r.topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		payload := append([]byte(nil), msg.Payload()...)
		r.wireCh <- payload
	})
	token.Wait()
	if err := token.Error(); err != nil {
		r.log.Error("subscribing to "+r.topic, err)
	}
}

func (r *Receiver) onConnectionLost(_ mqtt.Client, err error) {
	r.log.Error("connection to broker lost", err)
}

func (r *Receiver) handleControl(ctrl ControlMessage) {
	switch c := ctrl.(type) {
	case Register:
		r.assetInboxes[c.AssetID] = c.Inbox
		r.log.Debug("registered receiver inbox for %s", c.AssetID)
	case Subscribe:
		for _, device := range c.Devices {
			r.subscriptions[device] = append(r.subscriptions[device], c.AssetID)
		}
		r.log.Debug("%s subscribed to %v", c.AssetID, c.Devices)
	}
}

func (r *Receiver) handleWire(payload []byte) {
	msg, err := DecodeWireMessage(payload)
	if err != nil {
		r.log.Error("decoding wire message", err)
		return
	}
	if msg.Update != nil {
		r.routeUpdate(*msg.Update)
	}
	if msg.Command != nil {
		r.routeCommand(*msg.Command)
	}
}

// routeUpdate fans an update out to every twin subscribed to its device.
// Sends block: a twin too slow to drain its inbox throttles the whole
// receiver loop rather than have the update silently dropped (§5).
func (r *Receiver) routeUpdate(update WireUpdate) {
	subscribers, ok := r.subscriptions[update.Object]
	if !ok {
		r.log.Debug("no subscribers for device %s, dropped", update.Object)
		return
	}
	for _, assetID := range subscribers {
		inbox, ok := r.assetInboxes[assetID]
		if !ok {
			r.log.Warn("subscriber %s has no registered inbox", assetID)
			continue
		}
		inbox <- twin.InputChange{Device: update.Object, Value: float32(update.Value)}
	}
}

func (r *Receiver) routeCommand(cmd WireCommand) {
	inbox, ok := r.assetInboxes[cmd.Target]
	if !ok {
		r.log.Warn("command for unregistered asset %s, dropped", cmd.Target)
		return
	}
	inbox <- twin.Command{Name: cmd.Command, Args: cmd.Args}
}
