package twin

import (
	"context"
	"strings"

	"github.com/iotwins/digitaltwin-runtime/internal/aas"
	"github.com/iotwins/digitaltwin-runtime/internal/actor"
	"github.com/iotwins/digitaltwin-runtime/internal/logging"
)

// The fixed submodel/collection/property short names a runner consults
// to wire itself up. These come from the AAS convention the asset
// descriptions are authored against, not from the asset-specific shell
// content.
const (
	submodelPowerAndElectrical = "PowerAndElectrical"
	referenceDataSource        = "DataSource"
	submodelIoTDataSources     = "IoTDataSources"
	collectionSensors          = "Sensors"
	propertySensorID           = "SensorID"
)

// RegisterFunc announces a twin runner's (AssetID, Inbox) pair to a
// collaborator — the manager or the network receiver. It is a plain
// function type, not a channel, so this package never needs to import
// the manager or network packages.
type RegisterFunc func(assetID AssetID, inbox Inbox)

// SubscribeFunc asks the network receiver to route a list of device IDs
// to this runner's inbox as InputChange messages.
type SubscribeFunc func(assetID AssetID, devices []DeviceID)

// AssetKind returns the 4th colon-segment of an AssetID — by convention,
// the string that selects a model factory (e.g. "light",
// "charging-station").
func AssetKind(id AssetID) (string, bool) {
	parts := strings.Split(id, ":")
	if len(parts) < 4 {
		return "", false
	}
	return parts[3], true
}

// Runner owns one actor and its wiring to the bus for the lifetime of
// the process.
type Runner struct {
	shell   *aas.Shell
	act     *actor.Actor
	slots   []string
	slotMap map[DeviceID]string
	inbox   Inbox
	log     *logging.Logger

	registerWithManager  RegisterFunc
	registerWithReceiver RegisterFunc
	subscribe            SubscribeFunc
}

// NewRunner materializes a twin's actor from factory via CreateDefault
// and wires up the callbacks the runner will invoke during Init.
func NewRunner(
	shell *aas.Shell,
	factory *actor.Factory,
	registerWithManager RegisterFunc,
	registerWithReceiver RegisterFunc,
	subscribe SubscribeFunc,
	log *logging.Logger,
) *Runner {
	act, slots := factory.CreateDefault()
	return &Runner{
		shell:                shell,
		act:                  act,
		slots:                slots,
		slotMap:              make(map[DeviceID]string),
		inbox:                NewInbox(),
		log:                  log,
		registerWithManager:  registerWithManager,
		registerWithReceiver: registerWithReceiver,
		subscribe:            subscribe,
	}
}

// ID returns the twin's AssetID.
func (r *Runner) ID() AssetID { return r.shell.ID }

// Inbox returns the channel collaborators send InputChange/Command
// messages on.
func (r *Runner) Inbox() Inbox { return r.inbox }

// Init performs the bring-up sequence (§4.3): register with the manager
// and the receiver, resolve the slot map from the shell, and subscribe
// to whatever sensors the shell's IoTDataSources/Sensors collection
// names.
func (r *Runner) Init() {
	r.registerWithManager(r.ID(), r.inbox)
	r.registerWithReceiver(r.ID(), r.inbox)

	for _, slot := range r.slots {
		ref, ok := r.shell.FindReferenceValue(submodelPowerAndElectrical, slot, referenceDataSource)
		if !ok {
			r.log.Warn("no DataSource reference found for slot %s", slot)
			continue
		}
		sensorID, ok := r.shell.ResolveSensorReference(ref)
		if !ok {
			r.log.Warn("could not resolve sensor ID for slot %s (reference %s)", slot, ref)
			continue
		}
		r.slotMap[sensorID] = slot
	}
	r.log.Debug("slot map is %v", r.slotMap)

	sensorIDs := r.shell.FindElementsInCollection(submodelIoTDataSources, collectionSensors, propertySensorID)
	if len(sensorIDs) == 0 {
		r.log.Info("no sensor IDs found")
		return
	}
	r.subscribe(r.ID(), sensorIDs)
}

// Run performs Init, then consumes the inbox until ctx is canceled. A
// twin runner has no terminal state otherwise — it lives for the
// process lifetime.
func (r *Runner) Run(ctx context.Context) {
	r.Init()
	r.log.Info("twin runner starting")
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-r.inbox:
			r.handle(msg)
		}
	}
}

func (r *Runner) handle(msg Message) {
	switch m := msg.(type) {
	case InputChange:
		slot, ok := r.slotMap[m.Device]
		if !ok {
			r.log.Warn("input change from unknown device %s, dropped", m.Device)
			return
		}
		r.log.Debug("received input change: %s = %v", slot, m.Value)
		r.act = r.act.InputChange(slot, m.Value)
		r.log.Debug("new state: %s/%s", r.act.ModelName(), r.act.StateName())
	case Command:
		r.log.Debug("received command %s with args %s", m.Name, string(m.Args))
		r.act = r.act.Execute(m.Name, m.Args)
		r.log.Debug("new state: %s/%s", r.act.ModelName(), r.act.StateName())
	}
}
