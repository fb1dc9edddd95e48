// Package chargingstation is the richer sample actor model: an EV
// charging station cycling through Idle, Connected, Charging and Fault
// as vehicles connect, draw current, and disconnect.
package chargingstation

import (
	"encoding/json"

	"github.com/iotwins/digitaltwin-runtime/internal/actor"
	"github.com/iotwins/digitaltwin-runtime/internal/logging"
)

// Kind is the asset-kind URN segment this model answers to.
const Kind = "charging-station"

// State tags.
const (
	StateIdle      = "Idle"
	StateConnected = "Connected"
	StateCharging  = "Charging"
	StateFault     = "Fault"
)

// Slot names.
const (
	SlotCurrentPowerDraw = "CurrentPowerDraw"
	SlotInputCurrent     = "InputCurrent"
)

var log = logging.New("ChargingStation")

// NewFactory builds the ChargingStation model descriptor and wraps it as
// a Factory, ready to be registered under Kind.
func NewFactory() *actor.Factory {
	return actor.NewFactory(&actor.ModelDescriptor{
		Name:         "ChargingStation",
		DefaultState: StateIdle,
		ParamDefaults: actor.Params{
			"min_current":     1.0,
			"max_current":     16.0,
			"max_sleep_power": 5.0,
		},
		Slots: []string{SlotCurrentPowerDraw, SlotInputCurrent},
		States: map[string]*actor.StateDescriptor{
			StateIdle: {
				Name: StateIdle,
				Slots: map[string]actor.Handler{
					SlotCurrentPowerDraw: idlePowerChange,
				},
				Commands: map[string]actor.CommandHandler{
					"VehicleDetected": connectVehicle,
				},
			},
			StateConnected: {
				Name: StateConnected,
				Slots: map[string]actor.Handler{
					SlotInputCurrent: connectedCurrentChange,
				},
				Commands: map[string]actor.CommandHandler{
					"VehicleDisconnected": disconnectVehicle,
				},
			},
			StateCharging: {
				Name: StateCharging,
				Slots: map[string]actor.Handler{
					SlotCurrentPowerDraw: chargingPowerChange,
					SlotInputCurrent:     chargingCurrentChange,
				},
				Commands: map[string]actor.CommandHandler{
					"SetChargingCurrent": setChargingCurrent,
				},
			},
			StateFault: {
				Name:  StateFault,
				Slots: map[string]actor.Handler{},
				Commands: map[string]actor.CommandHandler{
					"Reset": reset,
				},
			},
		},
	})
}

// idlePowerChange: in idle state, the power draw should be nearly 0 —
// anything above max_sleep_power is treated as a fault.
func idlePowerChange(a *actor.Actor, power float32) *actor.Actor {
	if power > a.Param("max_sleep_power") {
		return a.Transition(StateFault)
	}
	return a.Transition(StateIdle)
}

func connectVehicle(a *actor.Actor, _ json.RawMessage) *actor.Actor {
	return a.Transition(StateConnected)
}

// connectedCurrentChange: once connected, a current draw above
// min_current means the vehicle has started charging.
func connectedCurrentChange(a *actor.Actor, current float32) *actor.Actor {
	if current > a.Param("min_current") {
		return a.Transition(StateCharging)
	}
	return a.Transition(StateConnected)
}

func disconnectVehicle(a *actor.Actor, _ json.RawMessage) *actor.Actor {
	return a.Transition(StateIdle)
}

// chargingPowerChange: power dropping below max_sleep_power means
// charging has completed (or the user stopped it).
func chargingPowerChange(a *actor.Actor, power float32) *actor.Actor {
	if power < a.Param("max_sleep_power") {
		return a.Transition(StateConnected)
	}
	return a.Transition(StateCharging)
}

// chargingCurrentChange: current above max_current is an overcurrent fault.
func chargingCurrentChange(a *actor.Actor, current float32) *actor.Actor {
	if current > a.Param("max_current") {
		return a.Transition(StateFault)
	}
	return a.Transition(StateCharging)
}

func setChargingCurrent(a *actor.Actor, payload json.RawMessage) *actor.Actor {
	log.Info("set charging current requested: %s", string(payload))
	// TODO: forward a "set current" command to the physical device once
	// the command-path back to a device-facing channel exists.
	return a.Transition(StateCharging)
}

func reset(a *actor.Actor, _ json.RawMessage) *actor.Actor {
	return a.Transition(StateIdle)
}
