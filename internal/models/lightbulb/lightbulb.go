// Package lightbulb is the simplest sample actor model: a light bulb
// that turns itself on and off based on its own power draw, or on an
// explicit switch command.
package lightbulb

import (
	"encoding/json"

	"github.com/iotwins/digitaltwin-runtime/internal/actor"
)

// Kind is the asset-kind URN segment this model answers to.
const Kind = "light"

// State tags.
const (
	StateOff = "Off"
	StateOn  = "On"
)

// Slot name.
const SlotCurrentPowerDraw = "CurrentPowerDraw"

// NewFactory builds the LightBulb model descriptor and wraps it as a
// Factory, ready to be registered under Kind.
func NewFactory() *actor.Factory {
	return actor.NewFactory(&actor.ModelDescriptor{
		Name:          "LightBulb",
		DefaultState:  StateOff,
		ParamDefaults: actor.Params{"threshold": 0.5},
		Slots:         []string{SlotCurrentPowerDraw},
		States: map[string]*actor.StateDescriptor{
			StateOff: {
				Name: StateOff,
				Slots: map[string]actor.Handler{
					SlotCurrentPowerDraw: powerChange,
				},
				Commands: map[string]actor.CommandHandler{
					"SwitchOn": switchOn,
				},
			},
			StateOn: {
				Name: StateOn,
				Slots: map[string]actor.Handler{
					SlotCurrentPowerDraw: powerChange,
				},
				Commands: map[string]actor.CommandHandler{
					"SwitchOff": switchOff,
				},
			},
		},
	})
}

// powerChange serves both states: it reads the power draw against the
// threshold and transitions to whichever state that implies, regardless
// of which state the actor started in.
func powerChange(a *actor.Actor, power float32) *actor.Actor {
	if power >= a.Param("threshold") {
		return a.Transition(StateOn)
	}
	return a.Transition(StateOff)
}

func switchOn(a *actor.Actor, _ json.RawMessage) *actor.Actor {
	return a.Transition(StateOn)
}

func switchOff(a *actor.Actor, _ json.RawMessage) *actor.Actor {
	return a.Transition(StateOff)
}
