// Package actor implements the typed state-machine framework: a
// declarative actor model is expressed as a ModelDescriptor (parameters,
// states, per-state dispatch tables), and every actor instance is an
// opaque, immutable-by-replacement Actor value produced from it.
//
// This is the Go realization of a design that, in the system this
// runtime is modeled on, was expressed as a family of Rust traits
// (ActorState, ActorFactory, StateBehavior) plus a pair of per-state
// macro-generated dispatch maps. Without macros or generics-over-traits,
// the same shape is expressed directly as data: a ModelDescriptor holds
// one StateDescriptor per state, and an Actor carries only a pointer to
// its model, its current parameters, and its state tag — the dispatch
// surface is reached through the (model, tag) pair rather than copied
// into every actor value.
package actor

import "encoding/json"

// Params holds an actor's user-defined numeric parameters, e.g.
// "threshold" or "max_current".
type Params map[string]float32

// Clone returns an independent copy of p, so a transition never lets two
// actor values share a mutable map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Handler reacts to a numeric update on a slot, returning the actor's new
// value. Handlers are pure, synchronous functions of (actor, input) —
// they must not perform I/O.
type Handler func(a *Actor, value float32) *Actor

// CommandHandler reacts to a named command with a JSON payload,
// symmetric to Handler.
type CommandHandler func(a *Actor, payload json.RawMessage) *Actor

// StateDescriptor is the dispatch surface active while an actor is in one
// state: a slot-handler table and a command-handler table. A descriptor
// is built once per (model, state) and shared read-only across every
// actor instance ever in that state — safe for concurrent use by many
// twin runner goroutines.
type StateDescriptor struct {
	Name     string
	Slots    map[string]Handler
	Commands map[string]CommandHandler
}

// ModelDescriptor declares a complete actor model: its parameter
// defaults, the union of slots it may ever listen on, its states, and
// which state is the default initial one.
type ModelDescriptor struct {
	Name          string
	ParamDefaults Params
	Slots         []string
	States        map[string]*StateDescriptor
	DefaultState  string
}

// Actor is the live value representing one twin's behavior: its
// parameters, current state tag, and — implicitly, via the model and
// tag — its active dispatch surface. An Actor is always in exactly one
// state and is never mutated in place; every operation below returns a
// (possibly identical) new value.
type Actor struct {
	model  *ModelDescriptor
	params Params
	state  string
}

func newActor(model *ModelDescriptor, params Params, state string) *Actor {
	return &Actor{model: model, params: params, state: state}
}

// Param returns the current value of a declared parameter, or 0 if name
// was never declared by the model.
func (a *Actor) Param(name string) float32 {
	return a.params[name]
}

// ModelName reports the actor's model/type name, used for logging and
// for asserting on state in tests instead of a dynamic downcast.
func (a *Actor) ModelName() string { return a.model.Name }

// StateName reports the actor's current state tag.
func (a *Actor) StateName() string { return a.state }

func (a *Actor) descriptor() *StateDescriptor {
	d, ok := a.model.States[a.state]
	if !ok {
		// A ModelDescriptor that doesn't have an entry for its own
		// DefaultState (or for a state a Transition names) is
		// malformed at construction time, not at runtime.
		panic("actor: model " + a.model.Name + " has no descriptor for state " + a.state)
	}
	return d
}

// Transition moves the actor to a new state: it copies the parameters
// verbatim and installs the target state's dispatch surface by tag. It
// never consults the target state's tables beyond confirming they exist
// — the handlers are data, reached through the (model, state) pair, not
// executed during construction.
func (a *Actor) Transition(state string) *Actor {
	if _, ok := a.model.States[state]; !ok {
		panic("actor: model " + a.model.Name + " has no state " + state)
	}
	return newActor(a.model, a.params.Clone(), state)
}

// InputChange looks up slot in the current state's slot table. If found,
// it invokes the handler with the actor and value, returning its result.
// If absent, it returns a value observationally equal to the current one
// (identity transition) — the same state, the same parameters.
func (a *Actor) InputChange(slot string, value float32) *Actor {
	if handler, ok := a.descriptor().Slots[slot]; ok {
		return handler(a, value)
	}
	return newActor(a.model, a.params.Clone(), a.state)
}

// Execute looks up command in the current state's command table,
// symmetric to InputChange.
func (a *Actor) Execute(command string, payload json.RawMessage) *Actor {
	if handler, ok := a.descriptor().Commands[command]; ok {
		return handler(a, payload)
	}
	return newActor(a.model, a.params.Clone(), a.state)
}

// Factory builds actor instances for one ModelDescriptor.
type Factory struct {
	model *ModelDescriptor
}

// NewFactory wraps a ModelDescriptor as a Factory. Model authors expose
// this as their package's constructor, e.g. lightbulb.NewFactory().
func NewFactory(model *ModelDescriptor) *Factory {
	return &Factory{model: model}
}

// CreateDefault instantiates the actor with the declared default
// parameter values in the declared initial state. The returned slot list
// is the union of slots the actor may ever listen on, for the twin
// runner to bind at init.
func (f *Factory) CreateDefault() (*Actor, []string) {
	a := newActor(f.model, f.model.ParamDefaults.Clone(), f.model.DefaultState)
	return a, append([]string(nil), f.model.Slots...)
}

// CreateWithParams is like CreateDefault but overrides each declared
// parameter from the JSON object raw, by parameter name, when the key is
// present and numeric. Missing or non-numeric entries keep the declared
// default. Unknown JSON keys are ignored.
func (f *Factory) CreateWithParams(raw json.RawMessage) (*Actor, []string) {
	params := f.model.ParamDefaults.Clone()
	if len(raw) > 0 {
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err == nil {
			for name := range params {
				if v, present := fields[name]; present {
					if f, ok := v.(float64); ok {
						params[name] = float32(f)
					}
				}
			}
		}
	}
	a := newActor(f.model, params, f.model.DefaultState)
	return a, append([]string(nil), f.model.Slots...)
}
