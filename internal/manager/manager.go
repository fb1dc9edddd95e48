// Package manager implements the twin manager: it bootstraps twin
// runners from a directory of asset shells and keeps the registry of
// which AssetIDs are currently live.
package manager

import (
	"context"
	"fmt"

	"github.com/iotwins/digitaltwin-runtime/internal/aas"
	"github.com/iotwins/digitaltwin-runtime/internal/actor"
	"github.com/iotwins/digitaltwin-runtime/internal/logging"
	"github.com/iotwins/digitaltwin-runtime/internal/twin"
)

const inboxCapacity = 5

// Message is the closed set of things the manager's own task loop
// reacts to.
type Message interface {
	isManagerMessage()
}

// Initialize triggers the bootstrap sequence: loading every shell in
// the twins directory and spawning a runner for each. It is sent once,
// by the process entrypoint, after the manager's Run loop has started.
type Initialize struct{}

func (Initialize) isManagerMessage() {}

// Register records a twin runner's (AssetID, Inbox) pair. Runners send
// this to the manager during their own Init step.
type Register struct {
	AssetID twin.AssetID
	Inbox   twin.Inbox
}

func (Register) isManagerMessage() {}

// RegisterWithReceiverFunc is how a newly spawned twin registers its
// inbox with the network receiver; the manager hands it to every runner
// it spawns, without this package importing the network package.
type RegisterWithReceiverFunc func(assetID twin.AssetID, inbox twin.Inbox)

// SubscribeFunc is how a spawned twin tells the network receiver which
// devices to route to it.
type SubscribeFunc func(assetID twin.AssetID, devices []twin.DeviceID)

// Manager owns the AssetID→Inbox registry and the one goroutine per
// twin it spawns during bootstrap. Only its own Run goroutine mutates
// the registry.
type Manager struct {
	twinsDir string
	registry *actor.Registry
	log      *logging.Logger

	registerWithReceiver RegisterWithReceiverFunc
	subscribe            SubscribeFunc

	inbox  chan Message
	actors map[twin.AssetID]twin.Inbox
}

// New constructs a Manager. registerWithReceiver and subscribe are
// forwarded unchanged to every twin runner it spawns.
func New(
	twinsDir string,
	registry *actor.Registry,
	registerWithReceiver RegisterWithReceiverFunc,
	subscribe SubscribeFunc,
	log *logging.Logger,
) *Manager {
	return &Manager{
		twinsDir:              twinsDir,
		registry:              registry,
		log:                   log,
		registerWithReceiver:  registerWithReceiver,
		subscribe:             subscribe,
		inbox:                 make(chan Message, inboxCapacity),
		actors:                make(map[twin.AssetID]twin.Inbox),
	}
}

// Inbox returns the channel used to send the manager Initialize and
// Register messages.
func (m *Manager) Inbox() chan Message { return m.inbox }

// Run owns the manager's event loop until ctx is canceled.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-m.inbox:
			m.handle(ctx, msg)
		}
	}
}

func (m *Manager) handle(ctx context.Context, msg Message) {
	switch v := msg.(type) {
	case Initialize:
		if err := m.bootstrap(ctx); err != nil {
			m.log.Error("bootstrapping twins", err)
		}
	case Register:
		if _, exists := m.actors[v.AssetID]; exists {
			m.log.Warn("duplicate registration for %s, ignoring", v.AssetID)
			return
		}
		m.actors[v.AssetID] = v.Inbox
		m.log.Debug("manager registered %s", v.AssetID)
	}
}

// bootstrap loads every shell under twinsDir, rejects duplicate
// AssetIDs, resolves each shell's model factory by asset kind, and
// spawns one runner goroutine per shell whose kind is registered.
// Unknown kinds and duplicate IDs are logged and skipped — a bad shell
// file never takes down the rest of the fleet.
func (m *Manager) bootstrap(ctx context.Context) error {
	shells, err := aas.LoadDirectory(m.twinsDir, m.log)
	if err != nil {
		return fmt.Errorf("loading twins directory %s: %w", m.twinsDir, err)
	}

	seen := make(map[twin.AssetID]bool)
	for _, shell := range shells {
		if seen[shell.ID] {
			m.log.Warn("duplicate asset ID %s, skipping", shell.ID)
			continue
		}
		seen[shell.ID] = true

		kind, ok := twin.AssetKind(shell.ID)
		if !ok {
			m.log.Warn("asset ID %s has no recognizable kind segment, skipping", shell.ID)
			continue
		}
		factory, ok := m.registry.Lookup(kind)
		if !ok {
			m.log.Warn("no model registered for kind %q (asset %s), skipping", kind, shell.ID)
			continue
		}

		runner := twin.NewRunner(
			shell,
			factory,
			m.sendRegister,
			twin.RegisterFunc(m.registerWithReceiver),
			twin.SubscribeFunc(m.subscribe),
			logging.New("twin:"+shell.ID),
		)
		go runner.Run(ctx)
	}
	return nil
}

// sendRegister is the RegisterFunc a spawned runner uses to announce
// itself back to the manager.
func (m *Manager) sendRegister(assetID twin.AssetID, inbox twin.Inbox) {
	m.inbox <- Register{AssetID: assetID, Inbox: inbox}
}
