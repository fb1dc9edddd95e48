// Command digitaltwinruntime runs the digital twin runtime: it loads
// twin descriptions from a directory, subscribes to an MQTT broker, and
// routes incoming sensor readings and commands to the right twin.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/iotwins/digitaltwin-runtime/internal/actor"
	"github.com/iotwins/digitaltwin-runtime/internal/config"
	"github.com/iotwins/digitaltwin-runtime/internal/logging"
	"github.com/iotwins/digitaltwin-runtime/internal/manager"
	"github.com/iotwins/digitaltwin-runtime/internal/models/chargingstation"
	"github.com/iotwins/digitaltwin-runtime/internal/models/lightbulb"
	"github.com/iotwins/digitaltwin-runtime/internal/network"
)

var log = logging.New("Runtime")

func buildRegistry() *actor.Registry {
	registry := actor.NewRegistry()
	registry.Register(lightbulb.Kind, lightbulb.NewFactory())
	registry.Register(chargingstation.Kind, chargingstation.NewFactory())
	// "ev" has no model yet — asset shells of that kind are logged and
	// skipped by the manager during bootstrap.
	return registry
}

func run(ctx context.Context, cfg *config.Config) error {
	clientID := cfg.ClientIDBase + "-" + uuid.NewString()
	receiver := network.NewReceiver(cfg.Broker.URL, clientID, cfg.Broker.Topic, logging.New("Receiver"))

	mgr := manager.New(
		cfg.TwinsDir,
		buildRegistry(),
		receiver.Register,
		receiver.Subscribe,
		logging.New("Manager"),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return receiver.Run(ctx) })
	g.Go(func() error { mgr.Run(ctx); return nil })

	mgr.Inbox() <- manager.Initialize{}

	return g.Wait()
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	brokerURL := flag.String("broker", "", "MQTT broker URL (overrides config/env)")
	topic := flag.String("topic", "", "broker topic to subscribe to (overrides config/env)")
	twinsDir := flag.String("twins-directory", "", "directory of twin shell descriptions (overrides config/env)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "loading configuration:", err)
		os.Exit(1)
	}
	if *brokerURL != "" {
		cfg.Broker.URL = *brokerURL
	}
	if *topic != "" {
		cfg.Broker.Topic = *topic
	}
	if *twinsDir != "" {
		cfg.TwinsDir = *twinsDir
	}
	config.PrintConfiguration(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error("runtime exited with error", err)
		os.Exit(1)
	}
}
