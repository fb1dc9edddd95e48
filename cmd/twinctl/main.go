// Command twinctl publishes a single update or command message to the
// broker a digitaltwinruntime instance listens on. It's a test and
// operations aid, not part of the runtime itself.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const usage = `usage:
  twinctl -broker <url> [-topic <topic>] update  -object <deviceID> -value <float>
  twinctl -broker <url> [-topic <topic>] command -target <assetID> -cmd <name> [-args <json>]
`

func main() {
	broker := flag.String("broker", os.Getenv("MQTT_BROKER"), "MQTT broker URL")
	topic := flag.String("topic", envOrDefault("MQTT_TOPIC", "twins/updates"), "broker topic")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 || *broker == "" {
		flag.Usage()
		os.Exit(2)
	}

	payload, err := buildPayload(args[0], args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if err := publish(*broker, *topic, payload); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func buildPayload(action string, rest []string) ([]byte, error) {
	switch action {
	case "update":
		fs := flag.NewFlagSet("update", flag.ExitOnError)
		object := fs.String("object", "", "device ID the reading belongs to")
		value := fs.Float64("value", 0, "reading value")
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		if *object == "" {
			return nil, fmt.Errorf("-object is required")
		}
		return json.Marshal(map[string]any{
			"update": map[string]any{"object": *object, "value": *value},
		})

	case "command":
		fs := flag.NewFlagSet("command", flag.ExitOnError)
		target := fs.String("target", "", "asset ID to command")
		cmd := fs.String("cmd", "", "command name")
		rawArgs := fs.String("args", "", "JSON command arguments")
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		if *target == "" || *cmd == "" {
			return nil, fmt.Errorf("-target and -cmd are required")
		}
		var argsValue any
		if *rawArgs != "" {
			if err := json.Unmarshal([]byte(*rawArgs), &argsValue); err != nil {
				return nil, fmt.Errorf("parsing -args: %w", err)
			}
		}
		return json.Marshal(map[string]any{
			"command": map[string]any{"target": *target, "command": *cmd, "args": argsValue},
		})

	default:
		return nil, fmt.Errorf("unknown action %q, expected update or command", action)
	}
}

func publish(broker, topic string, payload []byte) error {
	opts := mqtt.NewClientOptions().AddBroker(broker).SetClientID("twinctl")
	client := mqtt.NewClient(opts)

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)

	fmt.Printf("publishing to %s/%s: %s\n", broker, topic, payload)
	token := client.Publish(topic, 1, false, payload)
	token.Wait()
	return token.Error()
}
