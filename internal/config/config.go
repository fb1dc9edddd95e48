// Package config loads the runtime's configuration from defaults, a
// file, and environment variables, in that order of increasing
// precedence.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete runtime configuration. Every field carries an
// explicit mapstructure tag: viper's Unmarshal matches keys to field
// names by a case-fold, not by the yaml tag, and "TwinsDir" doesn't
// case-fold to "twinsDirectory" — relying on the fold is how that field
// went silently unset before.
type Config struct {
	Broker       BrokerConfig `mapstructure:"broker" yaml:"broker"`
	TwinsDir     string       `mapstructure:"twinsDirectory" yaml:"twinsDirectory"`
	ClientIDBase string       `mapstructure:"clientIDBase" yaml:"clientIDBase"`
}

// BrokerConfig contains MQTT broker connection parameters.
type BrokerConfig struct {
	URL   string `mapstructure:"url" yaml:"url"`
	Topic string `mapstructure:"topic" yaml:"topic"`
}

// LoadConfig loads configuration from an optional YAML file, then
// overrides it with environment variables — MQTT_BROKER, MQTT_TOPIC
// (explicitly bound, so they match the names cmd/twinctl and spec.md §6
// document), plus TWINSDIRECTORY and CLIENTIDBASE via viper's automatic
// env lookup — falling back to defaults for anything none of those
// sources set.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		log.Printf("loading config from file: %s", configPath)
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		log.Println("no config file provided, using environment variables and defaults")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("broker.url", "MQTT_BROKER"); err != nil {
		return nil, fmt.Errorf("bind MQTT_BROKER: %w", err)
	}
	if err := v.BindEnv("broker.topic", "MQTT_TOPIC"); err != nil {
		return nil, fmt.Errorf("bind MQTT_TOPIC: %w", err)
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("broker.url", "tcp://localhost:1883")
	v.SetDefault("broker.topic", "twins/updates")
	v.SetDefault("twinsDirectory", "./twins")
	v.SetDefault("clientIDBase", "digitaltwin-runtime")
}

// PrintConfiguration logs the effective configuration at startup.
func PrintConfiguration(cfg *Config) {
	configJSON, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		log.Printf("unable to marshal configuration: %v", err)
		return
	}
	log.Printf("loaded configuration:\n%s", string(configJSON))
}
