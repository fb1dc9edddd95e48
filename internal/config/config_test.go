package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "tcp://localhost:1883", cfg.Broker.URL)
	assert.Equal(t, "twins/updates", cfg.Broker.Topic)
	assert.Equal(t, "./twins", cfg.TwinsDir)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
broker:
  url: "tcp://broker.example:1883"
  topic: "custom/topic"
twinsDirectory: "/etc/twins"
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "tcp://broker.example:1883", cfg.Broker.URL)
	assert.Equal(t, "custom/topic", cfg.Broker.Topic)
	assert.Equal(t, "/etc/twins", cfg.TwinsDir)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
broker:
  url: "tcp://from-file:1883"
`), 0o644))

	t.Setenv("MQTT_BROKER", "tcp://from-env:1883")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "tcp://from-env:1883", cfg.Broker.URL)
}

func TestLoadConfigTwinsDirectoryFromEnv(t *testing.T) {
	t.Setenv("TWINSDIRECTORY", "/var/lib/twins")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/twins", cfg.TwinsDir)
}
