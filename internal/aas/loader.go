package aas

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/iotwins/digitaltwin-runtime/internal/logging"
)

// LoadShell parses a single YAML file into a Shell.
func LoadShell(path string) (*Shell, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("aas: reading %s: %w", path, err)
	}
	var shell Shell
	if err := yaml.Unmarshal(data, &shell); err != nil {
		return nil, fmt.Errorf("aas: parsing %s: %w", path, err)
	}
	return &shell, nil
}

// LoadDirectory scans dir for *.yaml files and parses each into a Shell.
// A file that fails to parse is logged and skipped; the scan continues.
func LoadDirectory(dir string, log *logging.Logger) ([]*Shell, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("aas: reading twins directory %s: %w", dir, err)
	}
	var shells []*Shell
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		shell, err := LoadShell(path)
		if err != nil {
			log.Error("loading shell "+path, err)
			continue
		}
		for _, name := range InvalidShortNames(shell) {
			log.Warn("shell %s has an irregular short name %q", path, name)
		}
		shells = append(shells, shell)
	}
	return shells, nil
}
