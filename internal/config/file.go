package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json"
	"gopkg.in/yaml.v3"
)

// parseFile reads a config file. The format follows the file extension:
// .json is decoded with go-json-experiment/json, .yaml and .yml with yaml.v3.
// Durations are written as strings, e.g. "30s".
func parseFile(path string) (*ServerConfig, error) {
	var unmarshal func([]byte, any) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		unmarshal = func(data []byte, v any) error { return json.Unmarshal(data, v) }
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedConfigFile, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := &ServerConfig{}
	if err := unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error decoding config file %s: %w", path, err)
	}

	return cfg, nil
}
