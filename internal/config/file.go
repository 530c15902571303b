package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadFromFile overlays the YAML document at path onto cfg. Keys missing from
// the file keep their current values.
func LoadFromFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config file %s", path)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return errors.Wrapf(err, "parse config file %s", path)
	}

	return nil
}
