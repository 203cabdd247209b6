// Package config loads the optional instance inventory file, which maps
// instance names (production, staging, ...) to their control locators.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Instances map[string]Instance `yaml:"instances"`
}

type Instance struct {
	// Control is a locator string: unix:// path, tcp:// address, or a
	// state directory to discover the socket in.
	Control string `yaml:"control"`

	// RestartLock is an optional lock file serializing phased restarts
	// of this instance.
	RestartLock string `yaml:"restart_lock"`
}

// Load reads and decodes an inventory file. It does not validate; see
// Validate.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read config %q", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "could not parse config %q", path)
	}
	return &cfg, nil
}

// Validate checks inventory correctness. It does not mutate the config.
func Validate(cfg *Config) error {
	if len(cfg.Instances) == 0 {
		return errors.New("config defines no instances")
	}
	for name, inst := range cfg.Instances {
		if name == "" {
			return errors.New("instance with empty name")
		}
		if inst.Control == "" {
			return errors.Errorf("instance %q: control locator is required", name)
		}
	}
	return nil
}
