package config

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"sigs.k8s.io/yaml"

	"github.com/bpsolver/bpsolver/pkg/api"
	"github.com/bpsolver/bpsolver/pkg/api/bpsolver"
)

type ConfigInit struct {
	ConfigFile string
	Force      bool
}

// Init writes the default configuration to ConfigFile.
func (c *ConfigInit) Init() error {
	_, err := os.Stat(c.ConfigFile)
	if !os.IsNotExist(err) && !c.Force {
		return fmt.Errorf("config file %s already exists", c.ConfigFile)
	}
	data, err := yaml.Marshal(bpsolver.DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(c.ConfigFile, data, 0660)
}

// LoadConfigFile reads a configuration. Fields missing in the file keep their
// default values.
func LoadConfigFile(file string) (*bpsolver.Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	cfg := bpsolver.DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %v", file, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", file, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting of cfg.
func Validate(cfg *bpsolver.Config) error {
	var err error
	if _, e := api.ParseBackend(cfg.Backend); e != nil {
		err = multierr.Append(err, e)
	}
	if _, e := Timeout(cfg); e != nil {
		err = multierr.Append(err, e)
	}
	if cfg.NodeLimit < 0 {
		err = multierr.Append(err, fmt.Errorf("nodeLimit must not be negative, got %d", cfg.NodeLimit))
	}
	if cfg.Parallelism < 0 {
		err = multierr.Append(err, fmt.Errorf("parallelism must not be negative, got %d", cfg.Parallelism))
	}
	if cfg.LogLevel != "" {
		if _, e := logrus.ParseLevel(cfg.LogLevel); e != nil {
			err = multierr.Append(err, e)
		}
	}
	return err
}

// Timeout parses the configured timeout. An empty value means no timeout.
func Timeout(cfg *bpsolver.Config) (time.Duration, error) {
	if cfg.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %v", cfg.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative, got %s", cfg.Timeout)
	}
	return d, nil
}
