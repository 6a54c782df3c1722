package config

import (
	"github.com/bsmider/reactorgen/errors"
	"github.com/bsmider/reactorgen/factory/plugin"
	"github.com/bsmider/reactorgen/factory/processes"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := c.CodeGen().Validate(); err != nil {
		return err
	}
	if c.OutputDir == "" {
		return errors.NewInvalidConfigError("output_dir cannot be empty")
	}

	// workers: 0 picks the default, negative is invalid
	if c.Workers < 0 {
		return errors.NewInvalidConfigError("workers must be >= 0, got %d", c.Workers)
	}
	if c.Timeout < 0 {
		return errors.NewInvalidConfigError("timeout must be >= 0, got %s", c.Timeout)
	}
	if _, err := c.extraArgs(); err != nil {
		return errors.Wrap(errors.ErrInvalidConfig, err.Error())
	}

	if c.Plugin.URL != "" {
		if c.Plugin.Name == "" {
			return errors.NewInvalidConfigError("plugin.name cannot be empty when plugin.url is set")
		}
		if err := plugin.ValidateVersion(c.Plugin.Version); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) extraArgs() ([]string, error) {
	if c.Protoc.ExtraArgs == "" {
		return nil, nil
	}
	return processes.SplitArgs(c.Protoc.ExtraArgs)
}
