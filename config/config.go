// Package config loads reactorgen settings from reactorgen.toml, the
// environment and defaults.
package config

import (
	"time"

	"github.com/bsmider/reactorgen/factory"
	"github.com/bsmider/reactorgen/factory/orchestrator"
	"github.com/bsmider/reactorgen/factory/plugin"
)

// FileName is the project configuration file searched for upward.
const FileName = "reactorgen.toml"

// EnvPrefix prefixes every environment override, e.g. REACTORGEN_BASE_PACKAGE.
const EnvPrefix = "REACTORGEN"

// Config is the complete reactorgen configuration.
type Config struct {
	BasePackage  string `mapstructure:"base_package"`
	ServiceLabel string `mapstructure:"service_label"`
	ChannelLabel string `mapstructure:"channel_label"`
	OutputDir    string `mapstructure:"output_dir"`

	Source         string `mapstructure:"source"`
	StubDir        string `mapstructure:"stub_dir"`
	StubImportPath string `mapstructure:"stub_import_path"`
	DescriptorDir  string `mapstructure:"descriptor_dir"`
	GeneratedDir   string `mapstructure:"generated_dir"`

	Workers int           `mapstructure:"workers"`
	Timeout time.Duration `mapstructure:"timeout"`

	Protoc ProtocConfig `mapstructure:"protoc"`
	Plugin PluginConfig `mapstructure:"plugin"`
}

// ProtocConfig controls the protoc executable.
type ProtocConfig struct {
	Executable string `mapstructure:"executable"`
	ExtraArgs  string `mapstructure:"extra_args"` // shell-quoted
}

// PluginConfig controls the protoc code generator plugin download.
// An empty URL runs protoc without a plugin.
type PluginConfig struct {
	Name     string `mapstructure:"name"`
	Version  string `mapstructure:"version"`
	URL      string `mapstructure:"url"`
	CacheDir string `mapstructure:"cache_dir"`
}

// CodeGen returns the synthesis settings.
func (c *Config) CodeGen() factory.CodeGenConfig {
	return factory.CodeGenConfig{
		BasePackage:  c.BasePackage,
		ServiceLabel: c.ServiceLabel,
		ChannelLabel: c.ChannelLabel,
		OutputDir:    c.OutputDir,
	}
}

// Build returns the full pipeline settings.
func (c *Config) Build() (factory.BuildConfig, error) {
	extra, err := c.extraArgs()
	if err != nil {
		return factory.BuildConfig{}, err
	}
	cfg := factory.BuildConfig{
		CodeGen:        c.CodeGen(),
		SourceDir:      c.Source,
		StubDir:        c.StubDir,
		StubImportPath: c.StubImportPath,
		Protoc: orchestrator.Settings{
			Protoc:        c.Protoc.Executable,
			ExtraArgs:     extra,
			DescriptorDir: c.DescriptorDir,
			GeneratedDir:  c.GeneratedDir,
			Workers:       c.Workers,
			Timeout:       c.Timeout,
		},
	}
	if c.Plugin.URL != "" {
		cfg.Plugin = &plugin.Settings{
			Name:     c.Plugin.Name,
			Version:  c.Plugin.Version,
			URL:      c.Plugin.URL,
			CacheDir: c.Plugin.CacheDir,
		}
	}
	return cfg, nil
}
