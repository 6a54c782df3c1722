package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/bsmider/reactorgen/errors"
)

// Load reads configuration from path, or from the nearest reactorgen.toml
// above the working directory when path is empty. Environment variables
// override file values. No file at all is fine; defaults apply.
func Load(path string) (*Config, error) {
	v := NewViper()

	if path == "" {
		path = FindProjectConfig()
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewViper returns a viper instance with defaults and env binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// LoadWithViper unmarshals configuration from a prepared viper instance.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// FindProjectConfig walks up from the working directory looking for
// reactorgen.toml. It returns "" when there is none.
func FindProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigFrom(dir)
}

func findConfigFrom(dir string) string {
	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
