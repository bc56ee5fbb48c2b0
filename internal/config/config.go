// Package config loads harness configuration: where the API listens,
// which domain the proxy serves, and the blueprint defaults applied to
// builds that don't override them.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/dkaya/portside/internal/core/domain"
)

const envPrefix = "PORTSIDE"

// Config is the process-wide configuration, read once at startup.
type Config struct {
	Listen      string        `mapstructure:"listen"`
	ProxyDomain string        `mapstructure:"proxy_domain"`
	Build       BuildDefaults `mapstructure:"build"`
}

// BuildDefaults seeds the blueprint for builds that don't override its
// fields. The defaults mirror the deployment this harness grew out of:
// a python-slim base running one entry file on one port.
type BuildDefaults struct {
	BaseImage    string `mapstructure:"base_image"`
	WorkDir      string `mapstructure:"work_dir"`
	ManifestName string `mapstructure:"manifest_name"`
	EntryFile    string `mapstructure:"entry_file"`
	Interpreter  string `mapstructure:"interpreter"`
	Port         int    `mapstructure:"port"`
	UpgradeOS    bool   `mapstructure:"upgrade_os"`
}

// Blueprint converts the defaults into the immutable build record.
func (d BuildDefaults) Blueprint() domain.Blueprint {
	return domain.Blueprint{
		BaseImage:    d.BaseImage,
		WorkDir:      d.WorkDir,
		ManifestName: d.ManifestName,
		EntryFile:    d.EntryFile,
		Interpreter:  d.Interpreter,
		Port:         d.Port,
		UpgradeOS:    d.UpgradeOS,
	}
}

// Load reads configuration from an optional file plus PORTSIDE_*
// environment overrides. An empty path means defaults and environment
// only; defaults alone are always a valid configuration.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen", ":3000")
	v.SetDefault("proxy_domain", "localhost")
	v.SetDefault("build.base_image", "python:3.12-slim")
	v.SetDefault("build.work_dir", "/app")
	v.SetDefault("build.manifest_name", "requirements.txt")
	v.SetDefault("build.entry_file", "app.py")
	v.SetDefault("build.interpreter", "python")
	v.SetDefault("build.port", 6969)
	v.SetDefault("build.upgrade_os", true)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Build.Blueprint().Validate(); err != nil {
		return nil, fmt.Errorf("invalid build defaults: %w", err)
	}
	return &cfg, nil
}
