package config

import (
	"github.com/spf13/viper"
)

// File names and locations.
const (
	FileName  = "winrtgen.toml"
	EnvPrefix = "WINRTGEN"
	UserDir   = ".winrtgen"

	DefaultDirPermissions  = 0o750
	DefaultFilePermissions = 0o644
)

// Defaults.
const (
	DefaultStyle  = "python"
	DefaultFormat = "yaml"
)

// SetDefaults registers a default for every known key. Environment binding
// only sees keys viper knows about, so every key must appear here.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("metadata.paths", []string{})

	v.SetDefault("generate.namespaces", []string{})
	v.SetDefault("generate.exclude_exclusive", false)
	v.SetDefault("generate.workers", 0)

	v.SetDefault("render.style", DefaultStyle)

	v.SetDefault("output.format", DefaultFormat)
	v.SetDefault("output.path", "")

	v.SetDefault("log.json", false)
}

// Default returns the configuration produced by defaults alone.
func Default() *Config {
	return &Config{
		Render: RenderConfig{Style: DefaultStyle},
		Output: OutputConfig{Format: DefaultFormat},
	}
}
