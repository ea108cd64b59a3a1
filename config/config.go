// Package config loads winrtgen settings from defaults, config files and
// WINRTGEN_* environment variables, in increasing order of precedence.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/teranos/winrtgen/errors"
)

// Config is the full winrtgen configuration.
type Config struct {
	Metadata MetadataConfig `mapstructure:"metadata" toml:"metadata"`
	Generate GenerateConfig `mapstructure:"generate" toml:"generate"`
	Render   RenderConfig   `mapstructure:"render" toml:"render"`
	Output   OutputConfig   `mapstructure:"output" toml:"output"`
	Log      LogConfig      `mapstructure:"log" toml:"log"`

	// Source is the config file the settings were read from, empty when
	// only defaults and environment applied.
	Source string `mapstructure:"-" toml:"-"`
}

// MetadataConfig locates the metadata snapshot files.
type MetadataConfig struct {
	// Paths holds files, directories or glob patterns. Relative entries are
	// resolved against the directory of the config file.
	Paths []string `mapstructure:"paths" toml:"paths"`
}

// GenerateConfig selects what gets planned.
type GenerateConfig struct {
	Namespaces       []string `mapstructure:"namespaces" toml:"namespaces"`               // empty = all
	ExcludeExclusive bool     `mapstructure:"exclude_exclusive" toml:"exclude_exclusive"` // skip exclusive-to interfaces
	Workers          int      `mapstructure:"workers" toml:"workers"`                     // 0 = GOMAXPROCS
}

// RenderConfig configures type expression rendering.
type RenderConfig struct {
	Style string `mapstructure:"style" toml:"style"` // python, cpp
}

// OutputConfig configures where plans are written.
type OutputConfig struct {
	Format string `mapstructure:"format" toml:"format"` // yaml, json
	Path   string `mapstructure:"path" toml:"path"`     // empty = stdout
}

// LogConfig configures logging.
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json"`
}

// snapshotExtensions are the file types picked up from metadata directories.
var snapshotExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".toml": true,
}

// MetadataFiles expands Metadata.Paths into a sorted, de-duplicated list of
// snapshot files.
func (c *Config) MetadataFiles() ([]string, error) {
	if len(c.Metadata.Paths) == 0 {
		return nil, errors.WithHint(
			errors.NewInvalidInputf("no metadata paths configured"),
			"set metadata.paths in winrtgen.toml or pass --metadata",
		)
	}

	base := ""
	if c.Source != "" {
		base = filepath.Dir(c.Source)
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, entry := range c.Metadata.Paths {
		pattern := entry
		if base != "" && !filepath.IsAbs(pattern) {
			pattern = filepath.Join(base, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "bad metadata path %q", entry), errors.ErrInvalidInput)
		}
		if len(matches) == 0 {
			return nil, errors.NewInvalidInputf("metadata path %q matches nothing", entry)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				return nil, errors.Wrapf(err, "metadata path %s", m)
			}
			if !info.IsDir() {
				add(m)
				continue
			}
			entries, err := os.ReadDir(m)
			if err != nil {
				return nil, errors.Wrapf(err, "reading metadata directory %s", m)
			}
			for _, e := range entries {
				if !e.IsDir() && snapshotExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
					add(filepath.Join(m, e.Name()))
				}
			}
		}
	}

	sort.Strings(files)
	return files, nil
}
