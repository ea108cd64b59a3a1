package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/logger"
)

// Load reads configuration starting from the working directory.
func Load() (*Config, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to determine working directory")
	}
	return LoadFrom(dir)
}

// LoadFrom reads defaults, the user config, the nearest winrtgen.toml at or
// above dir, and WINRTGEN_* environment variables.
func LoadFrom(dir string) (*Config, error) {
	v := newViper()

	var source string
	for _, path := range configPaths(dir) {
		merged, err := mergeFile(v, path)
		if err != nil {
			return nil, err
		}
		if merged {
			source = path
		}
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, err
	}
	cfg.Source = source
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debugw("Configuration loaded", logger.FieldFile, source)
	return cfg, nil
}

// LoadFromFile reads a single config file over the defaults. Environment
// variables are not consulted.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "config file %s", configPath)
	}
	cfg.Source = configPath
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config file %s", configPath)
	}
	return cfg, nil
}

// newViper returns a viper instance with defaults and environment binding.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// configPaths lists candidate files from lowest to highest precedence.
func configPaths(dir string) []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, UserDir, FileName))
	}
	if project := FindProjectConfig(dir); project != "" {
		paths = append(paths, project)
	}
	return paths
}

// mergeFile merges path into v below environment precedence. Missing files
// are skipped.
func mergeFile(v *viper.Viper, path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		return false, nil
	}

	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType("toml")
	if err := file.ReadInConfig(); err != nil {
		return false, errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := v.MergeConfigMap(file.AllSettings()); err != nil {
		return false, errors.Wrapf(err, "failed to merge config file %s", path)
	}
	return true, nil
}

// FindProjectConfig walks up from dir looking for winrtgen.toml. It returns
// an empty string when none is found.
func FindProjectConfig(dir string) string {
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
