package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/logger"
)

// backupCount is the number of rotating backups kept next to a saved file.
const backupCount = 3

// BackupPath returns the n-th backup path of configPath (1 = newest).
func BackupPath(configPath string, n int) string {
	return configPath + ".back" + strconv.Itoa(n)
}

// createBackup rotates .back1 -> .back2 -> .back3 and copies the current
// file to .back1. A missing file needs no backup.
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	oldest := BackupPath(configPath, backupCount)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old config backup",
			logger.FieldFile, oldest,
			logger.FieldError, err.Error())
	}

	for n := backupCount - 1; n >= 1; n-- {
		from := BackupPath(configPath, n)
		if _, err := os.Stat(from); err != nil {
			continue
		}
		if err := os.Rename(from, BackupPath(configPath, n+1)); err != nil {
			return errors.Wrapf(err, "failed to rotate backup %s", from)
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(BackupPath(configPath, 1), content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}
	return nil
}

// Save writes cfg to configPath as TOML, backing up any existing file.
func Save(configPath string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), DefaultDirPermissions); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(configPath, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write config %s", configPath)
	}

	logger.Infow("Configuration saved", logger.FieldFile, configPath)
	return nil
}

// Init writes a default winrtgen.toml into dir. An existing file is left
// alone unless force is set.
func Init(dir string, paths []string, force bool) (string, error) {
	configPath := filepath.Join(dir, FileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return "", errors.WithHint(
			errors.NewInvalidInputf("%s already exists", configPath),
			"use --force to overwrite it (a backup is kept)",
		)
	}

	cfg := Default()
	cfg.Metadata.Paths = paths
	if err := Save(configPath, cfg); err != nil {
		return "", err
	}
	return configPath, nil
}
