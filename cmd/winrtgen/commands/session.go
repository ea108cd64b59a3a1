package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teranos/winrtgen/config"
	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/logger"
	"github.com/teranos/winrtgen/metadata"
)

// addSourceFlags registers the flags shared by commands that read metadata.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("metadata", "m", nil, "Metadata snapshot files, directories or globs (overrides metadata.paths)")
	cmd.Flags().String("style", "", "Type expression style: python, cpp (overrides render.style)")
}

// loadConfig reads configuration from --config or the project cascade and
// applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	if err := applyOverrides(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Log.JSON && !logger.JSONOutput {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		logger.Initialize(true, verbosity)
	}
	return cfg, nil
}

// applyOverrides copies explicitly set flags into cfg. Flag paths are
// relative to the working directory, not the config file.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("metadata") {
		paths, _ := flags.GetStringSlice("metadata")
		abs := make([]string, 0, len(paths))
		for _, p := range paths {
			a, err := filepath.Abs(p)
			if err != nil {
				return errors.Wrapf(err, "resolving %s", p)
			}
			abs = append(abs, a)
		}
		cfg.Metadata.Paths = abs
	}
	if flags.Changed("style") {
		cfg.Render.Style, _ = flags.GetString("style")
	}
	if flags.Changed("format") {
		cfg.Output.Format, _ = flags.GetString("format")
	}
	if flags.Changed("output") {
		cfg.Output.Path, _ = flags.GetString("output")
	}
	if flags.Changed("namespace") {
		cfg.Generate.Namespaces, _ = flags.GetStringSlice("namespace")
	}
	if flags.Changed("workers") {
		cfg.Generate.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("exclude-exclusive") {
		cfg.Generate.ExcludeExclusive, _ = flags.GetBool("exclude-exclusive")
	}
	return nil
}

// openDatabase loads every snapshot named by the configuration.
func openDatabase(cfg *config.Config) (*metadata.Snapshot, []string, error) {
	files, err := cfg.MetadataFiles()
	if err != nil {
		return nil, nil, err
	}
	db, err := metadata.LoadFiles(files...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load metadata")
	}
	logger.Infow("Metadata loaded",
		logger.FieldCount, len(files),
		logger.FieldTotalCount, len(db.Types()))
	return db, files, nil
}

// findType looks up a definition by its full name.
func findType(db metadata.Resolver, full string) (*metadata.TypeDef, error) {
	ns, name := metadata.SplitName(full)
	if def, ok := db.Find(ns, name); ok {
		return def, nil
	}
	return nil, errors.WithHint(
		errors.NewUnresolvedf("type %s not found", full),
		"generic definitions carry their arity, e.g. Windows.Foundation.IReference`1",
	)
}
