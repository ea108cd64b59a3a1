package commands

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/winrtgen/config"
	"github.com/teranos/winrtgen/display"
	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/logger"
	"github.com/teranos/winrtgen/plan"
)

// PlanCmd plans every selected type and writes the result.
var PlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan bindings for the loaded metadata",
	Long: `Load metadata snapshots, classify every selected type, resolve its
required interfaces and method marshaling, and write the plans as YAML or JSON.

A type that cannot be planned is reported and skipped; the rest of the run
continues. The command exits non-zero when any type failed.

Examples:
  winrtgen plan -m winmd/                       # plan everything under winmd/
  winrtgen plan -n Windows.Foundation --style cpp
  winrtgen plan -o plans.json --format json
  winrtgen plan --watch -o plans.yaml           # re-plan when snapshots change`,
	RunE: runPlan,
}

func init() {
	addSourceFlags(PlanCmd)
	PlanCmd.Flags().String("format", "", "Output format: yaml, json (overrides output.format)")
	PlanCmd.Flags().StringP("output", "o", "", "Write plans to this file instead of stdout")
	PlanCmd.Flags().StringSliceP("namespace", "n", nil, "Only plan these namespaces and their children")
	PlanCmd.Flags().Int("workers", 0, "Parallel planning workers (0 = GOMAXPROCS)")
	PlanCmd.Flags().Bool("exclude-exclusive", false, "Skip interfaces that are exclusive to a class")
	PlanCmd.Flags().Bool("watch", false, "Re-plan whenever a snapshot or the config file changes")
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = generate(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if watch, _ := cmd.Flags().GetBool("watch"); !watch {
		return err
	}
	if err != nil {
		pterm.Error.WithWriter(cmd.ErrOrStderr()).Println(err)
	}
	reload := func() (*config.Config, error) { return loadConfig(cmd) }
	return watchAndPlan(ctx, cfg, reload, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// generate runs one planning pass. Plans go to cfg.Output.Path or stdout, the
// summary to stderr.
func generate(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) (*plan.Result, error) {
	db, _, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.PlanOptions()
	if err != nil {
		return nil, err
	}
	planner, err := plan.NewPlanner(db, opts)
	if err != nil {
		return nil, err
	}
	if unmatched := planner.UnmatchedNamespaces(); len(unmatched) > 0 {
		return nil, errors.WithHintf(
			errors.NewInvalidInputf("namespace filter %s matches no loaded namespace", strings.Join(unmatched, ", ")),
			"loaded root namespaces: %s", strings.Join(rootNamespaces(db.Namespaces()), ", "),
		)
	}

	types := planner.Select()
	res, runErr := planner.Run(ctx, types)
	if res != nil {
		if err := writeResult(cfg, stdout, res); err != nil {
			return res, err
		}
		if err := display.Summary(stderr, res); err != nil {
			return res, err
		}
	}
	if runErr != nil {
		return res, runErr
	}
	if !res.OK() {
		return res, errors.Newf("%d of %d types failed to plan", len(res.Failures), len(types))
	}
	return res, nil
}

// rootNamespaces returns the distinct first segments of namespaces, in order.
func rootNamespaces(namespaces []string) []string {
	var roots []string
	for _, ns := range namespaces {
		root, _, _ := strings.Cut(ns, ".")
		if !slices.Contains(roots, root) {
			roots = append(roots, root)
		}
	}
	return roots
}

func writeResult(cfg *config.Config, stdout io.Writer, res *plan.Result) error {
	if cfg.Output.Path == "" {
		return plan.Encode(stdout, cfg.Output.Format, res)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Output.Path), config.DefaultDirPermissions); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}
	f, err := os.Create(cfg.Output.Path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", cfg.Output.Path)
	}
	if err := plan.Encode(f, cfg.Output.Format, res); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "failed to write %s", cfg.Output.Path)
	}
	logger.Infow("Plans written", logger.FieldFile, cfg.Output.Path, logger.FieldCount, len(res.Plans))
	return nil
}

// watchAndPlan re-runs generate on every debounced change until ctx ends.
// A change to the config file reloads it first. The watched set is fixed at
// start.
func watchAndPlan(ctx context.Context, cfg *config.Config, reload func() (*config.Config, error), stdout, stderr io.Writer) error {
	files, err := cfg.MetadataFiles()
	if err != nil {
		return err
	}
	source := ""
	if cfg.Source != "" {
		if source, err = filepath.Abs(cfg.Source); err != nil {
			return errors.Wrapf(err, "resolving %s", cfg.Source)
		}
		files = append(files, source)
	}

	w, err := config.NewWatcher(config.DefaultDebounce, files...)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	w.OnChange(func(changed []string) error {
		mu.Lock()
		defer mu.Unlock()
		pterm.Info.WithWriter(stderr).Printfln("%d files changed, re-planning", len(changed))
		if source != "" && slices.Contains(changed, source) {
			next, err := reload()
			if err != nil {
				return err
			}
			cfg = next
		}
		_, err := generate(ctx, cfg, stdout, stderr)
		return err
	})
	w.Start()
	pterm.Info.WithWriter(stderr).Printfln("Watching %d files (Ctrl+C to stop)", len(files))

	<-ctx.Done()
	return w.Stop()
}
