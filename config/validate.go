package config

import (
	"slices"
	"strings"

	"github.com/teranos/winrtgen/errors"
	"github.com/teranos/winrtgen/plan"
	"github.com/teranos/winrtgen/render"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	// Workers: 0 = GOMAXPROCS, negative = invalid
	if c.Generate.Workers < 0 {
		return errors.NewInvalidInputf("generate.workers must be >= 0, got %d", c.Generate.Workers)
	}

	if _, err := render.Lookup(c.Render.Style); err != nil {
		return errors.Wrap(err, "render.style")
	}

	if !slices.Contains(plan.Formats(), strings.ToLower(c.Output.Format)) {
		return errors.WithHintf(
			errors.NewInvalidInputf("output.format %q is not supported", c.Output.Format),
			"supported formats: %s", strings.Join(plan.Formats(), ", "),
		)
	}

	for _, ns := range c.Generate.Namespaces {
		if ns == "" || strings.HasPrefix(ns, ".") || strings.HasSuffix(ns, ".") {
			return errors.NewInvalidInputf("generate.namespaces: %q is not a namespace", ns)
		}
	}
	return nil
}

// PlanOptions converts the generate and render sections into planner options.
func (c *Config) PlanOptions() (plan.Options, error) {
	style, err := render.Lookup(c.Render.Style)
	if err != nil {
		return plan.Options{}, err
	}
	return plan.Options{
		Style:            style,
		Workers:          c.Generate.Workers,
		Namespaces:       c.Generate.Namespaces,
		ExcludeExclusive: c.Generate.ExcludeExclusive,
	}, nil
}
