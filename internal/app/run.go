package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/metagraph/internal/ctxlog"
	"github.com/specialistvlad/metagraph/internal/graph"
	"github.com/specialistvlad/metagraph/internal/meta"
)

// Run loads the configured metamodels, registers them, checks that every
// concrete class can be instantiated and writes a summary to the output.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "schema_paths", a.config.SchemaPaths)

	pkgs, err := a.loader.Load(ctx, a.config.SchemaPaths...)
	if err != nil {
		return fmt.Errorf("failed to load metamodel: %w", err)
	}
	for _, p := range pkgs {
		if err := a.registry.Register(p); err != nil {
			return fmt.Errorf("failed to register package %q: %w", p.Name, err)
		}
	}
	a.logger.Debug("Packages registered.", "count", len(pkgs))

	if err := instantiate(ctx, pkgs); err != nil {
		return err
	}

	warnings := lint(pkgs)
	for _, w := range warnings {
		a.logger.Warn("Metamodel warning.", "warning", w)
	}
	if a.config.Strict && len(warnings) > 0 {
		return fmt.Errorf("strict mode: %d warning(s):\n- %s", len(warnings), strings.Join(warnings, "\n- "))
	}

	if err := writeReport(a.outW, pkgs); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	a.logger.Info("Metamodel loaded.", "packages", len(pkgs), "classes", countClasses(pkgs), "warnings", len(warnings))
	return nil
}

// instantiate creates one object of every concrete class in a scratch
// engine and writes every single-valued attribute's default back through
// it, so a default the engine would reject is caught before any model
// depends on it.
func instantiate(ctx context.Context, pkgs []*meta.Package) error {
	e := graph.New(ctx)
	var errs []error
	for _, cls := range classes(pkgs) {
		if cls.IsAbstract() || cls.IsInterface() {
			continue
		}
		o, err := e.Create(cls)
		if err != nil {
			errs = append(errs, fmt.Errorf("class %s cannot be instantiated: %w", cls.Name(), err))
			continue
		}
		for _, f := range cls.AllAttributes() {
			if f.Derived || !f.Changeable || f.IsMany() {
				continue
			}
			if err := e.Set(o, f, f.DefaultValue()); err != nil {
				errs = append(errs, fmt.Errorf("class %s: default of %s: %w", cls.Name(), f.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}

func classes(pkgs []*meta.Package) []*meta.Class {
	var out []*meta.Class
	for _, p := range pkgs {
		for _, c := range p.Classifiers() {
			if cls, ok := c.(*meta.Class); ok {
				out = append(out, cls)
			}
		}
	}
	return out
}

func countClasses(pkgs []*meta.Package) int { return len(classes(pkgs)) }
