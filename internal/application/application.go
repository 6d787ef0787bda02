package application

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/eugenenazirov/edgeconf/internal/config"
	"github.com/eugenenazirov/edgeconf/internal/propagate"
)

// App encapsulates a configured propagation run.
type App struct {
	cfg        config.Config
	logger     *zap.Logger
	propagator *propagate.Propagator
}

// New initializes the application from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &App{
		cfg:        cfg,
		logger:     logger,
		propagator: propagate.New(propagate.WithDryRun(cfg.DryRun)),
	}, nil
}

// Targets resolves the five target files for variant.
func (a *App) Targets(variant string) []propagate.Target {
	return propagate.Targets(propagate.Layout{
		Root:          a.cfg.Root,
		EdgelessDir:   a.cfg.EdgelessDir,
		Variant:       variant,
		LatencyConfig: a.cfg.LatencyConfig,
	})
}

// Run propagates in into every target of variant and logs each outcome.
// Per-file failures are only returned, combined, when strict mode is on.
func (a *App) Run(ctx context.Context, variant string, in propagate.Inputs) ([]propagate.Result, error) {
	results := a.propagator.Run(ctx, a.Targets(variant), in)

	var errs error
	for _, r := range results {
		a.report(r)
		if !r.OK() {
			errs = multierr.Append(errs, fmt.Errorf("%s (%s): %w", r.Target.Name, r.Target.Path, r.Err))
		}
	}

	s := propagate.Summarize(results)
	a.logger.Info("Propagation finished",
		zap.Int("updated", s.Updated),
		zap.Int("planned", s.Planned),
		zap.Int("not_found", s.NotFound),
		zap.Int("failed", s.Failed),
	)

	if a.cfg.Strict {
		return results, errs
	}
	return results, nil
}

func (a *App) report(r propagate.Result) {
	path := zap.String("path", r.Target.Path)
	kind := strings.ToUpper(string(r.Target.Format))

	switch r.Status {
	case propagate.StatusUpdated:
		a.logger.Info(kind+" config file updated", path)
		for _, c := range r.Changes {
			a.logger.Debug("Key rewritten", path, zap.String("key", c.Key), zap.String("old", c.Old), zap.String("new", c.New))
		}
	case propagate.StatusPlanned:
		a.logger.Info(kind+" config file would be updated", path)
		for _, c := range r.Changes {
			a.logger.Info("Planned change", path, zap.String("key", c.Key), zap.String("old", c.Old), zap.String("new", c.New))
		}
	case propagate.StatusNotFound:
		a.logger.Warn("File not found", path)
	default:
		a.logger.Error("An error occurred", path, zap.Error(r.Err))
	}
}
