/*
 * Copyright © 2019 One Concern
 *
 */

// Package syncer assembles and runs the external data movers configured for
// each source. Command lines are built from declarative templates and always
// executed as argument vectors, never through a shell.
package syncer

import (
	"context"
	"sort"

	"github.com/oneconcern/zbak/pkg/errors"
	"github.com/oneconcern/zbak/pkg/model"
	"github.com/oneconcern/zbak/pkg/runner"
	"go.uber.org/zap"
)

// Mountpointer resolves where the dataset is mounted. Resolution happens
// once per batch, and only after the selection has been validated.
type Mountpointer interface {
	Mountpoint(ctx context.Context) (string, error)
}

// StaticMountpoint adapts an already resolved mountpoint path.
type StaticMountpoint string

// Mountpoint returns the static path.
func (s StaticMountpoint) Mountpoint(context.Context) (string, error) {
	return string(s), nil
}

// Dispatcher syncs configured sources into the dataset mountpoint.
type Dispatcher struct {
	cfg    *model.Config
	mp     Mountpointer
	run    runner.Runner
	l      *zap.Logger
	dryRun bool
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger receiving sync progress and failure records.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.l = l
		}
	}
}

// WithDryRun makes the dispatcher report planned commands instead of
// executing them.
func WithDryRun(dryRun bool) Option {
	return func(d *Dispatcher) {
		d.dryRun = dryRun
	}
}

// New builds a Dispatcher syncing into the dataset mountpoint resolved by
// mp, executing through run.
func New(cfg *model.Config, mp Mountpointer, run runner.Runner, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		cfg: cfg,
		mp:  mp,
		run: run,
		l:   zap.NewNop(),
	}
	for _, apply := range opts {
		apply(d)
	}
	return d
}

type plan struct {
	name string
	argv []string
}

// Sync syncs the selected sources, or every configured source when the
// selection is empty. The whole selection is validated and every command
// line assembled before anything executes; from then on one source's
// failure is logged and does not block its siblings.
func (d *Dispatcher) Sync(ctx context.Context, selection []string) error {
	names, err := d.selectNames(selection)
	if err != nil {
		return err
	}
	// every source must resolve to a syncer before anything external runs,
	// mountpoint lookup included
	for _, name := range names {
		source := d.cfg.Sources[name]
		if _, ok := d.cfg.Syncers[source.Type]; !ok {
			return errors.ErrUnknownSyncer.WrapMessage("source %q has type %q", name, source.Type)
		}
	}

	mountpoint, err := d.mp.Mountpoint(ctx)
	if err != nil {
		return err
	}

	plans := make([]plan, 0, len(names))
	for _, name := range names {
		argv, err := d.expand(name, mountpoint)
		if err != nil {
			return err
		}
		plans = append(plans, plan{name: name, argv: argv})
	}

	failed := 0
	for _, p := range plans {
		if d.dryRun {
			d.l.Info("dry-run: would sync source",
				zap.String("source", p.name),
				zap.String("command", runner.Quote(p.argv)))
			continue
		}
		d.l.Info("syncing source",
			zap.String("source", p.name),
			zap.String("command", runner.Quote(p.argv)))
		res, err := runner.Checked(ctx, d.run, p.argv)
		if err != nil {
			runner.LogFailure(d.l, "sync failed for source "+p.name, p.argv, res)
			failed++
			continue
		}
		d.l.Debug("source synced", zap.String("source", p.name))
	}
	if failed > 0 {
		d.l.Warn("some sources failed to sync",
			zap.Int("failed", failed),
			zap.Int("total", len(plans)))
	}
	return nil
}

// selectNames validates the requested selection against the configuration
// and resolves an empty selection to all sources. The result is sorted and
// de-duplicated, so selection order and repeats do not matter.
func (d *Dispatcher) selectNames(selection []string) ([]string, error) {
	picked := make(map[string]bool)
	if len(selection) == 0 {
		for name := range d.cfg.Sources {
			picked[name] = true
		}
	} else {
		for _, name := range selection {
			if _, ok := d.cfg.Sources[name]; !ok {
				return nil, errors.ErrUnknownSource.WrapMessage("%q", name)
			}
			picked[name] = true
		}
	}
	names := make([]string, 0, len(picked))
	for name := range picked {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// expand assembles the concrete command line for one source.
func (d *Dispatcher) expand(name, mountpoint string) ([]string, error) {
	source := d.cfg.Sources[name]
	sy := d.cfg.Syncers[source.Type]

	options := make([]string, 0, len(sy.Options)+len(source.ExtraOptions))
	options = append(options, sy.Options...)
	options = append(options, source.ExtraOptions...)

	destination := mountpoint + "/" + source.Destination
	return Expand(sy.Command, sy.Binary, options, source.Source, destination)
}
