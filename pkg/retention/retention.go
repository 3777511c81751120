/*
 * Copyright © 2019 One Concern
 *
 */

// Package retention implements the snapshot rotation policies.
//
// A retention class owns a logical sequence of snapshots and caps it at its
// configured keep count. Two schemes exist: numbered generation slots that
// shift down on every rotation, and timestamped snapshots pruned oldest
// first. A class uses exactly one scheme.
package retention

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/oneconcern/zbak/pkg/errors"
	"github.com/oneconcern/zbak/pkg/model"
	"go.uber.org/zap"
)

// Snapshotter is the capability the engine needs from the snapshot tool.
type Snapshotter interface {
	ListSnapshots(ctx context.Context) ([]model.Snapshot, error)
	CreateSnapshot(ctx context.Context, suffix string) error
	RenameSnapshot(ctx context.Context, from, to string) error
	DestroySnapshot(ctx context.Context, suffix string) error
}

// Policy rotates one retention class: create one fresh snapshot and evict or
// renumber older ones so the class stays within its cap.
type Policy interface {
	Rotate(ctx context.Context, class string) error
}

// Engine dispatches rotation to the scheme configured for each class.
//
// Any failure of a destructive step (destroy, rename, create) aborts the
// rotation immediately: continuing after a partial rotation could corrupt
// the slot numbering.
type Engine struct {
	classes map[string]model.RetentionDescriptor
	snaps   Snapshotter
	l       *zap.Logger
	now     func() time.Time
	dryRun  bool
}

var _ Policy = &Engine{}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the logger for rotation progress and dry-run reporting.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.l = l
		}
	}
}

// WithClock overrides the time source for timestamped snapshot names.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithDryRun makes the engine report destructive steps instead of issuing them.
func WithDryRun(dryRun bool) Option {
	return func(e *Engine) {
		e.dryRun = dryRun
	}
}

// New builds the rotation engine for the configured retention classes.
func New(cfg *model.Config, snaps Snapshotter, opts ...Option) *Engine {
	e := &Engine{
		classes: cfg.Retentions,
		snaps:   snaps,
		l:       zap.NewNop(),
		now:     time.Now,
	}
	for _, apply := range opts {
		apply(e)
	}
	return e
}

// Rotate runs one rotation of the named class under its configured scheme.
func (e *Engine) Rotate(ctx context.Context, class string) error {
	rc, ok := e.classes[class]
	if !ok {
		return errors.ErrUnknownClass.WrapMessage("%q is not configured", class)
	}
	snapshots, err := e.snaps.ListSnapshots(ctx)
	if err != nil {
		return err
	}
	switch rc.Scheme {
	case model.SchemeGenerations:
		return e.rotateGenerations(ctx, class, rc, snapshots)
	default:
		return e.rotateTimestamps(ctx, class, rc, snapshots)
	}
}

// rotateGenerations shifts the numbered slots of a class down by one:
// evict the highest slot when the class is full, rename the survivors in
// strictly descending slot order so no rename overwrites an unread slot,
// then create the fresh slot 0.
func (e *Engine) rotateGenerations(ctx context.Context, class string, rc model.RetentionDescriptor, snapshots []model.Snapshot) error {
	slots := make(map[uint64]bool)
	var highest uint64
	for _, s := range snapshots {
		c, slot, ok := model.ParseGeneration(s.Suffix())
		if !ok || c != class {
			continue
		}
		slots[slot] = true
		if slot > highest {
			highest = slot
		}
	}

	// the eviction slot for a capped class; only slots below it get renamed
	top := highest + 1
	if !rc.Unbounded() {
		top = *rc.Keep - 1
		if slots[top] {
			if err := e.destroy(ctx, model.GenerationName(class, top)); err != nil {
				return err
			}
		}
	}
	present := make([]uint64, 0, len(slots))
	for slot := range slots {
		present = append(present, slot)
	}
	sort.Slice(present, func(i, j int) bool { return present[i] > present[j] })
	for _, slot := range present {
		if !rc.Unbounded() && slot >= top {
			// the eviction slot is gone already; strays beyond the cap stay put
			continue
		}
		err := e.rename(ctx, model.GenerationName(class, slot), model.GenerationName(class, slot+1))
		if err != nil {
			return err
		}
	}
	return e.create(ctx, model.GenerationName(class, 0))
}

// rotateTimestamps prunes the single oldest snapshot of the class once the
// cap is reached, then creates a snapshot named after the current local
// time. One call evicts at most one snapshot: a class grown beyond its cap
// through external interference shrinks by only one per rotation.
func (e *Engine) rotateTimestamps(ctx context.Context, class string, rc model.RetentionDescriptor, snapshots []model.Snapshot) error {
	prefix := class + ":"
	var matching []model.Snapshot
	for _, s := range snapshots {
		if strings.HasPrefix(s.Suffix(), prefix) {
			matching = append(matching, s)
		}
	}
	model.SortByNameAsc(matching)

	if !rc.Unbounded() && uint64(len(matching)) >= *rc.Keep {
		if err := e.destroy(ctx, matching[0].Suffix()); err != nil {
			return err
		}
	}
	return e.create(ctx, model.TimestampName(class, e.now()))
}

func (e *Engine) destroy(ctx context.Context, suffix string) error {
	if e.dryRun {
		e.l.Info("dry-run: would destroy snapshot", zap.String("snapshot", suffix))
		return nil
	}
	e.l.Info("destroying snapshot", zap.String("snapshot", suffix))
	return e.snaps.DestroySnapshot(ctx, suffix)
}

func (e *Engine) rename(ctx context.Context, from, to string) error {
	if e.dryRun {
		e.l.Info("dry-run: would rename snapshot", zap.String("from", from), zap.String("to", to))
		return nil
	}
	e.l.Info("renaming snapshot", zap.String("from", from), zap.String("to", to))
	return e.snaps.RenameSnapshot(ctx, from, to)
}

func (e *Engine) create(ctx context.Context, suffix string) error {
	if e.dryRun {
		e.l.Info("dry-run: would create snapshot", zap.String("snapshot", suffix))
		return nil
	}
	e.l.Info("creating snapshot", zap.String("snapshot", suffix))
	return e.snaps.CreateSnapshot(ctx, suffix)
}
