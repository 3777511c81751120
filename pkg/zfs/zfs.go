/*
 * Copyright © 2019 One Concern
 *
 */

// Package zfs drives the external snapshot tooling for one dataset: listing
// snapshots and pool usage, and creating, renaming and destroying snapshots.
// All state lives in the pool itself; nothing is cached between calls.
package zfs

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/oneconcern/zbak/pkg/errors"
	"github.com/oneconcern/zbak/pkg/model"
	"github.com/oneconcern/zbak/pkg/runner"
	"go.uber.org/zap"
)

// Binary is the snapshot management tool invoked for every operation.
const Binary = "zfs"

// Pool wraps the external tool for a single dataset.
type Pool struct {
	dataset string
	run     runner.Runner
	l       *zap.Logger
}

// Option customizes a Pool.
type Option func(*Pool)

// WithLogger sets the logger receiving command diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.l = l
		}
	}
}

// New builds a Pool for dataset, executing commands through r.
func New(dataset string, r runner.Runner, opts ...Option) *Pool {
	p := &Pool{
		dataset: dataset,
		run:     r,
		l:       zap.NewNop(),
	}
	for _, apply := range opts {
		apply(p)
	}
	return p
}

// Dataset returns the dataset this pool manages.
func (p *Pool) Dataset() string {
	return p.dataset
}

// Listing is the outcome of one query against the external lister: the
// dataset's own usage row plus all of its snapshots.
type Listing struct {
	Pool      model.Snapshot
	Snapshots []model.Snapshot
	_         struct{}
}

// List queries the dataset usage row and every snapshot beneath it in a
// single external call.
func (p *Pool) List(ctx context.Context) (Listing, error) {
	argv := []string{
		Binary, "list", "-Hp",
		"-t", "filesystem,snapshot",
		"-o", "name,used,avail,refer,creation",
		"-r", p.dataset,
	}
	res, err := p.checked(ctx, "list snapshots", argv)
	if err != nil {
		return Listing{}, err
	}
	return p.parseListing(res.Stdout)
}

// ListSnapshots returns the snapshots of the dataset, without the pool row.
func (p *Pool) ListSnapshots(ctx context.Context) ([]model.Snapshot, error) {
	listing, err := p.List(ctx)
	if err != nil {
		return nil, err
	}
	return listing.Snapshots, nil
}

// Mountpoint resolves where the dataset is mounted.
func (p *Pool) Mountpoint(ctx context.Context) (string, error) {
	argv := []string{Binary, "get", "-H", "-o", "value", "mountpoint", p.dataset}
	res, err := p.checked(ctx, "resolve mountpoint", argv)
	if err != nil {
		return "", err
	}
	mountpoint := strings.TrimSpace(res.Stdout)
	if mountpoint == "" || mountpoint == "-" || mountpoint == "none" {
		return "", errors.Newf("dataset %s has no usable mountpoint (got %q)", p.dataset, mountpoint)
	}
	return mountpoint, nil
}

// CreateSnapshot creates dataset@suffix.
func (p *Pool) CreateSnapshot(ctx context.Context, suffix string) error {
	argv := []string{Binary, "snapshot", model.SnapshotName(p.dataset, suffix)}
	_, err := p.checked(ctx, "create snapshot "+suffix, argv)
	return err
}

// RenameSnapshot renames dataset@from to dataset@to.
func (p *Pool) RenameSnapshot(ctx context.Context, from, to string) error {
	argv := []string{
		Binary, "rename",
		model.SnapshotName(p.dataset, from),
		model.SnapshotName(p.dataset, to),
	}
	_, err := p.checked(ctx, "rename snapshot "+from+" to "+to, argv)
	return err
}

// DestroySnapshot destroys dataset@suffix.
func (p *Pool) DestroySnapshot(ctx context.Context, suffix string) error {
	argv := []string{Binary, "destroy", model.SnapshotName(p.dataset, suffix)}
	_, err := p.checked(ctx, "destroy snapshot "+suffix, argv)
	return err
}

func (p *Pool) checked(ctx context.Context, msg string, argv []string) (runner.Result, error) {
	p.l.Debug("running", zap.String("command", runner.Quote(argv)))
	res, err := runner.Checked(ctx, p.run, argv)
	if err != nil {
		var exitErr *runner.ExitError
		if errors.As(err, &exitErr) {
			runner.LogFailure(p.l, msg, argv, res)
		}
		return res, err
	}
	return res, nil
}

// parseListing splits the tab-separated rows of the lister output, keeping
// the dataset's own row and its snapshots. Child datasets are ignored.
func (p *Pool) parseListing(out string) (Listing, error) {
	var listing Listing
	snapshotPrefix := p.dataset + "@"

	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 5 {
			return Listing{}, errors.Newf("unexpected lister row %q", line)
		}
		name := fields[0]
		if name != p.dataset && !strings.HasPrefix(name, snapshotPrefix) {
			continue
		}
		row, err := parseRow(name, fields)
		if err != nil {
			return Listing{}, err
		}
		if name == p.dataset {
			listing.Pool = row
			continue
		}
		listing.Snapshots = append(listing.Snapshots, row)
	}
	return listing, nil
}

func parseRow(name string, fields []string) (model.Snapshot, error) {
	used, err := parseSize(fields[1])
	if err != nil {
		return model.Snapshot{}, errors.Newf("row %q: bad used value: %v", name, err)
	}
	avail, err := parseSize(fields[2])
	if err != nil {
		return model.Snapshot{}, errors.Newf("row %q: bad avail value: %v", name, err)
	}
	refer, err := parseSize(fields[3])
	if err != nil {
		return model.Snapshot{}, errors.Newf("row %q: bad refer value: %v", name, err)
	}
	epoch, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return model.Snapshot{}, errors.Newf("row %q: bad creation value: %v", name, err)
	}
	return model.Snapshot{
		Name:     name,
		Used:     used,
		Avail:    avail,
		Refer:    refer,
		Creation: time.Unix(epoch, 0),
	}, nil
}

// parseSize handles the "-" the lister reports for properties that do not
// apply, such as avail on snapshots.
func parseSize(s string) (uint64, error) {
	if s == "-" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, 64)
}
