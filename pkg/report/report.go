/*
 * Copyright © 2019 One Concern
 *
 */

// Package report renders the read-only listings: configured sources and
// retention classes, and the snapshot inventory with pool usage.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/gosuri/uitable"
	"github.com/oneconcern/zbak/pkg/model"
	"github.com/oneconcern/zbak/pkg/units"
	"github.com/oneconcern/zbak/pkg/zfs"
)

// Lister is the single query the snapshot report needs: pool usage row and
// all snapshots in one call.
type Lister interface {
	List(ctx context.Context) (zfs.Listing, error)
}

// Reporter renders listings for one configuration.
type Reporter struct {
	cfg       *model.Config
	out       io.Writer
	verbosity int
}

// Option customizes a Reporter.
type Option func(*Reporter)

// WithOutput redirects the rendered report (stdout by default).
func WithOutput(w io.Writer) Option {
	return func(r *Reporter) {
		if w != nil {
			r.out = w
		}
	}
}

// WithVerbosity sets the report detail level.
func WithVerbosity(v int) Option {
	return func(r *Reporter) {
		r.verbosity = v
	}
}

// New builds a Reporter.
func New(cfg *model.Config, opts ...Option) *Reporter {
	r := &Reporter{
		cfg: cfg,
		out: os.Stdout,
	}
	for _, apply := range opts {
		apply(r)
	}
	return r
}

// Sources renders one line per configured source, with origin, destination
// and type in verbose mode.
func (r *Reporter) Sources() error {
	names := sortedKeys(r.cfg.Sources)
	if r.verbosity == 0 {
		for _, name := range names {
			fmt.Fprintln(r.out, name)
		}
		return nil
	}
	table := uitable.New()
	table.AddRow("NAME", "SOURCE", "DESTINATION", "TYPE")
	for _, name := range names {
		source := r.cfg.Sources[name]
		table.AddRow(name, source.Source, source.Destination, source.Type)
	}
	fmt.Fprintln(r.out, table)
	return nil
}

// Retentions renders one line per retention class, with the keep count (or
// "forever") and the scheme in verbose mode.
func (r *Reporter) Retentions() error {
	names := sortedKeys(r.cfg.Retentions)
	if r.verbosity == 0 {
		for _, name := range names {
			fmt.Fprintln(r.out, name)
		}
		return nil
	}
	table := uitable.New()
	table.AddRow("NAME", "KEEP", "SCHEME")
	for _, name := range names {
		retention := r.cfg.Retentions[name]
		keep := "forever"
		if retention.Keep != nil {
			keep = fmt.Sprintf("%d", *retention.Keep)
		}
		scheme := retention.Scheme
		if scheme == "" {
			scheme = model.SchemeTimestamps
		}
		table.AddRow(name, keep, scheme)
	}
	fmt.Fprintln(r.out, table)
	return nil
}

// Snapshots queries the pool once and renders its usage followed by the
// managed and unmanaged snapshots, newest first. A snapshot is managed when
// its class prefix names a configured retention class.
func (r *Reporter) Snapshots(ctx context.Context, lister Lister) error {
	listing, err := lister.List(ctx)
	if err != nil {
		return err
	}

	var managed, unmanaged []model.Snapshot
	for _, s := range listing.Snapshots {
		if _, ok := r.cfg.Retentions[model.ClassOf(s.Suffix())]; ok {
			managed = append(managed, s)
		} else {
			unmanaged = append(unmanaged, s)
		}
	}
	model.SortByCreationDesc(managed)
	model.SortByCreationDesc(unmanaged)

	pool := uitable.New()
	pool.AddRow("POOL", "USED", "AVAIL")
	pool.AddRow(listing.Pool.Name, units.FormatBytes(listing.Pool.Used), units.FormatBytes(listing.Pool.Avail))
	fmt.Fprintln(r.out, pool)

	fmt.Fprintln(r.out)
	r.renderSnapshots("MANAGED SNAPSHOTS", managed)
	fmt.Fprintln(r.out)
	r.renderSnapshots("UNMANAGED SNAPSHOTS", unmanaged)
	return nil
}

func (r *Reporter) renderSnapshots(header string, snapshots []model.Snapshot) {
	table := uitable.New()
	if r.verbosity >= 2 {
		table.AddRow(header, "USED", "REFER", "CREATED")
	} else {
		table.AddRow(header, "USED", "REFER")
	}
	for _, s := range snapshots {
		if r.verbosity >= 2 {
			table.AddRow(s.Name, units.FormatBytes(s.Used), units.FormatBytes(s.Refer),
				s.Creation.Format(model.TimestampFormat))
			continue
		}
		table.AddRow(s.Name, units.FormatBytes(s.Used), units.FormatBytes(s.Refer))
	}
	fmt.Fprintln(r.out, table)
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
