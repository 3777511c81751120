/*
 * Copyright © 2019 One Concern
 *
 */

package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TimestampFormat is the layout for timestamped snapshot names. Local time,
// zero padded, no timezone suffix: within one host its lexical order is its
// chronological order.
const TimestampFormat = "2006-01-02T15:04:05"

// Snapshot is one row reported by the external snapshot lister.
// Name is the fully qualified name (dataset@suffix); the pool usage row
// carries the bare dataset name instead.
type Snapshot struct {
	Name     string
	Used     uint64
	Avail    uint64
	Refer    uint64
	Creation time.Time
	_        struct{}
}

// Suffix returns the part after the "@" separator, or "" for the pool row.
func (s Snapshot) Suffix() string {
	if i := strings.IndexByte(s.Name, '@'); i >= 0 {
		return s.Name[i+1:]
	}
	return ""
}

// SnapshotName builds the fully qualified name for a snapshot suffix.
func SnapshotName(dataset, suffix string) string {
	return dataset + "@" + suffix
}

// GenerationName builds the suffix of a numbered generation slot, e.g. "daily.0".
func GenerationName(class string, slot uint64) string {
	return fmt.Sprintf("%s.%d", class, slot)
}

// TimestampName builds the suffix of a timestamped snapshot, e.g.
// "daily:2024-01-01T00:00:00".
func TimestampName(class string, t time.Time) string {
	return class + ":" + t.Format(TimestampFormat)
}

// ParseGeneration splits a generation suffix into class and slot.
// The last return is false when the suffix is not of the "class.N" form.
func ParseGeneration(suffix string) (string, uint64, bool) {
	i := strings.LastIndexByte(suffix, '.')
	if i <= 0 || i == len(suffix)-1 {
		return "", 0, false
	}
	slot, err := strconv.ParseUint(suffix[i+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return suffix[:i], slot, true
}

// ClassOf extracts the retention class prefix from a snapshot suffix.
// Timestamped suffixes split at the first ":", generation suffixes at the
// trailing ".N"; anything else is its own class.
func ClassOf(suffix string) string {
	if i := strings.IndexByte(suffix, ':'); i >= 0 {
		return suffix[:i]
	}
	if class, _, ok := ParseGeneration(suffix); ok {
		return class
	}
	return suffix
}

// SortByCreationDesc orders snapshots newest first, in place.
func SortByCreationDesc(snapshots []Snapshot) {
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].Creation.After(snapshots[j].Creation)
	})
}

// SortByNameAsc orders snapshots by name, in place. For timestamped
// snapshots of one class this is oldest first.
func SortByNameAsc(snapshots []Snapshot) {
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].Name < snapshots[j].Name
	})
}
