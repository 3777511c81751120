// Package model describes the base objects manipulated by zbak.
//
// The object model is composed of:
//
//  Dataset:
//    The storage pool filesystem used as the backup target. Snapshots and
//    synced source data both live under it.
//
//  Retention classes:
//    Named policies ("daily", "weekly", ...) governing how many historical
//    snapshots of that cadence are kept, and under which naming scheme
//    (numbered generation slots or timestamps).
//
//  Syncers:
//    Named external data movers, defined by a binary, a command template
//    and base options.
//
//  Sources:
//    Remote or local origins paired with a destination under the dataset
//    mountpoint, each bound to a syncer by type.
package model
