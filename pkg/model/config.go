/*
 * Copyright © 2019 One Concern
 *
 */

package model

import (
	"fmt"
)

// Retention schemes. A retention class rotates its snapshots either as
// numbered generation slots or as timestamped snapshots pruned oldest-first.
const (
	SchemeGenerations = "generations"
	SchemeTimestamps  = "timestamps"
)

// Config is the fully loaded zbak configuration for one process invocation.
// It is read once and never mutated afterwards.
type Config struct {
	Dataset    string                         `json:"dataset" yaml:"dataset" mapstructure:"dataset"`
	Logfile    string                         `json:"logfile" yaml:"logfile" mapstructure:"logfile"`
	Lockfile   string                         `json:"lockfile" yaml:"lockfile" mapstructure:"lockfile"`
	Syncers    map[string]SyncerDescriptor    `json:"syncers" yaml:"syncers" mapstructure:"syncers"`
	Sources    map[string]SourceDescriptor    `json:"sources" yaml:"sources" mapstructure:"sources"`
	Retentions map[string]RetentionDescriptor `json:"retentions" yaml:"retentions" mapstructure:"retentions"`
	_          struct{}
}

// SyncerDescriptor defines an external data mover: the binary to run, the
// command template assembling its argument vector and the base options
// spliced in wherever the template says "@options".
type SyncerDescriptor struct {
	Binary  string   `json:"binary" yaml:"binary" mapstructure:"binary"`
	Command []string `json:"command" yaml:"command" mapstructure:"command"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty" mapstructure:"options"`
	_       struct{}
}

// SourceDescriptor pairs a remote or local origin with a destination path
// relative to the dataset mountpoint, bound to a syncer by type.
type SourceDescriptor struct {
	Type         string   `json:"type" yaml:"type" mapstructure:"type"`
	Source       string   `json:"source" yaml:"source" mapstructure:"source"`
	Destination  string   `json:"destination" yaml:"destination" mapstructure:"destination"`
	ExtraOptions []string `json:"extra_options,omitempty" yaml:"extra_options,omitempty" mapstructure:"extra_options"`
	_            struct{}
}

// RetentionDescriptor is a named retention policy. A nil Keep means the
// class retains snapshots forever.
type RetentionDescriptor struct {
	Keep   *uint64 `json:"keep,omitempty" yaml:"keep,omitempty" mapstructure:"keep"`
	Scheme string  `json:"scheme,omitempty" yaml:"scheme,omitempty" mapstructure:"scheme"`
	_      struct{}
}

// Unbounded tells whether the class retains snapshots forever.
func (r RetentionDescriptor) Unbounded() bool {
	return r.Keep == nil
}

// Validate checks the invariants the rest of the tool relies upon.
// It must pass before any command interprets the configuration.
func (c *Config) Validate() error {
	if c.Dataset == "" {
		return fmt.Errorf("config: dataset is required")
	}
	if c.Logfile == "" {
		return fmt.Errorf("config: logfile is required")
	}
	if c.Lockfile == "" {
		return fmt.Errorf("config: lockfile is required")
	}
	for name, source := range c.Sources {
		if source.Type == "" {
			return fmt.Errorf("config: source %q has no type", name)
		}
		if _, ok := c.Syncers[source.Type]; !ok {
			return fmt.Errorf("config: source %q refers to unknown syncer type %q", name, source.Type)
		}
		if source.Destination == "" {
			return fmt.Errorf("config: source %q has no destination", name)
		}
	}
	for name, syncer := range c.Syncers {
		if syncer.Binary == "" {
			return fmt.Errorf("config: syncer %q has no binary", name)
		}
		if len(syncer.Command) == 0 {
			return fmt.Errorf("config: syncer %q has no command template", name)
		}
	}
	for name, retention := range c.Retentions {
		if retention.Keep != nil && *retention.Keep == 0 {
			return fmt.Errorf("config: retention class %q: keep must be a positive integer", name)
		}
		switch retention.Scheme {
		case "", SchemeGenerations, SchemeTimestamps:
		default:
			return fmt.Errorf("config: retention class %q: unknown scheme %q", name, retention.Scheme)
		}
	}
	return nil
}
