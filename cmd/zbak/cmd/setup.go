// Copyright © 2019 One Concern

package cmd

import (
	"github.com/oneconcern/zbak/pkg/dlogger"
	"github.com/oneconcern/zbak/pkg/model"
	"github.com/oneconcern/zbak/pkg/pidfile"
	"github.com/oneconcern/zbak/pkg/runner"
	"go.uber.org/zap"
)

// execRunner executes external commands; patched over with a spy in tests.
var execRunner runner.Runner = runner.Exec{}

// newLogger opens the configured logfile sink. The second return releases
// the underlying file.
func newLogger(cfg *model.Config) (*zap.Logger, func(), bool) {
	logger, closeLog, err := dlogger.GetFileLogger(cfg.Logfile, zbakFlags.root.verbosity)
	if err != nil {
		wrapFatalln("opening logfile "+cfg.Logfile, err)
		return zap.NewNop(), func() {}, false
	}
	return logger, closeLog, true
}

// acquireLock takes the process-wide advisory lock guarding mutating
// operations. A lock held by a live process is fatal.
func acquireLock(cfg *model.Config, logger *zap.Logger) (*pidfile.Lock, bool) {
	lock, err := pidfile.New(cfg.Lockfile, pidfile.WithLogger(logger))
	if err != nil {
		wrapFatalln("preparing lockfile "+cfg.Lockfile, err)
		return nil, false
	}
	if err := lock.Acquire(); err != nil {
		wrapFatalln("another zbak instance may be running", err)
		return nil, false
	}
	return lock, true
}
