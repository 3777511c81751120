/*
 * Copyright © 2019 One Concern
 *
 */

// Package pidfile guards snapshot and sync runs with a process-wide advisory
// lock. The lock file holds the owner's pid: a live owner makes acquisition
// fail, a stale file left by a dead process is taken over.
package pidfile

import (
	"path/filepath"

	"github.com/nightlyone/lockfile"
	"github.com/oneconcern/zbak/pkg/errors"
	"go.uber.org/zap"
)

// Lock is a pidfile-based advisory lock.
type Lock struct {
	lf lockfile.Lockfile
	l  *zap.Logger
}

// Option customizes a Lock.
type Option func(*Lock)

// WithLogger sets the logger reporting release failures.
func WithLogger(l *zap.Logger) Option {
	return func(lk *Lock) {
		if l != nil {
			lk.l = l
		}
	}
}

// New prepares a lock at path. Nothing is locked yet.
func New(path string, opts ...Option) (*Lock, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	lf, err := lockfile.New(abs)
	if err != nil {
		return nil, err
	}
	lk := &Lock{
		lf: lf,
		l:  zap.NewNop(),
	}
	for _, apply := range opts {
		apply(lk)
	}
	return lk, nil
}

// Acquire takes the lock, writing this process's pid. A lock held by a live
// process is fatal to the caller; a stale lock left behind by a dead one is
// silently taken over.
func (lk *Lock) Acquire() error {
	err := lk.lf.TryLock()
	if err == nil {
		return nil
	}
	if errors.Is(err, lockfile.ErrBusy) {
		if owner, ownerErr := lk.lf.GetOwner(); ownerErr == nil && owner != nil {
			return errors.ErrLockHeld.WrapMessage("%s owned by pid %d", string(lk.lf), owner.Pid)
		}
		return errors.ErrLockHeld.WrapMessage("%s", string(lk.lf))
	}
	return errors.Newf("acquire lock %s", string(lk.lf)).Wrap(err)
}

// Release drops the lock. Failures are reported but never fatal: the
// process is exiting anyway.
func (lk *Lock) Release() {
	if err := lk.lf.Unlock(); err != nil {
		lk.l.Warn("failed to release lock",
			zap.String("lockfile", string(lk.lf)),
			zap.Error(err))
	}
}
