/*
 * Copyright © 2019 One Concern
 *
 */

package syncer

import (
	"context"
	"testing"

	"github.com/oneconcern/zbak/pkg/errors"
	"github.com/oneconcern/zbak/pkg/model"
	"github.com/oneconcern/zbak/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, argv []string) (runner.Result, error) {
	args := m.Called(ctx, argv)
	return args.Get(0).(runner.Result), args.Error(1)
}

func syncConfig() *model.Config {
	return &model.Config{
		Dataset:  "tank/backup",
		Logfile:  "/var/log/zbak.log",
		Lockfile: "/var/run/zbak.lock",
		Syncers: map[string]model.SyncerDescriptor{
			"rsync": {
				Binary:  "/usr/bin/rsync",
				Command: []string{"$binary", "@options", "$source", "$destination"},
				Options: []string{"-a"},
			},
		},
		Sources: map[string]model.SourceDescriptor{
			"home": {
				Type:         "rsync",
				Source:       "fileserver:/home/",
				Destination:  "home",
				ExtraOptions: []string{"--exclude=.cache"},
			},
			"mail": {
				Type:        "rsync",
				Source:      "mailserver:/var/mail/",
				Destination: "mail",
			},
		},
	}
}

func TestSyncAllSources(t *testing.T) {
	run := &mockRunner{}
	run.On("Run", mock.Anything, []string{
		"/usr/bin/rsync", "-a", "--exclude=.cache", "fileserver:/home/", "/tank/backup/home",
	}).Return(runner.Result{}, nil).Once()
	run.On("Run", mock.Anything, []string{
		"/usr/bin/rsync", "-a", "mailserver:/var/mail/", "/tank/backup/mail",
	}).Return(runner.Result{}, nil).Once()

	d := New(syncConfig(), StaticMountpoint("/tank/backup"), run)
	require.NoError(t, d.Sync(context.Background(), nil))

	run.AssertExpectations(t)
}

func TestSyncSelection(t *testing.T) {
	run := &mockRunner{}
	run.On("Run", mock.Anything, []string{
		"/usr/bin/rsync", "-a", "mailserver:/var/mail/", "/tank/backup/mail",
	}).Return(runner.Result{}, nil).Once()

	d := New(syncConfig(), StaticMountpoint("/tank/backup"), run)
	// duplicates in the selection are harmless
	require.NoError(t, d.Sync(context.Background(), []string{"mail", "mail"}))

	run.AssertExpectations(t)
	run.AssertNumberOfCalls(t, "Run", 1)
}

func TestSyncUnknownSourceExecutesNothing(t *testing.T) {
	run := &mockRunner{}

	d := New(syncConfig(), StaticMountpoint("/tank/backup"), run)
	err := d.Sync(context.Background(), []string{"home", "nosuch"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownSource))

	// validation happens before any external command runs
	run.AssertNumberOfCalls(t, "Run", 0)
}

func TestSyncBadTemplateExecutesNothing(t *testing.T) {
	cfg := syncConfig()
	cfg.Syncers["rsync"] = model.SyncerDescriptor{
		Binary:  "/usr/bin/rsync",
		Command: []string{"$binary", "$bogus"},
	}
	run := &mockRunner{}

	d := New(cfg, StaticMountpoint("/tank/backup"), run)
	err := d.Sync(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBadToken))
	run.AssertNumberOfCalls(t, "Run", 0)
}

func TestSyncUnknownSyncerType(t *testing.T) {
	cfg := syncConfig()
	cfg.Sources["weird"] = model.SourceDescriptor{
		Type:        "teleport",
		Source:      "x",
		Destination: "x",
	}
	run := &mockRunner{}

	d := New(cfg, StaticMountpoint("/tank/backup"), run)
	err := d.Sync(context.Background(), []string{"weird"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownSyncer))
	run.AssertNumberOfCalls(t, "Run", 0)
}

func TestSyncFailureIsolation(t *testing.T) {
	run := &mockRunner{}
	// "home" sorts before "mail": the failing first source must not block
	// the second one
	run.On("Run", mock.Anything, []string{
		"/usr/bin/rsync", "-a", "--exclude=.cache", "fileserver:/home/", "/tank/backup/home",
	}).Return(runner.Result{Stderr: "connection refused\n", ExitCode: 12}, nil).Once()
	run.On("Run", mock.Anything, []string{
		"/usr/bin/rsync", "-a", "mailserver:/var/mail/", "/tank/backup/mail",
	}).Return(runner.Result{}, nil).Once()

	d := New(syncConfig(), StaticMountpoint("/tank/backup"), run)
	require.NoError(t, d.Sync(context.Background(), nil))

	run.AssertExpectations(t)
	run.AssertNumberOfCalls(t, "Run", 2)
}

func TestSyncDryRun(t *testing.T) {
	run := &mockRunner{}

	d := New(syncConfig(), StaticMountpoint("/tank/backup"), run, WithDryRun(true))
	require.NoError(t, d.Sync(context.Background(), nil))
	run.AssertNumberOfCalls(t, "Run", 0)
}
