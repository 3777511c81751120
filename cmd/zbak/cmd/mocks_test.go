// Copyright © 2019 One Concern

package cmd

import (
	"context"
	"fmt"

	"github.com/oneconcern/zbak/pkg/runner"
	"github.com/stretchr/testify/mock"
)

// ExitMocks patches over the fatal/exit globals so CLI tests observe
// failures instead of dying. Plain fatals and usage-printing exits are
// counted separately: the error taxonomy distinguishes them.
type ExitMocks struct {
	fatals []string
	exits  []int
}

func (m *ExitMocks) Fatalf(format string, v ...interface{}) {
	m.fatals = append(m.fatals, fmt.Sprintf(format, v...))
}

func (m *ExitMocks) Fatalln(v ...interface{}) {
	m.fatals = append(m.fatals, fmt.Sprintln(v...))
}

func (m *ExitMocks) Exit(code int) {
	m.exits = append(m.exits, code)
}

func (m *ExitMocks) fatalCalls() int {
	return len(m.fatals) + len(m.exits)
}

func NewExitMocks() *ExitMocks {
	return &ExitMocks{}
}

var exitMocks *ExitMocks

// spyRunner stands in for the external command executor.
type spyRunner struct {
	mock.Mock
}

func (s *spyRunner) Run(ctx context.Context, argv []string) (runner.Result, error) {
	args := s.Called(ctx, argv)
	return args.Get(0).(runner.Result), args.Error(1)
}
