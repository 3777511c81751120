/*
 * Copyright © 2019 One Concern
 *
 */

// Package runner executes external commands and captures their output.
//
// Commands are always executed from an argument vector, never through a
// shell. The shell-quoted rendering produced by Quote is cosmetic, for logs
// and error messages only.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Result captures everything an external command reported back.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	_        struct{}
}

// Runner runs one external command to completion and reports its outcome.
// An error is returned only when the command could not be run at all
// (e.g. missing binary): a non-zero exit is a Result, not an error.
type Runner interface {
	Run(ctx context.Context, argv []string) (Result, error)
}

// Exec is the Runner backed by os/exec.
type Exec struct{}

// Run executes argv[0] with the remaining elements as arguments, blocking
// until completion.
func (Exec) Run(ctx context.Context, argv []string) (Result, error) {
	if len(argv) == 0 {
		return Result{ExitCode: -1}, fmt.Errorf("empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		res.ExitCode = -1
		return res, fmt.Errorf("run %s: %w", Quote(argv), err)
	}
	res.ExitCode = cmd.ProcessState.ExitCode()
	return res, nil
}

// ExitError reports a command that ran and returned a non-zero exit code.
type ExitError struct {
	Argv   []string
	Result Result
	_      struct{}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit code %d", Quote(e.Argv), e.Result.ExitCode)
}

// Checked runs argv through r and converts a non-zero exit into an
// *ExitError carrying the full diagnostic context.
func Checked(ctx context.Context, r Runner, argv []string) (Result, error) {
	res, err := r.Run(ctx, argv)
	if err != nil {
		return res, err
	}
	if res.ExitCode != 0 {
		return res, &ExitError{Argv: argv, Result: res}
	}
	return res, nil
}

// LogFailure emits the structured record for a failed external command:
// message, quoted command, exit code and the captured output, indented.
func LogFailure(l *zap.Logger, msg string, argv []string, res Result) {
	l.Error(msg,
		zap.String("command", Quote(argv)),
		zap.Int("exit_code", res.ExitCode),
		zap.String("stdout", Indent(res.Stdout)),
		zap.String("stderr", Indent(res.Stderr)),
	)
}

// Indent prefixes every non-empty line with two spaces.
func Indent(s string) string {
	if s == "" {
		return s
	}
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}

// Quote renders argv as a copy-pasteable shell string. Tokens without
// specials pass through bare, others are single-quoted.
func Quote(argv []string) string {
	quoted := make([]string, 0, len(argv))
	for _, arg := range argv {
		quoted = append(quoted, quoteToken(arg))
	}
	return strings.Join(quoted, " ")
}

const safeTokenChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789@%_-+=:,./"

func quoteToken(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !strings.ContainsRune(safeTokenChars, r) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
