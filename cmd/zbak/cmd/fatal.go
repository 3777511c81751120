// Copyright © 2019 One Concern

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	// globals used to patch over calls to os.Exit() during test

	logFatalln = log.Fatalln
	logFatalf  = log.Fatalf
	osExit     = os.Exit

	// infoLogger wraps informative messages to os.Stdout without cluttering expected output in tests.
	// To be used instead of fmt.Printf(os.Stdout, ...)
	infoLogger = log.New(os.Stdout, "", 0)
)

// wrapFatalln reports a fatal error without usage text: policy errors and
// failed external commands are not invocation mistakes.
func wrapFatalln(msg string, err error) {
	if err == nil {
		logFatalln(msg)
	} else {
		logFatalf("%v", fmt.Errorf(msg+": %w", err))
	}
}

// wrapFatalUsage reports a usage or configuration error along with the
// command's usage text.
func wrapFatalUsage(cmd *cobra.Command, msg string, err error) {
	if err == nil {
		fmt.Fprintln(os.Stderr, msg)
	} else {
		fmt.Fprintf(os.Stderr, "%v\n", fmt.Errorf(msg+": %w", err))
	}
	_ = cmd.Usage()
	osExit(1)
}
