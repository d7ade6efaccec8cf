// Copyright (c) 2026 Tigera, Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/projectcalico/maglev/pkg/config"
	"github.com/projectcalico/maglev/pkg/logutils"
	"github.com/projectcalico/maglev/pkg/maglev"
)

// Exit codes.  Every failure exits non-zero; the code tells the caller which kind.
const (
	ExitOK                  = 0
	ExitFailure             = 1
	ExitUsage               = 2
	ExitInvalidArgument     = 3
	ExitAllocationFailure   = 4
	ExitConstructionFailure = 5
)

// usageError marks errors caused by how the command was invoked rather than by the
// table build itself.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }

func (e usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...interface{}) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ue usageError
	if errors.As(err, &ue) {
		return ExitUsage
	}
	switch maglev.Kind(err) {
	case maglev.ErrInvalidArgument:
		return ExitInvalidArgument
	case maglev.ErrAllocationFailure:
		return ExitAllocationFailure
	case maglev.ErrConstructionFailure:
		return ExitConstructionFailure
	}
	return ExitFailure
}

// globalOptions is shared by every subcommand.  cfg is loaded from the environment
// before any subcommand runs and then overridden by flags.
type globalOptions struct {
	logLevel string
	cfg      *config.Config
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	cmd := &cobra.Command{
		Use:   "maglev",
		Short: "Builds Maglev consistent-hashing lookup tables",
		Long: "maglev builds the lookup table used by Maglev load balancing: a prime number of " +
			"slots, each owned by one backend, such that removing a backend only moves its own slots.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return usageError{err: errors.WithMessage(err, "invalid environment")}
			}
			if c.Flags().Changed("log-level") {
				cfg.LogLevel = g.logLevel
			}
			logutils.ConfigureLogging(cfg.LogLevel)
			log.SetOutput(c.ErrOrStderr())
			log.WithField("config", cfg).Debug("Loaded configuration")
			g.cfg = cfg
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return usageErrorf("no command given")
		},
	}
	cmd.PersistentFlags().StringVarP(&g.logLevel, "log-level", "l", "warning",
		"log level (one of panic, fatal, error, warning, info, debug)")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	cmd.AddCommand(newBuildCmd(g))
	cmd.AddCommand(newDiffCmd(g))
	cmd.AddCommand(newPrimesCmd())
	return cmd
}

// Execute runs the CLI with the given arguments and returns the exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args for nil.
		args = []string{}
	}
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	c, err := root.ExecuteC()
	code := ExitCode(err)
	if err != nil && code == ExitFailure && strings.HasPrefix(err.Error(), "unknown command") {
		code = ExitUsage
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		if code == ExitUsage {
			_, _ = fmt.Fprint(stderr, c.UsageString())
		}
	}
	return code
}

// makeDocUsage turns the command's Use line into a docopt usage string.
func makeDocUsage(c *cobra.Command) string {
	return "Usage:\n  " + c.Use + "\n"
}

// bindArgs parses positional args against the command's Use line and binds them into
// the docopt-tagged fields of target.  cobra has already consumed the flags, so
// everything after the first positional is taken literally, including names that
// start with '-'.
func bindArgs(c *cobra.Command, args []string, target interface{}) error {
	parser := &docopt.Parser{
		HelpHandler:   docopt.NoHelpHandler,
		OptionsFirst:  true,
		SkipHelpFlags: true,
	}
	a, err := parser.ParseArgs(makeDocUsage(c), args, "")
	if err != nil {
		return usageErrorf("invalid arguments %q for %q", args, c.Use)
	}
	if err := a.Bind(target); err != nil {
		return usageError{err: err}
	}
	return nil
}
