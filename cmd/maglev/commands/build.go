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
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/projectcalico/maglev/pkg/config"
	"github.com/projectcalico/maglev/pkg/maglev"
)

type buildArgs struct {
	TableSize string   `docopt:"<table-size>"`
	Backends  []string `docopt:"<backend>"`
}

type buildCmd struct {
	*cobra.Command
	global *globalOptions

	file   string
	output string
	hash   string
	strict bool

	tableSize int
	backends  []string
}

func newBuildCmd(g *globalOptions) *cobra.Command {
	cmd := &buildCmd{
		Command: &cobra.Command{
			Use:   "build <table-size> <backend>...",
			Short: "builds a lookup table and prints the backend index of every slot",
			Long: "build assigns each of <table-size> slots to one of the backends, in the order given, " +
				"and prints the owning backend index of every slot separated by spaces. " +
				"<table-size> must be prime.",
		},
		global: g,
	}
	cmd.Flags().StringVarP(&cmd.file, "file", "f", "", "read the table size and backends from a YAML build spec")
	cmd.Flags().StringVarP(&cmd.output, "output", "o", "", "output format (indices, json, yaml, summary)")
	cmd.Flags().StringVar(&cmd.hash, "hash", "", "hash pair used to place backends ("+strings.Join(maglev.HashPairNames(), ", ")+")")
	cmd.Flags().BoolVar(&cmd.strict, "strict", false, "fail if the table has fewer slots than backends")

	cmd.Command.Args = cmd.parseArgs
	cmd.Command.RunE = cmd.run
	return cmd.Command
}

func (cmd *buildCmd) parseArgs(c *cobra.Command, args []string) error {
	if cmd.file != "" {
		if len(args) != 0 {
			return usageErrorf("--file cannot be combined with positional arguments")
		}
		return nil
	}

	var a buildArgs
	if err := bindArgs(c, args, &a); err != nil {
		return err
	}
	size, err := parseTableSize(a.TableSize)
	if err != nil {
		return err
	}
	cmd.tableSize = size
	cmd.backends = a.Backends
	return nil
}

func (cmd *buildCmd) run(c *cobra.Command, _ []string) error {
	if cmd.file != "" {
		spec, err := config.LoadBuildSpec(cmd.file)
		if err != nil {
			return usageError{err: errors.WithMessagef(err, "failed to load %s", cmd.file)}
		}
		cmd.tableSize = spec.TableSize
		cmd.backends = spec.Backends
	}

	cfg := *cmd.global.cfg
	if c.Flags().Changed("output") {
		cfg.Output = cmd.output
	}
	if c.Flags().Changed("hash") {
		cfg.Hash = cmd.hash
	}
	if c.Flags().Changed("strict") {
		cfg.StrictCoverage = cmd.strict
	}
	if err := cfg.Validate(); err != nil {
		return usageError{err: err}
	}
	opts, err := cfg.BuildOptions()
	if err != nil {
		return usageError{err: err}
	}

	t, err := maglev.Build(cmd.backends, cmd.tableSize, opts...)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"tableSize": cmd.tableSize,
			"backends":  len(cmd.backends),
		}).Debug("Build failed")
		return errors.WithMessage(err, "failed to build lookup table")
	}
	return writeTable(c.OutOrStdout(), cfg.Output, cfg.Hash, t)
}

func parseTableSize(s string) (int, error) {
	size, err := strconv.ParseInt(s, 10, 0)
	if err != nil {
		return 0, usageErrorf("table size: %q is not an integer", s)
	}
	return int(size), nil
}
