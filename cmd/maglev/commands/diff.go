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
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/projectcalico/maglev/pkg/maglev"
)

type diffArgs struct {
	TableSize string `docopt:"<table-size>"`
	Before    string `docopt:"<before>"`
	After     string `docopt:"<after>"`
}

type diffCmd struct {
	*cobra.Command
	global *globalOptions

	hash string

	tableSize     int
	before, after []string
}

func newDiffCmd(g *globalOptions) *cobra.Command {
	cmd := &diffCmd{
		Command: &cobra.Command{
			Use:   "diff <table-size> <before> <after>",
			Short: "shows how many slots move between two backend sets",
			Long: "diff builds a table for each of two comma separated backend lists and reports " +
				"how many slots changed owner, and how many slots each backend owns before and after.",
		},
		global: g,
	}
	cmd.Flags().StringVar(&cmd.hash, "hash", "", "hash pair used to place backends")

	cmd.Command.Args = cmd.parseArgs
	cmd.Command.RunE = cmd.run
	return cmd.Command
}

func (cmd *diffCmd) parseArgs(c *cobra.Command, args []string) error {
	var a diffArgs
	if err := bindArgs(c, args, &a); err != nil {
		return err
	}
	size, err := parseTableSize(a.TableSize)
	if err != nil {
		return err
	}
	cmd.tableSize = size
	cmd.before = splitBackends(a.Before)
	cmd.after = splitBackends(a.After)
	return nil
}

func splitBackends(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func (cmd *diffCmd) run(c *cobra.Command, _ []string) error {
	cfg := *cmd.global.cfg
	if c.Flags().Changed("hash") {
		cfg.Hash = cmd.hash
	}
	opts, err := cfg.BuildOptions()
	if err != nil {
		return usageError{err: err}
	}

	before, err := maglev.Build(cmd.before, cmd.tableSize, opts...)
	if err != nil {
		return errors.WithMessage(err, "failed to build the <before> table")
	}
	after, err := maglev.Build(cmd.after, cmd.tableSize, opts...)
	if err != nil {
		return errors.WithMessage(err, "failed to build the <after> table")
	}
	changed, err := maglev.Diff(before, after)
	if err != nil {
		return err
	}

	out := c.OutOrStdout()
	_, _ = fmt.Fprintf(out, "changed %d of %d slots (%s)\n", changed, before.Size(), percent(changed, before.Size()))

	beforeCounts := countsByName(before)
	afterCounts := countsByName(after)
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Backend", "Before", "After"})
	for _, name := range unionNames(before.Backends(), after.Backends()) {
		table.Append([]string{name, strconv.Itoa(beforeCounts[name]), strconv.Itoa(afterCounts[name])})
	}
	table.Render()
	return nil
}

func countsByName(t *maglev.Table) map[string]int {
	counts := t.Counts()
	byName := make(map[string]int, len(counts))
	for i, name := range t.Backends() {
		byName[name] = counts[i]
	}
	return byName
}

// unionNames returns a followed by the names of b that are not in a.
func unionNames(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, n := range list {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}
