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
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/projectcalico/maglev/pkg/config"
	"github.com/projectcalico/maglev/pkg/maglev"
)

// tableView is the structured form of a table for the json and yaml outputs.
type tableView struct {
	TableSize int      `json:"tableSize" yaml:"tableSize"`
	Hash      string   `json:"hash" yaml:"hash"`
	Backends  []string `json:"backends" yaml:"backends"`
	Counts    []int    `json:"counts" yaml:"counts"`
	Table     []int    `json:"table" yaml:"table,flow"`
}

func newTableView(hash string, t *maglev.Table) tableView {
	return tableView{
		TableSize: t.Size(),
		Hash:      hash,
		Backends:  t.Backends(),
		Counts:    t.Counts(),
		Table:     t.Entries(),
	}
}

func writeTable(w io.Writer, format, hash string, t *maglev.Table) error {
	switch format {
	case config.OutputIndices:
		_, err := fmt.Fprintln(w, t.String())
		return err
	case config.OutputJSON:
		data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(newTableView(hash, t), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case config.OutputYAML:
		data, err := yaml.Marshal(newTableView(hash, t))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case config.OutputSummary:
		printSummary(w, t)
		return nil
	}
	return usageErrorf("unknown output format %q", format)
}

// printSummary prints the share of the table owned by each backend.
func printSummary(w io.Writer, t *maglev.Table) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Index", "Backend", "Slots", "Share"})
	counts := t.Counts()
	for i, name := range t.Backends() {
		table.Append([]string{
			strconv.Itoa(i),
			name,
			strconv.Itoa(counts[i]),
			percent(counts[i], t.Size()),
		})
	}
	table.Render()
}

func percent(n, total int) string {
	return strconv.FormatFloat(100*float64(n)/float64(total), 'f', 2, 64) + "%"
}
