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

package maglev

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
)

const unassigned = -1

// populate fills the lookup table by sweeping the backends in order, letting each one
// claim the first free slot in its permutation row per sweep.  Earlier backends win
// ties.
//
// Every productive sweep claims at least one slot, so a table of N slots needs at most
// N sweeps.  A sweep that claims nothing means some row is not a full permutation
// (the table size was not prime) and the build fails rather than spinning.
func populate(perm *permutations) ([]int, error) {
	n := perm.tableSize
	numBackends := perm.numRows()

	table, err := allocInts(n, "lookup table")
	if err != nil {
		return nil, err
	}
	next, err := allocInts(numBackends, "cursor array")
	if err != nil {
		return nil, err
	}
	for i := range table {
		table[i] = unassigned
	}

	taken := bitset.New(uint(n))
	filled := 0
	for sweep := 0; filled < n; sweep++ {
		if sweep >= n {
			return nil, errors.Wrapf(ErrConstructionFailure,
				"table of %d slots still has %d free after %d sweeps", n, n-filled, sweep)
		}
		claimed := 0
		for i := 0; i < numBackends && filled < n; i++ {
			row := perm.row(i)
			for next[i] < n {
				slot := row[next[i]]
				next[i]++
				if taken.Test(uint(slot)) {
					continue
				}
				taken.Set(uint(slot))
				table[slot] = i
				filled++
				claimed++
				break
			}
		}
		if claimed == 0 {
			return nil, errors.Wrapf(ErrConstructionFailure,
				"no backend could claim any of the %d remaining slots", n-filled)
		}
	}

	return table, nil
}
