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
	"github.com/pkg/errors"
)

// DefaultMaxMatrixEntries caps the size of the backends x tableSize permutation
// matrix (2GiB of ints on 64-bit platforms).
const DefaultMaxMatrixEntries = 1 << 28

// permutations is the permutation matrix, one row of tableSize slots per backend,
// stored in a single slice.
type permutations struct {
	slots     []int
	tableSize int
}

func (p *permutations) row(i int) []int {
	return p.slots[i*p.tableSize : (i+1)*p.tableSize]
}

func (p *permutations) numRows() int {
	return len(p.slots) / p.tableSize
}

// Permutation returns the order in which the backend called name would claim the slots
// of a table with tableSize entries.  The result is a permutation of 0..tableSize-1
// whenever tableSize is prime.
func Permutation(h NameHasher, name string, tableSize int) ([]int, error) {
	if tableSize < 2 {
		return nil, errors.Wrapf(ErrInvalidArgument, "table size %d is less than 2", tableSize)
	}
	row, err := allocInts(tableSize, "permutation row")
	if err != nil {
		return nil, err
	}
	fillPermutation(row, h, []byte(name))
	return row, nil
}

func generatePermutations(h NameHasher, backends []string, tableSize, maxEntries int) (*permutations, error) {
	if tableSize > maxEntries/len(backends) {
		return nil, errors.Wrapf(ErrAllocationFailure,
			"permutation matrix of %d backends x %d slots exceeds the limit of %d entries",
			len(backends), tableSize, maxEntries)
	}
	slots, err := allocInts(len(backends)*tableSize, "permutation matrix")
	if err != nil {
		return nil, err
	}
	p := &permutations{slots: slots, tableSize: tableSize}
	for i, name := range backends {
		fillPermutation(p.row(i), h, []byte(name))
	}
	return p, nil
}

// fillPermutation writes (offset + j*skip) mod len(row) into row[j], stepping the
// position instead of multiplying so that large tables cannot overflow.
func fillPermutation(row []int, h NameHasher, name []byte) {
	n := uint64(len(row))
	offset, skip := h.OffsetAndSkip(name, n)
	pos := offset
	for j := range row {
		row[j] = int(pos)
		pos += skip
		if pos >= n {
			pos -= n
		}
	}
}

// allocInts turns a failed allocation into an ErrAllocationFailure instead of a crash.
func allocInts(count int, what string) (s []int, err error) {
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = errors.Wrapf(ErrAllocationFailure, "%s of %d entries: %v", what, count, r)
		}
	}()
	if count < 0 {
		return nil, errors.Wrapf(ErrAllocationFailure, "%s has negative size %d", what, count)
	}
	return make([]int, count), nil
}
