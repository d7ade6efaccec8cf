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
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Table is a Maglev lookup table: every slot holds the index of the backend that
// owns it.  A Table is immutable; a change of backends means building a new one.
type Table struct {
	backends []string
	entries  []int
}

type options struct {
	hasher           NameHasher
	strictCoverage   bool
	maxMatrixEntries int
}

type Option func(*options)

// WithHasher returns an option that sets the hash functions used to derive each
// backend's offset and skip.
func WithHasher(h NameHasher) Option {
	return func(o *options) {
		o.hasher = h
	}
}

// WithStrictCoverage makes a table with fewer slots than backends an error rather
// than a warning.
func WithStrictCoverage() Option {
	return func(o *options) {
		o.strictCoverage = true
	}
}

// WithMaxMatrixEntries overrides DefaultMaxMatrixEntries.
func WithMaxMatrixEntries(n int) Option {
	return func(o *options) {
		o.maxMatrixEntries = n
	}
}

// Build constructs the lookup table for the given backends.  The order of backends is
// significant: it fixes the backend indices stored in the table and breaks ties during
// population.  tableSize must be a prime of at least 2.
//
// Build either returns a complete table or an error wrapping one of
// ErrInvalidArgument, ErrAllocationFailure or ErrConstructionFailure.
func Build(backends []string, tableSize int, opts ...Option) (*Table, error) {
	o := options{
		hasher:           MurmurDJBPair,
		maxMatrixEntries: DefaultMaxMatrixEntries,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.hasher == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "nil name hasher")
	}

	if err := validate(backends, tableSize, o.strictCoverage); err != nil {
		return nil, err
	}

	perm, err := generatePermutations(o.hasher, backends, tableSize, o.maxMatrixEntries)
	if err != nil {
		return nil, err
	}
	entries, err := populate(perm)
	if err != nil {
		return nil, err
	}

	t := &Table{
		backends: append([]string(nil), backends...),
		entries:  entries,
	}
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.WithFields(logrus.Fields{
			"backends":  len(backends),
			"tableSize": tableSize,
			"counts":    t.Counts(),
		}).Debug("Built maglev lookup table")
	}
	return t, nil
}

func validate(backends []string, tableSize int, strict bool) error {
	if len(backends) == 0 {
		return errors.Wrap(ErrInvalidArgument, "no backends")
	}
	if tableSize < 2 {
		return errors.Wrapf(ErrInvalidArgument, "table size %d is less than 2", tableSize)
	}
	if !IsPrime(tableSize) {
		return errors.Wrapf(ErrInvalidArgument, "table size %d is not prime (nearest prime is %d)",
			tableSize, NearestPrime(tableSize))
	}

	seen := make(map[string]int, len(backends))
	for i, b := range backends {
		if j, ok := seen[b]; ok {
			return errors.Wrapf(ErrInvalidArgument, "backend %q is listed at both %d and %d", b, j, i)
		}
		seen[b] = i
	}

	if tableSize < len(backends) {
		if strict {
			return errors.Wrapf(ErrInvalidArgument,
				"table size %d is smaller than the number of backends (%d)", tableSize, len(backends))
		}
		logrus.WithFields(logrus.Fields{
			"backends":  len(backends),
			"tableSize": tableSize,
		}).Warn("Table is smaller than the backend set, some backends will own no slots")
	}
	return nil
}

// Size returns the number of slots.
func (t *Table) Size() int {
	return len(t.entries)
}

// Backends returns a copy of the backend names, in index order.
func (t *Table) Backends() []string {
	return append([]string(nil), t.backends...)
}

// Backend returns the index of the backend owning slot.
func (t *Table) Backend(slot int) int {
	return t.entries[slot]
}

// BackendName returns the name of the backend owning slot.
func (t *Table) BackendName(slot int) string {
	return t.backends[t.entries[slot]]
}

// Entries returns a copy of the slot assignments.
func (t *Table) Entries() []int {
	return append([]int(nil), t.entries...)
}

// Counts returns the number of slots owned by each backend, indexed like Backends.
func (t *Table) Counts() []int {
	counts := make([]int, len(t.backends))
	for _, b := range t.entries {
		counts[b]++
	}
	return counts
}

// String renders the table as space separated backend indices.
func (t *Table) String() string {
	var sb strings.Builder
	sb.Grow(len(t.entries) * 3)
	for i, b := range t.entries {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(b))
	}
	return sb.String()
}

// Diff returns the number of slots whose owning backend differs between a and b.
// Owners are compared by name because indices shift when backends are removed.
func Diff(a, b *Table) (int, error) {
	if a.Size() != b.Size() {
		return 0, errors.Wrapf(ErrInvalidArgument, "cannot diff tables of size %d and %d", a.Size(), b.Size())
	}
	changed := 0
	for slot := range a.entries {
		if a.BackendName(slot) != b.BackendName(slot) {
			changed++
		}
	}
	return changed, nil
}
