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
	"hash/fnv"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/dchest/siphash"
	"github.com/pkg/errors"
)

// NameHasher derives the starting offset and the stride of a backend's permutation
// from the backend's name.  Implementations must be pure: the same name and table
// size always produce the same pair.
type NameHasher interface {
	// OffsetAndSkip returns offset in [0, tableSize) and skip in [1, tableSize-1].
	// tableSize must be at least 2.
	OffsetAndSkip(name []byte, tableSize uint64) (offset, skip uint64)
}

// HashFunc is a non-cryptographic hash over a backend name.
type HashFunc func(name []byte) uint64

// HashPair is a NameHasher built from two independent hash functions, A for the
// offset and B for the skip.
type HashPair struct {
	Name string
	A, B HashFunc
}

func (p HashPair) OffsetAndSkip(name []byte, tableSize uint64) (uint64, uint64) {
	offset := p.A(name) % tableSize
	skip := (p.B(name) % (tableSize - 1)) + 1
	return offset, skip
}

func (p HashPair) String() string {
	return p.Name
}

const DefaultHashPair = "murmur2-djb"

// SipHash key, fixed so that tables are reproducible across processes.
const (
	sipK0 = 0xdeadbeefcafebabe
	sipK1 = 0
)

var (
	// MurmurDJBPair uses the nginx hash functions: MurmurHash2 for
	// the offset and DJB for the skip.
	MurmurDJBPair = HashPair{Name: DefaultHashPair, A: murmur2Func, B: djbFunc}

	FNVPair = HashPair{Name: "fnv", A: fnv1Func, B: fnv1aFunc}

	// SipHashPair splits one SipHash-2-4 sum into its high and low words.
	SipHashPair = HashPair{
		Name: "siphash",
		A:    func(b []byte) uint64 { return siphash.Hash(sipK0, sipK1, b) >> 32 },
		B:    func(b []byte) uint64 { return siphash.Hash(sipK0, sipK1, b) & 0xffffffff },
	}

	XXHashPair = HashPair{
		Name: "xxhash",
		A:    func(b []byte) uint64 { return xxhash.Sum64(b) >> 32 },
		B:    func(b []byte) uint64 { return xxhash.Sum64(b) & 0xffffffff },
	}

	hashPairs = map[string]HashPair{
		MurmurDJBPair.Name: MurmurDJBPair,
		FNVPair.Name:       FNVPair,
		SipHashPair.Name:   SipHashPair,
		XXHashPair.Name:    XXHashPair,
	}
)

// HashPairByName looks up one of the built-in hash pairs.
func HashPairByName(name string) (HashPair, error) {
	p, ok := hashPairs[name]
	if !ok {
		return HashPair{}, errors.Wrapf(ErrInvalidArgument, "unknown hash pair %q (known: %v)", name, HashPairNames())
	}
	return p, nil
}

// HashPairNames returns the names of the built-in hash pairs, sorted.
func HashPairNames() []string {
	names := make([]string, 0, len(hashPairs))
	for n := range hashPairs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

const murmurM = 0x5bd1e995

// Murmur2 is the 32-bit MurmurHash2 variant used by nginx (seed 0, mixed with the length).
func Murmur2(data []byte) uint32 {
	h := uint32(len(data))

	for len(data) >= 4 {
		k := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24

		k *= murmurM
		k ^= k >> 24
		k *= murmurM

		h *= murmurM
		h ^= k

		data = data[4:]
	}

	switch len(data) {
	case 3:
		h ^= uint32(data[2]) << 16
		fallthrough
	case 2:
		h ^= uint32(data[1]) << 8
		fallthrough
	case 1:
		h ^= uint32(data[0])
		h *= murmurM
	}

	h ^= h >> 13
	h *= murmurM
	h ^= h >> 15

	return h
}

// DJB is Bernstein's "times 33" hash with the top bit cleared.
func DJB(data []byte) uint32 {
	h := uint32(5381)
	for _, c := range data {
		h = (h << 5) + h + uint32(c)
	}
	return h &^ (1 << 31)
}

func murmur2Func(b []byte) uint64 { return uint64(Murmur2(b)) }

func djbFunc(b []byte) uint64 { return uint64(DJB(b)) }

func fnv1Func(b []byte) uint64 {
	h := fnv.New32()
	_, _ = h.Write(b)
	return uint64(h.Sum32())
}

func fnv1aFunc(b []byte) uint64 {
	h := fnv.New32a()
	_, _ = h.Write(b)
	return uint64(h.Sum32())
}
