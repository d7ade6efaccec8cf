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

// Table sizes recommended by the Maglev paper for small and large backend sets.
// Both are prime.
const (
	SmallM = 65537
	BigM   = 655373
)

// IsPrime reports whether n is prime.
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n < 4 {
		return true
	}
	if n%2 == 0 || n%3 == 0 {
		return false
	}
	for i := 5; i <= n/i; i += 6 {
		if n%i == 0 || n%(i+2) == 0 {
			return false
		}
	}
	return true
}

// NextPrime returns the smallest prime >= n.
func NextPrime(n int) int {
	if n <= 2 {
		return 2
	}
	for !IsPrime(n) {
		n++
	}
	return n
}

// NearestPrime returns the prime closest to n.  When two primes are equally close,
// the smaller one wins.  Anything below 2 maps to 2.
func NearestPrime(n int) int {
	if n <= 2 {
		return 2
	}
	for d := 0; ; d++ {
		if IsPrime(n - d) {
			return n - d
		}
		if IsPrime(n + d) {
			return n + d
		}
	}
}
