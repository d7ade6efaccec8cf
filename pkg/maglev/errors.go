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

// Error kinds returned by Build.  Callers should match them with errors.Is; the
// returned errors carry a message describing the specific cause.
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrAllocationFailure   = errors.New("allocation failure")
	ErrConstructionFailure = errors.New("construction failure")
)

// Kind returns the error kind that err wraps, or nil if it is not a Build error.
func Kind(err error) error {
	for _, k := range []error{ErrInvalidArgument, ErrAllocationFailure, ErrConstructionFailure} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
