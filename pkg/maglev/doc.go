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

// Package maglev builds Maglev consistent-hashing lookup tables.
//
// Each backend derives a permutation of the table's slots from its own name; the
// table is then filled by letting the backends take turns claiming the next free
// slot in their permutation.  Because a backend's permutation does not depend on the
// other backends, adding or removing one backend only moves roughly 1/M of the slots.
package maglev
