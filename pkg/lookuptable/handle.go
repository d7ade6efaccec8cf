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

// Package lookuptable publishes Maglev lookup tables to concurrent readers.  A table
// is only ever swapped in whole, so a reader sees either the previous table or the new
// one, never a partial build.
package lookuptable

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/projectcalico/maglev/pkg/maglev"
)

type published struct {
	table      *maglev.Table
	generation uint64
}

// Handle holds the current table for one service.  Load is lock free; Rebuild and
// Publish are serialised so generations increase in publish order.
type Handle struct {
	name    string
	current atomic.Pointer[published]
	lock    sync.Mutex
}

func New(name string) *Handle {
	return &Handle{name: name}
}

func (h *Handle) Name() string {
	return h.name
}

// Load returns the published table, or nil if nothing has been published yet.
func (h *Handle) Load() *maglev.Table {
	if p := h.current.Load(); p != nil {
		return p.table
	}
	return nil
}

// Generation counts successful publishes; 0 means nothing is published.
func (h *Handle) Generation() uint64 {
	if p := h.current.Load(); p != nil {
		return p.generation
	}
	return 0
}

// Rebuild builds a table and publishes it.  On failure the previously published table
// stays in place and the error from maglev.Build is returned.
func (h *Handle) Rebuild(backends []string, tableSize int, opts ...maglev.Option) (*maglev.Table, error) {
	start := time.Now()
	t, err := maglev.Build(backends, tableSize, opts...)
	buildSeconds.WithLabelValues(h.name).Observe(time.Since(start).Seconds())
	buildsTotal.WithLabelValues(h.name, resultLabel(err)).Inc()
	if err != nil {
		logrus.WithError(err).WithField("table", h.name).Warn("Failed to build lookup table, keeping the previous one")
		return nil, err
	}
	h.Publish(t)
	return t, nil
}

// Publish swaps in t.  It returns the number of slots whose owner changed, or -1 when
// there was no previous table of the same size to compare with.
func (h *Handle) Publish(t *maglev.Table) int {
	h.lock.Lock()
	defer h.lock.Unlock()

	changed := -1
	var gen uint64 = 1
	if prev := h.current.Load(); prev != nil {
		gen = prev.generation + 1
		if n, err := maglev.Diff(prev.table, t); err == nil {
			changed = n
		}
	}
	h.current.Store(&published{table: t, generation: gen})

	generationGauge.WithLabelValues(h.name).Set(float64(gen))
	if changed >= 0 {
		slotsChangedGauge.WithLabelValues(h.name).Set(float64(changed))
	}
	logrus.WithFields(logrus.Fields{
		"table":        h.name,
		"generation":   gen,
		"size":         t.Size(),
		"slotsChanged": changed,
	}).Debug("Published lookup table")
	return changed
}

// Request describes one table for BuildAll.
type Request struct {
	Backends  []string
	TableSize int
	Options   []maglev.Option
}

// BuildAll builds a table per request in parallel.  It is all-or-nothing: the first
// failure cancels the remaining builds and is returned alone.
func BuildAll(ctx context.Context, reqs map[string]Request) (map[string]*maglev.Table, error) {
	var (
		lock    sync.Mutex
		results = make(map[string]*maglev.Table, len(reqs))
	)
	eg, ctx := errgroup.WithContext(ctx)
	for name, req := range reqs {
		name, req := name, req
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := maglev.Build(req.Backends, req.TableSize, req.Options...)
			if err != nil {
				return &BuildError{Table: name, Err: err}
			}
			lock.Lock()
			defer lock.Unlock()
			results[name] = t
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// BuildError ties a build failure to the table it was building.
type BuildError struct {
	Table string
	Err   error
}

func (e *BuildError) Error() string {
	return "table " + e.Table + ": " + e.Err.Error()
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
