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

package lookuptable

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/projectcalico/maglev/pkg/maglev"
)

var (
	buildsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "maglev_table_builds_total",
		Help: "Number of lookup table builds, by table and result.",
	}, []string{"table", "result"})
	buildSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "maglev_table_build_seconds",
		Help:    "Time taken to build a lookup table.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"table"})
	generationGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "maglev_table_generation",
		Help: "Generation of the currently published lookup table.",
	}, []string{"table"})
	slotsChangedGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "maglev_table_slots_changed",
		Help: "Number of slots that changed owner in the last publish.",
	}, []string{"table"})
)

func init() {
	prometheus.MustRegister(buildsTotal, buildSeconds, generationGauge, slotsChangedGauge)
}

func resultLabel(err error) string {
	switch maglev.Kind(err) {
	case nil:
		if err != nil {
			return "error"
		}
		return "success"
	case maglev.ErrInvalidArgument:
		return "invalid_argument"
	case maglev.ErrAllocationFailure:
		return "allocation_failure"
	case maglev.ErrConstructionFailure:
		return "construction_failure"
	}
	return "error"
}
