// Copyright 2025-2026
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package data

import "math"

// MetricStatus marks whether a derived value could actually be computed
// from the inputs at hand.
type MetricStatus string

const (
	StatusOK               MetricStatus = "ok"
	StatusInsufficientData MetricStatus = "insufficient_data"
)

// Metric is a single derived value together with its computation status.
// A metric computed from a series that is too short, or whose denominator
// degenerates to zero, carries StatusInsufficientData instead of a silent
// zero, NaN or Inf.
type Metric struct {
	Value  float64      `json:"value"`
	Status MetricStatus `json:"status"`
}

// MetricOf wraps a finite value in an ok metric. Non-finite values are
// downgraded to insufficient_data so they never leak into reports.
func MetricOf(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return InsufficientData()
	}
	return Metric{Value: v, Status: StatusOK}
}

// InsufficientData returns the marker metric used whenever a computation
// cannot be carried out from the available inputs.
func InsufficientData() Metric {
	return Metric{Status: StatusInsufficientData}
}

// OK reports whether the metric holds a computed value.
func (m Metric) OK() bool {
	return m.Status == StatusOK
}
