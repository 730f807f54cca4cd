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

package indicators

import "github.com/finwell/fw-quant/data"

// extremaOrder is the number of neighbors on each side a bar must dominate
// to qualify as a swing high or swing low.
const extremaOrder = 2

// SRResult holds the nearest support level below and resistance level
// above the latest close, with their percentage distances.
type SRResult struct {
	Support              data.Metric `json:"support"`
	Resistance           data.Metric `json:"resistance"`
	DistanceToSupport    data.Metric `json:"distanceToSupportPct"`
	DistanceToResistance data.Metric `json:"distanceToResistancePct"`
}

// computeSupportResistance scans the trailing window for local extrema: a
// bar is a swing high (low) when its high (low) dominates the two bars on
// either side. The nearest swing low below the last close becomes support,
// the nearest swing high above it resistance. When no swing point
// qualifies, the window low/high is used as a fallback. At least
// window bars are required.
func computeSupportResistance(series *data.PriceSeries, window int) SRResult {
	if series.Len() < window {
		return SRResult{
			Support:              data.InsufficientData(),
			Resistance:           data.InsufficientData(),
			DistanceToSupport:    data.InsufficientData(),
			DistanceToResistance: data.InsufficientData(),
		}
	}

	bars := series.Bars[series.Len()-window:]
	last := bars[len(bars)-1].Close

	var support, resistance float64
	var haveSupport, haveResistance bool

	for ii := extremaOrder; ii < len(bars)-extremaOrder; ii++ {
		swingHigh := true
		swingLow := true
		for jj := ii - extremaOrder; jj <= ii+extremaOrder; jj++ {
			if jj == ii {
				continue
			}
			if bars[jj].High >= bars[ii].High {
				swingHigh = false
			}
			if bars[jj].Low <= bars[ii].Low {
				swingLow = false
			}
		}

		if swingHigh && bars[ii].High > last {
			if !haveResistance || bars[ii].High < resistance {
				resistance = bars[ii].High
				haveResistance = true
			}
		}
		if swingLow && bars[ii].Low < last {
			if !haveSupport || bars[ii].Low > support {
				support = bars[ii].Low
				haveSupport = true
			}
		}
	}

	// fallback to the window extremes when no swing point qualifies
	if !haveSupport || !haveResistance {
		windowHigh := bars[0].High
		windowLow := bars[0].Low
		for _, bar := range bars[1:] {
			if bar.High > windowHigh {
				windowHigh = bar.High
			}
			if bar.Low < windowLow {
				windowLow = bar.Low
			}
		}
		if !haveResistance && windowHigh > last {
			resistance = windowHigh
			haveResistance = true
		}
		if !haveSupport && windowLow < last {
			support = windowLow
			haveSupport = true
		}
	}

	result := SRResult{
		Support:              data.InsufficientData(),
		Resistance:           data.InsufficientData(),
		DistanceToSupport:    data.InsufficientData(),
		DistanceToResistance: data.InsufficientData(),
	}
	if haveSupport {
		result.Support = data.MetricOf(support)
		result.DistanceToSupport = data.MetricOf((last - support) / last * 100)
	}
	if haveResistance {
		result.Resistance = data.MetricOf(resistance)
		result.DistanceToResistance = data.MetricOf((resistance - last) / last * 100)
	}

	return result
}
