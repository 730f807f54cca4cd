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

import (
	"github.com/finwell/fw-quant/data"
	"gonum.org/v1/gonum/stat"
)

// Volume activity boundaries relative to the trailing average.
const (
	highVolumeRatio = 1.5
	lowVolumeRatio  = 0.5
)

// VolumeResult holds the latest volume relative to its trailing average
// and the resulting activity classification.
type VolumeResult struct {
	Current  data.Metric `json:"current"`
	Average  data.Metric `json:"average"`
	Ratio    data.Metric `json:"ratio"`
	Activity string      `json:"activity,omitempty"`
}

// Vote is only directional during high-activity sessions: heavy volume
// confirms the direction of the latest price change.
func (v VolumeResult) Vote() Signal {
	switch v.Activity {
	case "high_bullish":
		return SignalBullish
	case "high_bearish":
		return SignalBearish
	default:
		return SignalNeutral
	}
}

// computeVolume compares the latest volume to its simple average over the
// trailing window. Ratios above 1.5 are classified as high activity,
// directional by the sign of the latest close-to-close change; below 0.5
// as low activity. A zero average volume degrades to insufficient_data.
func computeVolume(series *data.PriceSeries, window int) VolumeResult {
	if series.Len() < window+1 {
		return VolumeResult{
			Current: data.InsufficientData(),
			Average: data.InsufficientData(),
			Ratio:   data.InsufficientData(),
		}
	}

	bars := series.Bars
	volumes := make([]float64, window)
	for ii := 0; ii < window; ii++ {
		volumes[ii] = bars[len(bars)-window+ii].Volume
	}
	average := stat.Mean(volumes, nil)
	current := bars[len(bars)-1].Volume

	result := VolumeResult{
		Current: data.MetricOf(current),
		Average: data.MetricOf(average),
		Ratio:   data.InsufficientData(),
	}
	if average <= 0 {
		return result
	}

	ratio := current / average
	result.Ratio = data.MetricOf(ratio)

	priceChange := bars[len(bars)-1].Close - bars[len(bars)-2].Close
	switch {
	case ratio > highVolumeRatio && priceChange > 0:
		result.Activity = "high_bullish"
	case ratio > highVolumeRatio:
		result.Activity = "high_bearish"
	case ratio < lowVolumeRatio:
		result.Activity = "low"
	default:
		result.Activity = "normal"
	}

	return result
}
