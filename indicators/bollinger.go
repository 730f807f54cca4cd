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

// BollingerResult holds the latest band values and the position of the
// closing price relative to the bands.
type BollingerResult struct {
	Upper    data.Metric `json:"upper"`
	Middle   data.Metric `json:"middle"`
	Lower    data.Metric `json:"lower"`
	Position string      `json:"position,omitempty"`
}

// Vote maps the band position to a directional bias: a close above the
// upper band is treated as stretched (bearish), below the lower band as
// washed out (bullish).
func (b BollingerResult) Vote() Signal {
	switch b.Position {
	case "below_lower":
		return SignalBullish
	case "above_upper":
		return SignalBearish
	default:
		return SignalNeutral
	}
}

// computeBollinger derives Bollinger Bands from the trailing window of
// closing prices: a simple moving average +/- width sample standard
// deviations. The latest close is classified as above_upper, within, or
// below_lower.
func computeBollinger(series *data.PriceSeries, window int, width float64) BollingerResult {
	closes := series.Closes()
	if len(closes) < window {
		return BollingerResult{
			Upper:  data.InsufficientData(),
			Middle: data.InsufficientData(),
			Lower:  data.InsufficientData(),
		}
	}

	tail := closes[len(closes)-window:]
	middle := stat.Mean(tail, nil)
	sigma := stat.StdDev(tail, nil)

	upper := middle + width*sigma
	lower := middle - width*sigma

	last := closes[len(closes)-1]
	position := "within"
	switch {
	case last > upper:
		position = "above_upper"
	case last < lower:
		position = "below_lower"
	}

	return BollingerResult{
		Upper:    data.MetricOf(upper),
		Middle:   data.MetricOf(middle),
		Lower:    data.MetricOf(lower),
		Position: position,
	}
}
