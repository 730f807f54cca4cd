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

// MACDResult holds the latest MACD line, signal line, histogram, and the
// crossover state of the two most recent points.
type MACDResult struct {
	Line       data.Metric `json:"line"`
	SignalLine data.Metric `json:"signalLine"`
	Histogram  data.Metric `json:"histogram"`
	Crossover  string      `json:"crossover,omitempty"`
}

// Vote maps the MACD state to a directional bias: the line sitting above
// the signal line is bullish, below is bearish.
func (m MACDResult) Vote() Signal {
	switch m.Crossover {
	case "bullish_crossover", "above":
		return SignalBullish
	case "bearish_crossover", "below":
		return SignalBearish
	default:
		return SignalNeutral
	}
}

// computeMACD derives the MACD line as EMA(fast) - EMA(slow) over closing
// prices and the signal line as EMA(signalWindow) of the MACD line. A
// bullish crossover is flagged when the MACD line crosses above the signal
// line on the latest two points, bearish on the inverse. At least
// slow+signalWindow closes are required.
func computeMACD(series *data.PriceSeries, fast, slow, signalWindow int) MACDResult {
	closes := series.Closes()
	if len(closes) < slow+signalWindow {
		return MACDResult{
			Line:       data.InsufficientData(),
			SignalLine: data.InsufficientData(),
			Histogram:  data.InsufficientData(),
		}
	}

	emaFast, offsetFast := emaSeries(closes, fast)
	emaSlow, offsetSlow := emaSeries(closes, slow)

	// MACD line exists wherever both EMAs do, i.e. from index slow-1 on.
	macd := make([]float64, len(emaSlow))
	for jj := range macd {
		macd[jj] = emaFast[jj+offsetSlow-offsetFast] - emaSlow[jj]
	}

	signal, offsetSignal := emaSeries(macd, signalWindow)
	if offsetSignal < 0 || len(signal) < 2 {
		return MACDResult{
			Line:       data.InsufficientData(),
			SignalLine: data.InsufficientData(),
			Histogram:  data.InsufficientData(),
		}
	}

	macdLast := macd[len(macd)-1]
	macdPrev := macd[len(macd)-2]
	signalLast := signal[len(signal)-1]
	signalPrev := signal[len(signal)-2]

	crossover := "below"
	switch {
	case macdPrev <= signalPrev && macdLast > signalLast:
		crossover = "bullish_crossover"
	case macdPrev >= signalPrev && macdLast < signalLast:
		crossover = "bearish_crossover"
	case macdLast > signalLast:
		crossover = "above"
	}

	return MACDResult{
		Line:       data.MetricOf(macdLast),
		SignalLine: data.MetricOf(signalLast),
		Histogram:  data.MetricOf(macdLast - signalLast),
		Crossover:  crossover,
	}
}
