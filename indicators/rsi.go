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

// RSI interpretation boundaries.
const (
	RSIOverbought = 70.0
	RSIOversold   = 30.0
)

// RSIResult holds the latest RSI value and its classification.
type RSIResult struct {
	Value          data.Metric `json:"value"`
	Interpretation string      `json:"interpretation,omitempty"`
}

// Vote maps the RSI classification to a directional bias. Oversold is a
// contrarian bullish signal, overbought a bearish one.
func (r RSIResult) Vote() Signal {
	switch r.Interpretation {
	case "oversold":
		return SignalBullish
	case "overbought":
		return SignalBearish
	default:
		return SignalNeutral
	}
}

// RSI computes the Relative Strength Index over the closing prices using
// Wilder's smoothing: the first average gain/loss is a simple mean over the
// window, subsequent averages are smoothed as
//
//	avg = (prev*(window-1) + current) / window
//
// The result is bounded in [0, 100]. A series with no net gains and no net
// losses (flat prices) yields exactly 50. At least window+1 closes are
// required.
func RSI(closes []float64, window int) data.Metric {
	if len(closes) < window+1 {
		return data.InsufficientData()
	}

	var avgGain, avgLoss float64
	for ii := 1; ii <= window; ii++ {
		delta := closes[ii] - closes[ii-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(window)
	avgLoss /= float64(window)

	for ii := window + 1; ii < len(closes); ii++ {
		delta := closes[ii] - closes[ii-1]
		var gain, loss float64
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(window-1) + gain) / float64(window)
		avgLoss = (avgLoss*float64(window-1) + loss) / float64(window)
	}

	switch {
	case avgGain == 0 && avgLoss == 0:
		return data.MetricOf(50)
	case avgLoss == 0:
		return data.MetricOf(100)
	default:
		rs := avgGain / avgLoss
		return data.MetricOf(100 - 100/(1+rs))
	}
}

func computeRSI(series *data.PriceSeries, window int) RSIResult {
	value := RSI(series.Closes(), window)
	if !value.OK() {
		return RSIResult{Value: value}
	}

	interpretation := "neutral"
	switch {
	case value.Value >= RSIOverbought:
		interpretation = "overbought"
	case value.Value <= RSIOversold:
		interpretation = "oversold"
	}

	return RSIResult{Value: value, Interpretation: interpretation}
}
