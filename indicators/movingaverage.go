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

// Cross identifies a golden or death cross between the short and long
// moving averages on the two most recent points.
type Cross string

const (
	CrossNone   Cross = "none"
	CrossGolden Cross = "golden"
	CrossDeath  Cross = "death"
)

// MAResult holds the latest simple and exponential moving averages keyed by
// window, the price position relative to the trend SMA, and golden/death
// cross detection.
type MAResult struct {
	SMA        map[int]data.Metric `json:"sma"`
	EMA        map[int]data.Metric `json:"ema"`
	PriceTrend string              `json:"priceTrend,omitempty"`
	Cross      Cross               `json:"cross,omitempty"`
}

// Votes returns the directional bias of the moving-average block: one vote
// for price vs the trend SMA and one for a detected cross.
func (m MAResult) Votes() []Signal {
	votes := []Signal{}

	switch m.PriceTrend {
	case "above":
		votes = append(votes, SignalBullish)
	case "below":
		votes = append(votes, SignalBearish)
	}

	switch m.Cross {
	case CrossGolden:
		votes = append(votes, SignalBullish)
	case CrossDeath:
		votes = append(votes, SignalBearish)
	}

	return votes
}

// SMA computes the simple moving average of the trailing window. At least
// window values are required.
func SMA(values []float64, window int) data.Metric {
	if len(values) < window {
		return data.InsufficientData()
	}
	return data.MetricOf(stat.Mean(values[len(values)-window:], nil))
}

// EMA computes the latest exponential moving average with smoothing factor
// 2/(window+1), seeded with the simple average of the first window values.
func EMA(values []float64, window int) data.Metric {
	series, offset := emaSeries(values, window)
	if offset < 0 {
		return data.InsufficientData()
	}
	return data.MetricOf(series[len(series)-1])
}

// emaSeries computes the full EMA series. The returned slice is aligned so
// that series[j] is the EMA at values[j+offset], with offset = window-1.
// offset is -1 when there are not enough values.
func emaSeries(values []float64, window int) ([]float64, int) {
	if len(values) < window || window < 1 {
		return nil, -1
	}

	alpha := 2.0 / (float64(window) + 1.0)
	series := make([]float64, len(values)-window+1)
	series[0] = stat.Mean(values[:window], nil)
	for jj := 1; jj < len(series); jj++ {
		series[jj] = alpha*values[jj+window-1] + (1-alpha)*series[jj-1]
	}

	return series, window - 1
}

// smaAt computes the simple moving average of the window ending at index
// end (inclusive). Returns false when the window does not fit.
func smaAt(values []float64, window, end int) (float64, bool) {
	if end+1 < window || end >= len(values) {
		return 0, false
	}
	return stat.Mean(values[end+1-window:end+1], nil), true
}

func computeMovingAverages(series *data.PriceSeries, cfg Config) MAResult {
	closes := series.Closes()

	result := MAResult{
		SMA:   make(map[int]data.Metric, len(cfg.SMAWindows)),
		EMA:   make(map[int]data.Metric, 2),
		Cross: CrossNone,
	}

	for _, window := range cfg.SMAWindows {
		result.SMA[window] = SMA(closes, window)
	}
	result.EMA[cfg.MACDFast] = EMA(closes, cfg.MACDFast)
	result.EMA[cfg.MACDSlow] = EMA(closes, cfg.MACDSlow)

	// price vs trend SMA
	if trend := SMA(closes, cfg.TrendWindow); trend.OK() {
		last := closes[len(closes)-1]
		switch {
		case last > trend.Value:
			result.PriceTrend = "above"
		case last < trend.Value:
			result.PriceTrend = "below"
		default:
			result.PriceTrend = "at"
		}
	}

	// golden/death cross on the two most recent points of the short vs
	// long SMA
	end := len(closes) - 1
	shortNow, okSN := smaAt(closes, cfg.CrossShort, end)
	shortPrev, okSP := smaAt(closes, cfg.CrossShort, end-1)
	longNow, okLN := smaAt(closes, cfg.CrossLong, end)
	longPrev, okLP := smaAt(closes, cfg.CrossLong, end-1)
	if okSN && okSP && okLN && okLP {
		switch {
		case shortPrev <= longPrev && shortNow > longNow:
			result.Cross = CrossGolden
		case shortPrev >= longPrev && shortNow < longNow:
			result.Cross = CrossDeath
		}
	}

	return result
}
