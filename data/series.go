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

import (
	"fmt"
	"time"
)

// Frequency is the sampling frequency of a price series. It determines the
// annualization factor applied to volatility and return statistics.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// PeriodsPerYear returns the number of sampling periods in a year for the
// frequency. Unknown frequencies fall back to daily (252 trading days).
func (f Frequency) PeriodsPerYear() float64 {
	switch f {
	case FrequencyWeekly:
		return 52
	case FrequencyMonthly:
		return 12
	default:
		return 252
	}
}

// Bar is a single OHLCV observation.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is an immutable, chronologically ascending OHLCV history for
// a single security. Missing sessions are simply absent rows. Nothing in
// the engine mutates a series after construction, so a series may be shared
// across concurrently running symbol pipelines without locking.
type PriceSeries struct {
	Symbol    string    `json:"symbol"`
	Currency  string    `json:"currency"`
	Frequency Frequency `json:"frequency"`
	Bars      []Bar     `json:"bars"`
}

// Len returns the number of bars in the series.
func (p *PriceSeries) Len() int {
	return len(p.Bars)
}

// Validate checks the structural invariants of the series: strictly
// ascending timestamps, positive prices, non-negative volume, and
// high >= low on every bar. A violation is fatal for the owning symbol's
// analysis run. An empty series is not a validation error; emptiness
// degrades to insufficient_data downstream.
func (p *PriceSeries) Validate() error {
	var prev time.Time
	for ii := range p.Bars {
		bar := &p.Bars[ii]
		if ii > 0 && !bar.Time.After(prev) {
			return fmt.Errorf("%w: bar %d (%s)", ErrNonMonotonicTime, ii, bar.Time)
		}
		prev = bar.Time

		if bar.Open <= 0 || bar.High <= 0 || bar.Low <= 0 || bar.Close <= 0 {
			return fmt.Errorf("%w: bar %d (%s)", ErrNonPositivePrice, ii, bar.Time)
		}
		if bar.Volume < 0 {
			return fmt.Errorf("%w: bar %d (%s)", ErrNegativeVolume, ii, bar.Time)
		}
		if bar.High < bar.Low {
			return fmt.Errorf("%w: bar %d (%s)", ErrHighBelowLow, ii, bar.Time)
		}
	}
	return nil
}

// Closes returns the closing prices of the series in chronological order.
func (p *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(p.Bars))
	for ii := range p.Bars {
		closes[ii] = p.Bars[ii].Close
	}
	return closes
}

// LastClose returns the most recent closing price, or an insufficient_data
// marker for an empty series.
func (p *PriceSeries) LastClose() Metric {
	if len(p.Bars) == 0 {
		return InsufficientData()
	}
	return MetricOf(p.Bars[len(p.Bars)-1].Close)
}

// Returns computes simple returns between consecutive closes:
//
//	r[i] = (close[i+1] - close[i]) / close[i]
//
// Simple returns are used consistently for every derived risk statistic.
// A series with fewer than two bars yields an empty slice.
func (p *PriceSeries) Returns() []float64 {
	if len(p.Bars) < 2 {
		return []float64{}
	}
	rets := make([]float64, len(p.Bars)-1)
	for ii := 1; ii < len(p.Bars); ii++ {
		prev := p.Bars[ii-1].Close
		rets[ii-1] = (p.Bars[ii].Close - prev) / prev
	}
	return rets
}
