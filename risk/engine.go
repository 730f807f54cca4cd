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

// Package risk computes volatility, beta, Value-at-Risk, drawdown and
// risk-adjusted return statistics from a price series.
//
// All metrics are derived from simple close-to-close returns and share the
// annualization factor of the series' sampling frequency. Any statistic
// whose denominator degenerates to zero reports insufficient_data rather
// than Inf or NaN.
package risk

import (
	"math"
	"sort"

	"github.com/finwell/fw-quant/data"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

// nearZero guards ratio denominators; variances and volatilities below
// this are treated as zero.
const nearZero = 1e-12

// Config holds the risk-engine knobs. The risk-free rate is an explicit
// input with an explicit default, never a hidden constant.
type Config struct {
	// RiskFreeRate is the annualized risk-free rate used by the Sharpe
	// ratio. Zero is the documented default.
	RiskFreeRate float64 `mapstructure:"risk_free_rate" validate:"gte=-0.05,lte=0.25"`

	// VaRConfidence is the Value-at-Risk confidence level.
	VaRConfidence float64 `mapstructure:"var_confidence" validate:"gt=0.5,lt=1"`

	// Notional scales VaR to a currency amount when positive.
	Notional float64 `mapstructure:"notional" validate:"gte=0"`

	// MinBenchmarkOverlap is the minimum number of date-aligned return
	// observations required to compute beta.
	MinBenchmarkOverlap int `mapstructure:"min_benchmark_overlap" validate:"gt=1"`
}

// DefaultConfig returns the documented defaults: 0% risk-free rate, 95%
// VaR confidence, no notional scaling, and 30 overlapping observations
// required for beta.
func DefaultConfig() Config {
	return Config{
		RiskFreeRate:        0,
		VaRConfidence:       0.95,
		Notional:            0,
		MinBenchmarkOverlap: 30,
	}
}

// Bundle collects the risk statistics for one series. The source series is
// referenced by identity and never mutated.
type Bundle struct {
	Series *data.PriceSeries `json:"-"`

	// Volatility is the annualized sample standard deviation of returns.
	Volatility data.Metric `json:"volatility"`

	// Beta is covariance(returns, benchmark) / variance(benchmark) over
	// the date-aligned overlap of the two series.
	Beta data.Metric `json:"beta"`

	// VaR is the historical Value-at-Risk: the loss at the
	// (1-confidence) quantile of the empirical return distribution,
	// expressed as a positive fraction of value.
	VaR data.Metric `json:"valueAtRisk"`

	// VaRNotional is VaR scaled to the configured notional amount; only
	// populated when a notional is configured.
	VaRNotional data.Metric `json:"valueAtRiskNotional"`

	// MaxDrawdown is the maximum peak-to-trough decline as a fraction of
	// the peak, in [0, 1].
	MaxDrawdown data.Metric `json:"maxDrawdown"`

	// Sharpe is (annualized mean return - risk-free rate) / annualized
	// volatility.
	Sharpe data.Metric `json:"sharpeRatio"`

	// Score is a 0-100 aggregate risk score; higher is riskier. It sums
	// capped volatility and drawdown penalties.
	Score data.Metric `json:"riskScore"`
}

// Analyze computes the full risk bundle for a series. The benchmark may be
// nil, in which case beta reports insufficient_data.
func Analyze(series, benchmark *data.PriceSeries, cfg Config) *Bundle {
	returns := series.Returns()
	periodsPerYear := series.Frequency.PeriodsPerYear()

	bundle := &Bundle{
		Series:      series,
		Volatility:  Volatility(returns, periodsPerYear),
		Beta:        Beta(series, benchmark, cfg.MinBenchmarkOverlap),
		VaR:         ValueAtRisk(returns, cfg.VaRConfidence),
		VaRNotional: data.InsufficientData(),
		MaxDrawdown: MaxDrawdown(series.Closes()),
	}
	bundle.Sharpe = sharpe(returns, bundle.Volatility, cfg.RiskFreeRate, periodsPerYear)
	bundle.Score = riskScore(bundle.Volatility, bundle.MaxDrawdown)

	if cfg.Notional > 0 && bundle.VaR.OK() {
		bundle.VaRNotional = data.MetricOf(bundle.VaR.Value * cfg.Notional)
	}

	log.Debug().
		Str("Symbol", series.Symbol).
		Int("Returns", len(returns)).
		Msg("computed risk bundle")

	return bundle
}

// Volatility computes the annualized sample standard deviation of the
// returns. At least two returns are required.
func Volatility(returns []float64, periodsPerYear float64) data.Metric {
	if len(returns) < 2 {
		return data.InsufficientData()
	}
	return data.MetricOf(stat.StdDev(returns, nil) * math.Sqrt(periodsPerYear))
}

// Beta computes covariance(series returns, benchmark returns) divided by
// the benchmark return variance, over the timestamp intersection of the
// two series. It reports insufficient_data when fewer than minOverlap
// aligned observations exist or the benchmark variance is near zero.
func Beta(series, benchmark *data.PriceSeries, minOverlap int) data.Metric {
	if benchmark == nil {
		return data.InsufficientData()
	}

	seriesRets, benchRets := alignedReturns(series, benchmark)
	if len(seriesRets) < minOverlap {
		return data.InsufficientData()
	}

	benchVariance := stat.Variance(benchRets, nil)
	if benchVariance < nearZero {
		return data.InsufficientData()
	}

	return data.MetricOf(stat.Covariance(seriesRets, benchRets, nil) / benchVariance)
}

// ValueAtRisk computes the historical VaR at the given confidence: the
// loss at the (1-confidence) empirical quantile of the returns, reported
// as a positive fraction. A distribution whose tail quantile is a gain
// reports a VaR of zero. Enough returns to resolve the tail are required
// (20 observations at 95% confidence).
func ValueAtRisk(returns []float64, confidence float64) data.Metric {
	tail := 1 - confidence
	minObservations := int(math.Ceil(1 / tail))
	if len(returns) < minObservations {
		return data.InsufficientData()
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	q := stat.Quantile(tail, stat.Empirical, sorted, nil)
	if q >= 0 {
		return data.MetricOf(0)
	}
	return data.MetricOf(-q)
}

// MaxDrawdown computes the maximum observed (peak - trough) / peak over
// the price curve via a running peak. The result is in [0, 1] and is 0
// for a monotonically non-decreasing series. At least two prices are
// required.
func MaxDrawdown(prices []float64) data.Metric {
	if len(prices) < 2 {
		return data.InsufficientData()
	}

	peak := prices[0]
	maxDD := 0.0
	for _, price := range prices[1:] {
		if price > peak {
			peak = price
			continue
		}
		if dd := (peak - price) / peak; dd > maxDD {
			maxDD = dd
		}
	}

	return data.MetricOf(maxDD)
}

// sharpe computes (annualized mean return - riskFreeRate) / annualized
// volatility. A zero or near-zero volatility denominator degrades to
// insufficient_data instead of producing Inf.
func sharpe(returns []float64, volatility data.Metric, riskFreeRate, periodsPerYear float64) data.Metric {
	if !volatility.OK() || volatility.Value < nearZero {
		return data.InsufficientData()
	}
	annualizedReturn := stat.Mean(returns, nil) * periodsPerYear
	return data.MetricOf((annualizedReturn - riskFreeRate) / volatility.Value)
}

// riskScore sums capped volatility and drawdown penalties into a 0-100
// scale where higher means riskier: min(vol*100, 50) + min(dd*100, 50).
func riskScore(volatility, maxDrawdown data.Metric) data.Metric {
	if !volatility.OK() || !maxDrawdown.OK() {
		return data.InsufficientData()
	}
	volScore := math.Min(volatility.Value*100, 50)
	ddScore := math.Min(maxDrawdown.Value*100, 50)
	return data.MetricOf(volScore + ddScore)
}

// alignedReturns computes simple returns for both series restricted to
// the timestamps they share, keyed by the later bar of each return pair.
// Bars are matched by instant (UnixNano), so equal times carried in
// different zones still align.
func alignedReturns(series, benchmark *data.PriceSeries) ([]float64, []float64) {
	benchByTime := make(map[int64]int, benchmark.Len())
	for ii := range benchmark.Bars {
		benchByTime[benchmark.Bars[ii].Time.UnixNano()] = ii
	}

	var seriesRets, benchRets []float64
	for ii := 1; ii < series.Len(); ii++ {
		jj, ok := benchByTime[series.Bars[ii].Time.UnixNano()]
		if !ok || jj == 0 {
			continue
		}
		kk, ok := benchByTime[series.Bars[ii-1].Time.UnixNano()]
		if !ok || kk != jj-1 {
			// only use returns spanning the same pair of sessions
			continue
		}

		seriesPrev := series.Bars[ii-1].Close
		benchPrev := benchmark.Bars[jj-1].Close
		seriesRets = append(seriesRets, (series.Bars[ii].Close-seriesPrev)/seriesPrev)
		benchRets = append(benchRets, (benchmark.Bars[jj].Close-benchPrev)/benchPrev)
	}

	return seriesRets, benchRets
}
