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

// Package fundamentals converts a reported fundamental snapshot into
// normalized 0-100 category scores.
//
// Each field is mapped through a piecewise-linear attractiveness ramp with
// fixed, documented anchors, then blended into its category with fixed
// weights. Missing fields are excluded and the remaining weights
// renormalized; they are never treated as zero. A category with no
// reported fields at all scores insufficient_data.
package fundamentals

import (
	"github.com/finwell/fw-quant/data"
)

// Per-field ramp anchors. "best" earns 100, "worst" earns 0, values in
// between interpolate linearly. Multiples with non-positive denominators
// (negative earnings, book value, etc.) arrive as non-positive ratios and
// are pinned to the worst score instead of dividing by zero upstream.
const (
	trailingPEBest, trailingPEWorst = 10.0, 40.0
	forwardPEBest, forwardPEWorst   = 10.0, 35.0
	pegBest, pegWorst               = 1.0, 3.0
	priceToBookBest, priceToBookMax = 1.0, 8.0
	priceToSalesBest, priceToSalesMax = 1.0, 12.0

	profitMarginBest    = 0.25
	operatingMarginBest = 0.30
	roeBest             = 0.25
	roaBest             = 0.15

	debtToEquityBest, debtToEquityWorst = 0.5, 2.5
	currentRatioWorst, currentRatioBest = 1.0, 2.0
	quickRatioWorst, quickRatioBest     = 0.8, 1.5

	revenueGrowthBest  = 0.25
	earningsGrowthBest = 0.30

	dividendYieldBest              = 0.04
	payoutRatioBest, payoutRatioMax = 0.6, 1.2
)

// Category weights for the overall fundamental score.
const (
	weightValuation     = 0.30
	weightProfitability = 0.30
	weightLeverage      = 0.15
	weightGrowth        = 0.15
	weightDividends     = 0.10
)

// Scores holds the normalized per-category scores for one snapshot. The
// source snapshot is referenced by identity and never mutated.
type Scores struct {
	Snapshot *data.FundamentalSnapshot `json:"-"`

	Valuation     data.Metric `json:"valuation"`
	Profitability data.Metric `json:"profitability"`
	Leverage      data.Metric `json:"leverage"`
	Growth        data.Metric `json:"growth"`
	Dividends     data.Metric `json:"dividends"`
}

// Overall blends the present category scores into a single 0-100 value
// using the documented category weights, renormalized over present
// categories. It is insufficient_data when every category is.
func (s Scores) Overall() data.Metric {
	var blend weightedBlend
	blend.addMetric(s.Valuation, weightValuation)
	blend.addMetric(s.Profitability, weightProfitability)
	blend.addMetric(s.Leverage, weightLeverage)
	blend.addMetric(s.Growth, weightGrowth)
	blend.addMetric(s.Dividends, weightDividends)
	return blend.metric()
}

// Score computes all category scores for a snapshot. A nil snapshot yields
// insufficient_data across the board.
func Score(snap *data.FundamentalSnapshot) Scores {
	if snap == nil {
		return Scores{
			Valuation:     data.InsufficientData(),
			Profitability: data.InsufficientData(),
			Leverage:      data.InsufficientData(),
			Growth:        data.InsufficientData(),
			Dividends:     data.InsufficientData(),
		}
	}

	return Scores{
		Snapshot:      snap,
		Valuation:     scoreValuation(snap),
		Profitability: scoreProfitability(snap),
		Leverage:      scoreLeverage(snap),
		Growth:        scoreGrowth(snap),
		Dividends:     scoreDividends(snap),
	}
}

func scoreValuation(snap *data.FundamentalSnapshot) data.Metric {
	var blend weightedBlend
	blend.add(snap.TrailingPE, 0.30, func(v float64) float64 {
		if v <= 0 {
			return 0
		}
		return rampDown(v, trailingPEBest, trailingPEWorst)
	})
	blend.add(snap.ForwardPE, 0.20, func(v float64) float64 {
		if v <= 0 {
			return 0
		}
		return rampDown(v, forwardPEBest, forwardPEWorst)
	})
	blend.add(snap.PEGRatio, 0.20, func(v float64) float64 {
		if v <= 0 {
			return 0
		}
		return rampDown(v, pegBest, pegWorst)
	})
	blend.add(snap.PriceToBook, 0.15, func(v float64) float64 {
		if v <= 0 {
			return 0
		}
		return rampDown(v, priceToBookBest, priceToBookMax)
	})
	blend.add(snap.PriceToSales, 0.15, func(v float64) float64 {
		if v <= 0 {
			return 0
		}
		return rampDown(v, priceToSalesBest, priceToSalesMax)
	})
	return blend.metric()
}

func scoreProfitability(snap *data.FundamentalSnapshot) data.Metric {
	var blend weightedBlend
	blend.add(snap.ProfitMargin, 0.30, func(v float64) float64 {
		return rampUp(v, 0, profitMarginBest)
	})
	blend.add(snap.OperatingMargin, 0.20, func(v float64) float64 {
		return rampUp(v, 0, operatingMarginBest)
	})
	blend.add(snap.ReturnOnEquity, 0.30, func(v float64) float64 {
		return rampUp(v, 0, roeBest)
	})
	blend.add(snap.ReturnOnAssets, 0.20, func(v float64) float64 {
		return rampUp(v, 0, roaBest)
	})
	return blend.metric()
}

func scoreLeverage(snap *data.FundamentalSnapshot) data.Metric {
	var blend weightedBlend
	blend.add(snap.DebtToEquity, 0.50, func(v float64) float64 {
		if v < 0 {
			// negative equity
			return 0
		}
		return rampDown(v, debtToEquityBest, debtToEquityWorst)
	})
	blend.add(snap.CurrentRatio, 0.30, func(v float64) float64 {
		return rampUp(v, currentRatioWorst, currentRatioBest)
	})
	blend.add(snap.QuickRatio, 0.20, func(v float64) float64 {
		return rampUp(v, quickRatioWorst, quickRatioBest)
	})
	return blend.metric()
}

func scoreGrowth(snap *data.FundamentalSnapshot) data.Metric {
	var blend weightedBlend
	blend.add(snap.RevenueGrowth, 0.50, func(v float64) float64 {
		return rampUp(v, 0, revenueGrowthBest)
	})
	blend.add(snap.EarningsGrowth, 0.50, func(v float64) float64 {
		return rampUp(v, 0, earningsGrowthBest)
	})
	return blend.metric()
}

func scoreDividends(snap *data.FundamentalSnapshot) data.Metric {
	var blend weightedBlend
	blend.add(snap.DividendYield, 0.60, func(v float64) float64 {
		return rampUp(v, 0, dividendYieldBest)
	})
	blend.add(snap.PayoutRatio, 0.40, func(v float64) float64 {
		if v < 0 {
			return 0
		}
		return rampDown(v, payoutRatioBest, payoutRatioMax)
	})
	return blend.metric()
}

// rampDown scores 100 at or below best, 0 at or above worst, linear in
// between. Used for lower-is-better fields.
func rampDown(v, best, worst float64) float64 {
	switch {
	case v <= best:
		return 100
	case v >= worst:
		return 0
	default:
		return 100 * (worst - v) / (worst - best)
	}
}

// rampUp scores 0 at or below worst, 100 at or above best, linear in
// between. Used for higher-is-better fields.
func rampUp(v, worst, best float64) float64 {
	switch {
	case v <= worst:
		return 0
	case v >= best:
		return 100
	default:
		return 100 * (v - worst) / (best - worst)
	}
}

// weightedBlend folds weighted scores while tracking the total weight of
// present fields, so the mean renormalizes over what was actually
// reported and never divides by zero.
type weightedBlend struct {
	sum    float64
	weight float64
}

func (b *weightedBlend) add(field *float64, weight float64, score func(float64) float64) {
	if field == nil {
		return
	}
	b.sum += score(*field) * weight
	b.weight += weight
}

func (b *weightedBlend) addMetric(m data.Metric, weight float64) {
	if !m.OK() {
		return
	}
	b.sum += m.Value * weight
	b.weight += weight
}

func (b *weightedBlend) metric() data.Metric {
	if b.weight == 0 {
		return data.InsufficientData()
	}
	return data.MetricOf(b.sum / b.weight)
}
