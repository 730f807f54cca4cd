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

// Package fusion combines the technical, fundamental, sentiment and risk
// signal bundles for one symbol into a single 0-100 composite score, a
// discrete recommendation tier, and a confidence value.
//
// The composite is a fixed-weight linear combination of the category
// sub-scores. Absent categories are excluded and the weights renormalized
// over what is present; the fold tracks both the weighted sum and the
// weight total so renormalization can never divide by zero. Fewer present
// categories than the configured minimum degrades the whole composite to
// insufficient_data with confidence 0.
package fusion

import (
	"math"

	"github.com/finwell/fw-quant/data"
	"github.com/finwell/fw-quant/fundamentals"
	"github.com/finwell/fw-quant/indicators"
	"github.com/finwell/fw-quant/risk"
	"github.com/finwell/fw-quant/sentiment"
)

// Category identifies one signal family feeding the composite.
type Category string

const (
	CategoryTechnical   Category = "technical"
	CategoryFundamental Category = "fundamental"
	CategorySentiment   Category = "sentiment"
	CategoryRisk        Category = "risk"
)

// categories is the fixed fold order; the composite is invariant to it.
var categories = []Category{
	CategoryTechnical,
	CategoryFundamental,
	CategorySentiment,
	CategoryRisk,
}

// Tier is the discrete recommendation derived from the composite score.
type Tier string

const (
	TierStrongBuy  Tier = "STRONG_BUY"
	TierBuy        Tier = "BUY"
	TierHold       Tier = "HOLD"
	TierSell       Tier = "SELL"
	TierStrongSell Tier = "STRONG_SELL"
)

// Tier thresholds, closed at the boundary: a composite of exactly 70 is a
// STRONG_BUY, exactly 60 a BUY, and so on down.
const (
	thresholdStrongBuy = 70.0
	thresholdBuy       = 60.0
	thresholdHold      = 40.0
	thresholdSell      = 30.0
)

// Risk sub-score penalty bands. Each risk metric maps to a penalty
// fraction capped at 1 against its band, weighted as below, so that an
// asset at or beyond every band scores 0 and a riskless one scores 100.
const (
	volatilityBand    = 0.60 // 60% annualized volatility exhausts its penalty
	drawdownBand      = 0.50 // 50% peak-to-trough decline
	valueAtRiskBand   = 0.05 // 5% single-period tail loss
	volatilityWeight  = 40.0
	drawdownWeight    = 35.0
	valueAtRiskWeight = 25.0
)

// Weights holds the per-category importance used both for the composite
// blend and the confidence calculation.
type Weights struct {
	Technical   float64 `mapstructure:"technical" validate:"gte=0"`
	Fundamental float64 `mapstructure:"fundamental" validate:"gte=0"`
	Sentiment   float64 `mapstructure:"sentiment" validate:"gte=0"`
	Risk        float64 `mapstructure:"risk" validate:"gte=0"`
}

// DefaultWeights returns the documented category weights: technical 30%,
// fundamental 30%, sentiment 15%, risk 25%.
func DefaultWeights() Weights {
	return Weights{
		Technical:   0.30,
		Fundamental: 0.30,
		Sentiment:   0.15,
		Risk:        0.25,
	}
}

// Total returns the sum of all category weights.
func (w Weights) Total() float64 {
	return w.Technical + w.Fundamental + w.Sentiment + w.Risk
}

func (w Weights) of(c Category) float64 {
	switch c {
	case CategoryTechnical:
		return w.Technical
	case CategoryFundamental:
		return w.Fundamental
	case CategorySentiment:
		return w.Sentiment
	default:
		return w.Risk
	}
}

// Config holds the fusion knobs.
type Config struct {
	Weights Weights `mapstructure:"weights"`

	// MinCategories is the minimum number of present sub-scores required
	// to compute a composite at all.
	MinCategories int `mapstructure:"min_categories" validate:"gte=1,lte=4"`
}

// DefaultConfig returns the default weights and a two-category minimum.
func DefaultConfig() Config {
	return Config{
		Weights:       DefaultWeights(),
		MinCategories: 2,
	}
}

// Inputs are the per-symbol signal bundles feeding the composite. Any of
// them may be nil.
type Inputs struct {
	Indicators   *indicators.Bundle
	Fundamentals *fundamentals.Scores
	Sentiment    *sentiment.Signal
	Risk         *risk.Bundle
}

// CompositeScore is the fused result for one symbol.
type CompositeScore struct {
	Score      data.Metric              `json:"score"`
	Tier       Tier                     `json:"tier,omitempty"`
	Confidence float64                  `json:"confidence"`
	SubScores  map[Category]data.Metric `json:"subScores"`
}

// Fuse combines the available sub-scores into the composite.
func Fuse(in Inputs, cfg Config) CompositeScore {
	subScores := map[Category]data.Metric{
		CategoryTechnical:   TechnicalSubScore(in.Indicators),
		CategoryFundamental: fundamentalSubScore(in.Fundamentals),
		CategorySentiment:   SentimentSubScore(in.Sentiment),
		CategoryRisk:        RiskSubScore(in.Risk),
	}

	var weightedSum, presentWeight float64
	present := 0
	for _, category := range categories {
		sub := subScores[category]
		if !sub.OK() {
			continue
		}
		weight := cfg.Weights.of(category)
		weightedSum += sub.Value * weight
		presentWeight += weight
		present++
	}

	if present < cfg.MinCategories || presentWeight == 0 {
		return CompositeScore{
			Score:      data.InsufficientData(),
			Confidence: 0,
			SubScores:  subScores,
		}
	}

	score := weightedSum / presentWeight
	return CompositeScore{
		Score:      data.MetricOf(score),
		Tier:       TierForScore(score),
		Confidence: presentWeight / cfg.Weights.Total(),
		SubScores:  subScores,
	}
}

// TierForScore maps a composite score to its recommendation tier. Ties at
// a boundary resolve upward into the tier whose threshold was met, i.e.
// the thresholds are closed: exactly 70 is STRONG_BUY, 69.999 is BUY.
func TierForScore(score float64) Tier {
	switch {
	case score >= thresholdStrongBuy:
		return TierStrongBuy
	case score >= thresholdBuy:
		return TierBuy
	case score >= thresholdHold:
		return TierHold
	case score >= thresholdSell:
		return TierSell
	default:
		return TierStrongSell
	}
}

// TechnicalSubScore derives a 0-100 score from the net directional bias
// of the classified indicator signals: 50 + 50 * (bullish - bearish) /
// total votes. A bundle with no computed indicators is absent.
func TechnicalSubScore(bundle *indicators.Bundle) data.Metric {
	if bundle == nil {
		return data.InsufficientData()
	}
	votes := bundle.Votes()
	if len(votes) == 0 {
		return data.InsufficientData()
	}

	var bullish, bearish int
	for _, vote := range votes {
		switch vote {
		case indicators.SignalBullish:
			bullish++
		case indicators.SignalBearish:
			bearish++
		}
	}

	net := float64(bullish-bearish) / float64(len(votes))
	return data.MetricOf(50 + 50*net)
}

func fundamentalSubScore(scores *fundamentals.Scores) data.Metric {
	if scores == nil {
		return data.InsufficientData()
	}
	return scores.Overall()
}

// SentimentSubScore maps the [-1, 1] sentiment signal onto [0, 100]. A
// no-data signal is absent rather than a fake neutral 50.
func SentimentSubScore(sig *sentiment.Signal) data.Metric {
	if sig == nil || sig.NoData {
		return data.InsufficientData()
	}
	return data.MetricOf((sig.Score + 1) * 50)
}

// RiskSubScore inverts the risk bundle onto a 0-100 attractiveness scale:
// each available metric contributes a penalty fraction capped at 1
// against its acceptable band, the penalties are blended by their
// documented weights over the metrics actually available, and the result
// is 100 minus the blended penalty. A bundle with no available risk
// metrics is absent.
func RiskSubScore(bundle *risk.Bundle) data.Metric {
	if bundle == nil {
		return data.InsufficientData()
	}

	var penalty, weightTotal float64
	if bundle.Volatility.OK() {
		penalty += math.Min(bundle.Volatility.Value/volatilityBand, 1) * volatilityWeight
		weightTotal += volatilityWeight
	}
	if bundle.MaxDrawdown.OK() {
		penalty += math.Min(bundle.MaxDrawdown.Value/drawdownBand, 1) * drawdownWeight
		weightTotal += drawdownWeight
	}
	if bundle.VaR.OK() {
		penalty += math.Min(bundle.VaR.Value/valueAtRiskBand, 1) * valueAtRiskWeight
		weightTotal += valueAtRiskWeight
	}

	if weightTotal == 0 {
		return data.InsufficientData()
	}

	return data.MetricOf(100 * (1 - penalty/weightTotal))
}
