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

package risk

import (
	"gonum.org/v1/gonum/stat"

	"github.com/finwell/fw-quant/data"
)

// Level is the discrete classification of a 0-100 risk score.
type Level string

const (
	LevelLow      Level = "LOW"
	LevelModerate Level = "MODERATE"
	LevelHigh     Level = "HIGH"
	LevelVeryHigh Level = "VERY_HIGH"
)

// Risk-level boundaries on the 0-100 score scale.
const (
	levelModerateFloor = 30.0
	levelHighFloor     = 60.0
	levelVeryHighFloor = 80.0
)

// diversificationBenefit discounts the average volatility of a
// multi-asset portfolio for imperfect correlation between holdings.
const diversificationBenefit = 0.8

// ClassifyLevel maps a 0-100 risk score onto its discrete level:
// below 30 is LOW, below 60 MODERATE, below 80 HIGH, VERY_HIGH above.
func ClassifyLevel(score float64) Level {
	switch {
	case score < levelModerateFloor:
		return LevelLow
	case score < levelHighFloor:
		return LevelModerate
	case score < levelVeryHighFloor:
		return LevelHigh
	default:
		return LevelVeryHigh
	}
}

// DiversificationScore rates how diversified a portfolio of the given
// number of holdings is, on a 0-100 scale: 10 or more holdings earn 90,
// 5 or more 70, 3 or more 50, anything smaller 20. Correlation between
// holdings is deliberately not modeled.
func DiversificationScore(holdings int) float64 {
	switch {
	case holdings >= 10:
		return 90
	case holdings >= 5:
		return 70
	case holdings >= 3:
		return 50
	default:
		return 20
	}
}

// PortfolioVolatility estimates portfolio-level volatility as the mean of
// the holdings' annualized volatilities, discounted by a flat
// diversification benefit when more than one holding contributes.
func PortfolioVolatility(volatilities []float64) data.Metric {
	if len(volatilities) == 0 {
		return data.InsufficientData()
	}

	avg := stat.Mean(volatilities, nil)
	if len(volatilities) > 1 {
		avg *= diversificationBenefit
	}
	return data.MetricOf(avg)
}
