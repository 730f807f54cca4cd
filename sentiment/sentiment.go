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

// Package sentiment reduces a set of scored news items to a single
// time-decayed sentiment signal in [-1, 1].
package sentiment

import (
	"math"
	"time"

	"github.com/finwell/fw-quant/data"
	"github.com/rs/zerolog/log"
)

// DefaultHalfLife is the exponential decay half-life for item weighting:
// an item 48 hours old counts half as much as one published now.
const DefaultHalfLife = 48 * time.Hour

// Signal is the aggregated sentiment for one symbol. Score is 0 with
// NoData set when no scored items were available; an empty news window is
// a neutral signal, never an error.
type Signal struct {
	Score  float64 `json:"score"`
	Items  int     `json:"items"`
	NoData bool    `json:"noData"`
}

// ScoreItems fills in the cached polarity of any item that arrived without
// one, using the built-in lexicon scorer. Items already scored upstream
// are left untouched, so polarity is computed exactly once per item.
func ScoreItems(items []data.NewsItem) {
	for ii := range items {
		if items[ii].Polarity != nil {
			continue
		}
		p := Score(items[ii].Headline)
		items[ii].Polarity = &p
	}
}

// Aggregate computes the exponentially time-decayed weighted mean polarity
// of the items, as of the given instant. Each item's weight is
// 0.5^(age/halfLife); items dated in the future relative to asOf are
// weighted as if published now. Unscored items are skipped.
func Aggregate(items []data.NewsItem, asOf time.Time, halfLife time.Duration) Signal {
	if halfLife <= 0 {
		halfLife = DefaultHalfLife
	}

	var weightedSum, totalWeight float64
	counted := 0
	for ii := range items {
		if items[ii].Polarity == nil {
			log.Debug().
				Str("Headline", items[ii].Headline).
				Msg("skipping unscored news item")
			continue
		}

		age := asOf.Sub(items[ii].Time)
		if age < 0 {
			age = 0
		}
		weight := math.Pow(0.5, age.Hours()/halfLife.Hours())
		weightedSum += *items[ii].Polarity * weight
		totalWeight += weight
		counted++
	}

	if counted == 0 || totalWeight == 0 {
		return Signal{Score: 0, Items: 0, NoData: true}
	}

	score := weightedSum / totalWeight
	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}

	return Signal{Score: score, Items: counted}
}
