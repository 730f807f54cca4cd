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

package sentiment

import "strings"

// Small financial-news lexicon used to polarity-score headlines that
// arrive without an upstream score.
var (
	positiveWords = map[string]struct{}{
		"beat": {}, "beats": {}, "bullish": {}, "buy": {}, "upgrade": {},
		"upgraded": {}, "surge": {}, "surges": {}, "soar": {}, "soars": {},
		"rally": {}, "rallies": {}, "record": {}, "strong": {}, "growth": {},
		"profit": {}, "profits": {}, "gain": {}, "gains": {}, "jump": {},
		"jumps": {}, "outperform": {}, "raises": {}, "dividend": {},
		"expands": {}, "wins": {}, "breakthrough": {}, "approval": {},
	}
	negativeWords = map[string]struct{}{
		"miss": {}, "misses": {}, "bearish": {}, "sell": {}, "downgrade": {},
		"downgraded": {}, "plunge": {}, "plunges": {}, "slump": {},
		"slumps": {}, "crash": {}, "crashes": {}, "weak": {}, "loss": {},
		"losses": {}, "drop": {}, "drops": {}, "fall": {}, "falls": {},
		"lawsuit": {}, "fraud": {}, "probe": {}, "recall": {}, "layoffs": {},
		"warns": {}, "warning": {}, "cuts": {}, "decline": {}, "declines": {},
		"bankruptcy": {}, "underperform": {},
	}
)

// Score computes a lexicon polarity in [-1, 1] for a piece of text:
// (positive hits - negative hits) / total hits. Text with no lexicon hits
// scores 0.
func Score(text string) float64 {
	var positive, negative int

	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?'\"()[]")
		if _, ok := positiveWords[word]; ok {
			positive++
		} else if _, ok := negativeWords[word]; ok {
			negative++
		}
	}

	total := positive + negative
	if total == 0 {
		return 0
	}
	return float64(positive-negative) / float64(total)
}
