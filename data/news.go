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

// NewsItem is a single news article about a security. Polarity is the
// item's sentiment score in [-1, 1]; it is computed once (either upstream
// or by sentiment.ScoreItems) and cached on the item. A nil polarity means
// the item has not been scored yet.
type NewsItem struct {
	Time     time.Time `json:"time"`
	Headline string    `json:"headline"`
	Source   string    `json:"source"`
	Polarity *float64  `json:"polarity,omitempty"`
}

// ValidatePolarity checks that a cached polarity, if present, lies in the
// documented [-1, 1] range.
func (n *NewsItem) ValidatePolarity() error {
	if n.Polarity == nil {
		return nil
	}
	if *n.Polarity < -1 || *n.Polarity > 1 {
		return fmt.Errorf("%w: got %f", ErrPolarityRange, *n.Polarity)
	}
	return nil
}
