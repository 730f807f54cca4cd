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

// FundamentalSnapshot is a point-in-time view of a company's reported
// financial metrics. Every field is optional; a nil pointer means the field
// was not reported, which is different from a reported zero. Ratios are
// expressed as fractions (e.g. a 23% profit margin is 0.23) except for the
// valuation multiples which are plain ratios.
type FundamentalSnapshot struct {
	// Valuation
	TrailingPE   *float64 `json:"trailingPE,omitempty"`
	ForwardPE    *float64 `json:"forwardPE,omitempty"`
	PEGRatio     *float64 `json:"pegRatio,omitempty"`
	PriceToBook  *float64 `json:"priceToBook,omitempty"`
	PriceToSales *float64 `json:"priceToSales,omitempty"`

	// Profitability
	ProfitMargin    *float64 `json:"profitMargin,omitempty"`
	OperatingMargin *float64 `json:"operatingMargin,omitempty"`
	ReturnOnEquity  *float64 `json:"returnOnEquity,omitempty"`
	ReturnOnAssets  *float64 `json:"returnOnAssets,omitempty"`

	// Leverage / financial health
	DebtToEquity *float64 `json:"debtToEquity,omitempty"`
	CurrentRatio *float64 `json:"currentRatio,omitempty"`
	QuickRatio   *float64 `json:"quickRatio,omitempty"`

	// Growth
	RevenueGrowth  *float64 `json:"revenueGrowth,omitempty"`
	EarningsGrowth *float64 `json:"earningsGrowth,omitempty"`

	// Dividends
	DividendYield *float64 `json:"dividendYield,omitempty"`
	PayoutRatio   *float64 `json:"payoutRatio,omitempty"`
}

// Float is a convenience for building snapshots literally in tests and
// loaders.
func Float(v float64) *float64 {
	return &v
}
