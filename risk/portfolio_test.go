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

package risk_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/finwell/fw-quant/risk"
)

var _ = Describe("ClassifyLevel", func() {
	DescribeTable("maps risk scores to discrete levels",
		func(score float64, expected risk.Level) {
			Expect(risk.ClassifyLevel(score)).To(Equal(expected))
		},
		Entry("0 is LOW", 0.0, risk.LevelLow),
		Entry("just below 30 is LOW", 29.9, risk.LevelLow),
		Entry("exactly 30 is MODERATE", 30.0, risk.LevelModerate),
		Entry("exactly 60 is HIGH", 60.0, risk.LevelHigh),
		Entry("exactly 80 is VERY_HIGH", 80.0, risk.LevelVeryHigh),
		Entry("100 is VERY_HIGH", 100.0, risk.LevelVeryHigh),
	)
})

var _ = Describe("DiversificationScore", func() {
	DescribeTable("rates portfolio breadth by holding count",
		func(holdings int, expected float64) {
			Expect(risk.DiversificationScore(holdings)).To(Equal(expected))
		},
		Entry("a single holding", 1, 20.0),
		Entry("two holdings", 2, 20.0),
		Entry("three holdings", 3, 50.0),
		Entry("five holdings", 5, 70.0),
		Entry("ten holdings", 10, 90.0),
		Entry("a large portfolio", 25, 90.0),
	)
})

var _ = Describe("PortfolioVolatility", func() {
	It("reports insufficient data with no contributing holdings", func() {
		Expect(risk.PortfolioVolatility(nil).OK()).To(BeFalse())
	})

	It("passes a single holding's volatility through undiscounted", func() {
		vol := risk.PortfolioVolatility([]float64{0.25})
		Expect(vol.OK()).To(BeTrue())
		Expect(vol.Value).Should(BeNumerically("~", 0.25, 1e-12))
	})

	It("discounts the mean volatility of multiple holdings", func() {
		// mean of 0.20 and 0.30 times the 0.8 diversification benefit
		vol := risk.PortfolioVolatility([]float64{0.20, 0.30})
		Expect(vol.Value).Should(BeNumerically("~", 0.20, 1e-12))
	})
})
