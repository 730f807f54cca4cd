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

package data_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/finwell/fw-quant/data"
)

func seriesFromCloses(closes ...float64) *data.PriceSeries {
	date := time.Date(2025, 1, 2, 16, 0, 0, 0, time.UTC)
	bars := make([]data.Bar, len(closes))
	for ii, close := range closes {
		bars[ii] = data.Bar{
			Time:   date,
			Open:   close,
			High:   close * 1.01,
			Low:    close * 0.99,
			Close:  close,
			Volume: 1_000_000,
		}
		date = date.AddDate(0, 0, 1)
	}
	return &data.PriceSeries{
		Symbol:    "TEST",
		Currency:  "USD",
		Frequency: data.FrequencyDaily,
		Bars:      bars,
	}
}

var _ = Describe("PriceSeries", func() {
	Describe("when validating a series", func() {
		It("accepts a well-formed series", func() {
			Expect(seriesFromCloses(100, 101, 102).Validate()).To(Succeed())
		})

		It("accepts an empty series", func() {
			series := &data.PriceSeries{Symbol: "TEST"}
			Expect(series.Validate()).To(Succeed())
		})

		It("rejects non-monotonic timestamps", func() {
			series := seriesFromCloses(100, 101, 102)
			series.Bars[2].Time = series.Bars[0].Time
			Expect(series.Validate()).To(MatchError(data.ErrNonMonotonicTime))
		})

		It("rejects duplicate timestamps", func() {
			series := seriesFromCloses(100, 101)
			series.Bars[1].Time = series.Bars[0].Time
			Expect(series.Validate()).To(MatchError(data.ErrNonMonotonicTime))
		})

		It("rejects non-positive prices", func() {
			series := seriesFromCloses(100, 101)
			series.Bars[1].Close = -5
			Expect(series.Validate()).To(MatchError(data.ErrNonPositivePrice))
		})

		It("rejects negative volume", func() {
			series := seriesFromCloses(100, 101)
			series.Bars[1].Volume = -1
			Expect(series.Validate()).To(MatchError(data.ErrNegativeVolume))
		})

		It("rejects a bar whose high is below its low", func() {
			series := seriesFromCloses(100, 101)
			series.Bars[1].High = 90
			series.Bars[1].Low = 95
			Expect(series.Validate()).To(MatchError(data.ErrHighBelowLow))
		})
	})

	Describe("when computing returns", func() {
		It("computes simple returns between consecutive closes", func() {
			rets := seriesFromCloses(100, 110, 99).Returns()
			Expect(rets).To(HaveLen(2))
			Expect(rets[0]).Should(BeNumerically("~", 0.10, 1e-12))
			Expect(rets[1]).Should(BeNumerically("~", -0.10, 1e-12))
		})

		It("returns an empty slice for a single bar", func() {
			Expect(seriesFromCloses(100).Returns()).To(BeEmpty())
		})
	})

	Describe("when reading the last close", func() {
		It("returns the most recent closing price", func() {
			last := seriesFromCloses(100, 101, 102).LastClose()
			Expect(last.OK()).To(BeTrue())
			Expect(last.Value).To(Equal(102.0))
		})

		It("degrades for an empty series", func() {
			series := &data.PriceSeries{Symbol: "TEST"}
			Expect(series.LastClose().OK()).To(BeFalse())
		})
	})

	Describe("frequency annualization", func() {
		It("maps daily to 252 periods", func() {
			Expect(data.FrequencyDaily.PeriodsPerYear()).To(Equal(252.0))
		})

		It("maps monthly to 12 periods", func() {
			Expect(data.FrequencyMonthly.PeriodsPerYear()).To(Equal(12.0))
		})

		It("falls back to daily for unknown frequencies", func() {
			Expect(data.Frequency("hourly").PeriodsPerYear()).To(Equal(252.0))
		})
	})
})

var _ = Describe("NewsItem", func() {
	It("accepts polarities inside [-1, 1]", func() {
		item := &data.NewsItem{Headline: "x", Polarity: data.Float(0.7)}
		Expect(item.ValidatePolarity()).To(Succeed())
	})

	It("accepts an unscored item", func() {
		item := &data.NewsItem{Headline: "x"}
		Expect(item.ValidatePolarity()).To(Succeed())
	})

	It("rejects polarities outside [-1, 1]", func() {
		item := &data.NewsItem{Headline: "x", Polarity: data.Float(1.5)}
		Expect(item.ValidatePolarity()).To(MatchError(data.ErrPolarityRange))
	})
})

var _ = Describe("Metric", func() {
	It("wraps finite values as ok", func() {
		m := data.MetricOf(42.5)
		Expect(m.OK()).To(BeTrue())
		Expect(m.Value).To(Equal(42.5))
	})

	It("downgrades NaN to insufficient_data", func() {
		Expect(data.MetricOf(math.NaN()).OK()).To(BeFalse())
	})

	It("downgrades Inf to insufficient_data", func() {
		Expect(data.MetricOf(math.Inf(1)).OK()).To(BeFalse())
	})

	It("marks insufficient data explicitly", func() {
		m := data.InsufficientData()
		Expect(m.OK()).To(BeFalse())
		Expect(m.Status).To(Equal(data.StatusInsufficientData))
	})
})
