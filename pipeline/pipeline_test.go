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

package pipeline_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/finwell/fw-quant/data"
	"github.com/finwell/fw-quant/fusion"
	"github.com/finwell/fw-quant/pipeline"
	"github.com/finwell/fw-quant/risk"
)

var startDate = time.Date(2025, 1, 2, 16, 0, 0, 0, time.UTC)

func dailySeries(symbol string, closes []float64) *data.PriceSeries {
	date := startDate
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
		Symbol:    symbol,
		Currency:  "USD",
		Frequency: data.FrequencyDaily,
		Bars:      bars,
	}
}

func steadyGrowthCloses(n int, start, dailyRate float64) []float64 {
	closes := make([]float64, n)
	price := start
	for ii := range closes {
		closes[ii] = price
		price *= 1 + dailyRate
	}
	return closes
}

func strongFundamentals() *data.FundamentalSnapshot {
	return &data.FundamentalSnapshot{
		TrailingPE:     data.Float(9),
		PEGRatio:       data.Float(0.9),
		ProfitMargin:   data.Float(0.30),
		ReturnOnEquity: data.Float(0.28),
		DebtToEquity:   data.Float(0.3),
		CurrentRatio:   data.Float(2.2),
		RevenueGrowth:  data.Float(0.30),
		EarningsGrowth: data.Float(0.35),
		DividendYield:  data.Float(0.05),
		PayoutRatio:    data.Float(0.4),
	}
}

func bullishNews(around time.Time) []data.NewsItem {
	return []data.NewsItem{
		{Time: around.Add(-2 * time.Hour), Headline: "earnings beat", Polarity: data.Float(0.8)},
		{Time: around.Add(-26 * time.Hour), Headline: "analyst upgrade", Polarity: data.Float(0.8)},
	}
}

var _ = Describe("Analyzer", func() {
	var analyzer *pipeline.Analyzer

	BeforeEach(func() {
		var err error
		analyzer, err = pipeline.New(pipeline.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Run", func() {
		It("rejects an empty batch", func() {
			_, err := analyzer.Run(context.Background(), &pipeline.Batch{})
			Expect(err).To(MatchError(pipeline.ErrNoSymbols))
		})

		Context("with a year of steady growth, strong fundamentals and bullish news", func() {
			var report *pipeline.Report

			BeforeEach(func() {
				prices := dailySeries("GROW", steadyGrowthCloses(252, 100, 0.001))
				batch := &pipeline.Batch{
					Symbols: []pipeline.SymbolInput{{
						Symbol:       "GROW",
						Prices:       prices,
						Fundamentals: strongFundamentals(),
						News:         bullishNews(prices.Bars[prices.Len()-1].Time),
					}},
				}

				var err error
				report, err = analyzer.Run(context.Background(), batch)
				Expect(err).NotTo(HaveOccurred())
			})

			It("produces a strong buy", func() {
				result := report.Results["GROW"]
				Expect(result.Status).To(Equal(pipeline.ResultOK))
				Expect(result.Composite.Tier).To(Equal(fusion.TierStrongBuy))
				Expect(result.Composite.Score.Value).Should(BeNumerically(">=", 70))
			})

			It("computes every signal category", func() {
				result := report.Results["GROW"]
				Expect(result.Composite.SubScores[fusion.CategoryTechnical].OK()).To(BeTrue())
				Expect(result.Composite.SubScores[fusion.CategoryFundamental].OK()).To(BeTrue())
				Expect(result.Composite.SubScores[fusion.CategorySentiment].OK()).To(BeTrue())
				Expect(result.Composite.SubScores[fusion.CategoryRisk].OK()).To(BeTrue())
				Expect(result.Composite.Confidence).Should(BeNumerically("~", 1.0, 1e-12))
			})

			It("skips the portfolio summary for a single symbol", func() {
				Expect(report.Portfolio).To(BeNil())
			})
		})

		Context("with only a handful of prices", func() {
			It("degrades to insufficient data instead of failing", func() {
				batch := &pipeline.Batch{
					Symbols: []pipeline.SymbolInput{{
						Symbol: "THIN",
						Prices: dailySeries("THIN", []float64{100, 101, 102, 101, 103}),
					}},
				}

				report, err := analyzer.Run(context.Background(), batch)
				Expect(err).NotTo(HaveOccurred())

				result := report.Results["THIN"]
				Expect(result.Status).To(Equal(pipeline.ResultInsufficientData))
				Expect(result.Composite.Score.OK()).To(BeFalse())
				Expect(result.Composite.Confidence).To(Equal(0.0))
			})
		})

		Context("with a flat series", func() {
			It("reports zero volatility and degrades the Sharpe ratio", func() {
				closes := make([]float64, 30)
				for ii := range closes {
					closes[ii] = 100
				}
				batch := &pipeline.Batch{
					Symbols: []pipeline.SymbolInput{{Symbol: "FLAT", Prices: dailySeries("FLAT", closes)}},
				}

				report, err := analyzer.Run(context.Background(), batch)
				Expect(err).NotTo(HaveOccurred())

				result := report.Results["FLAT"]
				Expect(result.Risk.Volatility.OK()).To(BeTrue())
				Expect(result.Risk.Volatility.Value).To(Equal(0.0))
				Expect(result.Risk.Sharpe.OK()).To(BeFalse())
				Expect(result.Indicators.RSI.Value.Value).To(Equal(50.0))
			})
		})

		Context("with one malformed symbol in the batch", func() {
			It("isolates the failure to that symbol", func() {
				bad := dailySeries("BAD", []float64{100, 101, 102})
				bad.Bars[1].Close = -10

				batch := &pipeline.Batch{
					Symbols: []pipeline.SymbolInput{
						{Symbol: "BAD", Prices: bad},
						{Symbol: "GOOD", Prices: dailySeries("GOOD", steadyGrowthCloses(60, 100, 0.001))},
					},
				}

				report, err := analyzer.Run(context.Background(), batch)
				Expect(err).NotTo(HaveOccurred())
				Expect(report.Results).To(HaveLen(2))

				Expect(report.Results["BAD"].Status).To(Equal(pipeline.ResultInvalidInput))
				Expect(report.Results["BAD"].Error).NotTo(BeEmpty())
				Expect(report.Results["BAD"].Composite).To(BeNil())

				Expect(report.Results["GOOD"].Status).To(Equal(pipeline.ResultOK))
			})
		})

		Context("with an out-of-range news polarity", func() {
			It("rejects the symbol as invalid input", func() {
				prices := dailySeries("NEWS", steadyGrowthCloses(60, 100, 0.001))
				batch := &pipeline.Batch{
					Symbols: []pipeline.SymbolInput{{
						Symbol: "NEWS",
						Prices: prices,
						News: []data.NewsItem{{
							Time:     prices.Bars[prices.Len()-1].Time,
							Headline: "scored upstream",
							Polarity: data.Float(2.5),
						}},
					}},
				}

				report, err := analyzer.Run(context.Background(), batch)
				Expect(err).NotTo(HaveOccurred())
				Expect(report.Results["NEWS"].Status).To(Equal(pipeline.ResultInvalidInput))
			})
		})

		Context("with a missing price series", func() {
			It("treats it as an empty series rather than panicking", func() {
				batch := &pipeline.Batch{
					Symbols: []pipeline.SymbolInput{{Symbol: "NONE"}},
				}

				report, err := analyzer.Run(context.Background(), batch)
				Expect(err).NotTo(HaveOccurred())
				Expect(report.Results["NONE"].Status).To(Equal(pipeline.ResultInsufficientData))
			})
		})

		Context("with a benchmark", func() {
			It("computes beta over the shared dates", func() {
				rets := make([]float64, 60)
				for ii := range rets {
					if ii%2 == 0 {
						rets[ii] = 0.01
					} else {
						rets[ii] = -0.01
					}
				}
				benchCloses := make([]float64, 61)
				seriesCloses := make([]float64, 61)
				benchCloses[0], seriesCloses[0] = 100, 50
				for ii, r := range rets {
					benchCloses[ii+1] = benchCloses[ii] * (1 + r)
					seriesCloses[ii+1] = seriesCloses[ii] * (1 + 2*r)
				}

				batch := &pipeline.Batch{
					Benchmark: dailySeries("SPY", benchCloses),
					Symbols:   []pipeline.SymbolInput{{Symbol: "HIBETA", Prices: dailySeries("HIBETA", seriesCloses)}},
				}

				report, err := analyzer.Run(context.Background(), batch)
				Expect(err).NotTo(HaveOccurred())

				beta := report.Results["HIBETA"].Risk.Beta
				Expect(beta.OK()).To(BeTrue())
				Expect(beta.Value).Should(BeNumerically("~", 2.0, 1e-6))
			})

			It("drops a malformed benchmark instead of aborting the run", func() {
				bench := dailySeries("SPY", []float64{100, 101, 102})
				bench.Bars[2].Time = bench.Bars[0].Time

				batch := &pipeline.Batch{
					Benchmark: bench,
					Symbols:   []pipeline.SymbolInput{{Symbol: "GOOD", Prices: dailySeries("GOOD", steadyGrowthCloses(60, 100, 0.001))}},
				}

				report, err := analyzer.Run(context.Background(), batch)
				Expect(err).NotTo(HaveOccurred())
				Expect(report.Results["GOOD"].Risk.Beta.OK()).To(BeFalse())
			})
		})

		Context("across repeated runs on frozen inputs", func() {
			It("produces identical scores", func() {
				buildBatch := func() *pipeline.Batch {
					prices := dailySeries("GROW", steadyGrowthCloses(252, 100, 0.001))
					return &pipeline.Batch{
						Symbols: []pipeline.SymbolInput{{
							Symbol:       "GROW",
							Prices:       prices,
							Fundamentals: strongFundamentals(),
							News:         bullishNews(prices.Bars[prices.Len()-1].Time),
						}},
					}
				}

				first, err := analyzer.Run(context.Background(), buildBatch())
				Expect(err).NotTo(HaveOccurred())
				second, err := analyzer.Run(context.Background(), buildBatch())
				Expect(err).NotTo(HaveOccurred())

				Expect(first.RunID).NotTo(Equal(second.RunID))
				Expect(first.Results["GROW"].Composite.Score.Value).To(Equal(second.Results["GROW"].Composite.Score.Value))
				Expect(first.Results["GROW"].Composite.Tier).To(Equal(second.Results["GROW"].Composite.Tier))
				Expect(first.Results["GROW"].Composite.Confidence).To(Equal(second.Results["GROW"].Composite.Confidence))
			})
		})

		Context("with a multi-symbol batch", func() {
			It("summarizes the portfolio over the scored symbols", func() {
				bad := dailySeries("BAD", []float64{100, 101})
				bad.Bars[1].Close = -1

				batch := &pipeline.Batch{
					Symbols: []pipeline.SymbolInput{
						{Symbol: "A", Prices: dailySeries("A", steadyGrowthCloses(120, 100, 0.001))},
						{Symbol: "B", Prices: dailySeries("B", steadyGrowthCloses(120, 50, 0.002))},
						{Symbol: "BAD", Prices: bad},
					},
				}

				report, err := analyzer.Run(context.Background(), batch)
				Expect(err).NotTo(HaveOccurred())

				Expect(report.Portfolio).NotTo(BeNil())
				Expect(report.Portfolio.Symbols).To(Equal(3))
				Expect(report.Portfolio.Scored).To(Equal(2))
				Expect(report.Portfolio.AverageScore.OK()).To(BeTrue())
				Expect(report.Portfolio.Dispersion.OK()).To(BeTrue())

				total := 0
				for _, count := range report.Portfolio.TierCounts {
					total += count
				}
				Expect(total).To(Equal(2))
			})

			It("aggregates per-symbol risk into a portfolio view", func() {
				batch := &pipeline.Batch{
					Symbols: []pipeline.SymbolInput{
						{Symbol: "A", Prices: dailySeries("A", steadyGrowthCloses(120, 100, 0.001))},
						{Symbol: "B", Prices: dailySeries("B", steadyGrowthCloses(120, 50, 0.002))},
					},
				}

				report, err := analyzer.Run(context.Background(), batch)
				Expect(err).NotTo(HaveOccurred())

				// constant growth: both symbols carry a zero risk score
				portfolio := report.Portfolio
				Expect(portfolio.AverageRiskScore.OK()).To(BeTrue())
				Expect(portfolio.AverageRiskScore.Value).To(Equal(0.0))
				Expect(portfolio.RiskLevel).To(Equal(risk.LevelLow))
				Expect(portfolio.RiskConcentration.OK()).To(BeTrue())
				Expect(portfolio.PortfolioVolatility.OK()).To(BeTrue())
				Expect(portfolio.Diversification.Value).To(Equal(20.0))
			})

			It("excludes symbols without risk statistics from the risk view", func() {
				bad := dailySeries("BAD", []float64{100, 101})
				bad.Bars[1].Close = -1

				batch := &pipeline.Batch{
					Symbols: []pipeline.SymbolInput{
						{Symbol: "A", Prices: dailySeries("A", steadyGrowthCloses(120, 100, 0.001))},
						{Symbol: "B", Prices: dailySeries("B", steadyGrowthCloses(120, 50, 0.002))},
						{Symbol: "C", Prices: dailySeries("C", steadyGrowthCloses(120, 75, 0.001))},
						{Symbol: "BAD", Prices: bad},
					},
				}

				report, err := analyzer.Run(context.Background(), batch)
				Expect(err).NotTo(HaveOccurred())

				// three symbols contribute risk statistics, not four
				Expect(report.Portfolio.Diversification.Value).To(Equal(50.0))
			})
		})

		Context("with duplicate symbols in the batch", func() {
			It("rejects the batch before analyzing anything", func() {
				batch := &pipeline.Batch{
					Symbols: []pipeline.SymbolInput{
						{Symbol: "DUP", Prices: dailySeries("DUP", steadyGrowthCloses(60, 100, 0.001))},
						{Symbol: "DUP", Prices: dailySeries("DUP", steadyGrowthCloses(60, 50, 0.002))},
					},
				}

				_, err := analyzer.Run(context.Background(), batch)
				Expect(err).To(MatchError(pipeline.ErrDuplicateSymbol))
			})
		})
	})
})
