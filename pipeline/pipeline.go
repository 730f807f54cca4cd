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

// Package pipeline orchestrates the per-symbol analysis: indicators,
// fundamental scores, sentiment, risk, and their fusion into a composite
// recommendation, plus a portfolio-level summary across symbols.
//
// Symbol pipelines are independent and share no mutable state, so a batch
// runs them on a worker pool bounded to the available cores. A single
// symbol's failure never aborts the batch; only a configuration error
// aborts the run, before any computation begins.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gonum.org/v1/gonum/stat"

	"github.com/finwell/fw-quant/data"
	"github.com/finwell/fw-quant/fundamentals"
	"github.com/finwell/fw-quant/fusion"
	"github.com/finwell/fw-quant/indicators"
	"github.com/finwell/fw-quant/observability/opentelemetry"
	"github.com/finwell/fw-quant/risk"
	"github.com/finwell/fw-quant/sentiment"
)

// ResultStatus classifies the outcome of one symbol's analysis.
type ResultStatus string

const (
	// ResultOK means a composite score was produced.
	ResultOK ResultStatus = "ok"

	// ResultInsufficientData means too few signal categories could be
	// computed from the inputs to fuse a composite.
	ResultInsufficientData ResultStatus = "insufficient_data"

	// ResultInvalidInput means the symbol's inputs were malformed; the
	// symbol's run was abandoned before computing anything.
	ResultInvalidInput ResultStatus = "invalid_input"
)

// SymbolInput is the already-materialized raw data for one symbol, as
// delivered by the data-collection collaborator.
type SymbolInput struct {
	Symbol       string                    `json:"symbol"`
	Prices       *data.PriceSeries         `json:"prices"`
	Fundamentals *data.FundamentalSnapshot `json:"fundamentals,omitempty"`
	News         []data.NewsItem           `json:"news,omitempty"`
}

// Batch is one analysis request: a set of symbols plus an optional shared
// benchmark series for beta. Symbol names must be unique within a batch.
// The benchmark is read concurrently by every symbol pipeline and never
// mutated.
type Batch struct {
	// AsOf anchors time-dependent computations (news age decay). When
	// zero it defaults per symbol to the series' last bar, keeping runs
	// on frozen inputs bit-identical.
	AsOf      time.Time         `json:"asOf,omitempty"`
	Benchmark *data.PriceSeries `json:"benchmark,omitempty"`
	Symbols   []SymbolInput     `json:"symbols"`
}

// Result is the full analysis output for one symbol. This structure is
// the sole input the reporting layer consumes.
type Result struct {
	Symbol       string                 `json:"symbol"`
	Status       ResultStatus           `json:"status"`
	Error        string                 `json:"error,omitempty"`
	Indicators   *indicators.Bundle     `json:"indicators,omitempty"`
	Fundamentals *fundamentals.Scores   `json:"fundamentals,omitempty"`
	Sentiment    *sentiment.Signal      `json:"sentiment,omitempty"`
	Risk         *risk.Bundle           `json:"risk,omitempty"`
	Composite    *fusion.CompositeScore `json:"composite,omitempty"`
}

// PortfolioSummary aggregates composite scores and risk across the batch.
type PortfolioSummary struct {
	Symbols      int                 `json:"symbols"`
	Scored       int                 `json:"scored"`
	AverageScore data.Metric         `json:"averageScore"`
	Dispersion   data.Metric         `json:"dispersion"`
	TierCounts   map[fusion.Tier]int `json:"tierCounts"`

	// AverageRiskScore and RiskConcentration are the mean and standard
	// deviation of the per-symbol 0-100 risk scores; RiskLevel classifies
	// the mean.
	AverageRiskScore  data.Metric `json:"averageRiskScore"`
	RiskConcentration data.Metric `json:"riskConcentration"`
	RiskLevel         risk.Level  `json:"riskLevel,omitempty"`

	// PortfolioVolatility is the diversification-discounted mean of the
	// per-symbol annualized volatilities.
	PortfolioVolatility data.Metric `json:"portfolioVolatility"`

	// Diversification rates the breadth of the portfolio by the number of
	// symbols that produced risk statistics.
	Diversification data.Metric `json:"diversificationScore"`
}

// Report is the output of one batch run.
type Report struct {
	RunID     string             `json:"runId"`
	Results   map[string]*Result `json:"results"`
	Portfolio *PortfolioSummary  `json:"portfolio,omitempty"`
}

// Analyzer runs analysis batches under a validated configuration.
type Analyzer struct {
	cfg Config
}

// New validates the configuration and builds an analyzer. Configuration
// errors are surfaced here, before any computation begins.
func New(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{cfg: cfg}, nil
}

// Run analyzes every symbol in the batch on a bounded worker pool and
// assembles the per-symbol results plus, for multi-symbol batches, the
// portfolio summary.
func (a *Analyzer) Run(ctx context.Context, batch *Batch) (*Report, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "pipeline.Run")
	defer span.End()

	if len(batch.Symbols) == 0 {
		return nil, ErrNoSymbols
	}

	// results are keyed by symbol, so a duplicate would silently shadow
	// an earlier entry
	seen := make(map[string]struct{}, len(batch.Symbols))
	for idx := range batch.Symbols {
		symbol := batch.Symbols[idx].Symbol
		if _, ok := seen[symbol]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSymbol, symbol)
		}
		seen[symbol] = struct{}{}
	}

	benchmark := batch.Benchmark
	if benchmark != nil {
		if err := benchmark.Validate(); err != nil {
			// beta degrades to insufficient_data for every symbol
			log.Warn().Err(err).Msg("benchmark series is malformed; dropping it")
			benchmark = nil
		}
	}

	start := time.Now()
	results := make([]*Result, len(batch.Symbols))

	workers := a.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(batch.Symbols) {
		workers = len(batch.Symbols)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for ww := 0; ww < workers; ww++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = a.analyzeSymbol(ctx, &batch.Symbols[idx], benchmark, batch.AsOf)
			}
		}()
	}
	for idx := range batch.Symbols {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	report := &Report{
		RunID:   uuid.New().String(),
		Results: make(map[string]*Result, len(results)),
	}
	for _, result := range results {
		report.Results[result.Symbol] = result
	}
	if len(batch.Symbols) > 1 {
		report.Portfolio = summarize(results)
	}

	log.Info().
		Str("RunID", report.RunID).
		Int("Symbols", len(batch.Symbols)).
		Dur("Elapsed", time.Since(start).Round(time.Millisecond)).
		Msg("analysis batch complete")

	return report, nil
}

func (a *Analyzer) analyzeSymbol(ctx context.Context, input *SymbolInput, benchmark *data.PriceSeries, asOf time.Time) *Result {
	_, span := otel.Tracer(opentelemetry.Name).Start(ctx, "pipeline.analyzeSymbol")
	span.SetAttributes(attribute.String("symbol", input.Symbol))
	defer span.End()

	result := &Result{Symbol: input.Symbol}

	prices := input.Prices
	if prices == nil {
		prices = &data.PriceSeries{Symbol: input.Symbol}
	}
	if err := prices.Validate(); err != nil {
		log.Warn().Err(err).Str("Symbol", input.Symbol).Msg("rejecting malformed price series")
		result.Status = ResultInvalidInput
		result.Error = err.Error()
		return result
	}

	for ii := range input.News {
		if err := input.News[ii].ValidatePolarity(); err != nil {
			log.Warn().Err(err).Str("Symbol", input.Symbol).Msg("rejecting news item with out-of-range polarity")
			result.Status = ResultInvalidInput
			result.Error = err.Error()
			return result
		}
	}

	if asOf.IsZero() && prices.Len() > 0 {
		asOf = prices.Bars[prices.Len()-1].Time
	}

	result.Indicators = indicators.Compute(prices, a.cfg.Indicators)
	result.Risk = risk.Analyze(prices, benchmark, a.cfg.Risk)

	var fundamentalScores *fundamentals.Scores
	if input.Fundamentals != nil {
		scores := fundamentals.Score(input.Fundamentals)
		fundamentalScores = &scores
	}
	result.Fundamentals = fundamentalScores

	sentiment.ScoreItems(input.News)
	signal := sentiment.Aggregate(input.News, asOf, a.cfg.SentimentHalfLife)
	result.Sentiment = &signal

	composite := fusion.Fuse(fusion.Inputs{
		Indicators:   result.Indicators,
		Fundamentals: fundamentalScores,
		Sentiment:    &signal,
		Risk:         result.Risk,
	}, a.cfg.Fusion)
	result.Composite = &composite

	if composite.Score.OK() {
		result.Status = ResultOK
	} else {
		result.Status = ResultInsufficientData
	}

	return result
}

// summarize builds the portfolio-level view: mean and dispersion of the
// composite scores that were actually produced, tier counts, and the
// aggregate risk picture across the symbols that produced risk
// statistics.
func summarize(results []*Result) *PortfolioSummary {
	summary := &PortfolioSummary{
		Symbols:             len(results),
		AverageScore:        data.InsufficientData(),
		Dispersion:          data.InsufficientData(),
		TierCounts:          make(map[fusion.Tier]int),
		AverageRiskScore:    data.InsufficientData(),
		RiskConcentration:   data.InsufficientData(),
		PortfolioVolatility: data.InsufficientData(),
		Diversification:     data.InsufficientData(),
	}

	scores := make([]float64, 0, len(results))
	riskScores := make([]float64, 0, len(results))
	volatilities := make([]float64, 0, len(results))
	for _, result := range results {
		if result.Composite != nil && result.Composite.Score.OK() {
			scores = append(scores, result.Composite.Score.Value)
			summary.TierCounts[result.Composite.Tier]++
		}
		if result.Risk != nil && result.Risk.Score.OK() {
			riskScores = append(riskScores, result.Risk.Score.Value)
		}
		if result.Risk != nil && result.Risk.Volatility.OK() {
			volatilities = append(volatilities, result.Risk.Volatility.Value)
		}
	}

	summary.Scored = len(scores)
	if len(scores) > 0 {
		summary.AverageScore = data.MetricOf(stat.Mean(scores, nil))
	}
	if len(scores) > 1 {
		summary.Dispersion = data.MetricOf(stat.StdDev(scores, nil))
	}

	if len(riskScores) > 0 {
		mean := stat.Mean(riskScores, nil)
		summary.AverageRiskScore = data.MetricOf(mean)
		summary.RiskLevel = risk.ClassifyLevel(mean)
		summary.Diversification = data.MetricOf(risk.DiversificationScore(len(riskScores)))
	}
	if len(riskScores) > 1 {
		summary.RiskConcentration = data.MetricOf(stat.StdDev(riskScores, nil))
	}
	summary.PortfolioVolatility = risk.PortfolioVolatility(volatilities)

	return summary
}
