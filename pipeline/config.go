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

package pipeline

import (
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/finwell/fw-quant/fusion"
	"github.com/finwell/fw-quant/indicators"
	"github.com/finwell/fw-quant/risk"
	"github.com/finwell/fw-quant/sentiment"
)

// weightSumTolerance is how far the fusion category weights may drift
// from summing to 1 before the configuration is rejected.
const weightSumTolerance = 0.01

// Config is the full configuration surface of the engine. Every knob has
// a sensible default; an absent configuration file never crashes the
// pipeline. Validation failures are configuration errors, fatal before
// any computation begins.
type Config struct {
	Indicators indicators.Config `mapstructure:"indicators"`
	Risk       risk.Config       `mapstructure:"risk"`
	Fusion     fusion.Config     `mapstructure:"fusion"`

	// SentimentHalfLife is the exponential decay half-life applied to
	// news item ages during sentiment aggregation.
	SentimentHalfLife time.Duration `mapstructure:"sentiment_half_life" validate:"gt=0"`

	// Workers bounds the per-symbol worker pool; 0 sizes it to the
	// number of available cores.
	Workers int `mapstructure:"workers" validate:"gte=0"`
}

// DefaultConfig returns the engine defaults documented in each package.
func DefaultConfig() Config {
	return Config{
		Indicators:        indicators.DefaultConfig(),
		Risk:              risk.DefaultConfig(),
		Fusion:            fusion.DefaultConfig(),
		SentimentHalfLife: sentiment.DefaultHalfLife,
		Workers:           0,
	}
}

// SetViperDefaults registers the default value of every engine key so a
// partial (or absent) config file falls back field by field.
func SetViperDefaults() {
	defaults := DefaultConfig()

	viper.SetDefault("engine.indicators.rsi_window", defaults.Indicators.RSIWindow)
	viper.SetDefault("engine.indicators.macd_fast", defaults.Indicators.MACDFast)
	viper.SetDefault("engine.indicators.macd_slow", defaults.Indicators.MACDSlow)
	viper.SetDefault("engine.indicators.macd_signal", defaults.Indicators.MACDSignal)
	viper.SetDefault("engine.indicators.bollinger_window", defaults.Indicators.BollingerWindow)
	viper.SetDefault("engine.indicators.bollinger_width", defaults.Indicators.BollingerWidth)
	viper.SetDefault("engine.indicators.sma_windows", defaults.Indicators.SMAWindows)
	viper.SetDefault("engine.indicators.cross_short", defaults.Indicators.CrossShort)
	viper.SetDefault("engine.indicators.cross_long", defaults.Indicators.CrossLong)
	viper.SetDefault("engine.indicators.trend_window", defaults.Indicators.TrendWindow)
	viper.SetDefault("engine.indicators.extrema_window", defaults.Indicators.ExtremaWindow)
	viper.SetDefault("engine.indicators.volume_window", defaults.Indicators.VolumeWindow)

	viper.SetDefault("engine.risk.risk_free_rate", defaults.Risk.RiskFreeRate)
	viper.SetDefault("engine.risk.var_confidence", defaults.Risk.VaRConfidence)
	viper.SetDefault("engine.risk.notional", defaults.Risk.Notional)
	viper.SetDefault("engine.risk.min_benchmark_overlap", defaults.Risk.MinBenchmarkOverlap)

	viper.SetDefault("engine.fusion.weights.technical", defaults.Fusion.Weights.Technical)
	viper.SetDefault("engine.fusion.weights.fundamental", defaults.Fusion.Weights.Fundamental)
	viper.SetDefault("engine.fusion.weights.sentiment", defaults.Fusion.Weights.Sentiment)
	viper.SetDefault("engine.fusion.weights.risk", defaults.Fusion.Weights.Risk)
	viper.SetDefault("engine.fusion.min_categories", defaults.Fusion.MinCategories)

	viper.SetDefault("engine.sentiment_half_life", defaults.SentimentHalfLife)
	viper.SetDefault("engine.workers", defaults.Workers)
}

// ConfigFromViper materializes the engine configuration from viper's
// merged view of defaults, config file, environment and flags.
func ConfigFromViper() (Config, error) {
	SetViperDefaults()

	var cfg Config
	if err := viper.UnmarshalKey("engine", &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfiguration, err)
	}
	return cfg, nil
}

// Validate checks structural constraints (tags) and the semantic ones the
// tags cannot express: fusion weights must sum to 1 within tolerance and
// the minimum category count must not exceed the number of categories.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfiguration, err)
	}

	if total := c.Fusion.Weights.Total(); math.Abs(total-1) > weightSumTolerance {
		return fmt.Errorf("%w: fusion weights sum to %f, want 1", ErrInvalidConfiguration, total)
	}

	return nil
}
