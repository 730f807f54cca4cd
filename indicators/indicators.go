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

// Package indicators computes technical indicators over a price series.
//
// Every indicator is a pure function of the series it is handed. Indicators
// whose minimum window exceeds the series length report insufficient_data
// for their entry; the bundle as a whole is always valid, partial bundles
// included.
package indicators

import (
	"github.com/finwell/fw-quant/data"
	"github.com/rs/zerolog/log"
)

// Signal is the discrete directional bias an indicator contributes.
type Signal string

const (
	SignalBullish Signal = "bullish"
	SignalBearish Signal = "bearish"
	SignalNeutral Signal = "neutral"
)

// Config holds the indicator windows. All windows have sensible defaults;
// validation happens at pipeline start.
type Config struct {
	RSIWindow       int     `mapstructure:"rsi_window" validate:"gt=1"`
	MACDFast        int     `mapstructure:"macd_fast" validate:"gt=0"`
	MACDSlow        int     `mapstructure:"macd_slow" validate:"gt=0,gtfield=MACDFast"`
	MACDSignal      int     `mapstructure:"macd_signal" validate:"gt=0"`
	BollingerWindow int     `mapstructure:"bollinger_window" validate:"gt=1"`
	BollingerWidth  float64 `mapstructure:"bollinger_width" validate:"gt=0"`
	SMAWindows      []int   `mapstructure:"sma_windows" validate:"min=1,dive,gt=0"`
	CrossShort      int     `mapstructure:"cross_short" validate:"gt=0"`
	CrossLong       int     `mapstructure:"cross_long" validate:"gt=0,gtfield=CrossShort"`
	TrendWindow     int     `mapstructure:"trend_window" validate:"gt=0"`
	ExtremaWindow   int     `mapstructure:"extrema_window" validate:"gt=2"`
	VolumeWindow    int     `mapstructure:"volume_window" validate:"gt=1"`
}

// DefaultConfig returns the documented default windows: RSI 14,
// MACD 12/26/9, Bollinger 20 +/- 2 sigma, SMA 20/50/200, golden/death cross
// on 50 vs 200, support/resistance extrema over the trailing 20 bars, and
// volume ratio against a 20 bar average.
func DefaultConfig() Config {
	return Config{
		RSIWindow:       14,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		BollingerWindow: 20,
		BollingerWidth:  2.0,
		SMAWindows:      []int{20, 50, 200},
		CrossShort:      50,
		CrossLong:       200,
		TrendWindow:     20,
		ExtremaWindow:   20,
		VolumeWindow:    20,
	}
}

// Bundle collects every indicator computed for one series. The source
// series is referenced by identity and never mutated.
type Bundle struct {
	Series *data.PriceSeries `json:"-"`

	RSI               RSIResult       `json:"rsi"`
	MACD              MACDResult      `json:"macd"`
	Bollinger         BollingerResult `json:"bollingerBands"`
	MovingAverages    MAResult        `json:"movingAverages"`
	SupportResistance SRResult        `json:"supportResistance"`
	Volume            VolumeResult    `json:"volume"`
}

// Compute builds the full indicator bundle for a series. It never fails;
// indicators that cannot be computed are marked insufficient_data.
func Compute(series *data.PriceSeries, cfg Config) *Bundle {
	bundle := &Bundle{
		Series:            series,
		RSI:               computeRSI(series, cfg.RSIWindow),
		MACD:              computeMACD(series, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal),
		Bollinger:         computeBollinger(series, cfg.BollingerWindow, cfg.BollingerWidth),
		MovingAverages:    computeMovingAverages(series, cfg),
		SupportResistance: computeSupportResistance(series, cfg.ExtremaWindow),
		Volume:            computeVolume(series, cfg.VolumeWindow),
	}

	log.Debug().
		Str("Symbol", series.Symbol).
		Int("Bars", series.Len()).
		Msg("computed indicator bundle")

	return bundle
}

// Votes returns the directional bias of every computed indicator; entries
// that degraded to insufficient_data cast no vote. Fusion derives the
// technical sub-score from these.
func (b *Bundle) Votes() []Signal {
	votes := []Signal{}

	if b.RSI.Value.OK() {
		votes = append(votes, b.RSI.Vote())
	}
	if b.MACD.Line.OK() && b.MACD.SignalLine.OK() {
		votes = append(votes, b.MACD.Vote())
	}
	if b.Bollinger.Upper.OK() {
		votes = append(votes, b.Bollinger.Vote())
	}
	votes = append(votes, b.MovingAverages.Votes()...)
	if b.Volume.Ratio.OK() {
		if v := b.Volume.Vote(); v != SignalNeutral {
			votes = append(votes, v)
		}
	}

	return votes
}
