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

package cmd

import (
	"context"
	"os"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/finwell/fw-quant/common"
	"github.com/finwell/fw-quant/observability/opentelemetry"
	"github.com/finwell/fw-quant/pipeline"
)

var outputFile string

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the report to a file instead of stdout")

	analyzeCmd.Flags().Float64("risk-free-rate", 0, "annualized risk-free rate used by the Sharpe ratio")
	viper.BindPFlag("engine.risk.risk_free_rate", analyzeCmd.Flags().Lookup("risk-free-rate"))

	analyzeCmd.Flags().Float64("var-confidence", 0.95, "Value-at-Risk confidence level")
	viper.BindPFlag("engine.risk.var_confidence", analyzeCmd.Flags().Lookup("var-confidence"))

	analyzeCmd.Flags().Int("workers", 0, "max concurrent symbol pipelines; 0 uses all cores")
	viper.BindPFlag("engine.workers", analyzeCmd.Flags().Lookup("workers"))
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <snapshot.json>",
	Args:  cobra.ExactArgs(1),
	Short: "Analyze a materialized market data snapshot",
	Long: `Analyze reads an already-materialized snapshot of price series,
fundamentals and news (as produced by the data collection service), runs
the full analysis pipeline, and writes the per-symbol report as JSON.`,
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()

		shutdown, err := opentelemetry.Setup()
		if err != nil {
			log.Fatal().Err(err).Msg("could not set up tracing")
		}
		ctx := context.Background()
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Warn().Err(err).Msg("could not flush traces")
			}
		}()

		raw, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatal().Err(err).Str("FileName", args[0]).Msg("could not read snapshot")
		}

		var batch pipeline.Batch
		if err := json.Unmarshal(raw, &batch); err != nil {
			log.Fatal().Err(err).Str("FileName", args[0]).Msg("could not parse snapshot")
		}

		cfg, err := pipeline.ConfigFromViper()
		if err != nil {
			log.Fatal().Err(err).Msg("could not load engine configuration")
		}

		analyzer, err := pipeline.New(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("engine configuration is invalid")
		}

		report, err := analyzer.Run(ctx, &batch)
		if err != nil {
			log.Fatal().Err(err).Msg("analysis run failed")
		}

		encoded, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("could not serialize report")
		}

		if outputFile != "" {
			if err := os.WriteFile(outputFile, encoded, 0600); err != nil {
				log.Fatal().Err(err).Str("FileName", outputFile).Msg("could not write report")
			}
			return
		}
		os.Stdout.Write(encoded)
		os.Stdout.Write([]byte("\n"))
	},
}
