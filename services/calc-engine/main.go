// Command calc-engine runs the projection and validation helpers offline,
// without a database: planners paste a baseline and get the series the API
// would compute for it.
//
//	calc-engine -mode forecast -data '{method: "compound", base: 1000, annualChangePercent: 5, months: 12}'
//	calc-engine -mode crossover -data '{iceBase: 1000, evBase: 100, icePct: -10, evPct: 200, months: 36}'
//	calc-engine -mode check -assumptions assumptions.yaml
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"manufacturing_kds/pkg/core/assumption"
	"manufacturing_kds/pkg/core/forecast"
	"manufacturing_kds/pkg/core/logging"
	"manufacturing_kds/pkg/core/production"
	"manufacturing_kds/pkg/core/utils"
)

// ForecastInput selects a projection method and its inputs.
type ForecastInput struct {
	Method              string    `json:"method"`
	Base                float64   `json:"base"`
	AnnualChangePercent float64   `json:"annualChangePercent"`
	History             []float64 `json:"history,omitempty"`
	Scenario            string    `json:"scenario,omitempty"`
	Months              int       `json:"months"`
}

// CrossoverInput is the two powertrain baselines and their growth.
type CrossoverInput struct {
	ICEBase float64 `json:"iceBase"`
	EVBase  float64 `json:"evBase"`
	ICEPct  float64 `json:"icePct"`
	EVPct   float64 `json:"evPct"`
	Months  int     `json:"months"`
}

func main() {
	mode := flag.String("mode", "forecast", "Mode: forecast, crossover or check")
	dataStr := flag.String("data", "", "JSON (or relaxed JSON) payload")
	assumptionsPath := flag.String("assumptions", "", "Assumption file for -mode check")
	flag.Parse()

	logging.InitWriter(os.Stderr, os.Getenv("LOG_LEVEL"), true)

	if err := run(os.Stdout, *mode, *dataStr, *assumptionsPath); err != nil {
		log.Error().Err(err).Str("mode", *mode).Msg("[CALC] failed")
		os.Exit(1)
	}
}

func run(out io.Writer, mode, data, assumptionsPath string) error {
	switch mode {
	case "check":
		return runCheck(out, assumptionsPath)
	case "forecast":
		var in ForecastInput
		if err := decode(data, &in); err != nil {
			return err
		}
		series, err := runForecast(in)
		if err != nil {
			return err
		}
		return emit(out, series)
	case "crossover":
		var in CrossoverInput
		if err := decode(data, &in); err != nil {
			return err
		}
		return emit(out, production.CrossoverForecast(in.ICEBase, in.EVBase, in.ICEPct, in.EVPct, in.Months))
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

func decode(data string, v any) error {
	if strings.TrimSpace(data) == "" {
		return fmt.Errorf("no data provided")
	}
	if _, err := utils.SmartParse(data, v); err != nil {
		return fmt.Errorf("invalid data: %w", err)
	}
	return nil
}

func runForecast(in ForecastInput) (forecast.Series, error) {
	switch strings.ToLower(in.Method) {
	case "", "compound":
		return forecast.Compound(in.Base, in.AnnualChangePercent, in.Months), nil
	case "linear":
		return forecast.Linear(in.Base, in.AnnualChangePercent, in.Months), nil
	case "trend":
		return forecast.Trend(in.History, in.Months), nil
	case "scenario":
		return forecast.Scenario(in.Base, in.Scenario, in.Months), nil
	default:
		return nil, fmt.Errorf("unknown forecast method %q", in.Method)
	}
}

func runCheck(out io.Writer, path string) error {
	if path == "" {
		return fmt.Errorf("-assumptions is required for check mode")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("assumption file: %w", err)
	}
	if _, err := assumption.Load(path); err != nil {
		return err
	}
	fmt.Fprintf(out, "Success: %s is valid\n", path)
	return nil
}

func emit(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
