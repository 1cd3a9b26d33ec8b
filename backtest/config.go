package backtest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/TzerNanLinStudio/Stock-Sphere/trading"
)

type YAMLConfig struct {
	Backtest struct {
		Start           string   `yaml:"start"`
		End             string   `yaml:"end"`
		Symbols         []string `yaml:"symbols"`
		RankFile        string   `yaml:"rank_file"`
		TopN            int      `yaml:"top_n"`
		ReferenceSymbol string   `yaml:"reference_symbol"`
		Baselines       []string `yaml:"baselines"`
	} `yaml:"backtest"`

	Strategy struct {
		BuyBelowK  *float64 `yaml:"buy_below_k"`
		SellAboveK *float64 `yaml:"sell_above_k"`
	} `yaml:"strategy"`
}

// RunConfig parameterizes one backtest run.
type RunConfig struct {
	Window  trading.Window
	Symbols []string

	// RankFile and TopN select symbols from a stored ranking when
	// Symbols is empty; resolved by the caller through a RankReader.
	RankFile string
	TopN     int

	// ReferenceSymbol defines the common trading-date index. Empty
	// means the first loaded symbol.
	ReferenceSymbol string

	// Baselines are buy-and-hold comparators for the report.
	Baselines []string

	// K thresholds of the oversold buy / overbought sell rules.
	BuyBelowK  float64
	SellAboveK float64
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		TopN:       25,
		Baselines:  []string{"^GSPC", "VOO"},
		BuyBelowK:  20,
		SellAboveK: 80,
	}
}

// LoadRunConfig reads a backtest YAML file, applies defaults and
// validates the window before any work begins.
func LoadRunConfig(path string) (RunConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("read config: %w", err)
	}

	var yc YAMLConfig
	if err := yaml.Unmarshal(raw, &yc); err != nil {
		return RunConfig{}, fmt.Errorf("parse yaml: %w", err)
	}

	cfg := DefaultRunConfig()

	if yc.Backtest.Start == "" || yc.Backtest.End == "" {
		return RunConfig{}, fmt.Errorf("backtest.start and backtest.end are required")
	}
	w, err := trading.ParseWindow(yc.Backtest.Start, yc.Backtest.End)
	if err != nil {
		return RunConfig{}, err
	}
	cfg.Window = w

	for _, s := range yc.Backtest.Symbols {
		if s != "" {
			cfg.Symbols = append(cfg.Symbols, s)
		}
	}
	cfg.RankFile = yc.Backtest.RankFile
	if yc.Backtest.TopN > 0 {
		cfg.TopN = yc.Backtest.TopN
	}
	cfg.ReferenceSymbol = yc.Backtest.ReferenceSymbol
	if len(yc.Backtest.Baselines) > 0 {
		cfg.Baselines = yc.Backtest.Baselines
	}

	if yc.Strategy.BuyBelowK != nil {
		cfg.BuyBelowK = *yc.Strategy.BuyBelowK
	}
	if yc.Strategy.SellAboveK != nil {
		cfg.SellAboveK = *yc.Strategy.SellAboveK
	}
	if cfg.BuyBelowK >= cfg.SellAboveK {
		return RunConfig{}, fmt.Errorf("strategy: buy_below_k %.2f must be below sell_above_k %.2f",
			cfg.BuyBelowK, cfg.SellAboveK)
	}

	if len(cfg.Symbols) == 0 && cfg.RankFile == "" {
		return RunConfig{}, fmt.Errorf("backtest.symbols or backtest.rank_file is required")
	}

	return cfg, nil
}

// ResolveSymbols fills Symbols from the rank file when none were
// configured explicitly.
func (cfg *RunConfig) ResolveSymbols(rank RankReader) error {
	if len(cfg.Symbols) > 0 {
		return nil
	}
	symbols, err := rank.TopSymbols(cfg.RankFile, cfg.TopN)
	if err != nil {
		return fmt.Errorf("resolve symbols: %w", err)
	}
	cfg.Symbols = symbols
	return nil
}
