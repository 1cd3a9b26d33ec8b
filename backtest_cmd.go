package main

import (
	"fmt"
	"os"

	"github.com/TzerNanLinStudio/Stock-Sphere/backtest"
	"github.com/TzerNanLinStudio/Stock-Sphere/config"
	"github.com/TzerNanLinStudio/Stock-Sphere/fetcher"
)

func runBacktest(svcCfg *config.Config, configPath, outPath string) error {
	cfg, err := backtest.LoadRunConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.RankFile == "" {
		cfg.RankFile = svcCfg.RankFile
	}
	if err := cfg.ResolveSymbols(fetcher.NewRankFileReader()); err != nil {
		return err
	}

	provider := fetcher.NewHistoryFetcher().WithBaseURL(svcCfg.ProviderBaseURL)
	runner := backtest.NewRunner(provider)
	result, err := runner.Run(cfg)
	if err != nil {
		return err
	}

	if outPath == "" {
		return backtest.WriteResultJSON(os.Stdout, result)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()
	return backtest.WriteResultJSON(f, result)
}
