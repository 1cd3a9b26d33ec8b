package main

import (
	"fmt"

	"github.com/TzerNanLinStudio/Stock-Sphere/backtest"
	"github.com/TzerNanLinStudio/Stock-Sphere/config"
	"github.com/TzerNanLinStudio/Stock-Sphere/fetcher"
	"github.com/TzerNanLinStudio/Stock-Sphere/trading"
)

func runAnnual(cfg *config.Config, symbol, start, end string) error {
	window, err := trading.ParseWindow(start, end)
	if err != nil {
		return err
	}

	provider := fetcher.NewHistoryFetcher().WithBaseURL(cfg.ProviderBaseURL)
	pct, err := backtest.AnnualReturn(provider, symbol, window.Start, window.End)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s 涨跌幅: %.2f%%\n", symbol, window, pct)
	return nil
}
