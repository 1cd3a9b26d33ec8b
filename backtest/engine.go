package backtest

import (
	"fmt"
	"log"
	"math"
)

// Runner drives the day-by-day simulation over a populated series
// store: one pass over the reference trading-date index, buy/sell
// rules per symbol, forced liquidation at the horizon.
type Runner struct {
	provider HistoryProvider
}

func NewRunner(provider HistoryProvider) *Runner {
	return &Runner{provider: provider}
}

// Run executes one backtest for cfg. Per-symbol data problems exclude
// the symbol and the run continues; structural problems (invalid
// window, empty symbol set, zero usable symbols) abort immediately.
func (r *Runner) Run(cfg RunConfig) (*Result, error) {
	if err := cfg.Window.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.Symbols) == 0 {
		return nil, fmt.Errorf("no symbols configured")
	}

	store, excluded := r.loadSeries(cfg)
	if store.Len() == 0 {
		return nil, ErrNoUsableData
	}

	ref := cfg.ReferenceSymbol
	if ref == "" {
		// by convention the first loaded symbol defines the index
		ref = store.Symbols()[0]
	}
	dates, err := store.ReferenceDates(ref)
	if err != nil {
		return nil, err
	}

	ledger := NewLedger()
	r.simulate(cfg, store, dates, ledger)

	invest := ledger.TotalInvestment()
	profit := ledger.TotalProfit()
	rate := 0.0
	if invest > 0 {
		rate = profit / invest * 100
	}

	res := &Result{
		Start:           cfg.Window.Start.Format("2006-01-02"),
		End:             cfg.Window.End.Format("2006-01-02"),
		ReferenceSymbol: ref,
		Symbols:         store.Symbols(),
		Excluded:        excluded,
		Transactions:    ledger.Transactions(),
		TotalInvestment: invest,
		TotalProfit:     profit,
		ReturnRate:      rate,
	}
	for _, sym := range store.Symbols() {
		s, _ := store.Get(sym)
		res.Series = append(res.Series, s)
	}
	r.attachBaselines(res, cfg)
	return res, nil
}

// loadSeries fetches and annotates each configured symbol. A fetch
// failure or empty history excludes that symbol only.
func (r *Runner) loadSeries(cfg RunConfig) (*SeriesStore, []string) {
	store := NewSeriesStore()
	var excluded []string
	for _, sym := range cfg.Symbols {
		points, err := r.provider.GetHistory(sym, cfg.Window.Start, cfg.Window.End)
		if err != nil {
			log.Printf("[backtest] exclude %s: %v", sym, err)
			excluded = append(excluded, sym)
			continue
		}
		if len(points) == 0 {
			log.Printf("[backtest] exclude %s: %v", sym, ErrDataUnavailable)
			excluded = append(excluded, sym)
			continue
		}
		store.Add(NewSymbolSeries(sym, points))
	}
	return store, excluded
}

// simulate runs the signal pass over every reference date except the
// last, then the forced liquidation on the last date. The pass is
// strictly sequential in time; symbols are evaluated in load order
// within a date.
func (r *Runner) simulate(cfg RunConfig, store *SeriesStore, dates []string, ledger *Ledger) {
	symbols := store.Symbols()

	for i := 0; i+1 < len(dates); i++ {
		date := dates[i]
		for _, sym := range symbols {
			s, err := store.Get(sym)
			if err != nil {
				continue
			}
			pt, v, ok := s.At(date)
			if !ok {
				// no data for this symbol on this date: skip, not fail
				continue
			}
			if math.IsNaN(v.K) || math.IsNaN(pt.Close) {
				continue
			}

			switch {
			case v.K < cfg.BuyBelowK:
				// re-entrant: an existing position accumulates one
				// more share on every oversold close
				ledger.Buy(sym, date, pt.Close, v.K)
			case v.K > cfg.SellAboveK && ledger.Shares(sym) > 0:
				ledger.SellAll(sym, date, pt.Close, v.K, ActionSell)
			}
		}
	}

	if len(dates) == 0 {
		return
	}
	last := dates[len(dates)-1]
	for _, sym := range symbols {
		if ledger.Shares(sym) == 0 {
			continue
		}
		s, err := store.Get(sym)
		if err != nil {
			continue
		}
		pt, _, ok := s.At(last)
		if !ok {
			continue
		}
		ledger.SellAll(sym, last, pt.Close, 0, ActionSellFinal)
	}
}

// attachBaselines computes the configured buy-and-hold references.
// A baseline failure is logged and skipped; it never fails the run.
func (r *Runner) attachBaselines(res *Result, cfg RunConfig) {
	for _, sym := range cfg.Baselines {
		pct, err := AnnualReturn(r.provider, sym, cfg.Window.Start, cfg.Window.End)
		if err != nil {
			log.Printf("[backtest] baseline %s: %v", sym, err)
			continue
		}
		res.Baselines = append(res.Baselines, Baseline{Symbol: sym, ReturnPct: pct})
	}
}
