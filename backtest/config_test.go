package backtest

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/TzerNanLinStudio/Stock-Sphere/trading"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backtest.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRunConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
backtest:
  start: "2019-01-01"
  end: "2019-12-31"
  symbols: [AAPL, MSFT]
`)
	cfg, err := LoadRunConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(cfg.Symbols, []string{"AAPL", "MSFT"}) {
		t.Errorf("symbols = %v", cfg.Symbols)
	}
	if cfg.BuyBelowK != 20 || cfg.SellAboveK != 80 {
		t.Errorf("thresholds = %f / %f, want defaults 20 / 80", cfg.BuyBelowK, cfg.SellAboveK)
	}
	if cfg.TopN != 25 {
		t.Errorf("top_n = %d, want default 25", cfg.TopN)
	}
	if !reflect.DeepEqual(cfg.Baselines, []string{"^GSPC", "VOO"}) {
		t.Errorf("baselines = %v", cfg.Baselines)
	}
	if got := cfg.Window.String(); got != "2019-01-01 ~ 2019-12-31" {
		t.Errorf("window = %s", got)
	}
}

func TestLoadRunConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
backtest:
  start: "2019-01-01"
  end: "2019-12-31"
  rank_file: document/rank/top100_2019.json
  top_n: 10
  reference_symbol: MSFT
  baselines: [QQQ]
strategy:
  buy_below_k: 25
  sell_above_k: 75
`)
	cfg, err := LoadRunConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.RankFile == "" || cfg.TopN != 10 {
		t.Errorf("rank selection = %q top %d", cfg.RankFile, cfg.TopN)
	}
	if cfg.ReferenceSymbol != "MSFT" {
		t.Errorf("reference symbol = %s", cfg.ReferenceSymbol)
	}
	if cfg.BuyBelowK != 25 || cfg.SellAboveK != 75 {
		t.Errorf("thresholds = %f / %f", cfg.BuyBelowK, cfg.SellAboveK)
	}
	if !reflect.DeepEqual(cfg.Baselines, []string{"QQQ"}) {
		t.Errorf("baselines = %v", cfg.Baselines)
	}
}

func TestLoadRunConfigInvalidWindow(t *testing.T) {
	path := writeConfig(t, `
backtest:
  start: "2019-12-31"
  end: "2019-01-01"
  symbols: [AAPL]
`)
	_, err := LoadRunConfig(path)
	if !errors.Is(err, trading.ErrInvalidWindow) {
		t.Fatalf("err = %v, want ErrInvalidWindow", err)
	}
}

func TestLoadRunConfigInvalidThresholds(t *testing.T) {
	path := writeConfig(t, `
backtest:
  start: "2019-01-01"
  end: "2019-12-31"
  symbols: [AAPL]
strategy:
  buy_below_k: 80
  sell_above_k: 20
`)
	if _, err := LoadRunConfig(path); err == nil {
		t.Fatal("expected error for inverted thresholds")
	}
}

func TestLoadRunConfigNoSymbolSource(t *testing.T) {
	path := writeConfig(t, `
backtest:
  start: "2019-01-01"
  end: "2019-12-31"
`)
	if _, err := LoadRunConfig(path); err == nil {
		t.Fatal("expected error when neither symbols nor rank_file is set")
	}
}

type stubRank struct{ symbols []string }

func (r *stubRank) TopSymbols(source string, n int) ([]string, error) {
	return r.symbols, nil
}

func TestResolveSymbols(t *testing.T) {
	cfg := DefaultRunConfig()
	cfg.RankFile = "rank.json"
	if err := cfg.ResolveSymbols(&stubRank{symbols: []string{"AAPL", "MSFT"}}); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg.Symbols, []string{"AAPL", "MSFT"}) {
		t.Errorf("symbols = %v", cfg.Symbols)
	}

	// Explicit symbols win over the rank file.
	cfg.Symbols = []string{"TSLA"}
	if err := cfg.ResolveSymbols(&stubRank{symbols: []string{"AAPL"}}); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg.Symbols, []string{"TSLA"}) {
		t.Errorf("symbols = %v, want [TSLA]", cfg.Symbols)
	}
}
