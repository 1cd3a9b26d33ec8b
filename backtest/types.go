package backtest

import (
	"errors"
	"time"

	"github.com/TzerNanLinStudio/Stock-Sphere/model"
)

var (
	// ErrDataUnavailable marks a symbol with no usable price history;
	// the symbol is excluded from the run, the run continues.
	ErrDataUnavailable = errors.New("price history unavailable")

	// ErrEmptySeries marks an annual-return request on a zero-length
	// series. Fatal for that single computation only.
	ErrEmptySeries = errors.New("empty price series")

	// ErrSymbolNotFound is returned by the store for symbols it never
	// loaded.
	ErrSymbolNotFound = errors.New("symbol not in store")

	// ErrNoUsableData aborts a run in which every configured symbol
	// had to be excluded. A result claiming zero investment must not
	// be reported as a success.
	ErrNoUsableData = errors.New("no symbol has usable price data")
)

// Action labels a transaction in the ledger.
type Action string

const (
	ActionBuy       Action = "BUY"
	ActionSell      Action = "SELL"
	ActionSellFinal Action = "SELL_FINAL"
)

// Transaction is one immutable ledger entry. Entries are appended in
// chronological emission order and never mutated.
type Transaction struct {
	Date   string  `json:"date"`
	Symbol string  `json:"symbol"`
	Action Action  `json:"action"`
	Shares int64   `json:"shares"`
	Price  float64 `json:"price"`
	Amount float64 `json:"amount"`
	// Profit is set on SELL and SELL_FINAL only.
	Profit float64 `json:"profit"`
	// KValue is the K line that triggered the trade; zero on a forced
	// SELL_FINAL, which fires regardless of K.
	KValue float64 `json:"k_value"`
}

// Position is one symbol's open holding. Shares and cost basis move
// together: both grow on a buy, both reset to zero on a full sell.
type Position struct {
	Symbol    string  `json:"symbol"`
	Shares    int64   `json:"shares"`
	CostBasis float64 `json:"cost_basis"`
}

// Baseline is a buy-and-hold reference return for one instrument.
type Baseline struct {
	Symbol    string  `json:"symbol"`
	ReturnPct float64 `json:"return_pct"`
}

// Result is the outcome of one backtest run. Recomputed fresh each
// run, never persisted by the engine.
type Result struct {
	Start           string          `json:"start"`
	End             string          `json:"end"`
	ReferenceSymbol string          `json:"reference_symbol"`
	Symbols         []string        `json:"symbols"`
	Excluded        []string        `json:"excluded,omitempty"`
	Series          []*SymbolSeries `json:"series"`
	Transactions    []Transaction   `json:"transactions"`
	TotalInvestment float64         `json:"total_investment"`
	TotalProfit     float64         `json:"total_profit"`
	ReturnRate      float64         `json:"return_rate"`
	Baselines       []Baseline      `json:"baselines,omitempty"`
}

// HistoryProvider supplies ordered daily OHLC history for one symbol.
// A provider failure for a symbol excludes that symbol from the run;
// timeouts and retries live behind this interface, not in the engine.
type HistoryProvider interface {
	GetHistory(symbol string, start, end time.Time) ([]model.PricePoint, error)
}

// RankReader supplies the top n symbols of a stored ranking, in rank
// order.
type RankReader interface {
	TopSymbols(source string, n int) ([]string, error)
}
