package backtest

import (
	"fmt"

	"github.com/TzerNanLinStudio/Stock-Sphere/indicator"
	"github.com/TzerNanLinStudio/Stock-Sphere/model"
)

// SymbolSeries is one symbol's ordered price history annotated with
// the KDJ lines, read-only for the duration of a run.
type SymbolSeries struct {
	Symbol string               `json:"symbol"`
	Points []model.PricePoint   `json:"points"`
	KDJ    []indicator.Value    `json:"kdj"`
	index  map[string]int
}

// NewSymbolSeries annotates an ordered price series. The KDJ slice is
// aligned one-to-one with points.
func NewSymbolSeries(symbol string, points []model.PricePoint) *SymbolSeries {
	s := &SymbolSeries{
		Symbol: symbol,
		Points: points,
		KDJ:    indicator.KDJ(points),
		index:  make(map[string]int, len(points)),
	}
	for i, p := range points {
		s.index[p.DateKey()] = i
	}
	return s
}

// At looks up the point and indicator value for a trading date. A miss
// means this symbol has no data for that date (holiday or gap) and the
// caller skips it; it is not an error.
func (s *SymbolSeries) At(date string) (model.PricePoint, indicator.Value, bool) {
	i, ok := s.index[date]
	if !ok {
		return model.PricePoint{}, indicator.Value{}, false
	}
	return s.Points[i], s.KDJ[i], true
}

// Dates returns the symbol's trading dates in ascending order.
func (s *SymbolSeries) Dates() []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.DateKey()
	}
	return out
}

// SeriesStore holds the annotated series for the active simulation
// window, keyed by symbol, preserving load order.
type SeriesStore struct {
	order  []string
	series map[string]*SymbolSeries
}

func NewSeriesStore() *SeriesStore {
	return &SeriesStore{series: make(map[string]*SymbolSeries)}
}

// Add registers a series under its symbol. Re-adding a symbol replaces
// the series but keeps its original position in the load order.
func (st *SeriesStore) Add(s *SymbolSeries) {
	if _, ok := st.series[s.Symbol]; !ok {
		st.order = append(st.order, s.Symbol)
	}
	st.series[s.Symbol] = s
}

// Get fetches a series by symbol.
func (st *SeriesStore) Get(symbol string) (*SymbolSeries, error) {
	s, ok := st.series[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}
	return s, nil
}

// Symbols returns all loaded symbols in load order.
func (st *SeriesStore) Symbols() []string {
	return append([]string(nil), st.order...)
}

// Len reports how many symbols the store holds.
func (st *SeriesStore) Len() int {
	return len(st.order)
}

// ReferenceDates returns the common trading-date index: the dates of
// the designated reference symbol.
func (st *SeriesStore) ReferenceDates(refSymbol string) ([]string, error) {
	s, err := st.Get(refSymbol)
	if err != nil {
		return nil, err
	}
	return s.Dates(), nil
}
