package backtest

import (
	"errors"
	"reflect"
	"testing"
)

func TestSeriesStoreLookup(t *testing.T) {
	st := NewSeriesStore()
	st.Add(NewSymbolSeries("AAPL", barsAround(100, 98, 96, 94, 92, 90, 88, 86, 80, 95)))
	st.Add(NewSymbolSeries("MSFT", barsAround(50, 51, 52)))

	if st.Len() != 2 {
		t.Fatalf("len = %d, want 2", st.Len())
	}
	if !reflect.DeepEqual(st.Symbols(), []string{"AAPL", "MSFT"}) {
		t.Errorf("symbols = %v, want load order [AAPL MSFT]", st.Symbols())
	}

	s, err := st.Get("AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Points) != len(s.KDJ) {
		t.Errorf("points and kdj misaligned: %d vs %d", len(s.Points), len(s.KDJ))
	}

	_, err = st.Get("TSLA")
	if !errors.Is(err, ErrSymbolNotFound) {
		t.Errorf("err = %v, want ErrSymbolNotFound", err)
	}
}

func TestSymbolSeriesAt(t *testing.T) {
	s := NewSymbolSeries("AAPL", barsAround(100, 98, 96))

	pt, _, ok := s.At("2019-01-02")
	if !ok || pt.Close != 98 {
		t.Errorf("At(2019-01-02) = %+v, %v", pt, ok)
	}
	if _, _, ok := s.At("2019-03-01"); ok {
		t.Error("lookup of an absent date reported data")
	}
}

func TestReferenceDates(t *testing.T) {
	st := NewSeriesStore()
	st.Add(NewSymbolSeries("AAPL", barsAround(100, 98, 96)))

	dates, err := st.ReferenceDates("AAPL")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2019-01-01", "2019-01-02", "2019-01-03"}
	if !reflect.DeepEqual(dates, want) {
		t.Errorf("dates = %v, want %v", dates, want)
	}

	if _, err := st.ReferenceDates("TSLA"); !errors.Is(err, ErrSymbolNotFound) {
		t.Errorf("err = %v, want ErrSymbolNotFound", err)
	}
}

func TestSeriesStoreReplaceKeepsOrder(t *testing.T) {
	st := NewSeriesStore()
	st.Add(NewSymbolSeries("AAPL", barsAround(100)))
	st.Add(NewSymbolSeries("MSFT", barsAround(50)))
	st.Add(NewSymbolSeries("AAPL", barsAround(200)))

	if !reflect.DeepEqual(st.Symbols(), []string{"AAPL", "MSFT"}) {
		t.Errorf("symbols = %v, want [AAPL MSFT]", st.Symbols())
	}
	s, _ := st.Get("AAPL")
	if s.Points[0].Close != 200 {
		t.Errorf("replacement did not take effect, close = %f", s.Points[0].Close)
	}
}
