package backtest

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// AnnualReturn computes the simple buy-and-hold percentage return for
// one instrument over [start, end]: (close_last - close_first) /
// close_first * 100. It is the baseline comparator for ReturnRate.
func AnnualReturn(p HistoryProvider, symbol string, start, end time.Time) (float64, error) {
	if !start.Before(end) {
		return 0, fmt.Errorf("annual return %s: start %s not before end %s",
			symbol, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	points, err := p.GetHistory(symbol, start, end)
	if err != nil {
		return 0, fmt.Errorf("annual return %s: %w", symbol, err)
	}
	if len(points) == 0 {
		return 0, fmt.Errorf("annual return %s: %w", symbol, ErrEmptySeries)
	}

	first := points[0].Close
	last := points[len(points)-1].Close
	return (last - first) / first * 100, nil
}

// WriteResultJSON writes the run result as indented JSON.
func WriteResultJSON(w io.Writer, res *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
