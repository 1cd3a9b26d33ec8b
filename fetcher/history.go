package fetcher

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/TzerNanLinStudio/Stock-Sphere/backtest"
	"github.com/TzerNanLinStudio/Stock-Sphere/model"
)

// 预设的行情来源（Yahoo Finance chart API）
const defaultChartBaseURL = "https://query1.finance.yahoo.com"

// HistoryFetcher 历史日K拉取器
type HistoryFetcher struct {
	client  *http.Client
	baseURL string
}

// NewHistoryFetcher 创建历史日K拉取器
func NewHistoryFetcher() *HistoryFetcher {
	return &HistoryFetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: defaultChartBaseURL,
	}
}

// WithBaseURL 覆写行情来源位址（设定档或测试用）
func (f *HistoryFetcher) WithBaseURL(base string) *HistoryFetcher {
	if base != "" {
		f.baseURL = base
	}
	return f
}

// chartResponse chart API 的回应结构
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetHistory 取得股票在指定日期范围内的历史日K
// symbol: 股票代号（如 AAPL、^GSPC）
func (f *HistoryFetcher) GetHistory(symbol string, start, end time.Time) ([]model.PricePoint, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=history",
		f.baseURL, url.PathEscape(symbol), start.Unix(), end.Unix())

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", backtest.ErrDataUnavailable, symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %v", backtest.ErrDataUnavailable, symbol, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %d", backtest.ErrDataUnavailable, symbol, resp.StatusCode)
	}

	return parseChart(symbol, body)
}

// parseChart 解析 chart API 回应为日K序列
func parseChart(symbol string, body []byte) ([]model.PricePoint, error) {
	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("%w: %s: decode: %v", backtest.ErrDataUnavailable, symbol, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", backtest.ErrDataUnavailable, symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("%w: %s: no data returned", backtest.ErrDataUnavailable, symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s: no quote data", backtest.ErrDataUnavailable, symbol)
	}
	quote := result.Indicators.Quote[0]

	deref := func(vs []*float64, i int) (float64, bool) {
		if i >= len(vs) || vs[i] == nil {
			return 0, false
		}
		return *vs[i], true
	}

	points := make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, ok1 := deref(quote.Open, i)
		h, ok2 := deref(quote.High, i)
		l, ok3 := deref(quote.Low, i)
		c, ok4 := deref(quote.Close, i)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			// 跳过空K线（休市日等）
			continue
		}
		var vol int64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			vol = *quote.Volume[i]
		}
		points = append(points, model.PricePoint{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: vol,
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}
