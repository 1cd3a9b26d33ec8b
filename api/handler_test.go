package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TzerNanLinStudio/Stock-Sphere/backtest"
	"github.com/TzerNanLinStudio/Stock-Sphere/config"
	"github.com/TzerNanLinStudio/Stock-Sphere/model"
	"github.com/TzerNanLinStudio/Stock-Sphere/schedule"
)

type stubProvider struct {
	histories map[string][]model.PricePoint
}

func (p *stubProvider) GetHistory(symbol string, start, end time.Time) ([]model.PricePoint, error) {
	return p.histories[symbol], nil
}

type stubRank struct {
	entries []model.RankEntry
}

func (r *stubRank) Read(path string) ([]model.RankEntry, error) {
	return r.entries, nil
}

func (r *stubRank) TopSymbols(source string, n int) ([]string, error) {
	if n <= 0 || n > len(r.entries) {
		n = len(r.entries)
	}
	out := make([]string, 0, n)
	for _, e := range r.entries[:n] {
		out = append(out, e.Symbol)
	}
	return out, nil
}

// declineSeries 以稳定下跌触发超卖买进，最后一日强制平仓
func declineSeries() []model.PricePoint {
	closes := []float64{100, 98, 96, 94, 92, 90, 88, 86, 80, 95}
	points := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = model.PricePoint{
			Date: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 100,
		}
	}
	return points
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	provider := &stubProvider{histories: map[string][]model.PricePoint{
		"AAPL":  declineSeries(),
		"^GSPC": declineSeries(),
		"VOO":   declineSeries(),
	}}
	store, err := schedule.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.DefaultConfig
	return NewServer(Deps{
		Config:   &cfg,
		Runner:   backtest.NewRunner(provider),
		Provider: provider,
		Rank: &stubRank{entries: []model.RankEntry{
			{Rank: "1", Symbol: "AAPL", Company: "Apple Inc."},
			{Rank: "2", Symbol: "MSFT", Company: "Microsoft Corp"},
		}},
		Store: store,
	})
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func TestRunBacktestEndpoint(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, "POST", "/api/backtest",
		`{"symbols":["AAPL"],"start":"2019-01-01","end":"2019-06-01"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Code int              `json:"code"`
		Data *backtest.Result `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data == nil || len(resp.Data.Transactions) != 2 {
		t.Fatalf("unexpected result %+v", resp.Data)
	}
	if resp.Data.TotalProfit != 15 {
		t.Errorf("total profit = %f, want 15", resp.Data.TotalProfit)
	}
}

func TestRunBacktestInvalidWindow(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, "POST", "/api/backtest",
		`{"symbols":["AAPL"],"start":"2019-06-01","end":"2019-01-01"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRunBacktestMissingDates(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, "POST", "/api/backtest", `{"symbols":["AAPL"]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestAnnualReturnEndpoint(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, "GET", "/api/annual/AAPL?start=2019-01-01&end=2019-06-01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Symbol    string  `json:"symbol"`
			ReturnPct float64 `json:"return_pct"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Symbol != "AAPL" {
		t.Errorf("symbol = %s", resp.Data.Symbol)
	}
	// (95-100)/100*100 = -5
	if resp.Data.ReturnPct != -5 {
		t.Errorf("return = %f, want -5", resp.Data.ReturnPct)
	}
}

func TestAnnualReturnUnknownSymbol(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, "GET", "/api/annual/NOPE?start=2019-01-01&end=2019-06-01", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestTopRankEndpoint(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, "GET", "/api/rank?n=1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Count int               `json:"count"`
		Data  []model.RankEntry `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || len(resp.Data) != 1 || resp.Data[0].Symbol != "AAPL" {
		t.Errorf("unexpected rank response %+v", resp)
	}

	if w := doJSON(t, s, "GET", "/api/rank?n=zero", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad n: status = %d, want 400", w.Code)
	}
}

func TestScheduleEndpoints(t *testing.T) {
	s := newTestServer(t)

	payload := `{
		"shift_config": {
			"shift_year": 2026, "shift_month": 9, "first_day_of_week": "Tuesday",
			"emp_fte_num": 3, "emp_pt_num": 2, "design_off_num": 2,
			"last_submit_day": "2026-08-25", "shift_per_day": 2,
			"fte_num_per_shift": 1, "pt_num_per_shift": 1,
			"fte_max_shift_per_wk": 5, "fte_max_shift_serial": 4,
			"pt_max_shift_serial": 3, "fte_diff_per_month": 2, "fte_serial_off": 1
		},
		"employees": [{"name": "Alice", "employee_type": "FTE", "salary_type": "MONTHLY", "salary_amount": 42000}]
	}`
	if w := doJSON(t, s, "POST", "/api/schedule/config", payload); w.Code != http.StatusOK {
		t.Fatalf("insert config: status = %d, body %s", w.Code, w.Body.String())
	}

	w := doJSON(t, s, "GET", "/api/schedule/config?year=2026&month=9", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get config: status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data schedule.ConfigPayload `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.ShiftConfig.Year != 2026 || len(resp.Data.Employees) != 1 {
		t.Errorf("unexpected config %+v", resp.Data)
	}

	if w := doJSON(t, s, "GET", "/api/schedule/config?year=2026&month=1", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing month: status = %d, want 404", w.Code)
	}

	days := `[{"date": "2026-09-02", "weekday": "Wednesday", "status": "Open", "morning_shift": ["Alice"]}]`
	if w := doJSON(t, s, "POST", "/api/schedule/days", days); w.Code != http.StatusOK {
		t.Fatalf("save days: status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, s, "GET", "/api/schedule/days?start=2026-09-01&end=2026-09-30", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get days: status = %d, body %s", w.Code, w.Body.String())
	}
	var daysResp struct {
		Count int            `json:"count"`
		Data  []schedule.Day `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &daysResp); err != nil {
		t.Fatal(err)
	}
	if daysResp.Count != 1 || daysResp.Data[0].Date != "2026-09-02" {
		t.Errorf("unexpected days %+v", daysResp)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
