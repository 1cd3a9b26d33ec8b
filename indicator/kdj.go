package indicator

import (
	"encoding/json"
	"math"
	"time"

	"github.com/TzerNanLinStudio/Stock-Sphere/model"
)

// Window is the trailing window length for the raw stochastic value.
const Window = 9

// Smoothing factor for the K and D lines, center of mass 2.
const alpha = 1.0 / 3.0

// Value holds the oscillator lines for one trading day. An undefined
// line (not enough history, or a degenerate high==low window) is NaN.
type Value struct {
	Date time.Time
	K    float64
	D    float64
	J    float64
}

// Defined reports whether the K line carries a usable value.
func (v Value) Defined() bool {
	return !math.IsNaN(v.K)
}

// MarshalJSON emits NaN lines as null so annotated series stay
// representable in JSON reports.
func (v Value) MarshalJSON() ([]byte, error) {
	type line struct {
		Date string   `json:"date"`
		K    *float64 `json:"k"`
		D    *float64 `json:"d"`
		J    *float64 `json:"j"`
	}
	f := func(x float64) *float64 {
		if math.IsNaN(x) {
			return nil
		}
		return &x
	}
	return json.Marshal(line{
		Date: v.Date.Format(model.DateLayout),
		K:    f(v.K),
		D:    f(v.D),
		J:    f(v.J),
	})
}

// UnmarshalJSON parses the layout emitted by MarshalJSON, restoring
// null lines as NaN.
func (v *Value) UnmarshalJSON(data []byte) error {
	type line struct {
		Date string   `json:"date"`
		K    *float64 `json:"k"`
		D    *float64 `json:"d"`
		J    *float64 `json:"j"`
	}
	var l line
	if err := json.Unmarshal(data, &l); err != nil {
		return err
	}
	d, err := time.Parse(model.DateLayout, l.Date)
	if err != nil {
		return err
	}
	f := func(x *float64) float64 {
		if x == nil {
			return math.NaN()
		}
		return *x
	}
	v.Date, v.K, v.D, v.J = d, f(l.K), f(l.D), f(l.J)
	return nil
}

// KDJ computes the oscillator for an ordered daily series. The result
// is aligned one-to-one with points, entry i describing points[i].
// All three lines are causal: entry i uses only data at or before i.
func KDJ(points []model.PricePoint) []Value {
	rsv := rawStochastic(points)
	k := ewma(rsv)
	d := ewma(k)

	out := make([]Value, len(points))
	for i := range points {
		out[i] = Value{
			Date: points[i].Date,
			K:    k[i],
			D:    d[i],
			J:    3*k[i] - 2*d[i],
		}
	}
	return out
}

// rawStochastic computes RSV: the close position inside the trailing
// Window-day high/low range, scaled to 0..100. NaN until Window points
// exist and whenever the window is flat (high == low).
func rawStochastic(points []model.PricePoint) []float64 {
	out := make([]float64, len(points))
	for i := range points {
		if i < Window-1 {
			out[i] = math.NaN()
			continue
		}
		lo := math.Inf(1)
		hi := math.Inf(-1)
		for j := i - Window + 1; j <= i; j++ {
			lo = math.Min(lo, points[j].Low)
			hi = math.Max(hi, points[j].High)
		}
		if hi == lo {
			// division by zero propagates as NaN, never an error
			out[i] = math.NaN()
			continue
		}
		out[i] = (points[i].Close - lo) / (hi - lo) * 100
	}
	return out
}

// ewma is the adjust-weighted exponential moving average: entry i is
// sum((1-alpha)^n * x_{i-n}) / sum((1-alpha)^n) over the defined
// inputs at or before i. A NaN input yields NaN at that position but
// does not poison later entries; its weight simply never enters the
// sums.
func ewma(xs []float64) []float64 {
	out := make([]float64, len(xs))
	var num, den float64
	for i, x := range xs {
		num *= 1 - alpha
		den *= 1 - alpha
		if math.IsNaN(x) {
			out[i] = math.NaN()
			continue
		}
		num += x
		den++
		out[i] = num / den
	}
	return out
}
