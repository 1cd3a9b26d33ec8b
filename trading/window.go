package trading

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout 日期参数的格式
const DateLayout = "2006-01-02"

// ErrInvalidWindow 起始日不早于结束日
var ErrInvalidWindow = errors.New("invalid window: start must be before end")

// Window 模拟的日期区间 [Start, End]
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseWindow 解析 "2006-01-02" 格式的起讫日期
func ParseWindow(start, end string) (Window, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return Window{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return Window{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	w := Window{Start: s, End: e}
	return w, w.Validate()
}

// Validate 在任何工作开始前拒绝无效区间
func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidWindow)
	}
	if !w.Start.Before(w.End) {
		return fmt.Errorf("%w: %s >= %s", ErrInvalidWindow,
			w.Start.Format(DateLayout), w.End.Format(DateLayout))
	}
	return nil
}

func (w Window) String() string {
	return w.Start.Format(DateLayout) + " ~ " + w.End.Format(DateLayout)
}
