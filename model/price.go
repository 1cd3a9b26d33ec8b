package model

import "time"

// DateLayout 日K资料的日期格式
const DateLayout = "2006-01-02"

// PricePoint 单一交易日的OHLC行情
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`   // 开盘价
	High   float64   `json:"high"`   // 最高价
	Low    float64   `json:"low"`    // 最低价
	Close  float64   `json:"close"`  // 收盘价
	Volume int64     `json:"volume"` // 成交量
}

// DateKey 回传日期索引键（例如 2019-01-02）
func (p PricePoint) DateKey() string {
	return p.Date.Format(DateLayout)
}
