package fetcher

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/TzerNanLinStudio/Stock-Sphere/model"
)

// RankFileReader 从爬虫产出的 JSON 排行档读取成分股
type RankFileReader struct{}

func NewRankFileReader() *RankFileReader {
	return &RankFileReader{}
}

// Read 读取排行档全部内容（档案内顺序即排名顺序）
func (r *RankFileReader) Read(path string) ([]model.RankEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rank file: %w", err)
	}

	var entries []model.RankEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse rank file %s: %w", path, err)
	}
	return entries, nil
}

// TopSymbols 取排行前 n 个股票代号
func (r *RankFileReader) TopSymbols(source string, n int) ([]string, error) {
	entries, err := r.Read(source)
	if err != nil {
		return nil, err
	}

	if n <= 0 || n > len(entries) {
		n = len(entries)
	}
	symbols := make([]string, 0, n)
	for _, e := range entries[:n] {
		symbols = append(symbols, e.Symbol)
	}
	return symbols, nil
}
