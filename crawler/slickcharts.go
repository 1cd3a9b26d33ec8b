package crawler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/TzerNanLinStudio/Stock-Sphere/model"
)

// DefaultSlickchartsURL S&P 500 权重排行页
const DefaultSlickchartsURL = "https://www.slickcharts.com/sp500"

// 单页最多取前 100 名
const maxRankRows = 100

// Crawler 排行榜爬虫
type Crawler struct {
	client *http.Client
}

// New 创建爬虫，逾时由此处统一控管
func New() *Crawler {
	return &Crawler{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Crawler) fetchDocument(pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequest("GET", pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// FetchSlickcharts 抓取排行表（可传入 Wayback 快照位址）
func (c *Crawler) FetchSlickcharts(pageURL string) ([]model.RankEntry, error) {
	doc, err := c.fetchDocument(pageURL)
	if err != nil {
		return nil, err
	}
	return parseSlickchartsTable(doc)
}

// parseSlickchartsTable 解析排行表格：栏位依序为 排名/公司/代号
func parseSlickchartsTable(doc *goquery.Document) ([]model.RankEntry, error) {
	var entries []model.RankEntry

	doc.Find("table.table tbody tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i >= maxRankRows {
			return false
		}
		cols := row.Find("td")
		if cols.Length() < 3 {
			return true
		}
		entries = append(entries, model.RankEntry{
			Rank:    strings.TrimSpace(cols.Eq(0).Text()),
			Company: strings.TrimSpace(cols.Eq(1).Text()),
			Symbol:  strings.TrimSpace(cols.Eq(2).Text()),
		})
		return true
	})

	if len(entries) == 0 {
		return nil, fmt.Errorf("no rank rows found")
	}
	return entries, nil
}

// SaveJSON 将排行资料存成 JSON 档；档名为空时用时间戳命名
// 回传实际写入的路径
func SaveJSON(entries []model.RankEntry, folder, filename string) (string, error) {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}

	if filename == "" {
		filename = time.Now().Format("20060102_150405") + ".json"
	} else if !strings.HasSuffix(filename, ".json") {
		filename += ".json"
	}
	path := filepath.Join(folder, filename)

	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
