package crawler

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/TzerNanLinStudio/Stock-Sphere/model"
)

const (
	cdxAPI = "http://web.archive.org/cdx/search/cdx"

	// Wikipedia 的 S&P 500 成分股页（历史快照的原始位址）
	constituentsPage = "en.wikipedia.org/wiki/List_of_S%26P_500_companies"
)

// FindFirstSnapshot 查询指定年份第一个可用的 Wayback Machine 快照
func (c *Crawler) FindFirstSnapshot(year int) (string, error) {
	q := url.Values{}
	q.Set("url", constituentsPage)
	q.Set("from", fmt.Sprintf("%d0101", year))
	q.Set("to", fmt.Sprintf("%d1231", year))
	q.Set("output", "json")
	q.Set("limit", "1")
	q.Set("filter", "statuscode:200")

	resp, err := c.client.Get(cdxAPI + "?" + q.Encode())
	if err == nil {
		defer resp.Body.Close()
		body, rerr := io.ReadAll(resp.Body)
		if rerr == nil && resp.StatusCode == http.StatusOK {
			// CDX 回应为二维阵列，首列是栏位名
			var rows [][]string
			if jerr := json.Unmarshal(body, &rows); jerr == nil && len(rows) > 1 && len(rows[1]) > 1 {
				return snapshotURL(rows[1][1]), nil
			}
		}
	}

	// 备用方法：尝试常见日期
	common := []string{"0101", "0115", "0201", "0301", "0401", "0501"}
	for _, md := range common {
		candidate := snapshotURL(fmt.Sprintf("%d%s", year, md))
		head, herr := c.client.Head(candidate)
		if herr != nil {
			continue
		}
		head.Body.Close()
		if head.StatusCode == http.StatusOK {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no snapshot found for %d", year)
}

func snapshotURL(timestamp string) string {
	return fmt.Sprintf("https://web.archive.org/web/%s/https://%s", timestamp, constituentsPage)
}

// FetchConstituents 抓取快照中的成分股表格
func (c *Crawler) FetchConstituents(snapshotURL string) ([]model.RankEntry, error) {
	doc, err := c.fetchDocument(snapshotURL)
	if err != nil {
		return nil, err
	}
	return parseConstituentsTable(doc)
}

// parseConstituentsTable 解析 Wikipedia 成分股表格
// 先找 table.wikitable.sortable，找不到再试 #constituents
func parseConstituentsTable(doc *goquery.Document) ([]model.RankEntry, error) {
	table := doc.Find("table.wikitable.sortable").First()
	if table.Length() == 0 {
		table = doc.Find("table#constituents").First()
	}
	if table.Length() == 0 {
		return nil, fmt.Errorf("constituents table not found")
	}

	var entries []model.RankEntry
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			// 标题列
			return
		}
		cols := row.Find("td")
		if cols.Length() < 2 {
			return
		}
		entries = append(entries, model.RankEntry{
			Rank:    strconv.Itoa(len(entries) + 1),
			Symbol:  strings.TrimSpace(cols.Eq(0).Text()),
			Company: strings.TrimSpace(cols.Eq(1).Text()),
		})
	})

	if len(entries) == 0 {
		return nil, fmt.Errorf("no constituent rows found")
	}
	return entries, nil
}

// FetchHistorical 逐年抓取历史快照并存档（sp500_<年>.json）
func (c *Crawler) FetchHistorical(years []int, folder string) error {
	for _, year := range years {
		snapshot, err := c.FindFirstSnapshot(year)
		if err != nil {
			log.Printf("[crawler] %d: %v\n", year, err)
			continue
		}

		entries, err := c.FetchConstituents(snapshot)
		if err != nil {
			log.Printf("[crawler] %d: %v\n", year, err)
			continue
		}

		path, err := SaveJSON(entries, folder, fmt.Sprintf("sp500_%d", year))
		if err != nil {
			return err
		}
		log.Printf("[crawler] %d: %d rows -> %s\n", year, len(entries), path)

		// 礼貌性等待
		time.Sleep(2 * time.Second)
	}
	return nil
}
