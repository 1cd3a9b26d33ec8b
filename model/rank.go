package model

// RankEntry 排行榜中的一笔成分股资料（爬虫产出、排行档读取共用）
type RankEntry struct {
	Rank    string `json:"rank"`
	Symbol  string `json:"symbol"`
	Company string `json:"company"`
}
