package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/TzerNanLinStudio/Stock-Sphere/config"
	"github.com/TzerNanLinStudio/Stock-Sphere/crawler"
)

func runCrawl(cfg *config.Config, history bool, yearsArg, outDir string) error {
	if outDir == "" {
		outDir = cfg.RankFolder
	}
	c := crawler.New()

	if history {
		years, err := parseYears(yearsArg)
		if err != nil {
			return err
		}
		return c.FetchHistorical(years, outDir)
	}

	entries, err := c.FetchSlickcharts(crawler.DefaultSlickchartsURL)
	if err != nil {
		return err
	}
	path, err := crawler.SaveJSON(entries, outDir, "")
	if err != nil {
		return err
	}
	log.Printf("[crawler] %d rows -> %s\n", len(entries), path)
	return nil
}

func parseYears(arg string) ([]int, error) {
	var years []int
	for _, part := range strings.Split(arg, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		y, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("无效的年份 %q", part)
		}
		years = append(years, y)
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("未指定年份")
	}
	return years, nil
}
