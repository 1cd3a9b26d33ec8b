package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/TzerNanLinStudio/Stock-Sphere/api"
	"github.com/TzerNanLinStudio/Stock-Sphere/backtest"
	"github.com/TzerNanLinStudio/Stock-Sphere/config"
	"github.com/TzerNanLinStudio/Stock-Sphere/fetcher"
	"github.com/TzerNanLinStudio/Stock-Sphere/schedule"
)

var (
	configPath     string
	backtestMode   bool
	backtestConfig string
	backtestOut    string
	crawlMode      bool
	crawlHistory   bool
	crawlYears     string
	crawlOut       string
	annualMode     bool
)

func main() {
	flag.StringVar(&configPath, "config", "", "配置文件路径(YAML格式)")
	flag.BoolVar(&backtestMode, "backtest", false, "运行KDJ日线回测并退出")
	flag.StringVar(&backtestConfig, "bt-config", "backtest.yaml", "回测配置文件路径(YAML格式)")
	flag.StringVar(&backtestOut, "bt-out", "", "回测输出JSON文件路径(默认stdout)")
	flag.BoolVar(&crawlMode, "crawl", false, "抓取最新S&P 500排行并存档后退出")
	flag.BoolVar(&crawlHistory, "crawl-history", false, "抓取Wayback历史年度成分股并存档后退出")
	flag.StringVar(&crawlYears, "crawl-years", "2014,2015,2016,2017,2018", "历史抓取年份（逗号分隔，配合 -crawl-history）")
	flag.StringVar(&crawlOut, "crawl-out", "", "爬虫输出目录（默认用配置 data.rank_folder）")
	flag.BoolVar(&annualMode, "annual", false, "计算单一标的买入持有报酬后退出：-annual SYMBOL START END")
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := config.GetConfig(configPath)

	if backtestMode {
		if err := runBacktest(cfg, backtestConfig, backtestOut); err != nil {
			log.Printf("[ERROR] 回测失败: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if crawlMode || crawlHistory {
		if err := runCrawl(cfg, crawlHistory, crawlYears, crawlOut); err != nil {
			log.Printf("[ERROR] 抓取失败: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if annualMode {
		if flag.NArg() != 3 {
			log.Printf("[ERROR] 用法: -annual SYMBOL START END（日期格式 2006-01-02）\n")
			os.Exit(2)
		}
		if err := runAnnual(cfg, flag.Arg(0), flag.Arg(1), flag.Arg(2)); err != nil {
			log.Printf("[ERROR] 年度报酬计算失败: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// 默认：HTTP 服务模式
	if err := runServe(cfg); err != nil {
		log.Printf("[ERROR] 服务启动失败: %v\n", err)
		os.Exit(1)
	}
}

// runServe 启动HTTP服务直到收到退出信号
func runServe(cfg *config.Config) error {
	store, err := schedule.Open(cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer store.Close()

	provider := fetcher.NewHistoryFetcher().WithBaseURL(cfg.ProviderBaseURL)

	server := api.NewServer(api.Deps{
		Config:   cfg,
		Runner:   backtest.NewRunner(provider),
		Provider: provider,
		Rank:     fetcher.NewRankFileReader(),
		Store:    store,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		log.Println("正在关闭服务...")
		if err := server.Shutdown(); err != nil {
			return err
		}
		log.Println("服务已关闭")
		return nil
	}
}
