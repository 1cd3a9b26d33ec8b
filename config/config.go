package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// YAMLConfig YAML配置文件结构
type YAMLConfig struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Data struct {
		ProviderBaseURL string `yaml:"provider_base_url"`
		RankFile        string `yaml:"rank_file"`
		TopN            int    `yaml:"top_n"`
		RankFolder      string `yaml:"rank_folder"`
	} `yaml:"data"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
}

// Config 服务配置
type Config struct {
	// HTTP 服务端口
	Port int

	// 行情来源位址（空值用预设 Yahoo chart API）
	ProviderBaseURL string

	// 历史行情请求逾时
	FetchTimeout time.Duration

	// 排行档路径与预设取用档数
	RankFile string
	TopN     int

	// 爬虫输出目录
	RankFolder string

	// 排班资料库路径
	SQLitePath string
}

// DefaultConfig 默认配置
var DefaultConfig = Config{
	Port:         19528,
	FetchTimeout: 15 * time.Second,
	RankFile:     "document/rank/top100_2019.json",
	TopN:         25,
	RankFolder:   "document/rank",
	SQLitePath:   "data/stock_sphere.db",
}

// LoadFromFile 从YAML文件加载配置
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var yc YAMLConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	config := DefaultConfig

	if yc.Server.Port > 0 {
		config.Port = yc.Server.Port
	}
	if yc.Data.ProviderBaseURL != "" {
		config.ProviderBaseURL = yc.Data.ProviderBaseURL
	}
	if yc.Data.RankFile != "" {
		config.RankFile = yc.Data.RankFile
	}
	if yc.Data.TopN > 0 {
		config.TopN = yc.Data.TopN
	}
	if yc.Data.RankFolder != "" {
		config.RankFolder = yc.Data.RankFolder
	}
	if yc.Database.SQLitePath != "" {
		config.SQLitePath = yc.Database.SQLitePath
	}

	return &config, nil
}

// GetConfig 加载配置；没有配置文件或加载失败时用默认配置
func GetConfig(path string) *Config {
	if path == "" {
		config := DefaultConfig
		return &config
	}

	config, err := LoadFromFile(path)
	if err != nil {
		log.Printf("[config] %v，使用默认配置\n", err)
		fallback := DefaultConfig
		return &fallback
	}
	return config
}
