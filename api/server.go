package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TzerNanLinStudio/Stock-Sphere/backtest"
	"github.com/TzerNanLinStudio/Stock-Sphere/config"
	"github.com/TzerNanLinStudio/Stock-Sphere/model"
	"github.com/TzerNanLinStudio/Stock-Sphere/schedule"
)

// Server HTTP服务器
type Server struct {
	engine *gin.Engine
	server *http.Server
	deps   Deps
}

// Deps 各接口依赖的协作对象
type Deps struct {
	Config   *config.Config
	Runner   *backtest.Runner
	Provider backtest.HistoryProvider
	Rank     RankSource
	Store    *schedule.Store
}

// RankSource 排行档读取端口（读完整档与取前N名）
type RankSource interface {
	backtest.RankReader
	Read(path string) ([]model.RankEntry, error)
}

// NewServer 创建服务器
func NewServer(deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(loggerMiddleware())

	s := &Server{
		engine: engine,
		deps:   deps,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", deps.Config.Port),
			Handler: engine,
		},
	}

	s.setupRoutes()
	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	handler := NewHandler(s.deps)

	api := s.engine.Group("/api")
	{
		// 回测与年度报酬
		api.POST("/backtest", handler.RunBacktest)
		api.GET("/annual/:symbol", handler.AnnualReturn)

		// 排行榜
		api.GET("/rank", handler.TopRank)

		// 排班
		api.POST("/schedule/config", handler.InsertScheduleConfig)
		api.GET("/schedule/config", handler.GetScheduleConfig)
		api.GET("/schedule/days", handler.GetScheduleDays)
		api.POST("/schedule/days", handler.SaveScheduleDays)
	}

	// 健康检查
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Start 启动服务器
func (s *Server) Start() error {
	log.Printf("[API] 服务启动在 http://localhost%s\n", s.server.Addr)
	log.Println("[API] 可用接口:")
	log.Println("  POST /api/backtest         - 执行KDJ回测")
	log.Println("  GET  /api/annual/:symbol   - 买入持有年度报酬")
	log.Println("  GET  /api/rank             - 排行榜前N名")
	log.Println("  POST /api/schedule/config  - 写入排班设定")
	log.Println("  GET  /api/schedule/config  - 读取排班设定")
	log.Println("  GET  /api/schedule/days    - 读取排班表")
	log.Println("  POST /api/schedule/days    - 写入排班表")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown 优雅关闭服务器
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// loggerMiddleware 日志中间件
func loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log.Printf("[API] %s %s %d %v\n", c.Request.Method, path, status, latency)
	}
}

// corsMiddleware CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
