package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TzerNanLinStudio/Stock-Sphere/backtest"
	"github.com/TzerNanLinStudio/Stock-Sphere/schedule"
	"github.com/TzerNanLinStudio/Stock-Sphere/trading"
)

// Handler API处理器
type Handler struct {
	deps Deps
}

// NewHandler 创建处理器
func NewHandler(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// backtestRequest 回测请求；省略的栏位用设定档预设值
type backtestRequest struct {
	Symbols []string `json:"symbols"`
	Start   string   `json:"start" binding:"required"`
	End     string   `json:"end" binding:"required"`
}

// RunBacktest 执行一次KDJ回测
func (h *Handler) RunBacktest(c *gin.Context) {
	var req backtestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	window, err := trading.ParseWindow(req.Start, req.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := backtest.DefaultRunConfig()
	cfg.Window = window
	cfg.Symbols = req.Symbols
	cfg.RankFile = h.deps.Config.RankFile
	cfg.TopN = h.deps.Config.TopN

	if err := cfg.ResolveSymbols(h.deps.Rank); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.deps.Runner.Run(cfg)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, trading.ErrInvalidWindow):
			status = http.StatusBadRequest
		case errors.Is(err, backtest.ErrNoUsableData):
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "data": result})
}

// AnnualReturn 计算买入持有年度报酬
func (h *Handler) AnnualReturn(c *gin.Context) {
	symbol := c.Param("symbol")
	window, err := trading.ParseWindow(c.Query("start"), c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pct, err := backtest.AnnualReturn(h.deps.Provider, symbol, window.Start, window.End)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, backtest.ErrEmptySeries) || errors.Is(err, backtest.ErrDataUnavailable) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error(), "symbol": symbol})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{"symbol": symbol, "return_pct": pct},
	})
}

// TopRank 取排行榜前N名
func (h *Handler) TopRank(c *gin.Context) {
	n := h.deps.Config.TopN
	if q := c.Query("n"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "n 必须是正整数"})
			return
		}
		n = v
	}

	entries, err := h.deps.Rank.Read(h.deps.Config.RankFile)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if n > len(entries) {
		n = len(entries)
	}

	c.JSON(http.StatusOK, gin.H{"code": 0, "count": n, "data": entries[:n]})
}

// InsertScheduleConfig 写入排班设定
func (h *Handler) InsertScheduleConfig(c *gin.Context) {
	var payload schedule.ConfigPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.deps.Store.InsertConfig(payload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0})
}

// GetScheduleConfig 读取指定月份的排班设定
func (h *Handler) GetScheduleConfig(c *gin.Context) {
	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year 与 month 必须是有效整数"})
		return
	}

	payload, err := h.deps.Store.Config(year, month)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, schedule.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "data": payload})
}

// GetScheduleDays 读取排班表
func (h *Handler) GetScheduleDays(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start 与 end 不能为空"})
		return
	}

	days, err := h.deps.Store.Days(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "count": len(days), "data": days})
}

// SaveScheduleDays 写入排班表（依日期覆写）
func (h *Handler) SaveScheduleDays(c *gin.Context) {
	var days []schedule.Day
	if err := c.ShouldBindJSON(&days); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(days) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "排班表不能为空"})
		return
	}

	if err := h.deps.Store.SaveDays(days); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "count": len(days)})
}
