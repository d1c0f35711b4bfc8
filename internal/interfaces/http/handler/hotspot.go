package handler

import (
	"github.com/gin-gonic/gin"

	"ink-content-api/internal/application/hotspot"
	"ink-content-api/internal/interfaces/http/dto"
)

// HotspotHandler 热点数据处理器
type HotspotHandler struct {
	service *hotspot.Service
}

// NewHotspotHandler 创建热点数据处理器
func NewHotspotHandler(service *hotspot.Service) *HotspotHandler {
	return &HotspotHandler{service: service}
}

// List 返回聚合后的热点榜单
func (h *HotspotHandler) List(c *gin.Context) {
	hotspots, err := h.service.FetchAllCached(c.Request.Context())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, hotspots)
}

// Refresh 清除热点缓存后重新拉取榜单
func (h *HotspotHandler) Refresh(c *gin.Context) {
	hotspots, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, hotspots)
}

// Analyze 基于当前热点生成分析报告
func (h *HotspotHandler) Analyze(c *gin.Context) {
	var req dto.HotspotAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	report, err := h.service.Analyze(c.Request.Context(), req.AIService, req.AIModel)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.TextResponse{Text: report})
}
