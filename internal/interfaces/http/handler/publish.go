package handler

import (
	"github.com/gin-gonic/gin"

	"ink-content-api/internal/infrastructure/publish"
	"ink-content-api/internal/interfaces/http/dto"
)

// PublishHandler 笔记发布处理器
type PublishHandler struct {
	publisher *publish.Publisher
}

// NewPublishHandler 创建发布处理器
func NewPublishHandler(publisher *publish.Publisher) *PublishHandler {
	return &PublishHandler{publisher: publisher}
}

// Publish 通过外部 CLI 发布笔记
func (h *PublishHandler) Publish(c *gin.Context) {
	var req dto.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	result, err := h.publisher.Publish(c.Request.Context(), &publish.Request{
		Title:    req.Title,
		Content:  req.Content,
		Topics:   req.Topics,
		Location: req.Location,
		Images:   req.Images,
		Videos:   req.Videos,
	})
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, result)
}
