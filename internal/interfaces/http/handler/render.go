package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ink-content-api/internal/infrastructure/render"
	"ink-content-api/internal/interfaces/http/dto"
)

// RenderHandler 截图渲染处理器
type RenderHandler struct {
	renderer render.Renderer
}

// NewRenderHandler 创建渲染处理器
func NewRenderHandler(renderer render.Renderer) *RenderHandler {
	return &RenderHandler{renderer: renderer}
}

// Render 将 HTML 渲染为 PNG 图片并直接返回图片字节
func (h *RenderHandler) Render(c *gin.Context) {
	var req dto.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	image, err := h.renderer.Render(c.Request.Context(), req.HTML, req.Width, req.Height)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", image)
}
