package handler

import (
	"github.com/gin-gonic/gin"

	"ink-content-api/internal/application/cookie"
	"ink-content-api/internal/interfaces/http/dto"
)

// CookieHandler 多账号 Cookie 管理处理器
type CookieHandler struct {
	service *cookie.Service
}

// NewCookieHandler 创建 Cookie 管理处理器
func NewCookieHandler(service *cookie.Service) *CookieHandler {
	return &CookieHandler{service: service}
}

// List 列出全部账号
func (h *CookieHandler) List(c *gin.Context) {
	accounts, err := h.service.List(c.Request.Context())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, accounts)
}

// Save 保存账号 Cookie，新账号自动激活
func (h *CookieHandler) Save(c *gin.Context) {
	var req dto.SaveCookieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	if err := h.service.Save(c.Request.Context(), req.Name, []byte(req.Cookies)); err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, gin.H{"name": req.Name})
}

// Delete 删除账号
func (h *CookieHandler) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := h.service.Delete(c.Request.Context(), name); err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, gin.H{"name": name})
}

// Activate 切换活动账号
func (h *CookieHandler) Activate(c *gin.Context) {
	name := c.Param("name")
	if err := h.service.SetActive(c.Request.Context(), name); err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, gin.H{"name": name})
}

// Active 返回当前活动账号
func (h *CookieHandler) Active(c *gin.Context) {
	dto.Success(c, gin.H{"name": h.service.ActiveAccount()})
}
