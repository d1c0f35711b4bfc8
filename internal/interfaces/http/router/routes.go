package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h *Handlers) {
	// 直接对话生成
	v1.POST("/generate", h.Note.Generate)

	// 笔记生成流水线
	notes := v1.Group("/notes")
	{
		notes.GET("/models", h.Note.ListModels)
		notes.POST("/title", h.Note.GenerateTitle)
		notes.POST("/css", h.Note.GenerateCSS)
		notes.POST("/content", h.Note.GenerateContent)
		notes.POST("/sections/split", h.Note.SplitSections)
		notes.POST("/sections/html", h.Note.GenerateSectionHTML)
		notes.POST("/generate", h.Note.GenerateNote)
		notes.POST("/stream", h.Note.StreamNote)              // SSE
		notes.POST("/document/stream", h.Note.StreamDocument) // SSE
	}

	// 热点数据
	hotspots := v1.Group("/hotspots")
	{
		hotspots.GET("", h.Hotspot.List)
		hotspots.POST("/refresh", h.Hotspot.Refresh)
		hotspots.POST("/analyze", h.Hotspot.Analyze)
	}

	// 多账号 Cookie 管理
	accounts := v1.Group("/accounts")
	{
		accounts.GET("", h.Cookie.List)
		accounts.POST("", h.Cookie.Save)
		accounts.GET("/active", h.Cookie.Active)
		accounts.PUT("/:name/activate", h.Cookie.Activate)
		accounts.DELETE("/:name", h.Cookie.Delete)
	}

	// 截图渲染
	v1.POST("/render", h.Render.Render)

	// 发布
	v1.POST("/publish", h.Publish.Publish)
}
