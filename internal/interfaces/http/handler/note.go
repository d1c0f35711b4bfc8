package handler

import (
	"io"

	"github.com/cloudwego/eino/schema"
	"github.com/gin-gonic/gin"

	"ink-content-api/internal/application/note"
	"ink-content-api/internal/config"
	"ink-content-api/internal/interfaces/http/dto"
	wfmodel "ink-content-api/internal/workflow/model"
	workflowport "ink-content-api/internal/workflow/port"
)

// NoteHandler 笔记生成处理器
type NoteHandler struct {
	creator *note.Creator
	factory workflowport.ProviderFactory
	cfg     *config.Config
}

// NewNoteHandler 创建笔记生成处理器
func NewNoteHandler(creator *note.Creator, factory workflowport.ProviderFactory, cfg *config.Config) *NoteHandler {
	return &NoteHandler{
		creator: creator,
		factory: factory,
		cfg:     cfg,
	}
}

// ListModels 列出可用的 AI 服务及模型
func (h *NoteHandler) ListModels(c *gin.Context) {
	dto.Success(c, dto.ModelsResponse{
		Services: h.factory.Services(),
		Defaults: dto.GenerationTarget{
			AIService: h.cfg.LLM.Defaults.AIService,
			AIModel:   h.cfg.LLM.Defaults.AIModel,
		},
	})
}

// Generate 直接调用 AI 服务对话生成，绕过笔记流水线
func (h *NoteHandler) Generate(c *gin.Context) {
	var req dto.ChatGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	service := req.AIService
	if service == "" {
		service = h.cfg.LLM.Defaults.AIService
	}
	model := req.AIModel
	if model == "" {
		model = h.cfg.LLM.Defaults.AIModel
	}

	provider, err := h.factory.Get(c.Request.Context(), service)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	msgs := make([]*schema.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, &schema.Message{
			Role:    schema.RoleType(m.Role),
			Content: m.Content,
		})
	}

	text, err := provider.Generate(c.Request.Context(), model, msgs)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.TextResponse{Text: text})
}

// GenerateTitle 生成标题
func (h *NoteHandler) GenerateTitle(c *gin.Context) {
	var req dto.GenerateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	title, err := h.creator.GenerateTitle(c.Request.Context(), &wfmodel.TitleInput{
		GenerationTarget: wfmodel.GenerationTarget{Service: req.AIService, Model: req.AIModel},
		Theme:            req.Theme,
		Style:            req.Style,
		Audience:         req.Audience,
	})
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.TextResponse{Text: title})
}

// GenerateCSS 生成样式表
func (h *NoteHandler) GenerateCSS(c *gin.Context) {
	var req dto.GenerateCSSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	css, err := h.creator.GenerateCSS(c.Request.Context(), &wfmodel.CSSInput{
		GenerationTarget: wfmodel.GenerationTarget{Service: req.AIService, Model: req.AIModel},
		Style:            req.Style,
	})
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.TextResponse{Text: css})
}

// GenerateContent 生成正文文案
func (h *NoteHandler) GenerateContent(c *gin.Context) {
	var req dto.GenerateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	content, err := h.creator.GenerateContent(c.Request.Context(), &wfmodel.ContentInput{
		GenerationTarget: wfmodel.GenerationTarget{Service: req.AIService, Model: req.AIModel},
		Title:            req.Title,
		Theme:            req.Theme,
		Style:            req.Style,
		Audience:         req.Audience,
	})
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.TextResponse{Text: content})
}

// SplitSections 将文案分割成指定数量的区块
func (h *NoteHandler) SplitSections(c *gin.Context) {
	var req dto.SplitSectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	sections, err := h.creator.SplitSections(c.Request.Context(), &wfmodel.SectionSplitInput{
		GenerationTarget: wfmodel.GenerationTarget{Service: req.AIService, Model: req.AIModel},
		Content:          req.Content,
		NumSections:      req.NumSections,
	})
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.SectionsResponse{Sections: sections})
}

// GenerateSectionHTML 生成单个区块的卡片 HTML
func (h *NoteHandler) GenerateSectionHTML(c *gin.Context) {
	var req dto.GenerateSectionHTMLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	html, err := h.creator.GenerateSectionHTML(c.Request.Context(), &wfmodel.SectionHTMLInput{
		GenerationTarget: wfmodel.GenerationTarget{Service: req.AIService, Model: req.AIModel},
		Title:            req.Title,
		Description:      req.Description,
		Style:            req.Style,
		CSSStyle:         req.CSSStyle,
		IsQuestion:       req.IsQuestion,
	})
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.TextResponse{Text: html})
}

// pipelineRequest 从 HTTP 请求构建流水线参数，缺省项回落到配置默认值
func (h *NoteHandler) pipelineRequest(req *dto.GenerateNoteRequest) *note.PipelineRequest {
	defaults := h.cfg.LLM.Defaults
	theme := req.Theme
	if theme == "" {
		theme = defaults.ContentTheme
	}
	style := req.Style
	if style == "" {
		style = defaults.Style
	}
	audience := req.Audience
	if audience == "" {
		audience = defaults.TargetAudience
	}

	return &note.PipelineRequest{
		Theme:       theme,
		Style:       style,
		Audience:    audience,
		NumSections: req.NumSections,
		IsQuestion:  req.IsQuestion,
		Target:      wfmodel.GenerationTarget{Service: req.AIService, Model: req.AIModel},
	}
}

// GenerateNote 执行完整流水线并返回整份结果
func (h *NoteHandler) GenerateNote(c *gin.Context) {
	var req dto.GenerateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	state, err := h.creator.RunPipeline(c.Request.Context(), h.pipelineRequest(&req))
	if err != nil {
		dto.FromError(c, err)
		return
	}

	dto.Success(c, dto.NoteResponse{
		Title:       state.Title,
		CSSStyle:    state.CSSStyle,
		Content:     state.Content,
		Sections:    state.Sections,
		SectionHTML: state.SectionHTML,
		Document:    note.AssembleDocument(state.Title, state.CSSStyle, state.SectionHTML),
	})
}

// StreamNote 执行完整流水线并通过 SSE 流式输出最终文档。
// 事件类型与流水线事件一一对应：chunk 为文档片段，
// done 表示流正常结束，error 表示流异常终止。
func (h *NoteHandler) StreamNote(c *gin.Context) {
	var req dto.GenerateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	events := h.creator.StreamNote(c.Request.Context(), h.pipelineRequest(&req))
	streamEvents(c, events)
}

// StreamDocument 按给定的标题、样式与区块流式输出组装后的文档，不重新生成内容
func (h *NoteHandler) StreamDocument(c *gin.Context) {
	var req dto.StreamDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	events := h.creator.StreamFinalDocument(c.Request.Context(), req.Title, req.CSSStyle, req.Sections)
	streamEvents(c, events)
}

// streamEvents 把流水线事件转写为 SSE，chunk 之后必然以单个 done 或 error 结束
func streamEvents(c *gin.Context, events <-chan note.StreamEvent) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			switch ev.Kind {
			case note.StreamChunk:
				c.SSEvent("chunk", gin.H{
					"payload": ev.Payload,
					"index":   ev.Index,
				})
				return true
			case note.StreamDone:
				c.SSEvent("done", gin.H{})
				return false
			case note.StreamError:
				c.SSEvent("error", gin.H{
					"message": ev.Payload,
				})
				return false
			}
			return true

		case <-c.Request.Context().Done():
			// 客户端断开
			return false
		}
	})
}
