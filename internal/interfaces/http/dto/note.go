package dto

// GenerationTarget AI 服务与模型选择，缺省时使用配置的默认值
type GenerationTarget struct {
	AIService string `json:"ai_service"`
	AIModel   string `json:"ai_model"`
}

// ChatMessage 对话消息
type ChatMessage struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// ChatGenerateRequest 直接对话生成请求，不经过笔记流水线
type ChatGenerateRequest struct {
	GenerationTarget
	Messages []ChatMessage `json:"messages" binding:"required,min=1,dive"`
}

// GenerateTitleRequest 标题生成请求
type GenerateTitleRequest struct {
	GenerationTarget
	Theme    string `json:"theme" binding:"required"`
	Style    string `json:"style"`
	Audience string `json:"audience"`
}

// GenerateCSSRequest 样式表生成请求
type GenerateCSSRequest struct {
	GenerationTarget
	Style string `json:"style" binding:"required"`
}

// GenerateContentRequest 文案生成请求
type GenerateContentRequest struct {
	GenerationTarget
	Title    string `json:"title" binding:"required"`
	Theme    string `json:"theme" binding:"required"`
	Style    string `json:"style"`
	Audience string `json:"audience"`
}

// SplitSectionsRequest 内容分割请求
type SplitSectionsRequest struct {
	GenerationTarget
	Content     string `json:"content" binding:"required"`
	NumSections int    `json:"num_sections" binding:"required,min=1"`
}

// GenerateSectionHTMLRequest 单区块 HTML 生成请求
type GenerateSectionHTMLRequest struct {
	GenerationTarget
	Title       string `json:"title"`
	Description string `json:"description" binding:"required"`
	Style       string `json:"style"`
	CSSStyle    string `json:"css_style"`
	IsQuestion  bool   `json:"is_question"`
}

// GenerateNoteRequest 完整流水线请求
type GenerateNoteRequest struct {
	GenerationTarget
	Theme       string `json:"theme"`
	Style       string `json:"style"`
	Audience    string `json:"audience"`
	NumSections int    `json:"num_sections"`
	IsQuestion  bool   `json:"is_question"`
}

// NoteResponse 完整流水线的非流式响应
type NoteResponse struct {
	Title       string   `json:"title"`
	CSSStyle    string   `json:"css_style"`
	Content     string   `json:"content"`
	Sections    []string `json:"sections"`
	SectionHTML []string `json:"section_html"`
	Document    string   `json:"document"`
}

// StreamDocumentRequest 文档组装流式输出请求
type StreamDocumentRequest struct {
	Title    string   `json:"title" binding:"required"`
	CSSStyle string   `json:"css_style" binding:"required"`
	Sections []string `json:"sections" binding:"required,min=1"`
}

// SectionsResponse 内容分割响应
type SectionsResponse struct {
	Sections []string `json:"sections"`
}

// TextResponse 单段文本结果
type TextResponse struct {
	Text string `json:"text"`
}

// ModelsResponse 可用 AI 服务及模型
type ModelsResponse struct {
	Services map[string][]string `json:"services"`
	Defaults GenerationTarget    `json:"defaults"`
}

// RenderRequest 截图渲染请求
type RenderRequest struct {
	HTML   string `json:"html" binding:"required"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// PublishRequest 发布请求
type PublishRequest struct {
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Topics   []string `json:"topics"`
	Location string   `json:"location"`
	Images   []string `json:"images"`
	Videos   []string `json:"videos"`
}

// SaveCookieRequest 保存账号 Cookie 请求
type SaveCookieRequest struct {
	Name    string `json:"name" binding:"required"`
	Cookies string `json:"cookies" binding:"required"`
}

// HotspotAnalyzeRequest 热点分析请求
type HotspotAnalyzeRequest struct {
	GenerationTarget
}
