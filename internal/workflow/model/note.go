// Package model 定义工作流层的输入输出结构
package model

import "time"

// GenerationTarget 一次生成调用指向的 AI 服务与模型。
// 字段为空时由下游回落到配置的默认值。
type GenerationTarget struct {
	Service string
	Model   string
}

// TitleInput 标题生成输入
type TitleInput struct {
	GenerationTarget
	Theme    string
	Style    string
	Audience string
}

// ContentInput 文案生成输入
type ContentInput struct {
	GenerationTarget
	Title    string
	Theme    string
	Style    string
	Audience string
}

// CSSInput 样式表生成输入
type CSSInput struct {
	GenerationTarget
	Style string
}

// SectionSplitInput 内容分割输入
type SectionSplitInput struct {
	GenerationTarget
	Content     string
	NumSections int
}

// SectionHTMLInput 单区块 HTML 生成输入
type SectionHTMLInput struct {
	GenerationTarget
	Title       string
	Description string
	Style       string
	CSSStyle    string
	// IsQuestion 选择问答卡片模板而非图文卡片模板
	IsQuestion bool
}

// HotspotAnalysisInput 热点分析输入
type HotspotAnalysisInput struct {
	GenerationTarget
	// Date 报告日期，格式 2006-01-02
	Date string
	// Hotspots 已格式化的热点榜单文本
	Hotspots string
}

// LLMUsageMeta 一次生成调用的元信息
type LLMUsageMeta struct {
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	GeneratedAt      time.Time
}

// PipelineState 单次编排调用的中间状态。
// 每个字段仅由产出它的阶段写入一次，之后只读；不跨调用共享。
type PipelineState struct {
	Theme    string
	Style    string
	Audience string

	Title       string
	CSSStyle    string
	Content     string
	Sections    []string
	SectionHTML []string
}
