package note

import (
	"context"
	"strings"
	"time"

	"ink-content-api/internal/config"
	"ink-content-api/internal/workflow/chain"
	wfmodel "ink-content-api/internal/workflow/model"
	workflowport "ink-content-api/internal/workflow/port"
)

// Creator 笔记生成流水线的应用服务。
// 链为无状态对象可跨请求复用，重试器为每次调用独立构造。
type Creator struct {
	cfg     *config.LLMConfig
	factory workflowport.ProviderFactory

	titleChain   *chain.TitleChain
	contentChain *chain.ContentChain
	cssChain     *chain.CSSChain
	splitChain   *chain.SectionSplitChain
	sectionChain *chain.SectionHTMLChain

	// 流式输出节奏，测试中可调小
	chunkPause time.Duration
}

// NewCreator 创建笔记生成服务
func NewCreator(cfg *config.Config, factory workflowport.ProviderFactory) *Creator {
	return &Creator{
		cfg:          &cfg.LLM,
		factory:      factory,
		titleChain:   chain.NewTitleChain(factory),
		contentChain: chain.NewContentChain(factory),
		cssChain:     chain.NewCSSChain(factory),
		splitChain:   chain.NewSectionSplitChain(factory),
		sectionChain: chain.NewSectionHTMLChain(factory),
		chunkPause:   cfg.LLM.ChunkPause,
	}
}

// normalizeTarget 回落到配置的默认服务与模型
func (c *Creator) normalizeTarget(t wfmodel.GenerationTarget) wfmodel.GenerationTarget {
	if strings.TrimSpace(t.Service) == "" {
		t.Service = c.cfg.Defaults.AIService
	}
	if strings.TrimSpace(t.Model) == "" {
		t.Model = c.cfg.Defaults.AIModel
	}
	return t
}

func (c *Creator) newRetrier() *retrier {
	return newRetrier(c.cfg.MaxRetries, c.cfg.RetryBaseDelay)
}

// GenerateTitle 生成笔记标题
func (c *Creator) GenerateTitle(ctx context.Context, in *wfmodel.TitleInput) (string, error) {
	in.GenerationTarget = c.normalizeTarget(in.GenerationTarget)
	gen := &TitleGenerator{chain: c.titleChain, retry: c.newRetrier()}
	return gen.Generate(ctx, in)
}

// GenerateCSS 生成笔记样式表
func (c *Creator) GenerateCSS(ctx context.Context, in *wfmodel.CSSInput) (string, error) {
	in.GenerationTarget = c.normalizeTarget(in.GenerationTarget)
	gen := &CSSGenerator{chain: c.cssChain, retry: c.newRetrier()}
	return gen.Generate(ctx, in)
}

// GenerateContent 生成笔记正文
func (c *Creator) GenerateContent(ctx context.Context, in *wfmodel.ContentInput) (string, error) {
	in.GenerationTarget = c.normalizeTarget(in.GenerationTarget)
	gen := &ContentGenerator{chain: c.contentChain, retry: c.newRetrier()}
	return gen.Generate(ctx, in)
}

// SplitSections 将正文分割为指定数量的区块
func (c *Creator) SplitSections(ctx context.Context, in *wfmodel.SectionSplitInput) ([]string, error) {
	in.GenerationTarget = c.normalizeTarget(in.GenerationTarget)
	gen := &SectionSplitter{chain: c.splitChain, retry: c.newRetrier()}
	return gen.Split(ctx, in)
}

// GenerateSectionHTML 为单个区块生成卡片 HTML
func (c *Creator) GenerateSectionHTML(ctx context.Context, in *wfmodel.SectionHTMLInput) (string, error) {
	in.GenerationTarget = c.normalizeTarget(in.GenerationTarget)
	gen := &SectionHTMLGenerator{chain: c.sectionChain, retry: c.newRetrier()}
	return gen.Generate(ctx, in)
}
