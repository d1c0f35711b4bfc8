package note

import (
	"context"
	"strings"
	"time"

	wfmodel "ink-content-api/internal/workflow/model"
	"ink-content-api/internal/workflow/node"
	"ink-content-api/pkg/metrics"
	"ink-content-api/pkg/tracer"
)

// 各阶段对生成链的最小依赖，便于测试替换
type titleInvoker interface {
	Invoke(ctx context.Context, in *wfmodel.TitleInput) (string, error)
}

type contentInvoker interface {
	Invoke(ctx context.Context, in *wfmodel.ContentInput) (string, error)
}

type cssInvoker interface {
	Invoke(ctx context.Context, in *wfmodel.CSSInput) (string, error)
}

type sectionSplitInvoker interface {
	Invoke(ctx context.Context, in *wfmodel.SectionSplitInput) (string, error)
}

type sectionHTMLInvoker interface {
	Invoke(ctx context.Context, in *wfmodel.SectionHTMLInput) (string, error)
}

// 阶段名，用于日志与指标标签
const (
	stageTitle        = "title"
	stageCSS          = "css"
	stageContent      = "content"
	stageSectionSplit = "section_split"
	stageSectionHTML  = "section_html"
	stageHotspot      = "hotspot_analysis"
)

// observeStage 记录单阶段执行的指标
func observeStage(stage string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.StageTotal.WithLabelValues(stage, status).Inc()
	metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// TitleGenerator 生成笔记标题
type TitleGenerator struct {
	chain titleInvoker
	retry *retrier
}

// 标题提示词约定不超过 20 个字，模型超长时在本地截断兜底
const maxTitleRunes = 20

// Generate 返回去除首尾空白与引号、按字数截断后的标题。
// 模型确实没有产出时返回空字符串，与硬失败区分。
func (g *TitleGenerator) Generate(ctx context.Context, in *wfmodel.TitleInput) (string, error) {
	ctx, endSpan := tracer.StartStage(ctx, stageTitle)
	start := time.Now()
	raw, err := g.retry.do(ctx, stageTitle, func(ctx context.Context) (string, error) {
		return g.chain.Invoke(ctx, in)
	})
	observeStage(stageTitle, start, err)
	endSpan(err)
	if err != nil {
		return "", err
	}
	title := strings.Trim(strings.TrimSpace(raw), `"“”`)
	return node.TruncateByRunes(title, maxTitleRunes), nil
}

// CSSGenerator 生成笔记卡片的 CSS 样式表
type CSSGenerator struct {
	chain cssInvoker
	retry *retrier
}

// Generate 仅去除首尾空白，不校验 CSS 语法
func (g *CSSGenerator) Generate(ctx context.Context, in *wfmodel.CSSInput) (string, error) {
	ctx, endSpan := tracer.StartStage(ctx, stageCSS)
	start := time.Now()
	raw, err := g.retry.do(ctx, stageCSS, func(ctx context.Context) (string, error) {
		return g.chain.Invoke(ctx, in)
	})
	observeStage(stageCSS, start, err)
	endSpan(err)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

// ContentGenerator 生成笔记正文文案
type ContentGenerator struct {
	chain contentInvoker
	retry *retrier
}

// Generate 返回原始输出，正文含话题标签，不做后处理
func (g *ContentGenerator) Generate(ctx context.Context, in *wfmodel.ContentInput) (string, error) {
	ctx, endSpan := tracer.StartStage(ctx, stageContent)
	start := time.Now()
	raw, err := g.retry.do(ctx, stageContent, func(ctx context.Context) (string, error) {
		return g.chain.Invoke(ctx, in)
	})
	observeStage(stageContent, start, err)
	endSpan(err)
	return raw, err
}

// SectionHTMLGenerator 为单个区块生成卡片 HTML 片段
type SectionHTMLGenerator struct {
	chain sectionHTMLInvoker
	retry *retrier
}

// Generate 去除响应首尾的 markdown 代码围栏后返回 HTML 片段
func (g *SectionHTMLGenerator) Generate(ctx context.Context, in *wfmodel.SectionHTMLInput) (string, error) {
	ctx, endSpan := tracer.StartStage(ctx, stageSectionHTML)
	start := time.Now()
	raw, err := g.retry.do(ctx, stageSectionHTML, func(ctx context.Context) (string, error) {
		return g.chain.Invoke(ctx, in)
	})
	observeStage(stageSectionHTML, start, err)
	endSpan(err)
	if err != nil {
		return "", err
	}
	return node.StripCodeFence(strings.TrimSpace(raw)), nil
}
