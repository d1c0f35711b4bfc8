package note

import (
	"context"
	"fmt"
	"strings"

	wfmodel "ink-content-api/internal/workflow/model"
	apperrors "ink-content-api/pkg/errors"
	"ink-content-api/pkg/logger"
	"ink-content-api/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

// StreamKind 流式事件类型
type StreamKind string

const (
	// StreamChunk 文档片段，后续还有数据
	StreamChunk StreamKind = "chunk"
	// StreamDone 流正常结束的终止标记
	StreamDone StreamKind = "done"
	// StreamError 流异常终止的标记，消费方不得把部分文档当作完整文档
	StreamError StreamKind = "error"
)

// StreamEvent 流式输出的单个事件。
// 一次流中 done 与 error 恰好出现一个，且总在最后。
type StreamEvent struct {
	Kind    StreamKind
	Payload string
	Index   int
}

// PipelineRequest 一次完整流水线调用的参数
type PipelineRequest struct {
	Theme       string
	Style       string
	Audience    string
	NumSections int
	IsQuestion  bool
	Target      wfmodel.GenerationTarget
}

// RunPipeline 按依赖顺序执行全部生成阶段。
// Title 与 CSS 并发执行，Content 依赖 Title，分割依赖 Content，
// 各区块的 HTML 生成互相独立并发执行，结果按原始序号重新排序。
func (c *Creator) RunPipeline(ctx context.Context, req *PipelineRequest) (*wfmodel.PipelineState, error) {
	if req == nil {
		return nil, fmt.Errorf("request is nil")
	}
	if req.NumSections <= 0 {
		req.NumSections = 1
	}
	target := c.normalizeTarget(req.Target)

	state := &wfmodel.PipelineState{
		Theme:    req.Theme,
		Style:    req.Style,
		Audience: req.Audience,
	}

	// Title 与 CSS 互不依赖，并发执行
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		title, err := c.GenerateTitle(egCtx, &wfmodel.TitleInput{
			GenerationTarget: target,
			Theme:            req.Theme,
			Style:            req.Style,
			Audience:         req.Audience,
		})
		if err != nil {
			return stageError(stageTitle, err)
		}
		state.Title = title
		return nil
	})
	eg.Go(func() error {
		css, err := c.GenerateCSS(egCtx, &wfmodel.CSSInput{
			GenerationTarget: target,
			Style:            req.Style,
		})
		if err != nil {
			return stageError(stageCSS, err)
		}
		state.CSSStyle = css
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	content, err := c.GenerateContent(ctx, &wfmodel.ContentInput{
		GenerationTarget: target,
		Title:            state.Title,
		Theme:            req.Theme,
		Style:            req.Style,
		Audience:         req.Audience,
	})
	if err != nil {
		return nil, stageError(stageContent, err)
	}
	state.Content = content

	sections, err := c.SplitSections(ctx, &wfmodel.SectionSplitInput{
		GenerationTarget: target,
		Content:          state.Content,
		NumSections:      req.NumSections,
	})
	if err != nil {
		return nil, stageError(stageSectionSplit, err)
	}
	state.Sections = sections

	// 各区块互相独立并发生成，按序号写回保持原始顺序
	state.SectionHTML = make([]string, len(sections))
	eg, egCtx = errgroup.WithContext(ctx)
	for i, section := range sections {
		eg.Go(func() error {
			html, err := c.GenerateSectionHTML(egCtx, &wfmodel.SectionHTMLInput{
				GenerationTarget: target,
				Title:            state.Title,
				Description:      section,
				Style:            req.Style,
				CSSStyle:         state.CSSStyle,
				IsQuestion:       req.IsQuestion,
			})
			if err != nil {
				return stageError(stageSectionHTML, err)
			}
			state.SectionHTML[i] = html
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	logger.Info(ctx, "笔记生成流水线完成",
		"title", state.Title,
		"sections", len(state.Sections),
	)
	return state, nil
}

// StreamFinalDocument 将最终文档按固定顺序增量输出：
// 文档外壳（内嵌标题与样式）、各区块片段（按原始顺序）、闭合外壳，
// 最后恰好一个 done 标记。流是有限且不可重放的。
func (c *Creator) StreamFinalDocument(ctx context.Context, title, css string, sections []string) <-chan StreamEvent {
	out := make(chan StreamEvent)
	go func() {
		defer close(out)
		index := 0
		emit := func(kind StreamKind, payload string) bool {
			metrics.StreamChunksTotal.WithLabelValues(string(kind)).Inc()
			select {
			case out <- StreamEvent{Kind: kind, Payload: payload, Index: index}:
				index++
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit(StreamChunk, fmt.Sprintf(
			`<html><head><meta charset="UTF-8"><title>%s</title><style>%s</style></head><body>`, title, css)) {
			return
		}
		if !emit(StreamChunk, fmt.Sprintf(`<header><h1>%s</h1></header><main>`, title)) {
			return
		}
		for i, section := range sections {
			if !emit(StreamChunk, fmt.Sprintf(
				`<section class="content-section section-%d">%s</section>`, i+1, section)) {
				return
			}
			// 控制向消费方刷出片段的节奏
			if c.chunkPause > 0 {
				if err := sleepContext(ctx, c.chunkPause); err != nil {
					return
				}
			}
		}
		if !emit(StreamChunk, `</main></body></html>`) {
			return
		}
		emit(StreamDone, "")
	}()
	return out
}

// StreamNote 执行完整流水线并流式输出最终文档。
// 流水线任何阶段失败都以恰好一个 error 标记终止流，而不是静默截断。
func (c *Creator) StreamNote(ctx context.Context, req *PipelineRequest) <-chan StreamEvent {
	out := make(chan StreamEvent)
	go func() {
		defer close(out)
		state, err := c.RunPipeline(ctx, req)
		if err != nil {
			metrics.StreamChunksTotal.WithLabelValues(string(StreamError)).Inc()
			appErr := apperrors.AsAppError(err)
			select {
			case out <- StreamEvent{Kind: StreamError, Payload: appErr.Error()}:
			case <-ctx.Done():
			}
			return
		}
		for ev := range c.StreamFinalDocument(ctx, state.Title, state.CSSStyle, state.SectionHTML) {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// AssembleDocument 非流式地拼装最终文档，供需要整份 HTML 的调用方使用
func AssembleDocument(title, css string, sections []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		`<html><head><meta charset="UTF-8"><title>%s</title><style>%s</style></head><body>`, title, css))
	sb.WriteString(fmt.Sprintf(`<header><h1>%s</h1></header><main>`, title))
	for i, section := range sections {
		sb.WriteString(fmt.Sprintf(
			`<section class="content-section section-%d">%s</section>`, i+1, section))
	}
	sb.WriteString(`</main></body></html>`)
	return sb.String()
}

// stageError 确保外部可见的失败携带阶段名
func stageError(stage string, err error) error {
	appErr := apperrors.AsAppError(err)
	if appErr.Stage == "" {
		appErr = appErr.WithStage(stage)
	}
	return appErr
}
