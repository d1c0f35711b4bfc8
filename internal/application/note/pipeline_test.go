package note

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"ink-content-api/internal/config"
	wfmodel "ink-content-api/internal/workflow/model"
	"ink-content-api/internal/workflow/port"
	apperrors "ink-content-api/pkg/errors"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider 按提示词内容分发固定响应
type stubProvider struct {
	respond func(prompt string) (string, error)
	calls   int
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Generate(_ context.Context, _ string, msgs []*schema.Message) (string, error) {
	p.calls++
	var prompt string
	if len(msgs) > 0 {
		prompt = msgs[len(msgs)-1].Content
	}
	return p.respond(prompt)
}

type stubFactory struct {
	provider port.ChatProvider
}

func (f *stubFactory) Get(context.Context, string) (port.ChatProvider, error) {
	return f.provider, nil
}

func (f *stubFactory) Services() map[string][]string {
	return map[string][]string{"stub": {"test-model"}}
}

func newTestCreator(respond func(prompt string) (string, error)) *Creator {
	cfg := &config.Config{
		LLM: config.LLMConfig{
			Services: []config.ServiceConfig{
				{Name: "stub", Type: "ollama", Models: []string{"test-model"}},
			},
			Defaults: config.GenerationDefaults{
				AIService: "stub",
				AIModel:   "test-model",
			},
			MaxRetries:     2,
			RetryBaseDelay: time.Millisecond,
			ChunkPause:     0,
		},
	}
	return NewCreator(cfg, &stubFactory{provider: &stubProvider{respond: respond}})
}

// respondByStage 按提示词里的固定措辞识别阶段
func respondByStage(prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "爆款标题"):
		return "\"✨清迈小众旅行攻略\"", nil
	case strings.Contains(prompt, "CSS样式表"):
		return ".note-card { color: #333; background: #fffdfa; }", nil
	case strings.Contains(prompt, "笔记文案"):
		return "趁年轻去旅行，山野与海风都值得。#旅行 #清迈", nil
	case strings.Contains(prompt, "严格分割"):
		return `["趁年轻去旅行，山野与海风都值得。"]`, nil
	default:
		return "```html\n<div class=\"card\">旅行卡片</div>\n```", nil
	}
}

func TestRunPipelineEndToEnd(t *testing.T) {
	creator := newTestCreator(respondByStage)

	state, err := creator.RunPipeline(context.Background(), &PipelineRequest{
		Theme:       "travel",
		Style:       "fresh",
		Audience:    "young adults",
		NumSections: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, "✨清迈小众旅行攻略", state.Title, "标题应去除首尾引号")
	assert.LessOrEqual(t, len([]rune(state.Title)), 20)
	assert.NotEmpty(t, state.CSSStyle)
	assert.Contains(t, state.Content, "#")
	require.Len(t, state.Sections, 1)
	require.Len(t, state.SectionHTML, 1)
	assert.Equal(t, `<div class="card">旅行卡片</div>`, state.SectionHTML[0], "应剥离代码围栏")

	doc := AssembleDocument(state.Title, state.CSSStyle, state.SectionHTML)
	assert.Contains(t, doc, state.Title)
	assert.Contains(t, doc, state.CSSStyle)
	assert.Contains(t, doc, state.SectionHTML[0])
}

func TestGenerateCSSIdempotent(t *testing.T) {
	creator := newTestCreator(respondByStage)
	ctx := context.Background()

	first, err := creator.GenerateCSS(ctx, &wfmodel.CSSInput{Style: "fresh"})
	require.NoError(t, err)
	second, err := creator.GenerateCSS(ctx, &wfmodel.CSSInput{Style: "fresh"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateTitleEmptyIsNotError(t *testing.T) {
	creator := newTestCreator(func(string) (string, error) { return "  ", nil })

	title, err := creator.GenerateTitle(context.Background(), &wfmodel.TitleInput{
		Theme: "travel", Style: "fresh", Audience: "young adults",
	})

	require.NoError(t, err)
	assert.Empty(t, title)
}

func TestGenerateTitleTruncatedToLimit(t *testing.T) {
	creator := newTestCreator(func(string) (string, error) {
		return `"这是一个远远超过二十个字限制的超长小红书爆款标题示例内容"`, nil
	})

	title, err := creator.GenerateTitle(context.Background(), &wfmodel.TitleInput{
		Theme: "travel", Style: "fresh", Audience: "young adults",
	})

	require.NoError(t, err)
	assert.Equal(t, 20, utf8.RuneCountInString(title))
	assert.Equal(t, "这是一个远远超过二十个字限制的超长小红书", title)
}

func TestStreamNoteEmitsSingleDoneMarker(t *testing.T) {
	creator := newTestCreator(respondByStage)

	var chunks, done, errs int
	var lastKind StreamKind
	for ev := range creator.StreamNote(context.Background(), &PipelineRequest{
		Theme: "travel", Style: "fresh", Audience: "young adults", NumSections: 1,
	}) {
		lastKind = ev.Kind
		switch ev.Kind {
		case StreamChunk:
			chunks++
		case StreamDone:
			done++
		case StreamError:
			errs++
		}
	}

	assert.Equal(t, 1, done, "成功流必须恰好一个 done 标记")
	assert.Zero(t, errs)
	assert.Equal(t, StreamDone, lastKind, "done 必须是最后一个事件")
	// 外壳开头 + 头部 + 区块 + 闭合外壳
	assert.GreaterOrEqual(t, chunks, 4)
}

func TestStreamNoteEmitsSingleErrorMarker(t *testing.T) {
	creator := newTestCreator(func(prompt string) (string, error) {
		if strings.Contains(prompt, "严格分割") {
			// 数量不符且无法修复
			return `["x"]`, nil
		}
		return respondByStage(prompt)
	})

	var done, errs int
	var lastPayload string
	for ev := range creator.StreamNote(context.Background(), &PipelineRequest{
		Theme: "travel", Style: "fresh", Audience: "young adults", NumSections: 2,
	}) {
		switch ev.Kind {
		case StreamDone:
			done++
		case StreamError:
			errs++
			lastPayload = ev.Payload
		}
	}

	assert.Equal(t, 1, errs, "失败流必须恰好一个 error 标记")
	assert.Zero(t, done)
	assert.Contains(t, lastPayload, stageSectionSplit, "错误必须标明失败阶段")
}

func TestRunPipelineSurfacesStageOnFailure(t *testing.T) {
	creator := newTestCreator(func(prompt string) (string, error) {
		if strings.Contains(prompt, "笔记文案") {
			return "", apperrors.New(apperrors.CodeUpstreamError, "AI 服务返回错误")
		}
		return respondByStage(prompt)
	})

	_, err := creator.RunPipeline(context.Background(), &PipelineRequest{
		Theme: "travel", Style: "fresh", Audience: "young adults", NumSections: 1,
	})

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, stageContent, appErr.Stage)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUpstreamError))
}
