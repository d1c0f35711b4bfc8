package chain

import (
	"context"
	"fmt"
	"strings"

	wfmodel "ink-content-api/internal/workflow/model"
	workflowport "ink-content-api/internal/workflow/port"
	workflowprompt "ink-content-api/internal/workflow/prompt"
)

// SectionSplitChain 将长文案分割为指定数量的区块描述。
// 返回上游的原始响应文本，JSON 解析与修复由应用层负责。
type SectionSplitChain struct {
	factory workflowport.ProviderFactory
}

func NewSectionSplitChain(factory workflowport.ProviderFactory) *SectionSplitChain {
	return &SectionSplitChain{factory: factory}
}

func (c *SectionSplitChain) Invoke(ctx context.Context, in *wfmodel.SectionSplitInput) (string, error) {
	if c == nil || c.factory == nil {
		return "", fmt.Errorf("provider factory not configured")
	}
	if in == nil {
		return "", fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Content) == "" {
		return "", fmt.Errorf("content is required")
	}
	if in.NumSections <= 0 {
		return "", fmt.Errorf("num_sections must be positive")
	}
	if strings.TrimSpace(in.Model) == "" {
		return "", fmt.Errorf("model is required")
	}

	provider, err := c.factory.Get(ctx, strings.TrimSpace(in.Service))
	if err != nil {
		return "", err
	}

	tpl, err := promptRegistry.ChatTemplate(workflowprompt.PromptSectionSplitV1)
	if err != nil {
		return "", err
	}
	msgs, err := tpl.Format(ctx, map[string]any{
		"num_sections": in.NumSections,
		"content":      strings.TrimSpace(in.Content),
	})
	if err != nil {
		return "", err
	}

	return provider.Generate(ctx, strings.TrimSpace(in.Model), msgs)
}

// SectionHTMLChain 为单个区块生成笔记卡片 HTML 片段
type SectionHTMLChain struct {
	factory workflowport.ProviderFactory
}

func NewSectionHTMLChain(factory workflowport.ProviderFactory) *SectionHTMLChain {
	return &SectionHTMLChain{factory: factory}
}

func (c *SectionHTMLChain) Invoke(ctx context.Context, in *wfmodel.SectionHTMLInput) (string, error) {
	if c == nil || c.factory == nil {
		return "", fmt.Errorf("provider factory not configured")
	}
	if in == nil {
		return "", fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Description) == "" {
		return "", fmt.Errorf("description is required")
	}
	if strings.TrimSpace(in.Model) == "" {
		return "", fmt.Errorf("model is required")
	}

	provider, err := c.factory.Get(ctx, strings.TrimSpace(in.Service))
	if err != nil {
		return "", err
	}

	promptID := workflowprompt.PromptImageCardV1
	if in.IsQuestion {
		promptID = workflowprompt.PromptQuestionCardV1
	}
	tpl, err := promptRegistry.ChatTemplate(promptID)
	if err != nil {
		return "", err
	}
	msgs, err := tpl.Format(ctx, map[string]any{
		"title":       strings.TrimSpace(in.Title),
		"description": strings.TrimSpace(in.Description),
		"style":       strings.TrimSpace(in.Style),
		"css_style":   strings.TrimSpace(in.CSSStyle),
	})
	if err != nil {
		return "", err
	}

	return provider.Generate(ctx, strings.TrimSpace(in.Model), msgs)
}
