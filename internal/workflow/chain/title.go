// Package chain 将提示词模板与 AI 服务调用编排为单阶段生成链
package chain

import (
	"context"
	"fmt"
	"strings"

	wfmodel "ink-content-api/internal/workflow/model"
	workflowport "ink-content-api/internal/workflow/port"
	workflowprompt "ink-content-api/internal/workflow/prompt"
)

var promptRegistry = workflowprompt.NewRegistry()

type TitleChain struct {
	factory workflowport.ProviderFactory
}

func NewTitleChain(factory workflowport.ProviderFactory) *TitleChain {
	return &TitleChain{factory: factory}
}

func (c *TitleChain) Invoke(ctx context.Context, in *wfmodel.TitleInput) (string, error) {
	if c == nil || c.factory == nil {
		return "", fmt.Errorf("provider factory not configured")
	}
	if in == nil {
		return "", fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Theme) == "" {
		return "", fmt.Errorf("theme is required")
	}
	if strings.TrimSpace(in.Model) == "" {
		return "", fmt.Errorf("model is required")
	}

	provider, err := c.factory.Get(ctx, strings.TrimSpace(in.Service))
	if err != nil {
		return "", err
	}

	tpl, err := promptRegistry.ChatTemplate(workflowprompt.PromptTitleV1)
	if err != nil {
		return "", err
	}
	msgs, err := tpl.Format(ctx, map[string]any{
		"theme":    strings.TrimSpace(in.Theme),
		"style":    strings.TrimSpace(in.Style),
		"audience": strings.TrimSpace(in.Audience),
	})
	if err != nil {
		return "", err
	}

	return provider.Generate(ctx, strings.TrimSpace(in.Model), msgs)
}
