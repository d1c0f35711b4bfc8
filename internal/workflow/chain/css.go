package chain

import (
	"context"
	"fmt"
	"strings"

	wfmodel "ink-content-api/internal/workflow/model"
	workflowport "ink-content-api/internal/workflow/port"
	workflowprompt "ink-content-api/internal/workflow/prompt"
)

type CSSChain struct {
	factory workflowport.ProviderFactory
}

func NewCSSChain(factory workflowport.ProviderFactory) *CSSChain {
	return &CSSChain{factory: factory}
}

func (c *CSSChain) Invoke(ctx context.Context, in *wfmodel.CSSInput) (string, error) {
	if c == nil || c.factory == nil {
		return "", fmt.Errorf("provider factory not configured")
	}
	if in == nil {
		return "", fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Style) == "" {
		return "", fmt.Errorf("style is required")
	}
	if strings.TrimSpace(in.Model) == "" {
		return "", fmt.Errorf("model is required")
	}

	provider, err := c.factory.Get(ctx, strings.TrimSpace(in.Service))
	if err != nil {
		return "", err
	}

	tpl, err := promptRegistry.ChatTemplate(workflowprompt.PromptCSSStyleV1)
	if err != nil {
		return "", err
	}
	msgs, err := tpl.Format(ctx, map[string]any{
		"style": strings.TrimSpace(in.Style),
	})
	if err != nil {
		return "", err
	}

	return provider.Generate(ctx, strings.TrimSpace(in.Model), msgs)
}
