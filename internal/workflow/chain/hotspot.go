package chain

import (
	"context"
	"fmt"
	"strings"

	wfmodel "ink-content-api/internal/workflow/model"
	workflowport "ink-content-api/internal/workflow/port"
	workflowprompt "ink-content-api/internal/workflow/prompt"
)

// HotspotAnalysisChain 基于热点榜单生成日度分析报告
type HotspotAnalysisChain struct {
	factory workflowport.ProviderFactory
}

func NewHotspotAnalysisChain(factory workflowport.ProviderFactory) *HotspotAnalysisChain {
	return &HotspotAnalysisChain{factory: factory}
}

func (c *HotspotAnalysisChain) Invoke(ctx context.Context, in *wfmodel.HotspotAnalysisInput) (string, error) {
	if c == nil || c.factory == nil {
		return "", fmt.Errorf("provider factory not configured")
	}
	if in == nil {
		return "", fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Hotspots) == "" {
		return "", fmt.Errorf("hotspots is required")
	}
	if strings.TrimSpace(in.Model) == "" {
		return "", fmt.Errorf("model is required")
	}

	provider, err := c.factory.Get(ctx, strings.TrimSpace(in.Service))
	if err != nil {
		return "", err
	}

	tpl, err := promptRegistry.ChatTemplate(workflowprompt.PromptHotspotAnalysisV1)
	if err != nil {
		return "", err
	}
	msgs, err := tpl.Format(ctx, map[string]any{
		"date":     strings.TrimSpace(in.Date),
		"hotspots": strings.TrimSpace(in.Hotspots),
	})
	if err != nil {
		return "", err
	}

	return provider.Generate(ctx, strings.TrimSpace(in.Model), msgs)
}
