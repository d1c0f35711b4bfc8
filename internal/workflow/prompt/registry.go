// Package prompt 提供嵌入式提示词模板管理
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptTitleV1           PromptID = "title_v1"
	PromptContentV1         PromptID = "content_v1"
	PromptCSSStyleV1        PromptID = "css_style_v1"
	PromptSectionSplitV1    PromptID = "section_split_v1"
	PromptImageCardV1       PromptID = "image_card_v1"
	PromptQuestionCardV1    PromptID = "question_card_v1"
	PromptHotspotAnalysisV1 PromptID = "hotspot_analysis_v1"
)

type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]einoprompt.ChatTemplate),
	}
}

// ChatTemplate 返回解析好的模板，首次访问时从嵌入文件加载。
// 所有模板都是单条 user 消息（与上游 AI 服务的调用约定一致）。
func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	path, err := resolvePromptFile(id)
	if err != nil {
		return nil, err
	}
	user, err := readEmbeddedText(path)
	if err != nil {
		return nil, err
	}

	tpl := einoprompt.FromMessages(
		schema.FString,
		schema.UserMessage(user),
	)
	r.cache[id] = tpl
	return tpl, nil
}

func resolvePromptFile(id PromptID) (string, error) {
	switch id {
	case PromptTitleV1:
		return "templates/title_v1.txt", nil
	case PromptContentV1:
		return "templates/content_v1.txt", nil
	case PromptCSSStyleV1:
		return "templates/css_style_v1.txt", nil
	case PromptSectionSplitV1:
		return "templates/section_split_v1.txt", nil
	case PromptImageCardV1:
		return "templates/image_card_v1.txt", nil
	case PromptQuestionCardV1:
		return "templates/question_card_v1.txt", nil
	case PromptHotspotAnalysisV1:
		return "templates/hotspot_analysis_v1.txt", nil
	default:
		return "", fmt.Errorf("unknown prompt id: %s", id)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
