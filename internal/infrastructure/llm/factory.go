package llm

import (
	"context"
	"os"
	"strings"
	"time"

	"ink-content-api/internal/config"
	"ink-content-api/internal/workflow/port"
	apperrors "ink-content-api/pkg/errors"

	"github.com/cloudwego/eino-ext/components/model/openai"
)

// 受支持的服务类型，全部通过 OpenAI 兼容接口接入
const (
	typeOllama        = "ollama"
	typeDeepSeek      = "deepseek"
	typeSiliconFlow   = "siliconflow"
	typeAliyunBailian = "aliyun_bailian"
)

const (
	defaultTemperature = 0.7
	defaultTimeout     = 120 * time.Second
)

// requiresAPIKey 各服务类型是否必须提供凭证，本地 Ollama 无需凭证
var requiresAPIKey = map[string]bool{
	typeOllama:        false,
	typeDeepSeek:      true,
	typeSiliconFlow:   true,
	typeAliyunBailian: true,
}

// EinoFactory 按服务名构造 ChatProvider。
// 每次 Get 都构造新实例，不做缓存，凭证变更即时生效。
type EinoFactory struct {
	config *config.LLMConfig
}

// NewEinoFactory 创建 LLM 工厂
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return &EinoFactory{config: &cfg.LLM}
}

var _ port.ProviderFactory = (*EinoFactory)(nil)

// Get 获取指定名称的服务，名称为空时回落到默认服务
func (f *EinoFactory) Get(ctx context.Context, name string) (port.ChatProvider, error) {
	if name == "" {
		name = f.config.Defaults.AIService
	}

	svcCfg := f.config.Service(name)
	if svcCfg == nil {
		return nil, apperrors.New(apperrors.CodeProviderNotFound, "AI 服务未配置").
			WithDetail("service=" + name)
	}

	if _, ok := requiresAPIKey[svcCfg.Type]; !ok {
		return nil, apperrors.New(apperrors.CodeConfigError, "未知的 AI 服务类型").
			WithDetail("service=" + name + " type=" + svcCfg.Type)
	}

	apiKey, err := resolveAPIKey(svcCfg)
	if err != nil {
		return nil, err
	}

	temperature := float32(svcCfg.Temperature)
	if temperature == 0 {
		temperature = defaultTemperature
	}
	timeout := svcCfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	modelCfg := &openai.ChatModelConfig{
		APIKey:      apiKey,
		BaseURL:     svcCfg.BaseURL,
		Temperature: &temperature,
		Timeout:     timeout,
	}
	if len(svcCfg.Models) > 0 {
		modelCfg.Model = svcCfg.Models[0]
	}
	if svcCfg.MaxTokens > 0 {
		maxTokens := svcCfg.MaxTokens
		modelCfg.MaxTokens = &maxTokens
	}

	chatModel, err := openai.NewChatModel(ctx, modelCfg)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeConfigError, "创建 AI 服务客户端失败").
			WithDetail("service=" + name)
	}

	return &OpenAIProvider{name: name, cfg: svcCfg, chat: chatModel}, nil
}

// Services 返回服务名到受支持模型列表的映射
func (f *EinoFactory) Services() map[string][]string {
	services := make(map[string][]string, len(f.config.Services))
	for _, svc := range f.config.Services {
		models := make([]string, len(svc.Models))
		copy(models, svc.Models)
		services[svc.Name] = models
	}
	return services
}

// resolveAPIKey 解析服务凭证：配置文件优先，其次环境变量 <TYPE>_API_KEY
func resolveAPIKey(svcCfg *config.ServiceConfig) (string, error) {
	if svcCfg.APIKey != "" {
		return svcCfg.APIKey, nil
	}
	envKey := strings.ToUpper(svcCfg.Type) + "_API_KEY"
	if key := os.Getenv(envKey); key != "" {
		return key, nil
	}
	if requiresAPIKey[svcCfg.Type] {
		return "", apperrors.New(apperrors.CodeMissingCredential, "缺少 AI 服务凭证").
			WithDetail("service=" + svcCfg.Name + " env=" + envKey)
	}
	return "", nil
}
