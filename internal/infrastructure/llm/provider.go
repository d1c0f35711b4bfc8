// Package llm 基于 Eino 的 OpenAI 兼容适配器实现 AI 服务调用
package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"ink-content-api/internal/config"
	apperrors "ink-content-api/pkg/errors"
	"ink-content-api/pkg/logger"
	"ink-content-api/pkg/metrics"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OpenAIProvider 包装一个 OpenAI 兼容的 ChatModel 客户端
type OpenAIProvider struct {
	name string
	cfg  *config.ServiceConfig
	chat model.BaseChatModel
}

// Name 返回服务名称
func (p *OpenAIProvider) Name() string {
	return p.name
}

// Generate 调用 AI 服务生成文本。
// 模型必须在服务配置的受支持集合中，结构化分段响应按顺序拼接为纯文本。
func (p *OpenAIProvider) Generate(ctx context.Context, modelName string, msgs []*schema.Message) (string, error) {
	if !p.cfg.SupportsModel(modelName) {
		return "", apperrors.New(apperrors.CodeUnsupportedModel, "模型不受该服务支持").
			WithDetail("service=" + p.name + " model=" + modelName)
	}

	tracer := otel.Tracer("ink-content-api/llm")
	ctx, span := tracer.Start(ctx, "llm.generate", trace.WithAttributes(
		attribute.String("llm.provider", p.name),
		attribute.String("llm.model", modelName),
	))
	defer span.End()

	start := time.Now()
	resp, err := p.chat.Generate(ctx, msgs, model.WithModel(modelName))
	duration := time.Since(start)

	metrics.LLMCallDuration.WithLabelValues(p.name, modelName).Observe(duration.Seconds())
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(p.name, modelName, "error").Inc()
		span.RecordError(err)
		logger.Error(ctx, "AI 服务调用失败", err,
			"provider", p.name,
			"model", modelName,
			"duration", duration,
		)
		return "", classifyCallError(p.name, err)
	}

	metrics.LLMCallTotal.WithLabelValues(p.name, modelName, "success").Inc()
	if resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
		usage := resp.ResponseMeta.Usage
		metrics.LLMTokensUsed.WithLabelValues(p.name, modelName, "prompt").Add(float64(usage.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(p.name, modelName, "completion").Add(float64(usage.CompletionTokens))
		span.SetAttributes(
			attribute.Int("llm.tokens.prompt", usage.PromptTokens),
			attribute.Int("llm.tokens.completion", usage.CompletionTokens),
		)
	}

	return flattenMessage(resp), nil
}

// flattenMessage 将响应拍平为纯文本。
// 多段内容按原始顺序拼接，不插入分隔符。
func flattenMessage(msg *schema.Message) string {
	if msg.Content != "" || len(msg.MultiContent) == 0 {
		return msg.Content
	}
	var sb strings.Builder
	for _, part := range msg.MultiContent {
		if part.Type == schema.ChatMessagePartTypeText {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// classifyCallError 将底层调用错误归类到应用错误码。
// 认证失败的错误信息不携带上游原始响应，避免泄露凭证相关内容。
func classifyCallError(provider string, err error) error {
	if isAuthError(err) {
		return apperrors.New(apperrors.CodeAuthenticationFailure, "AI 服务认证失败").
			WithDetail("service=" + provider)
	}
	if isTransportError(err) {
		return apperrors.Wrap(err, apperrors.CodeTransportFailure, "AI 服务连接失败").
			WithDetail("service=" + provider)
	}
	return apperrors.Wrap(err, apperrors.CodeUpstreamError, "AI 服务返回错误").
		WithDetail("service=" + provider)
}

func isAuthError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"401",
		"unauthorized",
		"authentication",
		"invalid api key",
		"invalid api-key",
		"incorrect api key",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"connection refused",
		"connection reset",
		"no such host",
		"timeout",
		"eof",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
