package port

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// ChatProvider 定义工作流层对 AI 服务的最小依赖（port）。
// Generate 返回拍平后的纯文本：供应商返回结构化分段内容时按顺序无分隔拼接。
type ChatProvider interface {
	Name() string
	Generate(ctx context.Context, model string, msgs []*schema.Message) (string, error)
}

// ProviderFactory 按服务名构造 ChatProvider。
// 每次调用都构造新实例，调用方需要复用时自行持有返回值。
type ProviderFactory interface {
	Get(ctx context.Context, name string) (ChatProvider, error)
	// Services 返回服务名到受支持模型列表的映射
	Services() map[string][]string
}
