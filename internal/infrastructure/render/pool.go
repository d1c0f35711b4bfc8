package render

import (
	"context"
)

// Pool 限制同时运行的浏览器进程数量。
// 渲染是进程级重操作，不加限制会在并发请求下耗尽内存。
type Pool struct {
	renderer Renderer
	slots    chan struct{}
}

// NewPool 创建渲染工作池
func NewPool(renderer Renderer, workers int) *Pool {
	if workers <= 0 {
		workers = 2
	}
	return &Pool{
		renderer: renderer,
		slots:    make(chan struct{}, workers),
	}
}

var _ Renderer = (*Pool)(nil)

// Render 等到有空闲槽位后执行渲染，上游取消时放弃排队
func (p *Pool) Render(ctx context.Context, html string, width, height int) ([]byte, error) {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-p.slots }()

	return p.renderer.Render(ctx, html, width, height)
}
