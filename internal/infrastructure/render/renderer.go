// Package render 通过无头浏览器把笔记 HTML 栅格化为图片
package render

import (
	"context"
)

// Renderer 截图渲染的外部协作方接口
type Renderer interface {
	// Render 渲染 HTML 并返回图片字节，失败返回 RenderError
	Render(ctx context.Context, html string, width, height int) ([]byte, error)
}
