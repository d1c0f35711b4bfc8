package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"ink-content-api/internal/config"
	apperrors "ink-content-api/pkg/errors"
	"ink-content-api/pkg/logger"
	"ink-content-api/pkg/metrics"
)

// ChromiumRenderer 调用无头 Chromium 截图。
// 每次渲染启动独立的浏览器进程，互不共享状态。
type ChromiumRenderer struct {
	cfg *config.RenderConfig
}

// NewChromiumRenderer 创建 Chromium 渲染器
func NewChromiumRenderer(cfg *config.RenderConfig) *ChromiumRenderer {
	return &ChromiumRenderer{cfg: cfg}
}

var _ Renderer = (*ChromiumRenderer)(nil)

// Render 将 HTML 写入临时文件后交给无头浏览器截图
func (r *ChromiumRenderer) Render(ctx context.Context, html string, width, height int) ([]byte, error) {
	start := time.Now()
	data, err := r.render(ctx, html, width, height)
	metrics.RenderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RenderTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.RenderTotal.WithLabelValues("success").Inc()
	return data, nil
}

func (r *ChromiumRenderer) render(ctx context.Context, html string, width, height int) ([]byte, error) {
	if width <= 0 {
		width = r.cfg.ViewportWidth
	}
	if height <= 0 {
		height = r.cfg.ViewportHeight
	}

	workDir, err := os.MkdirTemp("", "ink-render-*")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeRenderError, "创建渲染临时目录失败")
	}
	defer os.RemoveAll(workDir)

	htmlPath := filepath.Join(workDir, "note.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o600); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeRenderError, "写入渲染临时文件失败")
	}
	outputPath := filepath.Join(workDir, "note.png")

	args := []string{
		"--headless",
		"--disable-gpu",
		"--no-sandbox",
		"--hide-scrollbars",
		fmt.Sprintf("--window-size=%d,%d", width, height),
		fmt.Sprintf("--virtual-time-budget=%d", r.cfg.WaitTime.Milliseconds()),
		"--screenshot=" + outputPath,
		"file://" + htmlPath,
	}

	cmd := exec.CommandContext(ctx, r.cfg.BrowserPath, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		logger.Error(ctx, "无头浏览器截图失败", err, "output", string(output))
		return nil, apperrors.Wrap(err, apperrors.CodeRenderError, "无头浏览器截图失败").
			WithDetail(string(output))
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeRenderError, "读取截图结果失败")
	}
	return data, nil
}

// RenderToFile 渲染并把图片写入输出目录，返回文件路径
func (r *ChromiumRenderer) RenderToFile(ctx context.Context, html string, width, height int, filename string) (string, error) {
	data, err := r.Render(ctx, html, width, height)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeRenderError, "创建图片输出目录失败")
	}
	path := filepath.Join(r.cfg.OutputDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeRenderError, "写入图片文件失败")
	}
	return path, nil
}
