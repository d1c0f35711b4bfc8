// Package main html2image 把本地 HTML 文件渲染为 PNG 截图
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ink-content-api/internal/config"
	"ink-content-api/internal/infrastructure/render"
	"ink-content-api/pkg/logger"
)

func main() {
	var (
		output   = flag.String("o", "", "输出 PNG 路径（默认与输入同名）")
		width    = flag.Int("width", 750, "视口宽度")
		height   = flag.Int("height", 1334, "视口高度")
		waitTime = flag.Duration("wait", 2*time.Second, "截图前等待页面渲染的时间")
		browser  = flag.String("browser", "chromium", "无头浏览器可执行文件")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "用法: %s [选项] <html文件>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(2)
	}
	htmlPath := flag.Arg(0)

	logger.Init("info", "text")
	ctx := context.Background()

	data, err := os.ReadFile(htmlPath)
	if err != nil {
		logger.Fatal(ctx, "读取 HTML 文件失败", err, "path", htmlPath)
	}

	outPath := *output
	if outPath == "" {
		outPath = strings.TrimSuffix(htmlPath, filepath.Ext(htmlPath)) + ".png"
	}

	renderer := render.NewChromiumRenderer(&config.RenderConfig{
		BrowserPath:    *browser,
		ViewportWidth:  *width,
		ViewportHeight: *height,
		WaitTime:       *waitTime,
		OutputDir:      filepath.Dir(outPath),
	})

	png, err := renderer.Render(ctx, string(data), *width, *height)
	if err != nil {
		logger.Fatal(ctx, "渲染截图失败", err, "path", htmlPath)
	}
	if err := os.WriteFile(outPath, png, 0o644); err != nil {
		logger.Fatal(ctx, "写入截图失败", err, "path", outPath)
	}

	logger.Info(ctx, "截图完成", "input", htmlPath, "output", outPath)
}
