// Package publish 通过外部 CLI 工具发布笔记
package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"ink-content-api/internal/config"
	apperrors "ink-content-api/pkg/errors"
	"ink-content-api/pkg/logger"
	"ink-content-api/pkg/metrics"
)

// Request 一次发布请求
type Request struct {
	Title    string
	Content  string
	Topics   []string
	Location string
	Images   []string
	Videos   []string
}

// Result 发布结果，退出码 0 即视为成功
type Result struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RawOutput string `json:"raw_output"`
}

// Publisher 把发布工具当作不透明的外部协作方，只关心参数与退出码
type Publisher struct {
	cfg    *config.PublishConfig
	client *http.Client
}

// NewPublisher 创建发布服务
func NewPublisher(cfg *config.PublishConfig) *Publisher {
	return &Publisher{
		cfg:    cfg,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

// Publish 调用外部 CLI 发布笔记。
// 网络图片先下载到本地临时目录再传给 CLI。
func (p *Publisher) Publish(ctx context.Context, req *Request) (*Result, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "发布标题不能为空")
	}

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	args := []string{"publish", req.Title, req.Content}
	if len(req.Topics) > 0 {
		args = append(args, "--topics", strings.Join(req.Topics, ","))
	}
	if req.Location != "" {
		args = append(args, "--location", req.Location)
	}
	if imagePaths := p.localizeImages(ctx, req.Images); len(imagePaths) > 0 {
		args = append(args, "--images", strings.Join(imagePaths, ","))
	}
	if len(req.Videos) > 0 {
		args = append(args, "--videos", strings.Join(req.Videos, ","))
	}

	logger.Info(ctx, "执行发布命令", "command", p.cfg.Command, "title", req.Title)

	cmd := exec.CommandContext(ctx, p.cfg.Command, args...)
	cmd.Dir = p.cfg.WorkDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	rawOutput := stdout.String()
	if err != nil {
		metrics.PublishTotal.WithLabelValues("error").Inc()
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = lastNonEmptyLine(rawOutput)
		}
		if message == "" {
			message = err.Error()
		}
		logger.Error(ctx, "笔记发布失败", err, "title", req.Title, "message", message)
		return &Result{
			Success:   false,
			Message:   "发布失败: " + message,
			RawOutput: rawOutput,
		}, nil
	}

	metrics.PublishTotal.WithLabelValues("success").Inc()
	logger.Info(ctx, "笔记发布成功", "title", req.Title)
	return &Result{
		Success:   true,
		Message:   "发布成功",
		RawOutput: rawOutput,
	}, nil
}

// localizeImages 确保所有图片都是本地路径，网络图片下载后替换。
// 单张图片处理失败只跳过，不阻断整次发布。
func (p *Publisher) localizeImages(ctx context.Context, images []string) []string {
	paths := make([]string, 0, len(images))
	for _, img := range images {
		if !strings.HasPrefix(img, "http://") && !strings.HasPrefix(img, "https://") {
			paths = append(paths, img)
			continue
		}
		local, err := p.downloadImage(ctx, img)
		if err != nil {
			logger.Warn(ctx, "下载网络图片失败，跳过", "url", img, "error", err.Error())
			continue
		}
		paths = append(paths, local)
	}
	return paths
}

func (p *Publisher) downloadImage(ctx context.Context, rawURL string) (string, error) {
	if err := os.MkdirAll(p.cfg.TempImageDir, 0o755); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	filename := filepath.Base(parsed.Path)
	if filename == "." || filename == "/" || filename == "" {
		filename = fmt.Sprintf("image_%d.jpg", time.Now().UnixNano())
	}
	savePath := filepath.Join(p.cfg.TempImageDir, filename)

	out, err := os.Create(savePath)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", err
	}
	return savePath, nil
}

func lastNonEmptyLine(output string) string {
	lines := strings.Split(output, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
