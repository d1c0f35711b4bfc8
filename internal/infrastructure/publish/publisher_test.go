package publish

import (
	"context"
	"testing"
	"time"

	"ink-content-api/internal/config"
	apperrors "ink-content-api/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPublisher(command string) *Publisher {
	return NewPublisher(&config.PublishConfig{
		Command:      command,
		TempImageDir: "",
		Timeout:      5 * time.Second,
	})
}

func TestPublishSuccessOnZeroExit(t *testing.T) {
	p := newTestPublisher("true")

	result, err := p.Publish(context.Background(), &Request{
		Title:   "测试笔记",
		Content: "正文内容",
		Topics:  []string{"测试", "Go"},
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "发布成功", result.Message)
}

func TestPublishFailureOnNonZeroExit(t *testing.T) {
	p := newTestPublisher("false")

	result, err := p.Publish(context.Background(), &Request{
		Title:   "测试笔记",
		Content: "正文内容",
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "发布失败")
}

func TestPublishRejectsEmptyTitle(t *testing.T) {
	p := newTestPublisher("true")

	_, err := p.Publish(context.Background(), &Request{Title: "  "})

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidParam))
}

func TestLastNonEmptyLine(t *testing.T) {
	assert.Equal(t, "最后一行", lastNonEmptyLine("第一行\n最后一行\n\n  \n"))
	assert.Empty(t, lastNonEmptyLine("\n \n"))
}

func TestLocalizeImagesKeepsLocalPaths(t *testing.T) {
	p := newTestPublisher("true")

	paths := p.localizeImages(context.Background(), []string{"/tmp/a.png", "relative/b.jpg"})

	assert.Equal(t, []string{"/tmp/a.png", "relative/b.jpg"}, paths)
}
