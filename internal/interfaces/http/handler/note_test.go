package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ink-content-api/internal/application/note"
	"ink-content-api/internal/config"
	workflowport "ink-content-api/internal/workflow/port"
	apperrors "ink-content-api/pkg/errors"
)

type stubProvider struct {
	respond func(prompt string) (string, error)
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Generate(ctx context.Context, model string, msgs []*schema.Message) (string, error) {
	var sb strings.Builder
	for _, m := range msgs {
		sb.WriteString(m.Content)
	}
	return p.respond(sb.String())
}

type stubFactory struct {
	provider *stubProvider
}

func (f *stubFactory) Get(ctx context.Context, name string) (workflowport.ChatProvider, error) {
	if name != "stub" {
		return nil, apperrors.New(apperrors.CodeProviderNotFound, "AI 服务不存在").WithDetail(name)
	}
	return f.provider, nil
}

func (f *stubFactory) Services() map[string][]string {
	return map[string][]string{"stub": {"test-model"}}
}

func newTestEngine(respond func(prompt string) (string, error)) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.LLM = config.LLMConfig{
		MaxRetries:     1,
		RetryBaseDelay: time.Millisecond,
		Defaults: config.GenerationDefaults{
			AIService: "stub",
			AIModel:   "test-model",
		},
	}

	factory := &stubFactory{provider: &stubProvider{respond: respond}}
	h := NewNoteHandler(note.NewCreator(cfg, factory), factory, cfg)

	engine := gin.New()
	engine.POST("/v1/generate", h.Generate)
	engine.GET("/v1/notes/models", h.ListModels)
	engine.POST("/v1/notes/title", h.GenerateTitle)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func TestGenerateTitleEndpoint(t *testing.T) {
	t.Run("生成标题并去除包裹引号", func(t *testing.T) {
		engine := newTestEngine(func(string) (string, error) {
			return `"夏日冷饮清单"`, nil
		})

		w, body := doJSON(t, engine, http.MethodPost, "/v1/notes/title",
			`{"theme":"夏日冷饮","style":"清爽"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		data := body["data"].(map[string]any)
		assert.Equal(t, "夏日冷饮清单", data["text"])
	})

	t.Run("缺少主题返回参数错误", func(t *testing.T) {
		engine := newTestEngine(func(string) (string, error) { return "", nil })

		w, _ := doJSON(t, engine, http.MethodPost, "/v1/notes/title", `{"style":"清爽"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestChatGenerateEndpoint(t *testing.T) {
	t.Run("直连对话生成", func(t *testing.T) {
		engine := newTestEngine(func(prompt string) (string, error) {
			return "echo: " + prompt, nil
		})

		w, body := doJSON(t, engine, http.MethodPost, "/v1/generate",
			`{"messages":[{"role":"user","content":"你好"}]}`)

		assert.Equal(t, http.StatusOK, w.Code)
		data := body["data"].(map[string]any)
		assert.Equal(t, "echo: 你好", data["text"])
	})

	t.Run("未知服务返回错误码", func(t *testing.T) {
		engine := newTestEngine(func(string) (string, error) { return "", nil })

		w, body := doJSON(t, engine, http.MethodPost, "/v1/generate",
			`{"ai_service":"ghost","messages":[{"role":"user","content":"你好"}]}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		detail := body["error"].(map[string]any)
		assert.Equal(t, string(apperrors.CodeProviderNotFound), detail["error_code"])
	})
}

func TestListModelsEndpoint(t *testing.T) {
	engine := newTestEngine(func(string) (string, error) { return "", nil })

	w, body := doJSON(t, engine, http.MethodGet, "/v1/notes/models", "")

	assert.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	services := data["services"].(map[string]any)
	assert.Contains(t, services, "stub")
	assert.Equal(t, "stub", data["defaults"].(map[string]any)["ai_service"])
}
