package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("INK_TEST_VAR", "from-env")

	t.Run("变量已设置时使用环境变量", func(t *testing.T) {
		assert.Equal(t, "from-env", expandEnv("${INK_TEST_VAR:fallback}"))
		assert.Equal(t, "from-env", expandEnv("${INK_TEST_VAR}"))
	})

	t.Run("变量未设置时使用默认值", func(t *testing.T) {
		assert.Equal(t, "fallback", expandEnv("${INK_TEST_MISSING:fallback}"))
		assert.Equal(t, "", expandEnv("${INK_TEST_MISSING:}"))
	})

	t.Run("无默认值且未设置时原样保留", func(t *testing.T) {
		assert.Equal(t, "${INK_TEST_MISSING}", expandEnv("${INK_TEST_MISSING}"))
	})

	t.Run("嵌入在普通文本中", func(t *testing.T) {
		assert.Equal(t, "host=from-env port=6379",
			expandEnv("host=${INK_TEST_VAR} port=${INK_TEST_PORT:6379}"))
	})
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, `
app:
  name: ink-content-api
  env: ${APP_ENV:development}
server:
  http:
    port: 8080
llm:
  services:
    - name: deepseek
      type: deepseek
      base_url: https://api.deepseek.com/v1
      models:
        - deepseek-chat
      timeout: 60s
  defaults:
    ai_service: deepseek
    ai_model: deepseek-chat
`)

	t.Run("加载基础配置", func(t *testing.T) {
		cfg, err := LoadFrom(path)
		require.NoError(t, err)

		assert.Equal(t, "ink-content-api", cfg.App.Name)
		assert.Equal(t, 8080, cfg.Server.HTTP.Port)
		require.Len(t, cfg.LLM.Services, 1)
		assert.Equal(t, "deepseek", cfg.LLM.Services[0].Name)
		assert.Equal(t, 60*time.Second, cfg.LLM.Services[0].Timeout)
	})

	t.Run("未显式配置的项使用默认值", func(t *testing.T) {
		cfg, err := LoadFrom(path)
		require.NoError(t, err)

		assert.Equal(t, 3, cfg.LLM.MaxRetries)
		assert.Equal(t, time.Second, cfg.LLM.RetryBaseDelay)
		assert.Equal(t, "info", cfg.Observability.Logging.Level)
		assert.Equal(t, "/metrics", cfg.Observability.Metrics.Path)
	})

	t.Run("环境特定配置覆盖基础配置", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		writeFile(t, filepath.Join(dir, "config.production.yaml"), `
server:
  http:
    port: 9090
`)

		cfg, err := LoadFrom(path)
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.HTTP.Port)
		assert.Equal(t, "production", cfg.App.Env)
		// 未被覆盖的项保持基础配置
		assert.Equal(t, "ink-content-api", cfg.App.Name)
	})

	t.Run("文件不存在返回配置错误", func(t *testing.T) {
		_, err := LoadFrom(filepath.Join(dir, "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestServiceLookup(t *testing.T) {
	cfg := LLMConfig{
		Services: []ServiceConfig{
			{Name: "deepseek", Models: []string{"deepseek-chat", "deepseek-reasoner"}},
			{Name: "ollama", Models: []string{"qwen3:8b"}},
		},
	}

	t.Run("按名称查找服务", func(t *testing.T) {
		svc := cfg.Service("ollama")
		require.NotNil(t, svc)
		assert.Equal(t, "ollama", svc.Name)
		assert.Nil(t, cfg.Service("unknown"))
	})

	t.Run("受支持模型判定", func(t *testing.T) {
		svc := cfg.Service("deepseek")
		require.NotNil(t, svc)
		assert.True(t, svc.SupportsModel("deepseek-chat"))
		assert.False(t, svc.SupportsModel("gpt-4o"))
	})
}
