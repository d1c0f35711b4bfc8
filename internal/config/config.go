// Package config 提供配置加载和管理功能
package config

import (
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Hotspot       HotspotConfig       `yaml:"hotspot" mapstructure:"hotspot"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Render        RenderConfig        `yaml:"render" mapstructure:"render"`
	Publish       PublishConfig       `yaml:"publish" mapstructure:"publish"`
	Cookie        CookieConfig        `yaml:"cookie" mapstructure:"cookie"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// LLMConfig AI 服务配置
type LLMConfig struct {
	// Services AI 服务提供商列表，name 唯一
	Services []ServiceConfig `yaml:"services" mapstructure:"services"`
	// Defaults 生成流水线的默认参数
	Defaults GenerationDefaults `yaml:"defaults" mapstructure:"defaults"`
	// MaxRetries 单次生成调用的最大尝试次数
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`
	// RetryBaseDelay 指数退避的基础延迟
	RetryBaseDelay time.Duration `yaml:"retry_base_delay" mapstructure:"retry_base_delay"`
	// ChunkPause 流式输出最终文档时相邻分块之间的停顿
	ChunkPause time.Duration `yaml:"chunk_pause" mapstructure:"chunk_pause"`
}

// ServiceConfig AI 服务提供商配置，加载后只读
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Type        string        `yaml:"type" mapstructure:"type"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	Models      []string      `yaml:"models" mapstructure:"models"`
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SupportsModel 检查模型是否在服务的受支持集合中
func (s *ServiceConfig) SupportsModel(model string) bool {
	for _, m := range s.Models {
		if m == model {
			return true
		}
	}
	return false
}

// GenerationDefaults 生成流水线默认参数
type GenerationDefaults struct {
	AIService      string `yaml:"ai_service" mapstructure:"ai_service"`
	AIModel        string `yaml:"ai_model" mapstructure:"ai_model"`
	ContentTheme   string `yaml:"content_theme" mapstructure:"content_theme"`
	Style          string `yaml:"style" mapstructure:"style"`
	TargetAudience string `yaml:"target_audience" mapstructure:"target_audience"`
}

// HotspotConfig 热点数据源配置
type HotspotConfig struct {
	Sources  []HotspotSource `yaml:"sources" mapstructure:"sources"`
	CacheTTL time.Duration   `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// HotspotSource 单个热点数据源
type HotspotSource struct {
	Name string `yaml:"name" mapstructure:"name"`
	Type string `yaml:"type" mapstructure:"type"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// RenderConfig 截图渲染配置
type RenderConfig struct {
	// BrowserPath 无头浏览器可执行文件路径
	BrowserPath string `yaml:"browser_path" mapstructure:"browser_path"`
	// Workers 同时运行的浏览器进程上限
	Workers int `yaml:"workers" mapstructure:"workers"`
	// ViewportWidth/ViewportHeight 默认视口尺寸
	ViewportWidth  int `yaml:"viewport_width" mapstructure:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height" mapstructure:"viewport_height"`
	// WaitTime 截图前等待页面渲染的时间
	WaitTime time.Duration `yaml:"wait_time" mapstructure:"wait_time"`
	// OutputDir 图片输出目录
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
}

// PublishConfig 外部发布 CLI 配置
type PublishConfig struct {
	// Command 发布工具可执行文件（PATH 查找或绝对路径）
	Command string `yaml:"command" mapstructure:"command"`
	// WorkDir 发布工具的工作目录
	WorkDir string `yaml:"work_dir" mapstructure:"work_dir"`
	// TempImageDir 网络图片下载到本地的临时目录
	TempImageDir string `yaml:"temp_image_dir" mapstructure:"temp_image_dir"`
	// Timeout 单次发布的超时时间
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// CookieConfig 多账号 Cookie 管理配置
type CookieConfig struct {
	AccountsDir string `yaml:"accounts_dir" mapstructure:"accounts_dir"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond int  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int  `yaml:"burst" mapstructure:"burst"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}

// Service 按名称查找服务配置，未找到返回 nil
func (c *LLMConfig) Service(name string) *ServiceConfig {
	for i := range c.Services {
		if c.Services[i].Name == name {
			return &c.Services[i]
		}
	}
	return nil
}
