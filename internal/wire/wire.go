// Package wire 提供依赖注入装配
package wire

import (
	"context"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"ink-content-api/internal/application/cookie"
	"ink-content-api/internal/application/hotspot"
	"ink-content-api/internal/application/note"
	"ink-content-api/internal/config"
	"ink-content-api/internal/infrastructure/llm"
	"ink-content-api/internal/infrastructure/persistence/redis"
	"ink-content-api/internal/infrastructure/publish"
	"ink-content-api/internal/infrastructure/render"
	"ink-content-api/internal/interfaces/http/handler"
	"ink-content-api/internal/interfaces/http/router"
	"ink-content-api/internal/workflow/chain"
	"ink-content-api/pkg/logger"
)

// App 组装完成的应用
type App struct {
	router *router.Router
}

// Engine 返回 HTTP 引擎
func (a *App) Engine() *gin.Engine {
	return a.router.Engine()
}

// InitializeApp 按依赖顺序装配应用，返回清理函数
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	// Redis 是可选依赖：连接失败降级为无缓存、无限流运行
	var (
		redisClient *redis.Client
		cache       *redis.Cache
		rawRedis    *goredis.Client
	)
	if cfg.Cache.Redis.Host != "" {
		client, err := redis.NewClient(&cfg.Cache.Redis)
		if err != nil {
			logger.Warn(ctx, "redis unavailable, running without cache", "error", err.Error())
		} else {
			redisClient = client
			cache = redis.NewCache(client)
			rawRedis = client.Redis()
		}
	}

	// LLM 基础设施
	factory := llm.NewEinoFactory(cfg)

	// 应用服务
	creator := note.NewCreator(cfg, factory)
	hotspotSvc := hotspot.NewService(cfg, cache, chain.NewHotspotAnalysisChain(factory))
	cookieSvc, err := cookie.NewService(&cfg.Cookie)
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, nil, err
	}
	publisher := publish.NewPublisher(&cfg.Publish)
	renderer := render.NewPool(render.NewChromiumRenderer(&cfg.Render), cfg.Render.Workers)

	// HTTP 层
	handlers := &router.Handlers{
		Health:  handler.NewHealthHandler(redisClient),
		Note:    handler.NewNoteHandler(creator, factory, cfg),
		Hotspot: handler.NewHotspotHandler(hotspotSvc),
		Cookie:  handler.NewCookieHandler(cookieSvc),
		Publish: handler.NewPublishHandler(publisher),
		Render:  handler.NewRenderHandler(renderer),
	}
	r := router.New(cfg, handlers, rawRedis)

	cleanup := func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn(context.Background(), "failed to close redis client", "error", err.Error())
			}
		}
	}

	return &App{router: r}, cleanup, nil
}
