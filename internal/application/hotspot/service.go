// Package hotspot 聚合公开榜单的热点数据并生成分析报告
package hotspot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"ink-content-api/internal/config"
	"ink-content-api/internal/infrastructure/persistence/redis"
	wfmodel "ink-content-api/internal/workflow/model"
	apperrors "ink-content-api/pkg/errors"
	"ink-content-api/pkg/logger"
	"ink-content-api/pkg/metrics"
)

const (
	baiduHotURL = "https://top.baidu.com/api/board?platform=wise&tab=realtime"
	weiboHotURL = "https://weibo.com/ajax/side/hotSearch"

	// 每个数据源最多取前 10 条
	topN = 10

	cacheKeyList     = "hotspot:list"
	cacheKeyAnalysis = "hotspot:analysis"
)

// Hotspot 单条热点
type Hotspot struct {
	Source   string `json:"source"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	HotScore int64  `json:"hot_score"`
}

// flexScore 兼容字符串或数字形式的热度值，缺失或无法解析视为 0
type flexScore int64

func (s *flexScore) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		*s = 0
		return nil
	}
	*s = flexScore(n)
	return nil
}

type analyzeInvoker interface {
	Invoke(ctx context.Context, in *wfmodel.HotspotAnalysisInput) (string, error)
}

// Service 热点聚合服务。
// cache 为 nil 时每次请求直接访问上游数据源。
type Service struct {
	cfg      *config.HotspotConfig
	defaults config.GenerationDefaults
	client   *http.Client
	cache    *redis.Cache
	chain    analyzeInvoker

	// 上游地址可注入，测试时指向 httptest 服务
	baiduURL string
	weiboURL string
}

// NewService 创建热点聚合服务
func NewService(cfg *config.Config, cache *redis.Cache, chain analyzeInvoker) *Service {
	return &Service{
		cfg:      &cfg.Hotspot,
		defaults: cfg.LLM.Defaults,
		client:   &http.Client{Timeout: 10 * time.Second},
		cache:    cache,
		chain:    chain,
		baiduURL: baiduHotURL,
		weiboURL: weiboHotURL,
	}
}

// FetchAll 聚合全部数据源的热点并按热度降序排序。
// 单个数据源失败只记录日志并跳过，不影响其他数据源的结果。
func (s *Service) FetchAll(ctx context.Context) []Hotspot {
	var all []Hotspot
	for _, source := range s.cfg.Sources {
		var (
			items []Hotspot
			err   error
		)
		switch source.Type {
		case "baidu":
			items, err = s.fetchBaidu(ctx)
		case "weibo":
			items, err = s.fetchWeibo(ctx)
		default:
			logger.Warn(ctx, "未知的热点数据源类型", "source", source.Name, "type", source.Type)
			continue
		}
		if err != nil {
			metrics.HotspotFetchTotal.WithLabelValues(source.Name, "error").Inc()
			logger.Error(ctx, "获取热点数据失败", err, "source", source.Name)
			continue
		}
		metrics.HotspotFetchTotal.WithLabelValues(source.Name, "success").Inc()
		all = append(all, items...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].HotScore > all[j].HotScore
	})
	return all
}

// FetchAllCached 带缓存的热点聚合，缓存不可用时退化为直接拉取
func (s *Service) FetchAllCached(ctx context.Context) ([]Hotspot, error) {
	if s.cache == nil {
		return s.FetchAll(ctx), nil
	}

	data, err := s.cache.GetOrLoadSafe(ctx, cacheKeyList, s.cfg.CacheTTL, func() (interface{}, error) {
		return s.FetchAll(ctx), nil
	})
	if err != nil {
		logger.Warn(ctx, "热点缓存不可用，直接拉取", "error", err.Error())
		return s.FetchAll(ctx), nil
	}

	var hotspots []Hotspot
	if err := json.Unmarshal(data, &hotspots); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "热点缓存数据损坏")
	}
	return hotspots, nil
}

// Analyze 基于当前热点榜单生成日度分析报告。
// 报告按日期与所用模型缓存，同一天的重复请求不再消耗 AI 调用。
func (s *Service) Analyze(ctx context.Context, service, model string) (string, error) {
	if strings.TrimSpace(service) == "" {
		service = s.defaults.AIService
	}
	if strings.TrimSpace(model) == "" {
		model = s.defaults.AIModel
	}

	date := time.Now().Format("2006-01-02")
	key := fmt.Sprintf("%s:%s:%s:%s", cacheKeyAnalysis, date, service, model)

	if s.cache != nil {
		data, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var report string
			if json.Unmarshal(data, &report) == nil && report != "" {
				return report, nil
			}
		case !redis.IsNil(err):
			logger.Warn(ctx, "热点分析缓存不可用", "error", err.Error())
		}
	}

	hotspots, err := s.FetchAllCached(ctx)
	if err != nil {
		return "", err
	}
	if len(hotspots) == 0 {
		return "今日无热点数据可供分析。", nil
	}

	report, err := s.chain.Invoke(ctx, &wfmodel.HotspotAnalysisInput{
		GenerationTarget: wfmodel.GenerationTarget{Service: service, Model: model},
		Date:             date,
		Hotspots:         FormatBoard(hotspots),
	})
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report, s.cfg.CacheTTL); err != nil {
			logger.Warn(ctx, "写入热点分析缓存失败", "error", err.Error())
		}
	}
	return report, nil
}

// Refresh 清除全部热点缓存（榜单与分析报告）后重新拉取榜单
func (s *Service) Refresh(ctx context.Context) ([]Hotspot, error) {
	if s.cache != nil {
		if err := s.cache.InvalidateHotspots(ctx); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "清除热点缓存失败")
		}
	}
	return s.FetchAllCached(ctx)
}

// FormatBoard 将热点榜单格式化为提示词中的文本块
func FormatBoard(hotspots []Hotspot) string {
	var sb strings.Builder
	for i, item := range hotspots {
		fmt.Fprintf(&sb, "%d. [%s] %s (热度: %d)\n", i+1, item.Source, item.Title, item.HotScore)
	}
	return strings.TrimSpace(sb.String())
}

type baiduResponse struct {
	Data struct {
		Cards []struct {
			Content []struct {
				Word     string    `json:"word"`
				URL      string    `json:"url"`
				HotScore flexScore `json:"hotScore"`
			} `json:"content"`
		} `json:"cards"`
	} `json:"data"`
}

func (s *Service) fetchBaidu(ctx context.Context) ([]Hotspot, error) {
	var resp baiduResponse
	if err := s.getJSON(ctx, s.baiduURL, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data.Cards) == 0 {
		return nil, nil
	}

	content := resp.Data.Cards[0].Content
	items := make([]Hotspot, 0, topN)
	for _, entry := range content {
		if len(items) >= topN {
			break
		}
		items = append(items, Hotspot{
			Source:   "baidu",
			Title:    entry.Word,
			URL:      entry.URL,
			HotScore: int64(entry.HotScore),
		})
	}
	return items, nil
}

type weiboResponse struct {
	Data struct {
		Realtime []struct {
			Word   string    `json:"word"`
			RawHot flexScore `json:"raw_hot"`
		} `json:"realtime"`
	} `json:"data"`
}

func (s *Service) fetchWeibo(ctx context.Context) ([]Hotspot, error) {
	var resp weiboResponse
	if err := s.getJSON(ctx, s.weiboURL, &resp); err != nil {
		return nil, err
	}

	items := make([]Hotspot, 0, topN)
	for _, entry := range resp.Data.Realtime {
		if len(items) >= topN {
			break
		}
		items = append(items, Hotspot{
			Source:   "weibo",
			Title:    entry.Word,
			URL:      "https://s.weibo.com/weibo?q=" + url.QueryEscape(entry.Word),
			HotScore: int64(entry.RawHot),
		})
	}
	return items, nil
}

func (s *Service) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
