package hotspot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ink-content-api/internal/config"
	wfmodel "ink-content-api/internal/workflow/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baiduBody = `{
	"data": {"cards": [{"content": [
		{"word": "热搜一", "url": "https://example.com/1", "hotScore": "9000000"},
		{"word": "热搜二", "url": "https://example.com/2", "hotScore": 500}
	]}]}
}`

const weiboBody = `{
	"data": {"realtime": [
		{"word": "微博热搜", "raw_hot": 7000000},
		{"word": "缺热度", "raw_hot": null}
	]}
}`

func newTestService(t *testing.T, baiduHandler, weiboHandler http.HandlerFunc) *Service {
	t.Helper()
	baidu := httptest.NewServer(baiduHandler)
	t.Cleanup(baidu.Close)
	weibo := httptest.NewServer(weiboHandler)
	t.Cleanup(weibo.Close)

	cfg := &config.Config{
		Hotspot: config.HotspotConfig{
			Sources: []config.HotspotSource{
				{Name: "baidu", Type: "baidu"},
				{Name: "weibo", Type: "weibo"},
			},
		},
		LLM: config.LLMConfig{
			Defaults: config.GenerationDefaults{AIService: "stub", AIModel: "test-model"},
		},
	}
	svc := NewService(cfg, nil, stubAnalyzer{})
	svc.baiduURL = baidu.URL
	svc.weiboURL = weibo.URL
	return svc
}

type stubAnalyzer struct{}

func (stubAnalyzer) Invoke(_ context.Context, in *wfmodel.HotspotAnalysisInput) (string, error) {
	return "# " + in.Date + " 热点分析报告\n" + in.Hotspots, nil
}

func serve(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestFetchAllMergesAndSorts(t *testing.T) {
	svc := newTestService(t, serve(baiduBody), serve(weiboBody))

	hotspots := svc.FetchAll(context.Background())

	require.Len(t, hotspots, 4)
	// 按热度降序，null 热度视为 0 排在最后
	assert.Equal(t, "热搜一", hotspots[0].Title)
	assert.Equal(t, int64(9000000), hotspots[0].HotScore)
	assert.Equal(t, "微博热搜", hotspots[1].Title)
	assert.Equal(t, "缺热度", hotspots[3].Title)
	assert.Zero(t, hotspots[3].HotScore)
	assert.Contains(t, hotspots[1].URL, "s.weibo.com")
}

func TestFetchAllSkipsFailedSource(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, serve(weiboBody))

	hotspots := svc.FetchAll(context.Background())

	require.Len(t, hotspots, 2)
	for _, h := range hotspots {
		assert.Equal(t, "weibo", h.Source)
	}
}

func TestAnalyzeEmptyBoard(t *testing.T) {
	svc := newTestService(t, serve(`{"data":{"cards":[]}}`), serve(`{"data":{"realtime":[]}}`))

	report, err := svc.Analyze(context.Background(), "", "")

	require.NoError(t, err)
	assert.Equal(t, "今日无热点数据可供分析。", report)
}

func TestAnalyzeFormatsBoard(t *testing.T) {
	svc := newTestService(t, serve(baiduBody), serve(weiboBody))

	report, err := svc.Analyze(context.Background(), "", "")

	require.NoError(t, err)
	assert.Contains(t, report, "热点分析报告")
	assert.Contains(t, report, "1. [baidu] 热搜一 (热度: 9000000)")
}

func TestRefreshWithoutCache(t *testing.T) {
	svc := newTestService(t, serve(baiduBody), serve(weiboBody))

	hotspots, err := svc.Refresh(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, hotspots)
	// 无缓存时退化为直接拉取，结果与 FetchAll 一致
	assert.Equal(t, svc.FetchAll(context.Background()), hotspots)
}

func TestFormatBoard(t *testing.T) {
	board := FormatBoard([]Hotspot{
		{Source: "baidu", Title: "甲", HotScore: 100},
		{Source: "weibo", Title: "乙", HotScore: 50},
	})

	assert.Equal(t, "1. [baidu] 甲 (热度: 100)\n2. [weibo] 乙 (热度: 50)", board)
}
