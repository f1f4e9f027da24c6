// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/travel-search/internal/geo"
	"github.com/pdiddy/travel-search/internal/httputil"
	"github.com/pdiddy/travel-search/internal/paginate"
	"github.com/pdiddy/travel-search/internal/upstream"
	"github.com/pdiddy/travel-search/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

var details = map[string]string{
	"P1": `{"data": {"productNum": "P1", "lineList": [{"goTransportName": "飞机", "trips": [{"tripDay": 1, "content": "故宫", "scenicSpots": [{"name": "故宫"}]}]}]}}`,
	"P2": `{"data": null}`,
	"P3": `{"data": {"productNum": "P3", "lineList": [{"trips": []}]}}`,
}

// fakeUpstream serves no destination pages and one pass-through page with
// P1 and P2. It records how many requests it saw.
func fakeUpstream(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query()
		switch r.URL.Path {
		case "/page":
			if q.Get("passCountryCode") == "CN" && q.Get("passCityCode") == "110100" {
				if q.Get("current") != "1" {
					fmt.Fprint(w, `{"data": {"pages": 1, "records": []}}`)
					return
				}
				fmt.Fprint(w, `{"data": {"pages": 1, "records": [{"productNum": "P1"}, {"productNum": "P2"}]}}`)
				return
			}
			fmt.Fprint(w, `{"data": {"pages": 0, "records": []}}`)
		case "/productInfo":
			body, ok := details[q.Get("productNum")]
			if !ok {
				http.NotFound(w, r)
				return
			}
			fmt.Fprint(w, body)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func newFacade(t *testing.T, ts *httptest.Server, log *zap.Logger) *Facade {
	t.Helper()
	g, err := geo.Default()
	require.NoError(t, err)
	c := upstream.NewClient(types.UpstreamConfig{BaseURL: ts.URL, MaxRetries: 0}, upstream.WithHTTPClient(ts.Client()))
	return New(c, g, types.SearchConfig{}, log)
}

func TestSearchCombinedFallsThroughToPassThrough(t *testing.T) {
	ts, _ := fakeUpstream(t)
	s := newFacade(t, ts, nil)

	got := s.SearchCombinedAbstract(context.Background(), "中国", "", "北京", 1)
	want := strings.Join([]string{
		"当前页：1",
		"总页数：1",
		"旅行产品信息：",
		"查询成功",
		"产品编号：P1",
		"=== 往返交通信息 ===",
		"去程交通：飞机",
		"\n=== 每日行程信息 ===",
		"\n【第 1 天】",
		"行程内容：故宫",
		"景点：故宫",
	}, "\n")
	assert.Equal(t, want, got)

	detail := s.SearchCombinedDetail(context.Background(), "中国", "", "北京", 1)
	assert.Contains(t, detail, "=== 往返航班信息 ===")
	assert.NotContains(t, detail, "P2")
}

func TestSearchCombinedOutOfRange(t *testing.T) {
	ts, _ := fakeUpstream(t)
	s := newFacade(t, ts, nil)

	got := s.SearchCombinedDetail(context.Background(), "中国", "", "北京", 3)
	assert.Equal(t, "当前页：3\n总页数：1\n旅行产品信息：\n"+paginate.MsgOutOfRange, got)
}

func TestSearchSingleSource(t *testing.T) {
	ts, _ := fakeUpstream(t)
	s := newFacade(t, ts, nil)
	ctx := context.Background()

	got := s.SearchByDestination(ctx, "中国", "", "北京", 1)
	assert.Equal(t, "当前页：1\n总页数：0\n旅行产品信息：\n"+paginate.MsgNoData, got)

	got = s.SearchByPassThrough(ctx, "中国", "", "北京", 1)
	assert.True(t, strings.HasPrefix(got, "当前页：1\n总页数：1\n旅行产品信息：\n查询成功\n产品编号：P1"), got)
}

func TestSearchUnresolvedNames(t *testing.T) {
	ts, calls := fakeUpstream(t)
	s := newFacade(t, ts, nil)

	for _, got := range []string{
		s.SearchCombinedDetail(context.Background(), "", "", "", 2),
		s.SearchByDestination(context.Background(), "火星", "", "", 1),
	} {
		assert.Equal(t, "当前页：1\n总页数：0\n旅行产品信息：\n"+paginate.MsgNeedFilter, got)
	}
	assert.Zero(t, calls.Load())
}

func TestGetProductFeatures(t *testing.T) {
	ts, _ := fakeUpstream(t)
	s := newFacade(t, ts, nil)
	ctx := context.Background()

	assert.True(t, strings.HasPrefix(s.GetProductFeatures(ctx, "P1"), "产品编号：P1\n=== 往返航班信息 ==="))
	assert.Equal(t, "产品 P2 详情获取失败", s.GetProductFeatures(ctx, "P2"))
	assert.Equal(t, "产品 P3 暂无行程信息", s.GetProductFeatures(ctx, "P3"))
	assert.Equal(t, "产品 P404 详情获取失败", s.GetProductFeatures(ctx, "P404"))
}

func TestSearchProductNums(t *testing.T) {
	ts, _ := fakeUpstream(t)
	s := newFacade(t, ts, nil)
	ctx := context.Background()

	got := s.SearchProductNums(ctx, []string{"P3", "P1", "P2"})
	parts := strings.Split(got, "\n\n")
	require.GreaterOrEqual(t, len(parts), 3)
	assert.Equal(t, "产品 P3 暂无行程信息", parts[0])
	assert.True(t, strings.HasPrefix(parts[1], "产品编号：P1"))
	assert.Equal(t, "产品 P2 详情获取失败", parts[len(parts)-1])

	assert.Equal(t, "未提供产品编号", s.SearchProductNums(ctx, nil))
}

type panicFetcher struct{}

func (panicFetcher) FetchPage(context.Context, types.SourceID, types.Filter, int) types.PageWindow {
	panic("boom")
}

func (panicFetcher) FetchDetail(context.Context, string) types.ProductDetail {
	return types.ProductDetail{}
}

func TestFacadeRecoversPanics(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	g, err := geo.Default()
	require.NoError(t, err)
	s := New(panicFetcher{}, g, types.SearchConfig{}, zap.New(core))

	got := s.SearchCombinedDetail(context.Background(), "中国", "", "", 1)
	assert.Equal(t, MsgInternal, got)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "search panicked", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "search_combined_detail", fields["op"])
	assert.NotEmpty(t, fields["request_id"])
}
