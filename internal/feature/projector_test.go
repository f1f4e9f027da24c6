// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feature

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/travel-search/pkg/jsonpath"
	"github.com/pdiddy/travel-search/pkg/types"
)

const sampleDetail = `{
  "productNum": "P100",
  "lineList": [
    {
      "calList": [{"adultSalePrice": 5999, "childSalePrice": 3999}],
      "goTransportName": "飞机",
      "goAirports": [
        {"airlineCode": "MU", "airlineName": "东方航空", "flightNo": "MU5701",
         "startAirportCode": "PEK", "startAirportName": "首都机场",
         "arriveAirportCode": "KMG", "arriveAirportName": "长水机场",
         "startTime": "08:00", "arriveTime": "12:00", "dayOffset": 0, "sort": 1}
      ],
      "backTransportName": "飞机",
      "backAirports": null,
      "trips": [
        {
          "tripDay": 1,
          "content": "抵达昆明\n自由活动",
          "scheduleTraffics": [{"departure": "机场", "departureTime": "12:30", "destination": "酒店", "arrivalTime": "13:30", "trafficType": "大巴"}],
          "hotels": [{"name": "昆明饭店", "star": 4}],
          "scenicSpots": [{"name": "滇池", "description": "高原湖泊"}],
          "stores": [{"name": "玉石店", "mainProducts": "翡翠", "description": null}]
        },
        {
          "dayNum": 2,
          "content": "大理",
          "scenics": [{"name": "洱海", "description": null}],
          "hotels": []
        }
      ]
    },
    {
      "goTransportName": "火车",
      "trips": [{"tripDay": 1, "content": "should never appear"}]
    }
  ]
}`

func detail(t *testing.T, num, doc string) types.ProductDetail {
	t.Helper()
	v, err := jsonpath.Decode([]byte(doc))
	require.NoError(t, err)
	return types.ProductDetail{ProductNum: num, Doc: v}
}

func TestProjectDetail(t *testing.T) {
	p := New(Detail, nil)
	text, ok := p.Render(detail(t, "P100", sampleDetail))
	require.True(t, ok)

	want := []string{
		"产品编号：P100",
		"成年人售价：5999",
		"儿童售价：3999",
		"=== 往返航班信息 ===",
		"去程交通：飞机",
		"去程" + flightLegLabel + "：MU、东方航空、MU5701、PEK、首都机场、KMG、长水机场、08:00、12:00、0、1",
		"回程交通：飞机",
		"\n=== 每日行程信息 ===",
		"\n【第 1 天】",
		"行程内容：抵达昆明 自由活动",
		"交通（出发地、时间、目的地、到达时间、方式）：机场、12:30、酒店、13:30、大巴",
		"酒店（名称、星级）：昆明饭店、4",
		"景点（名称、描述）：滇池、高原湖泊",
		"购物店（名称、主营产品、描述）：玉石店、翡翠",
		"\n【第 2 天】",
		"行程内容：大理",
		"景点（名称、描述）：洱海",
	}
	assert.Equal(t, strings.Join(want, "\n"), text)
	assert.NotContains(t, text, "should never appear", "only lineList[0] is rendered")
	assert.NotContains(t, text, "回程"+flightLegLabel, "empty sections are dropped")
}

func TestProjectAbstract(t *testing.T) {
	p := New(Abstract, nil)
	text, ok := p.Render(detail(t, "P100", sampleDetail))
	require.True(t, ok)

	want := []string{
		"产品编号：P100",
		"=== 往返交通信息 ===",
		"去程交通：飞机",
		"回程交通：飞机",
		"\n=== 每日行程信息 ===",
		"\n【第 1 天】",
		"行程内容：抵达昆明 自由活动",
		"景点：滇池",
		"\n【第 2 天】",
		"行程内容：大理",
		"景点：洱海",
	}
	assert.Equal(t, strings.Join(want, "\n"), text)
	assert.NotContains(t, text, "酒店")
	assert.NotContains(t, text, "MU5701")
}

func TestProjectUnavailable(t *testing.T) {
	p := New(Detail, nil)

	tests := []struct {
		name string
		d    types.ProductDetail
	}{
		{"empty detail", types.ProductDetail{ProductNum: "P9"}},
		{"no lineList", detail(t, "P9", `{"productNum": "P9"}`)},
		{"empty lineList", detail(t, "P9", `{"lineList": []}`)},
		{"lineList not array", detail(t, "P9", `{"lineList": {"trips": []}}`)},
		{"line not object", detail(t, "P9", `{"lineList": ["x"]}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, ok := p.Render(tt.d)
			assert.False(t, ok)
			assert.Equal(t, Unavailable("P9"), text)
			assert.Contains(t, p.Project(tt.d), "P9")
		})
	}
}

func TestProjectNoTripsIsEmpty(t *testing.T) {
	p := New(Detail, nil)
	for _, doc := range []string{
		`{"lineList": [{"goTransportName": "飞机"}]}`,
		`{"lineList": [{"trips": []}]}`,
		`{"lineList": [{"trips": "none"}]}`,
	} {
		text, ok := p.Render(detail(t, "P1", doc))
		assert.False(t, ok)
		assert.Equal(t, "", text)
	}
}

func TestProjectDropsMalformedDay(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := New(Detail, zap.New(core))

	doc := `{"lineList": [{"trips": [
		{"tripDay": 1, "content": "第一天"},
		"garbage",
		{"tripDay": 3, "content": "第三天"}
	]}]}`
	text, ok := p.Render(detail(t, "P1", doc))
	require.True(t, ok)

	assert.Contains(t, text, "【第 1 天】\n行程内容：第一天")
	assert.Contains(t, text, "【第 3 天】\n行程内容：第三天")
	assert.Equal(t, 2, strings.Count(text, "【第"))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "skipping itinerary day", logs.All()[0].Message)
}

func TestProjectDayNumberFallsBackToPosition(t *testing.T) {
	p := New(Abstract, nil)
	text, ok := p.Render(detail(t, "P1", `{"lineList": [{"trips": [{"content": "a"}, {"content": "b"}]}]}`))
	require.True(t, ok)
	assert.Contains(t, text, "【第 1 天】")
	assert.Contains(t, text, "【第 2 天】")
}

func TestProjectUsesDocumentNumber(t *testing.T) {
	p := New(Abstract, nil)
	text, ok := p.Render(detail(t, "", `{"productNum": "P77", "lineList": [{"trips": [{"content": "a"}]}]}`))
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(text, "产品编号：P77"))
}
