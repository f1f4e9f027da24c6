// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feature

import "github.com/pdiddy/travel-search/pkg/jsonpath"

var flightLegFields = []string{
	"airlineCode", "airlineName", "flightNo",
	"startAirportCode", "startAirportName",
	"arriveAirportCode", "arriveAirportName",
	"startTime", "arriveTime", "dayOffset", "sort",
}

const flightLegLabel = "航班（航空公司代码、航空公司、航班号、出发机场代码、出发机场、到达机场代码、到达机场、出发时间、到达时间、跨天、航段顺序）"

// priceRules apply to the first departure calendar entry, calList[0].
var priceRules = []jsonpath.Rule{
	{Label: "成年人售价", Path: jsonpath.Path("adultSalePrice")},
	{Label: "儿童售价", Path: jsonpath.Path("childSalePrice")},
}

// transportRules render the outbound and return journey of a line.
var transportRules = []jsonpath.Rule{
	{Label: "去程交通", Path: jsonpath.Path("goTransportName")},
	{Label: "去程" + flightLegLabel, Path: jsonpath.Path("goAirports"), Subfields: flightLegFields},
	{Label: "回程交通", Path: jsonpath.Path("backTransportName")},
	{Label: "回程" + flightLegLabel, Path: jsonpath.Path("backAirports"), Subfields: flightLegFields},
}

// transportModeRules are transportRules without flight legs.
var transportModeRules = []jsonpath.Rule{
	{Label: "去程交通", Path: jsonpath.Path("goTransportName")},
	{Label: "回程交通", Path: jsonpath.Path("backTransportName")},
}

var dayNumberRule = jsonpath.Rule{Label: "天数", Path: jsonpath.Path("tripDay"), Fallback: jsonpath.Path("dayNum")}

// tripRules render one day of the itinerary.
var tripRules = []jsonpath.Rule{
	{Label: "行程内容", Path: jsonpath.Path("content")},
	{
		Label:     "交通（出发地、时间、目的地、到达时间、方式）",
		Path:      jsonpath.Path("scheduleTraffics"),
		Subfields: []string{"departure", "departureTime", "destination", "arrivalTime", "trafficType"},
	},
	{
		Label:     "酒店（名称、星级）",
		Path:      jsonpath.Path("hotels"),
		Subfields: []string{"name", "star"},
	},
	{
		Label:     "景点（名称、描述）",
		Path:      jsonpath.Path("scenicSpots"),
		Fallback:  jsonpath.Path("scenics"),
		Subfields: []string{"name", "description"},
	},
	{
		Label:     "购物店（名称、主营产品、描述）",
		Path:      jsonpath.Path("stores"),
		Subfields: []string{"name", "mainProducts", "description"},
	},
}

// abstractTripRules keep only what a day is about.
var abstractTripRules = []jsonpath.Rule{
	{Label: "行程内容", Path: jsonpath.Path("content")},
	{
		Label:     "景点",
		Path:      jsonpath.Path("scenicSpots"),
		Fallback:  jsonpath.Path("scenics"),
		Subfields: []string{"name"},
	},
}
