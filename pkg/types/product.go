// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data shared between the upstream client, the
// paginator and the search facade. All values are built per request and
// dropped once the response text is produced.
package types

import (
	"fmt"
	"net/url"

	"github.com/pdiddy/travel-search/pkg/jsonpath"
)

// SourceID names one of the two upstream search indices.
type SourceID int

const (
	// Destination matches products whose destination is the requested place.
	Destination SourceID = iota
	// PassThrough matches products whose itinerary passes through it.
	PassThrough
)

func (s SourceID) String() string {
	switch s {
	case Destination:
		return "destination"
	case PassThrough:
		return "pass_through"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// fieldPrefix is the query parameter prefix each index expects.
func (s SourceID) fieldPrefix() string {
	if s == PassThrough {
		return "pass"
	}
	return "dest"
}

// Filter holds resolved upstream region codes. An empty code means the name
// was not given or could not be resolved.
type Filter struct {
	CountryCode  string `json:"country_code,omitempty" yaml:"country_code,omitempty"`
	ProvinceCode string `json:"province_code,omitempty" yaml:"province_code,omitempty"`
	CityCode     string `json:"city_code,omitempty" yaml:"city_code,omitempty"`
}

// IsEmpty reports whether no code was resolved.
func (f Filter) IsEmpty() bool {
	return f.CountryCode == "" && f.ProvinceCode == "" && f.CityCode == ""
}

// Params returns the query parameters for source, e.g. destCityCode for
// Destination and passCityCode for PassThrough. Empty codes are omitted.
func (f Filter) Params(source SourceID) url.Values {
	p := source.fieldPrefix()
	v := url.Values{}
	if f.CountryCode != "" {
		v.Set(p+"CountryCode", f.CountryCode)
	}
	if f.ProvinceCode != "" {
		v.Set(p+"ProvinceCode", f.ProvinceCode)
	}
	if f.CityCode != "" {
		v.Set(p+"CityCode", f.CityCode)
	}
	return v
}

// ProductSummary is one listing record from a search page.
type ProductSummary struct {
	ProductNum string
	// Rest is the full record as returned by the index.
	Rest jsonpath.Value
}

// ProductDetail is the full product document. Doc holds the upstream "data"
// object (productNum, lineList[...]); a zero Doc means the fetch failed.
type ProductDetail struct {
	ProductNum string
	Doc        jsonpath.Value
}

// IsEmpty reports whether the detail carries no document.
func (d ProductDetail) IsEmpty() bool {
	return d.Doc.Kind() != jsonpath.Object
}

// FirstLine returns lineList[0], the only itinerary line ever rendered.
func (d ProductDetail) FirstLine() (jsonpath.Value, bool) {
	lines, ok := d.Doc.Field("lineList")
	if !ok {
		return jsonpath.Value{}, false
	}
	line, ok := lines.Index(0)
	if !ok || line.Kind() != jsonpath.Object {
		return jsonpath.Value{}, false
	}
	return line, true
}

// PageWindow is one page fetched from one index.
type PageWindow struct {
	Source     SourceID
	Page       int
	PageSize   int
	TotalPages int
	Records    []ProductSummary
}

// PageResult is what a search returns: the caller-visible page number, the
// total number of pages known for the query, and the narrative text.
type PageResult struct {
	CurrentPage int
	TotalPages  int
	Narrative   string
}

// String formats the result in the shape the tool layer consumes.
func (r PageResult) String() string {
	return fmt.Sprintf("当前页：%d\n总页数：%d\n旅行产品信息：\n%s", r.CurrentPage, r.TotalPages, r.Narrative)
}
