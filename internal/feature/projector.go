// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feature renders a product document as narrative text by applying
// fixed rule tables to the product's first itinerary line.
package feature

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/travel-search/pkg/jsonpath"
	"github.com/pdiddy/travel-search/pkg/types"
)

// Mode selects how much of a product is rendered.
type Mode int

const (
	// Detail renders prices, transport with flight legs, and every day's
	// content, local transport, hotels, scenic spots and stores.
	Detail Mode = iota
	// Abstract renders transport modes and each day's content and scenic
	// spot names only.
	Abstract
)

func (m Mode) String() string {
	if m == Abstract {
		return "abstract"
	}
	return "detail"
}

// Projector renders product details. It holds no per-call state and is safe
// for concurrent use.
type Projector struct {
	mode Mode
	log  *zap.Logger
}

// New returns a Projector for mode. A nil logger discards output.
func New(mode Mode, log *zap.Logger) *Projector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Projector{mode: mode, log: log}
}

// Mode returns the projection mode.
func (p *Projector) Mode() Mode { return p.mode }

// Unavailable is the text returned for a product whose detail could not be
// read.
func Unavailable(productNum string) string {
	return fmt.Sprintf("产品 %s 详情获取失败", productNum)
}

// Project renders d. It never fails: an unreadable detail yields
// Unavailable(productNum) and a line without trips yields "".
func (p *Projector) Project(d types.ProductDetail) string {
	text, _ := p.Render(d)
	return text
}

// Render is Project that also reports whether the text is a real projection
// (true) or a sentinel or empty string (false).
func (p *Projector) Render(d types.ProductDetail) (string, bool) {
	num := productNum(d)
	line, ok := d.FirstLine()
	if !ok {
		return Unavailable(num), false
	}

	trips, ok := line.Field("trips")
	if !ok || trips.Kind() != jsonpath.Array || trips.Len() == 0 {
		return "", false
	}

	out := []string{"产品编号：" + num}

	transport := transportModeRules
	heading := "=== 往返交通信息 ==="
	days := abstractTripRules
	if p.mode == Detail {
		transport = transportRules
		heading = "=== 往返航班信息 ==="
		days = tripRules
		if cal, ok := firstCalendar(line); ok {
			out = append(out, apply(cal, priceRules)...)
		}
	}

	out = append(out, heading)
	out = append(out, apply(line, transport)...)

	out = append(out, "\n=== 每日行程信息 ===")
	for i, trip := range trips.Items() {
		block, err := p.day(i, trip, days)
		if err != nil {
			p.log.Warn("skipping itinerary day",
				zap.String("product_num", num),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		out = append(out, block...)
	}

	return strings.Join(out, "\n"), true
}

// day renders one trip. A structurally unexpected trip is reported as an
// error so the caller can drop it and move on.
func (p *Projector) day(i int, trip jsonpath.Value, rules []jsonpath.Rule) (lines []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			lines, err = nil, fmt.Errorf("rendering day %d: %v", i+1, r)
		}
	}()

	if trip.Kind() != jsonpath.Object {
		return nil, fmt.Errorf("day %d is %s, not an object", i+1, trip.Kind())
	}

	n := strings.TrimPrefix(dayNumberRule.Apply(trip), jsonpath.Empty(dayNumberRule.Label))
	if n == "" {
		n = fmt.Sprintf("%d", i+1)
	}

	lines = append(lines, fmt.Sprintf("\n【第 %s 天】", n))
	lines = append(lines, apply(trip, rules)...)
	return lines, nil
}

// apply evaluates rules against record and drops lines with no value.
func apply(record jsonpath.Value, rules []jsonpath.Rule) []string {
	var out []string
	for _, r := range rules {
		line := r.Apply(record)
		if jsonpath.IsEmpty(line, r.Label) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func firstCalendar(line jsonpath.Value) (jsonpath.Value, bool) {
	cals, ok := line.Field("calList")
	if !ok {
		return jsonpath.Value{}, false
	}
	cal, ok := cals.Index(0)
	if !ok || cal.Kind() != jsonpath.Object {
		return jsonpath.Value{}, false
	}
	return cal, true
}

// productNum prefers the number the caller asked for and falls back to the
// one inside the document.
func productNum(d types.ProductDetail) string {
	if d.ProductNum != "" {
		return d.ProductNum
	}
	if v, ok := d.Doc.Field("productNum"); ok {
		if s, ok := v.Scalar(); ok {
			return s
		}
	}
	return ""
}
