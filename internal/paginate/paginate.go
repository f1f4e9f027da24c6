// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package paginate presents two independently paginated product indices as a
// single page space and renders a small sample of each page.
//
// Destination pages come first, pass-through pages follow. The pass-through
// page count is unknown until its first page is fetched, so resolution runs
// as a small state machine instead of precomputing a merged index. Nothing is
// cached across calls.
package paginate

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/travel-search/pkg/types"
)

// Narratives returned in place of product text.
const (
	MsgNeedFilter = "至少需要提供国家、省份或城市中的一个参数"
	MsgNoData     = "未获取到有效数据"
	MsgOutOfRange = "超过总页数范围"
	MsgNoValid    = "本页未找到有效产品信息，请查询其他页"
)

// Fetcher reads pages and product details. Implementations degrade failures
// to empty values rather than returning errors.
type Fetcher interface {
	FetchPage(ctx context.Context, source types.SourceID, filter types.Filter, page int) types.PageWindow
	FetchDetail(ctx context.Context, productNum string) types.ProductDetail
}

// Renderer turns a detail into a product block. ok is false when the text is
// empty or a failure sentinel.
type Renderer interface {
	Render(d types.ProductDetail) (text string, ok bool)
}

// Paginator resolves page requests. It holds no per-call state and is safe
// for concurrent use.
type Paginator struct {
	fetch  Fetcher
	render Renderer
	cfg    types.SearchConfig
	log    *zap.Logger
}

// New returns a Paginator. cfg is normalized; a nil logger discards output.
func New(f Fetcher, r Renderer, cfg types.SearchConfig, log *zap.Logger) *Paginator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Paginator{fetch: f, render: r, cfg: cfg.Normalized(), log: log}
}

type state int

const (
	resolvingPrimary state = iota
	resolvingSecondary
	done
)

// Resolve returns virtual page `page` across Destination then PassThrough.
func (p *Paginator) Resolve(ctx context.Context, filter types.Filter, page int) types.PageResult {
	if filter.IsEmpty() {
		return types.PageResult{CurrentPage: 1, Narrative: MsgNeedFilter}
	}
	if page < 1 {
		page = 1
	}

	var (
		st      = resolvingPrimary
		window  types.PageWindow
		primary int
		total   int
	)
	for st != done {
		switch st {
		case resolvingPrimary:
			first := p.fetch.FetchPage(ctx, types.Destination, filter, 1)
			primary = first.TotalPages
			if page > primary {
				st = resolvingSecondary
				continue
			}
			window = first
			if page != 1 {
				window = p.fetch.FetchPage(ctx, types.Destination, filter, page)
			}
			total = primary
			st = done

		case resolvingSecondary:
			local := page - primary
			window = p.fetch.FetchPage(ctx, types.PassThrough, filter, local)
			total = primary + window.TotalPages
			if total == 0 {
				return types.PageResult{CurrentPage: page, Narrative: MsgNoData}
			}
			if local > window.TotalPages {
				return types.PageResult{CurrentPage: page, TotalPages: total, Narrative: MsgOutOfRange}
			}
			st = done
		}
	}

	p.log.Debug("resolved page",
		zap.Int("page", page),
		zap.Stringer("source", window.Source),
		zap.Int("local_page", window.Page),
		zap.Int("total_pages", total),
		zap.Int("records", len(window.Records)))

	return types.PageResult{CurrentPage: page, TotalPages: total, Narrative: p.narrate(ctx, window.Records)}
}

// ResolveSingle returns page `page` of one index.
func (p *Paginator) ResolveSingle(ctx context.Context, source types.SourceID, filter types.Filter, page int) types.PageResult {
	if filter.IsEmpty() {
		return types.PageResult{CurrentPage: 1, Narrative: MsgNeedFilter}
	}
	if page < 1 {
		page = 1
	}

	window := p.fetch.FetchPage(ctx, source, filter, page)
	switch {
	case window.TotalPages == 0:
		return types.PageResult{CurrentPage: page, Narrative: MsgNoData}
	case page > window.TotalPages:
		return types.PageResult{CurrentPage: page, TotalPages: window.TotalPages, Narrative: MsgOutOfRange}
	}
	return types.PageResult{CurrentPage: page, TotalPages: window.TotalPages, Narrative: p.narrate(ctx, window.Records)}
}

func (p *Paginator) narrate(ctx context.Context, records []types.ProductSummary) string {
	blocks := p.Sample(ctx, records)
	if len(blocks) == 0 {
		return MsgNoValid
	}
	return "查询成功\n" + strings.Join(blocks, "\n\n")
}

// Sample renders records in order until SampleCap blocks are collected.
// Details are fetched FanOut at a time; blocks keep record order regardless
// of completion order. Records without a product number or without a
// renderable detail are skipped and do not count toward the cap. Once ctx is
// done no further batches start, and results that land afterwards are
// dropped.
func (p *Paginator) Sample(ctx context.Context, records []types.ProductSummary) []string {
	var out []string
	for start := 0; start < len(records) && len(out) < p.cfg.SampleCap; start += p.cfg.FanOut {
		if ctx.Err() != nil {
			p.log.Info("sampling stopped", zap.Error(ctx.Err()), zap.Int("collected", len(out)))
			break
		}
		end := min(start+p.cfg.FanOut, len(records))

		for _, block := range p.batch(ctx, records[start:end]) {
			if block == "" {
				continue
			}
			out = append(out, block)
			if len(out) == p.cfg.SampleCap {
				break
			}
		}
	}
	return out
}

// batch fetches and renders records concurrently into index-addressed slots.
// An empty slot means the record was skipped.
func (p *Paginator) batch(ctx context.Context, records []types.ProductSummary) []string {
	slots := make([]string, len(records))

	var g errgroup.Group
	g.SetLimit(p.cfg.FanOut)
	for i, rec := range records {
		if rec.ProductNum == "" {
			continue
		}
		g.Go(func() error {
			// In-flight fetches finish on their own timeout; the caller's
			// cancellation only decides whether the result is kept.
			d := p.fetch.FetchDetail(context.WithoutCancel(ctx), rec.ProductNum)
			if ctx.Err() != nil {
				return nil
			}
			text, ok := p.render.Render(d)
			if !ok {
				p.log.Debug("skipping product", zap.String("product_num", rec.ProductNum))
				return nil
			}
			slots[i] = text
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		return nil
	}
	return slots
}
