// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search is the entry point for product queries. Every method takes
// place names and a page number and returns the text consumed by the tool
// layer; no method returns an error or lets a panic escape.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/travel-search/internal/feature"
	"github.com/pdiddy/travel-search/internal/geo"
	"github.com/pdiddy/travel-search/internal/paginate"
	"github.com/pdiddy/travel-search/pkg/types"
)

// MsgInternal replaces the result of a call that failed unexpectedly.
const MsgInternal = "查询失败，请稍后重试"

// Facade composes name resolution, fetching, pagination and projection.
// It is safe for concurrent use; calls share no mutable state.
type Facade struct {
	fetch    paginate.Fetcher
	geo      *geo.Resolver
	detail   *feature.Projector
	abstract *feature.Projector
	cfg      types.SearchConfig
	log      *zap.Logger
}

// New returns a Facade. A nil logger discards output.
func New(f paginate.Fetcher, g *geo.Resolver, cfg types.SearchConfig, log *zap.Logger) *Facade {
	if log == nil {
		log = zap.NewNop()
	}
	return &Facade{
		fetch:    f,
		geo:      g,
		detail:   feature.New(feature.Detail, log),
		abstract: feature.New(feature.Abstract, log),
		cfg:      cfg.Normalized(),
		log:      log,
	}
}

// SearchByDestination pages through products whose destination matches.
func (s *Facade) SearchByDestination(ctx context.Context, country, province, city string, page int) string {
	return s.single(ctx, "search_by_destination", types.Destination, country, province, city, page)
}

// SearchByPassThrough pages through products whose itinerary passes through
// the place.
func (s *Facade) SearchByPassThrough(ctx context.Context, country, province, city string, page int) string {
	return s.single(ctx, "search_by_pass_through", types.PassThrough, country, province, city, page)
}

// SearchCombinedAbstract pages through destination then pass-through
// products, rendering itinerary content only.
func (s *Facade) SearchCombinedAbstract(ctx context.Context, country, province, city string, page int) string {
	return s.combined(ctx, "search_combined_abstract", s.abstract, country, province, city, page)
}

// SearchCombinedDetail is SearchCombinedAbstract with the full projection.
func (s *Facade) SearchCombinedDetail(ctx context.Context, country, province, city string, page int) string {
	return s.combined(ctx, "search_combined_detail", s.detail, country, province, city, page)
}

// GetProductFeatures renders one product in full.
func (s *Facade) GetProductFeatures(ctx context.Context, productNum string) string {
	return s.run(ctx, "get_product_features", func(ctx context.Context, log *zap.Logger) string {
		log.Info("fetching product", zap.String("product_num", productNum))
		return s.features(ctx, productNum)
	})
}

// SearchProductNums renders each product in nums, in order, separated by
// blank lines. Details are fetched with the configured fan-out.
func (s *Facade) SearchProductNums(ctx context.Context, nums []string) string {
	return s.run(ctx, "search_product_nums", func(ctx context.Context, log *zap.Logger) string {
		log.Info("fetching products", zap.Strings("product_nums", nums))
		if len(nums) == 0 {
			return "未提供产品编号"
		}

		slots := make([]string, len(nums))
		var g errgroup.Group
		g.SetLimit(s.cfg.FanOut)
		for i, num := range nums {
			g.Go(func() error {
				slots[i] = s.features(ctx, num)
				return nil
			})
		}
		_ = g.Wait()
		return strings.Join(slots, "\n\n")
	})
}

func (s *Facade) features(ctx context.Context, productNum string) string {
	d := s.fetch.FetchDetail(ctx, productNum)
	if d.IsEmpty() {
		return feature.Unavailable(productNum)
	}
	text := s.detail.Project(d)
	if text == "" {
		return fmt.Sprintf("产品 %s 暂无行程信息", productNum)
	}
	return text
}

func (s *Facade) single(ctx context.Context, op string, source types.SourceID, country, province, city string, page int) string {
	return s.run(ctx, op, func(ctx context.Context, log *zap.Logger) string {
		filter := s.resolve(log, country, province, city)
		p := paginate.New(s.fetch, s.detail, s.cfg, log)
		return p.ResolveSingle(ctx, source, filter, page).String()
	})
}

func (s *Facade) combined(ctx context.Context, op string, r paginate.Renderer, country, province, city string, page int) string {
	return s.run(ctx, op, func(ctx context.Context, log *zap.Logger) string {
		filter := s.resolve(log, country, province, city)
		p := paginate.New(s.fetch, r, s.cfg, log)
		return p.Resolve(ctx, filter, page).String()
	})
}

func (s *Facade) resolve(log *zap.Logger, country, province, city string) types.Filter {
	f := s.geo.Resolve(country, province, city)
	log.Info("resolved filter",
		zap.String("country", country),
		zap.String("province", province),
		zap.String("city", city),
		zap.Any("filter", f))
	return f
}

// run tags the call with a request id and converts a panic into MsgInternal.
func (s *Facade) run(ctx context.Context, op string, fn func(context.Context, *zap.Logger) string) (out string) {
	log := s.log.With(zap.String("op", op), zap.String("request_id", uuid.NewString()))
	defer func() {
		if r := recover(); r != nil {
			log.Error("search panicked", zap.Any("panic", r), zap.Stack("stack"))
			out = MsgInternal
		}
	}()
	out = fn(ctx, log)
	log.Debug("search finished", zap.Int("bytes", len(out)))
	return out
}
