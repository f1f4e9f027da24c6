// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package upstream fetches product listing pages and product details from
// the travel product API.
//
// The API is treated as unreliable. Transport errors, non-2xx statuses,
// malformed bodies and a missing "data" key all degrade to an empty page or
// an empty detail, so callers cannot tell "upstream is down" from "no
// matches". Failures are logged, never returned.
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/travel-search/internal/httputil"
	"github.com/pdiddy/travel-search/pkg/jsonpath"
	"github.com/pdiddy/travel-search/pkg/types"
)

const (
	pagePath   = "/page"
	detailPath = "/productInfo"

	// maxBodyBytes bounds how much of a response body is read.
	maxBodyBytes = 8 << 20
)

// Client talks to one upstream base URL. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	cfg     types.UpstreamConfig
	limiter *rate.Limiter
	log     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger; the default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient builds a Client for cfg. Zero settings take defaults.
func NewClient(cfg types.UpstreamConfig, opts ...Option) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = types.DefaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = types.DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = types.DefaultUserAgent
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		limiter: httputil.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPage fetches one page of summaries from source. On any failure it
// returns a window with TotalPages 0 and no records.
func (c *Client) FetchPage(ctx context.Context, source types.SourceID, filter types.Filter, page int) types.PageWindow {
	win := types.PageWindow{Source: source, Page: page, PageSize: c.cfg.PageSize}

	params := filter.Params(source)
	params.Set("current", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(c.cfg.PageSize))

	body, err := c.get(ctx, pagePath, params)
	if err != nil {
		c.log.Error("fetching product page failed",
			zap.Stringer("source", source),
			zap.Int("page", page),
			zap.String("params", params.Encode()),
			zap.Error(err))
		return win
	}

	total, records, err := parsePage(body)
	if err != nil {
		c.log.Error("parsing product page failed",
			zap.Stringer("source", source),
			zap.Int("page", page),
			zap.Error(err))
		return win
	}

	win.TotalPages = total
	win.Records = records
	c.log.Debug("fetched product page",
		zap.Stringer("source", source),
		zap.Int("page", page),
		zap.Int("total_pages", total),
		zap.Int("records", len(records)))
	return win
}

// FetchDetail fetches the full document for productNum. On any failure it
// returns a detail whose IsEmpty reports true.
func (c *Client) FetchDetail(ctx context.Context, productNum string) types.ProductDetail {
	detail := types.ProductDetail{ProductNum: productNum}
	if productNum == "" {
		return detail
	}

	body, err := c.get(ctx, detailPath, url.Values{"productNum": {productNum}})
	if err != nil {
		c.log.Error("fetching product detail failed", zap.String("product_num", productNum), zap.Error(err))
		return detail
	}

	doc, err := parseDetail(body)
	if err != nil {
		c.log.Error("parsing product detail failed", zap.String("product_num", productNum), zap.Error(err))
		return detail
	}
	detail.Doc = doc
	return detail
}

// get issues one rate-limited GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if c.cfg.BaseURL == "" {
		return nil, fmt.Errorf("upstream base URL is not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	reqURL := c.cfg.BaseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("GET %s returned HTTP %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

// parsePage reads {"data": {"pages": n, "records": [...]}}. pages may be a
// number or a numeric string.
func parsePage(body []byte) (int, []types.ProductSummary, error) {
	data, err := envelope(body)
	if err != nil {
		return 0, nil, err
	}

	total := int(data.Get("pages").Int())
	if total < 0 {
		total = 0
	}

	var records []types.ProductSummary
	for _, r := range data.Get("records").Array() {
		rest, err := jsonpath.Decode([]byte(r.Raw))
		if err != nil {
			continue
		}
		records = append(records, types.ProductSummary{
			ProductNum: r.Get("productNum").String(),
			Rest:       rest,
		})
	}
	return total, records, nil
}

// parseDetail reads {"data": {...}} and decodes the data object.
func parseDetail(body []byte) (jsonpath.Value, error) {
	data, err := envelope(body)
	if err != nil {
		return jsonpath.Value{}, err
	}
	if !data.IsObject() {
		return jsonpath.Value{}, fmt.Errorf("data is %s, not an object", data.Type)
	}
	return jsonpath.Decode([]byte(data.Raw))
}

func envelope(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("malformed JSON body")
	}
	data := gjson.GetBytes(body, "data")
	if !data.Exists() || data.Type == gjson.Null {
		return gjson.Result{}, fmt.Errorf("response has no data")
	}
	return data, nil
}
