// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the search facade as plain-text HTTP endpoints.
package server

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Searcher is the facade surface the server needs.
type Searcher interface {
	SearchByDestination(ctx context.Context, country, province, city string, page int) string
	SearchByPassThrough(ctx context.Context, country, province, city string, page int) string
	SearchCombinedAbstract(ctx context.Context, country, province, city string, page int) string
	SearchCombinedDetail(ctx context.Context, country, province, city string, page int) string
	GetProductFeatures(ctx context.Context, productNum string) string
	SearchProductNums(ctx context.Context, nums []string) string
}

type pageSearch func(ctx context.Context, country, province, city string, page int) string

// New returns a fiber app with all routes registered. A nil logger discards
// access logs.
func New(s Searcher, log *zap.Logger) *fiber.App {
	if log == nil {
		log = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               "travel-search",
		DisableStartupMessage: true,
	})
	app.Use(accessLog(log))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	v1 := app.Group("/v1/products")
	{
		v1.Get("/destination", pageHandler(s.SearchByDestination))
		v1.Get("/pass-through", pageHandler(s.SearchByPassThrough))
		v1.Get("/abstract", pageHandler(s.SearchCombinedAbstract))
		v1.Get("/detail", pageHandler(s.SearchCombinedDetail))

		// Static route before the parameterized one.
		v1.Get("/features", func(c *fiber.Ctx) error {
			nums := productNums(c)
			if len(nums) == 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "num parameter is required"})
			}
			return c.SendString(s.SearchProductNums(c.UserContext(), nums))
		})
		v1.Get("/:productNum/features", func(c *fiber.Ctx) error {
			return c.SendString(s.GetProductFeatures(c.UserContext(), c.Params("productNum")))
		})
	}
	return app
}

func pageHandler(search pageSearch) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		if page <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid page parameter"})
		}
		text := search(c.UserContext(),
			cleanQueryParam(c.Query("country")),
			cleanQueryParam(c.Query("province")),
			cleanQueryParam(c.Query("city")),
			page)
		return c.SendString(text)
	}
}

// productNums accepts repeated num parameters and comma-separated lists.
func productNums(c *fiber.Ctx) []string {
	var nums []string
	for _, raw := range c.Context().QueryArgs().PeekMulti("num") {
		for _, n := range strings.Split(string(raw), ",") {
			if n = cleanQueryParam(n); n != "" {
				nums = append(nums, n)
			}
		}
	}
	return nums
}

func cleanQueryParam(param string) string {
	param = strings.TrimSpace(param)
	if param == "" || strings.ToLower(param) == "null" {
		return ""
	}
	return param
}

func accessLog(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("elapsed", time.Since(start)))
		return err
	}
}
