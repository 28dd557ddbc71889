package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gocolly/colly/v2"
	"github.com/shanehull/ratescout/internal/model"
	"github.com/shanehull/ratescout/internal/query"
)

const serpAPIURL = "https://serpapi.com/search"

type SerpAPIClient struct {
	key       string
	baseURL   string
	engine    string
	collector *colly.Collector
	logger    *slog.Logger
}

func NewSerpAPIClient(key, engine string, opts Options, logger *slog.Logger) (*SerpAPIClient, error) {
	if key == "" {
		return nil, fmt.Errorf("serpapi: %w: SERPAPI_KEY not set", ErrAuth)
	}
	if engine == "" {
		engine = "google"
	}
	base := opts.BaseURL
	if base == "" {
		base = serpAPIURL
	}
	return &SerpAPIClient{
		key:       key,
		baseURL:   base,
		engine:    engine,
		collector: newCollector(opts),
		logger:    logger,
	}, nil
}

func (c *SerpAPIClient) Name() string { return "serpapi" }

func (c *SerpAPIClient) Search(ctx context.Context, q model.HotelQuery) (model.RawResult, error) {
	params := query.SerpParams(q, c.engine)
	params.Set("api_key", c.key)

	body, err := fetch(ctx, c.collector, c.Name(), c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return model.RawResult{}, err
	}
	c.logger.Debug("SerpApi search", "engine", c.engine, "q", params.Get("q"), "bytes", len(body))
	return model.RawResult{Provider: c.Name(), Body: body}, nil
}
