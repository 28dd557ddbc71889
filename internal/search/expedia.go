package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gocolly/colly/v2"
	"github.com/shanehull/ratescout/internal/model"
	"github.com/shanehull/ratescout/internal/query"
	"github.com/tidwall/gjson"
)

const DefaultExpediaHost = "expedia1.p.rapidapi.com"

// ExpediaClient prices a hotel through the RapidAPI Expedia endpoints: a
// location search to find the property id, then a detail lookup for the dates.
type ExpediaClient struct {
	key       string
	host      string
	baseURL   string
	collector *colly.Collector
	logger    *slog.Logger
}

func NewExpediaClient(key, host string, opts Options, logger *slog.Logger) (*ExpediaClient, error) {
	if key == "" {
		return nil, fmt.Errorf("expedia: %w: RAPIDAPI_KEY not set", ErrAuth)
	}
	if host == "" {
		host = DefaultExpediaHost
	}
	base := opts.BaseURL
	if base == "" {
		base = "https://" + host
	}
	return &ExpediaClient{
		key:       key,
		host:      host,
		baseURL:   base,
		collector: newCollector(opts),
		logger:    logger,
	}, nil
}

func (c *ExpediaClient) Name() string { return "expedia" }

func (c *ExpediaClient) Search(ctx context.Context, q model.HotelQuery) (model.RawResult, error) {
	hdr := http.Header{}
	hdr.Set("X-RapidAPI-Host", c.host)
	hdr.Set("X-RapidAPI-Key", c.key)

	loc, err := fetch(ctx, c.collector, c.Name(), c.baseURL+"/locations/search?"+query.LocationParams(q).Encode(), hdr)
	if err != nil {
		return model.RawResult{}, err
	}

	hotelID := gjson.GetBytes(loc, "results.0.id").String()
	if hotelID == "" {
		c.logger.Debug("No Expedia location match", "hotel", q.Hotel.Name)
		return model.RawResult{Provider: c.Name(), Body: []byte("{}")}, nil
	}

	details, err := fetch(ctx, c.collector, c.Name(), c.baseURL+"/hotels/get-details?"+query.DetailParams(q, hotelID).Encode(), hdr)
	if err != nil {
		return model.RawResult{}, err
	}
	c.logger.Debug("Expedia details", "hotel", q.Hotel.Name, "id", hotelID, "bytes", len(details))
	return model.RawResult{Provider: c.Name(), Body: details}, nil
}
