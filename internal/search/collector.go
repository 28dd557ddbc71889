package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
)

var (
	ErrAuth      = errors.New("missing or rejected credentials")
	ErrTransport = errors.New("provider request failed")
)

const defaultUserAgent = "ratescout/1.0 (+https://github.com/shanehull/ratescout)"

type Options struct {
	BaseURL   string        // Overrides the provider endpoint
	Pause     time.Duration // Fixed delay after every request
	Timeout   time.Duration
	UserAgent string
}

func newCollector(opts Options) *colly.Collector {
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.UserAgent(ua),
	)
	if opts.Timeout > 0 {
		c.SetRequestTimeout(opts.Timeout)
	}
	if opts.Pause > 0 {
		// One request at a time, Pause apart.
		c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 1, Delay: opts.Pause})
	}
	return c
}

// fetch issues one GET and returns the body of a 2xx response. The clone
// shares the parent's HTTP backend, so the limit rule spans every call.
func fetch(ctx context.Context, parent *colly.Collector, provider, rawURL string, hdr http.Header) ([]byte, error) {
	c := parent.Clone()
	c.Context = ctx

	var body []byte
	status := 0
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	if err := c.Request(http.MethodGet, rawURL, nil, nil, hdr); err != nil {
		return nil, classify(provider, status, err)
	}
	return body, nil
}

func classify(provider string, status int, err error) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%s: %w (HTTP %d)", provider, ErrAuth, status)
	case status == 0:
		// The request URL carries the API key, so only the cause is kept.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("%s: %w: %w", provider, ErrTransport, err)
	default:
		return fmt.Errorf("%s: %w (HTTP %d)", provider, ErrTransport, status)
	}
}
