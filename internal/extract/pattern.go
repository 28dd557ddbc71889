package extract

import (
	"context"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/shanehull/ratescout/internal/model"
	"github.com/tidwall/gjson"
)

// Only "$" amounts are recognised; there is no currency-code or locale handling.
var (
	snippetAmount = regexp.MustCompile(`\$\d[\d,]*`)
	leadingAmount = regexp.MustCompile(`^\$\d[\d,]*`)
)

// Pattern reads prices from the structured parts of a response: listing price
// fields, dollar amounts in snippets, knowledge-graph offers and metasearch
// offers. It reports the full span of what it found.
type Pattern struct{}

func (Pattern) Name() string { return "pattern" }

func (p Pattern) Extract(_ context.Context, raw model.RawResult) (model.Observation, bool) {
	amounts := p.Amounts(raw)
	if len(amounts) == 0 {
		return model.Unavailable, false
	}
	return model.Range(slices.Min(amounts), slices.Max(amounts)), true
}

func (Pattern) Amounts(raw model.RawResult) []int {
	var amounts []int
	add := func(n int, ok bool) {
		if ok {
			amounts = append(amounts, n)
		}
	}

	for _, h := range items(raw.Get("hotel_results")) {
		add(fieldAmount(h.Get("price")))
	}
	for _, p := range items(raw.Get("properties")) {
		add(fieldAmount(p.Get("rate_per_night.lowest")))
	}
	for _, o := range items(raw.Get("organic_results")) {
		for _, m := range snippetAmount.FindAllString(o.Get("snippet").String(), -1) {
			add(parseAmount(m))
		}
	}
	for _, offer := range items(raw.Get("knowledge_graph.pricing.offers")) {
		add(fieldAmount(offer.Get("price")))
	}
	for _, offer := range items(raw.Get("offers")) {
		add(offerAmount(offer.Get("price")))
	}
	return amounts
}

func items(r gjson.Result) []gjson.Result {
	if !r.IsArray() {
		return nil
	}
	return r.Array()
}

// fieldAmount accepts string fields that start with "$", e.g. "$1,249 total".
func fieldAmount(r gjson.Result) (int, bool) {
	if r.Type != gjson.String {
		return 0, false
	}
	m := leadingAmount.FindString(strings.TrimSpace(r.String()))
	if m == "" {
		return 0, false
	}
	return parseAmount(m)
}

func parseAmount(s string) (int, bool) {
	digits := strings.NewReplacer("$", "", ",", "").Replace(s)
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// offerAmount reads a metasearch price object such as
// {"total": 131.5, "currency": "USD"}, falling back to "current".
func offerAmount(price gjson.Result) (int, bool) {
	if cur := price.Get("currency").String(); cur != "" && !strings.EqualFold(cur, "USD") {
		return 0, false
	}
	for _, key := range []string{"total", "current"} {
		v := price.Get(key)
		switch v.Type {
		case gjson.Number:
			if f := v.Float(); f > 0 && f < math.MaxInt32 {
				return int(math.Round(f)), true
			}
		case gjson.String:
			if n, ok := fieldAmount(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}
