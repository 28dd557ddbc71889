package extract

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shanehull/ratescout/internal/model"
	"github.com/tidwall/gjson"
)

// Digits only: no sign, no leading zero.
var bareInteger = regexp.MustCompile(`^[1-9][0-9]*$`)

// Sentinel is the reply that means "no price in this text".
const Sentinel = model.NotAvailable

const DefaultMaxPromptBytes = 12000

const promptTemplate = `You are a hotel pricing assistant. From the search result below, extract the lowest nightly room rate in USD.
Reply with the number only: no currency symbol, no words, no decimals. If no rate is present, reply with exactly %s.

Search result:
%s
`

// Keys worth sending when a response is too large to send whole.
var promptKeys = []string{
	"hotel_results",
	"properties",
	"knowledge_graph",
	"answer_box",
	"organic_results",
	"local_results",
	"offers",
}

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Delegated asks a language model for the price. It is only ever a fallback.
type Delegated struct {
	completer Completer
	maxBytes  int
	logger    *slog.Logger
}

func NewDelegated(completer Completer, maxPromptBytes int, logger *slog.Logger) *Delegated {
	if maxPromptBytes <= 0 {
		maxPromptBytes = DefaultMaxPromptBytes
	}
	return &Delegated{completer: completer, maxBytes: maxPromptBytes, logger: logger}
}

func (d *Delegated) Name() string { return "delegated" }

func (d *Delegated) Extract(ctx context.Context, raw model.RawResult) (model.Observation, bool) {
	if !raw.HasContent() {
		return model.Unavailable, false
	}
	reply, err := d.completer.Complete(ctx, Prompt(raw, d.maxBytes))
	if err != nil {
		d.logger.Warn("Delegated extraction failed", "provider", raw.Provider, "err", err)
		return model.Unavailable, false
	}
	obs, ok := ParseReply(reply)
	if !ok {
		d.logger.Debug("Unusable extraction reply", "provider", raw.Provider, "reply", clip(reply, 80))
	}
	return obs, ok
}

// ParseReply accepts a bare positive integer. The sentinel and anything else
// ("approximately 142 dollars", "$142", "142.50") yield nothing.
func ParseReply(reply string) (model.Observation, bool) {
	s := strings.Trim(strings.TrimSpace(reply), "\"'`")
	if s == "" || strings.EqualFold(s, Sentinel) {
		return model.Unavailable, false
	}
	if !bareInteger.MatchString(s) {
		return model.Unavailable, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return model.Unavailable, false
	}
	return model.Price(n), true
}

func Prompt(raw model.RawResult, maxBytes int) string {
	return fmt.Sprintf(promptTemplate, Sentinel, trimPayload(raw, maxBytes))
}

// trimPayload keeps small responses whole. Larger ones are cut down to the
// keys that carry prices, then truncated.
func trimPayload(raw model.RawResult, maxBytes int) string {
	if len(raw.Body) <= maxBytes {
		return string(raw.Body)
	}
	if !raw.Valid() {
		return clip(string(raw.Body), maxBytes)
	}

	var b strings.Builder
	b.WriteByte('{')
	n := 0
	for _, key := range promptKeys {
		r := gjson.GetBytes(raw.Body, key)
		if !r.Exists() {
			continue
		}
		if n > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%q:%s", key, r.Raw)
		n++
	}
	b.WriteByte('}')
	return clip(b.String(), maxBytes)
}

// clip cuts s to at most n bytes without splitting a UTF-8 sequence.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
