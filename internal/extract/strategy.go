// Package extract turns raw provider responses into nightly-rate observations.
//
// Extraction is a fallback chain: the deterministic Pattern strategy runs
// first and the delegated LLM strategy only sees responses Pattern could not
// price. A strategy that fails for any reason simply yields nothing.
package extract

import (
	"context"
	"log/slog"

	"github.com/shanehull/ratescout/internal/model"
)

type Strategy interface {
	Name() string
	// Extract reports false when the strategy found nothing usable.
	Extract(ctx context.Context, raw model.RawResult) (model.Observation, bool)
}

type Chain struct {
	strategies []Strategy
	logger     *slog.Logger
}

func NewChain(logger *slog.Logger, strategies ...Strategy) *Chain {
	var kept []Strategy
	for _, s := range strategies {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Chain{strategies: kept, logger: logger}
}

// New builds the standard chain. A nil completer leaves Pattern as the only
// strategy.
func New(completer Completer, maxPromptBytes int, logger *slog.Logger) *Chain {
	strategies := []Strategy{Pattern{}}
	if completer != nil {
		strategies = append(strategies, NewDelegated(completer, maxPromptBytes, logger))
	}
	return NewChain(logger, strategies...)
}

func (c *Chain) Strategies() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Extract runs each strategy over every result before moving on to the next
// strategy, so the model is only asked when no result could be priced
// deterministically. Prices found by one strategy are merged into their span.
// Results without content are skipped.
func (c *Chain) Extract(ctx context.Context, raws ...model.RawResult) model.Observation {
	var usable []model.RawResult
	for _, raw := range raws {
		if raw.HasContent() {
			usable = append(usable, raw)
		}
	}
	if len(usable) == 0 {
		return model.Unavailable
	}

	for _, s := range c.strategies {
		found := model.Unavailable
		for _, raw := range usable {
			obs, ok := s.Extract(ctx, raw)
			if !ok || !obs.Available() {
				continue
			}
			c.logger.Debug("Rate extracted", "strategy", s.Name(), "provider", raw.Provider, "rate", obs.String())
			found = found.Merge(obs)
		}
		if found.Available() {
			return found
		}
	}
	return model.Unavailable
}
