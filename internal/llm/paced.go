package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Paced spaces consecutive completions by a fixed interval.
type Paced struct {
	next    Client
	limiter *rate.Limiter
}

func NewPaced(next Client, every time.Duration) *Paced {
	limit := rate.Inf
	if every > 0 {
		limit = rate.Every(every)
	}
	return &Paced{next: next, limiter: rate.NewLimiter(limit, 1)}
}

func (p *Paced) Complete(ctx context.Context, prompt string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return p.next.Complete(ctx, prompt)
}

func (p *Paced) Close() error { return p.next.Close() }
