// Package pipeline prices every (check-in date, hotel) pair in turn and
// collects the results into a report.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shanehull/ratescout/internal/model"
	"github.com/shanehull/ratescout/internal/query"
	"github.com/shanehull/ratescout/internal/search"
)

// Extractor prices one pair from all of its provider responses.
type Extractor interface {
	Extract(ctx context.Context, raws ...model.RawResult) model.Observation
}

type SnapshotStore interface {
	Write(raw model.RawResult, hotel string, label model.Label) (string, error)
}

type Stats struct {
	Pairs, Priced, Unavailable, SearchErrors, SnapshotErrors int
}

func (s *Stats) incr(field string, n int) {
	switch field {
	case "Pairs":
		s.Pairs += n
	case "Priced":
		s.Priced += n
	case "Unavailable":
		s.Unavailable += n
	case "SearchErrors":
		s.SearchErrors += n
	case "SnapshotErrors":
		s.SnapshotErrors += n
	}
}

type Options struct {
	Hotels    []model.Hotel
	Place     model.Place
	Searchers []search.Searcher
	Extractor Extractor
	Snapshots SnapshotStore // nil disables debug snapshots
}

// Runner is strictly sequential: one pair is searched, snapshotted, extracted
// and recorded before the next starts. Provider pacing lives in the clients.
type Runner struct {
	opts   Options
	logger *slog.Logger
}

func NewRunner(opts Options, logger *slog.Logger) *Runner {
	return &Runner{opts: opts, logger: logger}
}

// Run returns the report built so far even when it stops early. The only
// errors are a rejected credential and context cancellation; everything else
// degrades the affected pair to N/A.
func (r *Runner) Run(ctx context.Context, generated time.Time, checkins []model.CheckinDate) (*model.RateReport, Stats, error) {
	report := model.NewRateReport(generated, checkins)
	var s Stats

	for _, c := range checkins {
		r.logger.Info("Pricing check-in date", "label", c.Label, "date", c.String())
		for _, hotel := range r.opts.Hotels {
			if err := ctx.Err(); err != nil {
				return report, s, err
			}
			obs, err := r.price(ctx, c, hotel, &s)
			if err != nil {
				return report, s, err
			}

			report.Set(c.Label, hotel.Name, obs)
			s.incr("Pairs", 1)
			if obs.Available() {
				s.incr("Priced", 1)
			} else {
				s.incr("Unavailable", 1)
			}
			r.logger.Info("Rate", "label", c.Label, "hotel", hotel.Name, "rate", obs.String())
		}
	}
	return report, s, nil
}

func (r *Runner) price(ctx context.Context, c model.CheckinDate, hotel model.Hotel, s *Stats) (model.Observation, error) {
	q, err := query.Build(hotel, r.opts.Place, c.Date)
	if err != nil {
		r.logger.Warn("Skipping pair", "label", c.Label, "hotel", hotel.Name, "err", err)
		return model.Unavailable, nil
	}

	var raws []model.RawResult
	for _, src := range r.opts.Searchers {
		log := r.logger.With("provider", src.Name(), "hotel", hotel.Name, "label", c.Label)

		raw, err := src.Search(ctx, q)
		if err != nil {
			if errors.Is(err, search.ErrAuth) {
				return model.Unavailable, err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return model.Unavailable, ctxErr
			}
			s.incr("SearchErrors", 1)
			log.Error("Search failed", "err", err)
			continue
		}

		if r.opts.Snapshots != nil {
			if path, err := r.opts.Snapshots.Write(raw, hotel.Name, c.Label); err != nil {
				s.incr("SnapshotErrors", 1)
				log.Warn("Snapshot write failed", "err", err)
			} else {
				log.Debug("Snapshot written", "path", path)
			}
		}
		raws = append(raws, raw)
	}
	return r.opts.Extractor.Extract(ctx, raws...), nil
}
