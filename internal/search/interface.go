package search

import (
	"context"

	"github.com/shanehull/ratescout/internal/model"
)

type Searcher interface {
	Name() string
	Search(ctx context.Context, q model.HotelQuery) (model.RawResult, error)
}
