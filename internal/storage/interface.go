package storage

import (
	"context"

	"github.com/shanehull/ratescout/internal/model"
)

type Repository interface {
	Init(ctx context.Context) error
	LoadReport(ctx context.Context, report *model.RateReport) (int, error)
	ExportCSV(ctx context.Context, path string, f ExportFilter) error
	Count(ctx context.Context, f ExportFilter) (int, error)
	Close() error
}

var _ Repository = (*DuckDBRepo)(nil)
