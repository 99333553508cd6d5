package ports

import (
	"context"

	"github.com/civicstats/identity-api/internal/core/domain"
)

// RefDataRepository reads reference datasets from the system of record.
type RefDataRepository interface {
	// ListInfo returns one page of published articles plus the total row count.
	ListInfo(ctx context.Context, pageNumber, pageSize int) ([]*domain.Info, int64, error)
	// GdpRange returns observations for years in [yearStart, yearEnd],
	// sorted ascending by year.
	GdpRange(ctx context.Context, yearStart, yearEnd int) ([]*domain.Gdp, error)
}

// RefDataService serves reference datasets through the query-result cache.
type RefDataService interface {
	Info(ctx context.Context, pageNumber, pageSize int) (*domain.PagedInfo, error)
	Gdp(ctx context.Context, yearStart, yearEnd int) ([]*domain.Gdp, error)
}
