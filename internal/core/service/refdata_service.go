package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicstats/identity-api/internal/api/metrics"
	"github.com/civicstats/identity-api/internal/core/cache"
	"github.com/civicstats/identity-api/internal/core/domain"
	"github.com/civicstats/identity-api/internal/core/ports"
)

// TTL policy per dataset: info rows change often, GDP observations are
// revised rarely.
const (
	infoCacheTTL = 10 * time.Minute
	gdpCacheTTL  = 24 * time.Hour

	defaultPageNumber = 1
	defaultPageSize   = 10
)

// RefDataService serves the public reference datasets through the
// query-result cache, recomputing from Mongo only on miss.
type RefDataService struct {
	repo   ports.RefDataRepository
	store  cache.Store
	writer cache.Writer
	log    zerolog.Logger
}

func NewRefDataService(repo ports.RefDataRepository, store cache.Store, writer cache.Writer, log zerolog.Logger) *RefDataService {
	return &RefDataService{repo: repo, store: store, writer: writer, log: log}
}

// Info returns one page of published articles with pagination metadata.
// Out-of-range paging inputs fall back to page 1, size 10.
func (s *RefDataService) Info(ctx context.Context, pageNumber, pageSize int) (*domain.PagedInfo, error) {
	if pageNumber < 1 {
		pageNumber = defaultPageNumber
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	key := cache.Key("info", pageNumber, pageSize)
	page, hit, err := cache.Lookup(ctx, s.store, s.writer, key, infoCacheTTL, func(ctx context.Context) (*domain.PagedInfo, error) {
		rows, total, err := s.repo.ListInfo(ctx, pageNumber, pageSize)
		if err != nil {
			return nil, err
		}
		size := int64(pageSize)
		return &domain.PagedInfo{
			PageNumber: pageNumber,
			PageSize:   pageSize,
			TotalCount: total,
			TotalPage:  (total + size - 1) / size,
			Data:       rows,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.observe("info", key, hit)
	return page, nil
}

// Gdp returns observations for years in [yearStart, yearEnd].
func (s *RefDataService) Gdp(ctx context.Context, yearStart, yearEnd int) ([]*domain.Gdp, error) {
	key := cache.Key("gdp", yearStart, yearEnd)
	rows, hit, err := cache.Lookup(ctx, s.store, s.writer, key, gdpCacheTTL, func(ctx context.Context) ([]*domain.Gdp, error) {
		return s.repo.GdpRange(ctx, yearStart, yearEnd)
	})
	if err != nil {
		return nil, err
	}

	s.observe("gdp", key, hit)
	return rows, nil
}

func (s *RefDataService) observe(dataset, key string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	metrics.CacheLookupsTotal.WithLabelValues(dataset, result).Inc()
	if !hit {
		s.log.Debug().Str("key", key).Msg("query cache miss")
	}
}
