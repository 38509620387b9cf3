package reporting

import (
	"context"
	"time"

	"github.com/vfg2006/crm-pipeline-api/internal/domain"
	"github.com/vfg2006/crm-pipeline-api/pkg/cache"
)

// StatsSource busca os agregados do painel no webhook
type StatsSource interface {
	FetchStats(ctx context.Context) (*domain.DashboardStats, error)
}

type StatsService interface {
	GetStats(ctx context.Context, forceRefresh bool) *domain.StatsResponse
}

type Service struct {
	source  StatsSource
	fetcher *cache.Fetcher[domain.DashboardStats]
	now     func() time.Time
}

func NewService(backend cache.Backend, ttl time.Duration, source StatsSource) *Service {
	s := &Service{
		source: source,
		now:    time.Now,
	}
	s.fetcher = cache.NewFetcher[domain.DashboardStats](backend, cache.KeyStats, ttl, s.fetch)
	return s
}

// GetStats devolve os agregados do cache; em falha de atualização mantém o
// último valor conhecido e informa o erro
func (s *Service) GetStats(ctx context.Context, forceRefresh bool) *domain.StatsResponse {
	result := s.fetcher.Get(ctx, forceRefresh)

	response := &domain.StatsResponse{
		Stale:     result.Stale,
		IsLoading: result.Loading,
	}
	if result.HasValue {
		stats := result.Value
		response.Stats = &stats
	}
	if result.Err != nil {
		response.Error = result.Err.Error()
	}
	return response
}

// fetch carimba LastUpdate no momento do recebimento
func (s *Service) fetch(ctx context.Context) (domain.DashboardStats, error) {
	stats, err := s.source.FetchStats(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}

	out := *stats
	out.LastUpdate = s.now()
	return out, nil
}
