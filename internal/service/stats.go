package service

import (
	"context"
	"fmt"
	"time"

	"github.com/eventhub-app/eventhub-api/internal/domain"
)

const (
	recentWindow   = 30 * 24 * time.Hour
	dashboardLists = 5
)

type StatsRepository interface {
	Dashboard(ctx context.Context, since time.Time, listLimit int) (domain.DashboardStats, error)
}

type StatsService struct {
	repo StatsRepository
}

func NewStatsService(repo StatsRepository) *StatsService {
	return &StatsService{
		repo: repo,
	}
}

func (s *StatsService) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	stats, err := s.repo.Dashboard(ctx, time.Now().UTC().Add(-recentWindow), dashboardLists)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("s.repo.Dashboard -> %w", err)
	}

	return stats, nil
}
