package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository/dao"
)

type StatsDAO interface {
	CountEvents(ctx context.Context) (int64, error)
	CountActiveEvents(ctx context.Context) (int64, error)
	CountRegistrations(ctx context.Context) (int64, error)
	CountRegistrationsSince(ctx context.Context, since time.Time) (int64, error)
	RecentEvents(ctx context.Context, limit int) ([]dao.Event, error)
	TopEventsByRegistrations(ctx context.Context, limit int) ([]dao.EventWithCount, error)
}

type StatsRepository struct {
	dao StatsDAO
}

func NewStatsRepository(dao StatsDAO) *StatsRepository {
	return &StatsRepository{
		dao: dao,
	}
}

func (r *StatsRepository) Dashboard(ctx context.Context, since time.Time, listLimit int) (domain.DashboardStats, error) {
	stats := domain.DashboardStats{}

	var err error
	if stats.TotalEvents, err = r.dao.CountEvents(ctx); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("r.dao.CountEvents -> %w", err)
	}
	if stats.ActiveEvents, err = r.dao.CountActiveEvents(ctx); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("r.dao.CountActiveEvents -> %w", err)
	}
	if stats.TotalRegistrations, err = r.dao.CountRegistrations(ctx); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("r.dao.CountRegistrations -> %w", err)
	}
	if stats.RecentRegistrations, err = r.dao.CountRegistrationsSince(ctx, since); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("r.dao.CountRegistrationsSince -> %w", err)
	}

	recent, err := r.dao.RecentEvents(ctx, listLimit)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("r.dao.RecentEvents -> %w", err)
	}
	stats.RecentEvents = make([]domain.Event, 0, len(recent))
	for _, e := range recent {
		stats.RecentEvents = append(stats.RecentEvents, eventDaoToDomain(e))
	}

	top, err := r.dao.TopEventsByRegistrations(ctx, listLimit)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("r.dao.TopEventsByRegistrations -> %w", err)
	}
	stats.TopEvents = make([]domain.EventRegistrationCount, 0, len(top))
	for _, row := range top {
		event := eventDaoToDomain(row.Event)
		event.RegistrationCount = int(row.RegCount)
		stats.TopEvents = append(stats.TopEvents, domain.EventRegistrationCount{
			Event: event,
			Count: row.RegCount,
		})
	}

	return stats, nil
}

func eventDaoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Location:    e.Location,
		Category:    e.Category,
		Capacity:    e.Capacity,
		VideoURL:    e.VideoURL,
		VideoFile:   e.VideoFile,
		ImageURL:    e.ImageURL,
		IsActive:    e.IsActive,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
