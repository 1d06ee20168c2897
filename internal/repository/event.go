package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository/dao"
)

var ErrEventNotFound = dao.ErrEventNotFound

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	Update(ctx context.Context, event dao.Event) (dao.Event, error)
	UpdateVideoFile(ctx context.Context, id uint, filename string) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindActive(ctx context.Context, filters dao.EventFilters) ([]dao.Event, error)
	FindUpcoming(ctx context.Context, after time.Time, limit int) ([]dao.Event, error)
	FindCategories(ctx context.Context) ([]string, error)
	CountRegistrations(ctx context.Context, eventID uint) (int64, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.withCount(ctx, updated)
}

func (r *EventRepository) AttachVideoFile(ctx context.Context, id uint, filename string) error {
	if err := r.dao.UpdateVideoFile(ctx, id, filename); err != nil {
		return fmt.Errorf("r.dao.UpdateVideoFile -> %w", err)
	}

	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.withCount(ctx, found)
}

func (r *EventRepository) FindActive(ctx context.Context, filters domain.EventFilters) ([]domain.Event, error) {
	daoFilters := dao.EventFilters{
		Search:   filters.Search,
		Category: filters.Category,
	}
	daoFilters.DateFrom, daoFilters.DateUntil = dateWindow(filters.Date, time.Now().UTC())

	found, err := r.dao.FindActive(ctx, daoFilters)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActive -> %w", err)
	}

	return r.allWithCounts(ctx, found)
}

// dateWindow turns a date-bucket filter into a [from, until) range.
// Weeks start on Monday, matching the public listing's filter semantics.
func dateWindow(bucket string, now time.Time) (time.Time, time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch bucket {
	case domain.DateFilterToday:
		return day, day.AddDate(0, 0, 1)
	case domain.DateFilterThisWeek:
		weekStart := day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))
		return weekStart, weekStart.AddDate(0, 0, 7)
	case domain.DateFilterThisMonth:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return monthStart, monthStart.AddDate(0, 1, 0)
	default:
		return time.Time{}, time.Time{}
	}
}

func (r *EventRepository) FindUpcoming(ctx context.Context, after time.Time, limit int) ([]domain.Event, error) {
	found, err := r.dao.FindUpcoming(ctx, after, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindUpcoming -> %w", err)
	}

	return r.allWithCounts(ctx, found)
}

func (r *EventRepository) FindCategories(ctx context.Context) ([]string, error) {
	categories, err := r.dao.FindCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCategories -> %w", err)
	}

	return categories, nil
}

func (r *EventRepository) withCount(ctx context.Context, event dao.Event) (domain.Event, error) {
	count, err := r.dao.CountRegistrations(ctx, event.ID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.CountRegistrations -> %w", err)
	}

	result := r.daoToDomain(event)
	result.RegistrationCount = int(count)

	return result, nil
}

func (r *EventRepository) allWithCounts(ctx context.Context, events []dao.Event) ([]domain.Event, error) {
	result := make([]domain.Event, 0, len(events))
	for _, e := range events {
		withCount, err := r.withCount(ctx, e)
		if err != nil {
			return nil, err
		}
		result = append(result, withCount)
	}

	return result, nil
}

func (r *EventRepository) domainToDao(e domain.Event) dao.Event {
	return dao.Event{
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

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	return eventDaoToDomain(e)
}
