package service

import (
	"context"
	"fmt"
	"time"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository"
)

var ErrEventNotFound = repository.ErrEventNotFound

// descriptionLimit is the truncation point for the calendar feed.
const descriptionLimit = 100

const featuredLimit = 6

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	AttachVideoFile(ctx context.Context, id uint, filename string) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindActive(ctx context.Context, filters domain.EventFilters) ([]domain.Event, error)
	FindUpcoming(ctx context.Context, after time.Time, limit int) ([]domain.Event, error)
	FindCategories(ctx context.Context) ([]string, error)
}

type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo: repo,
	}
}

func (s *EventService) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	if event.Category == "" {
		event.Category = "General"
	}
	if event.Capacity == 0 {
		event.Capacity = 100
	}
	event.IsActive = true

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	existing, err := s.repo.FindByID(ctx, event.ID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	// Uploaded files are attached through AttachVideo, not overwritten here.
	event.VideoFile = existing.VideoFile
	event.CreatedAt = existing.CreatedAt

	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *EventService) AttachVideo(ctx context.Context, id uint, filename string) error {
	if err := s.repo.AttachVideoFile(ctx, id, filename); err != nil {
		return fmt.Errorf("s.repo.AttachVideoFile -> %w", err)
	}

	return nil
}

func (s *EventService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *EventService) Get(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) ListActive(ctx context.Context, filters domain.EventFilters) ([]domain.Event, error) {
	events, err := s.repo.FindActive(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindActive -> %w", err)
	}

	return events, nil
}

// Featured returns the soonest upcoming active events for the homepage feed.
func (s *EventService) Featured(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindUpcoming(ctx, time.Now().UTC(), featuredLimit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindUpcoming -> %w", err)
	}

	return events, nil
}

func (s *EventService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.FindCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindCategories -> %w", err)
	}

	return categories, nil
}

// CalendarEntries projects all active events into the calendar feed shape,
// with ISO-8601 start times and descriptions truncated at 100 characters.
func (s *EventService) CalendarEntries(ctx context.Context) ([]domain.CalendarEntry, error) {
	events, err := s.repo.FindActive(ctx, domain.EventFilters{})
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindActive -> %w", err)
	}

	entries := make([]domain.CalendarEntry, 0, len(events))
	for _, e := range events {
		entries = append(entries, domain.CalendarEntry{
			ID:          e.ID,
			Title:       e.Title,
			Start:       e.Date.Format(time.RFC3339),
			Description: truncate(e.Description, descriptionLimit),
			Location:    e.Location,
			Category:    e.Category,
		})
	}

	return entries, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit]) + "..."
}
