package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrEventNotFound = errors.New("event not found")

type Event struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text"`
	Date        time.Time `gorm:"not null;index"`
	Location    string    `gorm:"size:200;not null"`
	Category    string    `gorm:"size:100;default:General;index"`
	Capacity    int       `gorm:"not null;default:100"`
	VideoURL    string    `gorm:"size:500"`
	VideoFile   string    `gorm:"size:200"`
	ImageURL    string    `gorm:"size:500"`
	IsActive    bool      `gorm:"not null;default:true"`

	// Deleting an event cascades to its registrations; a registration
	// cannot outlive its event.
	Registrations []Registration `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// EventFilters narrows FindActive. Zero values mean "no filter".
type EventFilters struct {
	Search    string
	Category  string
	DateFrom  time.Time
	DateUntil time.Time
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Save(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) UpdateVideoFile(ctx context.Context, id uint, filename string) error {
	result := d.db.WithContext(ctx).Model(&Event{}).Where("id = ?", id).Update("video_file", filename)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

// Delete removes the event and, via the FK cascade, all its registrations.
// The association select keeps the cascade working on databases migrated
// before the constraint existed.
func (d *EventDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Select(clause.Associations).Delete(&Event{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindActive(ctx context.Context, filters EventFilters) ([]Event, error) {
	query := d.db.WithContext(ctx).Where("is_active = ?", true)

	if filters.Search != "" {
		query = query.Where("title ILIKE ?", "%"+filters.Search+"%")
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if !filters.DateFrom.IsZero() {
		query = query.Where("date >= ?", filters.DateFrom)
	}
	if !filters.DateUntil.IsZero() {
		query = query.Where("date < ?", filters.DateUntil)
	}

	var events []Event
	if err := query.Order("date ASC").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (d *EventDAO) FindUpcoming(ctx context.Context, after time.Time, limit int) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("is_active = ? AND date > ?", true, after).
		Order("date ASC").
		Limit(limit).
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) FindCategories(ctx context.Context) ([]string, error) {
	var categories []string

	result := d.db.WithContext(ctx).
		Model(&Event{}).
		Where("category <> ''").
		Distinct().
		Order("category ASC").
		Pluck("category", &categories)
	if result.Error != nil {
		return nil, result.Error
	}

	return categories, nil
}

func (d *EventDAO) CountRegistrations(ctx context.Context, eventID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Registration{}).
		Where("event_id = ?", eventID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
