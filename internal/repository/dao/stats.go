package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// EventWithCount is the row shape of the top-events aggregate.
type EventWithCount struct {
	Event
	RegCount int64
}

type StatsDAO struct {
	db *gorm.DB
}

func NewStatsDAO(db *gorm.DB) *StatsDAO {
	return &StatsDAO{
		db: db,
	}
}

func (d *StatsDAO) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Event{}).Count(&count).Error

	return count, err
}

func (d *StatsDAO) CountActiveEvents(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Event{}).Where("is_active = ?", true).Count(&count).Error

	return count, err
}

func (d *StatsDAO) CountRegistrations(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Registration{}).Count(&count).Error

	return count, err
}

func (d *StatsDAO) CountRegistrationsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&Registration{}).
		Where("created_at >= ?", since).
		Count(&count).Error

	return count, err
}

func (d *StatsDAO) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	var events []Event
	err := d.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (d *StatsDAO) TopEventsByRegistrations(ctx context.Context, limit int) ([]EventWithCount, error) {
	var rows []EventWithCount
	err := d.db.WithContext(ctx).
		Model(&Event{}).
		Select("events.*, COUNT(registrations.id) AS reg_count").
		Joins("JOIN registrations ON registrations.event_id = events.id").
		Group("events.id").
		Order("reg_count DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
