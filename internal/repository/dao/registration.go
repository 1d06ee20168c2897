package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEventFull             = errors.New("event is fully booked")
	ErrDuplicateRegistration = errors.New("email already registered for this event")
	ErrRegistrationNotFound  = errors.New("registration not found")
)

type Registration struct {
	ID      uint   `gorm:"primaryKey"`
	EventID uint   `gorm:"not null;uniqueIndex:idx_registrations_event_email"`
	Email   string `gorm:"size:120;not null;uniqueIndex:idx_registrations_event_email"`
	Name    string `gorm:"size:100;not null"`
	Phone   string `gorm:"size:20"`

	QRCode           string `gorm:"type:text"`
	RegistrationCode string `gorm:"size:20;uniqueIndex;not null"`

	IsConfirmed bool `gorm:"not null;default:false"`
	CheckedIn   bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
}

type RegistrationDAO struct {
	db *gorm.DB
}

func NewRegistrationDAO(db *gorm.DB) *RegistrationDAO {
	return &RegistrationDAO{
		db: db,
	}
}

// Insert creates a registration under a row lock on the event, so the
// capacity check and the insert act as one atomic unit. Two concurrent
// requests for the last spot serialize on the lock; the composite unique
// index backstops the duplicate-email check.
func (d *RegistrationDAO) Insert(ctx context.Context, reg Registration) (Registration, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, reg.EventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		var count int64
		if err := tx.Model(&Registration{}).Where("event_id = ?", reg.EventID).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(event.Capacity) {
			return ErrEventFull
		}

		if err := tx.Create(&reg).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation &&
				strings.Contains(pgErr.ConstraintName, "idx_registrations_event_email") {
				return ErrDuplicateRegistration
			}

			return err
		}

		return nil
	})
	if err != nil {
		return Registration{}, err
	}

	return reg, nil
}

func (d *RegistrationDAO) FindByID(ctx context.Context, id uint) (Registration, error) {
	var reg Registration

	result := d.db.WithContext(ctx).First(&reg, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}

		return Registration{}, result.Error
	}

	return reg, nil
}

func (d *RegistrationDAO) FindByEventAndEmail(ctx context.Context, eventID uint, email string) (Registration, error) {
	var reg Registration

	result := d.db.WithContext(ctx).First(&reg, "event_id = ? AND email = ?", eventID, email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Registration{}, ErrRegistrationNotFound
		}

		return Registration{}, result.Error
	}

	return reg, nil
}

func (d *RegistrationDAO) FindByEventID(ctx context.Context, eventID uint) ([]Registration, error) {
	var regs []Registration

	result := d.db.WithContext(ctx).Where("event_id = ?", eventID).Order("created_at ASC").Find(&regs)
	if result.Error != nil {
		return nil, result.Error
	}

	return regs, nil
}

func (d *RegistrationDAO) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Registration{}).
		Where("registration_code = ?", code).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *RegistrationDAO) setFlag(ctx context.Context, id uint, column string, value bool) (Registration, error) {
	result := d.db.WithContext(ctx).Model(&Registration{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return Registration{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Registration{}, ErrRegistrationNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *RegistrationDAO) SetCheckedIn(ctx context.Context, id uint, value bool) (Registration, error) {
	return d.setFlag(ctx, id, "checked_in", value)
}

func (d *RegistrationDAO) SetConfirmed(ctx context.Context, id uint, value bool) (Registration, error) {
	return d.setFlag(ctx, id, "is_confirmed", value)
}
