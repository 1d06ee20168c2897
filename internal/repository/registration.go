package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository/dao"
)

var (
	ErrEventFull             = dao.ErrEventFull
	ErrDuplicateRegistration = dao.ErrDuplicateRegistration
	ErrRegistrationNotFound  = dao.ErrRegistrationNotFound
)

type RegistrationDAO interface {
	Insert(ctx context.Context, reg dao.Registration) (dao.Registration, error)
	FindByID(ctx context.Context, id uint) (dao.Registration, error)
	FindByEventAndEmail(ctx context.Context, eventID uint, email string) (dao.Registration, error)
	FindByEventID(ctx context.Context, eventID uint) ([]dao.Registration, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	SetCheckedIn(ctx context.Context, id uint, value bool) (dao.Registration, error)
	SetConfirmed(ctx context.Context, id uint, value bool) (dao.Registration, error)
}

type RegistrationRepository struct {
	dao RegistrationDAO
}

func NewRegistrationRepository(dao RegistrationDAO) *RegistrationRepository {
	return &RegistrationRepository{
		dao: dao,
	}
}

func (r *RegistrationRepository) Create(ctx context.Context, reg domain.Registration) (domain.Registration, error) {
	created, err := r.dao.Insert(ctx, dao.Registration{
		EventID:          reg.EventID,
		Email:            reg.Email,
		Name:             reg.Name,
		Phone:            reg.Phone,
		QRCode:           reg.QRCode,
		RegistrationCode: reg.RegistrationCode,
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *RegistrationRepository) FindByID(ctx context.Context, id uint) (domain.Registration, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RegistrationRepository) ExistsForEmail(ctx context.Context, eventID uint, email string) (bool, error) {
	_, err := r.dao.FindByEventAndEmail(ctx, eventID, email)
	if err != nil {
		if errors.Is(err, dao.ErrRegistrationNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("r.dao.FindByEventAndEmail -> %w", err)
	}

	return true, nil
}

func (r *RegistrationRepository) FindByEventID(ctx context.Context, eventID uint) ([]domain.Registration, error) {
	found, err := r.dao.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	regs := make([]domain.Registration, 0, len(found))
	for _, reg := range found {
		regs = append(regs, r.daoToDomain(reg))
	}

	return regs, nil
}

func (r *RegistrationRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	exists, err := r.dao.CodeExists(ctx, code)
	if err != nil {
		return false, fmt.Errorf("r.dao.CodeExists -> %w", err)
	}

	return exists, nil
}

func (r *RegistrationRepository) SetCheckedIn(ctx context.Context, id uint, value bool) (domain.Registration, error) {
	updated, err := r.dao.SetCheckedIn(ctx, id, value)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.SetCheckedIn -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *RegistrationRepository) SetConfirmed(ctx context.Context, id uint, value bool) (domain.Registration, error) {
	updated, err := r.dao.SetConfirmed(ctx, id, value)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.SetConfirmed -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *RegistrationRepository) daoToDomain(reg dao.Registration) domain.Registration {
	return domain.Registration{
		ID:               reg.ID,
		EventID:          reg.EventID,
		Name:             reg.Name,
		Email:            reg.Email,
		Phone:            reg.Phone,
		QRCode:           reg.QRCode,
		RegistrationCode: reg.RegistrationCode,
		IsConfirmed:      reg.IsConfirmed,
		CheckedIn:        reg.CheckedIn,
		CreatedAt:        reg.CreatedAt,
	}
}
