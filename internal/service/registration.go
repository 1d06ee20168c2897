package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/pkg/qr"
	"github.com/eventhub-app/eventhub-api/internal/pkg/regcode"
	"github.com/eventhub-app/eventhub-api/internal/repository"
)

var (
	ErrEventFull             = repository.ErrEventFull
	ErrDuplicateRegistration = repository.ErrDuplicateRegistration
	ErrRegistrationNotFound  = repository.ErrRegistrationNotFound
)

type RegistrationRepository interface {
	Create(ctx context.Context, reg domain.Registration) (domain.Registration, error)
	FindByID(ctx context.Context, id uint) (domain.Registration, error)
	ExistsForEmail(ctx context.Context, eventID uint, email string) (bool, error)
	FindByEventID(ctx context.Context, eventID uint) ([]domain.Registration, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	SetCheckedIn(ctx context.Context, id uint, value bool) (domain.Registration, error)
	SetConfirmed(ctx context.Context, id uint, value bool) (domain.Registration, error)
}

type RegistrationEventRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
}

// ConfirmationSender delivers the confirmation message for a completed
// registration. Delivery failure never reverses the registration.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, reg domain.Registration, event domain.Event) error
}

type RegistrationService struct {
	repo        RegistrationRepository
	eventRepo   RegistrationEventRepository
	sender      ConfirmationSender
	mailTimeout time.Duration
}

func NewRegistrationService(repo RegistrationRepository, eventRepo RegistrationEventRepository, sender ConfirmationSender, mailTimeout time.Duration) *RegistrationService {
	if mailTimeout <= 0 {
		mailTimeout = 10 * time.Second
	}

	return &RegistrationService{
		repo:        repo,
		eventRepo:   eventRepo,
		sender:      sender,
		mailTimeout: mailTimeout,
	}
}

// Register creates a registration for the event. The returned bool reports
// whether the confirmation email went out; it is advisory only.
//
// Preconditions are checked in order: event exists, event not full, email not
// already registered. The checks here are a fast path for friendly errors;
// the store re-validates capacity under a row lock and enforces the
// (event, email) uniqueness with a constraint, so concurrent requests cannot
// oversell the event or double-register an email.
func (s *RegistrationService) Register(ctx context.Context, eventID uint, name, email, phone string) (domain.Registration, bool, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return domain.Registration{}, false, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	if event.IsFull() {
		return domain.Registration{}, false, ErrEventFull
	}

	exists, err := s.repo.ExistsForEmail(ctx, eventID, email)
	if err != nil {
		return domain.Registration{}, false, fmt.Errorf("s.repo.ExistsForEmail -> %w", err)
	}
	if exists {
		return domain.Registration{}, false, ErrDuplicateRegistration
	}

	code, err := regcode.Generate(ctx, s.repo.CodeExists)
	if err != nil {
		return domain.Registration{}, false, fmt.Errorf("regcode.Generate -> %w", err)
	}

	// The QR image is rendered once, at creation. Rendering failure is
	// non-fatal: the registration persists without an image.
	qrDataURI, err := qr.EncodeDataURI(code, eventID)
	if err != nil {
		zap.L().Warn("failed to render registration QR code",
			zap.Uint("event_id", eventID),
			zap.String("registration_code", code),
			zap.Error(err))
		qrDataURI = ""
	}

	created, err := s.repo.Create(ctx, domain.Registration{
		EventID:          eventID,
		Name:             name,
		Email:            email,
		Phone:            phone,
		QRCode:           qrDataURI,
		RegistrationCode: code,
	})
	if err != nil {
		return domain.Registration{}, false, fmt.Errorf("s.repo.Create -> %w", err)
	}

	emailSent := s.dispatchConfirmation(ctx, created, event)

	return created, emailSent, nil
}

// dispatchConfirmation is best-effort and time-bounded. It is detached from
// the request's cancellation so a client disconnect after the commit does not
// kill the email, but still bounded by the configured timeout.
func (s *RegistrationService) dispatchConfirmation(ctx context.Context, reg domain.Registration, event domain.Event) bool {
	if s.sender == nil {
		return false
	}

	mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.mailTimeout)
	defer cancel()

	if err := s.sender.SendConfirmation(mailCtx, reg, event); err != nil {
		zap.L().Warn("failed to send confirmation email",
			zap.Uint("registration_id", reg.ID),
			zap.String("email", reg.Email),
			zap.Error(err))

		return false
	}

	return true
}

func (s *RegistrationService) Get(ctx context.Context, id uint) (domain.Registration, error) {
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return reg, nil
}

func (s *RegistrationService) ListByEvent(ctx context.Context, eventID uint) ([]domain.Registration, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	regs, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEventID -> %w", err)
	}

	return regs, nil
}

// SetCheckedIn and SetConfirmed flip independent flags with no transition
// rules; either can be set or cleared at any time after creation.

func (s *RegistrationService) SetCheckedIn(ctx context.Context, id uint, value bool) (domain.Registration, error) {
	reg, err := s.repo.SetCheckedIn(ctx, id, value)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.SetCheckedIn -> %w", err)
	}

	return reg, nil
}

func (s *RegistrationService) SetConfirmed(ctx context.Context, id uint, value bool) (domain.Registration, error) {
	reg, err := s.repo.SetConfirmed(ctx, id, value)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("s.repo.SetConfirmed -> %w", err)
	}

	return reg, nil
}
