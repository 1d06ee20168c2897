package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/service"
)

type fakeRegistrationRepo struct {
	nextID    uint
	byEvent   map[uint][]domain.Registration
	codes     map[string]bool
	createErr error
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{
		byEvent: make(map[uint][]domain.Registration),
		codes:   make(map[string]bool),
	}
}

func (f *fakeRegistrationRepo) Create(_ context.Context, reg domain.Registration) (domain.Registration, error) {
	if f.createErr != nil {
		return domain.Registration{}, f.createErr
	}
	for _, existing := range f.byEvent[reg.EventID] {
		if existing.Email == reg.Email {
			return domain.Registration{}, service.ErrDuplicateRegistration
		}
	}

	f.nextID++
	reg.ID = f.nextID
	reg.CreatedAt = time.Now()
	f.byEvent[reg.EventID] = append(f.byEvent[reg.EventID], reg)
	f.codes[reg.RegistrationCode] = true

	return reg, nil
}

func (f *fakeRegistrationRepo) FindByID(_ context.Context, id uint) (domain.Registration, error) {
	for _, regs := range f.byEvent {
		for _, reg := range regs {
			if reg.ID == id {
				return reg, nil
			}
		}
	}

	return domain.Registration{}, service.ErrRegistrationNotFound
}

func (f *fakeRegistrationRepo) ExistsForEmail(_ context.Context, eventID uint, email string) (bool, error) {
	for _, reg := range f.byEvent[eventID] {
		if reg.Email == email {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakeRegistrationRepo) FindByEventID(_ context.Context, eventID uint) ([]domain.Registration, error) {
	return f.byEvent[eventID], nil
}

func (f *fakeRegistrationRepo) CodeExists(_ context.Context, code string) (bool, error) {
	return f.codes[code], nil
}

func (f *fakeRegistrationRepo) SetCheckedIn(ctx context.Context, id uint, value bool) (domain.Registration, error) {
	return f.setFlag(ctx, id, func(reg *domain.Registration) { reg.CheckedIn = value })
}

func (f *fakeRegistrationRepo) SetConfirmed(ctx context.Context, id uint, value bool) (domain.Registration, error) {
	return f.setFlag(ctx, id, func(reg *domain.Registration) { reg.IsConfirmed = value })
}

func (f *fakeRegistrationRepo) setFlag(_ context.Context, id uint, mutate func(*domain.Registration)) (domain.Registration, error) {
	for eventID, regs := range f.byEvent {
		for i := range regs {
			if regs[i].ID == id {
				mutate(&f.byEvent[eventID][i])
				return f.byEvent[eventID][i], nil
			}
		}
	}

	return domain.Registration{}, service.ErrRegistrationNotFound
}

type fakeEventRepo struct {
	events map[uint]domain.Event
	regs   *fakeRegistrationRepo
}

func (f *fakeEventRepo) FindByID(_ context.Context, id uint) (domain.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return domain.Event{}, service.ErrEventNotFound
	}
	if f.regs != nil {
		event.RegistrationCount = len(f.regs.byEvent[id])
	}

	return event, nil
}

type fakeSender struct {
	calls int
	err   error
}

func (f *fakeSender) SendConfirmation(_ context.Context, _ domain.Registration, _ domain.Event) error {
	f.calls++

	return f.err
}

func setupRegistrationService(capacity int) (*service.RegistrationService, *fakeRegistrationRepo, *fakeEventRepo, *fakeSender) {
	regs := newFakeRegistrationRepo()
	events := &fakeEventRepo{
		events: map[uint]domain.Event{
			1: {ID: 1, Title: "Go Meetup", Date: time.Now().Add(24 * time.Hour), Location: "Hall A", Capacity: capacity},
		},
		regs: regs,
	}
	sender := &fakeSender{}
	svc := service.NewRegistrationService(regs, events, sender, time.Second)

	return svc, regs, events, sender
}

func TestRegistrationService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - mints code, renders QR, sends email", func(t *testing.T) {
		svc, _, _, sender := setupRegistrationService(100)

		reg, emailSent, err := svc.Register(ctx, 1, "Alice", "a@x.com", "555-0100")

		require.NoError(t, err)
		assert.True(t, emailSent)
		assert.Equal(t, 1, sender.calls)
		assert.Regexp(t, `^[A-Z0-9]{8}$`, reg.RegistrationCode)
		assert.True(t, strings.HasPrefix(reg.QRCode, "data:image/png;base64,"))
		assert.False(t, reg.IsConfirmed)
		assert.False(t, reg.CheckedIn)
	})

	t.Run("Failed - event not found", func(t *testing.T) {
		svc, _, _, sender := setupRegistrationService(100)

		_, _, err := svc.Register(ctx, 42, "Alice", "a@x.com", "")

		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrEventNotFound)
		assert.Zero(t, sender.calls)
	})

	t.Run("Failed - duplicate email, count stays 1", func(t *testing.T) {
		svc, regs, _, _ := setupRegistrationService(100)

		_, _, err := svc.Register(ctx, 1, "Alice", "a@x.com", "")
		require.NoError(t, err)

		_, _, err = svc.Register(ctx, 1, "Alice again", "a@x.com", "")

		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrDuplicateRegistration)
		assert.Len(t, regs.byEvent[1], 1)
	})

	t.Run("Failed - last spot then full", func(t *testing.T) {
		svc, _, events, _ := setupRegistrationService(1)

		_, _, err := svc.Register(ctx, 1, "Alice", "a@x.com", "")
		require.NoError(t, err)

		event, err := events.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, event.AvailableSpots())
		assert.True(t, event.IsFull())

		_, _, err = svc.Register(ctx, 1, "Bob", "b@x.com", "")

		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrEventFull)
	})

	t.Run("Success - email failure does not fail registration", func(t *testing.T) {
		svc, regs, _, sender := setupRegistrationService(100)
		sender.err = errors.New("smtp down")

		reg, emailSent, err := svc.Register(ctx, 1, "Alice", "a@x.com", "")

		require.NoError(t, err)
		assert.False(t, emailSent)
		assert.NotZero(t, reg.ID)
		assert.Len(t, regs.byEvent[1], 1)
	})

	t.Run("Success - codes unique across registrations", func(t *testing.T) {
		svc, _, _, _ := setupRegistrationService(100)

		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			reg, _, err := svc.Register(ctx, 1, "Guest", "guest"+string(rune('a'+i%26))+string(rune('a'+i/26))+"@x.com", "")
			require.NoError(t, err)
			require.False(t, seen[reg.RegistrationCode], "code %q minted twice", reg.RegistrationCode)
			seen[reg.RegistrationCode] = true
		}
	})
}

func TestRegistrationService_Flags(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - flags are independent and freely settable", func(t *testing.T) {
		svc, _, _, _ := setupRegistrationService(100)

		created, _, err := svc.Register(ctx, 1, "Alice", "a@x.com", "")
		require.NoError(t, err)

		reg, err := svc.SetCheckedIn(ctx, created.ID, true)
		require.NoError(t, err)
		assert.True(t, reg.CheckedIn)
		assert.False(t, reg.IsConfirmed)

		reg, err = svc.SetConfirmed(ctx, created.ID, true)
		require.NoError(t, err)
		assert.True(t, reg.IsConfirmed)
		assert.True(t, reg.CheckedIn)

		reg, err = svc.SetCheckedIn(ctx, created.ID, false)
		require.NoError(t, err)
		assert.False(t, reg.CheckedIn)
		assert.True(t, reg.IsConfirmed)
	})

	t.Run("Failed - unknown registration", func(t *testing.T) {
		svc, _, _, _ := setupRegistrationService(100)

		_, err := svc.SetCheckedIn(ctx, 99, true)

		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrRegistrationNotFound)
	})
}
