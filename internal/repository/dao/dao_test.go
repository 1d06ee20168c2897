package dao_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eventhub-app/eventhub-api/internal/repository/dao"
)

// testDB stays nil when no Docker daemon is reachable; every test checks it
// and skips instead of failing.
var testDB *gorm.DB

var codeSeq atomic.Int64

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("docker unavailable, skipping dao tests: %v", err)
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=eventhub_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	dsn := fmt.Sprintf("host=localhost port=%s user=test password=test dbname=eventhub_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	if err = pool.Retry(func() error {
		db, openErr := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if openErr != nil {
			return openErr
		}
		sqlDB, openErr := db.DB()
		if openErr != nil {
			return openErr
		}
		if openErr = sqlDB.Ping(); openErr != nil {
			return openErr
		}
		testDB = db

		return nil
	}); err != nil {
		log.Fatalf("could not connect to postgres container: %v", err)
	}

	if err = dao.InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Printf("could not purge postgres container: %v", err)
	}

	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	if testDB == nil {
		t.Skip("docker unavailable")
	}
}

func newCode() string {
	return fmt.Sprintf("T%07d", codeSeq.Add(1))
}

func createEvent(t *testing.T, capacity int) dao.Event {
	t.Helper()

	event, err := dao.NewEventDAO(testDB).Insert(context.Background(), dao.Event{
		Title:    "Test Event",
		Date:     time.Now().Add(72 * time.Hour),
		Location: "Test Hall",
		Category: "Testing",
		Capacity: capacity,
		IsActive: true,
	})
	require.NoError(t, err)

	return event
}

func TestRegistrationDAO_Insert(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	regDAO := dao.NewRegistrationDAO(testDB)

	t.Run("Success - registration persisted with code and flags clear", func(t *testing.T) {
		event := createEvent(t, 10)

		created, err := regDAO.Insert(ctx, dao.Registration{
			EventID:          event.ID,
			Name:             "Alice",
			Email:            "alice@x.com",
			RegistrationCode: newCode(),
		})

		require.NoError(t, err)
		assert.NotZero(t, created.ID)

		found, err := regDAO.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@x.com", found.Email)
		assert.False(t, found.IsConfirmed)
		assert.False(t, found.CheckedIn)
	})

	t.Run("Failed - unknown event", func(t *testing.T) {
		_, err := regDAO.Insert(ctx, dao.Registration{
			EventID:          999999,
			Name:             "Ghost",
			Email:            "ghost@x.com",
			RegistrationCode: newCode(),
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, dao.ErrEventNotFound)
	})

	t.Run("Failed - duplicate email for the same event", func(t *testing.T) {
		event := createEvent(t, 10)

		_, err := regDAO.Insert(ctx, dao.Registration{
			EventID:          event.ID,
			Name:             "Bob",
			Email:            "bob@x.com",
			RegistrationCode: newCode(),
		})
		require.NoError(t, err)

		_, err = regDAO.Insert(ctx, dao.Registration{
			EventID:          event.ID,
			Name:             "Bob again",
			Email:            "bob@x.com",
			RegistrationCode: newCode(),
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, dao.ErrDuplicateRegistration)

		regs, err := regDAO.FindByEventID(ctx, event.ID)
		require.NoError(t, err)
		assert.Len(t, regs, 1)
	})

	t.Run("Success - same email allowed on a different event", func(t *testing.T) {
		first := createEvent(t, 10)
		second := createEvent(t, 10)

		_, err := regDAO.Insert(ctx, dao.Registration{
			EventID:          first.ID,
			Name:             "Carol",
			Email:            "carol@x.com",
			RegistrationCode: newCode(),
		})
		require.NoError(t, err)

		_, err = regDAO.Insert(ctx, dao.Registration{
			EventID:          second.ID,
			Name:             "Carol",
			Email:            "carol@x.com",
			RegistrationCode: newCode(),
		})
		require.NoError(t, err)
	})

	t.Run("Failed - event at capacity", func(t *testing.T) {
		event := createEvent(t, 1)

		_, err := regDAO.Insert(ctx, dao.Registration{
			EventID:          event.ID,
			Name:             "First",
			Email:            "first@x.com",
			RegistrationCode: newCode(),
		})
		require.NoError(t, err)

		_, err = regDAO.Insert(ctx, dao.Registration{
			EventID:          event.ID,
			Name:             "Second",
			Email:            "second@x.com",
			RegistrationCode: newCode(),
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, dao.ErrEventFull)
	})
}

// TestRegistrationDAO_ConcurrentInsert hammers one event with far more
// concurrent registrations than it has capacity for and requires that the
// row lock lets exactly Capacity of them through.
func TestRegistrationDAO_ConcurrentInsert(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	regDAO := dao.NewRegistrationDAO(testDB)

	const (
		capacity = 5
		attempts = 100
	)
	event := createEvent(t, capacity)

	var wg sync.WaitGroup
	var succeeded, full atomic.Int64
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			_, err := regDAO.Insert(ctx, dao.Registration{
				EventID:          event.ID,
				Name:             fmt.Sprintf("Guest %d", n),
				Email:            fmt.Sprintf("guest%d@x.com", n),
				RegistrationCode: newCode(),
			})
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, dao.ErrEventFull):
				full.Add(1)
			default:
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected insert error: %v", err)
	}
	assert.Equal(t, int64(capacity), succeeded.Load())
	assert.Equal(t, int64(attempts-capacity), full.Load())

	regs, err := regDAO.FindByEventID(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, regs, capacity)
}

func TestRegistrationDAO_Flags(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	regDAO := dao.NewRegistrationDAO(testDB)

	event := createEvent(t, 10)
	created, err := regDAO.Insert(ctx, dao.Registration{
		EventID:          event.ID,
		Name:             "Dora",
		Email:            "dora@x.com",
		RegistrationCode: newCode(),
	})
	require.NoError(t, err)

	t.Run("Success - check-in and confirm flip independently", func(t *testing.T) {
		reg, err := regDAO.SetCheckedIn(ctx, created.ID, true)
		require.NoError(t, err)
		assert.True(t, reg.CheckedIn)
		assert.False(t, reg.IsConfirmed)

		reg, err = regDAO.SetConfirmed(ctx, created.ID, true)
		require.NoError(t, err)
		assert.True(t, reg.IsConfirmed)
		assert.True(t, reg.CheckedIn)

		reg, err = regDAO.SetCheckedIn(ctx, created.ID, false)
		require.NoError(t, err)
		assert.False(t, reg.CheckedIn)
		assert.True(t, reg.IsConfirmed)
	})

	t.Run("Failed - unknown registration", func(t *testing.T) {
		_, err := regDAO.SetConfirmed(ctx, 999999, true)

		require.Error(t, err)
		assert.ErrorIs(t, err, dao.ErrRegistrationNotFound)
	})
}

func TestEventDAO_Delete(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	eventDAO := dao.NewEventDAO(testDB)
	regDAO := dao.NewRegistrationDAO(testDB)

	t.Run("Success - registrations deleted with their event", func(t *testing.T) {
		event := createEvent(t, 10)

		created, err := regDAO.Insert(ctx, dao.Registration{
			EventID:          event.ID,
			Name:             "Eve",
			Email:            "eve@x.com",
			RegistrationCode: newCode(),
		})
		require.NoError(t, err)

		require.NoError(t, eventDAO.Delete(ctx, event.ID))

		_, err = eventDAO.FindByID(ctx, event.ID)
		assert.ErrorIs(t, err, dao.ErrEventNotFound)

		_, err = regDAO.FindByID(ctx, created.ID)
		assert.ErrorIs(t, err, dao.ErrRegistrationNotFound)
	})

	t.Run("Failed - unknown event", func(t *testing.T) {
		err := eventDAO.Delete(ctx, 999999)

		require.Error(t, err)
		assert.ErrorIs(t, err, dao.ErrEventNotFound)
	})
}

func TestEventDAO_CountRegistrations(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	eventDAO := dao.NewEventDAO(testDB)
	regDAO := dao.NewRegistrationDAO(testDB)

	event := createEvent(t, 10)

	count, err := eventDAO.CountRegistrations(ctx, event.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	for i := 0; i < 3; i++ {
		_, err = regDAO.Insert(ctx, dao.Registration{
			EventID:          event.ID,
			Name:             fmt.Sprintf("Guest %d", i),
			Email:            fmt.Sprintf("count%d@x.com", i),
			RegistrationCode: newCode(),
		})
		require.NoError(t, err)
	}

	count, err = eventDAO.CountRegistrations(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
