package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eventhub-app/eventhub-api/internal/domain"
)

func TestDateWindow(t *testing.T) {
	// A Wednesday mid-afternoon.
	now := time.Date(2026, 9, 16, 15, 45, 12, 0, time.UTC)

	t.Run("today spans midnight to midnight", func(t *testing.T) {
		from, until := dateWindow(domain.DateFilterToday, now)

		assert.Equal(t, time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2026, 9, 17, 0, 0, 0, 0, time.UTC), until)
	})

	t.Run("this_week starts on Monday", func(t *testing.T) {
		from, until := dateWindow(domain.DateFilterThisWeek, now)

		assert.Equal(t, time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2026, 9, 21, 0, 0, 0, 0, time.UTC), until)
		assert.Equal(t, time.Monday, from.Weekday())
	})

	t.Run("this_week on a Sunday still anchors to the preceding Monday", func(t *testing.T) {
		sunday := time.Date(2026, 9, 20, 10, 0, 0, 0, time.UTC)

		from, _ := dateWindow(domain.DateFilterThisWeek, sunday)

		assert.Equal(t, time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), from)
	})

	t.Run("this_month spans the calendar month", func(t *testing.T) {
		from, until := dateWindow(domain.DateFilterThisMonth, now)

		assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), until)
	})

	t.Run("unknown bucket yields zero bounds", func(t *testing.T) {
		from, until := dateWindow("someday", now)

		assert.True(t, from.IsZero())
		assert.True(t, until.IsZero())
	})
}
