package request_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub-app/eventhub-api/internal/api/handler/v1/request"
)

func validEventRequest() request.EventRequest {
	return request.EventRequest{
		Title:    "Launch Party",
		Date:     "2026-10-01T18:00:00Z",
		Location: "HQ",
		Capacity: 50,
	}
}

func TestEventRequest_Validate(t *testing.T) {
	t.Run("Success - RFC3339 date", func(t *testing.T) {
		req := validEventRequest()

		assert.NoError(t, req.Validate())
	})

	t.Run("Success - datetime-local date", func(t *testing.T) {
		req := validEventRequest()
		req.Date = "2026-10-01T18:00"

		require.NoError(t, req.Validate())

		parsed, err := req.ParsedDate()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC), parsed)
	})

	t.Run("Failed - missing title", func(t *testing.T) {
		req := validEventRequest()
		req.Title = ""

		assert.Error(t, req.Validate())
	})

	t.Run("Failed - unparseable date", func(t *testing.T) {
		req := validEventRequest()
		req.Date = "next tuesday"

		assert.Error(t, req.Validate())

		_, err := req.ParsedDate()
		assert.Error(t, err)
	})

	t.Run("Failed - negative capacity", func(t *testing.T) {
		req := validEventRequest()
		req.Capacity = -1

		assert.Error(t, req.Validate())
	})

	t.Run("Failed - malformed video URL", func(t *testing.T) {
		req := validEventRequest()
		req.VideoURL = "::not-a-url"

		assert.Error(t, req.Validate())
	})
}
