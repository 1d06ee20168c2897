package qr_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub-app/eventhub-api/internal/pkg/qr"
)

func TestPayload(t *testing.T) {
	assert.Equal(t, "EventHub-AB12CD34-17", qr.Payload("AB12CD34", 17))
	assert.Equal(t, "EventHub-ZZZZ9999-1", qr.Payload("ZZZZ9999", 1))
}

func TestEncodeDataURI(t *testing.T) {
	t.Run("Success - embeddable PNG data URI", func(t *testing.T) {
		uri, err := qr.EncodeDataURI("AB12CD34", 17)

		require.NoError(t, err)
		require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

		raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
		require.NoError(t, err)
		// PNG signature.
		assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, raw[:4])
	})

	t.Run("Success - deterministic for a fixed pair", func(t *testing.T) {
		a, err := qr.EncodeDataURI("AB12CD34", 17)
		require.NoError(t, err)
		b, err := qr.EncodeDataURI("AB12CD34", 17)
		require.NoError(t, err)

		assert.Equal(t, a, b)
	})
}
