// Package regcode mints the 8-character registration codes attendees
// receive. Codes are drawn from A-Z0-9 with crypto/rand and re-drawn until
// they do not collide with any existing code.
package regcode

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	Length   = 8
)

// ExistsFunc reports whether a candidate code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Generate returns a fresh code that exists reported as free. The retry loop
// is unbounded; with 36^8 possible codes a collision re-draw is practically
// unreachable, but the contract must not assume a single draw succeeds.
func Generate(ctx context.Context, exists ExistsFunc) (string, error) {
	for {
		code, err := draw()
		if err != nil {
			return "", fmt.Errorf("regcode.draw -> %w", err)
		}

		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("regcode exists check -> %w", err)
		}
		if !taken {
			return code, nil
		}
	}
}

func draw() (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, Length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[n.Int64()]
	}

	return string(buf), nil
}
