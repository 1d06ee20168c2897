// Package qr renders registration QR codes. The payload format is part of
// the external contract: scanning clients reconstruct it to look up a
// registration at check-in.
package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// PayloadPrefix is the product prefix every payload starts with.
const PayloadPrefix = "EventHub"

const imageSize = 256

// Payload returns the canonical string encoded into the image,
// e.g. "EventHub-AB12CD34-17".
func Payload(code string, eventID uint) string {
	return fmt.Sprintf("%s-%s-%d", PayloadPrefix, code, eventID)
}

// EncodeDataURI renders the payload as a PNG and returns it as a base64
// data URI, so it can be stored as opaque text next to the registration.
func EncodeDataURI(code string, eventID uint) (string, error) {
	png, err := qrcode.Encode(Payload(code, eventID), qrcode.Low, imageSize)
	if err != nil {
		return "", fmt.Errorf("qrcode.Encode -> %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
