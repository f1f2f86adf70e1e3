package utils

import (
	qrcode "github.com/skip2/go-qrcode"
)

// GenerateQRCode renders a validation URL as a PNG. The URL carries the
// certificate's public code; scanning it lands on the validate endpoint.
func GenerateQRCode(validationURL string) ([]byte, error) {
	return qrcode.Encode(validationURL, qrcode.Medium, 256)
}
