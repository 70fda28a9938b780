// Package qr renders session tokens as scannable images.
package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 256

// Renderer produces PNG data URLs from session tokens.
type Renderer struct {
	size int
}

// NewRenderer creates a renderer with the default image size.
func NewRenderer() *Renderer {
	return &Renderer{size: defaultSize}
}

// DataURL encodes token as a QR code and returns it as a base64 PNG data
// URL suitable for direct embedding in a client.
func (r *Renderer) DataURL(token string) (string, error) {
	png, err := qrcode.Encode(token, qrcode.Medium, r.size)
	if err != nil {
		return "", fmt.Errorf("encoding qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
