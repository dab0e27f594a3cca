// Package qr renders rider codes as PNG QR images.
package qr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bicisena/bicisena-backend/pkg/config"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	defaultSize = 256
	minSize     = 64
	maxSize     = 1024
)

// ErrEmptyContent is returned when asked to encode an empty code.
var ErrEmptyContent = errors.New("qr content cannot be empty")

// Encoder produces PNG QR images with a fixed size and recovery level.
type Encoder struct {
	size  int
	level qrcode.RecoveryLevel
}

// NewEncoder builds an encoder from configuration, clamping the size.
func NewEncoder(cfg config.QRConfig) *Encoder {
	size := cfg.Size
	switch {
	case size == 0:
		size = defaultSize
	case size < minSize:
		size = minSize
	case size > maxSize:
		size = maxSize
	}
	return &Encoder{size: size, level: parseLevel(cfg.RecoveryLevel)}
}

// EncodePNG returns the PNG bytes of a QR symbol whose payload is exactly content.
func (e *Encoder) EncodePNG(content string) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	png, err := qrcode.Encode(content, e.level, e.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

func parseLevel(value string) qrcode.RecoveryLevel {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "low":
		return qrcode.Low
	case "high":
		return qrcode.High
	case "highest":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}
