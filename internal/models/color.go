package models

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is an 8-bit colour.
type RGB struct {
	R, G, B uint8
}

// ParseHexColor parses "#RRGGBB" or "RRGGBB".
func ParseHexColor(hex string) (RGB, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid hex colour %q: expected 6 digits", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", hex, err)
	}
	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}

// Hex renders the colour as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// NormalizeHexColor returns the canonical upper-case form of hex.
func NormalizeHexColor(hex string) (string, error) {
	c, err := ParseHexColor(hex)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}
