package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Dimensions is a pixel width and height pair
type Dimensions struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// String formats dimensions as WxH
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Valid reports whether both sides are positive
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// ParseDimensions converts a WxH string (e.g. "224x224") to Dimensions.
// The separator is case-insensitive and surrounding whitespace is ignored.
func ParseDimensions(s string) (Dimensions, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return Dimensions{}, fmt.Errorf("invalid size format %q: expected WxH", s)
	}

	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return Dimensions{}, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return Dimensions{}, fmt.Errorf("invalid height in %q: %w", s, err)
	}

	d := Dimensions{Width: width, Height: height}
	if !d.Valid() {
		return Dimensions{}, fmt.Errorf("invalid size %q: width and height must be > 0", s)
	}

	return d, nil
}
