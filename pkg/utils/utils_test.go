package utils

import (
	"testing"
)

func TestParseDimensions(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Dimensions
		wantErr  bool
	}{
		{"square", "224x224", Dimensions{224, 224}, false},
		{"wide", "640x480", Dimensions{640, 480}, false},
		{"uppercase separator", "100X50", Dimensions{100, 50}, false},
		{"surrounding spaces", " 32x16 ", Dimensions{32, 16}, false},
		{"spaces around separator", "32 x 16", Dimensions{32, 16}, false},

		{"empty", "", Dimensions{}, true},
		{"no separator", "224", Dimensions{}, true},
		{"missing height", "224x", Dimensions{}, true},
		{"letters", "axb", Dimensions{}, true},
		{"zero width", "0x10", Dimensions{}, true},
		{"negative height", "10x-1", Dimensions{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDimensions(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDimensions(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDimensions(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseDimensions(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDimensionsString(t *testing.T) {
	d := Dimensions{Width: 224, Height: 100}
	if d.String() != "224x100" {
		t.Errorf("expected 224x100, got %s", d.String())
	}
	if !d.Valid() {
		t.Error("expected valid dimensions")
	}
	if (Dimensions{Width: 224}).Valid() {
		t.Error("expected dimensions with zero height to be invalid")
	}
}

func TestHashBytes(t *testing.T) {
	data := []byte("same content")

	first := HashBytes(data)
	if len(first) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(first))
	}
	if HashBytes([]byte("same content")) != first {
		t.Error("identical content should hash identically")
	}
	if HashBytes([]byte("other")) == first {
		t.Error("different content should hash differently")
	}
}
