package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/holopanel/pkg/errors"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.RowUnit != 80 {
		t.Errorf("RowUnit = %v, want 80", c.RowUnit)
	}
	if c.Hit.WorldTolerance != (Tolerance{0.09, 0.04, 0.09}) {
		t.Errorf("WorldTolerance = %+v", c.Hit.WorldTolerance)
	}
	if c.Pager.SwipeDelay != 150*time.Millisecond {
		t.Errorf("SwipeDelay = %v, want 150ms", c.Pager.SwipeDelay)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestDecodeOverrides(t *testing.T) {
	src := `
row_unit = 40

[pager]
swipe_delay = "300ms"

[colors]
highlight = "#112233"
`
	c, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if c.RowUnit != 40 {
		t.Errorf("RowUnit = %v, want 40", c.RowUnit)
	}
	if c.Pager.SwipeDelay != 300*time.Millisecond {
		t.Errorf("SwipeDelay = %v, want 300ms", c.Pager.SwipeDelay)
	}
	if c.Viewport.Width != DefaultViewportWidth {
		t.Errorf("Viewport.Width = %v, want default", c.Viewport.Width)
	}
	p, err := c.Palette()
	if err != nil {
		t.Fatalf("Palette() error = %v", err)
	}
	if p.Highlight != 0xFF112233 {
		t.Errorf("Highlight = %s, want #FF112233", p.Highlight.Hex())
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", "row_unit = "},
		{"unknown key", "rows = 3"},
		{"negative", "row_unit = -1"},
		{"bad color", "[colors]\nhighlight = \"blue\""},
		{"negative delay", "[pager]\nswipe_delay = \"-5ms\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Decode() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestLoadEmptyPath(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if c.RowUnit != DefaultRowUnit {
		t.Errorf("RowUnit = %v, want default", c.RowUnit)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir() + "/missing.toml")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load() error = %v, want %s", err, errors.ErrCodeNotFound)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	c, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if c.Pager.SwipeDelay != DefaultSwipeDelay {
		t.Errorf("SwipeDelay = %v, want %v", c.Pager.SwipeDelay, DefaultSwipeDelay)
	}
}
