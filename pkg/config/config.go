// Package config loads holopanel engine settings from TOML.
//
// Every field has a default (see [Default]); a config file only needs the
// keys it overrides:
//
//	row_unit = 80
//
//	[hit.world_tolerance]
//	x = 0.09
//	y = 0.04
//	z = 0.09
//
//	[pager]
//	swipe_delay = "150ms"
//
//	[colors]
//	highlight = "#FF3C7DD9"
//
// Load decodes a file, applies defaults for missing keys and validates the
// result. Invalid values produce INVALID_CONFIG errors.
package config

import (
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/holopanel/pkg/display"
	"github.com/matzehuels/holopanel/pkg/errors"
	"github.com/matzehuels/holopanel/pkg/geom"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultRowUnit is the vertical distance one scroll step moves feed content.
	DefaultRowUnit = 80.0

	// DefaultViewportWidth and DefaultViewportHeight size the frame root nodes resolve against.
	DefaultViewportWidth  = 1200.0
	DefaultViewportHeight = 800.0

	// DefaultPixelScale is the number of world blocks per panel pixel.
	DefaultPixelScale = 0.0025

	// DefaultSwipeDelay is the pager slide animation length.
	DefaultSwipeDelay = 150 * time.Millisecond

	// DefaultTeleportDuration is the client-side interpolation of animated moves (ticks).
	DefaultTeleportDuration = 3

	// DefaultPagerVisibleHeight is the layer the centered pager page sits on.
	DefaultPagerVisibleHeight = 4

	// DefaultHighlightScale is applied to item buttons under the cursor.
	DefaultHighlightScale = 1.2

	DefaultGlyphWidth = 12.0
	DefaultLineHeight = 24.0
	DefaultItemSize   = 64.0

	// DefaultCursorSensitivity is screen-space pixels per degree of look movement.
	DefaultCursorSensitivity = 20.0

	// DefaultScreenMinRadius keeps tiny nodes hittable in screen space.
	DefaultScreenMinRadius = 8.0
)

// Default world-space hit tolerances, in blocks.
var DefaultWorldTolerance = Tolerance{X: 0.09, Y: 0.04, Z: 0.09}

// Default palette.
const (
	DefaultBackground = "#40000000"
	DefaultHighlight  = "#FF3C7DD9"
	DefaultFeedFocus  = "#60202020"
	DefaultMarker     = "#FFFF00FF"
)

// =============================================================================
// Config
// =============================================================================

// Config holds every tunable of the engine.
type Config struct {
	RowUnit  float64        `toml:"row_unit"`
	Viewport ViewportConfig `toml:"viewport"`
	Hit      HitConfig      `toml:"hit"`
	Cursor   CursorConfig   `toml:"cursor"`
	Pager    PagerConfig    `toml:"pager"`
	Feed     FeedConfig     `toml:"feed"`
	Colors   ColorConfig    `toml:"colors"`
	Text     TextConfig     `toml:"text"`
	Item     ItemConfig     `toml:"item"`
	Button   ButtonConfig   `toml:"button"`
	Project  ProjectConfig  `toml:"projection"`
	Debug    DebugConfig    `toml:"debug"`
}

type ViewportConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Tolerance is a per-axis distance box in world blocks.
type Tolerance struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
	Z float64 `toml:"z"`
}

type HitConfig struct {
	WorldTolerance  Tolerance `toml:"world_tolerance"`
	ScreenMinRadius float64   `toml:"screen_min_radius"`
}

type CursorConfig struct {
	Sensitivity float64 `toml:"sensitivity"`
}

type PagerConfig struct {
	SwipeDelay       time.Duration `toml:"swipe_delay"`
	TeleportDuration int           `toml:"teleport_duration"`
	VisibleHeight    int           `toml:"visible_height"`
}

type FeedConfig struct {
	TeleportDuration int `toml:"teleport_duration"`
}

// ColorConfig holds "#RRGGBB" or "#AARRGGBB" strings.
type ColorConfig struct {
	Background string `toml:"background"`
	Highlight  string `toml:"highlight"`
	FeedFocus  string `toml:"feed_focus"`
	Marker     string `toml:"marker"`
}

type TextConfig struct {
	GlyphWidth float64 `toml:"glyph_width"`
	LineHeight float64 `toml:"line_height"`
}

type ItemConfig struct {
	Size float64 `toml:"size"`
}

type ButtonConfig struct {
	HighlightScale float64 `toml:"highlight_scale"`
}

type ProjectConfig struct {
	PixelScale float64 `toml:"pixel_scale"`
}

type DebugConfig struct {
	Corners bool `toml:"corners"`
}

// Palette is the parsed form of ColorConfig.
type Palette struct {
	Background display.Color
	Highlight  display.Color
	FeedFocus  display.Color
	Marker     display.Color
}

// Default returns a config with every field set to its default.
func Default() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults fills zero-valued fields with defaults.
func (c *Config) SetDefaults() {
	if c.RowUnit == 0 {
		c.RowUnit = DefaultRowUnit
	}
	if c.Viewport.Width == 0 {
		c.Viewport.Width = DefaultViewportWidth
	}
	if c.Viewport.Height == 0 {
		c.Viewport.Height = DefaultViewportHeight
	}
	if c.Hit.WorldTolerance == (Tolerance{}) {
		c.Hit.WorldTolerance = DefaultWorldTolerance
	}
	if c.Hit.ScreenMinRadius == 0 {
		c.Hit.ScreenMinRadius = DefaultScreenMinRadius
	}
	if c.Cursor.Sensitivity == 0 {
		c.Cursor.Sensitivity = DefaultCursorSensitivity
	}
	if c.Pager.SwipeDelay == 0 {
		c.Pager.SwipeDelay = DefaultSwipeDelay
	}
	if c.Pager.TeleportDuration == 0 {
		c.Pager.TeleportDuration = DefaultTeleportDuration
	}
	if c.Pager.VisibleHeight == 0 {
		c.Pager.VisibleHeight = DefaultPagerVisibleHeight
	}
	if c.Feed.TeleportDuration == 0 {
		c.Feed.TeleportDuration = DefaultTeleportDuration
	}
	if c.Colors.Background == "" {
		c.Colors.Background = DefaultBackground
	}
	if c.Colors.Highlight == "" {
		c.Colors.Highlight = DefaultHighlight
	}
	if c.Colors.FeedFocus == "" {
		c.Colors.FeedFocus = DefaultFeedFocus
	}
	if c.Colors.Marker == "" {
		c.Colors.Marker = DefaultMarker
	}
	if c.Text.GlyphWidth == 0 {
		c.Text.GlyphWidth = DefaultGlyphWidth
	}
	if c.Text.LineHeight == 0 {
		c.Text.LineHeight = DefaultLineHeight
	}
	if c.Item.Size == 0 {
		c.Item.Size = DefaultItemSize
	}
	if c.Button.HighlightScale == 0 {
		c.Button.HighlightScale = DefaultHighlightScale
	}
	if c.Project.PixelScale == 0 {
		c.Project.PixelScale = DefaultPixelScale
	}
}

// Validate checks value ranges and color syntax.
func (c *Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"row_unit", c.RowUnit},
		{"viewport.width", c.Viewport.Width},
		{"viewport.height", c.Viewport.Height},
		{"hit.world_tolerance.x", c.Hit.WorldTolerance.X},
		{"hit.world_tolerance.y", c.Hit.WorldTolerance.Y},
		{"hit.world_tolerance.z", c.Hit.WorldTolerance.Z},
		{"cursor.sensitivity", c.Cursor.Sensitivity},
		{"text.glyph_width", c.Text.GlyphWidth},
		{"text.line_height", c.Text.LineHeight},
		{"item.size", c.Item.Size},
		{"button.highlight_scale", c.Button.HighlightScale},
		{"projection.pixel_scale", c.Project.PixelScale},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be positive, got %g", p.name, p.v)
		}
	}
	if c.Hit.ScreenMinRadius < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "hit.screen_min_radius must not be negative")
	}
	if c.Pager.SwipeDelay < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "pager.swipe_delay must not be negative")
	}
	if c.Pager.TeleportDuration < 0 || c.Feed.TeleportDuration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "teleport durations must not be negative")
	}
	if _, err := c.Palette(); err != nil {
		return err
	}
	return nil
}

// Palette parses the configured colors.
func (c *Config) Palette() (Palette, error) {
	var p Palette
	fields := []struct {
		name string
		raw  string
		dst  *display.Color
	}{
		{"colors.background", c.Colors.Background, &p.Background},
		{"colors.highlight", c.Colors.Highlight, &p.Highlight},
		{"colors.feed_focus", c.Colors.FeedFocus, &p.FeedFocus},
		{"colors.marker", c.Colors.Marker, &p.Marker},
	}
	for _, f := range fields {
		col, err := display.ParseColor(f.raw)
		if err != nil {
			return Palette{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", f.name)
		}
		*f.dst = col
	}
	return p, nil
}

// MustPalette parses the palette of a validated config.
func (c *Config) MustPalette() Palette {
	p, err := c.Palette()
	if err != nil {
		panic(err)
	}
	return p
}

// ViewportSize returns the viewport as dimensions.
func (c *Config) ViewportSize() geom.Dimensions {
	return geom.Dimensions{Width: c.Viewport.Width, Height: c.Viewport.Height}
}

// =============================================================================
// Loading
// =============================================================================

// Load reads a TOML file. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	if err := errors.ValidatePath(path); err != nil {
		return Config{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeNotFound, err, "config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads TOML from r, applies defaults and validates.
func Decode(r io.Reader) (Config, error) {
	var c Config
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
