// Package pipeline turns panel documents into inspection artifacts.
//
// A run has two stages:
//
//  1. Build: decode the document and lay it out on a headless scene backed
//     by the in-memory display recorder, optionally routing a pointer
//     position so highlight styles show up.
//  2. Render: capture the scene and produce each requested format.
//
// Rendered artifacts are cached by document hash, configuration hash and
// render options:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Document: data,
//	    Formats:  []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/holopanel/pkg/cache"
	"github.com/matzehuels/holopanel/pkg/config"
	"github.com/matzehuels/holopanel/pkg/document"
	perrors "github.com/matzehuels/holopanel/pkg/errors"
	"github.com/matzehuels/holopanel/pkg/geom"
	"github.com/matzehuels/holopanel/pkg/render"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatText = "txt"
)

// ValidFormats lists the supported formats in the order they are rendered.
var ValidFormats = []string{FormatJSON, FormatDOT, FormatSVG, FormatPNG, FormatText}

// DefaultScale is the PNG pixel scale.
const DefaultScale = 1.0

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return perrors.New(perrors.ErrCodeInvalidFormat, "invalid format %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options configures a run.
type Options struct {
	// Document is the TOML panel document.
	Document []byte
	// Name labels the document in logs and hooks.
	Name string

	Config config.Config

	Formats  []string
	Anchors  bool    // anchor edges in DOT and SVG
	Detailed bool    // boxes in DOT and SVG labels
	Scale    float64 // PNG pixel scale

	// Pointer, when set, is routed as a screen-space move before capture.
	Pointer *geom.Coordinates

	// Refresh skips cache reads.
	Refresh bool

	// Actions binds button action names. Unbound actions log a warning
	// when clicked.
	Actions document.Actions

	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks the options and fills zero values. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Document) == 0 {
		return perrors.New(perrors.ErrCodeInvalidDocument, "document is required")
	}
	if o.Name == "" {
		o.Name = "panel"
	}
	if o.Config == (config.Config{}) {
		o.Config = config.Default()
	} else {
		o.Config.SetDefaults()
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns the cache key options for format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatDOT, FormatSVG:
		k.Anchors, k.Detailed = o.Anchors, o.Detailed
	case FormatPNG:
		k.Scale = o.Scale
	}
	return k
}

// configHash covers the configuration and the pointer, both of which change
// every format.
func (o *Options) configHash() string {
	if o.Pointer == nil {
		return cache.HashValue(o.Config)
	}
	return cache.HashValue(struct {
		Config  config.Config
		Pointer geom.Coordinates
	}{o.Config, *o.Pointer})
}

// Result holds the outputs of a run.
type Result struct {
	Document  *document.Document
	DocHash   string
	Snapshot  render.Snapshot
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds sizes and timings.
type Stats struct {
	NodeCount  int
	Primitives int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo reports cache use for the render stage.
type CacheInfo struct {
	Hits      int  // formats served from cache
	RenderHit bool // every format came from cache
}

func (r Result) String() string {
	return fmt.Sprintf("%d nodes, %d primitives, %d artifacts", r.Stats.NodeCount, r.Stats.Primitives, len(r.Artifacts))
}
