package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/holopanel/pkg/render"
)

// Render produces every requested format from a built scene.
func Render(ctx context.Context, h *Headless, opts Options) (map[string][]byte, error) {
	snap := render.Capture(h.Scene)
	out := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, h, snap, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		out[format] = data
	}
	return out, nil
}

func renderFormat(ctx context.Context, h *Headless, snap render.Snapshot, format string, opts Options) ([]byte, error) {
	dotOpts := render.DOTOptions{Anchors: opts.Anchors, Detailed: opts.Detailed}
	switch format {
	case FormatJSON:
		return render.JSON(snap)
	case FormatDOT:
		return []byte(render.ToDOT(snap, dotOpts)), nil
	case FormatSVG:
		return render.RenderSVG(ctx, render.ToDOT(snap, dotOpts))
	case FormatPNG:
		return render.PNG(h.Recorder.Live(), snap.Viewport, render.WithScale(opts.Scale))
	case FormatText:
		return []byte(render.Text(snap) + "\n"), nil
	}
	return nil, ValidateFormat(format)
}
