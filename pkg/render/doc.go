// Package render turns a scene into artifacts for inspection.
//
// # Snapshot
//
// [Capture] walks a [view.Scene] and records every live node: its kind,
// content, absolute box, layer and anchor edges. A node whose layout fails
// is still recorded, with the error text in place of a box. All sinks except
// PNG work from a snapshot:
//
//	snap := render.Capture(scene)
//	data, err := render.JSON(snap)
//	dot := render.ToDOT(snap, render.DOTOptions{Anchors: true})
//	svg, err := render.RenderSVG(dot)
//	fmt.Println(render.Text(snap))
//
// # Raster
//
// [PNG] paints the primitives a backend holds, so it shows exactly what the
// viewer would see, highlight styles included. The headless
// [memory.Recorder] is the usual source:
//
//	png, err := render.PNG(rec.Live(), cfg.ViewportSize())
//
// [memory.Recorder]: github.com/matzehuels/holopanel/pkg/display/memory
package render
