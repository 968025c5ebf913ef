// Package pkg provides the core libraries of Holopanel, a headless layout
// engine for in-game UI panels.
//
// # Overview
//
// A panel is a tree of nodes positioned by anchoring their edges to the edges
// of their parent or siblings. The engine resolves that tree into absolute
// boxes, draws each node as a display primitive through a pluggable backend,
// and routes pointer, scroll and text input back to the nodes. The pkg
// directory is organized into three areas:
//
//  1. Engine: [geom], [view], [input], [display]
//  2. Runtime: [session], [config], [observability], [errors]
//  3. Tooling: [document], [render], [cache], [pipeline]
//
// # Architecture
//
// The typical data flow:
//
//	panel document (TOML)
//	         ↓
//	    [document] package (decode, validate, build nodes)
//	         ↓
//	    [view] package (resolve anchors, render primitives)
//	         ↓
//	    [display] backend (in-game entities, or [display/memory] headless)
//	         ↑
//	    [input] package (hit testing, clicks, scroll)
//
// # Quick Start
//
// Build a panel by hand and route a pointer to it:
//
//	import (
//	    "github.com/matzehuels/holopanel/pkg/display/memory"
//	    "github.com/matzehuels/holopanel/pkg/geom"
//	    "github.com/matzehuels/holopanel/pkg/input"
//	    "github.com/matzehuels/holopanel/pkg/view"
//	)
//
//	scene := view.NewScene(memory.New())
//	router := input.NewRouter(scene)
//
//	root := scene.NewRoot(view.Modify().Size(600, 400), func(c *view.Node) {
//	    title := c.AddText("Homes", view.Modify().CenterHorizontally().AlignTopTo(view.TopOf(view.Parent)))
//	    c.AddButton("Close", view.Modify().CenterHorizontally().AlignTopTo(view.BottomOf(title.ID())), func(*view.Node) {
//	        scene.Clear()
//	    })
//	})
//	if err := root.Render(); err != nil {
//	    return err
//	}
//	router.Handle(input.ScreenMove(geom.Coordinates{X: 0, Y: 150}))
//
// Or run the whole document pipeline:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{
//	    Document: data,
//	    Formats:  []string{pipeline.FormatPNG},
//	})
//
// # Engine
//
// [view] holds the scene graph. A [view.Scene] is an arena of nodes owned by
// one session; nodes reference each other by [view.NodeID]. Layout is
// resolved lazily and memoized until a rebuild or position update
// invalidates it. Containers rebuild their children from a content builder
// so updates are incremental: only the rebuilt subtree is redrawn.
//
// [input] implements the two hit-testing pipelines (world location against a
// tolerance box, screen coordinate against a scaled ellipse), click dispatch
// and scroll capture by the hovered feed.
//
// [display] defines the backend boundary. [display/memory] records every
// primitive and is the backend used by tests, the CLI and the HTTP server.
//
// # Runtime
//
// [session] gives every player a serialized dispatcher. Nothing in [view] or
// [input] is safe for concurrent use, so background work posts back through
// the dispatcher.
//
// [config] loads TOML configuration, [observability] exposes hooks for
// metrics, and [errors] defines the coded errors returned across packages.
//
// # Tooling
//
// [document] declares panels in TOML. [render] turns a scene into JSON, DOT,
// SVG, PNG or text. [pipeline] ties both together with the [cache].
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/holopanel/pkg/geom
// [view]: https://pkg.go.dev/github.com/matzehuels/holopanel/pkg/view
// [view.Scene]: https://pkg.go.dev/github.com/matzehuels/holopanel/pkg/view#Scene
// [view.NodeID]: https://pkg.go.dev/github.com/matzehuels/holopanel/pkg/view#NodeID
// [input]: https://pkg.go.dev/github.com/matzehuels/holopanel/pkg/input
// [display]: https://pkg.go.dev/github.com/matzehuels/holopanel/pkg/display
// [display/memory]: https://pkg.go.dev/github.com/matzehuels/holopanel/pkg/display/memory
// [session]: https://pkg.go.dev/github.com/matzehuels/holopanel/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/holopanel/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/holopanel/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/holopanel/pkg/errors
// [document]: https://pkg.go.dev/github.com/matzehuels/holopanel/pkg/document
// [render]: https://pkg.go.dev/github.com/matzehuels/holopanel/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/holopanel/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/holopanel/pkg/pipeline
package pkg
