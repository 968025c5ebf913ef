// Package view implements the panel scene graph: nodes, modifiers, the
// layout resolver, the render pipeline and the scrollable and paged
// containers built on top of them.
//
// # Arena
//
// A [Scene] owns every node of one player's panels. Nodes refer to each
// other (parent, anchors, dependents) by [NodeID] only; the scene is the
// single lookup table. A scene, its nodes and their display handles are not
// safe for concurrent use: all calls must happen on the owning session's
// dispatcher.
//
// # Layout
//
// Layout is resolved on demand from each node's [Modifier]. Sizes are fixed,
// wrapped to content, matched to the parent or filled between two anchors.
// Positions are absolute, centered (a margin differential) or aligned to one
// or two anchors. Two anchors on the same axis average; they do not stretch
// the node. Resolution fails loudly with LAYOUT_UNDERSPECIFIED or
// LAYOUT_CYCLE errors.
//
// # Rendering
//
// Render creates display handles top-down. Update patches a handle in place.
// UpdateView is the only way children change: the container is emptied and
// its content builder runs again, then the subtree renders from scratch.
//
//	root := scene.NewRoot(view.Modify().Size(1000, 600), func(c *view.Node) {
//	    title := c.AddText("Homes", view.Modify().WrapContent().CenterHorizontally().AlignTopTo(view.TopOf(view.Parent)))
//	    c.AddButton("Close", view.Modify().WrapContent().AlignTopTo(view.BottomOf(title.ID())).CenterHorizontally(), onClose)
//	})
//	if err := root.Render(); err != nil {
//	    return err
//	}
package view
