package view

import "github.com/matzehuels/holopanel/pkg/display"

// SetHighlighted switches the pointer highlight of a node. Text buttons
// turn bold on the highlight color, item buttons scale up, feeds take the
// focus background and capture scroll input, other containers take the
// highlight background.
//
// Feeds only toggle scroll capture on a transition, so repeated calls with
// the same value are cheap.
func (n *Node) SetHighlighted(on bool) {
	if n.cleared {
		return
	}
	was := n.highlighted
	n.highlighted = on
	if n.feed != nil && was != on {
		n.feed.focused = on
		n.scene.setScrolling(on, n.id)
	}
	if n.handle == nil || was == on {
		return
	}
	spec, err := n.displaySpec()
	if err != nil {
		n.layoutFailed(err)
		return
	}
	switch n.kind {
	case KindText, KindButton:
		n.handle.Update(spec)
	case KindItem, KindItemButton:
		n.handle.SetTransformation(display.Transformation{Scale: spec.Scale})
	default:
		n.handle.SetBackgroundColor(spec.Background)
	}
	n.handle.RenderUpdate()
}
