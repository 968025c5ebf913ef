package view

import (
	"fmt"
	"slices"

	"github.com/matzehuels/holopanel/pkg/display"
)

// NodeID addresses a node in its scene. IDs start at 1; 0 is [Parent].
type NodeID uint64

// Kind is the closed set of node variants.
type Kind int

const (
	KindText Kind = iota
	KindItem
	KindButton
	KindItemButton
	KindContainer
	KindList
	KindFeed
	KindListFeed
	KindPager
)

var kindNames = [...]string{"text", "item", "button", "item_button", "container", "list", "feed", "list_feed", "pager"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind converts a kind name back into a Kind.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// IsContainer reports whether nodes of this kind own children.
func (k Kind) IsContainer() bool {
	switch k {
	case KindContainer, KindList, KindFeed, KindListFeed, KindPager:
		return true
	}
	return false
}

// stacks reports whether appended children are chained top to bottom.
func (k Kind) stacks() bool { return k == KindList || k == KindListFeed }

// scrolls reports whether the kind virtualizes and scrolls its children.
func (k Kind) scrolls() bool { return k == KindFeed || k == KindListFeed }

// primitive returns the display primitive a kind renders as.
func (k Kind) primitive() display.Kind {
	switch k {
	case KindText, KindButton:
		return display.KindText
	case KindItem, KindItemButton:
		return display.KindItem
	case KindContainer, KindList, KindFeed, KindListFeed, KindPager:
		return display.KindContainer
	}
	panic(fmt.Sprintf("view: node kind %d has no display primitive", int(k)))
}

// Node is a positioned, sizeable unit of the scene graph.
type Node struct {
	id    NodeID
	kind  Kind
	scene *Scene

	modifier   Modifier
	parent     NodeID
	children   []NodeID
	dependents []NodeID

	handle  display.Handle
	markers []display.Handle

	visible          bool
	height           int
	teleportDuration int
	offset           int

	text        string
	item        string
	background  display.Color
	highlighted bool

	attached bool
	cleared  bool

	content   func(c *Node)
	onClick   []func(n *Node)
	onText    []func(n *Node, text string)
	onDestroy []func()

	feed  *feedState
	pager *pagerState
}

func (n *Node) ID() NodeID            { return n.id }
func (n *Node) Kind() Kind            { return n.kind }
func (n *Node) Scene() *Scene         { return n.scene }
func (n *Node) Text() string          { return n.text }
func (n *Node) Item() string          { return n.item }
func (n *Node) Visible() bool         { return n.visible }
func (n *Node) Height() int           { return n.height }
func (n *Node) Offset() int           { return n.offset }
func (n *Node) Highlighted() bool     { return n.highlighted }
func (n *Node) Cleared() bool         { return n.cleared }
func (n *Node) TeleportDuration() int { return n.teleportDuration }

// Modifier returns a copy of the node's layout specification.
func (n *Node) Modifier() Modifier { return *n.modifier.Clone() }

// Handle returns the live display handle, or nil when the node is not rendered.
func (n *Node) Handle() display.Handle { return n.handle }

// HasDisplay reports whether the node currently owns a display handle.
func (n *Node) HasDisplay() bool { return n.handle != nil }

// Parent returns the parent node, or nil for roots and detached nodes.
func (n *Node) Parent() *Node {
	if n.parent == 0 {
		return nil
	}
	return n.scene.nodes[n.parent]
}

// Children returns the live children in insertion (paint) order.
func (n *Node) Children() []*Node { return n.scene.resolve(n.children) }

// Dependents returns the nodes whose layout is anchored to this node.
func (n *Node) Dependents() []*Node { return n.scene.resolve(n.dependents) }

// Clickable reports whether pointer clicks can target this node.
func (n *Node) Clickable() bool {
	return n.kind == KindButton || n.kind == KindItemButton || len(n.onClick) > 0
}

// Scrollable reports whether the node captures scroll input while focused.
func (n *Node) Scrollable() bool { return n.kind.scrolls() }

// OnClick registers a click listener. A rendered node becomes a hit-test
// candidate immediately.
func (n *Node) OnClick(fn func(n *Node)) {
	n.onClick = append(n.onClick, fn)
	n.register()
}

// OnText registers a listener for raw text input while this node is highlighted.
func (n *Node) OnText(fn func(n *Node, text string)) { n.onText = append(n.onText, fn) }

// OnDestroy registers fn to run when the node is cleared. Subscriptions tied
// to the node's lifetime should be disposed here.
func (n *Node) OnDestroy(fn func()) { n.onDestroy = append(n.onDestroy, fn) }

// Click invokes every click listener if the node is visible.
// It reports whether any listener ran.
func (n *Node) Click() bool {
	if n.cleared || !n.visible || len(n.onClick) == 0 {
		return false
	}
	for _, fn := range slices.Clone(n.onClick) {
		fn(n)
	}
	return true
}

// Type delivers text input to the node's text listeners.
func (n *Node) Type(text string) bool {
	if n.cleared || len(n.onText) == 0 {
		return false
	}
	for _, fn := range slices.Clone(n.onText) {
		fn(n, text)
	}
	return true
}

// attach links n under parent and registers n as a dependent of every node
// its modifier anchors to.
func (n *Node) attach(parent *Node) {
	n.parent = parent.id
	n.attached = true
	n.offset = parent.childOffset()
	n.linkAnchors()
}

func (n *Node) linkAnchors() {
	for _, a := range n.modifier.anchors() {
		if a == nil || a.Node == Parent || a.Node == n.parent {
			continue
		}
		if target, ok := n.scene.nodes[a.Node]; ok && !slices.Contains(target.dependents, n.id) {
			target.dependents = append(target.dependents, n.id)
		}
	}
}

func (n *Node) unlinkAnchors() {
	for _, a := range n.modifier.anchors() {
		if a == nil {
			continue
		}
		if target, ok := n.scene.nodes[a.Node]; ok {
			target.dependents = slices.DeleteFunc(target.dependents, func(id NodeID) bool { return id == n.id })
		}
	}
}

// childOffset is the scroll offset new children inherit.
func (n *Node) childOffset() int {
	if n.feed != nil {
		return n.feed.offset
	}
	return 0
}

// UpdateOption overwrites one field in [Node.Update].
type UpdateOption func(u *update)

type update struct {
	text, item       *string
	modifier         *Modifier
	visible          *bool
	background       *display.Color
	height, teleport *int
}

func SetText(s string) UpdateOption  { return func(u *update) { u.text = &s } }
func SetItem(s string) UpdateOption  { return func(u *update) { u.item = &s } }
func SetVisible(v bool) UpdateOption { return func(u *update) { u.visible = &v } }
func SetHeight(h int) UpdateOption   { return func(u *update) { u.height = &h } }

// SetBackground sets the container background color.
func SetBackground(c display.Color) UpdateOption { return func(u *update) { u.background = &c } }

// SetTeleportDuration sets the interpolation ticks used on the next move.
func SetTeleportDuration(d int) UpdateOption { return func(u *update) { u.teleport = &d } }

// SetModifier replaces the modifier wholesale.
func SetModifier(m *Modifier) UpdateOption {
	c := m.Clone()
	return func(u *update) { u.modifier = c }
}

// Update overwrites the given fields and patches the display in place.
// A new modifier re-links anchors and ripples to dependents. Calls on a node
// without a display handle only change state.
func (n *Node) Update(opts ...UpdateOption) error {
	if n.cleared {
		return nil
	}
	var u update
	for _, opt := range opts {
		opt(&u)
	}
	if u.text != nil {
		n.text = *u.text
	}
	if u.item != nil {
		n.item = *u.item
	}
	if u.background != nil {
		n.background = *u.background
	}
	if u.height != nil {
		n.height = *u.height
	}
	if u.teleport != nil {
		n.teleportDuration = *u.teleport
	}
	if u.modifier != nil {
		n.unlinkAnchors()
		n.modifier = *u.modifier
		n.linkAnchors()
	}
	if u.visible != nil && *u.visible != n.visible {
		n.visible = *u.visible
		if !n.visible {
			n.unrender()
			return nil
		}
		if n.renderable() {
			return n.Render()
		}
		return nil
	}
	if u.modifier != nil {
		return n.UpdatePosition()
	}
	return n.updateDisplay()
}

// renderable reports whether the node would be shown if rendered now: every
// ancestor is visible and rendered, and no enclosing feed hides it.
func (n *Node) renderable() bool {
	p := n.Parent()
	if p == nil {
		return n.attached
	}
	if p.handle == nil {
		return false
	}
	if p.feed != nil {
		return p.feed.rendered[n.id]
	}
	return true
}

// Clear destroys the node: its display handle is removed, destroy listeners
// run, children are cleared and the node leaves the arena. Clear is
// idempotent; a cleared node must not be used again.
func (n *Node) Clear() {
	if n.cleared {
		return
	}
	n.cleared = true
	if n.pager != nil && n.pager.timer != nil {
		n.pager.timer.Stop()
		n.pager.timer = nil
	}
	n.removeDisplay()
	for _, c := range n.Children() {
		c.Clear()
	}
	n.children = nil
	for _, fn := range n.onDestroy {
		fn()
	}
	n.onDestroy = nil
	n.unlinkAnchors()
	var next *Node
	p := n.Parent()
	if p != nil && !p.cleared {
		next = p.restack(n.id)
		p.children = slices.DeleteFunc(p.children, func(id NodeID) bool { return id == n.id })
		if p.feed != nil {
			delete(p.feed.rendered, n.id)
		}
	}
	n.scene.roots = slices.DeleteFunc(n.scene.roots, func(id NodeID) bool { return id == n.id })
	delete(n.scene.nodes, n.id)
	if next == nil {
		return
	}
	var err error
	if p.feed != nil && p.handle != nil {
		err = p.renderFeed()
	} else {
		err = next.UpdatePosition()
	}
	if err != nil {
		n.scene.logger.Error("restack", "node", next.id, "err", err)
	}
}
