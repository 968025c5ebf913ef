package view

import (
	"github.com/matzehuels/holopanel/pkg/geom"
)

// PagerAdapter supplies the pages of a pager.
type PagerAdapter interface {
	// Count returns the number of pages.
	Count() int
	// RenderElement builds page index into target. selected is true for
	// the page shown in the middle pane.
	RenderElement(selected bool, index int, target *Node)
}

// CircularIndex wraps i into [0, count). It returns 0 when count is not
// positive.
func CircularIndex(i, count int) int {
	if count <= 0 {
		return 0
	}
	return ((i % count) + count) % count
}

type pagerState struct {
	adapter   PagerAdapter
	index     int
	left      NodeID
	center    NodeID
	right     NodeID
	timer     Timer
	animating bool
	listeners []func(index int)
}

// AddPager appends a three pane carousel over adapter. Clicking the right
// pane swipes left to the next page, clicking the left pane swipes right.
func (n *Node) AddPager(m *Modifier, adapter PagerAdapter) *Node {
	p := n.add(KindPager, m)
	p.pager = &pagerState{adapter: adapter}
	pane := func() *Node {
		return p.add(KindContainer, Modify().MatchParent().Absolute(0, 0))
	}
	left, center, right := pane(), pane(), pane()
	left.OnClick(func(*Node) { p.SwipeRight() })
	right.OnClick(func(*Node) { p.SwipeLeft() })
	p.pager.left, p.pager.center, p.pager.right = left.id, center.id, right.id
	return p
}

// Index returns the selected page.
func (n *Node) Index() int {
	if n.pager == nil {
		return 0
	}
	return n.pager.index
}

// Panes returns the left, center and right panes of a pager.
func (n *Node) Panes() (left, center, right *Node) {
	if n.pager == nil {
		return nil, nil, nil
	}
	left, _ = n.scene.Node(n.pager.left)
	center, _ = n.scene.Node(n.pager.center)
	right, _ = n.scene.Node(n.pager.right)
	return left, center, right
}

// Animating reports whether a swipe is in flight.
func (n *Node) Animating() bool { return n.pager != nil && n.pager.animating }

// OnPageChange registers fn to run after each completed swipe.
func (n *Node) OnPageChange(fn func(index int)) {
	if n.pager != nil {
		n.pager.listeners = append(n.pager.listeners, fn)
	}
}

// SetAdapter swaps the adapter and shows its first page.
func (n *Node) SetAdapter(a PagerAdapter) error {
	if n.pager == nil {
		return nil
	}
	n.pager.adapter = a
	n.pager.index = 0
	return n.resetPager()
}

// SetIndex selects a page, wrapping it into range.
func (n *Node) SetIndex(i int) error {
	if n.pager == nil {
		return nil
	}
	n.pager.index = CircularIndex(i, n.pageCount())
	return n.resetPager()
}

func (n *Node) pageCount() int {
	if n.pager.adapter == nil {
		return 0
	}
	return n.pager.adapter.Count()
}

// resetPager puts the panes back in their resting places and asks the
// adapter for the previous, current and next pages.
func (n *Node) resetPager() error {
	if n.pager == nil || n.handle == nil {
		return nil
	}
	left, center, right := n.Panes()
	if left == nil || center == nil || right == nil {
		return nil
	}
	w, err := n.scene.resolver().extent(n, geom.AxisX)
	if err != nil {
		n.layoutFailed(err)
		return err
	}
	cfg := n.scene.cfg.Pager
	shift := 2 * w / 3
	center.placePane(0, cfg.VisibleHeight, cfg.TeleportDuration)
	left.placePane(-shift, 0, cfg.TeleportDuration)
	right.placePane(shift, 0, cfg.TeleportDuration)

	count, idx := n.pageCount(), n.pager.index
	page := func(selected bool, i int) func(c *Node) {
		return func(c *Node) {
			if a := n.pager.adapter; a != nil && count > 0 {
				a.RenderElement(selected, CircularIndex(i, count), c)
			}
		}
	}
	if err := left.UpdateView(page(false, idx-1)); err != nil {
		return err
	}
	if err := right.UpdateView(page(false, idx+1)); err != nil {
		return err
	}
	return center.UpdateView(page(true, idx))
}

func (n *Node) placePane(x float64, height, teleport int) {
	n.modifier.Absolute(x, 0)
	n.height = height
	n.teleportDuration = teleport
}

// SwipeLeft slides to the next page. It reports false while another swipe
// is in flight or the pager is not rendered.
func (n *Node) SwipeLeft() bool { return n.swipe(1) }

// SwipeRight slides to the previous page.
func (n *Node) SwipeRight() bool { return n.swipe(-1) }

func (n *Node) swipe(step int) bool {
	if n.pager == nil || n.pager.animating || n.handle == nil || n.cleared {
		return false
	}
	left, center, right := n.Panes()
	if left == nil || center == nil || right == nil {
		return false
	}
	w, err := n.scene.resolver().extent(n, geom.AxisX)
	if err != nil {
		n.layoutFailed(err)
		return false
	}
	visible := n.scene.cfg.Pager.VisibleHeight
	leaving, incoming, shift := left, right, 2*w/3
	if step < 0 {
		leaving, incoming, shift = right, left, -shift
	}
	if err := leaving.UpdateView(nil); err != nil {
		n.scene.logger.Error("pager swipe", "pager", n.id, "err", err)
	}
	cm := center.modifier
	cm.X += shift
	_ = center.Update(SetTeleportDuration(0), SetHeight(0), SetModifier(&cm))
	_ = incoming.Update(SetTeleportDuration(0), SetHeight(visible))
	_ = leaving.Update(SetTeleportDuration(0))

	n.pager.animating = true
	t := n.scene.scheduler.AfterFunc(n.scene.cfg.Pager.SwipeDelay, func() { n.finishSwipe(step) })
	if n.pager.animating {
		n.pager.timer = t
	}
	return true
}

func (n *Node) finishSwipe(step int) {
	if n.cleared || n.pager == nil {
		return
	}
	n.pager.timer = nil
	n.pager.animating = false
	n.pager.index = CircularIndex(n.pager.index+step, n.pageCount())
	if n.pager.adapter != nil {
		for _, fn := range n.pager.listeners {
			fn(n.pager.index)
		}
	}
	n.scene.logger.Debug("page changed", "pager", n.id, "index", n.pager.index)
	if err := n.resetPager(); err != nil {
		n.scene.logger.Error("pager reset", "pager", n.id, "err", err)
	}
}
