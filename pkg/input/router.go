// Package input routes pointer, scroll and text input to the nodes of a
// scene.
//
// Two hit-testing pipelines share one algorithm. The world pipeline compares
// a world location against each interactive node's projected position inside
// a fixed per-axis tolerance box. The screen pipeline compares a panel
// coordinate against an ellipse scaled by each node's half size. In both,
// the nearest candidate wins, ties go to the higher layer and then to the
// node registered first, the winner is highlighted and every other node is
// not.
//
// Feeds are matched separately by containment. The hovered feed gets focus
// and captures scroll input until the pointer leaves it.
package input

import (
	"context"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/holopanel/pkg/config"
	"github.com/matzehuels/holopanel/pkg/display"
	"github.com/matzehuels/holopanel/pkg/geom"
	"github.com/matzehuels/holopanel/pkg/observability"
	"github.com/matzehuels/holopanel/pkg/view"
)

// Router owns the input state of one scene. Like the scene, it must only be
// used from the owning session's dispatcher.
type Router struct {
	ctx    context.Context
	scene  *view.Scene
	cfg    config.Config
	proj   geom.Projection
	logger *log.Logger
	cursor Cursor

	scrolling bool
	focused   view.NodeID
	fallback  func(dir display.Direction)
}

// Option configures a Router.
type Option func(*Router)

// WithProjection places the panel in the world.
func WithProjection(p geom.Projection) Option { return func(r *Router) { r.proj = p } }

// WithLogger sets the logger. A nil logger keeps the scene's logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithContext sets the context passed to observability hooks.
func WithContext(ctx context.Context) Option { return func(r *Router) { r.ctx = ctx } }

// WithFallback sets the receiver of scroll steps no feed captured.
func WithFallback(fn func(dir display.Direction)) Option {
	return func(r *Router) { r.fallback = fn }
}

// NewRouter creates a router for scene and installs it as the scene's
// scroll sink.
func NewRouter(scene *view.Scene, opts ...Option) *Router {
	cfg := scene.Config()
	r := &Router{
		ctx:    context.Background(),
		scene:  scene,
		cfg:    cfg,
		proj:   geom.Projection{PixelScale: cfg.Project.PixelScale},
		logger: scene.Logger(),
		cursor: Cursor{Sensitivity: cfg.Cursor.Sensitivity},
	}
	for _, opt := range opts {
		opt(r)
	}
	scene.SetScrollSink(r)
	return r
}

// Projection returns the panel placement.
func (r *Router) Projection() geom.Projection { return r.proj }

// SetProjection moves the panel.
func (r *Router) SetProjection(p geom.Projection) { r.proj = p }

// Cursor returns the synthesized screen cursor position.
func (r *Router) Cursor() geom.Coordinates { return r.cursor.Position() }

// Scrolling reports whether a feed currently captures scroll input.
func (r *Router) Scrolling() bool { return r.scrolling }

// FocusedFeed returns the feed capturing scroll input, if any.
func (r *Router) FocusedFeed() *view.Node {
	if !r.scrolling {
		return nil
	}
	n, _ := r.scene.Node(r.focused)
	return n
}

// SetScrolling implements view.ScrollSink.
func (r *Router) SetScrolling(enabled bool, feed view.NodeID) {
	switch {
	case enabled:
		r.scrolling, r.focused = true, feed
	case r.focused == feed:
		r.scrolling, r.focused = false, 0
	}
}

// Highlighted returns the node under the pointer, if any.
func (r *Router) Highlighted() *view.Node {
	for _, n := range r.scene.Buttons() {
		if n.Highlighted() {
			return n
		}
	}
	return nil
}

// Handle processes one pointer event.
func (r *Router) Handle(ev Event) error {
	switch ev.Type {
	case Move:
		return r.move(ev)
	case Click:
		r.click()
	case Clear:
		r.highlight(nil)
		r.focus(nil)
	case Calibrate:
		r.cursor.Calibrate(ev.Yaw, ev.Pitch)
	}
	return nil
}

// Look casts a ray from eye along the given angles and moves the pointer
// to where it meets the panel. A ray that misses the panel clears all
// highlights.
func (r *Router) Look(eye geom.Vec3, yaw, pitch float64) error {
	hit, ok := Intersect(eye, LookDirection(yaw, pitch), r.proj)
	if !ok {
		return r.Handle(Event{Type: Clear})
	}
	return r.Handle(WorldMove(hit))
}

func (r *Router) move(ev Event) error {
	var p pointer
	switch {
	case ev.World != nil:
		p = pointer{world: true, at: *ev.World, panel: r.proj.ToPanel(*ev.World)}
	case ev.Screen != nil:
		p = pointer{panel: *ev.Screen}
	default:
		p = pointer{panel: r.cursor.Look(ev.Yaw, ev.Pitch)}
	}
	target, err := r.nearest(p, r.scene.Buttons(), r.buttonDistance)
	if err != nil {
		return err
	}
	r.highlight(target)
	feed, err := r.nearest(p, r.scene.Scrollables(), r.feedDistance)
	if err != nil {
		return err
	}
	r.focus(feed)
	return nil
}

// pointer is a Move resolved into the coordinates both pipelines need.
type pointer struct {
	world bool
	at    geom.Vec3
	panel geom.Coordinates
}

// distanceFunc returns a squared distance and whether the node is a
// candidate at all.
type distanceFunc func(p pointer, n *view.Node) (float64, bool, error)

// nearest picks the closest candidate. Candidates come in registration
// order, so a strict comparison keeps the earlier node on ties.
func (r *Router) nearest(p pointer, nodes []*view.Node, dist distanceFunc) (*view.Node, error) {
	var (
		best     *view.Node
		bestDist float64
	)
	for _, n := range nodes {
		if !n.Visible() || !n.HasDisplay() {
			continue
		}
		d, ok, err := dist(p, n)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if best == nil || d < bestDist || (d == bestDist && n.Layer() > best.Layer()) {
			best, bestDist = n, d
		}
	}
	return best, nil
}

func (r *Router) buttonDistance(p pointer, n *view.Node) (float64, bool, error) {
	box, err := n.AbsoluteBox()
	if err != nil {
		return 0, false, err
	}
	if p.world {
		d := p.at.Sub(r.proj.ToWorld(box.Center))
		tol := r.cfg.Hit.WorldTolerance
		if math.Abs(d.X) > tol.X || math.Abs(d.Y) > tol.Y || math.Abs(d.Z) > tol.Z {
			return 0, false, nil
		}
		return d.X*d.X + d.Y*d.Y + d.Z*d.Z, true, nil
	}
	dx, dy := p.panel.X-box.Center.X, p.panel.Y-box.Center.Y
	rx := math.Max(box.Size.Width/2, r.cfg.Hit.ScreenMinRadius)
	ry := math.Max(box.Size.Height/2, r.cfg.Hit.ScreenMinRadius)
	if (dx*dx)/(rx*rx)+(dy*dy)/(ry*ry) > 1 {
		return 0, false, nil
	}
	return dx*dx + dy*dy, true, nil
}

func (r *Router) feedDistance(p pointer, n *view.Node) (float64, bool, error) {
	box, err := n.AbsoluteBox()
	if err != nil {
		return 0, false, err
	}
	if p.world {
		depth := p.at.Sub(r.proj.Origin).Dot(r.proj.Normal())
		if math.Abs(depth) > r.cfg.Hit.WorldTolerance.Z {
			return 0, false, nil
		}
	}
	if !box.Contains(p.panel) {
		return 0, false, nil
	}
	dx, dy := p.panel.X-box.Center.X, p.panel.Y-box.Center.Y
	return dx*dx + dy*dy, true, nil
}

// highlight makes target the only highlighted button.
func (r *Router) highlight(target *view.Node) {
	for _, n := range r.scene.Buttons() {
		if n != target && n.Highlighted() {
			n.SetHighlighted(false)
			observability.Input().OnHighlight(r.ctx, uint64(n.ID()), false)
		}
	}
	if target != nil && !target.Highlighted() {
		target.SetHighlighted(true)
		observability.Input().OnHighlight(r.ctx, uint64(target.ID()), true)
		r.logger.Debug("highlight", "node", target.ID(), "kind", target.Kind())
	}
}

// focus makes feed the only highlighted feed.
func (r *Router) focus(feed *view.Node) {
	for _, n := range r.scene.Scrollables() {
		if n != feed && n.Highlighted() {
			n.SetHighlighted(false)
		}
	}
	if feed != nil && !feed.Highlighted() {
		feed.SetHighlighted(true)
	}
}

func (r *Router) click() {
	n := r.Highlighted()
	if n == nil || !n.Visible() {
		return
	}
	if n.Click() {
		observability.Input().OnClick(r.ctx, uint64(n.ID()))
		r.logger.Debug("click", "node", n.ID(), "kind", n.Kind())
	}
}

// HandleScroll sends one scroll step to the focused feed, or to the
// fallback when no feed captures scrolling.
func (r *Router) HandleScroll(dir display.Direction) error {
	if feed := r.FocusedFeed(); feed != nil {
		observability.Input().OnScrollRouted(r.ctx, uint64(feed.ID()), dir.String())
		_, err := feed.Scroll(dir)
		return err
	}
	observability.Input().OnScrollRouted(r.ctx, 0, dir.String())
	if r.fallback != nil {
		r.fallback(dir)
	}
	return nil
}

// HandleText delivers raw text input to the highlighted node. It reports
// whether any listener received it.
func (r *Router) HandleText(text string) bool {
	n := r.Highlighted()
	if n == nil {
		return false
	}
	return n.Type(text)
}

// Ensure Router implements view.ScrollSink.
var _ view.ScrollSink = (*Router)(nil)
