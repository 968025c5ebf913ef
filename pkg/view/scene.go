package view

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/holopanel/pkg/config"
	"github.com/matzehuels/holopanel/pkg/display"
	"github.com/matzehuels/holopanel/pkg/geom"
)

// ScrollSink receives scroll-capture changes. The input router implements
// it: while a feed is focused, hotbar scroll goes to the feed instead of
// falling through to the world.
type ScrollSink interface {
	SetScrolling(enabled bool, feed NodeID)
}

// Scene is the node arena for one player.
type Scene struct {
	ctx       context.Context
	cfg       config.Config
	palette   config.Palette
	backend   display.Backend
	logger    *log.Logger
	scheduler Scheduler
	sink      ScrollSink

	nodes  map[NodeID]*Node
	nextID NodeID
	roots  []NodeID

	buttons     registry
	scrollables registry
}

// Option configures a Scene.
type Option func(*Scene)

// WithConfig sets the engine configuration. The config must be validated.
func WithConfig(c config.Config) Option { return func(s *Scene) { s.cfg = c } }

// WithLogger sets the logger. A nil logger keeps log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithScheduler sets the timer source used by pager animations.
func WithScheduler(sch Scheduler) Option { return func(s *Scene) { s.scheduler = sch } }

// WithScrollSink sets the receiver of feed focus changes.
func WithScrollSink(sink ScrollSink) Option { return func(s *Scene) { s.sink = sink } }

// WithContext sets the context passed to observability hooks.
func WithContext(ctx context.Context) Option { return func(s *Scene) { s.ctx = ctx } }

// NewScene creates an empty scene drawing through backend.
func NewScene(backend display.Backend, opts ...Option) *Scene {
	s := &Scene{
		ctx:       context.Background(),
		cfg:       config.Default(),
		backend:   backend,
		logger:    log.Default(),
		scheduler: InlineScheduler{},
		nodes:     make(map[NodeID]*Node),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.palette = s.cfg.MustPalette()
	return s
}

// Config returns the scene configuration.
func (s *Scene) Config() config.Config { return s.cfg }

// Logger returns the scene logger.
func (s *Scene) Logger() *log.Logger { return s.logger }

// Backend returns the display backend.
func (s *Scene) Backend() display.Backend { return s.backend }

// SetScrollSink replaces the scroll-capture receiver.
func (s *Scene) SetScrollSink(sink ScrollSink) { s.sink = sink }

// Node looks up a live node. Cleared nodes are gone from the arena.
func (s *Scene) Node(id NodeID) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Len returns the number of live nodes.
func (s *Scene) Len() int { return len(s.nodes) }

// Roots returns the live root nodes in creation order.
func (s *Scene) Roots() []*Node {
	out := make([]*Node, 0, len(s.roots))
	for _, id := range s.roots {
		if n, ok := s.nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Walk visits every live node depth-first, roots in creation order.
// Returning false from fn skips the node's children.
func (s *Scene) Walk(fn func(n *Node) bool) {
	var visit func(n *Node)
	visit = func(n *Node) {
		if !fn(n) {
			return
		}
		for _, c := range n.Children() {
			visit(c)
		}
	}
	for _, r := range s.Roots() {
		visit(r)
	}
}

// NewRoot creates a top-level container, runs content against it and returns
// it unrendered. Root nodes resolve against the configured viewport.
func (s *Scene) NewRoot(m *Modifier, content func(c *Node)) *Node {
	n := s.newNode(KindContainer, m)
	n.attached = true
	s.roots = append(s.roots, n.id)
	n.content = content
	if content != nil {
		content(n)
	}
	return n
}

// Clear destroys every root.
func (s *Scene) Clear() {
	for _, r := range s.Roots() {
		r.Clear()
	}
	s.roots = nil
}

// Buttons returns the rendered clickable nodes in registration order.
func (s *Scene) Buttons() []*Node { return s.resolve(s.buttons.entries()) }

// Scrollables returns the rendered feeds in registration order.
func (s *Scene) Scrollables() []*Node { return s.resolve(s.scrollables.entries()) }

func (s *Scene) resolve(ids []NodeID) []*Node {
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := s.nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

func (s *Scene) newNode(kind Kind, m *Modifier) *Node {
	s.nextID++
	if m == nil {
		m = Modify()
	}
	n := &Node{
		id:               s.nextID,
		kind:             kind,
		scene:            s,
		modifier:         *m.Clone(),
		visible:          true,
		teleportDuration: s.cfg.Feed.TeleportDuration,
	}
	s.nodes[n.id] = n
	return n
}

func (s *Scene) setScrolling(enabled bool, feed NodeID) {
	s.logger.Debug("scroll capture", "enabled", enabled, "feed", feed)
	if s.sink != nil {
		s.sink.SetScrolling(enabled, feed)
	}
}

func (s *Scene) viewport() geom.Dimensions { return s.cfg.ViewportSize() }

// =============================================================================
// Interactive registries
// =============================================================================

// registry maps display handle IDs to nodes, remembering registration order
// so hit-test ties resolve deterministically.
type registry struct {
	seq      uint64
	byHandle map[int]registryEntry
}

type registryEntry struct {
	node NodeID
	seq  uint64
}

func (r *registry) add(handle int, node NodeID) {
	if r.byHandle == nil {
		r.byHandle = make(map[int]registryEntry)
	}
	r.seq++
	r.byHandle[handle] = registryEntry{node: node, seq: r.seq}
}

func (r *registry) remove(handle int) { delete(r.byHandle, handle) }

func (r *registry) has(handle int) bool {
	_, ok := r.byHandle[handle]
	return ok
}

func (r *registry) entries() []NodeID {
	list := make([]registryEntry, 0, len(r.byHandle))
	for _, e := range r.byHandle {
		list = append(list, e)
	}
	slices.SortFunc(list, func(a, b registryEntry) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	ids := make([]NodeID, len(list))
	for i, e := range list {
		ids[i] = e.node
	}
	return ids
}

// Render renders every root in creation order and returns the first
// layout error.
func (s *Scene) Render() error {
	var first error
	for _, r := range s.Roots() {
		if err := r.Render(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
