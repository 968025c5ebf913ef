// Package memory provides a headless display backend that records every
// primitive and operation in memory.
//
// It is the backend used by tests, the CLI pipeline and the HTTP inspector.
// A Recorder is safe for concurrent use so an inspector can snapshot it while
// a session dispatcher mutates it.
package memory

import (
	"slices"
	"sync"

	"github.com/matzehuels/holopanel/pkg/display"
	"github.com/matzehuels/holopanel/pkg/geom"
)

// Primitive is the recorded state of one handle.
type Primitive struct {
	ID        int
	Spec      display.Spec
	Transform display.Transformation
	Removed   bool

	Teleports int
	Updates   int
	Scrolls   int
	Flushes   int
}

// Stats aggregates operation counts across all handles.
type Stats struct {
	Adds      int
	Removes   int
	Teleports int
	Updates   int
	Scrolls   int
}

// Recorder implements display.Backend.
type Recorder struct {
	mu     sync.Mutex
	nextID int
	prims  map[int]*Primitive
	order  []int
	stats  Stats
}

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{prims: make(map[int]*Primitive)}
}

func (r *Recorder) AddText(spec display.Spec) display.Handle {
	spec.Kind = display.KindText
	return r.add(spec)
}

func (r *Recorder) AddContainer(spec display.Spec) display.Handle {
	spec.Kind = display.KindContainer
	return r.add(spec)
}

func (r *Recorder) AddItem(spec display.Spec) display.Handle {
	spec.Kind = display.KindItem
	return r.add(spec)
}

func (r *Recorder) add(spec display.Spec) display.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p := &Primitive{ID: r.nextID, Spec: spec}
	r.prims[p.ID] = p
	r.order = append(r.order, p.ID)
	r.stats.Adds++
	return &handle{rec: r, id: p.ID}
}

// Stats returns the aggregate operation counts.
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Get returns a copy of the primitive with the given handle ID.
func (r *Recorder) Get(id int) (Primitive, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prims[id]
	if !ok {
		return Primitive{}, false
	}
	return *p, true
}

// Live returns copies of all primitives that have not been removed, in
// paint order: lower layers first, then creation order.
func (r *Recorder) Live() []Primitive {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Primitive, 0, len(r.order))
	for _, id := range r.order {
		if p := r.prims[id]; !p.Removed {
			out = append(out, *p)
		}
	}
	slices.SortStableFunc(out, func(a, b Primitive) int { return a.Spec.Layer - b.Spec.Layer })
	return out
}

// ForNode returns the oldest live primitive bound to the given node ID.
// Debug markers share their node's ID but are always created after it.
func (r *Recorder) ForNode(node uint64) (Primitive, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		p := r.prims[id]
		if !p.Removed && p.Spec.Node == node {
			return *p, true
		}
	}
	return Primitive{}, false
}

// Compact drops removed primitives from the record. Counters are kept.
func (r *Recorder) Compact() {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.order[:0]
	for _, id := range r.order {
		if r.prims[id].Removed {
			delete(r.prims, id)
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept
}

// Reset forgets everything, including counters.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prims = make(map[int]*Primitive)
	r.order = nil
	r.stats = Stats{}
}

type handle struct {
	rec *Recorder
	id  int
}

func (h *handle) ID() int { return h.id }

// with runs fn against the live primitive; removed handles are ignored.
func (h *handle) with(fn func(p *Primitive)) {
	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	p, ok := h.rec.prims[h.id]
	if !ok || p.Removed {
		return
	}
	fn(p)
}

func (h *handle) Teleport(pos geom.Coordinates) {
	h.with(func(p *Primitive) {
		p.Spec.Position = pos
		p.Teleports++
		h.rec.stats.Teleports++
	})
}

func (h *handle) SetBackgroundColor(c display.Color) {
	h.with(func(p *Primitive) { p.Spec.Background = c })
}

func (h *handle) SetTransformation(t display.Transformation) {
	h.with(func(p *Primitive) {
		p.Transform = t
		p.Spec.Scale = t.Scale
	})
}

func (h *handle) Scroll(dir display.Direction, rowUnit float64) {
	h.with(func(p *Primitive) {
		if dir == display.ScrollDown {
			p.Spec.Position.Y += rowUnit
		} else {
			p.Spec.Position.Y -= rowUnit
		}
		p.Scrolls++
		h.rec.stats.Scrolls++
	})
}

func (h *handle) Update(spec display.Spec) {
	h.with(func(p *Primitive) {
		spec.Kind = p.Spec.Kind
		p.Spec = spec
		p.Updates++
		h.rec.stats.Updates++
	})
}

func (h *handle) RenderUpdate() {
	h.with(func(p *Primitive) { p.Flushes++ })
}

func (h *handle) Remove() {
	h.with(func(p *Primitive) {
		p.Removed = true
		h.rec.stats.Removes++
	})
}

// Ensure Recorder implements display.Backend.
var _ display.Backend = (*Recorder)(nil)
