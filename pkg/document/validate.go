package document

import (
	"fmt"
	"math"
	"strings"

	perrors "github.com/matzehuels/holopanel/pkg/errors"
	"github.com/matzehuels/holopanel/pkg/geom"
	"github.com/matzehuels/holopanel/pkg/view"
)

// Ref is a parsed anchor reference.
type Ref struct {
	Key  string // node key or "parent"
	Edge geom.Edge
}

// ParseRef parses "<key>.<edge>".
func ParseRef(s string) (Ref, error) {
	i := strings.LastIndexByte(s, '.')
	if i <= 0 || i == len(s)-1 {
		return Ref{}, perrors.New(perrors.ErrCodeInvalidDocument, "anchor %q: want <key>.<edge>", s)
	}
	e, ok := geom.ParseEdge(s[i+1:])
	if !ok {
		return Ref{}, perrors.New(perrors.ErrCodeInvalidDocument, "anchor %q: unknown edge %q", s, s[i+1:])
	}
	return Ref{Key: s[:i], Edge: e}, nil
}

// ParseSize converts a width or height value. A nil value yields def.
func ParseSize(v any, def view.Size) (view.Size, error) {
	switch s := v.(type) {
	case nil:
		return def, nil
	case int64:
		return fixed(float64(s))
	case float64:
		return fixed(s)
	case string:
		switch s {
		case "wrap":
			return view.Size{Mode: geom.SizeWrap}, nil
		case "match":
			return view.Size{Mode: geom.SizeMatch}, nil
		case "fill":
			return view.Size{Mode: geom.SizeFill}, nil
		}
		return view.Size{}, perrors.New(perrors.ErrCodeInvalidDocument, "size %q: want a number, wrap, match or fill", s)
	}
	return view.Size{}, perrors.New(perrors.ErrCodeInvalidDocument, "size %v: unsupported type %T", v, v)
}

func fixed(v float64) (view.Size, error) {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return view.Size{}, perrors.New(perrors.ErrCodeInvalidDocument, "size %g must be a finite non-negative number", v)
	}
	return view.Size{Mode: geom.SizeFixed, Value: v}, nil
}

// kind returns the node kind; an empty kind is a container.
func (n *Node) kind() (view.Kind, error) {
	if n.Kind == "" {
		return view.KindContainer, nil
	}
	k, ok := view.ParseKind(n.Kind)
	if !ok {
		return 0, perrors.Wrap(perrors.ErrCodeInvalidDocument, ErrUnknownKind, "%s", n.Kind)
	}
	return k, nil
}

// scope tracks keys declared so far. Page scopes chain to the scope the
// pager was declared in.
type scope struct {
	keys  map[string]bool
	outer *scope
}

func newScope(outer *scope) *scope { return &scope{keys: map[string]bool{}, outer: outer} }

func (s *scope) has(key string) bool {
	for ; s != nil; s = s.outer {
		if s.keys[key] {
			return true
		}
	}
	return false
}

// Validate checks keys, kinds, sizes and anchor references. Anchors may only
// name "parent" or a node declared earlier in the document.
func (d *Document) Validate() error {
	k, err := d.Panel.kind()
	if err != nil {
		return err
	}
	if !k.IsContainer() {
		return perrors.New(perrors.ErrCodeInvalidDocument, "panel must be a container kind, got %s", k)
	}
	return d.Panel.validate("panel", newScope(nil))
}

func (n *Node) validate(path string, sc *scope) error {
	if n.Key != "" {
		path = n.Key
	}
	wrap := func(err error) error {
		return perrors.Wrap(perrors.GetCode(err), err, "%s", path)
	}
	k, err := n.kind()
	if err != nil {
		return wrap(err)
	}
	if n.Key != "" {
		if err := perrors.ValidateNodeKey(n.Key); err != nil {
			return err
		}
		if sc.has(n.Key) {
			return perrors.New(perrors.ErrCodeInvalidDocument, "duplicate node key %q", n.Key)
		}
	}
	if _, err := ParseSize(n.Width, view.Size{}); err != nil {
		return wrap(err)
	}
	if _, err := ParseSize(n.Height, view.Size{}); err != nil {
		return wrap(err)
	}
	for _, a := range n.anchorSlots() {
		if a.ref == "" {
			continue
		}
		r, err := ParseRef(a.ref)
		if err != nil {
			return wrap(err)
		}
		if r.Edge.Axis() != a.edge.Axis() {
			return perrors.New(perrors.ErrCodeInvalidDocument, "%s: %s anchor cannot use %s edge", path, a.edge, r.Edge)
		}
		if r.Key != "parent" && !sc.has(r.Key) {
			return perrors.New(perrors.ErrCodeInvalidDocument, "%s: anchor %q names an undeclared node", path, a.ref)
		}
	}
	if (n.Center || n.CenterX) && (n.X != nil || n.Start != "" || n.End != "") {
		return perrors.New(perrors.ErrCodeInvalidDocument, "%s: centered x cannot also set x or start/end anchors", path)
	}
	if (n.Center || n.CenterY) && (n.Y != nil || n.Top != "" || n.Bottom != "") {
		return perrors.New(perrors.ErrCodeInvalidDocument, "%s: centered y cannot also set y or top/bottom anchors", path)
	}
	if n.X != nil && (n.Start != "" || n.End != "") {
		return perrors.New(perrors.ErrCodeInvalidDocument, "%s: x cannot be combined with start/end anchors", path)
	}
	if n.Y != nil && (n.Top != "" || n.Bottom != "") {
		return perrors.New(perrors.ErrCodeInvalidDocument, "%s: y cannot be combined with top/bottom anchors", path)
	}
	if n.Background != "" {
		if _, err := n.background(); err != nil {
			return wrap(err)
		}
	}
	switch k {
	case view.KindItem, view.KindItemButton:
		if n.Item == "" {
			return perrors.New(perrors.ErrCodeInvalidDocument, "%s: %s needs an item", path, k)
		}
	}
	if n.Action != "" && k != view.KindButton && k != view.KindItemButton {
		return perrors.New(perrors.ErrCodeInvalidDocument, "%s: only buttons take an action", path)
	}
	if len(n.Children) > 0 && (!k.IsContainer() || k == view.KindPager) {
		return perrors.New(perrors.ErrCodeInvalidDocument, "%s: %s cannot hold children", path, k)
	}
	if len(n.Pages) > 0 && k != view.KindPager {
		return perrors.New(perrors.ErrCodeInvalidDocument, "%s: only pagers take pages", path)
	}
	if n.Key != "" {
		sc.keys[n.Key] = true
	}
	for i := range n.Children {
		if err := n.Children[i].validate(fmt.Sprintf("%s.children[%d]", path, i), sc); err != nil {
			return err
		}
	}
	for i, p := range n.Pages {
		ps := newScope(sc)
		for j := range p.Children {
			if err := p.Children[j].validate(fmt.Sprintf("%s.pages[%d].children[%d]", path, i, j), ps); err != nil {
				return err
			}
		}
	}
	return nil
}

type anchorSlot struct {
	edge geom.Edge
	ref  string
}

func (n *Node) anchorSlots() [4]anchorSlot {
	return [4]anchorSlot{
		{geom.EdgeStart, n.Start},
		{geom.EdgeTop, n.Top},
		{geom.EdgeEnd, n.End},
		{geom.EdgeBottom, n.Bottom},
	}
}
