package document

import (
	"github.com/matzehuels/holopanel/pkg/display"
	perrors "github.com/matzehuels/holopanel/pkg/errors"
	"github.com/matzehuels/holopanel/pkg/geom"
	"github.com/matzehuels/holopanel/pkg/view"
)

// Action handles a click on a button declared with an action name.
type Action func(n *view.Node)

// Actions maps action names to handlers.
type Actions map[string]Action

// Build creates the document's panel as a new root of s. The root is
// returned unrendered. Clicks on buttons whose action is missing from
// actions are logged and otherwise ignored.
func Build(s *view.Scene, doc *Document, actions Actions) (*view.Node, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	b := &builder{scene: s, actions: actions}
	m, err := b.modifier(&doc.Panel, view.Size{Mode: geom.SizeMatch}, nil)
	if err != nil {
		return nil, err
	}
	sc := newKeys(nil)
	root := s.NewRoot(m, func(c *view.Node) {
		b.children(c, doc.Panel.Children, sc)
	})
	if err := b.decorate(root, &doc.Panel); err != nil {
		b.fail(err)
	}
	if b.err != nil {
		root.Clear()
		return nil, b.err
	}
	return root, nil
}

type builder struct {
	scene   *view.Scene
	actions Actions
	err     error
}

func (b *builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// keys maps document keys to the nodes built for them.
type keys struct {
	ids   map[string]view.NodeID
	outer *keys
}

func newKeys(outer *keys) *keys { return &keys{ids: map[string]view.NodeID{}, outer: outer} }

func (k *keys) lookup(key string) (view.NodeID, bool) {
	for ; k != nil; k = k.outer {
		if id, ok := k.ids[key]; ok {
			return id, true
		}
	}
	return 0, false
}

func (b *builder) children(parent *view.Node, nodes []Node, sc *keys) {
	for i := range nodes {
		if b.err != nil {
			return
		}
		if err := b.node(parent, &nodes[i], sc); err != nil {
			b.fail(err)
		}
	}
}

func (b *builder) node(parent *view.Node, d *Node, sc *keys) error {
	k, err := d.kind()
	if err != nil {
		return err
	}
	def := view.Size{Mode: geom.SizeWrap}
	if k.IsContainer() {
		def = view.Size{Mode: geom.SizeMatch}
	}
	m, err := b.modifier(d, def, sc)
	if err != nil {
		return err
	}
	var n *view.Node
	switch k {
	case view.KindText:
		n = parent.AddText(d.Text, m)
	case view.KindItem:
		n = parent.AddItem(d.Item, m)
	case view.KindButton:
		n = parent.AddButton(d.Text, m, b.action(d.Action))
	case view.KindItemButton:
		n = parent.AddItemButton(d.Item, m, b.action(d.Action))
	case view.KindContainer, view.KindList, view.KindFeed, view.KindListFeed:
		content := func(c *view.Node) { b.children(c, d.Children, sc) }
		switch k {
		case view.KindList:
			n = parent.AddList(m, content)
		case view.KindFeed:
			n = parent.AddFeed(m, content)
		case view.KindListFeed:
			n = parent.AddListFeed(m, content)
		default:
			n = parent.AddContainer(m, content)
		}
	case view.KindPager:
		n = parent.AddPager(m, &pages{b: b, pages: d.Pages, outer: sc})
	}
	if d.Key != "" {
		sc.ids[d.Key] = n.ID()
	}
	return b.decorate(n, d)
}

// decorate applies the non-layout fields.
func (b *builder) decorate(n *view.Node, d *Node) error {
	var opts []view.UpdateOption
	if d.Layer != 0 {
		opts = append(opts, view.SetHeight(d.Layer))
	}
	if d.Background != "" {
		c, err := d.background()
		if err != nil {
			return err
		}
		opts = append(opts, view.SetBackground(c))
	}
	if d.Visible != nil && !*d.Visible {
		opts = append(opts, view.SetVisible(false))
	}
	if len(opts) == 0 {
		return nil
	}
	return n.Update(opts...)
}

func (b *builder) action(name string) func(*view.Node) {
	if name == "" {
		return nil
	}
	return func(n *view.Node) {
		fn, ok := b.actions[name]
		if !ok {
			b.scene.Logger().Warn("Unbound action", "action", name, "node", n.ID())
			return
		}
		fn(n)
	}
}

func (b *builder) modifier(d *Node, def view.Size, sc *keys) (*view.Modifier, error) {
	m := view.Modify()
	var err error
	if m.Width, err = ParseSize(d.Width, def); err != nil {
		return nil, err
	}
	if m.Height, err = ParseSize(d.Height, def); err != nil {
		return nil, err
	}
	m.Margins(d.Margin.Start, d.Margin.Top, d.Margin.End, d.Margin.Bottom)

	for _, slot := range d.anchorSlots() {
		if slot.ref == "" {
			continue
		}
		r, err := ParseRef(slot.ref)
		if err != nil {
			return nil, err
		}
		a := view.Anchor{Node: view.Parent, Edge: r.Edge}
		if r.Key != "parent" {
			id, ok := sc.lookup(r.Key)
			if !ok {
				return nil, perrors.New(perrors.ErrCodeUnknownNode, "anchor %q names an unknown node", slot.ref)
			}
			a.Node = id
		}
		switch slot.edge {
		case geom.EdgeStart:
			m.AlignStartTo(a)
		case geom.EdgeTop:
			m.AlignTopTo(a)
		case geom.EdgeEnd:
			m.AlignEndTo(a)
		case geom.EdgeBottom:
			m.AlignBottomTo(a)
		}
	}
	if d.X != nil {
		m.X, m.XMode = *d.X, geom.PositionAbsolute
	}
	if d.Y != nil {
		m.Y, m.YMode = *d.Y, geom.PositionAbsolute
	}
	if d.Center || d.CenterX {
		m.CenterHorizontally()
	}
	if d.Center || d.CenterY {
		m.CenterVertically()
	}
	return m, nil
}

func (n *Node) background() (display.Color, error) {
	c, err := display.ParseColor(n.Background)
	if err != nil {
		return 0, perrors.Wrap(perrors.ErrCodeInvalidDocument, err, "background")
	}
	return c, nil
}

// pages adapts a pager's declared pages. Each pane rebuilds its page with a
// fresh key scope.
type pages struct {
	b     *builder
	pages []Page
	outer *keys
}

func (p *pages) Count() int { return len(p.pages) }

func (p *pages) RenderElement(selected bool, index int, target *view.Node) {
	if index < 0 || index >= len(p.pages) {
		return
	}
	sc := newKeys(p.outer)
	for i := range p.pages[index].Children {
		if err := p.b.node(target, &p.pages[index].Children[i], sc); err != nil {
			p.b.scene.Logger().Error("Build page", "index", index, "selected", selected, "err", err)
			return
		}
	}
}
