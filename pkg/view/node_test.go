package view

import (
	"testing"

	"github.com/matzehuels/holopanel/pkg/geom"
)

func threeRows(c *Node) {
	for range 3 {
		c.AddText("old", Modify().Size(100, 20))
	}
}

func twoRows(c *Node) {
	for range 2 {
		c.AddText("new", Modify().Size(100, 20))
	}
}

func TestUpdateViewReplacesChildren(t *testing.T) {
	s, rec := newTestScene(t)
	var box *Node
	root := s.NewRoot(Modify().Size(1000, 600), func(c *Node) {
		box = c.AddContainer(Modify().Size(500, 300), threeRows)
	})
	mustRender(t, root)

	var old []int
	for _, c := range box.Children() {
		old = append(old, c.Handle().ID())
	}

	if err := box.UpdateView(twoRows); err != nil {
		t.Fatalf("UpdateView() error = %v", err)
	}
	if got := len(box.Children()); got != 2 {
		t.Fatalf("len(Children()) = %d, want 2", got)
	}
	for _, id := range old {
		if p, _ := rec.Get(id); !p.Removed {
			t.Errorf("old child handle %d not removed", id)
		}
	}
	// three children plus the container's own handle
	if got := rec.Stats().Removes; got != 4 {
		t.Errorf("Removes = %d, want 4", got)
	}
	if got := s.Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}

	if err := box.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := len(box.Children()); got != 2 {
		t.Errorf("len(Children()) after Refresh = %d, want 2", got)
	}
	if got := rec.Stats().Removes; got != 7 {
		t.Errorf("Removes after Refresh = %d, want 7", got)
	}
	for _, c := range box.Children() {
		if !c.HasDisplay() || c.Text() != "new" {
			t.Errorf("child %d HasDisplay() = %v, Text() = %q", c.ID(), c.HasDisplay(), c.Text())
		}
	}
}

func TestUpdateViewOnUnrenderedParent(t *testing.T) {
	s, rec := newTestScene(t)
	var inner *Node
	s.NewRoot(Modify().Size(1000, 600), func(c *Node) {
		c.AddContainer(Modify().Size(500, 300), func(b *Node) {
			inner = b.AddContainer(Modify().Size(100, 100), nil)
		})
	})
	if err := inner.UpdateView(twoRows); err != nil {
		t.Fatalf("UpdateView() error = %v", err)
	}
	if got := rec.Stats().Adds; got != 0 {
		t.Errorf("Adds = %d, want 0", got)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	s, rec := newTestScene(t)
	var box, leaf *Node
	root := s.NewRoot(Modify().Size(1000, 600), func(c *Node) {
		box = c.AddContainer(Modify().Size(500, 300), func(b *Node) {
			leaf = b.AddText("x", Modify().Size(10, 10))
		})
	})
	mustRender(t, root)

	destroyed := 0
	leaf.OnDestroy(func() { destroyed++ })
	box.Clear()
	box.Clear()
	leaf.Clear()

	if destroyed != 1 {
		t.Errorf("destroy listeners ran %d times, want 1", destroyed)
	}
	if _, ok := s.Node(leaf.ID()); ok {
		t.Error("cleared leaf still in arena")
	}
	if got := len(root.Children()); got != 0 {
		t.Errorf("len(root.Children()) = %d, want 0", got)
	}
	if got := rec.Stats().Removes; got != 2 {
		t.Errorf("Removes = %d, want 2", got)
	}
	if err := leaf.Update(SetText("late")); err != nil {
		t.Errorf("Update() on cleared node error = %v", err)
	}
}

func TestVisibility(t *testing.T) {
	s, rec := newTestScene(t)
	var hidden, text *Node
	root := s.NewRoot(Modify().Size(1000, 600), func(c *Node) {
		hidden = c.AddContainer(Modify().Size(100, 100), func(b *Node) {
			b.AddText("inside", Modify().Size(10, 10))
		})
		text = c.AddText("x", Modify().Size(10, 10))
	})
	if err := hidden.Update(SetVisible(false)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	mustRender(t, root)
	if hidden.HasDisplay() || hidden.Children()[0].HasDisplay() {
		t.Error("invisible subtree got a display handle")
	}
	if got := rec.Stats().Adds; got != 2 {
		t.Errorf("Adds = %d, want 2", got)
	}

	if err := text.Update(SetVisible(false)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if text.HasDisplay() {
		t.Error("HasDisplay() = true after hiding")
	}
	if err := text.Update(SetVisible(true)); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !text.HasDisplay() {
		t.Error("HasDisplay() = false after showing")
	}
}

func TestUpdatePatchesInPlace(t *testing.T) {
	s, rec := newTestScene(t)
	var text *Node
	root := s.NewRoot(Modify().Size(1000, 600), func(c *Node) {
		text = c.AddText("hello", Modify().Size(100, 20))
	})
	if err := text.Update(SetText("early")); err != nil {
		t.Fatalf("Update() before render error = %v", err)
	}
	mustRender(t, root)
	id := text.Handle().ID()

	if err := text.Update(SetText("bye")); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	p, _ := rec.Get(id)
	if p.Spec.Text != "bye" || p.Updates != 1 || p.Flushes != 1 {
		t.Errorf("primitive = %+v, want text bye with one update and flush", p)
	}
	if text.Handle().ID() != id {
		t.Error("Update() replaced the handle")
	}
	if got := rec.Stats().Adds; got != 2 {
		t.Errorf("Adds = %d, want 2", got)
	}
}

func TestAnchorMoveRipples(t *testing.T) {
	s, rec := newTestScene(t)
	var title, body *Node
	root := s.NewRoot(Modify().Size(1000, 600), func(c *Node) {
		title = c.AddText("Title", Modify().Size(200, 40).AlignTopTo(TopOf(Parent)))
		body = c.AddText("Body", Modify().Size(200, 100).AlignTopTo(BottomOf(title.ID())).MarginTop(10))
	})
	mustRender(t, root)

	err := title.Update(SetModifier(Modify().Size(200, 40).AlignTopTo(TopOf(Parent)).MarginTop(100)))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	p, _ := rec.Get(body.Handle().ID())
	if p.Spec.Position.Y != 100 || p.Teleports != 1 {
		t.Errorf("body primitive y = %v teleports = %d, want 100 and 1", p.Spec.Position.Y, p.Teleports)
	}
}

func TestListStacksChildren(t *testing.T) {
	s, _ := newTestScene(t)
	var list *Node
	s.NewRoot(Modify().Size(1000, 600), func(c *Node) {
		list = c.AddList(Modify().Size(300, 300), func(l *Node) {
			for range 3 {
				l.AddText("row", Modify().Size(100, 20))
			}
		})
	})
	want := []float64{140, 120, 100}
	for i, c := range list.Children() {
		if _, y := mustPosition(t, c); y != want[i] {
			t.Errorf("row %d Y = %v, want %v", i, y, want[i])
		}
	}
}

func TestClearRestacksList(t *testing.T) {
	s, _ := newTestScene(t)
	var list *Node
	root := s.NewRoot(Modify().Size(1000, 600), func(c *Node) {
		list = c.AddList(Modify().Size(300, 300), func(l *Node) {
			for range 4 {
				l.AddText("row", Modify().Size(100, 20))
			}
		})
	})
	mustRender(t, root)
	rows := list.Children()

	rows[1].Clear()
	mustRender(t, root)
	if _, y := mustPosition(t, rows[2]); y != 120 {
		t.Errorf("row 2 Y after clearing row 1 = %v, want 120", y)
	}
	if _, y := mustPosition(t, rows[3]); y != 100 {
		t.Errorf("row 3 Y after clearing row 1 = %v, want 100", y)
	}

	rows[0].Clear()
	mustRender(t, root)
	if _, y := mustPosition(t, rows[2]); y != 140 {
		t.Errorf("row 2 Y after clearing row 0 = %v, want 140", y)
	}
	if got := len(list.Children()); got != 2 {
		t.Errorf("len(Children()) = %d, want 2", got)
	}
	if !rows[3].HasDisplay() {
		t.Error("row 3 lost its display")
	}
}

func TestLayerAccumulates(t *testing.T) {
	s, rec := newTestScene(t)
	var leaf *Node
	root := s.NewRoot(Modify().Size(1000, 600), func(c *Node) {
		box := c.AddContainer(Modify().Size(100, 100), func(b *Node) {
			leaf = b.AddText("x", Modify().Size(10, 10))
		})
		_ = box.Update(SetHeight(2))
	})
	_ = root.Update(SetHeight(1))
	mustRender(t, root)
	if got := leaf.Layer(); got != 3 {
		t.Errorf("Layer() = %d, want 3", got)
	}
	if p, _ := rec.ForNode(uint64(leaf.ID())); p.Spec.Layer != 3 {
		t.Errorf("spec Layer = %d, want 3", p.Spec.Layer)
	}
}

func TestHighlightStyles(t *testing.T) {
	s, rec := newTestScene(t)
	var button, itemButton, panel *Node
	root := s.NewRoot(Modify().Size(1000, 600), func(c *Node) {
		button = c.AddButton("OK", Modify().WrapContent(), nil)
		itemButton = c.AddItemButton("minecraft:compass", Modify().WrapContent().Absolute(100, 0), nil)
		panel = c.AddContainer(Modify().Size(50, 50).Absolute(-200, 0), nil)
	})
	panel.OnClick(func(*Node) {})
	mustRender(t, root)

	for _, n := range []*Node{button, itemButton, panel} {
		n.SetHighlighted(true)
	}
	if p, _ := rec.ForNode(uint64(button.ID())); !p.Spec.Bold || p.Spec.Background != s.palette.Highlight {
		t.Errorf("button spec = %+v, want bold on highlight", p.Spec)
	}
	if p, _ := rec.ForNode(uint64(itemButton.ID())); p.Transform.Scale != 1.2 {
		t.Errorf("item button scale = %v, want 1.2", p.Transform.Scale)
	}
	if p, _ := rec.ForNode(uint64(panel.ID())); p.Spec.Background != s.palette.Highlight {
		t.Errorf("panel background = %s, want highlight", p.Spec.Background.Hex())
	}

	got := s.Buttons()
	if len(got) != 3 || got[0] != button || got[1] != itemButton || got[2] != panel {
		t.Errorf("Buttons() = %v, want [button itemButton panel]", got)
	}
	button.Clear()
	if got := s.Buttons(); len(got) != 2 {
		t.Errorf("len(Buttons()) after clear = %d, want 2", len(got))
	}
}

func TestClickAndText(t *testing.T) {
	s, _ := newTestScene(t)
	clicks := 0
	var typed string
	var button *Node
	s.NewRoot(Modify().Size(1000, 600), func(c *Node) {
		button = c.AddButton("OK", Modify().WrapContent(), func(*Node) { clicks++ })
	})
	button.OnText(func(_ *Node, text string) { typed = text })

	if !button.Click() || clicks != 1 {
		t.Errorf("Click() clicks = %d, want 1", clicks)
	}
	_ = button.Update(SetVisible(false))
	if button.Click() || clicks != 1 {
		t.Errorf("Click() on hidden button ran listeners")
	}
	if !button.Type("hi") || typed != "hi" {
		t.Errorf("Type() typed = %q, want %q", typed, "hi")
	}
}

func TestDebugCorners(t *testing.T) {
	s, rec := newTestScene(t, WithConfig(debugConfig()))
	var box *Node
	root := s.NewRoot(Modify().Size(1000, 600), func(c *Node) {
		box = c.AddContainer(Modify().Size(200, 100), threeRows)
	})
	mustRender(t, root)
	markers := box.Markers()
	if len(markers) != 4 {
		t.Fatalf("len(Markers()) = %d, want 4", len(markers))
	}
	p, _ := rec.Get(markers[0].ID())
	if want := (geom.Coordinates{X: -100, Y: 50}); p.Spec.Position != want {
		t.Errorf("top-left marker = %v, want %v", p.Spec.Position, want)
	}

	if err := box.UpdateView(nil); err != nil {
		t.Fatalf("UpdateView() error = %v", err)
	}
	for _, m := range markers {
		if p, _ := rec.Get(m.ID()); !p.Removed {
			t.Errorf("marker %d survived rebuild", m.ID())
		}
	}
	if got := len(box.Markers()); got != 4 {
		t.Errorf("len(Markers()) after rebuild = %d, want 4", got)
	}

	s.Clear()
	if got := len(rec.Live()); got != 0 {
		t.Errorf("len(Live()) after Clear = %d, want 0", got)
	}
	if got := s.Len(); got != 0 {
		t.Errorf("Len() after Clear = %d, want 0", got)
	}
}

func TestKindNames(t *testing.T) {
	for k := KindText; k <= KindPager; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v, want %v", k.String(), got, ok, k)
		}
	}
	if _, ok := ParseKind("window"); ok {
		t.Error("ParseKind(window) ok = true")
	}
}
