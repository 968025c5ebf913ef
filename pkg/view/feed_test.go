package view

import (
	"testing"

	"github.com/matzehuels/holopanel/pkg/display"
)

func checkVirtualized(t *testing.T, feed *Node, step string) {
	t.Helper()
	for i, c := range feed.Children() {
		if c.HasDisplay() != feed.InBounds(c) {
			t.Errorf("%s: child %d HasDisplay() = %v, InBounds() = %v", step, i, c.HasDisplay(), feed.InBounds(c))
		}
	}
}

func TestFeedScrollAndVirtualization(t *testing.T) {
	sink := &scrollSink{}
	s, rec := newTestScene(t, WithScrollSink(sink))
	var feed *Node
	root := s.NewRoot(Modify().Size(400, 400), func(c *Node) {
		feed = c.AddListFeed(Modify().Size(200, 160), func(f *Node) {
			for range 4 {
				f.AddText("row", Modify().Size(100, 80))
			}
		})
	})
	mustRender(t, root)
	checkVirtualized(t, feed, "initial render")

	rows := feed.Children()
	if !rows[0].HasDisplay() || !rows[1].HasDisplay() || rows[2].HasDisplay() || rows[3].HasDisplay() {
		t.Fatalf("initial rendered rows = %v %v %v %v, want true true false false",
			rows[0].HasDisplay(), rows[1].HasDisplay(), rows[2].HasDisplay(), rows[3].HasDisplay())
	}

	if moved, _ := feed.Scroll(display.ScrollDown); moved {
		t.Error("Scroll() moved an unfocused feed")
	}

	feed.SetHighlighted(true)
	if len(sink.calls) != 1 || sink.calls[0] != (sinkCall{true, feed.ID()}) {
		t.Fatalf("sink calls = %v, want one enable for feed %d", sink.calls, feed.ID())
	}

	second := rows[1].Handle().ID()
	steps := []struct {
		dir        display.Direction
		wantMoved  bool
		wantOffset int
	}{
		{display.ScrollUp, false, 0},
		{display.ScrollDown, true, 1},
		{display.ScrollDown, true, 2},
		{display.ScrollDown, false, 2},
		{display.ScrollUp, true, 1},
		{display.ScrollUp, true, 0},
		{display.ScrollUp, false, 0},
	}
	for i, st := range steps {
		moved, err := feed.Scroll(st.dir)
		if err != nil {
			t.Fatalf("step %d: Scroll() error = %v", i, err)
		}
		if moved != st.wantMoved {
			t.Errorf("step %d: Scroll(%v) = %v, want %v", i, st.dir, moved, st.wantMoved)
		}
		for _, c := range rows {
			if c.Offset() != st.wantOffset {
				t.Errorf("step %d: child Offset() = %d, want %d", i, c.Offset(), st.wantOffset)
			}
		}
		checkVirtualized(t, feed, st.dir.String())

		if i == 1 {
			p, _ := rec.Get(second)
			if p.Removed || p.Spec.Position.Y != 40 || p.Scrolls != 1 {
				t.Errorf("after first scroll second row = %+v, want live at y=40 with one scroll", p)
			}
		}
	}
}

func TestFeedRebuildResetsScroll(t *testing.T) {
	s, _ := newTestScene(t)
	var feed *Node
	root := s.NewRoot(Modify().Size(400, 400), func(c *Node) {
		feed = c.AddListFeed(Modify().Size(200, 160), func(f *Node) {
			for range 4 {
				f.AddText("row", Modify().Size(100, 80))
			}
		})
	})
	mustRender(t, root)
	feed.SetHighlighted(true)
	for range 2 {
		if moved, err := feed.Scroll(display.ScrollDown); err != nil || !moved {
			t.Fatalf("Scroll() = %v, %v, want true", moved, err)
		}
	}

	err := feed.UpdateView(func(f *Node) {
		f.AddText("only", Modify().Size(100, 80))
	})
	if err != nil {
		t.Fatalf("UpdateView() error = %v", err)
	}
	row := feed.Children()[0]
	if got := row.Offset(); got != 0 {
		t.Errorf("Offset() = %d, want 0", got)
	}
	if _, y := mustPosition(t, row); y != 40 {
		t.Errorf("row Y = %v, want 40", y)
	}
	if !row.HasDisplay() {
		t.Error("rebuilt row not rendered")
	}
}

func TestFeedFlushContentDoesNotScroll(t *testing.T) {
	s, _ := newTestScene(t)
	var feed *Node
	root := s.NewRoot(Modify().Size(400, 400), func(c *Node) {
		feed = c.AddFeed(Modify().Size(200, 160), func(f *Node) {
			f.AddText("tall", Modify().Size(100, 160))
		})
	})
	mustRender(t, root)
	feed.SetHighlighted(true)

	for _, dir := range []display.Direction{display.ScrollDown, display.ScrollUp} {
		if moved, _ := feed.Scroll(dir); moved {
			t.Errorf("Scroll(%v) = true, want false", dir)
		}
	}
	if got := feed.Children()[0].Offset(); got != 0 {
		t.Errorf("Offset() = %d, want 0", got)
	}
}

func TestFeedFocusTransitions(t *testing.T) {
	sink := &scrollSink{}
	s, rec := newTestScene(t, WithScrollSink(sink))
	var feed *Node
	root := s.NewRoot(Modify().Size(400, 400), func(c *Node) {
		feed = c.AddFeed(Modify().Size(200, 160), nil)
	})
	mustRender(t, root)

	feed.SetHighlighted(true)
	feed.SetHighlighted(true)
	feed.SetHighlighted(false)
	feed.SetHighlighted(false)

	want := []sinkCall{{true, feed.ID()}, {false, feed.ID()}}
	if len(sink.calls) != len(want) {
		t.Fatalf("sink calls = %v, want %v", sink.calls, want)
	}
	for i := range want {
		if sink.calls[i] != want[i] {
			t.Errorf("sink call %d = %v, want %v", i, sink.calls[i], want[i])
		}
	}
	if feed.Focused() {
		t.Error("Focused() = true after unhighlight")
	}
	p, _ := rec.ForNode(uint64(feed.ID()))
	if p.Spec.Background != s.palette.Background {
		t.Errorf("Background = %s, want %s", p.Spec.Background.Hex(), s.palette.Background.Hex())
	}

	if got := s.Scrollables(); len(got) != 1 || got[0] != feed {
		t.Errorf("Scrollables() = %v, want [feed]", got)
	}
}
