package session

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/holopanel/pkg/config"
	"github.com/matzehuels/holopanel/pkg/display"
	"github.com/matzehuels/holopanel/pkg/display/memory"
	"github.com/matzehuels/holopanel/pkg/geom"
	"github.com/matzehuels/holopanel/pkg/input"
	"github.com/matzehuels/holopanel/pkg/view"
)

func quietLogger() *log.Logger { return log.New(io.Discard) }

func TestDispatcherOrder(t *testing.T) {
	d := NewDispatcher(4, quietLogger())
	defer d.Close()

	var got []int
	for i := range 50 {
		if err := d.Post(func() { got = append(got, i) }); err != nil {
			t.Fatalf("Post() error = %v", err)
		}
	}
	var n int
	if err := d.Do(context.Background(), func() error { n = len(got); return nil }); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if n != 50 {
		t.Fatalf("ran %d tasks before Do, want 50", n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("task %d ran as %d", i, v)
		}
	}
}

func TestDispatcherErrors(t *testing.T) {
	d := NewDispatcher(0, quietLogger())
	want := errors.New("boom")
	if err := d.Do(context.Background(), func() error { return want }); !errors.Is(err, want) {
		t.Errorf("Do() error = %v, want %v", err, want)
	}
	if err := d.Do(context.Background(), func() error { panic("bad") }); err == nil {
		t.Error("Do() with panicking task returned nil")
	}
	// The loop survives a panicking task.
	if err := d.Do(context.Background(), func() error { return nil }); err != nil {
		t.Errorf("Do() after panic error = %v", err)
	}

	d.Close()
	d.Close()
	if err := d.Post(func() {}); !errors.Is(err, ErrClosed) {
		t.Errorf("Post() after Close error = %v, want ErrClosed", err)
	}
}

func TestDispatchSchedulerStop(t *testing.T) {
	d := NewDispatcher(0, quietLogger())
	defer d.Close()
	sch := d.Scheduler()

	fired := make(chan struct{}, 1)
	var stopped bool
	_ = d.Do(context.Background(), func() error {
		timer := sch.AfterFunc(5*time.Millisecond, func() { fired <- struct{}{} })
		stopped = timer.Stop()
		return nil
	})
	if !stopped {
		t.Error("Stop() = false for a pending timer")
	}
	select {
	case <-fired:
		t.Error("stopped timer fired")
	case <-time.After(30 * time.Millisecond):
	}

	_ = d.Do(context.Background(), func() error {
		sch.AfterFunc(time.Millisecond, func() { fired <- struct{}{} })
		return nil
	})
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Error("timer never fired")
	}
}

type pages struct{ n int }

func (p pages) Count() int { return p.n }
func (p pages) RenderElement(_ bool, i int, target *view.Node) {
	target.AddText("page", view.Modify().WrapContent().Center())
}

func newSession(t *testing.T) (*Session, *memory.Recorder) {
	t.Helper()
	rec := memory.New()
	cfg := config.Default()
	cfg.Pager.SwipeDelay = time.Millisecond
	s := New("Steve", rec, Options{Config: cfg, Logger: quietLogger()})
	t.Cleanup(s.Close)
	return s, rec
}

func TestSessionPagerSwipe(t *testing.T) {
	s, _ := newSession(t)
	ctx := context.Background()

	var pager *view.Node
	err := s.Do(ctx, func(scene *view.Scene, _ *input.Router) error {
		root := scene.NewRoot(view.Modify().Size(1200, 800), func(c *view.Node) {
			pager = c.AddPager(view.Modify().Size(600, 300), pages{3})
		})
		if err := root.Render(); err != nil {
			return err
		}
		pager.SwipeLeft()
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		var index int
		_ = s.Do(ctx, func(*view.Scene, *input.Router) error {
			index = pager.Index()
			return nil
		})
		if index == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Index() = %d, want 1 after the swipe delay", index)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSessionRoutesInput(t *testing.T) {
	s, _ := newSession(t)
	ctx := context.Background()

	clicks := 0
	var feed *view.Node
	err := s.Do(ctx, func(scene *view.Scene, _ *input.Router) error {
		root := scene.NewRoot(view.Modify().Size(1000, 600), func(c *view.Node) {
			c.AddButton("OK", view.Modify().Size(40, 20).Absolute(-300, 0), func(*view.Node) { clicks++ })
			feed = c.AddListFeed(view.Modify().Size(200, 160).Absolute(200, 0), func(f *view.Node) {
				for range 4 {
					f.AddText("row", view.Modify().Size(100, 80))
				}
			})
		})
		return root.Render()
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	_ = s.Pointer(ctx, input.ScreenMove(geom.Coordinates{X: -300}))
	_ = s.Pointer(ctx, input.Event{Type: input.Click})
	_ = s.Pointer(ctx, input.ScreenMove(geom.Coordinates{X: 200}))
	_ = s.Scroll(ctx, display.ScrollDown)

	var offset int
	_ = s.Do(ctx, func(*view.Scene, *input.Router) error {
		offset = feed.Children()[0].Offset()
		return nil
	})
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
	if offset != 1 {
		t.Errorf("feed offset = %d, want 1", offset)
	}
}

func TestSubscribeStopsOnClear(t *testing.T) {
	s, _ := newSession(t)
	ctx := context.Background()
	src := make(chan string, 4)

	got := make(chan string, 4)
	var label *view.Node
	_ = s.Do(ctx, func(scene *view.Scene, _ *input.Router) error {
		root := scene.NewRoot(view.Modify().Size(100, 100), func(c *view.Node) {
			label = c.AddText("", view.Modify().WrapContent())
		})
		Subscribe(s, label, src, func(v string) {
			_ = label.Update(view.SetText(v))
			got <- v
		})
		return root.Render()
	})

	src <- "hello"
	select {
	case v := <-got:
		if v != "hello" {
			t.Errorf("delivered %q, want hello", v)
		}
	case <-time.After(time.Second):
		t.Fatal("value never delivered")
	}

	_ = s.Do(ctx, func(*view.Scene, *input.Router) error {
		label.Clear()
		return nil
	})
	src <- "late"
	time.Sleep(20 * time.Millisecond)
	_ = s.Do(ctx, func(*view.Scene, *input.Router) error { return nil })
	select {
	case v := <-got:
		t.Errorf("delivered %q after Clear", v)
	default:
	}
}

func TestManager(t *testing.T) {
	m := NewManager(func(string) display.Backend { return memory.New() }, Options{Logger: quietLogger()})
	defer m.CloseAll()

	a := m.Open("Steve")
	if m.Open("Steve") != a {
		t.Error("Open() twice created two sessions")
	}
	m.Open("Alex")
	if got := m.Players(); len(got) != 2 || got[0] != "Alex" || got[1] != "Steve" {
		t.Errorf("Players() = %v, want [Alex Steve]", got)
	}
	if a.ID == "" {
		t.Error("session ID is empty")
	}

	if _, err := m.Get("Herobrine"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if err := m.Close("Steve"); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := m.Close("Steve"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Close() error = %v, want ErrNotFound", err)
	}
	if err := a.Post(func(*view.Scene, *input.Router) {}); !errors.Is(err, ErrClosed) {
		t.Errorf("Post() on closed session error = %v, want ErrClosed", err)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}
