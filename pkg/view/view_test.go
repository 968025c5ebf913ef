package view

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/holopanel/pkg/config"
	"github.com/matzehuels/holopanel/pkg/display/memory"
)

func newTestScene(t *testing.T, opts ...Option) (*Scene, *memory.Recorder) {
	t.Helper()
	rec := memory.New()
	base := []Option{WithLogger(log.New(io.Discard))}
	return NewScene(rec, append(base, opts...)...), rec
}

func debugConfig() config.Config {
	cfg := config.Default()
	cfg.Debug.Corners = true
	return cfg
}

// scrollSink records scroll capture changes.
type scrollSink struct {
	calls []sinkCall
}

type sinkCall struct {
	enabled bool
	feed    NodeID
}

func (s *scrollSink) SetScrolling(enabled bool, feed NodeID) {
	s.calls = append(s.calls, sinkCall{enabled, feed})
}

func mustRender(t *testing.T, n *Node) {
	t.Helper()
	if err := n.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
}

func mustPosition(t *testing.T, n *Node) (x, y float64) {
	t.Helper()
	p, err := n.Position()
	if err != nil {
		t.Fatalf("Position() error = %v", err)
	}
	return p.X, p.Y
}
