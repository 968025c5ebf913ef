package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/holopanel/pkg/display"
	"github.com/matzehuels/holopanel/pkg/document"
	"github.com/matzehuels/holopanel/pkg/geom"
	"github.com/matzehuels/holopanel/pkg/input"
	"github.com/matzehuels/holopanel/pkg/pipeline"
	"github.com/matzehuels/holopanel/pkg/render"
	"github.com/matzehuels/holopanel/pkg/view"
)

// Cursor steps in panel pixels.
const (
	previewStep     = 8.0
	previewBigStep  = 48.0
	previewMaxLines = 40
)

// previewCommand creates the interactive preview command.
func (c *CLI) previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview [document]",
		Short: "Drive a panel interactively in the terminal",
		Long: `Lay out a panel document and drive it with a virtual pointer.

Keys:
  arrows, hjkl   move the pointer (shift or HJKL for larger steps)
  enter, space   click the highlighted button
  [ ]            scroll the focused feed
  c              clear highlights
  q              quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runPreview(ctx context.Context, path string) error {
	data, err := readDocument(path)
	if err != nil {
		return err
	}
	doc, err := document.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	cfg, err := c.loadConfig(ctx)
	if err != nil {
		return err
	}

	events := &previewEvents{}
	actions := make(document.Actions)
	for _, name := range doc.ActionNames() {
		actions[name] = func(n *view.Node) { events.add("action %q from #%d", name, n.ID()) }
	}

	runner := c.newRunner(ctx, true)
	defer runner.Close()
	// Scene logs would tear the terminal UI.
	h, err := runner.BuildHeadless(ctx, pipeline.Options{
		Document: data,
		Name:     documentName(path),
		Config:   cfg,
		Actions:  actions,
		Logger:   log.New(io.Discard),
	})
	if err != nil {
		return err
	}
	defer h.Close()

	m := newPreviewModel(documentName(path), h, events)
	if _, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(c.out)).Run(); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}

// previewEvents collects messages from action handlers. Handlers run inside
// Update, so no locking is needed.
type previewEvents struct {
	lines []string
}

func (e *previewEvents) add(format string, args ...any) {
	e.lines = append(e.lines, fmt.Sprintf(format, args...))
	if len(e.lines) > 5 {
		e.lines = e.lines[len(e.lines)-5:]
	}
}

// previewModel is the bubbletea model of the preview command.
type previewModel struct {
	name   string
	h      *pipeline.Headless
	events *previewEvents
	cursor geom.Coordinates
	err    error
}

func newPreviewModel(name string, h *pipeline.Headless, events *previewEvents) previewModel {
	m := previewModel{name: name, h: h, events: events}
	m.err = h.Point(m.cursor)
	return m
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		m.move(-previewStep, 0)
	case "right", "l":
		m.move(previewStep, 0)
	case "up", "k":
		m.move(0, previewStep)
	case "down", "j":
		m.move(0, -previewStep)
	case "shift+left", "H":
		m.move(-previewBigStep, 0)
	case "shift+right", "L":
		m.move(previewBigStep, 0)
	case "shift+up", "K":
		m.move(0, previewBigStep)
	case "shift+down", "J":
		m.move(0, -previewBigStep)
	case "enter", " ":
		m.err = m.h.Router.Handle(input.Event{Type: input.Click})
	case "[":
		m.err = m.h.Router.HandleScroll(display.ScrollUp)
	case "]":
		m.err = m.h.Router.HandleScroll(display.ScrollDown)
	case "c":
		m.err = m.h.Router.Handle(input.Event{Type: input.Clear})
	}
	return m, nil
}

func (m *previewModel) move(dx, dy float64) {
	m.cursor = m.cursor.Add(geom.Coordinates{X: dx, Y: dy})
	m.err = m.h.Point(m.cursor)
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Preview " + m.name))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←↑↓→ move  ⏎ click  [ ] scroll  c clear  q quit"))
	b.WriteString("\n\n")

	b.WriteString(StyleDim.Render("pointer ") + StyleNumber.Render(m.cursor.String()))
	if n := m.h.Router.Highlighted(); n != nil {
		b.WriteString(StyleDim.Render("  over ") + StyleHighlight.Render(fmt.Sprintf("%s #%d", n.Kind(), n.ID())))
	}
	if feed := m.h.Router.FocusedFeed(); feed != nil {
		b.WriteString(StyleDim.Render("  scrolling ") + StyleValue.Render(fmt.Sprintf("#%d", feed.ID())))
	}
	b.WriteString("\n\n")

	lines := strings.Split(render.Text(render.Capture(m.h.Scene)), "\n")
	if len(lines) > previewMaxLines {
		lines = append(lines[:previewMaxLines], StyleDim.Render("…"))
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")

	for _, line := range m.events.lines {
		b.WriteString("\n" + styleIconInfo.Render(iconInfo) + " " + line)
	}
	if m.err != nil {
		b.WriteString("\n" + StyleError.Render(m.err.Error()))
	}
	return b.String()
}
