package pipeline

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/holopanel/pkg/config"
	"github.com/matzehuels/holopanel/pkg/display/memory"
	"github.com/matzehuels/holopanel/pkg/document"
	"github.com/matzehuels/holopanel/pkg/geom"
	"github.com/matzehuels/holopanel/pkg/input"
	"github.com/matzehuels/holopanel/pkg/view"
)

// Headless is a document laid out against the in-memory recorder. Pager
// delays run inline, so swipes finish before the call that started them
// returns.
type Headless struct {
	Scene    *view.Scene
	Router   *input.Router
	Recorder *memory.Recorder
	Root     *view.Node
}

// Build lays out doc on a new headless scene and renders it.
func Build(ctx context.Context, doc *document.Document, cfg config.Config, logger *log.Logger, actions document.Actions) (*Headless, error) {
	rec := memory.New()
	scene := view.NewScene(rec,
		view.WithConfig(cfg),
		view.WithLogger(logger),
		view.WithScheduler(view.InlineScheduler{}),
		view.WithContext(ctx),
	)
	router := input.NewRouter(scene, input.WithLogger(logger), input.WithContext(ctx))
	root, err := document.Build(scene, doc, actions)
	if err != nil {
		return nil, err
	}
	if err := root.Render(); err != nil {
		return nil, err
	}
	return &Headless{Scene: scene, Router: router, Recorder: rec, Root: root}, nil
}

// Point routes a screen-space pointer move.
func (h *Headless) Point(c geom.Coordinates) error {
	return h.Router.Handle(input.ScreenMove(c))
}

// Close clears the scene.
func (h *Headless) Close() { h.Scene.Clear() }
