// Package session owns the per-player state of holopanel: one scene, one
// input router and one display backend, all driven from a single
// dispatcher goroutine.
//
// # Architecture
//
// Nothing in view or input is safe for concurrent use. A Session wraps them
// behind a Dispatcher: callers post work, the dispatcher runs it in order.
// Background work (timers, network calls, subscriptions) must marshal its
// result back through Post before touching a node.
//
// # Usage
//
//	mgr := session.NewManager(func(player string) display.Backend { return memory.New() })
//	sess := mgr.Open("Steve")
//	err := sess.Do(ctx, func(s *view.Scene, r *input.Router) error {
//	    root := s.NewRoot(view.Modify().Size(600, 400), buildMenu)
//	    return root.Render()
//	})
package session

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/holopanel/pkg/config"
	"github.com/matzehuels/holopanel/pkg/display"
	"github.com/matzehuels/holopanel/pkg/geom"
	"github.com/matzehuels/holopanel/pkg/input"
	"github.com/matzehuels/holopanel/pkg/view"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when no session exists for a player.
	ErrNotFound = errors.New("session not found")

	// ErrClosed is returned when posting to a closed session.
	ErrClosed = errors.New("session closed")
)

// Session is the UI state of one player.
type Session struct {
	ID        string
	Player    string
	CreatedAt time.Time

	backend display.Backend
	disp    *Dispatcher
	scene   *view.Scene
	router  *input.Router
	logger  *log.Logger
}

// Options configures a new session.
type Options struct {
	Config     config.Config
	Logger     *log.Logger
	Projection *geom.Projection
	QueueSize  int
	// Fallback receives scroll steps no feed captured.
	Fallback func(dir display.Direction)
}

// New starts a session for player drawing through backend.
func New(player string, backend display.Backend, opts Options) *Session {
	if opts.Config == (config.Config{}) {
		opts.Config = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	id := uuid.NewString()
	logger = logger.With("player", player, "session", id[:8])

	ctx := context.Background()
	disp := NewDispatcher(opts.QueueSize, logger)
	scene := view.NewScene(backend,
		view.WithConfig(opts.Config),
		view.WithLogger(logger),
		view.WithScheduler(disp.Scheduler()),
		view.WithContext(ctx),
	)
	routerOpts := []input.Option{input.WithLogger(logger), input.WithContext(ctx)}
	if opts.Projection != nil {
		routerOpts = append(routerOpts, input.WithProjection(*opts.Projection))
	}
	if opts.Fallback != nil {
		routerOpts = append(routerOpts, input.WithFallback(opts.Fallback))
	}
	return &Session{
		ID:        id,
		Player:    player,
		CreatedAt: time.Now(),
		backend:   backend,
		disp:      disp,
		scene:     scene,
		router:    input.NewRouter(scene, routerOpts...),
		logger:    logger,
	}
}

// Backend returns the session's display backend.
func (s *Session) Backend() display.Backend { return s.backend }

// Logger returns the session logger.
func (s *Session) Logger() *log.Logger { return s.logger }

// Post queues fn on the session dispatcher.
func (s *Session) Post(fn func(scene *view.Scene, router *input.Router)) error {
	return s.disp.Post(func() { fn(s.scene, s.router) })
}

// Do runs fn on the session dispatcher and waits for it.
func (s *Session) Do(ctx context.Context, fn func(scene *view.Scene, router *input.Router) error) error {
	return s.disp.Do(ctx, func() error { return fn(s.scene, s.router) })
}

// Pointer routes a pointer event.
func (s *Session) Pointer(ctx context.Context, ev input.Event) error {
	return s.Do(ctx, func(_ *view.Scene, r *input.Router) error { return r.Handle(ev) })
}

// Scroll routes one scroll step.
func (s *Session) Scroll(ctx context.Context, dir display.Direction) error {
	return s.Do(ctx, func(_ *view.Scene, r *input.Router) error { return r.HandleScroll(dir) })
}

// Text routes raw text input.
func (s *Session) Text(ctx context.Context, text string) error {
	return s.Do(ctx, func(_ *view.Scene, r *input.Router) error {
		r.HandleText(text)
		return nil
	})
}

// Close clears the scene and stops the dispatcher. Pending pager timers are
// canceled by the clear.
func (s *Session) Close() {
	err := s.disp.Post(func() { s.scene.Clear() })
	if err != nil {
		return
	}
	s.disp.Close()
	s.logger.Debug("session closed")
}

// Subscribe delivers values from src to fn on the session dispatcher until
// node is cleared or src is closed. No value is delivered after the clear.
func Subscribe[T any](s *Session, node *view.Node, src <-chan T, fn func(T)) {
	ctx, cancel := context.WithCancel(context.Background())
	// Subscribe is called on the dispatcher, like every node call.
	node.OnDestroy(cancel)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-src:
				if !ok {
					return
				}
				err := s.disp.Post(func() {
					if ctx.Err() == nil {
						fn(v)
					}
				})
				if err != nil {
					return
				}
			}
		}
	}()
}
