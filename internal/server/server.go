// Package server exposes live panel sessions over HTTP.
//
// Every player gets a session holding one scene laid out from the served
// document. Pointer, scroll and text input are routed through the session
// dispatcher, and the scene can be fetched in any render format:
//
//	PUT    /players/{player}                open a session
//	DELETE /players/{player}                close it
//	GET    /players/{player}/scene.{format} json, dot, svg, png or txt
//	POST   /players/{player}/pointer        {"type": "move", "x": 0, "y": 40}
//	POST   /players/{player}/scroll         {"direction": "down"}
//	POST   /players/{player}/text           {"text": "hello"}
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/holopanel/pkg/config"
	"github.com/matzehuels/holopanel/pkg/display"
	"github.com/matzehuels/holopanel/pkg/display/memory"
	"github.com/matzehuels/holopanel/pkg/document"
	perrors "github.com/matzehuels/holopanel/pkg/errors"
	"github.com/matzehuels/holopanel/pkg/geom"
	"github.com/matzehuels/holopanel/pkg/input"
	"github.com/matzehuels/holopanel/pkg/pipeline"
	"github.com/matzehuels/holopanel/pkg/session"
	"github.com/matzehuels/holopanel/pkg/view"
)

// requestTimeout bounds how long a request waits for the session dispatcher.
const requestTimeout = 5 * time.Second

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatText: "text/plain; charset=utf-8",
}

// Server serves one panel document to many players.
type Server struct {
	doc      *document.Document
	sessions *session.Manager
	logger   *log.Logger
	router   chi.Router
}

// New creates a server for doc.
func New(doc *document.Document, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	sessions := session.NewManager(
		func(string) display.Backend { return memory.New() },
		session.Options{Config: cfg, Logger: logger},
	)
	s := &Server{doc: doc, sessions: sessions, logger: logger}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close ends every session.
func (s *Server) Close() { s.sessions.CloseAll() }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/players", s.listPlayers)
	r.Route("/players/{player}", func(r chi.Router) {
		r.Put("/", s.openSession)
		r.Delete("/", s.closeSession)
		r.Get("/scene.{format}", s.getScene)
		r.Post("/pointer", s.postPointer)
		r.Post("/scroll", s.postScroll)
		r.Post("/text", s.postText)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func (s *Server) listPlayers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"players": s.sessions.Players()})
}

type sessionResponse struct {
	ID     string `json:"id"`
	Player string `json:"player"`
}

func (s *Server) openSession(w http.ResponseWriter, r *http.Request) {
	player := chi.URLParam(r, "player")
	if _, err := s.sessions.Get(player); err == nil {
		writeError(w, perrors.New(perrors.ErrCodeInvalidInput, "player %q already has a session", player))
		return
	}
	sess := s.sessions.Open(player)
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	err := sess.Do(ctx, func(scene *view.Scene, _ *input.Router) error {
		root, err := document.Build(scene, s.doc, s.actions(sess))
		if err != nil {
			return err
		}
		return root.Render()
	})
	if err != nil {
		_ = s.sessions.Close(player)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID, Player: player})
}

// actions binds every action of the document to a log line.
func (s *Server) actions(sess *session.Session) document.Actions {
	actions := make(document.Actions)
	for _, name := range s.doc.ActionNames() {
		actions[name] = func(n *view.Node) {
			sess.Logger().Info("Action", "action", name, "node", n.ID())
		}
	}
	return actions
}

func (s *Server) closeSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Close(chi.URLParam(r, "player")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getScene(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}
	opts := pipeline.Options{
		Formats:  []string{format},
		Anchors:  r.URL.Query().Has("anchors"),
		Detailed: r.URL.Query().Has("detailed"),
		Scale:    pipeline.DefaultScale,
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	var data []byte
	err := sess.Do(ctx, func(scene *view.Scene, router *input.Router) error {
		rec, ok := sess.Backend().(*memory.Recorder)
		if !ok {
			return perrors.New(perrors.ErrCodeUnsupported, "backend cannot be rendered")
		}
		h := &pipeline.Headless{Scene: scene, Router: router, Recorder: rec}
		out, err := pipeline.Render(ctx, h, opts)
		if err != nil {
			return err
		}
		data = out[format]
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type pointerRequest struct {
	Type  string   `json:"type"`
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
	Yaw   float64  `json:"yaw,omitempty"`
	Pitch float64  `json:"pitch,omitempty"`
}

// event converts the request to an input event. A move with x and y is a
// screen move, a move without them is driven by the look angles.
func (p pointerRequest) event() (input.Event, error) {
	typ := input.Move
	if p.Type != "" {
		t, ok := input.ParseEventType(p.Type)
		if !ok {
			return input.Event{}, perrors.New(perrors.ErrCodeInvalidInput, "unknown pointer event %q", p.Type)
		}
		typ = t
	}
	if typ == input.Move && (p.X == nil) != (p.Y == nil) {
		return input.Event{}, perrors.New(perrors.ErrCodeInvalidInput, "pointer move needs both x and y")
	}
	if typ == input.Move && p.X != nil {
		return input.ScreenMove(geom.Coordinates{X: *p.X, Y: *p.Y}), nil
	}
	return input.Event{Type: typ, Yaw: p.Yaw, Pitch: p.Pitch}, nil
}

type pointerResponse struct {
	Highlighted uint64 `json:"highlighted,omitempty"`
	Scrolling   uint64 `json:"scrolling,omitempty"`
}

func (s *Server) postPointer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req pointerRequest
	if !decode(w, r, &req) {
		return
	}
	ev, err := req.event()
	if err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	var resp pointerResponse
	err = sess.Do(ctx, func(_ *view.Scene, router *input.Router) error {
		if err := router.Handle(ev); err != nil {
			return err
		}
		if n := router.Highlighted(); n != nil {
			resp.Highlighted = uint64(n.ID())
		}
		if feed := router.FocusedFeed(); feed != nil {
			resp.Scrolling = uint64(feed.ID())
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type scrollRequest struct {
	Direction string `json:"direction"`
}

func (s *Server) postScroll(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req scrollRequest
	if !decode(w, r, &req) {
		return
	}
	var dir display.Direction
	switch strings.ToLower(req.Direction) {
	case "up":
		dir = display.ScrollUp
	case "down":
		dir = display.ScrollDown
	default:
		writeError(w, perrors.New(perrors.ErrCodeInvalidInput, "scroll direction must be up or down, got %q", req.Direction))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := sess.Scroll(ctx, dir); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) postText(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req textRequest
	if !decode(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := sess.Text(ctx, req.Text); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "player"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sess, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "decode request"))
		return false
	}
	return true
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := perrors.GetCode(err)
	if errors.Is(err, session.ErrNotFound) {
		code = perrors.ErrCodeSessionNotFound
	}
	if code == "" {
		code = perrors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code, err), errorResponse{Code: string(code), Message: err.Error()})
}

func statusFor(code perrors.Code, err error) int {
	switch code {
	case perrors.ErrCodeNotFound, perrors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case perrors.ErrCodeInvalidInput, perrors.ErrCodeInvalidFormat, perrors.ErrCodeInvalidDocument:
		return http.StatusBadRequest
	case perrors.ErrCodeLayoutUnderspecified, perrors.ErrCodeLayoutCycle, perrors.ErrCodeUnknownNode:
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, session.ErrClosed) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
