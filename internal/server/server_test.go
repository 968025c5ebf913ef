package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/holopanel/pkg/config"
	"github.com/matzehuels/holopanel/pkg/document"
)

const panel = `
[panel]
width = 400
height = 200

[[panel.children]]
key = "title"
kind = "text"
text = "Hello"
center_x = true
top = "parent.top"

[[panel.children]]
kind = "button"
text = "OK"
action = "ok"
center = true
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	doc, err := document.Parse(panel)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	s := New(doc, config.Default(), log.New(io.Discard))
	ts := httptest.NewServer(s)
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, ts, http.MethodPut, "/players/steve", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("PUT status = %d, want %d: %s", resp.StatusCode, http.StatusCreated, body)
	}
	var sess sessionResponse
	if err := json.Unmarshal(body, &sess); err != nil {
		t.Fatal(err)
	}
	if sess.Player != "steve" || sess.ID == "" {
		t.Errorf("session = %+v", sess)
	}

	if resp, _ := do(t, ts, http.MethodPut, "/players/steve", ""); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("second PUT status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	_, body = do(t, ts, http.MethodGet, "/players", "")
	if !strings.Contains(string(body), `"steve"`) {
		t.Errorf("players = %s", body)
	}

	if resp, _ := do(t, ts, http.MethodDelete, "/players/steve", ""); resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp, body = do(t, ts, http.MethodDelete, "/players/steve", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second DELETE status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	if !strings.Contains(string(body), "SESSION_NOT_FOUND") {
		t.Errorf("error body = %s", body)
	}
}

func TestPointer(t *testing.T) {
	ts := newTestServer(t)
	do(t, ts, http.MethodPut, "/players/alex", "")

	resp, body := do(t, ts, http.MethodPost, "/players/alex/pointer", `{"x": 0, "y": 0}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var got pointerResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Highlighted == 0 {
		t.Error("pointer over the button should highlight it")
	}

	if resp, _ := do(t, ts, http.MethodPost, "/players/alex/pointer", `{"type": "click"}`); resp.StatusCode != http.StatusOK {
		t.Errorf("click status = %d", resp.StatusCode)
	}

	_, body = do(t, ts, http.MethodPost, "/players/alex/pointer", `{"type": "clear"}`)
	got = pointerResponse{}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Highlighted != 0 {
		t.Errorf("highlighted after clear = %d, want 0", got.Highlighted)
	}
}

func TestPointerBadRequests(t *testing.T) {
	ts := newTestServer(t)
	do(t, ts, http.MethodPut, "/players/alex", "")

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{`},
		{"unknown type", `{"type": "poke"}`},
		{"half coordinate", `{"x": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, ts, http.MethodPost, "/players/alex/pointer", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want %d: %s", resp.StatusCode, http.StatusBadRequest, body)
			}
		})
	}

	if resp, _ := do(t, ts, http.MethodPost, "/players/nobody/pointer", `{}`); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown player status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestScrollAndText(t *testing.T) {
	ts := newTestServer(t)
	do(t, ts, http.MethodPut, "/players/alex", "")

	if resp, _ := do(t, ts, http.MethodPost, "/players/alex/scroll", `{"direction": "down"}`); resp.StatusCode != http.StatusNoContent {
		t.Errorf("scroll status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	if resp, _ := do(t, ts, http.MethodPost, "/players/alex/scroll", `{"direction": "sideways"}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad scroll status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	if resp, _ := do(t, ts, http.MethodPost, "/players/alex/text", `{"text": "hi"}`); resp.StatusCode != http.StatusNoContent {
		t.Errorf("text status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
}

func TestScene(t *testing.T) {
	ts := newTestServer(t)
	do(t, ts, http.MethodPut, "/players/alex", "")

	tests := []struct {
		format      string
		contentType string
		prefix      []byte
	}{
		{"json", "application/json", []byte("{")},
		{"dot", "text/vnd.graphviz; charset=utf-8", []byte("digraph")},
		{"txt", "text/plain; charset=utf-8", nil},
		{"png", "image/png", []byte("\x89PNG")},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp, body := do(t, ts, http.MethodGet, "/players/alex/scene."+tt.format, "")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.StatusCode, body)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if !bytes.HasPrefix(body, tt.prefix) {
				t.Errorf("body starts with %q, want %q", body[:min(len(body), 8)], tt.prefix)
			}
		})
	}

	if resp, _ := do(t, ts, http.MethodGet, "/players/alex/scene.gif", ""); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("gif status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestOpenSessionLayoutError(t *testing.T) {
	doc, err := document.Parse(`
[panel]
width = 400
height = 200

[[panel.children]]
kind = "text"
text = "stretched"
width = "fill"
start = "parent.start"
`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	s := New(doc, config.Default(), log.New(io.Discard))
	defer s.Close()

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/players/alex", nil))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d: %s", rec.Code, http.StatusUnprocessableEntity, rec.Body)
	}
	if got := s.sessions.Len(); got != 0 {
		t.Errorf("sessions after failed open = %d, want 0", got)
	}
}
