package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set() error = %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get() = %q, %v, %v, want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("Get(missing) hit")
	}
	if err := c.Set(ctx, "a", []byte("alpha"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, hit, err := c.Get(ctx, "a")
	if err != nil || !hit || string(data) != "alpha" {
		t.Errorf("Get(a) = %q, %v, %v, want alpha", data, hit, err)
	}

	if err := c.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get(a) hit after Delete")
	}
	if err := c.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete() twice error = %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Error("Get() before expiry missed")
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get() after expiry hit")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Errorf("expired entry still on disk: %v", err)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get(corrupt) = %v, %v, want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatalf("Set(%s) error = %v", k, err)
		}
	}
	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Errorf("Clear() = %d, %v, want 3", n, err)
	}
	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("Get(b) hit after Clear")
	}
}

func TestHash(t *testing.T) {
	if Hash([]byte("hello")) != Hash([]byte("hello")) {
		t.Error("Hash() is not deterministic")
	}
	if Hash([]byte("hello")) == Hash([]byte("world")) {
		t.Error("Hash() collides on different input")
	}
	if got := len(Hash([]byte("hello"))); got != 64 {
		t.Errorf("len(Hash()) = %d, want 64", got)
	}
	type cfg struct{ RowUnit float64 }
	if HashValue(cfg{80}) == HashValue(cfg{40}) {
		t.Error("HashValue() ignores field values")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	svg := k.ArtifactKey("doc", "cfg", ArtifactKeyOpts{Format: "svg"})
	png := k.ArtifactKey("doc", "cfg", ArtifactKeyOpts{Format: "png"})
	if svg == png {
		t.Error("formats share a key")
	}
	if !strings.HasPrefix(svg, "artifact:svg:") {
		t.Errorf("ArtifactKey() = %s, want artifact:svg: prefix", svg)
	}
	if k.ArtifactKey("doc", "cfg2", ArtifactKeyOpts{Format: "svg"}) == svg {
		t.Error("config change keeps the key")
	}
	if k.ArtifactKey("doc", "cfg", ArtifactKeyOpts{Format: "svg", Anchors: true}) == svg {
		t.Error("options change keeps the key")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "v1.2.0:")
	inner := NewDefaultKeyer()
	opts := ArtifactKeyOpts{Format: "json"}
	if got, want := scoped.ArtifactKey("d", "c", opts), "v1.2.0:"+inner.ArtifactKey("d", "c", opts); got != want {
		t.Errorf("ArtifactKey() = %s, want %s", got, want)
	}
	if scoped.ArtifactKey("d", "c", opts) == NewScopedKeyer(nil, "v1.3.0:").ArtifactKey("d", "c", opts) {
		t.Error("versions share a key")
	}
}
