package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Scene hooks
	s := NoopSceneHooks{}
	s.OnRender(ctx, 1, "container")
	s.OnRebuild(ctx, 1, 3, 2)
	s.OnLayoutError(ctx, 2, errors.New("boom"))
	s.OnScroll(ctx, 3, "down", 1)

	// Input hooks
	in := NoopInputHooks{}
	in.OnHighlight(ctx, 4, true)
	in.OnClick(ctx, 4)
	in.OnScrollRouted(ctx, 0, "up")

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnBuildStart(ctx, "menu.toml")
	p.OnBuildComplete(ctx, "menu.toml", 12, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Scene().(NoopSceneHooks); !ok {
		t.Error("Scene() should return NoopSceneHooks by default")
	}
	if _, ok := Input().(NoopInputHooks); !ok {
		t.Error("Input() should return NoopInputHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customScene := &testSceneHooks{}
	SetSceneHooks(customScene)
	if Scene() != customScene {
		t.Error("SetSceneHooks should set custom hooks")
	}

	customInput := &testInputHooks{}
	SetInputHooks(customInput)
	if Input() != customInput {
		t.Error("SetInputHooks should set custom hooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Scene().(NoopSceneHooks); !ok {
		t.Error("Reset() should restore NoopSceneHooks")
	}
	if _, ok := Input().(NoopInputHooks); !ok {
		t.Error("Reset() should restore NoopInputHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testSceneHooks{}
	SetSceneHooks(custom)

	// Setting nil should be ignored
	SetSceneHooks(nil)

	if Scene() != custom {
		t.Error("SetSceneHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testSceneHooks struct{ NoopSceneHooks }
type testInputHooks struct{ NoopInputHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
