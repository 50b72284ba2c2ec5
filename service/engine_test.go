package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/routelens/routelens/domain"
	"github.com/routelens/routelens/internal/cache"
	"github.com/routelens/routelens/internal/config"
	"github.com/routelens/routelens/internal/testutil"
)

func fixtureProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testutil.WriteProject(t, root, testutil.SampleProject())
	return root
}

func writeFixtureFile(t *testing.T, root, rel, content string) {
	t.Helper()
	testutil.WriteProject(t, root, map[string]string{rel: content})
}

func newTestEngine(t *testing.T, root string) *Engine {
	t.Helper()
	engine, err := NewEngine(root, config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return engine
}

func TestEngineBuild(t *testing.T) {
	root := fixtureProject(t)
	engine := newTestEngine(t, root)

	resp, err := engine.Build(context.Background(), domain.BuildRequest{RootDir: root, ListRoutes: true})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if resp.Files != 6 {
		t.Errorf("expected 6 files, got %d", resp.Files)
	}
	if resp.Routes != 2 {
		t.Errorf("expected 2 routes, got %d", resp.Routes)
	}
	if resp.Edges == 0 {
		t.Error("expected import edges in the graph")
	}
	if resp.FromCache {
		t.Error("first build should not come from cache")
	}
	if resp.Reparsed != 6 {
		t.Errorf("expected all 6 files parsed, got %d", resp.Reparsed)
	}
	// index.tsx has no importers; App.tsx is a conventional bootstrap name
	if resp.EntryPoints != 2 {
		t.Errorf("expected 2 entry points, got %d", resp.EntryPoints)
	}

	wantComponents := map[string]string{
		"/dashboard": "src/views/Dashboard.tsx",
		"/settings":  "src/views/Settings.tsx",
	}
	if len(resp.RouteTable) != 2 {
		t.Fatalf("expected 2 routes in table, got %d", len(resp.RouteTable))
	}
	for _, route := range resp.RouteTable {
		want, ok := wantComponents[route.RoutePath]
		if !ok {
			t.Errorf("unexpected route %q", route.RoutePath)
			continue
		}
		if route.ComponentFile != want {
			t.Errorf("%s: expected component %s, got %q", route.RoutePath, want, route.ComponentFile)
		}
		if route.DefiningFile != "src/App.tsx" {
			t.Errorf("%s: expected defining file src/App.tsx, got %q", route.RoutePath, route.DefiningFile)
		}
	}
}

func TestEngineImpactSharedComponent(t *testing.T) {
	root := fixtureProject(t)
	engine := newTestEngine(t, root)

	changed := []string{"src/components/Button.tsx"}
	resp, err := engine.Impact(context.Background(), domain.ImpactRequest{RootDir: root, ChangedFiles: changed})
	if err != nil {
		t.Fatalf("Impact failed: %v", err)
	}

	routes := resp.Result.Routes["src/components/Button.tsx"]
	want := []string{"/dashboard", "/settings"}
	if !reflect.DeepEqual(routes, want) {
		t.Errorf("expected routes %v, got %v", want, routes)
	}

	shared := resp.Result.SharedComponents["src/components/Button.tsx"]
	if len(shared) != 2 {
		t.Errorf("expected Button flagged as shared across 2 routes, got %v", shared)
	}

	// Same query again must be deterministic (and memoized)
	again, err := engine.Impact(context.Background(), domain.ImpactRequest{RootDir: root, ChangedFiles: changed})
	if err != nil {
		t.Fatalf("second Impact failed: %v", err)
	}
	if !reflect.DeepEqual(resp.Result, again.Result) {
		t.Error("repeated impact query returned a different result")
	}
}

func TestEngineImpactDirectPageChange(t *testing.T) {
	root := fixtureProject(t)
	engine := newTestEngine(t, root)

	resp, err := engine.Impact(context.Background(), domain.ImpactRequest{
		RootDir:      root,
		ChangedFiles: []string{"src/views/Dashboard.tsx"},
	})
	if err != nil {
		t.Fatalf("Impact failed: %v", err)
	}

	routes := resp.Result.Routes["src/views/Dashboard.tsx"]
	if !reflect.DeepEqual(routes, []string{"/dashboard"}) {
		t.Errorf("expected only /dashboard affected, got %v", routes)
	}
	if len(resp.Result.SharedComponents) != 0 {
		t.Errorf("expected no shared components, got %v", resp.Result.SharedComponents)
	}
}

func TestEngineImpactUnknownFile(t *testing.T) {
	root := fixtureProject(t)
	engine := newTestEngine(t, root)

	resp, err := engine.Impact(context.Background(), domain.ImpactRequest{
		RootDir:      root,
		ChangedFiles: []string{"src/nonexistent.tsx"},
	})
	if err != nil {
		t.Fatalf("Impact failed: %v", err)
	}

	routes, ok := resp.Result.Routes["src/nonexistent.tsx"]
	if !ok {
		t.Fatal("expected an entry for the unknown file")
	}
	if len(routes) != 0 {
		t.Errorf("expected no affected routes for unknown file, got %v", routes)
	}
	if len(resp.Removed) != 0 {
		t.Errorf("unknown file should not be reported as removed, got %v", resp.Removed)
	}
}

func TestEngineSnapshotReuse(t *testing.T) {
	root := fixtureProject(t)
	ctx := context.Background()

	first := newTestEngine(t, root)
	if _, err := first.Build(ctx, domain.BuildRequest{RootDir: root}); err != nil {
		t.Fatalf("first build failed: %v", err)
	}

	// A fresh engine must restore everything from the snapshot
	second := newTestEngine(t, root)
	resp, err := second.Build(ctx, domain.BuildRequest{RootDir: root})
	if err != nil {
		t.Fatalf("second build failed: %v", err)
	}

	if !resp.FromCache {
		t.Error("expected unchanged project to build from snapshot")
	}
	if resp.Reparsed != 0 {
		t.Errorf("expected 0 reparsed files, got %d", resp.Reparsed)
	}
	if resp.Files != 6 || resp.Routes != 2 {
		t.Errorf("snapshot build lost state: %d files, %d routes", resp.Files, resp.Routes)
	}
}

func TestEngineSnapshotInvalidation(t *testing.T) {
	root := fixtureProject(t)
	ctx := context.Background()

	first := newTestEngine(t, root)
	if _, err := first.Build(ctx, domain.BuildRequest{RootDir: root}); err != nil {
		t.Fatalf("first build failed: %v", err)
	}

	writeFixtureFile(t, root, "src/views/Settings.tsx", `import Header from '../components/Header';

export default function Settings() {
  return <Header title="Settings v2" />;
}
`)

	second := newTestEngine(t, root)
	resp, err := second.Build(ctx, domain.BuildRequest{RootDir: root})
	if err != nil {
		t.Fatalf("second build failed: %v", err)
	}

	if resp.FromCache {
		t.Error("changed file should invalidate the cached build")
	}
	if resp.Reparsed != 1 {
		t.Errorf("expected exactly 1 reparsed file, got %d", resp.Reparsed)
	}
}

func TestEngineImpactDeletion(t *testing.T) {
	root := fixtureProject(t)
	ctx := context.Background()
	engine := newTestEngine(t, root)

	if _, err := engine.Build(ctx, domain.BuildRequest{RootDir: root}); err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if err := os.Remove(filepath.Join(root, "src", "views", "Settings.tsx")); err != nil {
		t.Fatalf("remove fixture file: %v", err)
	}

	resp, err := engine.Impact(ctx, domain.ImpactRequest{
		RootDir:      root,
		ChangedFiles: []string{"src/views/Settings.tsx"},
	})
	if err != nil {
		t.Fatalf("Impact failed: %v", err)
	}

	if !reflect.DeepEqual(resp.Removed, []string{"src/views/Settings.tsx"}) {
		t.Errorf("expected Settings.tsx reported removed, got %v", resp.Removed)
	}
	// Deletions are analyzed against the pre-removal graph
	routes := resp.Result.Routes["src/views/Settings.tsx"]
	if !reflect.DeepEqual(routes, []string{"/settings"}) {
		t.Errorf("expected /settings affected by its own deletion, got %v", routes)
	}

	// After removal the /settings route loses its component, so a shared
	// change only reaches /dashboard
	after, err := engine.Impact(ctx, domain.ImpactRequest{
		RootDir:      root,
		ChangedFiles: []string{"src/components/Button.tsx"},
	})
	if err != nil {
		t.Fatalf("post-removal Impact failed: %v", err)
	}
	got := after.Result.Routes["src/components/Button.tsx"]
	if !reflect.DeepEqual(got, []string{"/dashboard"}) {
		t.Errorf("expected only /dashboard after removal, got %v", got)
	}
}

func TestEngineImpactEditedRouteFile(t *testing.T) {
	root := fixtureProject(t)
	ctx := context.Background()
	engine := newTestEngine(t, root)

	if _, err := engine.Build(ctx, domain.BuildRequest{RootDir: root}); err != nil {
		t.Fatalf("build failed: %v", err)
	}

	// Add a third route to App.tsx; the incremental re-parse must pick
	// it up without a full rebuild
	writeFixtureFile(t, root, "src/App.tsx", `import { Route, Routes } from 'react-router-dom';
import Dashboard from './views/Dashboard';
import Settings from './views/Settings';
import Header from './components/Header';

export default function App() {
  return (
    <Routes>
      <Route path="/dashboard" element={<Dashboard />} />
      <Route path="/settings" element={<Settings />} />
      <Route path="/header" element={<Header />} />
    </Routes>
  );
}
`)

	resp, err := engine.Impact(ctx, domain.ImpactRequest{
		RootDir:      root,
		ChangedFiles: []string{"src/App.tsx"},
	})
	if err != nil {
		t.Fatalf("Impact failed: %v", err)
	}

	routes := resp.Result.Routes["src/App.tsx"]
	want := []string{"/dashboard", "/header", "/settings"}
	if !reflect.DeepEqual(routes, want) {
		t.Errorf("expected %v after route addition, got %v", want, routes)
	}
}

func TestEngineImpactFreshAfterRebuild(t *testing.T) {
	root := fixtureProject(t)
	ctx := context.Background()
	engine := newTestEngine(t, root)

	if _, err := engine.Build(ctx, domain.BuildRequest{RootDir: root}); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	resp, err := engine.Impact(ctx, domain.ImpactRequest{
		RootDir:      root,
		ChangedFiles: []string{"src/components/Button.tsx"},
	})
	if err != nil {
		t.Fatalf("Impact failed: %v", err)
	}
	want := []string{"/dashboard", "/settings"}
	if got := resp.Result.Routes["src/components/Button.tsx"]; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v before rename, got %v", want, got)
	}

	// Rename a route without touching the import structure, then rebuild.
	// The second graph restarts revisions, so a memoized result from the
	// first graph must not answer the repeated query.
	writeFixtureFile(t, root, "src/App.tsx", `import { Route, Routes } from 'react-router-dom';
import Dashboard from './views/Dashboard';
import Settings from './views/Settings';

export default function App() {
  return (
    <Routes>
      <Route path="/dash" element={<Dashboard />} />
      <Route path="/settings" element={<Settings />} />
    </Routes>
  );
}
`)
	if _, err := engine.Build(ctx, domain.BuildRequest{RootDir: root}); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}

	resp, err = engine.Impact(ctx, domain.ImpactRequest{
		RootDir:      root,
		ChangedFiles: []string{"src/components/Button.tsx"},
	})
	if err != nil {
		t.Fatalf("Impact after rebuild failed: %v", err)
	}
	want = []string{"/dash", "/settings"}
	if got := resp.Result.Routes["src/components/Button.tsx"]; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v after rename and rebuild, got %v", want, got)
	}
}

func TestEngineClearCache(t *testing.T) {
	root := fixtureProject(t)
	ctx := context.Background()
	engine := newTestEngine(t, root)

	if _, err := engine.Build(ctx, domain.BuildRequest{RootDir: root}); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if engine.Store() == nil {
		t.Fatal("expected a disk store with default configuration")
	}

	if err := engine.ClearCache(ctx); err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}

	if _, err := cache.LoadSnapshot(ctx, engine.Store()); !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("expected snapshot gone after ClearCache, got %v", err)
	}

	// Engine must rebuild from scratch afterwards
	resp, err := engine.Build(ctx, domain.BuildRequest{RootDir: root})
	if err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if resp.FromCache {
		t.Error("rebuild after ClearCache should not come from cache")
	}
	if resp.Files != 6 || resp.Routes != 2 {
		t.Errorf("rebuild lost state: %d files, %d routes", resp.Files, resp.Routes)
	}
}

func TestEngineRoutesBuildsLazily(t *testing.T) {
	root := fixtureProject(t)
	engine := newTestEngine(t, root)

	routes, err := engine.Routes(context.Background())
	if err != nil {
		t.Fatalf("Routes failed: %v", err)
	}
	if len(routes) != 2 {
		t.Errorf("expected 2 routes, got %d", len(routes))
	}
}

func TestEngineCacheDisabled(t *testing.T) {
	root := fixtureProject(t)
	cfg := config.DefaultConfig()
	cfg.Cache.Enabled = domain.BoolPtr(false)

	engine, err := NewEngine(root, cfg, nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if engine.Store() != nil {
		t.Error("expected no store when caching is disabled")
	}

	resp, err := engine.Build(context.Background(), domain.BuildRequest{RootDir: root})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if resp.Routes != 2 {
		t.Errorf("expected 2 routes, got %d", resp.Routes)
	}
	if _, err := os.Stat(filepath.Join(root, ".routelens")); !os.IsNotExist(err) {
		t.Error("expected no snapshot directory when caching is disabled")
	}
}
