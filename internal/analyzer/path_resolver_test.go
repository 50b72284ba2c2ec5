package analyzer

import (
	"testing"
)

func newTestResolver() *PathResolver {
	return NewPathResolver([]string{
		"src/App.tsx",
		"src/components/Button.tsx",
		"src/components/Header.tsx",
		"src/components/index.ts",
		"src/pages/Dashboard.tsx",
		"src/utils/Format.ts",
	}, nil)
}

func TestResolveRelative(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		specifier string
		fromFile  string
		want      string
	}{
		{"./components/Button", "src/App.tsx", "src/components/Button.tsx"},
		{"./Button", "src/components/Header.tsx", "src/components/Button.tsx"},
		{"../pages/Dashboard", "src/components/Header.tsx", "src/pages/Dashboard.tsx"},
		{"./components", "src/App.tsx", "src/components/index.ts"},
		{"./components/Button.tsx", "src/App.tsx", "src/components/Button.tsx"},
	}

	for _, tt := range tests {
		got, ok := r.Resolve(tt.specifier, tt.fromFile)
		if !ok {
			t.Errorf("Resolve(%q, %q) failed, want %q", tt.specifier, tt.fromFile, tt.want)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.specifier, tt.fromFile, got, tt.want)
		}
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	r := newTestResolver()

	got, ok := r.Resolve("./components/button", "src/App.tsx")
	if !ok {
		t.Fatal("Expected case-insensitive match")
	}
	if got != "src/components/Button.tsx" {
		t.Errorf("Expected canonical case preserved, got %q", got)
	}
}

func TestResolveAlias(t *testing.T) {
	r := newTestResolver()

	got, ok := r.Resolve("@/components/Button", "src/pages/Dashboard.tsx")
	if !ok || got != "src/components/Button.tsx" {
		t.Errorf("Expected alias to resolve into src/, got %q ok=%v", got, ok)
	}

	custom := NewPathResolver([]string{"lib/helpers/time.ts"}, map[string]string{"~/": "lib/"})
	got, ok = custom.Resolve("~/helpers/time", "lib/main.ts")
	if !ok || got != "lib/helpers/time.ts" {
		t.Errorf("Expected configured alias prefix to win, got %q ok=%v", got, ok)
	}
}

func TestResolveExternalNeverResolves(t *testing.T) {
	r := newTestResolver()

	for _, specifier := range []string{"react", "node:fs", "@scope/pkg", "lodash/merge"} {
		if got, ok := r.Resolve(specifier, "src/App.tsx"); ok {
			t.Errorf("Resolve(%q) = %q, want external", specifier, got)
		}
	}
}

func TestResolverAddRemove(t *testing.T) {
	r := newTestResolver()

	if _, ok := r.Resolve("./pages/Settings", "src/App.tsx"); ok {
		t.Fatal("Settings should not resolve before Add")
	}
	r.Add("src/pages/Settings.tsx")
	if got, ok := r.Resolve("./pages/Settings", "src/App.tsx"); !ok || got != "src/pages/Settings.tsx" {
		t.Errorf("Expected Settings after Add, got %q ok=%v", got, ok)
	}
	r.Remove("src/pages/Settings.tsx")
	if _, ok := r.Resolve("./pages/Settings", "src/App.tsx"); ok {
		t.Error("Settings should not resolve after Remove")
	}
}
