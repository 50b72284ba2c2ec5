package analyzer

import (
	"reflect"
	"testing"

	"github.com/routelens/routelens/domain"
)

// scenarioGraph builds the canonical shared-component layout:
// App declares /dashboard and /settings; both pages use Header, which
// uses Button.
func scenarioGraph(t *testing.T) (*domain.ImportGraph, *domain.ComponentRouteMapping) {
	t.Helper()
	records := map[string]*domain.FileRecord{
		"src/App.tsx":               record("src/App.tsx", "./pages/Dashboard", "./pages/Settings"),
		"src/pages/Dashboard.tsx":   record("src/pages/Dashboard.tsx", "../components/Header"),
		"src/pages/Settings.tsx":    record("src/pages/Settings.tsx", "../components/Header"),
		"src/components/Header.tsx": record("src/components/Header.tsx", "./Button"),
		"src/components/Button.tsx": record("src/components/Button.tsx"),
	}
	files := make([]string, 0, len(records))
	for p := range records {
		files = append(files, p)
	}
	graph := NewGraphBuilder(nil, files).Build(records)

	mapping := domain.NewComponentRouteMapping()
	mapping.Add("src/pages/Dashboard.tsx", "/dashboard")
	mapping.Add("src/pages/Settings.tsx", "/settings")
	mapping.AddDeclared("src/App.tsx", "/dashboard")
	mapping.AddDeclared("src/App.tsx", "/settings")
	return graph, mapping
}

func TestImpactDefiningFileChange(t *testing.T) {
	graph, mapping := scenarioGraph(t)
	engine := NewImpactEngine(graph, mapping, 0)

	result := engine.Analyze([]string{"src/App.tsx"})

	want := []string{"/dashboard", "/settings"}
	if !reflect.DeepEqual(result.Routes["src/App.tsx"], want) {
		t.Errorf("Expected declared routes affected, got %v", result.Routes["src/App.tsx"])
	}
	// Declared routes count as direct, not as shared infrastructure
	if len(result.SharedComponents) != 0 {
		t.Errorf("Defining file is not a shared component, got %v", result.SharedComponents)
	}
}

func TestImpactSharedComponent(t *testing.T) {
	graph, mapping := scenarioGraph(t)
	engine := NewImpactEngine(graph, mapping, 0)

	result := engine.Analyze([]string{"src/components/Button.tsx"})

	want := []string{"/dashboard", "/settings"}
	if !reflect.DeepEqual(result.Routes["src/components/Button.tsx"], want) {
		t.Errorf("Expected both routes affected, got %v", result.Routes["src/components/Button.tsx"])
	}
	if !reflect.DeepEqual(result.SharedComponents["src/components/Button.tsx"], want) {
		t.Errorf("Expected Button flagged as shared, got %v", result.SharedComponents)
	}
	if result.Partial {
		t.Error("Traversal must not be partial on a shallow graph")
	}
}

func TestImpactDirectPageChange(t *testing.T) {
	graph, mapping := scenarioGraph(t)
	engine := NewImpactEngine(graph, mapping, 0)

	result := engine.Analyze([]string{"src/pages/Dashboard.tsx"})

	want := []string{"/dashboard"}
	if !reflect.DeepEqual(result.Routes["src/pages/Dashboard.tsx"], want) {
		t.Errorf("Expected only /dashboard, got %v", result.Routes["src/pages/Dashboard.tsx"])
	}
	if len(result.SharedComponents) != 0 {
		t.Errorf("A page component is not shared, got %v", result.SharedComponents)
	}
}

func TestImpactUnknownFile(t *testing.T) {
	graph, mapping := scenarioGraph(t)
	engine := NewImpactEngine(graph, mapping, 0)

	result := engine.Analyze([]string{"src/NotThere.tsx"})

	routes, ok := result.Routes["src/NotThere.tsx"]
	if !ok {
		t.Fatal("Unknown files still get an entry")
	}
	if len(routes) != 0 {
		t.Errorf("Expected empty routes for unknown file, got %v", routes)
	}
}

func TestImpactCycleSafety(t *testing.T) {
	records := map[string]*domain.FileRecord{
		"src/a.ts": record("src/a.ts", "./b"),
		"src/b.ts": record("src/b.ts", "./c"),
		"src/c.ts": record("src/c.ts", "./a"),
	}
	files := []string{"src/a.ts", "src/b.ts", "src/c.ts"}
	graph := NewGraphBuilder(nil, files).Build(records)

	mapping := domain.NewComponentRouteMapping()
	mapping.Add("src/b.ts", "/b")

	engine := NewImpactEngine(graph, mapping, 0)
	result := engine.Analyze([]string{"src/a.ts"})

	want := []string{"/b"}
	if !reflect.DeepEqual(result.Routes["src/a.ts"], want) {
		t.Errorf("Expected /b affected through the cycle, got %v", result.Routes["src/a.ts"])
	}
}

func TestImpactDepthCap(t *testing.T) {
	// chain: f0 <- f1 <- ... <- f9, route component at f9
	records := map[string]*domain.FileRecord{}
	var files []string
	for i := 0; i < 10; i++ {
		p := "src/f" + string(rune('0'+i)) + ".ts"
		files = append(files, p)
		if i == 0 {
			records[p] = record(p)
		} else {
			records[p] = record(p, "./f"+string(rune('0'+i-1)))
		}
	}
	graph := NewGraphBuilder(nil, files).Build(records)

	mapping := domain.NewComponentRouteMapping()
	mapping.Add("src/f9.ts", "/deep")

	shallow := NewImpactEngine(graph, mapping, 3)
	result := shallow.Analyze([]string{"src/f0.ts"})
	if !result.Partial {
		t.Error("Expected partial result at the depth cap")
	}
	if len(result.Routes["src/f0.ts"]) != 0 {
		t.Errorf("Route beyond the cap must not appear, got %v", result.Routes["src/f0.ts"])
	}

	// f9 dequeues exactly at the cap but is a true root: nothing was
	// cut off, so the result is complete
	exact := NewImpactEngine(graph, mapping, 9)
	result = exact.Analyze([]string{"src/f0.ts"})
	if result.Partial {
		t.Error("Chain ending exactly at the cap is fully covered")
	}
	if !reflect.DeepEqual(result.Routes["src/f0.ts"], []string{"/deep"}) {
		t.Errorf("Expected /deep at the exact cap, got %v", result.Routes["src/f0.ts"])
	}

	deep := NewImpactEngine(graph, mapping, 0)
	result = deep.Analyze([]string{"src/f0.ts"})
	if result.Partial {
		t.Error("Default cap covers a 10-file chain")
	}
	if !reflect.DeepEqual(result.Routes["src/f0.ts"], []string{"/deep"}) {
		t.Errorf("Expected /deep, got %v", result.Routes["src/f0.ts"])
	}
}

func TestImpactDeterministic(t *testing.T) {
	graph, mapping := scenarioGraph(t)
	engine := NewImpactEngine(graph, mapping, 0)

	changed := []string{"src/components/Button.tsx", "src/pages/Settings.tsx"}
	first := engine.Analyze(changed)
	for i := 0; i < 5; i++ {
		next := engine.Analyze(changed)
		if !reflect.DeepEqual(first, next) {
			t.Fatalf("Analysis not deterministic: %+v vs %+v", first, next)
		}
	}
}

func TestImpactReportsUnresolved(t *testing.T) {
	graph, mapping := scenarioGraph(t)
	mapping.Unresolved = append(mapping.Unresolved, &domain.RouteDefinition{
		RoutePath:    "/ghost",
		DefiningFile: "src/App.tsx",
		Style:        domain.StyleObjectArray,
	})
	engine := NewImpactEngine(graph, mapping, 0)

	result := engine.Analyze([]string{"src/components/Button.tsx"})
	if len(result.Unresolved) != 1 || result.Unresolved[0] != "/ghost (src/App.tsx)" {
		t.Errorf("Expected unresolved diagnostic, got %v", result.Unresolved)
	}
}
