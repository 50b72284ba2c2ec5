package domain

import "testing"

func TestAddEdgeMaintainsBothDirections(t *testing.T) {
	g := NewImportGraph()
	g.AddEdge("src/app.tsx", "src/components/Button.tsx")

	app := g.GetNode("src/app.tsx")
	if app == nil {
		t.Fatal("Expected node for src/app.tsx")
	}
	if !app.Imports["src/components/Button.tsx"] {
		t.Error("Expected forward edge app -> Button")
	}

	button := g.GetNode("src/components/Button.tsx")
	if button == nil {
		t.Fatal("Expected node for Button.tsx")
	}
	if !button.ImportedBy["src/app.tsx"] {
		t.Error("Expected reverse edge Button <- app")
	}
}

func TestReverseEdgeConsistency(t *testing.T) {
	g := NewImportGraph()
	g.AddEdge("a.ts", "b.ts")
	g.AddEdge("b.ts", "c.ts")
	g.AddEdge("a.ts", "c.ts")

	for path, node := range g.Nodes {
		for to := range node.Imports {
			target := g.GetNode(to)
			if target == nil || !target.ImportedBy[path] {
				t.Errorf("Forward edge %s -> %s has no reverse counterpart", path, to)
			}
		}
		for from := range node.ImportedBy {
			source := g.GetNode(from)
			if source == nil || !source.Imports[path] {
				t.Errorf("Reverse edge %s <- %s has no forward counterpart", path, from)
			}
		}
	}
}

func TestAddEdgeIgnoresSelfAndEmpty(t *testing.T) {
	g := NewImportGraph()
	g.AddEdge("a.ts", "a.ts")
	g.AddEdge("", "a.ts")
	g.AddEdge("a.ts", "")

	if g.NodeCount() != 0 {
		t.Errorf("Expected empty graph, got %d nodes", g.NodeCount())
	}
}

func TestRemoveFileSeversBothDirections(t *testing.T) {
	g := NewImportGraph()
	g.AddEdge("a.ts", "b.ts")
	g.AddEdge("b.ts", "c.ts")

	g.RemoveFile("b.ts")

	if g.GetNode("b.ts") != nil {
		t.Error("Expected b.ts to be removed")
	}
	if g.GetNode("a.ts").Imports["b.ts"] {
		t.Error("Expected dangling forward edge a -> b to be severed")
	}
	if g.GetNode("c.ts").ImportedBy["b.ts"] {
		t.Error("Expected dangling reverse edge c <- b to be severed")
	}
}

func TestClearEdgesFrom(t *testing.T) {
	g := NewImportGraph()
	g.AddEdge("a.ts", "b.ts")
	g.AddEdge("c.ts", "a.ts")

	g.ClearEdgesFrom("a.ts")

	if len(g.GetNode("a.ts").Imports) != 0 {
		t.Error("Expected forward edges of a.ts cleared")
	}
	if g.GetNode("b.ts").ImportedBy["a.ts"] {
		t.Error("Expected reverse edge on b.ts cleared")
	}
	// Incoming edges are untouched
	if !g.GetNode("a.ts").ImportedBy["c.ts"] {
		t.Error("Expected incoming edge c -> a to remain")
	}
}

func TestUpdateEntryPoints(t *testing.T) {
	g := NewImportGraph()
	g.AddNode(&FileRecord{Path: "main.tsx"})
	g.AddNode(&FileRecord{Path: "page.tsx"})
	g.AddEdge("main.tsx", "page.tsx")

	g.UpdateEntryPoints()

	if !g.GetNode("main.tsx").Record.IsEntryPoint {
		t.Error("Expected main.tsx to be an entry point")
	}
	if g.GetNode("page.tsx").Record.IsEntryPoint {
		t.Error("Expected page.tsx not to be an entry point")
	}
}

func TestRevisionIncrementsOnMutation(t *testing.T) {
	g := NewImportGraph()
	before := g.Revision
	g.AddEdge("a.ts", "b.ts")
	if g.Revision == before {
		t.Error("Expected revision to advance on AddEdge")
	}
	mid := g.Revision
	g.RemoveFile("a.ts")
	if g.Revision == mid {
		t.Error("Expected revision to advance on RemoveFile")
	}
}

func TestFileRecordFindImportByLocal(t *testing.T) {
	record := &FileRecord{
		Path: "src/App.tsx",
		Imports: []*Import{
			{
				Specifier: "./pages/Dashboard",
				Kind:      ImportKindDefault,
				Names:     []ImportedName{{Imported: "default", Local: "Dashboard"}},
			},
			{
				Specifier: "react",
				Kind:      ImportKindNamed,
				Names:     []ImportedName{{Imported: "useState", Local: "useState"}},
			},
		},
	}

	imp, name := record.FindImportByLocal("Dashboard")
	if imp == nil || imp.Specifier != "./pages/Dashboard" {
		t.Errorf("Expected Dashboard import, got %+v", imp)
	}
	if name == nil || name.Imported != "default" {
		t.Errorf("Expected default binding, got %+v", name)
	}
	if imp, _ := record.FindImportByLocal("Missing"); imp != nil {
		t.Error("Expected nil for unknown local name")
	}
}

func TestComponentRouteMappingAdd(t *testing.T) {
	m := NewComponentRouteMapping()
	m.Add("src/pages/Dashboard.tsx", "/dashboard")
	m.Add("src/pages/Dashboard.tsx", "/dashboard") // duplicate
	m.Add("src/pages/Dashboard.tsx", "/admin")

	routes := m.RoutesByComponent["src/pages/Dashboard.tsx"]
	if len(routes) != 2 {
		t.Fatalf("Expected 2 routes, got %v", routes)
	}
	if routes[0] != "/admin" || routes[1] != "/dashboard" {
		t.Errorf("Expected sorted routes, got %v", routes)
	}
	if m.ComponentByRoute["/dashboard"] != "src/pages/Dashboard.tsx" {
		t.Error("Expected reverse mapping for /dashboard")
	}
}

func TestRoutingStyleStructural(t *testing.T) {
	cases := map[RoutingStyle]bool{
		StyleMarkup:         true,
		StyleObjectArray:    true,
		StyleFileConvention: true,
		StyleLexical:        false,
	}
	for style, want := range cases {
		if style.Structural() != want {
			t.Errorf("Structural(%s) = %v, want %v", style, style.Structural(), want)
		}
	}
}

func TestRouteDefinitionKey(t *testing.T) {
	a := &RouteDefinition{RoutePath: "/x", DefiningFile: "a.tsx"}
	b := &RouteDefinition{RoutePath: "/x", DefiningFile: "b.tsx"}
	if a.Key() == b.Key() {
		t.Error("Expected distinct keys for distinct defining files")
	}
}
