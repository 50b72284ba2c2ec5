package analyzer

import (
	"fmt"
	"sort"

	"github.com/routelens/routelens/domain"
	"github.com/routelens/routelens/internal/constants"
)

// ImpactEngine answers "which routes does this change affect" by
// walking the reverse import edges from each changed file.
type ImpactEngine struct {
	graph    *domain.ImportGraph
	mapping  *domain.ComponentRouteMapping
	maxDepth int
}

// NewImpactEngine creates an ImpactEngine over a built graph and its
// component-route mapping. maxDepth bounds each traversal; 0 selects
// the default cap.
func NewImpactEngine(graph *domain.ImportGraph, mapping *domain.ComponentRouteMapping, maxDepth int) *ImpactEngine {
	if maxDepth <= 0 {
		maxDepth = constants.DefaultMaxTraversalDepth
	}
	return &ImpactEngine{
		graph:    graph,
		mapping:  mapping,
		maxDepth: maxDepth,
	}
}

// Analyze computes the affected routes for a set of changed files.
// A route is affected when its component file transitively imports one
// of the changed files, or is one of them, or when the changed file is
// the one declaring the route. Unknown paths yield empty route lists
// rather than errors.
func (e *ImpactEngine) Analyze(changedFiles []string) *domain.ImpactResult {
	result := domain.NewImpactResult()

	for _, changed := range changedFiles {
		reachable, capped := e.reverseReachable(changed)
		if capped {
			result.Partial = true
		}

		routeSet := make(map[string]bool)
		direct := 0
		for file := range reachable {
			for _, routePath := range e.mapping.RoutesByComponent[file] {
				routeSet[routePath] = true
				if file == changed {
					direct++
				}
			}
		}
		// A change to the defining file itself touches every route it
		// declares, even ones whose component lives elsewhere
		for _, routePath := range e.mapping.RoutesByDefiner[changed] {
			if !routeSet[routePath] {
				routeSet[routePath] = true
				direct++
			}
		}

		routes := make([]string, 0, len(routeSet))
		for routePath := range routeSet {
			routes = append(routes, routePath)
		}
		sort.Strings(routes)
		result.Routes[changed] = routes

		// A file serving several routes it is not itself the component of
		// is shared infrastructure worth surfacing
		if len(routes) >= 2 && direct < len(routes) {
			result.SharedComponents[changed] = routes
		}
	}

	for _, route := range e.mapping.Unresolved {
		result.Unresolved = append(result.Unresolved,
			fmt.Sprintf("%s (%s)", route.RoutePath, route.DefiningFile))
	}
	sort.Strings(result.Unresolved)

	return result
}

// reverseReachable walks ImportedBy edges breadth-first from start,
// returning every file that transitively imports it (start included)
// and whether the walk hit the depth cap. Cycles terminate via the
// visited set.
func (e *ImpactEngine) reverseReachable(start string) (map[string]bool, bool) {
	visited := map[string]bool{start: true}
	if e.graph.GetNode(start) == nil {
		return visited, false
	}

	type item struct {
		path  string
		depth int
	}
	queue := []item{{path: start}}
	capped := false

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.depth >= e.maxDepth {
			// Only a cut-off expansion makes the walk partial; a node at
			// the cap with no unvisited importers loses nothing
			for _, importer := range e.graph.ImportersOf(current.path) {
				if !visited[importer] {
					capped = true
					break
				}
			}
			continue
		}
		for _, importer := range e.graph.ImportersOf(current.path) {
			if visited[importer] {
				continue
			}
			visited[importer] = true
			queue = append(queue, item{path: importer, depth: current.depth + 1})
		}
	}
	return visited, capped
}
