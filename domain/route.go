package domain

import "sort"

// RoutingStyle tags the idiom a route declaration was recognized from.
// Downstream tie-break rules differ per style: structural matches
// (markup, object-array, file-convention) win over lexical matches.
type RoutingStyle string

const (
	// StyleMarkup represents inline markup route declarations:
	// <Route path="/x" element={<Page/>}/>
	StyleMarkup RoutingStyle = "markup"

	// StyleObjectArray represents object/array route tables:
	// { path: '/x', component: Page }
	StyleObjectArray RoutingStyle = "object_array"

	// StyleFileConvention represents routes implied by directory structure
	StyleFileConvention RoutingStyle = "file_convention"

	// StyleLexical represents routes found by the regex fallback pass
	StyleLexical RoutingStyle = "lexical"
)

// Structural reports whether the style comes from tree matching rather
// than the lexical fallback
func (s RoutingStyle) Structural() bool {
	return s != StyleLexical
}

// ComponentRef is an unresolved component reference as written in source
type ComponentRef struct {
	// Name is the identifier used for the component ("" for file-convention routes)
	Name string `json:"name,omitempty"`

	// Specifier is the originating module specifier when the reference
	// carries one directly (lazy imports), otherwise empty
	Specifier string `json:"specifier,omitempty"`

	// IsLazy indicates the reference is a deferred-import wrapper
	IsLazy bool `json:"is_lazy,omitempty"`
}

// RouteDefinition is one discovered route
type RouteDefinition struct {
	// RoutePath is the normalized URL path template (may contain :param segments)
	RoutePath string `json:"route_path"`

	// Component is the unresolved component reference
	Component ComponentRef `json:"component"`

	// DefiningFile is the file the declaration was found in
	DefiningFile string `json:"defining_file"`

	// Style is the recognized declaration idiom
	Style RoutingStyle `json:"style"`

	// ComponentFile is the resolved component file; empty when resolution failed
	ComponentFile string `json:"component_file,omitempty"`
}

// Key identifies a route for deduplication (routePath + definingFile)
func (r *RouteDefinition) Key() string {
	return r.DefiningFile + "\x00" + r.RoutePath
}

// ComponentRouteMapping is the derived bidirectional route index
type ComponentRouteMapping struct {
	// RoutesByComponent maps a component file to every route path it serves
	RoutesByComponent map[string][]string `json:"routes_by_component"`

	// ComponentByRoute maps a route path to its component file
	ComponentByRoute map[string]string `json:"component_by_route"`

	// RoutesByDefiner maps a defining file to every route path it declares
	RoutesByDefiner map[string][]string `json:"routes_by_definer"`

	// Unresolved are routes whose component reference did not resolve;
	// excluded from impact results, retained for diagnostics
	Unresolved []*RouteDefinition `json:"unresolved,omitempty"`
}

// NewComponentRouteMapping creates an empty mapping
func NewComponentRouteMapping() *ComponentRouteMapping {
	return &ComponentRouteMapping{
		RoutesByComponent: make(map[string][]string),
		ComponentByRoute:  make(map[string]string),
		RoutesByDefiner:   make(map[string][]string),
	}
}

// AddDeclared records a route under its defining file, resolved or not
func (m *ComponentRouteMapping) AddDeclared(definingFile, routePath string) {
	for _, existing := range m.RoutesByDefiner[definingFile] {
		if existing == routePath {
			return
		}
	}
	m.RoutesByDefiner[definingFile] = append(m.RoutesByDefiner[definingFile], routePath)
	sort.Strings(m.RoutesByDefiner[definingFile])
}

// Add records a resolved route
func (m *ComponentRouteMapping) Add(componentFile, routePath string) {
	for _, existing := range m.RoutesByComponent[componentFile] {
		if existing == routePath {
			return
		}
	}
	m.RoutesByComponent[componentFile] = append(m.RoutesByComponent[componentFile], routePath)
	sort.Strings(m.RoutesByComponent[componentFile])
	m.ComponentByRoute[routePath] = componentFile
}
