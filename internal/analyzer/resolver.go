package analyzer

import (
	"github.com/routelens/routelens/domain"
	"github.com/routelens/routelens/internal/constants"
)

// ComponentResolver maps a route's component reference to the file that
// defines the component, following imports and re-export chains.
type ComponentResolver struct {
	resolver *PathResolver
	records  map[string]*domain.FileRecord
	maxHops  int
}

// NewComponentResolver creates a ComponentResolver over the given file
// records. The records map is keyed by project-relative path.
func NewComponentResolver(resolver *PathResolver, records map[string]*domain.FileRecord) *ComponentResolver {
	return &ComponentResolver{
		resolver: resolver,
		records:  records,
		maxHops:  constants.DefaultMaxReExportDepth,
	}
}

// Resolve returns the file defining the route's component, or "" when
// the component cannot be resolved. Resolution never fails hard: an
// unresolvable component leaves the route valid but file-less.
func (r *ComponentResolver) Resolve(route *domain.RouteDefinition) string {
	ref := route.Component

	// Inline deferred import: component: () => import('./Page')
	if ref.Specifier != "" {
		if target, ok := r.resolver.Resolve(ref.Specifier, route.DefiningFile); ok {
			return r.chaseDefault(target, 0)
		}
		return ""
	}

	if ref.Name == "" {
		// Convention routes have no component reference: the file is the component
		if route.Style == domain.StyleFileConvention {
			return route.DefiningFile
		}
		return ""
	}

	record := r.records[route.DefiningFile]
	if record == nil {
		return ""
	}

	// Imported into the defining file under this local name
	if imp, name := record.FindImportByLocal(ref.Name); imp != nil {
		target, ok := r.resolver.Resolve(imp.Specifier, route.DefiningFile)
		if !ok {
			return ""
		}
		if name != nil && name.Imported != "default" && name.Imported != "*" {
			return r.chaseNamed(target, name.Imported, 0)
		}
		return r.chaseDefault(target, 0)
	}

	// Defined in the same file
	for _, export := range record.Exports {
		if export.Name == ref.Name && !export.IsReExport() {
			return route.DefiningFile
		}
	}
	// Unexported local definitions still count: a component used only by
	// the route table in its own file never appears in Exports
	return route.DefiningFile
}

// chaseNamed follows re-export chains for a named export until it lands
// on the file that actually defines the name
func (r *ComponentResolver) chaseNamed(filePath, name string, hops int) string {
	if hops > r.maxHops {
		return ""
	}
	record := r.records[filePath]
	if record == nil {
		return filePath
	}
	for _, export := range record.Exports {
		if !export.IsReExport() {
			continue
		}
		if export.Name != name && export.Name != "*" {
			continue
		}
		next, ok := r.resolver.Resolve(export.Source, filePath)
		if !ok {
			continue
		}
		inner := name
		if export.Name == name && export.Local != "" {
			inner = export.Local
		}
		if resolved := r.chaseNamed(next, inner, hops+1); resolved != "" {
			return resolved
		}
	}
	return filePath
}

// chaseDefault follows `export { default } from` chains
func (r *ComponentResolver) chaseDefault(filePath string, hops int) string {
	if hops > r.maxHops {
		return ""
	}
	record := r.records[filePath]
	if record == nil {
		return filePath
	}
	for _, export := range record.Exports {
		if !export.IsReExport() || export.Name != "default" {
			continue
		}
		next, ok := r.resolver.Resolve(export.Source, filePath)
		if !ok {
			continue
		}
		if resolved := r.chaseDefault(next, hops+1); resolved != "" {
			return resolved
		}
	}
	return filePath
}

// ResolveAll resolves every route's component and builds the
// bidirectional component-route mapping
func (r *ComponentResolver) ResolveAll(routes []*domain.RouteDefinition) *domain.ComponentRouteMapping {
	mapping := domain.NewComponentRouteMapping()
	for _, route := range routes {
		mapping.AddDeclared(route.DefiningFile, route.RoutePath)
		file := r.Resolve(route)
		route.ComponentFile = file
		if file == "" {
			mapping.Unresolved = append(mapping.Unresolved, route)
			continue
		}
		mapping.Add(file, route.RoutePath)
	}
	return mapping
}
