package analyzer

import (
	"path"
	"strings"

	"github.com/routelens/routelens/domain"
)

// GraphBuilderConfig configures the GraphBuilder
type GraphBuilderConfig struct {
	// AliasPrefixes maps import alias prefixes to project directories
	AliasPrefixes map[string]string

	// EntryFileNames are conventional bootstrap file base names
	EntryFileNames []string
}

// DefaultGraphBuilderConfig returns a config with sensible defaults
func DefaultGraphBuilderConfig() *GraphBuilderConfig {
	return &GraphBuilderConfig{
		AliasPrefixes:  map[string]string{"@/": "src/", "~/": "src/"},
		EntryFileNames: []string{"index", "main", "app", "_app", "App"},
	}
}

// GraphBuilder assembles the import graph from parsed file records
type GraphBuilder struct {
	config   *GraphBuilderConfig
	resolver *PathResolver
}

// NewGraphBuilder creates a GraphBuilder over the known file set
func NewGraphBuilder(config *GraphBuilderConfig, files []string) *GraphBuilder {
	if config == nil {
		config = DefaultGraphBuilderConfig()
	}
	return &GraphBuilder{
		config:   config,
		resolver: NewPathResolver(files, config.AliasPrefixes),
	}
}

// Resolver exposes the underlying path resolver for component resolution
func (b *GraphBuilder) Resolver() *PathResolver {
	return b.resolver
}

// Build constructs a new graph from a complete record set. Records are
// inserted first, then edges, so processing order never affects the
// result.
func (b *GraphBuilder) Build(records map[string]*domain.FileRecord) *domain.ImportGraph {
	graph := domain.NewImportGraph()
	for _, record := range records {
		graph.AddNode(record)
	}
	for _, record := range records {
		b.connect(graph, record)
	}
	graph.UpdateEntryPoints()
	return graph
}

// Refresh re-wires a single changed record into an existing graph:
// old forward edges are severed, the record replaced, edges re-resolved.
func (b *GraphBuilder) Refresh(graph *domain.ImportGraph, record *domain.FileRecord) {
	graph.ClearEdgesFrom(record.Path)
	graph.AddNode(record)
	b.connect(graph, record)
	graph.UpdateEntryPoints()
}

// Remove drops a deleted file from both the graph and the resolver index
func (b *GraphBuilder) Remove(graph *domain.ImportGraph, path string) {
	graph.RemoveFile(path)
	b.resolver.Remove(path)
	graph.UpdateEntryPoints()
}

func (b *GraphBuilder) connect(graph *domain.ImportGraph, record *domain.FileRecord) {
	node := graph.GetNode(record.Path)
	if node == nil {
		node = graph.AddNode(record)
	}

	seenExternal := make(map[string]bool)
	for _, imp := range record.Imports {
		if target, ok := b.resolver.Resolve(imp.Specifier, record.Path); ok {
			graph.AddEdge(record.Path, target)
			continue
		}
		if !seenExternal[imp.Specifier] {
			seenExternal[imp.Specifier] = true
			node.External = append(node.External, imp.Specifier)
		}
	}

	// Re-exports are edges too: a barrel that forwards a name depends on
	// the file that defines it
	for _, exp := range record.Exports {
		if !exp.IsReExport() {
			continue
		}
		if target, ok := b.resolver.Resolve(exp.Source, record.Path); ok {
			graph.AddEdge(record.Path, target)
		} else if !seenExternal[exp.Source] {
			seenExternal[exp.Source] = true
			node.External = append(node.External, exp.Source)
		}
	}
}

// IsConventionalEntry reports whether a path matches a known entry-file
// convention at the project root or under src/
func (b *GraphBuilder) IsConventionalEntry(p string) bool {
	dir := path.Dir(p)
	if dir != "." && dir != "src" {
		return false
	}
	base := strings.TrimSuffix(path.Base(p), path.Ext(p))
	for _, name := range b.config.EntryFileNames {
		if base == name {
			return true
		}
	}
	return false
}
