package domain

import "sort"

// GraphNode wraps a FileRecord with graph-relative data
type GraphNode struct {
	// Record is the per-file metadata
	Record *FileRecord `json:"record"`

	// Imports are resolved forward edges: project files this file imports
	Imports map[string]bool `json:"imports,omitempty"`

	// ImportedBy are reverse edges: project files that import this file
	ImportedBy map[string]bool `json:"imported_by,omitempty"`

	// External are specifiers that resolved outside the project root
	// (packages, builtins, unresolvable aliases); recorded but never edges
	External []string `json:"external,omitempty"`
}

// NewGraphNode creates a node for the given record
func NewGraphNode(record *FileRecord) *GraphNode {
	return &GraphNode{
		Record:     record,
		Imports:    make(map[string]bool),
		ImportedBy: make(map[string]bool),
	}
}

// ImportGraph is the directed import graph over project files.
// Both edge directions are maintained at insertion time, so for every
// pair (a, b): b ∈ Imports(a) iff a ∈ ImportedBy(b).
type ImportGraph struct {
	// Nodes maps canonical file path to its node
	Nodes map[string]*GraphNode `json:"nodes"`

	// Revision increments on every mutation; used as a memoization key
	Revision uint64 `json:"revision"`
}

// NewImportGraph creates an empty ImportGraph
func NewImportGraph() *ImportGraph {
	return &ImportGraph{
		Nodes: make(map[string]*GraphNode),
	}
}

// AddNode inserts or replaces the node for record.Path
func (g *ImportGraph) AddNode(record *FileRecord) *GraphNode {
	if record == nil {
		return nil
	}
	node, ok := g.Nodes[record.Path]
	if !ok {
		node = NewGraphNode(record)
		g.Nodes[record.Path] = node
	} else {
		node.Record = record
	}
	g.Revision++
	return node
}

// GetNode returns the node for a path, or nil
func (g *ImportGraph) GetNode(path string) *GraphNode {
	return g.Nodes[path]
}

// AddEdge records that from imports to, updating both directions.
// Missing nodes are created lazily so edge insertion order is irrelevant.
func (g *ImportGraph) AddEdge(from, to string) {
	if from == "" || to == "" || from == to {
		return
	}
	fromNode := g.ensureNode(from)
	toNode := g.ensureNode(to)
	fromNode.Imports[to] = true
	toNode.ImportedBy[from] = true
	g.Revision++
}

// RemoveFile deletes a node and severs both directions of its edges
func (g *ImportGraph) RemoveFile(path string) {
	node, ok := g.Nodes[path]
	if !ok {
		return
	}
	for to := range node.Imports {
		if target := g.Nodes[to]; target != nil {
			delete(target.ImportedBy, path)
		}
	}
	for from := range node.ImportedBy {
		if source := g.Nodes[from]; source != nil {
			delete(source.Imports, path)
		}
	}
	delete(g.Nodes, path)
	g.Revision++
}

// ClearEdgesFrom removes all forward edges of a file, keeping the node.
// Used before re-resolving a changed file's imports.
func (g *ImportGraph) ClearEdgesFrom(path string) {
	node, ok := g.Nodes[path]
	if !ok {
		return
	}
	for to := range node.Imports {
		if target := g.Nodes[to]; target != nil {
			delete(target.ImportedBy, path)
		}
	}
	node.Imports = make(map[string]bool)
	node.External = nil
	g.Revision++
}

// ImportersOf returns the sorted reverse edges of a file
func (g *ImportGraph) ImportersOf(path string) []string {
	node, ok := g.Nodes[path]
	if !ok {
		return nil
	}
	importers := make([]string, 0, len(node.ImportedBy))
	for from := range node.ImportedBy {
		importers = append(importers, from)
	}
	sort.Strings(importers)
	return importers
}

// NodeCount returns the number of nodes
func (g *ImportGraph) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of forward edges
func (g *ImportGraph) EdgeCount() int {
	count := 0
	for _, node := range g.Nodes {
		count += len(node.Imports)
	}
	return count
}

// Paths returns all node paths, sorted
func (g *ImportGraph) Paths() []string {
	paths := make([]string, 0, len(g.Nodes))
	for path := range g.Nodes {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// UpdateEntryPoints sets IsEntryPoint on records with no importers
func (g *ImportGraph) UpdateEntryPoints() {
	for _, node := range g.Nodes {
		if node.Record != nil {
			node.Record.IsEntryPoint = len(node.ImportedBy) == 0
		}
	}
}

func (g *ImportGraph) ensureNode(path string) *GraphNode {
	node, ok := g.Nodes[path]
	if !ok {
		node = NewGraphNode(&FileRecord{Path: path})
		g.Nodes[path] = node
	}
	return node
}
