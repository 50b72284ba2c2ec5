package domain

import "io"

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// BuildRequest represents a request to build or refresh the import graph
type BuildRequest struct {
	// RootDir is the project root to scan
	RootDir string

	// NoCache skips loading any persisted snapshot
	NoCache bool

	// NoSave skips persisting the snapshot after a successful build
	NoSave bool

	// ConfigPath overrides configuration file discovery
	ConfigPath string

	// ListRoutes requests the discovered route table in the response
	ListRoutes bool

	// OutputFormat selects the rendering of the response
	OutputFormat OutputFormat

	// OutputWriter receives formatted output
	OutputWriter io.Writer
}

// BuildResponse represents the result of a graph build
type BuildResponse struct {
	// Files is the number of files in the graph
	Files int `json:"files"`

	// Edges is the number of forward import edges
	Edges int `json:"edges"`

	// Routes is the number of discovered route definitions
	Routes int `json:"routes"`

	// EntryPoints is the number of files with no importers
	EntryPoints int `json:"entry_points"`

	// FromCache is true when the snapshot validated clean and no file was re-parsed
	FromCache bool `json:"from_cache"`

	// Reparsed is the number of files re-parsed during an incremental update
	Reparsed int `json:"reparsed"`

	// RouteTable is the full route list, populated when requested
	RouteTable []*RouteDefinition `json:"route_table,omitempty"`

	// Warnings are non-fatal problems encountered during the build
	Warnings []string `json:"warnings,omitempty"`
}

// ImpactRequest represents a request for route-impact analysis
type ImpactRequest struct {
	// RootDir is the project root
	RootDir string

	// ChangedFiles are project-relative paths; non-existent paths are
	// treated as deletions and removed from the graph
	ChangedFiles []string

	// MaxDepth bounds the reverse traversal (0 = configured default)
	MaxDepth int

	// NoCache skips loading any persisted snapshot
	NoCache bool

	// ConfigPath overrides configuration file discovery
	ConfigPath string

	// OutputFormat selects the rendering of the response
	OutputFormat OutputFormat

	// OutputWriter receives formatted output
	OutputWriter io.Writer
}

// ImpactResult is the core change → routes mapping
type ImpactResult struct {
	// Routes maps each changed file to the sorted route paths it affects
	Routes map[string][]string `json:"routes"`

	// SharedComponents maps component files reachable from more than one
	// route-defining file to the affected route paths
	SharedComponents map[string][]string `json:"shared_components,omitempty"`

	// Partial is true when a traversal stopped at the depth cap
	Partial bool `json:"partial,omitempty"`

	// Unresolved are component references that could not be mapped to a file
	Unresolved []string `json:"unresolved,omitempty"`
}

// NewImpactResult creates an empty ImpactResult
func NewImpactResult() *ImpactResult {
	return &ImpactResult{
		Routes:           make(map[string][]string),
		SharedComponents: make(map[string][]string),
	}
}

// ImpactResponse represents the response from impact analysis
type ImpactResponse struct {
	// Result is the impact mapping
	Result *ImpactResult `json:"result"`

	// Removed lists changed paths that no longer exist and were dropped
	// from the graph
	Removed []string `json:"removed,omitempty"`

	// Warnings are non-fatal problems encountered during analysis
	Warnings []string `json:"warnings,omitempty"`
}

// BoolPtr returns a pointer to the given bool
func BoolPtr(b bool) *bool {
	return &b
}
