// Package parser wraps tree-sitter parsing of JavaScript/TypeScript
// sources and extracts the declarations the import graph and route
// extractor need: imports, exports, and route-shaped candidates.
package parser

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"

	"github.com/routelens/routelens/domain"
	"github.com/routelens/routelens/internal/constants"
)

// Options configures parsing and candidate collection
type Options struct {
	// MaxFileSize is the parse size ceiling in bytes (0 = default)
	MaxFileSize int

	// PathKeys are object keys / markup attributes that carry a route path
	PathKeys []string

	// ComponentKeys are object keys / markup attributes that carry a component
	ComponentKeys []string

	// LazyWrappers are call names that defer a component import
	LazyWrappers []string
}

// DefaultOptions returns options matching the common front-end idioms
func DefaultOptions() Options {
	return Options{
		MaxFileSize:   constants.DefaultMaxFileSize,
		PathKeys:      []string{"path"},
		ComponentKeys: []string{"component", "element", "Component"},
		LazyWrappers:  []string{"lazy", "defineAsyncComponent", "dynamic"},
	}
}

// AttrValue is the value of a markup attribute
type AttrValue struct {
	// Str is the static string value, when the attribute is a plain string
	Str string

	// Ident is the identifier when the value is {Name} or {<Name .../>}
	Ident string

	// Static is true when Str holds a statically visible string
	Static bool
}

// MarkupCandidate is a markup element carrying a path-like attribute
type MarkupCandidate struct {
	// Name is the element name (e.g. "Route")
	Name string

	// Attrs maps attribute name to its value
	Attrs map[string]AttrValue

	// Location is the element position
	Location domain.SourceLocation
}

// ObjectCandidate is an object literal carrying a path-like key
type ObjectCandidate struct {
	// Path is the static route path; empty when the value is dynamic
	Path string

	// PathStatic is false when the path key holds a non-literal value
	PathStatic bool

	// ComponentIdent is the identifier from a component-like key
	ComponentIdent string

	// ComponentSpecifier is set when the component value is an inline
	// deferred import: component: () => import('./Page')
	ComponentSpecifier string

	// ComponentLazy is true when the component value defers its import
	ComponentLazy bool

	// Location is the object position
	Location domain.SourceLocation
}

// Result is the outcome of parsing one file
type Result struct {
	// FilePath is the parsed file
	FilePath string

	// Imports are the import declarations in source order
	Imports []*domain.Import

	// Exports are the exported names
	Exports []*domain.Export

	// Markup are markup route candidates
	Markup []MarkupCandidate

	// Objects are object-literal route candidates
	Objects []ObjectCandidate

	// Issues are recoverable syntax error ranges
	Issues []domain.ParseIssue

	// Skipped is true when the file was refused without parsing
	Skipped bool

	// SkipReason explains a skip
	SkipReason string
}

// Parser wraps a tree-sitter parser for one dialect
type Parser struct {
	parser *sitter.Parser
	opts   Options
	isTS   bool
}

// NewParser creates a JavaScript parser
func NewParser(opts Options) *Parser {
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	return &Parser{parser: p, opts: withDefaults(opts)}
}

// NewTypeScriptParser creates a TypeScript (TSX) parser
func NewTypeScriptParser(opts Options) *Parser {
	p := sitter.NewParser()
	p.SetLanguage(tsx.GetLanguage())
	return &Parser{parser: p, opts: withDefaults(opts), isTS: true}
}

// NewParserForFile selects the dialect from the file extension
func NewParserForFile(path string, opts Options) *Parser {
	if IsTypeScriptFile(path) {
		return NewTypeScriptParser(opts)
	}
	return NewParser(opts)
}

// IsTypeScriptFile reports whether the extension selects the typed dialect
func IsTypeScriptFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".tsx", ".mts", ".cts":
		return true
	}
	return false
}

// IsSourceFile reports whether the extension is a parseable source dialect
func IsSourceFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, known := range constants.SourceExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// Close frees the underlying tree-sitter parser
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ParseFile parses source bytes for the given path. Syntax errors never
// fail the parse: error ranges are collected and extraction proceeds on
// the recovered tree. Binary and oversized files are skipped.
func (p *Parser) ParseFile(ctx context.Context, path string, source []byte) (*Result, error) {
	result := &Result{FilePath: path}

	if err := refuse(source, p.opts.MaxFileSize); err != nil {
		result.Skipped = true
		result.SkipReason = err.Error()
		return result, nil
	}

	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("no root node in parse tree for %s", path)
	}

	ex := &extractor{
		path:   path,
		source: source,
		opts:   p.opts,
		result: result,
	}
	ex.run(root)
	return result, nil
}

// ParseForFile parses one file with a throwaway dialect-matched parser
func ParseForFile(ctx context.Context, path string, source []byte, opts Options) (*Result, error) {
	p := NewParserForFile(path, opts)
	defer p.Close()
	return p.ParseFile(ctx, path, source)
}

// refuse reports why the bytes must not be parsed; nil means parseable
func refuse(source []byte, maxSize int) error {
	if maxSize > 0 && len(source) > maxSize {
		return fmt.Errorf("%w: %d bytes over ceiling %d", domain.ErrFileTooLarge, len(source), maxSize)
	}
	sniff := source
	if len(sniff) > constants.BinarySniffLen {
		sniff = sniff[:constants.BinarySniffLen]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return domain.ErrBinaryFile
	}
	return nil
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.MaxFileSize == 0 {
		opts.MaxFileSize = def.MaxFileSize
	}
	if len(opts.PathKeys) == 0 {
		opts.PathKeys = def.PathKeys
	}
	if len(opts.ComponentKeys) == 0 {
		opts.ComponentKeys = def.ComponentKeys
	}
	if len(opts.LazyWrappers) == 0 {
		opts.LazyWrappers = def.LazyWrappers
	}
	return opts
}
