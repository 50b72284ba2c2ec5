package domain

import "fmt"

// ImportKind represents the kind of import statement
type ImportKind string

const (
	// ImportKindDefault represents default imports: import x from 'y'
	ImportKindDefault ImportKind = "default"

	// ImportKindNamed represents named imports: import { x } from 'y'
	ImportKindNamed ImportKind = "named"

	// ImportKindNamespace represents namespace imports: import * as x from 'y'
	ImportKindNamespace ImportKind = "namespace"

	// ImportKindSideEffect represents side-effect imports: import 'y'
	ImportKindSideEffect ImportKind = "side_effect"

	// ImportKindDynamic represents dynamic imports: import('y')
	ImportKindDynamic ImportKind = "dynamic"

	// ImportKindRequire represents CommonJS require: require('y')
	ImportKindRequire ImportKind = "require"
)

// SpecifierType classifies where an import specifier points
type SpecifierType string

const (
	// SpecifierRelative represents relative specifiers: ./foo, ../bar
	SpecifierRelative SpecifierType = "relative"

	// SpecifierAbsolute represents absolute specifiers: /foo/bar
	SpecifierAbsolute SpecifierType = "absolute"

	// SpecifierPackage represents package specifiers: react, lodash
	SpecifierPackage SpecifierType = "package"

	// SpecifierBuiltin represents Node.js builtins: node:fs, fs
	SpecifierBuiltin SpecifierType = "builtin"

	// SpecifierAlias represents aliased specifiers: @/components, ~/utils
	SpecifierAlias SpecifierType = "alias"
)

// SourceLocation is a position range inside a source file
type SourceLocation struct {
	FilePath  string `json:"file_path,omitempty"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
}

// String returns a string representation of the location
func (l SourceLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", l.FilePath, l.StartLine, l.StartCol)
}

// ImportedName is a single name bound by an import statement
type ImportedName struct {
	// Imported is the name as exported by the target module ("default", "*", or a named export)
	Imported string `json:"imported"`

	// Local is the binding introduced in the importing file
	Local string `json:"local"`
}

// Import represents a single import found in a source file
type Import struct {
	// Specifier is the raw module reference as written in source
	Specifier string `json:"specifier"`

	// SpecifierType classifies the specifier (relative, package, builtin, ...)
	SpecifierType SpecifierType `json:"specifier_type"`

	// Kind is the import statement kind
	Kind ImportKind `json:"kind"`

	// Names are the local bindings introduced by this import
	Names []ImportedName `json:"names,omitempty"`

	// IsLazy indicates a deferred component load wrapping this import,
	// e.g. lazy(() => import('./Page')) or defineAsyncComponent(...)
	IsLazy bool `json:"is_lazy,omitempty"`

	// IsDefault indicates the import binds the target's default export
	IsDefault bool `json:"is_default,omitempty"`

	// Location is where the import appears
	Location SourceLocation `json:"location"`
}

// Export represents a single export found in a source file
type Export struct {
	// Name is the exported name ("default" for default exports, "*" for export-all)
	Name string `json:"name"`

	// Local is the file-local name backing the export, when it differs
	Local string `json:"local,omitempty"`

	// Source is the re-export source specifier (empty unless re-exporting)
	Source string `json:"source,omitempty"`

	// Location is where the export appears
	Location SourceLocation `json:"location"`
}

// IsReExport reports whether the export forwards a name from another module
func (e Export) IsReExport() bool {
	return e.Source != ""
}

// ParseIssue is a recoverable syntax error range recorded during parsing
type ParseIssue struct {
	Message  string         `json:"message"`
	Location SourceLocation `json:"location"`
}

// FileRecord holds per-file metadata derived from a single parse.
// ContentHash is the sole cache key: derived fields are only recomputed
// when the hash changes.
type FileRecord struct {
	// Path is the canonical project-relative path (slash-separated, original case)
	Path string `json:"path"`

	// ContentHash is the sha256 digest of the file bytes
	ContentHash string `json:"content_hash"`

	// Imports are the import declarations in source order
	Imports []*Import `json:"imports,omitempty"`

	// Exports are the exported names, including "default"
	Exports []*Export `json:"exports,omitempty"`

	// DefinesRoutes is true when route-shaped declarations were found in this file
	DefinesRoutes bool `json:"defines_routes,omitempty"`

	// IsEntryPoint is true for root/bootstrap modules
	IsEntryPoint bool `json:"is_entry_point,omitempty"`

	// Skipped is true when the file was refused (binary content or size ceiling)
	Skipped bool `json:"skipped,omitempty"`

	// SkipReason explains why the file was skipped
	SkipReason string `json:"skip_reason,omitempty"`

	// Issues are recoverable parse errors found in the file
	Issues []ParseIssue `json:"issues,omitempty"`
}

// FindImportByLocal returns the import that binds the given local name, or nil
func (r *FileRecord) FindImportByLocal(local string) (*Import, *ImportedName) {
	for _, imp := range r.Imports {
		for i := range imp.Names {
			if imp.Names[i].Local == local {
				return imp, &imp.Names[i]
			}
		}
	}
	return nil, nil
}
