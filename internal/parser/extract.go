package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/routelens/routelens/domain"
)

// Node.js built-in modules (bare names; the node: prefix is checked separately)
var nodeBuiltins = map[string]bool{
	"assert": true, "buffer": true, "child_process": true, "crypto": true,
	"events": true, "fs": true, "http": true, "https": true, "module": true,
	"net": true, "os": true, "path": true, "process": true, "stream": true,
	"timers": true, "tls": true, "url": true, "util": true, "vm": true,
	"worker_threads": true, "zlib": true,
}

// extractor walks a tree-sitter CST once and collects imports, exports,
// and route-shaped candidates into the shared Result.
type extractor struct {
	path   string
	source []byte
	opts   Options
	result *Result

	// consumed marks import()/require call nodes already folded into a
	// variable binding, so the generic call pass does not record them twice
	consumed map[uint32]bool
}

func (e *extractor) run(root *sitter.Node) {
	e.consumed = make(map[uint32]bool)
	e.walk(root)
}

func (e *extractor) walk(n *sitter.Node) {
	if n == nil {
		return
	}

	if n.IsMissing() {
		e.addIssue("missing "+n.Type(), n)
	}

	switch n.Type() {
	case "ERROR":
		e.addIssue("syntax error", n)

	case "import_statement":
		e.importStatement(n)
		return

	case "export_statement":
		e.exportStatement(n)
		// Keep walking: default-exported expressions can contain routes

	case "variable_declarator":
		e.variableDeclarator(n)

	case "call_expression":
		e.callExpression(n)

	case "jsx_element":
		if opening := firstChildOfType(n, "jsx_opening_element"); opening != nil {
			e.markupElement(opening, n)
		}

	case "jsx_self_closing_element":
		e.markupElement(n, n)

	case "object":
		e.objectLiteral(n)
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		e.walk(n.NamedChild(i))
	}
}

// importStatement handles static ESM imports
func (e *extractor) importStatement(n *sitter.Node) {
	specifier, ok := e.stringValue(n.ChildByFieldName("source"))
	if !ok {
		return
	}

	imp := &domain.Import{
		Specifier:     specifier,
		SpecifierType: classifySpecifier(specifier),
		Kind:          domain.ImportKindSideEffect,
		Location:      e.loc(n),
	}

	if clause := firstChildOfType(n, "import_clause"); clause != nil {
		for i := 0; i < int(clause.NamedChildCount()); i++ {
			child := clause.NamedChild(i)
			switch child.Type() {
			case "identifier":
				imp.Kind = domain.ImportKindDefault
				imp.IsDefault = true
				imp.Names = append(imp.Names, domain.ImportedName{
					Imported: "default",
					Local:    e.text(child),
				})
			case "namespace_import":
				imp.Kind = domain.ImportKindNamespace
				if ident := firstChildOfType(child, "identifier"); ident != nil {
					imp.Names = append(imp.Names, domain.ImportedName{
						Imported: "*",
						Local:    e.text(ident),
					})
				}
			case "named_imports":
				if imp.Kind != domain.ImportKindDefault {
					imp.Kind = domain.ImportKindNamed
				}
				for j := 0; j < int(child.NamedChildCount()); j++ {
					spec := child.NamedChild(j)
					if spec.Type() != "import_specifier" {
						continue
					}
					name := e.text(spec.ChildByFieldName("name"))
					local := name
					if alias := spec.ChildByFieldName("alias"); alias != nil {
						local = e.text(alias)
					}
					if name != "" {
						imp.Names = append(imp.Names, domain.ImportedName{
							Imported: name,
							Local:    local,
						})
					}
				}
			}
		}
	}

	e.result.Imports = append(e.result.Imports, imp)
}

// exportStatement handles named, default, declaration and re-exports
func (e *extractor) exportStatement(n *sitter.Node) {
	source, hasSource := e.stringValue(n.ChildByFieldName("source"))

	// export * from / export * as ns from
	if hasSource {
		if ns := firstChildOfType(n, "namespace_export"); ns != nil {
			name := "*"
			if ident := firstChildOfType(ns, "identifier"); ident != nil {
				name = e.text(ident)
			}
			e.addExport(&domain.Export{Name: name, Local: "*", Source: source, Location: e.loc(n)})
			return
		}
		if hasStarChild(n) {
			e.addExport(&domain.Export{Name: "*", Local: "*", Source: source, Location: e.loc(n)})
			return
		}
	}

	if clause := firstChildOfType(n, "export_clause"); clause != nil {
		for i := 0; i < int(clause.NamedChildCount()); i++ {
			spec := clause.NamedChild(i)
			if spec.Type() != "export_specifier" {
				continue
			}
			local := e.text(spec.ChildByFieldName("name"))
			exported := local
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				exported = e.text(alias)
			}
			if exported == "" {
				continue
			}
			exp := &domain.Export{Name: exported, Local: local, Location: e.loc(spec)}
			if hasSource {
				exp.Source = source
			}
			e.addExport(exp)
		}
		return
	}

	if decl := n.ChildByFieldName("declaration"); decl != nil {
		if hasDefaultKeyword(n) {
			e.addExport(&domain.Export{Name: "default", Local: e.declarationName(decl), Location: e.loc(n)})
			return
		}
		for _, name := range e.declarationNames(decl) {
			e.addExport(&domain.Export{Name: name, Local: name, Location: e.loc(n)})
		}
		return
	}

	if value := n.ChildByFieldName("value"); value != nil && hasDefaultKeyword(n) {
		local := ""
		if value.Type() == "identifier" {
			local = e.text(value)
		}
		e.addExport(&domain.Export{Name: "default", Local: local, Location: e.loc(n)})
	}
}

// variableDeclarator folds lazy wrappers and require calls into bound imports:
//
//	const Page = lazy(() => import('./Page'))
//	const utils = require('./utils')
func (e *extractor) variableDeclarator(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	value := n.ChildByFieldName("value")
	if nameNode == nil || value == nil || nameNode.Type() != "identifier" {
		return
	}
	local := e.text(nameNode)

	if value.Type() == "call_expression" {
		callee := calleeName(value, e.source)

		if e.isLazyWrapper(callee) {
			if inner := findImportCall(value); inner != nil {
				if specifier, ok := e.importCallSpecifier(inner); ok {
					e.consumed[inner.StartByte()] = true
					e.result.Imports = append(e.result.Imports, &domain.Import{
						Specifier:     specifier,
						SpecifierType: classifySpecifier(specifier),
						Kind:          domain.ImportKindDynamic,
						IsLazy:        true,
						IsDefault:     true,
						Names:         []domain.ImportedName{{Imported: "default", Local: local}},
						Location:      e.loc(n),
					})
				}
			}
			return
		}

		if callee == "require" {
			if specifier, ok := e.requireSpecifier(value); ok {
				e.consumed[value.StartByte()] = true
				e.result.Imports = append(e.result.Imports, &domain.Import{
					Specifier:     specifier,
					SpecifierType: classifySpecifier(specifier),
					Kind:          domain.ImportKindRequire,
					Names:         []domain.ImportedName{{Imported: "default", Local: local}},
					Location:      e.loc(n),
				})
			}
		}
	}
}

// callExpression records standalone dynamic imports and require calls
func (e *extractor) callExpression(n *sitter.Node) {
	if e.consumed[n.StartByte()] {
		return
	}

	if specifier, ok := e.importCallSpecifier(n); ok {
		e.consumed[n.StartByte()] = true
		e.result.Imports = append(e.result.Imports, &domain.Import{
			Specifier:     specifier,
			SpecifierType: classifySpecifier(specifier),
			Kind:          domain.ImportKindDynamic,
			Location:      e.loc(n),
		})
		return
	}

	if calleeName(n, e.source) == "require" {
		if specifier, ok := e.requireSpecifier(n); ok {
			e.consumed[n.StartByte()] = true
			e.result.Imports = append(e.result.Imports, &domain.Import{
				Specifier:     specifier,
				SpecifierType: classifySpecifier(specifier),
				Kind:          domain.ImportKindRequire,
				Location:      e.loc(n),
			})
		}
	}
}

// markupElement records a markup element whose attributes include a
// path-like key with a static string value
func (e *extractor) markupElement(opening, whole *sitter.Node) {
	nameNode := opening.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	attrs := make(map[string]AttrValue)
	for i := 0; i < int(opening.NamedChildCount()); i++ {
		attr := opening.NamedChild(i)
		if attr.Type() != "jsx_attribute" {
			continue
		}
		attrName := ""
		if ident := firstChildOfType(attr, "property_identifier"); ident != nil {
			attrName = e.text(ident)
		}
		if attrName == "" {
			continue
		}
		attrs[attrName] = e.attrValue(attr)
	}

	hasPath := false
	for _, key := range e.opts.PathKeys {
		if v, ok := attrs[key]; ok && v.Static {
			hasPath = true
			break
		}
	}
	if !hasPath {
		return
	}

	e.result.Markup = append(e.result.Markup, MarkupCandidate{
		Name:     e.text(nameNode),
		Attrs:    attrs,
		Location: e.loc(whole),
	})
}

func (e *extractor) attrValue(attr *sitter.Node) AttrValue {
	for i := 0; i < int(attr.NamedChildCount()); i++ {
		child := attr.NamedChild(i)
		switch child.Type() {
		case "string":
			if s, ok := e.stringValue(child); ok {
				return AttrValue{Str: s, Static: true}
			}
		case "jsx_expression":
			if inner := child.NamedChild(0); inner != nil {
				switch inner.Type() {
				case "identifier":
					return AttrValue{Ident: e.text(inner)}
				case "jsx_element":
					if opening := firstChildOfType(inner, "jsx_opening_element"); opening != nil {
						return AttrValue{Ident: e.text(opening.ChildByFieldName("name"))}
					}
				case "jsx_self_closing_element":
					return AttrValue{Ident: e.text(inner.ChildByFieldName("name"))}
				case "string":
					if s, ok := e.stringValue(inner); ok {
						return AttrValue{Str: s, Static: true}
					}
				}
			}
		}
	}
	return AttrValue{}
}

// objectLiteral records an object literal containing a path-like key
func (e *extractor) objectLiteral(n *sitter.Node) {
	candidate := ObjectCandidate{Location: e.loc(n)}
	hasPathKey := false

	for i := 0; i < int(n.NamedChildCount()); i++ {
		pair := n.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}
		key := e.pairKey(pair)
		value := pair.ChildByFieldName("value")
		if key == "" || value == nil {
			continue
		}

		if containsString(e.opts.PathKeys, key) {
			hasPathKey = true
			if s, ok := e.stringValue(value); ok {
				candidate.Path = s
				candidate.PathStatic = true
			}
			continue
		}

		if containsString(e.opts.ComponentKeys, key) {
			e.fillComponentValue(&candidate, value)
		}
	}

	if hasPathKey {
		e.result.Objects = append(e.result.Objects, candidate)
	}
}

func (e *extractor) fillComponentValue(candidate *ObjectCandidate, value *sitter.Node) {
	switch value.Type() {
	case "identifier":
		candidate.ComponentIdent = e.text(value)

	case "call_expression":
		// component: lazy(() => import('./Page')) or defineAsyncComponent(...)
		if e.isLazyWrapper(calleeName(value, e.source)) {
			if inner := findImportCall(value); inner != nil {
				if specifier, ok := e.importCallSpecifier(inner); ok {
					candidate.ComponentSpecifier = specifier
					candidate.ComponentLazy = true
				}
			}
		}

	case "arrow_function":
		// component: () => import('./Page')
		if inner := findImportCall(value); inner != nil {
			if specifier, ok := e.importCallSpecifier(inner); ok {
				candidate.ComponentSpecifier = specifier
				candidate.ComponentLazy = true
			}
		}

	case "jsx_element":
		if opening := firstChildOfType(value, "jsx_opening_element"); opening != nil {
			candidate.ComponentIdent = e.text(opening.ChildByFieldName("name"))
		}

	case "jsx_self_closing_element":
		candidate.ComponentIdent = e.text(value.ChildByFieldName("name"))
	}
}

// importCallSpecifier returns the string argument of a dynamic import call
func (e *extractor) importCallSpecifier(n *sitter.Node) (string, bool) {
	if n.Type() != "call_expression" {
		return "", false
	}
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return "", false
	}
	if fn.Type() != "import" && !(fn.Type() == "identifier" && e.text(fn) == "import") {
		return "", false
	}
	return e.firstStringArgument(n)
}

func (e *extractor) requireSpecifier(n *sitter.Node) (string, bool) {
	return e.firstStringArgument(n)
}

func (e *extractor) firstStringArgument(call *sitter.Node) (string, bool) {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return "", false
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		if s, ok := e.stringValue(args.NamedChild(i)); ok {
			return s, true
		}
	}
	return "", false
}

func (e *extractor) pairKey(pair *sitter.Node) string {
	key := pair.ChildByFieldName("key")
	if key == nil {
		return ""
	}
	if s, ok := e.stringValue(key); ok {
		return s
	}
	return e.text(key)
}

// stringValue unquotes a plain string literal. Template strings and any
// interpolated value are not static and return false.
func (e *extractor) stringValue(n *sitter.Node) (string, bool) {
	if n == nil || n.Type() != "string" {
		return "", false
	}
	raw := e.text(n)
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return raw[1 : len(raw)-1], true
		}
	}
	return raw, true
}

func (e *extractor) isLazyWrapper(name string) bool {
	return containsString(e.opts.LazyWrappers, name)
}

func (e *extractor) declarationName(decl *sitter.Node) string {
	if name := decl.ChildByFieldName("name"); name != nil {
		return e.text(name)
	}
	return ""
}

func (e *extractor) declarationNames(decl *sitter.Node) []string {
	switch decl.Type() {
	case "lexical_declaration", "variable_declaration":
		var names []string
		for i := 0; i < int(decl.NamedChildCount()); i++ {
			declarator := decl.NamedChild(i)
			if declarator.Type() != "variable_declarator" {
				continue
			}
			if name := declarator.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
				names = append(names, e.text(name))
			}
		}
		return names
	default:
		if name := e.declarationName(decl); name != "" {
			return []string{name}
		}
	}
	return nil
}

func (e *extractor) addExport(exp *domain.Export) {
	e.result.Exports = append(e.result.Exports, exp)
}

func (e *extractor) addIssue(message string, n *sitter.Node) {
	e.result.Issues = append(e.result.Issues, domain.ParseIssue{
		Message:  message,
		Location: e.loc(n),
	})
}

func (e *extractor) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(e.source)
}

func (e *extractor) loc(n *sitter.Node) domain.SourceLocation {
	return domain.SourceLocation{
		FilePath:  e.path,
		StartLine: int(n.StartPoint().Row) + 1,
		StartCol:  int(n.StartPoint().Column),
		EndLine:   int(n.EndPoint().Row) + 1,
		EndCol:    int(n.EndPoint().Column),
	}
}

// classifySpecifier determines where an import specifier points
func classifySpecifier(specifier string) domain.SpecifierType {
	switch {
	case specifier == "":
		return domain.SpecifierPackage
	case strings.HasPrefix(specifier, "node:"):
		return domain.SpecifierBuiltin
	case strings.HasPrefix(specifier, "./"), strings.HasPrefix(specifier, "../"),
		specifier == ".", specifier == "..":
		return domain.SpecifierRelative
	case strings.HasPrefix(specifier, "/"):
		return domain.SpecifierAbsolute
	case strings.HasPrefix(specifier, "@/"), strings.HasPrefix(specifier, "~/"):
		return domain.SpecifierAlias
	}
	pkg := specifier
	if idx := strings.Index(specifier, "/"); idx > 0 {
		pkg = specifier[:idx]
	}
	if nodeBuiltins[pkg] {
		return domain.SpecifierBuiltin
	}
	return domain.SpecifierPackage
}

func calleeName(call *sitter.Node, source []byte) string {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	switch fn.Type() {
	case "identifier":
		return fn.Content(source)
	case "member_expression":
		if prop := fn.ChildByFieldName("property"); prop != nil {
			return prop.Content(source)
		}
	}
	return ""
}

// findImportCall finds the first dynamic import call in a subtree
func findImportCall(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.Type() == "call_expression" {
		if fn := n.ChildByFieldName("function"); fn != nil && fn.Type() == "import" {
			return n
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if found := findImportCall(n.NamedChild(i)); found != nil {
			return found
		}
	}
	return nil
}

func firstChildOfType(n *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child.Type() == nodeType {
			return child
		}
	}
	return nil
}

func hasDefaultKeyword(n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "default" {
			return true
		}
	}
	return false
}

func hasStarChild(n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "*" {
			return true
		}
	}
	return false
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
