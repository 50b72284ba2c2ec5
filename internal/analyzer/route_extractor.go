package analyzer

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/routelens/routelens/domain"
	"github.com/routelens/routelens/internal/parser"
)

// ParamStyle is the parameter-segment syntax of a file convention
type ParamStyle string

const (
	// ParamStyleBracket translates [id] to :id (next-style)
	ParamStyleBracket ParamStyle = "bracket"

	// ParamStyleDollar translates $id to :id (remix-style)
	ParamStyleDollar ParamStyle = "dollar"

	// ParamStyleColon keeps :id as-is
	ParamStyleColon ParamStyle = "colon"
)

// FileConvention describes one directory-structure routing convention.
// The exact parameter syntax differs per framework, so conventions are
// a table rather than hard-coded rules.
type FileConvention struct {
	// Name identifies the convention ("pages", "app-router", ...)
	Name string

	// RootDirs are the directories whose structure implies routes
	RootDirs []string

	// RouteFileBase restricts route files to a base name ("page" for the
	// app-router layout); empty means every source file is a route file
	RouteFileBase string

	// IndexBases are base names that map to the parent directory path
	IndexBases []string

	// Params is the parameter-segment syntax
	Params ParamStyle
}

// DefaultConventions returns the built-in file-convention table
func DefaultConventions() []FileConvention {
	return []FileConvention{
		{
			Name:       "pages",
			RootDirs:   []string{"pages", "src/pages"},
			IndexBases: []string{"index"},
			Params:     ParamStyleBracket,
		},
		{
			Name:          "app-router",
			RootDirs:      []string{"app", "src/app"},
			RouteFileBase: "page",
			Params:        ParamStyleBracket,
		},
		{
			Name:       "routes-flat",
			RootDirs:   []string{"app/routes", "src/routes"},
			IndexBases: []string{"index", "_index"},
			Params:     ParamStyleDollar,
		},
	}
}

// RouteExtractorConfig configures the RouteExtractor
type RouteExtractorConfig struct {
	// MarkupElements are element names recognized as route declarations
	MarkupElements []string

	// PathKeys are attribute names carrying the route path
	PathKeys []string

	// ComponentKeys are attribute names carrying the component reference
	ComponentKeys []string

	// Conventions is the file-convention table
	Conventions []FileConvention

	// DisableLexical turns off the regex fallback pass
	DisableLexical bool
}

// DefaultRouteExtractorConfig returns a config with sensible defaults
func DefaultRouteExtractorConfig() *RouteExtractorConfig {
	return &RouteExtractorConfig{
		MarkupElements: []string{"Route"},
		PathKeys:       []string{"path"},
		ComponentKeys:  []string{"element", "component", "Component"},
		Conventions:    DefaultConventions(),
	}
}

// RouteExtractor recognizes route declarations in parsed files.
// Structural strategies run first; the lexical pass only supplements
// them, and per routePath+definingFile the structural result wins.
type RouteExtractor struct {
	config   *RouteExtractorConfig
	elements map[string]bool
}

// NewRouteExtractor creates a RouteExtractor
func NewRouteExtractor(config *RouteExtractorConfig) *RouteExtractor {
	if config == nil {
		config = DefaultRouteExtractorConfig()
	}
	defaults := DefaultRouteExtractorConfig()
	if len(config.PathKeys) == 0 {
		config.PathKeys = defaults.PathKeys
	}
	if len(config.ComponentKeys) == 0 {
		config.ComponentKeys = defaults.ComponentKeys
	}
	elements := make(map[string]bool, len(config.MarkupElements))
	for _, name := range config.MarkupElements {
		elements[name] = true
	}
	return &RouteExtractor{config: config, elements: elements}
}

// Extract returns the route definitions declared in one file. The parse
// result supplies structural candidates; source is the raw text for the
// lexical fallback. Results are deduplicated and sorted.
func (x *RouteExtractor) Extract(filePath string, result *parser.Result, source []byte) []*domain.RouteDefinition {
	byKey := make(map[string]*domain.RouteDefinition)

	add := func(route *domain.RouteDefinition) {
		existing, ok := byKey[route.Key()]
		if !ok {
			byKey[route.Key()] = route
			return
		}
		// Structural over lexical; between structural duplicates, first wins
		if !existing.Style.Structural() && route.Style.Structural() {
			byKey[route.Key()] = route
		}
	}

	if result != nil {
		for _, route := range x.fromMarkup(filePath, result.Markup) {
			add(route)
		}
		for _, route := range x.fromObjects(filePath, result.Objects) {
			add(route)
		}
	}
	if route := x.fromConvention(filePath); route != nil {
		add(route)
	}
	if !x.config.DisableLexical {
		for _, route := range x.fromLexical(filePath, source) {
			add(route)
		}
	}

	routes := make([]*domain.RouteDefinition, 0, len(byKey))
	for _, route := range byKey {
		routes = append(routes, route)
	}
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].RoutePath < routes[j].RoutePath
	})
	return routes
}

// fromMarkup recognizes inline markup declarations:
// <Route path="/x" element={<Page/>}/>
func (x *RouteExtractor) fromMarkup(filePath string, candidates []parser.MarkupCandidate) []*domain.RouteDefinition {
	var routes []*domain.RouteDefinition
	for _, c := range candidates {
		if !x.elements[c.Name] {
			continue
		}
		var pathAttr parser.AttrValue
		ok := false
		for _, key := range x.config.PathKeys {
			if v, present := c.Attrs[key]; present {
				pathAttr, ok = v, true
				break
			}
		}
		if !ok || !pathAttr.Static || pathAttr.Str == "" {
			continue
		}
		component := domain.ComponentRef{}
		for _, key := range x.config.ComponentKeys {
			if v, ok := c.Attrs[key]; ok && v.Ident != "" {
				component.Name = v.Ident
				break
			}
		}
		routes = append(routes, &domain.RouteDefinition{
			RoutePath:    NormalizeRoutePath(pathAttr.Str),
			Component:    component,
			DefiningFile: filePath,
			Style:        domain.StyleMarkup,
		})
	}
	return routes
}

// fromObjects recognizes object/array route tables:
// { path: '/x', component: Page }
func (x *RouteExtractor) fromObjects(filePath string, candidates []parser.ObjectCandidate) []*domain.RouteDefinition {
	var routes []*domain.RouteDefinition
	for _, c := range candidates {
		// Dynamic paths are a stated non-goal: never a RouteDefinition
		if !c.PathStatic || c.Path == "" {
			continue
		}
		component := domain.ComponentRef{
			Name:      c.ComponentIdent,
			Specifier: c.ComponentSpecifier,
			IsLazy:    c.ComponentLazy,
		}
		routes = append(routes, &domain.RouteDefinition{
			RoutePath:    NormalizeRoutePath(c.Path),
			Component:    component,
			DefiningFile: filePath,
			Style:        domain.StyleObjectArray,
		})
	}
	return routes
}

// fromConvention derives a route from the file's location alone
func (x *RouteExtractor) fromConvention(filePath string) *domain.RouteDefinition {
	for _, conv := range x.config.Conventions {
		for _, root := range conv.RootDirs {
			rel, ok := strings.CutPrefix(filePath, root+"/")
			if !ok {
				continue
			}
			routePath, ok := conventionRoutePath(rel, conv)
			if !ok {
				continue
			}
			return &domain.RouteDefinition{
				RoutePath:    routePath,
				Component:    domain.ComponentRef{},
				DefiningFile: filePath,
				Style:        domain.StyleFileConvention,
			}
		}
	}
	return nil
}

func conventionRoutePath(rel string, conv FileConvention) (string, bool) {
	ext := path.Ext(rel)
	base := strings.TrimSuffix(path.Base(rel), ext)
	dir := path.Dir(rel)

	// Private segments (_app, _document, directories starting with _) are
	// framework plumbing, not routes — except explicit index bases
	segments := []string{}
	if dir != "." {
		segments = strings.Split(dir, "/")
	}

	if conv.RouteFileBase != "" {
		if base != conv.RouteFileBase {
			return "", false
		}
	} else {
		isIndex := false
		for _, idx := range conv.IndexBases {
			if base == idx {
				isIndex = true
				break
			}
		}
		if !isIndex {
			if strings.HasPrefix(base, "_") {
				return "", false
			}
			segments = append(segments, base)
		}
	}

	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if strings.HasPrefix(segment, "_") {
			return "", false
		}
		// Route groups "(marketing)" organize files without affecting the URL
		if strings.HasPrefix(segment, "(") && strings.HasSuffix(segment, ")") {
			continue
		}
		parts = append(parts, translateParam(segment, conv.Params))
	}

	return NormalizeRoutePath("/" + strings.Join(parts, "/")), true
}

func translateParam(segment string, style ParamStyle) string {
	switch style {
	case ParamStyleBracket:
		if strings.HasPrefix(segment, "[...") && strings.HasSuffix(segment, "]") {
			return "*" + segment[4:len(segment)-1]
		}
		if strings.HasPrefix(segment, "[") && strings.HasSuffix(segment, "]") {
			return ":" + segment[1:len(segment)-1]
		}
	case ParamStyleDollar:
		if strings.HasPrefix(segment, "$") {
			return ":" + segment[1:]
		}
	}
	return segment
}

// Lexical fallback: looser than the structural pass, run only to
// supplement it. Matches route-shaped object literals whose formatting
// defeated structural matching.
var (
	lexicalRouteRe     = regexp.MustCompile(`(?s)\{[^{}]*?["']?path["']?\s*:\s*["']([^"']+)["'][^{}]*?\}`)
	lexicalComponentRe = regexp.MustCompile(`(?:component|element)\s*:\s*([A-Za-z_$][A-Za-z0-9_$]*)`)
)

func (x *RouteExtractor) fromLexical(filePath string, source []byte) []*domain.RouteDefinition {
	if len(source) == 0 {
		return nil
	}
	var routes []*domain.RouteDefinition
	for _, match := range lexicalRouteRe.FindAllSubmatch(source, -1) {
		routePath := string(match[1])
		if routePath == "" || !strings.HasPrefix(routePath, "/") {
			continue
		}
		component := domain.ComponentRef{}
		if m := lexicalComponentRe.FindSubmatch(match[0]); m != nil {
			component.Name = string(m[1])
		}
		routes = append(routes, &domain.RouteDefinition{
			RoutePath:    NormalizeRoutePath(routePath),
			Component:    component,
			DefiningFile: filePath,
			Style:        domain.StyleLexical,
		})
	}
	return routes
}

// NormalizeRoutePath canonicalizes a URL path template: a single leading
// slash, no trailing slash except the root, collapsed separators.
func NormalizeRoutePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return "/"
	}
	p = "/" + strings.Trim(p, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}
