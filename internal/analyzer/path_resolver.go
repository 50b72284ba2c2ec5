package analyzer

import (
	"path"
	"strings"

	"github.com/routelens/routelens/domain"
	"github.com/routelens/routelens/internal/constants"
)

// PathResolver maps raw import specifiers to concrete project files.
// Comparisons are case-insensitive to tolerate filesystem case
// differences across platforms; the returned path keeps original case.
type PathResolver struct {
	// index maps lowercased path to canonical path
	index map[string]string

	// aliases maps specifier prefixes to project-relative directories,
	// e.g. "@/" -> "src/"
	aliases map[string]string
}

// NewPathResolver builds a resolver over the known project files
func NewPathResolver(files []string, aliases map[string]string) *PathResolver {
	index := make(map[string]string, len(files))
	for _, f := range files {
		index[strings.ToLower(f)] = f
	}
	if aliases == nil {
		aliases = map[string]string{}
	}
	return &PathResolver{index: index, aliases: aliases}
}

// Add registers a newly discovered file
func (r *PathResolver) Add(file string) {
	r.index[strings.ToLower(file)] = file
}

// Remove unregisters a deleted file
func (r *PathResolver) Remove(file string) {
	delete(r.index, strings.ToLower(file))
}

// Resolve maps a specifier written in fromFile to a project file.
// Precedence: exact path, path plus each supported extension, then the
// path as a directory with index.* variants. Package and builtin
// specifiers never resolve: they are external by definition.
func (r *PathResolver) Resolve(specifier, fromFile string) (string, bool) {
	switch classify(specifier) {
	case domain.SpecifierRelative:
		base := path.Join(path.Dir(fromFile), specifier)
		return r.lookup(base)

	case domain.SpecifierAbsolute:
		return r.lookup(strings.TrimPrefix(specifier, "/"))

	case domain.SpecifierAlias:
		for prefix, dir := range r.aliases {
			if strings.HasPrefix(specifier, prefix) {
				return r.lookup(path.Join(dir, strings.TrimPrefix(specifier, prefix)))
			}
		}
		// Common default: "@/x" and "~/x" point at src/
		if len(specifier) > 2 {
			if resolved, ok := r.lookup(path.Join("src", specifier[2:])); ok {
				return resolved, ok
			}
		}
		return "", false

	default:
		return "", false
	}
}

func (r *PathResolver) lookup(candidate string) (string, bool) {
	candidate = path.Clean(candidate)
	lower := strings.ToLower(candidate)

	if canonical, ok := r.index[lower]; ok {
		return canonical, true
	}
	for _, ext := range constants.SourceExtensions {
		if canonical, ok := r.index[lower+ext]; ok {
			return canonical, true
		}
	}
	for _, ext := range constants.SourceExtensions {
		if canonical, ok := r.index[lower+"/index"+ext]; ok {
			return canonical, true
		}
	}
	return "", false
}

// classify mirrors the parser's specifier classification for resolution
func classify(specifier string) domain.SpecifierType {
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
	return domain.SpecifierPackage
}
