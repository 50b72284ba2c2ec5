package config

import (
	"sort"
	"strings"
)

// ProjectType represents the routing flavor of a front-end project
type ProjectType string

const (
	ProjectTypeGeneric ProjectType = "generic"
	ProjectTypeReact   ProjectType = "react"
	ProjectTypeNext    ProjectType = "next"
	ProjectTypeRemix   ProjectType = "remix"
	ProjectTypeVue     ProjectType = "vue"
)

// ProjectPreset holds routing defaults for a project type
type ProjectPreset struct {
	MarkupElements []string
	ComponentKeys  []string
	LazyWrappers   []string
	Conventions    []ConventionConfig
	AliasPrefixes  map[string]string
}

// GetProjectPresets returns presets for the supported project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			MarkupElements: []string{"Route"},
			ComponentKeys:  []string{"component", "element", "Component"},
			LazyWrappers:   []string{"lazy", "defineAsyncComponent", "dynamic"},
			AliasPrefixes:  map[string]string{"@/": "src/", "~/": "src/"},
		},
		ProjectTypeReact: {
			MarkupElements: []string{"Route"},
			ComponentKeys:  []string{"element", "Component", "component"},
			LazyWrappers:   []string{"lazy"},
			AliasPrefixes:  map[string]string{"@/": "src/"},
		},
		ProjectTypeNext: {
			LazyWrappers: []string{"dynamic"},
			Conventions: []ConventionConfig{
				{
					Name:       "pages",
					RootDirs:   []string{"pages", "src/pages"},
					IndexBases: []string{"index"},
					Params:     "bracket",
				},
				{
					Name:          "app-router",
					RootDirs:      []string{"app", "src/app"},
					RouteFileBase: "page",
					Params:        "bracket",
				},
			},
			AliasPrefixes: map[string]string{"@/": "src/"},
		},
		ProjectTypeRemix: {
			Conventions: []ConventionConfig{
				{
					Name:       "routes-flat",
					RootDirs:   []string{"app/routes"},
					IndexBases: []string{"index", "_index"},
					Params:     "dollar",
				},
			},
			AliasPrefixes: map[string]string{"~/": "app/"},
		},
		ProjectTypeVue: {
			ComponentKeys: []string{"component"},
			LazyWrappers:  []string{"defineAsyncComponent"},
			AliasPrefixes: map[string]string{"@/": "src/"},
		},
	}
}

// ApplyPreset overlays a project preset on top of the config
func (c *Config) ApplyPreset(projectType ProjectType) {
	preset, ok := GetProjectPresets()[projectType]
	if !ok {
		return
	}
	if len(preset.MarkupElements) > 0 {
		c.Routes.MarkupElements = preset.MarkupElements
	}
	if len(preset.ComponentKeys) > 0 {
		c.Routes.ComponentKeys = preset.ComponentKeys
	}
	if len(preset.LazyWrappers) > 0 {
		c.Routes.LazyWrappers = preset.LazyWrappers
	}
	if len(preset.Conventions) > 0 {
		c.Routes.Conventions = preset.Conventions
	}
	if len(preset.AliasPrefixes) > 0 {
		c.Resolution.AliasPrefixes = preset.AliasPrefixes
	}
}

// GetFullConfigTemplate returns the documented YAML config template
func GetFullConfigTemplate(projectType ProjectType) string {
	preset, ok := GetProjectPresets()[projectType]
	if !ok {
		preset = GetProjectPresets()[ProjectTypeGeneric]
	}

	markup := formatYAMLList(preset.MarkupElements, []string{"Route"})
	aliases := formatYAMLMap(preset.AliasPrefixes)

	return `# routelens configuration
# Documentation: https://github.com/routelens/routelens

# ==============================================================================
# ANALYSIS SCOPE
# ==============================================================================
# Controls which files are scanned and parsed
analysis:
  # Source extensions to analyze
  extensions: [".ts", ".tsx", ".js", ".jsx", ".mts", ".cts", ".mjs", ".cjs"]

  # Directory names skipped during enumeration
  exclude_dirs: ["node_modules", "dist", "build", "out", ".next", ".git", "coverage"]

  # Honor .gitignore patterns
  respect_gitignore: true

  # Parse size ceiling in bytes; larger files are skipped
  max_file_size: 1048576

  # Parallel parse workers (0 = auto-detect based on CPU)
  workers: 0

# ==============================================================================
# IMPORT RESOLUTION
# ==============================================================================
resolution:
  # Import alias prefixes mapped to project directories
  alias_prefixes:
` + aliases + `

# ==============================================================================
# ROUTE RECOGNITION
# ==============================================================================
routes:
  # Element names recognized as inline route declarations
  markup_elements: ` + markup + `

  # Object keys treated as route paths / component references
  path_keys: ["path"]
  component_keys: ["component", "element", "Component"]

  # Call names that defer a component import
  lazy_wrappers: ["lazy", "defineAsyncComponent", "dynamic"]

  # Regex fallback for route tables the structural pass misses
  disable_lexical: false

# ==============================================================================
# IMPACT TRAVERSAL
# ==============================================================================
impact:
  # Reverse-import traversal depth cap
  max_depth: 50

# ==============================================================================
# CACHING
# ==============================================================================
cache:
  enabled: true

  # Snapshot directory under the project root
  dir: ".routelens"

  # Snapshot backend: disk or s3
  backend: "disk"

  # s3:
  #   endpoint: "s3.amazonaws.com"
  #   region: "us-east-1"
  #   bucket: "routelens-snapshots"
  #   prefix: "my-project"
  #   use_ssl: true

# ==============================================================================
# OUTPUT
# ==============================================================================
output:
  # Output format: text or json
  format: "text"
  show_progress: true
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# routelens configuration (minimal)
# See full options: https://github.com/routelens/routelens

analysis:
  exclude_dirs: ["node_modules", "dist", "build"]

impact:
  max_depth: 50

cache:
  enabled: true
`
}

func formatYAMLList(items, fallback []string) string {
	if len(items) == 0 {
		items = fallback
	}
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = `"` + item + `"`
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func formatYAMLMap(m map[string]string) string {
	if len(m) == 0 {
		m = map[string]string{"@/": "src/"}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(`    "` + k + `": "` + m[k] + `"` + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
