package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "routelens"

	// ConfigFileName is the default config file name
	ConfigFileName = ".routelens.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "ROUTELENS"
)

// Parsing limits
const (
	// DefaultMaxFileSize is the parse size ceiling in bytes (1 MiB)
	DefaultMaxFileSize = 1 << 20

	// BinarySniffLen is how many leading bytes are checked for NUL
	BinarySniffLen = 8192
)

// Traversal and resolution limits
const (
	// DefaultMaxTraversalDepth bounds the reverse-import BFS
	DefaultMaxTraversalDepth = 50

	// DefaultMaxReExportDepth bounds re-export chain following
	DefaultMaxReExportDepth = 5
)

// Cache defaults
const (
	// DefaultCacheDir under the project root holds the snapshot
	DefaultCacheDir = ".routelens"

	// SnapshotKey is the blob-store key of the serialized graph
	SnapshotKey = "graph-snapshot.json"

	// DefaultParseCacheSize is the LRU entry count for parse results
	DefaultParseCacheSize = 4096

	// DefaultRouteCacheSize is the LRU entry count for per-file route results
	DefaultRouteCacheSize = 4096

	// DefaultImpactCacheSize is the LRU entry count for memoized queries
	DefaultImpactCacheSize = 256
)

// SourceExtensions are the resolvable source extensions, in resolution
// precedence order
var SourceExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mts", ".cts", ".mjs", ".cjs"}

// DefaultExcludeDirs are directory names skipped during enumeration
var DefaultExcludeDirs = []string{
	"node_modules",
	"dist",
	"build",
	"out",
	".next",
	".nuxt",
	".git",
	"coverage",
	".routelens",
}
