package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/routelens/routelens/internal/constants"
)

// Config represents the main configuration structure
type Config struct {
	// Analysis holds file enumeration and parsing configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`

	// Resolution holds import specifier resolution configuration
	Resolution ResolutionConfig `json:"resolution" mapstructure:"resolution" yaml:"resolution"`

	// Routes holds route recognition configuration
	Routes RoutesConfig `json:"routes" mapstructure:"routes" yaml:"routes"`

	// Impact holds traversal configuration
	Impact ImpactConfig `json:"impact" mapstructure:"impact" yaml:"impact"`

	// Cache holds caching and persistence configuration
	Cache CacheConfig `json:"cache" mapstructure:"cache" yaml:"cache"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`
}

// AnalysisConfig holds file enumeration and parsing configuration
type AnalysisConfig struct {
	// Extensions are the source file extensions to analyze
	Extensions []string `json:"extensions" mapstructure:"extensions" yaml:"extensions"`

	// ExcludeDirs are directory names skipped during enumeration
	ExcludeDirs []string `json:"exclude_dirs" mapstructure:"exclude_dirs" yaml:"exclude_dirs"`

	// RespectGitignore controls whether .gitignore patterns are honored
	RespectGitignore *bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`

	// MaxFileSize is the parse size ceiling in bytes; larger files are
	// recorded as skipped
	MaxFileSize int `json:"max_file_size" mapstructure:"max_file_size" yaml:"max_file_size"`

	// Workers bounds the parse worker pool; 0 means GOMAXPROCS
	Workers int `json:"workers" mapstructure:"workers" yaml:"workers"`
}

// ResolutionConfig holds import specifier resolution configuration
type ResolutionConfig struct {
	// AliasPrefixes maps import alias prefixes to project directories,
	// e.g. "@/" -> "src/"
	AliasPrefixes map[string]string `json:"alias_prefixes" mapstructure:"alias_prefixes" yaml:"alias_prefixes"`

	// EntryFileNames are conventional bootstrap file base names
	EntryFileNames []string `json:"entry_file_names" mapstructure:"entry_file_names" yaml:"entry_file_names"`
}

// ConventionConfig describes one directory-structure routing convention
type ConventionConfig struct {
	// Name identifies the convention
	Name string `json:"name" mapstructure:"name" yaml:"name"`

	// RootDirs are the directories whose structure implies routes
	RootDirs []string `json:"root_dirs" mapstructure:"root_dirs" yaml:"root_dirs"`

	// RouteFileBase restricts route files to a base name; empty means
	// every source file under the root is a route file
	RouteFileBase string `json:"route_file_base,omitempty" mapstructure:"route_file_base" yaml:"route_file_base,omitempty"`

	// IndexBases are base names that map to the parent directory path
	IndexBases []string `json:"index_bases,omitempty" mapstructure:"index_bases" yaml:"index_bases,omitempty"`

	// Params is the parameter syntax: bracket, dollar, or colon
	Params string `json:"params" mapstructure:"params" yaml:"params"`
}

// RoutesConfig holds route recognition configuration
type RoutesConfig struct {
	// MarkupElements are element names recognized as route declarations
	MarkupElements []string `json:"markup_elements" mapstructure:"markup_elements" yaml:"markup_elements"`

	// PathKeys are attribute/property names treated as route paths
	PathKeys []string `json:"path_keys" mapstructure:"path_keys" yaml:"path_keys"`

	// ComponentKeys are property names treated as component references
	ComponentKeys []string `json:"component_keys" mapstructure:"component_keys" yaml:"component_keys"`

	// LazyWrappers are call names that defer a component import
	LazyWrappers []string `json:"lazy_wrappers" mapstructure:"lazy_wrappers" yaml:"lazy_wrappers"`

	// Conventions overrides the built-in file-convention table when set
	Conventions []ConventionConfig `json:"conventions,omitempty" mapstructure:"conventions" yaml:"conventions,omitempty"`

	// DisableLexical turns off the regex fallback pass
	DisableLexical bool `json:"disable_lexical" mapstructure:"disable_lexical" yaml:"disable_lexical"`
}

// ImpactConfig holds traversal configuration
type ImpactConfig struct {
	// MaxDepth bounds the reverse-import traversal
	MaxDepth int `json:"max_depth" mapstructure:"max_depth" yaml:"max_depth"`
}

// CacheConfig holds caching and persistence configuration
type CacheConfig struct {
	// Enabled controls snapshot load and save
	Enabled *bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// Dir is the snapshot directory relative to the project root
	Dir string `json:"dir" mapstructure:"dir" yaml:"dir"`

	// Backend selects the blob store: disk or s3
	Backend string `json:"backend" mapstructure:"backend" yaml:"backend"`

	// S3 configures the object-storage backend
	S3 S3CacheConfig `json:"s3,omitempty" mapstructure:"s3" yaml:"s3,omitempty"`

	// ParseCacheSize is the LRU entry count for parse results
	ParseCacheSize int `json:"parse_cache_size" mapstructure:"parse_cache_size" yaml:"parse_cache_size"`

	// RouteCacheSize is the LRU entry count for per-file route results
	RouteCacheSize int `json:"route_cache_size" mapstructure:"route_cache_size" yaml:"route_cache_size"`

	// ImpactCacheSize is the LRU entry count for memoized queries
	ImpactCacheSize int `json:"impact_cache_size" mapstructure:"impact_cache_size" yaml:"impact_cache_size"`
}

// S3CacheConfig holds object-storage backend settings. Credentials come
// from the environment, never the config file.
type S3CacheConfig struct {
	Endpoint string `json:"endpoint" mapstructure:"endpoint" yaml:"endpoint"`
	Region   string `json:"region" mapstructure:"region" yaml:"region"`
	Bucket   string `json:"bucket" mapstructure:"bucket" yaml:"bucket"`
	Prefix   string `json:"prefix" mapstructure:"prefix" yaml:"prefix"`
	UseSSL   bool   `json:"use_ssl" mapstructure:"use_ssl" yaml:"use_ssl"`
}

// OutputConfig holds output formatting configuration
type OutputConfig struct {
	// Format specifies the output format: text, json
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowProgress controls the progress bar on long builds
	ShowProgress *bool `json:"show_progress" mapstructure:"show_progress" yaml:"show_progress"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	respectGitignore := true
	cacheEnabled := true
	showProgress := true
	return &Config{
		Analysis: AnalysisConfig{
			Extensions:       append([]string(nil), constants.SourceExtensions...),
			ExcludeDirs:      append([]string(nil), constants.DefaultExcludeDirs...),
			RespectGitignore: &respectGitignore,
			MaxFileSize:      constants.DefaultMaxFileSize,
		},
		Resolution: ResolutionConfig{
			AliasPrefixes:  map[string]string{"@/": "src/", "~/": "src/"},
			EntryFileNames: []string{"index", "main", "app", "_app", "App"},
		},
		Routes: RoutesConfig{
			MarkupElements: []string{"Route"},
			PathKeys:       []string{"path"},
			ComponentKeys:  []string{"component", "element", "Component"},
			LazyWrappers:   []string{"lazy", "defineAsyncComponent", "dynamic"},
		},
		Impact: ImpactConfig{
			MaxDepth: constants.DefaultMaxTraversalDepth,
		},
		Cache: CacheConfig{
			Enabled:         &cacheEnabled,
			Dir:             constants.DefaultCacheDir,
			Backend:         "disk",
			ParseCacheSize:  constants.DefaultParseCacheSize,
			RouteCacheSize:  constants.DefaultRouteCacheSize,
			ImpactCacheSize: constants.DefaultImpactCacheSize,
		},
		Output: OutputConfig{
			Format:       "text",
			ShowProgress: &showProgress,
		},
	}
}

// LoadConfig loads configuration from a file, or defaults when path is empty
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context.
// When no explicit path is given, config files are discovered upward
// from the target directory.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

func loadConfigFromFile(configPath string) (*Config, error) {
	config := DefaultConfig()
	if configPath == "" {
		return config, nil
	}

	// A fresh viper instance per load avoids shared state across calls
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// SaveConfig writes the configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// findDefaultConfig looks for configuration files in common locations,
// searching upward from targetPath, then the working directory, then
// the user config directories.
func findDefaultConfig(targetPath string) string {
	candidates := []string{
		constants.ConfigFileName,
		".routelens.yml",
		"routelens.yaml",
		"routelens.yml",
	}

	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}
			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}
				parent := filepath.Dir(dir)
				if parent == dir || dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		if config := searchConfigInDirectory(filepath.Join(home, ".config", constants.ToolName), candidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}
	return ""
}

func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Analysis.MaxFileSize < 0 {
		return fmt.Errorf("analysis.max_file_size must be non-negative, got %d", c.Analysis.MaxFileSize)
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("analysis.workers must be non-negative, got %d", c.Analysis.Workers)
	}
	if c.Impact.MaxDepth < 0 {
		return fmt.Errorf("impact.max_depth must be non-negative, got %d", c.Impact.MaxDepth)
	}
	switch c.Cache.Backend {
	case "", "disk", "s3":
	default:
		return fmt.Errorf("cache.backend must be disk or s3, got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "s3" && c.Cache.S3.Bucket == "" {
		return fmt.Errorf("cache.s3.bucket is required for the s3 backend")
	}
	switch c.Output.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("output.format must be text or json, got %q", c.Output.Format)
	}
	for _, conv := range c.Routes.Conventions {
		if err := validateConvention(conv); err != nil {
			return err
		}
	}
	return nil
}

func validateConvention(conv ConventionConfig) error {
	if conv.Name == "" {
		return fmt.Errorf("routes.conventions entries require a name")
	}
	if len(conv.RootDirs) == 0 {
		return fmt.Errorf("convention %q requires at least one root dir", conv.Name)
	}
	switch conv.Params {
	case "", "bracket", "dollar", "colon":
	default:
		return fmt.Errorf("convention %q: params must be bracket, dollar, or colon, got %q", conv.Name, conv.Params)
	}
	return nil
}

// GitignoreEnabled reports the effective gitignore setting
func (c *AnalysisConfig) GitignoreEnabled() bool {
	return c.RespectGitignore == nil || *c.RespectGitignore
}

// CacheEnabled reports the effective cache setting
func (c *CacheConfig) CacheEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// ProgressEnabled reports the effective progress-bar setting
func (c *OutputConfig) ProgressEnabled() bool {
	return c.ShowProgress == nil || *c.ShowProgress
}
