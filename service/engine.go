package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"

	"github.com/routelens/routelens/domain"
	"github.com/routelens/routelens/internal/analyzer"
	"github.com/routelens/routelens/internal/cache"
	"github.com/routelens/routelens/internal/config"
	"github.com/routelens/routelens/internal/constants"
	"github.com/routelens/routelens/internal/parser"
	"github.com/routelens/routelens/internal/scanner"
)

// Engine owns the analysis state for one project root: the file
// records, the import graph, the route table, and the caches. All
// mutation happens under the write lock; queries that only read the
// graph take the read lock.
type Engine struct {
	mu sync.RWMutex

	root     string
	cfg      *config.Config
	scanner  *scanner.Scanner
	memo     *cache.Memo
	store    cache.BlobStore
	progress domain.ProgressManager

	extractor   *analyzer.RouteExtractor
	parserOpts  parser.Options
	graphConfig *analyzer.GraphBuilderConfig

	builder *analyzer.GraphBuilder
	records map[string]*domain.FileRecord
	routes  map[string][]*domain.RouteDefinition
	graph   *domain.ImportGraph
	mapping *domain.ComponentRouteMapping
	built   bool
}

// NewEngine creates an Engine for a project root. A cache backend that
// cannot be initialized degrades to no persistence rather than failing.
func NewEngine(root string, cfg *config.Config, progress domain.ProgressManager) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if progress == nil {
		progress = &NoOpProgressManager{}
	}

	memo, err := cache.NewMemo(cfg.Cache.ParseCacheSize, cfg.Cache.RouteCacheSize, cfg.Cache.ImpactCacheSize)
	if err != nil {
		return nil, fmt.Errorf("init caches: %w", err)
	}

	s := scanner.New(root, cfg.Analysis.ExcludeDirs)
	if !cfg.Analysis.GitignoreEnabled() {
		s.DisableGitignore()
	}

	e := &Engine{
		root:        root,
		cfg:         cfg,
		scanner:     s,
		memo:        memo,
		progress:    progress,
		extractor:   analyzer.NewRouteExtractor(routeExtractorConfig(cfg)),
		parserOpts:  parserOptions(cfg),
		graphConfig: graphBuilderConfig(cfg),
	}
	if cfg.Cache.CacheEnabled() {
		e.store = openStore(root, cfg)
	}
	return e, nil
}

// Store exposes the snapshot store; nil when caching is disabled or the
// backend failed to initialize
func (e *Engine) Store() cache.BlobStore {
	return e.store
}

func openStore(root string, cfg *config.Config) cache.BlobStore {
	switch cfg.Cache.Backend {
	case "s3":
		store, err := cache.NewS3Store(cache.S3Config{
			Endpoint:  cfg.Cache.S3.Endpoint,
			Region:    cfg.Cache.S3.Region,
			AccessKey: s3Credential("ACCESS_KEY", "AWS_ACCESS_KEY_ID"),
			SecretKey: s3Credential("SECRET_KEY", "AWS_SECRET_ACCESS_KEY"),
			Bucket:    cfg.Cache.S3.Bucket,
			Prefix:    cfg.Cache.S3.Prefix,
			UseSSL:    cfg.Cache.S3.UseSSL,
		})
		if err != nil {
			return nil
		}
		return store
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			dir = constants.DefaultCacheDir
		}
		store, err := cache.NewDiskStore(filepath.Join(root, dir))
		if err != nil {
			return nil
		}
		return store
	}
}

func s3Credential(suffix, awsName string) string {
	if v := os.Getenv(constants.EnvVarPrefix + "_S3_" + suffix); v != "" {
		return v
	}
	return os.Getenv(awsName)
}

func parserOptions(cfg *config.Config) parser.Options {
	return parser.Options{
		MaxFileSize:   cfg.Analysis.MaxFileSize,
		PathKeys:      cfg.Routes.PathKeys,
		ComponentKeys: cfg.Routes.ComponentKeys,
		LazyWrappers:  cfg.Routes.LazyWrappers,
	}
}

func routeExtractorConfig(cfg *config.Config) *analyzer.RouteExtractorConfig {
	out := analyzer.DefaultRouteExtractorConfig()
	if len(cfg.Routes.MarkupElements) > 0 {
		out.MarkupElements = cfg.Routes.MarkupElements
	}
	if len(cfg.Routes.PathKeys) > 0 {
		out.PathKeys = cfg.Routes.PathKeys
	}
	if len(cfg.Routes.ComponentKeys) > 0 {
		out.ComponentKeys = cfg.Routes.ComponentKeys
	}
	out.DisableLexical = cfg.Routes.DisableLexical
	if len(cfg.Routes.Conventions) > 0 {
		conventions := make([]analyzer.FileConvention, 0, len(cfg.Routes.Conventions))
		for _, c := range cfg.Routes.Conventions {
			conventions = append(conventions, analyzer.FileConvention{
				Name:          c.Name,
				RootDirs:      c.RootDirs,
				RouteFileBase: c.RouteFileBase,
				IndexBases:    c.IndexBases,
				Params:        paramStyle(c.Params),
			})
		}
		out.Conventions = conventions
	}
	return out
}

func paramStyle(name string) analyzer.ParamStyle {
	switch name {
	case "dollar":
		return analyzer.ParamStyleDollar
	case "colon":
		return analyzer.ParamStyleColon
	default:
		return analyzer.ParamStyleBracket
	}
}

func graphBuilderConfig(cfg *config.Config) *analyzer.GraphBuilderConfig {
	out := analyzer.DefaultGraphBuilderConfig()
	if len(cfg.Resolution.AliasPrefixes) > 0 {
		out.AliasPrefixes = cfg.Resolution.AliasPrefixes
	}
	if len(cfg.Resolution.EntryFileNames) > 0 {
		out.EntryFileNames = cfg.Resolution.EntryFileNames
	}
	return out
}

// parseOutcome is what one file contributes to a build
type parseOutcome struct {
	record *domain.FileRecord
	routes []*domain.RouteDefinition
}

// parseTask parses a single file; it never fails the batch, degraded
// files come back as skipped records
type parseTask struct {
	engine *Engine
	path   string
	out    *parseOutcome
}

func (t *parseTask) Name() string { return t.path }

func (t *parseTask) IsEnabled() bool { return true }

func (t *parseTask) Execute(ctx context.Context) (interface{}, error) {
	record, routes := t.engine.parseOne(ctx, t.path)
	t.out.record = record
	t.out.routes = routes
	return nil, nil
}

// parseOne reads, hashes, parses, and route-extracts one file, going
// through the memo so unchanged content is never parsed twice
func (e *Engine) parseOne(ctx context.Context, rel string) (*domain.FileRecord, []*domain.RouteDefinition) {
	content, err := e.scanner.Read(rel)
	if err != nil {
		return &domain.FileRecord{
			Path:       rel,
			Skipped:    true,
			SkipReason: fmt.Sprintf("unreadable: %v", err),
		}, nil
	}

	hash := cache.HashBytes(content)
	routeKey := rel + "\x00" + hash

	// Route results are keyed per path because convention routes derive
	// from the location; both caches must hit to skip the parse
	if cached, ok := e.memo.GetParse(hash); ok {
		if routes, ok := e.memo.GetRoutes(routeKey); ok {
			record := *cached
			record.Path = rel
			record.DefinesRoutes = len(routes) > 0
			return &record, routes
		}
	}

	result, err := parser.ParseForFile(ctx, rel, content, e.parserOpts)
	if err != nil {
		return &domain.FileRecord{
			Path:        rel,
			ContentHash: hash,
			Skipped:     true,
			SkipReason:  fmt.Sprintf("parse failure: %v", err),
		}, nil
	}

	record := &domain.FileRecord{
		Path:        rel,
		ContentHash: hash,
		Imports:     result.Imports,
		Exports:     result.Exports,
		Issues:      result.Issues,
		Skipped:     result.Skipped,
		SkipReason:  result.SkipReason,
	}

	routes := e.extractRoutes(rel, result, content, record)
	record.DefinesRoutes = len(routes) > 0

	e.memo.PutParse(hash, record)
	e.memo.PutRoutes(routeKey, routes)
	return record, routes
}

func (e *Engine) extractRoutes(rel string, result *parser.Result, content []byte, record *domain.FileRecord) []*domain.RouteDefinition {
	// Skipped files get no lexical pass over their bytes; convention
	// routes still apply since they derive from the path alone
	if record.Skipped {
		return e.extractor.Extract(rel, nil, nil)
	}
	return e.extractor.Extract(rel, result, content)
}

// Build scans, parses, and assembles the import graph and route table.
// With a valid snapshot only changed files are re-parsed.
func (e *Engine) Build(ctx context.Context, req domain.BuildRequest) (*domain.BuildResponse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buildLocked(ctx, req)
}

func (e *Engine) buildLocked(ctx context.Context, req domain.BuildRequest) (*domain.BuildResponse, error) {
	var warnings []string

	files, err := e.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", e.root, err)
	}

	// Previous state to diff against: in-memory first, then snapshot
	prevRecords := e.records
	prevRoutes := e.routes
	snapshotLoaded := false
	if prevRecords == nil && e.store != nil && !req.NoCache {
		snapshot, err := cache.LoadSnapshot(ctx, e.store)
		switch {
		case err == nil:
			prevRecords = snapshot.Records
			prevRoutes = groupRoutes(snapshot.Routes)
			snapshotLoaded = true
		case errors.Is(err, cache.ErrNotFound):
		default:
			warnings = append(warnings, fmt.Sprintf("snapshot discarded: %v", err))
		}
	}

	records := make(map[string]*domain.FileRecord, len(files))
	routes := make(map[string][]*domain.RouteDefinition)

	// Reuse records whose content hash is unchanged; everything else is
	// queued for parsing
	var pending []string
	for _, rel := range files {
		prev := prevRecords[rel]
		if prev == nil || prev.ContentHash == "" {
			pending = append(pending, rel)
			continue
		}
		content, err := e.scanner.Read(rel)
		if err != nil || cache.HashBytes(content) != prev.ContentHash {
			pending = append(pending, rel)
			continue
		}
		records[rel] = prev
		if rs := prevRoutes[rel]; len(rs) > 0 {
			routes[rel] = rs
		}
	}

	if len(pending) > 0 {
		outcomes := make([]parseOutcome, len(pending))
		tasks := make([]domain.ExecutableTask, len(pending))
		for i, rel := range pending {
			tasks[i] = &parseTask{engine: e, path: rel, out: &outcomes[i]}
		}
		executor := NewParallelExecutorWithProgress(&e.cfg.Analysis, e.progress)
		if err := executor.Execute(ctx, tasks); err != nil {
			warnings = append(warnings, err.Error())
		}
		for _, outcome := range outcomes {
			if outcome.record == nil {
				continue
			}
			records[outcome.record.Path] = outcome.record
			if len(outcome.routes) > 0 {
				routes[outcome.record.Path] = outcome.routes
			}
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	e.builder = analyzer.NewGraphBuilder(e.graphConfig, files)
	e.graph = e.builder.Build(records)
	// The fresh graph restarts revisions at zero, so memoized impact
	// results keyed against the old graph must not survive the rebuild
	e.memo.PurgeImpact()
	e.records = records
	e.routes = routes
	e.resolveLocked()
	e.built = true

	// Conventional bootstrap files count as entry points even when a
	// test imports them
	for p, node := range e.graph.Nodes {
		if e.builder.IsConventionalEntry(p) && node.Record != nil {
			node.Record.IsEntryPoint = true
		}
	}

	for _, rel := range pending {
		if record := records[rel]; record != nil && record.Skipped {
			warnings = append(warnings, fmt.Sprintf("%s skipped: %s", rel, record.SkipReason))
		}
	}

	if e.store != nil && !req.NoSave {
		if err := cache.SaveSnapshot(ctx, e.store, e.records, e.allRoutes()); err != nil {
			warnings = append(warnings, fmt.Sprintf("snapshot not saved: %v", err))
		}
	}

	resp := &domain.BuildResponse{
		Files:       len(records),
		Edges:       e.graph.EdgeCount(),
		Routes:      len(e.allRoutes()),
		EntryPoints: e.countEntryPoints(),
		FromCache:   snapshotLoaded && len(pending) == 0,
		Reparsed:    len(pending),
		Warnings:    warnings,
	}
	if req.ListRoutes {
		resp.RouteTable = e.allRoutes()
	}
	return resp, nil
}

// resolveLocked recomputes component resolution and the route mapping.
// Caller holds the write lock.
func (e *Engine) resolveLocked() {
	resolver := analyzer.NewComponentResolver(e.builder.Resolver(), e.records)
	e.mapping = resolver.ResolveAll(e.allRoutes())
}

// allRoutes flattens the per-file route map, ordered by defining file
// then route path for deterministic output
func (e *Engine) allRoutes() []*domain.RouteDefinition {
	var out []*domain.RouteDefinition
	for _, rs := range e.routes {
		out = append(out, rs...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DefiningFile != out[j].DefiningFile {
			return out[i].DefiningFile < out[j].DefiningFile
		}
		return out[i].RoutePath < out[j].RoutePath
	})
	return out
}

func (e *Engine) countEntryPoints() int {
	count := 0
	for _, node := range e.graph.Nodes {
		if node.Record != nil && node.Record.IsEntryPoint {
			count++
		}
	}
	return count
}

// Impact applies the changed set to the graph and reports the affected
// routes per changed file
func (e *Engine) Impact(ctx context.Context, req domain.ImpactRequest) (*domain.ImpactResponse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var warnings []string
	if !e.built {
		buildResp, err := e.buildLocked(ctx, domain.BuildRequest{
			RootDir: req.RootDir,
			NoCache: req.NoCache,
		})
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, buildResp.Warnings...)
	}

	changed := normalizeChanged(req.ChangedFiles)

	// Re-parse changed files that still exist; collect deletions
	var removed []string
	mutated := false
	for _, rel := range changed {
		if !e.scanner.Exists(rel) {
			if _, known := e.records[rel]; known {
				removed = append(removed, rel)
			}
			continue
		}
		record, fileRoutes := e.parseOne(ctx, rel)
		if prev := e.records[rel]; prev != nil && prev.ContentHash == record.ContentHash && record.ContentHash != "" {
			continue
		}
		if _, known := e.records[rel]; !known {
			e.builder.Resolver().Add(rel)
		}
		e.records[rel] = record
		if len(fileRoutes) > 0 {
			e.routes[rel] = fileRoutes
		} else {
			delete(e.routes, rel)
		}
		e.builder.Refresh(e.graph, record)
		mutated = true
	}
	if mutated {
		e.resolveLocked()
	}

	maxDepth := req.MaxDepth
	if maxDepth <= 0 {
		maxDepth = e.cfg.Impact.MaxDepth
	}

	// Deletions are analyzed against the pre-removal graph so the
	// routes that depended on the file are still reported
	key := cache.ImpactKey(e.graph.Revision, changed, maxDepth)
	result, ok := e.memo.GetImpact(key)
	if !ok {
		engine := analyzer.NewImpactEngine(e.graph, e.mapping, maxDepth)
		result = engine.Analyze(changed)
		e.memo.PutImpact(key, result)
	}
	if result.Partial {
		warnings = append(warnings, fmt.Sprintf("%v at depth %d: results may be incomplete", domain.ErrMaxDepthExceeded, maxDepth))
	}

	if len(removed) > 0 {
		for _, rel := range removed {
			e.builder.Remove(e.graph, rel)
			delete(e.records, rel)
			delete(e.routes, rel)
		}
		e.resolveLocked()
		if e.store != nil && !req.NoCache {
			if err := cache.SaveSnapshot(ctx, e.store, e.records, e.allRoutes()); err != nil {
				warnings = append(warnings, fmt.Sprintf("snapshot not saved: %v", err))
			}
		}
	}

	return &domain.ImpactResponse{
		Result:   result,
		Removed:  removed,
		Warnings: warnings,
	}, nil
}

// ClearCache drops the in-memory caches and the persisted snapshot
func (e *Engine) ClearCache(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.memo.Purge()
	e.records = nil
	e.routes = nil
	e.graph = nil
	e.mapping = nil
	e.built = false

	if e.store == nil {
		return nil
	}
	return cache.ClearSnapshot(ctx, e.store)
}

// Routes returns the current route table; builds first when needed
func (e *Engine) Routes(ctx context.Context) ([]*domain.RouteDefinition, error) {
	e.mu.RLock()
	if e.built {
		defer e.mu.RUnlock()
		return e.allRoutes(), nil
	}
	e.mu.RUnlock()

	if _, err := e.Build(ctx, domain.BuildRequest{RootDir: e.root}); err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.allRoutes(), nil
}

func groupRoutes(routes []*domain.RouteDefinition) map[string][]*domain.RouteDefinition {
	out := make(map[string][]*domain.RouteDefinition)
	for _, route := range routes {
		out[route.DefiningFile] = append(out[route.DefiningFile], route)
	}
	return out
}

func normalizeChanged(changedFiles []string) []string {
	seen := make(map[string]bool, len(changedFiles))
	out := make([]string, 0, len(changedFiles))
	for _, f := range changedFiles {
		rel := path.Clean(filepath.ToSlash(f))
		if rel == "" || rel == "." || seen[rel] {
			continue
		}
		seen[rel] = true
		out = append(out, rel)
	}
	sort.Strings(out)
	return out
}
