package cache

import (
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/routelens/routelens/domain"
	"github.com/routelens/routelens/internal/constants"
)

// Memo holds the in-process caches. Parse and route results are keyed
// by content hash; impact results additionally carry the graph revision
// so any mutation invalidates them wholesale.
type Memo struct {
	parse  *lru.Cache[string, *domain.FileRecord]
	routes *lru.Cache[string, []*domain.RouteDefinition]
	impact *lru.Cache[string, *domain.ImpactResult]
}

// NewMemo creates the cache set with the given entry counts; zero or
// negative sizes select the defaults.
func NewMemo(parseSize, routeSize, impactSize int) (*Memo, error) {
	if parseSize <= 0 {
		parseSize = constants.DefaultParseCacheSize
	}
	if routeSize <= 0 {
		routeSize = constants.DefaultRouteCacheSize
	}
	if impactSize <= 0 {
		impactSize = constants.DefaultImpactCacheSize
	}

	parse, err := lru.New[string, *domain.FileRecord](parseSize)
	if err != nil {
		return nil, err
	}
	routes, err := lru.New[string, []*domain.RouteDefinition](routeSize)
	if err != nil {
		return nil, err
	}
	impact, err := lru.New[string, *domain.ImpactResult](impactSize)
	if err != nil {
		return nil, err
	}
	return &Memo{parse: parse, routes: routes, impact: impact}, nil
}

// GetParse returns the cached record for a content hash
func (m *Memo) GetParse(contentHash string) (*domain.FileRecord, bool) {
	return m.parse.Get(contentHash)
}

// PutParse caches a parsed record under its content hash
func (m *Memo) PutParse(contentHash string, record *domain.FileRecord) {
	m.parse.Add(contentHash, record)
}

// GetRoutes returns the cached route definitions for a content hash
func (m *Memo) GetRoutes(contentHash string) ([]*domain.RouteDefinition, bool) {
	return m.routes.Get(contentHash)
}

// PutRoutes caches a file's route definitions under its content hash
func (m *Memo) PutRoutes(contentHash string, routes []*domain.RouteDefinition) {
	m.routes.Add(contentHash, routes)
}

// ImpactKey derives the memo key for an impact query: graph revision
// plus the changed set, so identical queries against an unchanged graph
// hit, and any graph mutation misses.
func ImpactKey(revision uint64, changedFiles []string, maxDepth int) string {
	parts := make([]string, 0, len(changedFiles)+2)
	parts = append(parts, strconv.FormatUint(revision, 10), strconv.Itoa(maxDepth))
	parts = append(parts, changedFiles...)
	return HashStrings(parts)
}

// GetImpact returns a memoized impact result
func (m *Memo) GetImpact(key string) (*domain.ImpactResult, bool) {
	return m.impact.Get(key)
}

// PutImpact memoizes an impact result
func (m *Memo) PutImpact(key string, result *domain.ImpactResult) {
	m.impact.Add(key, result)
}

// PurgeImpact empties the impact cache. Revision keys are only unique
// within one graph instance, so a replaced graph invalidates them all.
func (m *Memo) PurgeImpact() {
	m.impact.Purge()
}

// Purge empties every cache level
func (m *Memo) Purge() {
	m.parse.Purge()
	m.routes.Purge()
	m.impact.Purge()
}
