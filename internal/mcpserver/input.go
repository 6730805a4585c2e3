package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erraggy/xsdflat/document"
	"github.com/erraggy/xsdflat/flatten"
)

// documentInput is one XSD or WSDL document. Exactly one of File or Content
// must be set.
type documentInput struct {
	Name    string `json:"name,omitempty"    jsonschema:"Name used in issues; defaults to the file path or document index"`
	File    string `json:"file,omitempty"    jsonschema:"Path to an XSD or WSDL file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline XSD or WSDL document text"`
}

// conversionInput carries the documents and conversion options shared by
// every tool. Tool inputs declare the fields themselves so each tool schema
// stays flat.
type conversionInput struct {
	Documents          []documentInput
	Name               string
	Version            string
	Scope              string
	MaxDepth           int
	ResolveSimpleTypes bool
}

// sources loads every document into a source list.
func (in conversionInput) sources() ([]document.Source, error) {
	if len(in.Documents) == 0 {
		return nil, fmt.Errorf("at least one document must be provided")
	}
	if len(in.Documents) > cfg.MaxDocuments {
		return nil, fmt.Errorf("%d documents exceeds maximum %d; set XSDFLAT_MAX_DOCUMENTS to increase", len(in.Documents), cfg.MaxDocuments)
	}

	sources := make([]document.Source, 0, len(in.Documents))
	for i, d := range in.Documents {
		src, err := d.source(i)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func (d documentInput) source(i int) (document.Source, error) {
	if (d.File == "") == (d.Content == "") {
		return document.Source{}, fmt.Errorf("document %d: exactly one of file or content must be provided", i)
	}

	name := d.Name
	if d.Content != "" {
		if int64(len(d.Content)) > cfg.MaxInlineSize {
			return document.Source{}, fmt.Errorf("document %d: inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set XSDFLAT_MAX_INLINE_SIZE to increase",
				i, len(d.Content), cfg.MaxInlineSize)
		}
		if name == "" {
			name = "document" + strconv.Itoa(i+1)
		}
		return document.Source{Name: name, Text: d.Content}, nil
	}

	data, err := os.ReadFile(filepath.Clean(d.File))
	if err != nil {
		return document.Source{}, fmt.Errorf("document %d: %w", i, err)
	}
	if name == "" {
		name = filepath.Base(d.File)
	}
	return document.Source{Name: name, Text: string(data)}, nil
}

// options maps the input onto flatten options, filling server defaults.
func (in conversionInput) options() []flatten.Option {
	name := in.Name
	if name == "" {
		name = cfg.SchemaName
	}
	version := in.Version
	if version == "" {
		version = cfg.SchemaVersion
	}
	scope := in.Scope
	if scope == "" {
		scope = cfg.Scope
	}
	depth := in.MaxDepth
	if depth <= 0 {
		depth = cfg.MaxDepth
	}
	return []flatten.Option{
		flatten.WithName(name),
		flatten.WithVersion(version),
		flatten.WithScopeName(scope),
		flatten.WithMaxDepth(depth),
		flatten.WithResolveSimpleTypes(in.ResolveSimpleTypes),
	}
}

// convert runs the conversion, consulting the result cache first.
func (in conversionInput) convert() (*flatten.Result, error) {
	sources, err := in.sources()
	if err != nil {
		return nil, err
	}

	var key string
	if cfg.CacheEnabled {
		key = makeCacheKey(in, sources)
		if cached := resultCache.get(key); cached != nil {
			return cached, nil
		}
	}

	result, err := flatten.Convert(sources, in.options()...)
	if err != nil {
		return nil, err
	}
	if key != "" {
		resultCache.putWithTTL(key, result, cfg.CacheTTL)
	}
	return result, nil
}

// makeCacheKey hashes the effective options and every source, so a file
// edited on disk produces a new key.
func makeCacheKey(in conversionInput, sources []document.Source) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%d\x00%t\x00", in.Name, in.Version, in.Scope, in.MaxDepth, in.ResolveSimpleTypes)
	for _, src := range sources {
		fmt.Fprintf(h, "%d:%s\x00%d:%s\x00", len(src.Name), src.Name, len(src.Text), src.Text)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// cacheEntry holds a cached conversion result with LRU ordering and TTL expiry.
type cacheEntry struct {
	result    *flatten.Result
	insertAt  time.Time
	expiresAt time.Time
}

// resultCacheStore provides a session-scoped cache of conversion results.
// Entries expire after their TTL and a background sweeper removes them.
// Cached results are shared between calls and must not be modified.
type resultCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var resultCache = &resultCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns a cached result or nil. Expired entries are lazily removed.
func (c *resultCacheStore) get(key string) *flatten.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		// Touch entry for LRU.
		e.insertAt = time.Now()
		return e.result
	}
	return nil
}

// putWithTTL stores a result with a specific TTL, evicting the oldest entry if at capacity.
func (c *resultCacheStore) putWithTTL(key string, result *flatten.Result, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{result: result, insertAt: now, expiresAt: now.Add(ttl)}

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}

	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *resultCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes expired entries.
// It is safe to call multiple times; only the first call spawns a sweeper.
// It stops when ctx is cancelled.
func (c *resultCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *resultCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *resultCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
