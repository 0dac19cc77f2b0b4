package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/jtl/log"
)

// Parsed is the result of scanning and parsing one source text.
type Parsed struct {
	Document *Document
	// Source is nil if scanning failed.
	Source      *Source
	Diagnostics []Diagnostic
	// LexErr is the scan failure, if any.
	LexErr error
}

// Analyze scans and parses source text without caching.
func Analyze(source string) *Parsed {
	p := &Parsed{Document: NewDocument(source)}

	tokens, err := Scan(source)
	if err != nil {
		p.LexErr = err

		return p
	}

	p.Source, p.Diagnostics = Parse(tokens)

	return p
}

// Err returns the scan failure, a [*ParseError] if any diagnostics were
// produced, or nil.
func (p *Parsed) Err() error {
	if p.LexErr != nil {
		return p.LexErr
	}

	if len(p.Diagnostics) > 0 {
		return &ParseError{Diagnostics: p.Diagnostics, Source: p.Document.Content()}
	}

	return nil
}

// Cache memoizes [Analyze] by source text. Entries are keyed by the xxh3 hash
// of the source and each source is parsed at most once. A Cache is safe for
// concurrent use; the zero value is ready to use.
type Cache struct {
	entries sync.Map // uint64 -> *cacheEntry
	logger  log.Logger
}

type cacheEntry struct {
	once   sync.Once
	source string
	parsed *Parsed
}

// NewCache returns an empty Cache that traces lookups to logger.
func NewCache(logger log.Logger) *Cache {
	return &Cache{logger: logger}
}

// Parse returns the memoized analysis of source.
func (c *Cache) Parse(ctx context.Context, source string) *Parsed {
	key := xxh3.HashString(source)

	value, hit := c.entries.LoadOrStore(key, &cacheEntry{source: source})

	entry, ok := value.(*cacheEntry)
	if !ok || entry.source != source {
		// Hash collision; do not displace the resident entry.
		c.logger.DebugContext(ctx, "cache collision",
			slog.String("hash", strconv.FormatUint(key, 16)),
		)

		return Analyze(source)
	}

	c.logger.TraceContext(ctx, "cache lookup",
		slog.String("hash", strconv.FormatUint(key, 16)),
		slog.Bool("cache_hit", hit),
	)

	entry.once.Do(func() {
		entry.parsed = Analyze(source)
	})

	return entry.parsed
}

// Len returns the number of cached sources.
func (c *Cache) Len() int {
	n := 0

	c.entries.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}

// Evict removes the cached analysis of source, if present.
func (c *Cache) Evict(source string) {
	key := xxh3.HashString(source)

	value, ok := c.entries.Load(key)
	if !ok {
		return
	}

	if entry, ok := value.(*cacheEntry); ok && entry.source == source {
		c.entries.CompareAndDelete(key, value)
	}
}

// Clear removes all cached sources.
func (c *Cache) Clear() {
	c.entries.Clear()
}
