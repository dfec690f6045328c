package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parsed ASTs keyed by source hash and parser options.
var globalCache sync.Map

// cacheKey identifies one parse result. The 128-bit source hash makes
// accidental collisions negligible.
type cacheKey struct {
	source   xxh3.Uint128
	maxDepth int
}

// cacheEntry parses its source exactly once, even under concurrent lookups.
type cacheEntry struct {
	once sync.Once
	ast  *AST
}

func makeCacheKey(source string, cfg config) cacheKey {
	return cacheKey{
		source:   xxh3.HashString128(source),
		maxDepth: cfg.maxDepth,
	}
}

// loadCached returns the cached AST for source, if one exists.
func loadCached(source string, cfg config) (*AST, bool) {
	value, ok := globalCache.Load(makeCacheKey(source, cfg))
	if !ok {
		return nil, false
	}

	entry, ok := value.(*cacheEntry)
	if !ok || entry.ast == nil {
		return nil, false
	}

	return entry.ast, true
}

// storeCached records a successful parse. Failed parses are never cached.
func storeCached(source string, cfg config, ast *AST) {
	value, _ := globalCache.LoadOrStore(makeCacheKey(source, cfg), new(cacheEntry))

	if entry, ok := value.(*cacheEntry); ok {
		entry.once.Do(func() { entry.ast = ast })
	}
}

// ParseReader parses a feature template read from r.
// The reader is drained through an asynchronous read-ahead buffer.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*AST, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	cfg := makeConfig(opts...)

	cfg.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
		slog.String("source_hash", strconv.FormatUint(xxh3.Hash(data), 16)),
	)

	return ParseString(ctx, string(data), opts...)
}

// ClearCache removes all cached parse results.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
