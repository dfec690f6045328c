package lang

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
)

func TestParseString_Cache(t *testing.T) {
	ClearCache()

	ctx := context.Background()
	source := "n(0){m(1) m(2)} poly(2, m, n, o)"

	first, err := ParseString(ctx, source)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	second, err := ParseString(ctx, source)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	if first != second {
		t.Error("expected cached AST to be shared")
	}

	uncached, err := ParseString(ctx, source, WithCache(false))
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	if uncached == first {
		t.Error("expected a fresh AST with caching disabled")
	}

	if !uncached.Equal(first) {
		t.Error("cached and fresh ASTs differ")
	}

	deeper, err := ParseString(ctx, source, WithMaxDepth(DefaultMaxDepth+1))
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	if deeper == first {
		t.Error("expected parser options to be part of the cache key")
	}

	ClearCache()

	third, err := ParseString(ctx, source)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	if third == first {
		t.Error("expected ClearCache to drop cached ASTs")
	}
}

func TestParseString_CacheSkipsErrors(t *testing.T) {
	ClearCache()

	for range 2 {
		_, err := ParseString(context.Background(), "n(0")
		if !errors.Is(err, ErrParse) {
			t.Fatalf("expected ErrParse, got %v", err)
		}
	}
}

func TestParseString_CacheConcurrent(t *testing.T) {
	ClearCache()

	const workers = 16

	var (
		wg   sync.WaitGroup
		asts = make([]*AST, workers)
		errs = make([]error, workers)
	)

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			asts[i], errs[i] = ParseString(context.Background(), "seq(a, b){c d}")
		}()
	}

	wg.Wait()

	for i := range workers {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}

		if !asts[i].Equal(asts[0]) {
			t.Errorf("worker %d: got %s, want %s", i, asts[i], asts[0])
		}
	}
}

func TestParseReader(t *testing.T) {
	ClearCache()

	source := "n(0), m(1)\np(1, 2)"

	fromString, err := ParseString(context.Background(), source)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}

	fromReader, err := ParseReader(context.Background(), strings.NewReader(source))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}

	if fromReader != fromString {
		t.Error("expected ParseReader to share the cached AST")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestParseReader_ReadError(t *testing.T) {
	_, err := ParseReader(context.Background(), failingReader{})
	if !errors.Is(err, ErrReadInput) {
		t.Fatalf("expected ErrReadInput, got %v", err)
	}

	if !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
}
